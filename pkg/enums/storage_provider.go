package enums

import "fmt"

// StorageProvider identifies which object store holds a media asset.
type StorageProvider string

const (
	StorageProviderCloudinary StorageProvider = "cloudinary"
	StorageProviderGCS        StorageProvider = "gcs"
	StorageProviderSupabase   StorageProvider = "supabase"
	// StorageProviderExternal marks assets registered from a bare URL.
	StorageProviderExternal StorageProvider = "external"
)

var validStorageProviders = []StorageProvider{
	StorageProviderCloudinary,
	StorageProviderGCS,
	StorageProviderSupabase,
	StorageProviderExternal,
}

// String implements fmt.Stringer.
func (p StorageProvider) String() string {
	return string(p)
}

// IsValid reports whether the value is a known StorageProvider.
func (p StorageProvider) IsValid() bool {
	for _, candidate := range validStorageProviders {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseStorageProvider converts raw input into a StorageProvider.
func ParseStorageProvider(value string) (StorageProvider, error) {
	for _, candidate := range validStorageProviders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid storage provider %q", value)
}
