// Package storage defines the object store surface media uploads go through.
// Backends live in subpackages; provider.New picks one from config.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/alcotrade/alcotrade-cms/pkg/enums"
)

// ErrNotFound is returned by backends that can tell a missing object apart.
// Delete treats it as success.
var ErrNotFound = errors.New("storage object not found")

// PutInput describes one object to store.
type PutInput struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	// Folder and Name together form the public id. Name is generated when
	// empty.
	Folder    string
	Name      string
	Extension string
	Overwrite bool
}

// Object is what a backend reports after a successful Put.
type Object struct {
	URL      string
	PublicID string
	Width    int
	Height   int
	Format   string
	Bytes    int64
	// Version is zero for backends that do not version objects.
	Version int64
}

// ObjectStore is implemented by every media backend.
type ObjectStore interface {
	Provider() enums.StorageProvider
	Put(ctx context.Context, in PutInput) (Object, error)
	Delete(ctx context.Context, publicID string) error
}

// JoinKey builds a slash separated object key from folder and name, dropping
// empty and duplicate separators.
func JoinKey(folder, name string) string {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	name = strings.Trim(strings.TrimSpace(name), "/")
	switch {
	case folder == "":
		return name
	case name == "":
		return folder
	}
	return path.Join(folder, name)
}

// SplitPublicID separates an explicit public id into folder and name. A bare
// name lands in defaultFolder.
func SplitPublicID(publicID, defaultFolder string) (folder, name string) {
	cleaned := strings.Trim(strings.TrimSpace(publicID), "/")
	if cleaned == "" {
		return defaultFolder, ""
	}
	idx := strings.LastIndex(cleaned, "/")
	if idx < 0 {
		return defaultFolder, cleaned
	}
	folder, name = cleaned[:idx], cleaned[idx+1:]
	if folder == "" {
		folder = defaultFolder
	}
	return folder, name
}
