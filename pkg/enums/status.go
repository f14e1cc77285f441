package enums

import (
	"fmt"
	"strings"
)

// EntityStatus is the publication state shared by brands and products.
type EntityStatus string

const (
	EntityStatusActive  EntityStatus = "ACTIVE"
	EntityStatusDraft   EntityStatus = "DRAFT"
	EntityStatusArchive EntityStatus = "ARCHIVE"
)

var validEntityStatuses = []EntityStatus{
	EntityStatusActive,
	EntityStatusDraft,
	EntityStatusArchive,
}

// String implements fmt.Stringer.
func (s EntityStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known EntityStatus.
func (s EntityStatus) IsValid() bool {
	for _, candidate := range validEntityStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseEntityStatus converts raw input into an EntityStatus. Matching is case-insensitive.
func ParseEntityStatus(value string) (EntityStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validEntityStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid status %q", value)
}
