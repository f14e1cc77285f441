package db

import (
	"strings"

	pkgerrors "github.com/alcotrade/alcotrade-cms/pkg/errors"
)

// IsUniqueViolation reports whether err is a unique constraint failure. When
// constraintName is provided the violated constraint must match it.
// sqlite surfaces these as plain text, so message matching is the fallback.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if pkgerrors.PGCode(err) == pkgerrors.PGUniqueViolation {
		return constraintName == "" || pkgerrors.PGConstraint(err) == constraintName
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether err was caused by a foreign key constraint.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if pkgerrors.PGCode(err) == pkgerrors.PGForeignKeyViolation {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "violates foreign key constraint") || strings.Contains(msg, "FOREIGN KEY constraint failed")
}
