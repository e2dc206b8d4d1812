package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup resolves no record.
var ErrNotFound = errors.New("record not found")

// Conflict field names, as reported by ConflictError.Fields. They match the
// external form field names so callers can translate without a lookup table.
const (
	ConflictFieldRollNumber = "rollNumber"
	ConflictFieldEmail      = "email"
)

// ConflictError signals a uniqueness violation on create or update, naming
// every conflicting field. It replaces driver-specific duplicate-key error
// parsing with a structured result produced by an explicit pre-write check.
type ConflictError struct {
	Fields []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("uniqueness conflict on %s", strings.Join(e.Fields, ", "))
}

// Has reports whether the given field is among the conflicting ones.
func (e *ConflictError) Has(field string) bool {
	for _, f := range e.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// IsNotFoundError reports whether err represents a missing record, from
// either this package or gorm directly.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsConflictError reports whether err is a uniqueness conflict, returning
// the structured error for field inspection.
func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
