package services

import (
	"errors"

	"github.com/campus-hub/student-registry/internal/repositories"
)

var (
	// ErrStudentNotFound is returned when an id resolves no record.
	ErrStudentNotFound = errors.New("student not found")

	// ErrInvalidID is returned when an id is not a well-formed identifier.
	ErrInvalidID = errors.New("invalid student id")
)

// User-facing uniqueness messages.
const (
	MsgRollNumberUnique = "Roll Number must be unique."
	MsgEmailUnique      = "Email must be unique."
)

// ConflictMessage translates a store failure into a user-facing uniqueness
// message. When both fields conflict the email message wins: it is
// evaluated last and overwrites the roll-number message. Non-conflict
// failures return false and keep their own description.
func ConflictMessage(err error) (string, bool) {
	ce, ok := repositories.IsConflictError(err)
	if !ok {
		return "", false
	}

	var message string
	if ce.Has(repositories.ConflictFieldRollNumber) {
		message = MsgRollNumberUnique
	}
	if ce.Has(repositories.ConflictFieldEmail) {
		message = MsgEmailUnique
	}
	if message == "" {
		return "", false
	}
	return message, true
}
