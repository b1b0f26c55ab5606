package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Domain error kinds. Services wrap these with context via %w so
// callers classify with errors.Is and users still get a readable
// message.
var (
	ErrValidation    = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyMember = errors.New("already a member of this group")
	ErrGroupFull     = errors.New("study group is full")
	ErrNotMember     = errors.New("not a member of this group")
	ErrPermission    = errors.New("not authorized")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

func notFoundError(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

// asNotFound converts a gorm record-not-found into the domain kind;
// other errors pass through untouched.
func asNotFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundError(what)
	}
	return err
}

// asNotMember maps a missing participant row to ErrNotMember.
func asNotMember(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotMember
	}
	return err
}
