package service

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not_found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrNoHousehold        = errors.New("no_household")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	// ErrInvalid wraps validation failures; handlers map it to 400.
	ErrInvalid = errors.New("invalid_input")
)

// translateErr remaps persistence errors to the domain taxonomy:
// unique-constraint violations become conflicts, missing rows become
// not-found. Anything else is surfaced unchanged (an unexpected failure).
func translateErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return err
	}
}
