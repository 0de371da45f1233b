package services

import (
	"errors"
	"fmt"
)

// Errors returned (wrapped) by services in addition to the repository sentinels.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account is locked")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrIllegalTransition  = errors.New("illegal order status transition")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
