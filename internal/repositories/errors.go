package repositories

import "errors"

// Sentinel errors returned (wrapped) by every repository implementation.
// Callers compare with errors.Is.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)
