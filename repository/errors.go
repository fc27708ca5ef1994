package repository

import "errors"

// Sentinel errors returned by the repositories. Controllers translate these
// into HTTP statuses with errors.Is instead of matching message substrings.
var (
	ErrTaskNotFound = errors.New("task not found")
	ErrUserNotFound = errors.New("user not found")
	ErrNotAllowed   = errors.New("not allowed")
	ErrEmailTaken   = errors.New("email already in use")
)
