package usecase

import "errors"

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrFullNameRequired   = errors.New("full name is required")
	ErrInvalidBirthday    = errors.New("birthday must be formatted as YYYY-MM-DD")
	ErrPasswordTooLong    = errors.New("must be at most 72 bytes")
)
