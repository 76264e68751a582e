package services

import "errors"

var (
	// ErrNotFound indicates the referenced user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrEmailTaken indicates a sign-up conflict on the email column.
	ErrEmailTaken = errors.New("email already exists")

	// ErrUsernameTaken indicates a sign-up conflict on the username column.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrInvalidCredentials is returned for any failed sign-in attempt. It is
	// deliberately generic so callers cannot tell which credential was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
