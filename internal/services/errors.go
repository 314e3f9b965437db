package services

import (
	"github.com/pkg/errors"
)

var (
	// ErrInsufficientCredit means the owner has no track credit left.
	ErrInsufficientCredit = errors.New("not enough credits to add a new track")
	// ErrNotOwner means the caller does not own the project.
	ErrNotOwner = errors.New("caller does not own the project")
	// ErrProjectInactive means the project does not accept changes right now.
	ErrProjectInactive = errors.New("project is not accepting changes")
	// ErrNotFound means the row does not exist or is not visible to the caller.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the caller may not read the requested file.
	ErrForbidden = errors.New("access to file denied")
	// ErrUnauthenticated means no user matches the presented token.
	ErrUnauthenticated = errors.New("invalid or missing API token")
	// ErrUsernameTaken means a user with the same username exists.
	ErrUsernameTaken = errors.New("username already taken")
)

// ValidationError is a client input problem. Message is shown to the caller.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(message string) error {
	return &ValidationError{Message: message}
}
