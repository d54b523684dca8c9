package service

import "errors"

var (
	// ErrConflict is returned when a username is already taken
	ErrConflict = errors.New("username already exists")
	// ErrInvalidCredentials is returned for unknown users and wrong passwords alike
	ErrInvalidCredentials = errors.New("bad username or password")
	// ErrNotFound is returned when a task does not exist or belongs to someone else
	ErrNotFound = errors.New("task not found")
)

// ValidationError reports a rejected input field
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
