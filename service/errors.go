package service

import "errors"

// Error kinds surfaced to the HTTP layer. Match with errors.Is.
var (
	ErrVideoNotFound = errors.New("video not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidInput  = errors.New("invalid input")
)

// Error pairs an error kind with the message shown to the client.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Message: msg}
}

func invalid(msg string) error {
	return &Error{Kind: ErrInvalidInput, Message: msg}
}
