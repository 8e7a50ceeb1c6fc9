package scoreboard

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized  = errors.New("not authorized: admin pin missing or incorrect")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnknownAction = errors.New("unknown action")

	errMalformedState = errors.New("state record is not an object with a teams array")
)

// UnknownActionError reports an action type the dispatcher does not handle.
type UnknownActionError struct {
	Type string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownAction, e.Type)
}

func (e *UnknownActionError) Unwrap() error { return ErrUnknownAction }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
