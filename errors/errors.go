package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrNotFound             = fmt.Errorf("not found")
	ErrConflict             = fmt.Errorf("already exists")
	ErrInvalidRemoval       = fmt.Errorf("field cannot be removed")
	ErrBackend              = fmt.Errorf("storage backend failure")
	ErrUnknownSystemMessage = fmt.Errorf("unknown system message type")
	ErrReactionNotAllowed   = fmt.Errorf("reaction is not allowed on this message")
	ErrInvalidInput         = fmt.Errorf("invalid input")
	ErrTooManyBots          = fmt.Errorf("maximum number of bots reached")
)

// Is is errors.Is, so callers importing this package don't also need the standard one.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// Kind names the category of err, for logs and metric labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case Is(err, ErrNotFound):
		return "not_found"
	case Is(err, ErrConflict):
		return "conflict"
	case Is(err, ErrInvalidRemoval):
		return "invalid_removal"
	case Is(err, ErrReactionNotAllowed):
		return "not_allowed"
	case Is(err, ErrInvalidInput):
		return "invalid_input"
	case Is(err, ErrTooManyBots):
		return "limit"
	case Is(err, ErrBackend):
		return "backend"
	}
	return "error"
}
