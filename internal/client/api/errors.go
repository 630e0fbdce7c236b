package api

import (
	"fmt"

	"github.com/aleksmelnik/mediavault/internal/common"
)

// Kind classifies an API failure for display purposes.
type Kind int

const (
	// KindNetwork is a transport failure: no response was received.
	KindNetwork Kind = iota
	// KindUnauthorized is a 401; it always triggers the global logout flow
	// before being re-surfaced to the caller.
	KindUnauthorized
	// KindValidation is a 400/409 whose message is shown verbatim inline.
	KindValidation
	// KindQuotaExceeded is a 413 carrying a quota-specific message.
	KindQuotaExceeded
	// KindFileTooLarge is a 413 without the quota marker.
	KindFileTooLarge
	// KindServer is any 5xx; shown as a generic retry-suggesting message.
	KindServer
)

// Error is a typed API failure. Message holds the server-provided text for
// the kinds that surface it verbatim, and a generic fallback otherwise.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api: %s", e.Message)
}

// Is lets errors.Is(err, common.ErrUnauthorized) match unauthorized API errors.
func (e *Error) Is(target error) bool {
	return e.Kind == KindUnauthorized && target == common.ErrUnauthorized
}

// UserMessage is the text suitable for direct display to the user.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindNetwork:
		return "Cannot reach the server. Check your connection and try again."
	case KindServer:
		return "Something went wrong on the server. Please try again."
	case KindFileTooLarge:
		return "File too large. Maximum size is 100MB."
	default:
		return e.Message
	}
}
