package core

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable error category. Kinds are stable and safe to
// expose to callers of the engine.
type Kind string

const (
	KindInvalidIdentifier        Kind = "InvalidIdentifier"
	KindUnknownOperator          Kind = "UnknownOperator"
	KindUnknownAction            Kind = "UnknownAction"
	KindEmptyPayload             Kind = "EmptyPayload"
	KindMissingMatchValue        Kind = "MissingMatchValue"
	KindInvalidAggregateFunction Kind = "InvalidAggregateFunction"
	// KindInvalidRequest covers envelopes with a bad shape: unexpected keys,
	// wrong JSON types, non-integer pagination and similar.
	KindInvalidRequest Kind = "InvalidRequest"
	// KindTableNotAllowed is returned when an allowlist is configured and the
	// table is not on it.
	KindTableNotAllowed Kind = "TableNotAllowed"
)

// Error wraps an optional cause with a kind and a human-readable message.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func WrapError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there
// is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
