package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrAuthRequired is returned when an operation needs an authenticated user.
var ErrAuthRequired = errors.New("authentication required")

// ErrTimeout is matched by transport errors caused by a deadline.
var ErrTimeout = errors.New("request timed out")

// ValidationError is a local precondition failure. It never reaches the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

type RejectionKind int

const (
	RejectOther RejectionKind = iota
	RejectInvalid
	RejectNotFound
	RejectConflict
	RejectStockExceeded
)

func (k RejectionKind) String() string {
	switch k {
	case RejectInvalid:
		return "INVALID"
	case RejectNotFound:
		return "NOT_FOUND"
	case RejectConflict:
		return "CONFLICT"
	case RejectStockExceeded:
		return "STOCK_EXCEEDED"
	default:
		return "REJECTED"
	}
}

// RemoteRejection is a 4xx answer from the store. Message is shown to the user as is.
type RemoteRejection struct {
	Status  int
	Kind    RejectionKind
	Message string
}

func (e *RemoteRejection) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "request rejected: " + e.Kind.String()
}

// TransportError covers network failures, timeouts and 5xx answers.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var rr *RemoteRejection
	return errors.As(err, &rr) && rr.Kind == RejectNotFound
}

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// NewTransportError wraps err for op. Deadline and network timeouts also match ErrTimeout.
func NewTransportError(op string, err error) *TransportError {
	var timeout interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &timeout) && timeout.Timeout()) {
		err = errors.Join(ErrTimeout, err)
	}
	return &TransportError{Op: op, Err: err}
}
