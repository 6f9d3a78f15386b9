// Package apperrors defines the sentinel errors shared by repositories,
// services and handlers. Callers wrap them with fmt.Errorf("...: %w", ...)
// and HTTP handlers map them to status codes with errors.Is.
package apperrors

import "errors"

var (
	// ErrInvalidInput marks malformed or missing request data.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks an absent record, or one not owned by the
	// requesting user when the lookup is ownership-scoped.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks an illegal state transition, such as cancelling
	// an already-cancelled order.
	ErrConflict = errors.New("conflict")

	// ErrInvalidSignature marks payment proof that failed verification.
	ErrInvalidSignature = errors.New("invalid payment signature")

	// ErrGatewayUnavailable marks a payment gateway failure or timeout.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)
