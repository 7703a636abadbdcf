// internal/errors/errors.go
package appErrors

import "fmt"

// ValidationError is client-detectable bad input. It is raised before any
// network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InvalidAudienceError means a selector outside the closed set reached the
// resolver. It is a programming error and aborts the operation.
type InvalidAudienceError struct {
	Selector string
}

func (e *InvalidAudienceError) Error() string {
	return fmt.Sprintf("invalid audience selector %q", e.Selector)
}

func NewInvalidAudience(selector string) error {
	return &InvalidAudienceError{Selector: selector}
}

// NetworkError wraps a transport failure talking to the backend.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func NewNetwork(op string, err error) error {
	return &NetworkError{Op: op, Err: err}
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

func NewAPIError(status int, message string) error {
	return &APIError{Status: status, Message: message}
}

// CommunicationNotFoundError is returned when no communication has the given ID
type CommunicationNotFoundError struct {
	ID string
}

func (e *CommunicationNotFoundError) Error() string {
	return fmt.Sprintf("communication with ID %s not found", e.ID)
}

func NewCommunicationNotFound(id string) error {
	return &CommunicationNotFoundError{ID: id}
}

// ImmutableCommunicationError rejects edits once sending has started.
type ImmutableCommunicationError struct {
	ID     string
	Status string
}

func (e *ImmutableCommunicationError) Error() string {
	return fmt.Sprintf("communication %s cannot be modified in status %s", e.ID, e.Status)
}

func NewImmutableCommunication(id, status string) error {
	return &ImmutableCommunicationError{ID: id, Status: status}
}
