package errors

import (
	"errors"
	"fmt"
)

// Registry outcomes. Handlers compare against these with errors.Is.
var (
	// ErrNotFound is returned when no pending record exists for a user
	ErrNotFound = errors.New("pending record not found")
	// ErrBlocked is returned when a blocked user tries to enter the workflow
	ErrBlocked = errors.New("user is blocked")
	// ErrAlreadyVerified is returned when a verified user submits again
	ErrAlreadyVerified = errors.New("user is already verified")
	// ErrAlreadyPending is returned when a user already has a pending record
	ErrAlreadyPending = errors.New("user already has a pending record")
)

// ValidationError represents an error when validation fails
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// CommandError represents an admin command that could not be parsed
type CommandError struct {
	Input   string
	Message string
}

// Error returns the error message
func (e *CommandError) Error() string {
	return fmt.Sprintf("invalid command %q: %s", e.Input, e.Message)
}

// DeliveryError represents a failed outbound call to the messaging platform
type DeliveryError struct {
	Operation string
	ChatID    int64
	Err       error
}

// Error returns the error message
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s to chat %d failed: %v", e.Operation, e.ChatID, e.Err)
}

// Unwrap returns the underlying transport error
func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// ConfigError represents an error related to configuration
type ConfigError struct {
	Section string
	Message string
}

// Error returns the error message
func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Section, e.Message)
}
