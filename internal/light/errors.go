package light

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for light control operations

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeConnection indicates a BLE connection failure (connect failed, link dropped)
	ErrTypeConnection ErrorType = iota
	// ErrTypeWrite indicates a GATT write failure on an established link
	ErrTypeWrite
	// ErrTypeProtocol indicates a protocol-level error (malformed frame, unknown field)
	ErrTypeProtocol
	// ErrTypeValidation indicates a validation error (value out of range, unknown effect)
	ErrTypeValidation
	// ErrTypeState indicates the operation is invalid in the light's current state
	ErrTypeState
	// ErrTypeTimeout indicates a wait for a status notification timed out
	ErrTypeTimeout
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeConnection:
		return "Connection Error"
	case ErrTypeWrite:
		return "Write Error"
	case ErrTypeProtocol:
		return "Protocol Error"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeState:
		return "State Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// LightError represents an error that occurred while controlling a light
type LightError struct {
	Type      ErrorType // Category of error
	Message   string    // Human-readable error message
	Address   string    // Light address (for context)
	Err       error     // Underlying error (if any)
	Retryable bool      // Whether the error is retryable
}

// Error implements the error interface
func (e *LightError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *LightError) Unwrap() error {
	return e.Err
}

// NewConnectionError creates a connection-level error
func NewConnectionError(address, message string, err error) *LightError {
	return &LightError{
		Type:      ErrTypeConnection,
		Message:   message,
		Address:   address,
		Err:       err,
		Retryable: true,
	}
}

// NewWriteError creates a GATT write error
func NewWriteError(address, message string, err error) *LightError {
	return &LightError{
		Type:      ErrTypeWrite,
		Message:   message,
		Address:   address,
		Err:       err,
		Retryable: true,
	}
}

// NewProtocolError creates a protocol-level error
func NewProtocolError(message string, err error) *LightError {
	return &LightError{
		Type:      ErrTypeProtocol,
		Message:   message,
		Err:       err,
		Retryable: false,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *LightError {
	return &LightError{
		Type:      ErrTypeValidation,
		Message:   message,
		Retryable: false,
	}
}

// NewStateError creates an error for an operation invalid in the current state
func NewStateError(message string) *LightError {
	return &LightError{
		Type:      ErrTypeState,
		Message:   message,
		Retryable: false,
	}
}

// NewTimeoutError creates a notification wait timeout error
func NewTimeoutError(address, message string) *LightError {
	return &LightError{
		Type:      ErrTypeTimeout,
		Message:   message,
		Address:   address,
		Retryable: true,
	}
}

// IsConnectionError checks if an error is a connection error
func IsConnectionError(err error) bool {
	var lightErr *LightError
	if errors.As(err, &lightErr) {
		return lightErr.Type == ErrTypeConnection
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var lightErr *LightError
	if errors.As(err, &lightErr) {
		return lightErr.Type == ErrTypeValidation
	}
	return false
}

// IsStateError checks if an error is a state error
func IsStateError(err error) bool {
	var lightErr *LightError
	if errors.As(err, &lightErr) {
		return lightErr.Type == ErrTypeState
	}
	return false
}

// IsTimeoutError checks if an error is a notification timeout
func IsTimeoutError(err error) bool {
	var lightErr *LightError
	if errors.As(err, &lightErr) {
		return lightErr.Type == ErrTypeTimeout
	}
	return false
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var lightErr *LightError
	if errors.As(err, &lightErr) {
		return lightErr.Retryable
	}
	// Unknown errors are not retryable by default
	return false
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	var lightErr *LightError
	if !errors.As(err, &lightErr) {
		return "An unexpected error occurred. Please try again."
	}

	switch lightErr.Type {
	case ErrTypeConnection:
		return strings.Join([]string{
			"Could not reach the light over Bluetooth.",
			"Troubleshooting:",
			"  • Check that the light is plugged in and powered",
			"  • Move closer to the light (BLE range is short)",
			"  • Close the vendor app - the light accepts one connection at a time",
			"  • Check that Bluetooth is enabled on this computer",
		}, "\n")

	case ErrTypeWrite:
		return strings.Join([]string{
			"Sending the command to the light failed.",
			"Troubleshooting:",
			"  • The connection may have just dropped - try again",
			"  • Move closer to the light to improve signal strength",
			"  • Power-cycle the light if it stops responding",
		}, "\n")

	case ErrTypeTimeout:
		return strings.Join([]string{
			"The light did not report its status in time.",
			"Troubleshooting:",
			"  • The light pushes status on connect and after commands; try again",
			"  • Move closer to the light to improve signal strength",
			"  • Power-cycle the light if it stops responding",
		}, "\n")

	case ErrTypeProtocol:
		return strings.Join([]string{
			"The light sent data this tool does not understand.",
			"This may indicate a newer firmware revision.",
			"Troubleshooting:",
			"  • Run with FAIRYCTL_LOG_LEVEL=debug and capture the raw frames",
			"  • Report the capture so the frame layout can be updated",
		}, "\n")

	case ErrTypeState:
		return strings.Join([]string{
			"The command does not apply in the light's current state.",
			"Troubleshooting:",
			"  • Turn the light on first",
			"  • Wait a moment after connecting for the first status push",
		}, "\n")

	case ErrTypeValidation:
		return "The command values are invalid. Check the error message for details."

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var lightErr *LightError
	if !errors.As(err, &lightErr) {
		return err.Error()
	}

	switch lightErr.Type {
	case ErrTypeConnection:
		return "Light unreachable - check power, range and the vendor app"
	case ErrTypeWrite:
		return "Command failed - connection may have dropped"
	case ErrTypeTimeout:
		return "Light did not report status (timeout)"
	case ErrTypeProtocol:
		return "Unrecognized data from the light"
	case ErrTypeState:
		return lightErr.Message
	case ErrTypeValidation:
		return lightErr.Message
	default:
		return lightErr.Message
	}
}
