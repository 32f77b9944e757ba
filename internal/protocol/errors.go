package protocol

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection refused, timeout, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeAuth indicates an authentication failure (invalid credentials)
	ErrTypeAuth
	// ErrTypeSession indicates an expired or invalid session (re-handshake required)
	ErrTypeSession
	// ErrTypeDevice indicates an error code reported by the device firmware
	ErrTypeDevice
	// ErrTypeParse indicates a parsing error (malformed JSON, bad padding, invalid response)
	ErrTypeParse
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeSession:
		return "Session Error"
	case ErrTypeDevice:
		return "Device Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DeviceError represents an error that occurred while talking to a device
type DeviceError struct {
	Type      ErrorType // Category of error
	Message   string    // Human-readable error message
	Code      int       // Device error code (if reported by firmware)
	Err       error     // Underlying error (if any)
	Retryable bool      // Whether the operation may be retried
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	if e.Code != 0 {
		return fmt.Sprintf("%s: %s (code %d)", e.Type, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a network-level error
func NewNetworkError(message string, err error) *DeviceError {
	return &DeviceError{
		Type:      ErrTypeNetwork,
		Message:   message,
		Err:       err,
		Retryable: true,
	}
}

// NewAuthError creates an authentication error
func NewAuthError(message string) *DeviceError {
	return &DeviceError{
		Type:      ErrTypeAuth,
		Message:   message,
		Retryable: false,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *DeviceError {
	return &DeviceError{
		Type:      ErrTypeParse,
		Message:   message,
		Err:       err,
		Retryable: false,
	}
}

// Error codes reported by Tapo firmware in the error_code envelope field
const (
	CodeOK                     = 0
	CodeIncorrectRequest       = -1002
	CodeJSONFormat             = -1003
	CodeInvalidParams          = -1008
	CodeInvalidPublicKeyLength = -1010
	CodeInvalidTerminalUUID    = -1012
	CodeInvalidCredentials     = -1501
	CodeSessionTimeout         = 9999
)

// DeviceErrorFromCode maps a firmware error code to a typed error.
// Returns nil for CodeOK.
func DeviceErrorFromCode(code int) error {
	switch code {
	case CodeOK:
		return nil
	case CodeInvalidCredentials:
		return &DeviceError{
			Type:    ErrTypeAuth,
			Message: "invalid credentials",
			Code:    code,
		}
	case CodeSessionTimeout:
		return &DeviceError{
			Type:      ErrTypeSession,
			Message:   "session timed out",
			Code:      code,
			Retryable: true,
		}
	case CodeIncorrectRequest:
		return &DeviceError{
			Type:    ErrTypeDevice,
			Message: "incorrect request",
			Code:    code,
		}
	case CodeJSONFormat:
		return &DeviceError{
			Type:    ErrTypeDevice,
			Message: "JSON format error",
			Code:    code,
		}
	case CodeInvalidParams:
		return &DeviceError{
			Type:    ErrTypeDevice,
			Message: "invalid request parameters",
			Code:    code,
		}
	case CodeInvalidPublicKeyLength:
		return &DeviceError{
			Type:    ErrTypeDevice,
			Message: "invalid public key length",
			Code:    code,
		}
	case CodeInvalidTerminalUUID:
		return &DeviceError{
			Type:    ErrTypeDevice,
			Message: "invalid terminal UUID",
			Code:    code,
		}
	default:
		return &DeviceError{
			Type:    ErrTypeDevice,
			Message: "unrecognized device error",
			Code:    code,
		}
	}
}

// IsNetworkError checks if an error is a network error
func IsNetworkError(err error) bool {
	var devErr *DeviceError
	return errors.As(err, &devErr) && devErr.Type == ErrTypeNetwork
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	var devErr *DeviceError
	return errors.As(err, &devErr) && devErr.Type == ErrTypeAuth
}

// IsSessionError checks if an error indicates an expired session
func IsSessionError(err error) bool {
	var devErr *DeviceError
	return errors.As(err, &devErr) && devErr.Type == ErrTypeSession
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	var devErr *DeviceError
	return errors.As(err, &devErr) && devErr.Type == ErrTypeParse
}

// IsRetryable checks if an operation that produced this error may be retried
func IsRetryable(err error) bool {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Retryable
	}
	// Unknown errors are not retryable by default
	return false
}
