package lighting

import (
	"errors"
	"fmt"
)

// ValidationError reports a staged parameter that failed the submit-time
// validation pass. Field identifies the offending parameter (or
// "DeviceInfoParams" when the parameter set as a whole is invalid) and
// Message describes the violated constraint.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if an error is a parameter validation error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
