package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from external service
	ErrorTypeExternal ErrorType = "EXTERNAL"

	// ErrorTypeLocationUnavailable indicates no position fix could be obtained.
	// It is always recovered locally with the fallback coordinate.
	ErrorTypeLocationUnavailable ErrorType = "LOCATION_UNAVAILABLE"

	// ErrorTypeQuery indicates the hospital POI query failed
	ErrorTypeQuery ErrorType = "QUERY"

	// ErrorTypeRouteResolution indicates a single candidate's route could not be resolved
	ErrorTypeRouteResolution ErrorType = "ROUTE_RESOLUTION"

	// ErrorTypeCredentialMissing indicates the routing provider key is not configured
	ErrorTypeCredentialMissing ErrorType = "CREDENTIAL_MISSING"

	// ErrorTypeUpstreamRoute indicates the routing provider rejected or failed a request
	ErrorTypeUpstreamRoute ErrorType = "UPSTREAM_ROUTE"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// IsType reports whether any AppError in err's chain has the given type.
func IsType(err error, errType ErrorType) bool {
	for err != nil {
		var appErr *AppError
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Type == errType {
			return true
		}
		err = appErr.Err
	}
	return false
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// NewLocationUnavailableError creates a new location unavailable error
func NewLocationUnavailableError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeLocationUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewQueryError creates a new POI query error
func NewQueryError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeQuery,
		Message: message,
		Err:     err,
	}
}

// NewRouteResolutionError creates a new route resolution error
func NewRouteResolutionError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeRouteResolution,
		Message: message,
		Err:     err,
	}
}

// NewCredentialMissingError creates a new credential missing error
func NewCredentialMissingError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeCredentialMissing,
		Message: message,
	}
}

// NewUpstreamRouteError creates a new upstream routing error
func NewUpstreamRouteError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeUpstreamRoute,
		Message: message,
		Err:     err,
	}
}
