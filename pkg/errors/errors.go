package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration document errors
	ErrConfigNotFound      ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigRead          ErrorCode = "CONFIG_READ"
	ErrConfigInvalidFormat ErrorCode = "CONFIG_INVALID_FORMAT"
	ErrConfigSchemaInvalid ErrorCode = "CONFIG_SCHEMA_INVALID"
	ErrConfigExists        ErrorCode = "CONFIG_EXISTS"
	ErrConfigWrite         ErrorCode = "CONFIG_WRITE"

	// Application settings errors
	ErrSettingsLoad ErrorCode = "SETTINGS_LOAD"

	// Registry errors
	ErrRegistryFetch            ErrorCode = "REGISTRY_FETCH"
	ErrPluginNotFoundInRegistry ErrorCode = "PLUGIN_NOT_FOUND_IN_REGISTRY"
	ErrRateLimitExceeded        ErrorCode = "RATE_LIMIT_EXCEEDED"

	// Plugin errors
	ErrPluginNotInstalled ErrorCode = "PLUGIN_NOT_INSTALLED"
	ErrPluginInstall      ErrorCode = "PLUGIN_INSTALL"
	ErrPluginRemove       ErrorCode = "PLUGIN_REMOVE"
	ErrInvalidVersion     ErrorCode = "INVALID_VERSION"

	// Vault errors
	ErrNoVaults       ErrorCode = "NO_VAULTS"
	ErrVaultDiscovery ErrorCode = "VAULT_DISCOVERY"

	// Run command errors
	ErrCommandEmpty   ErrorCode = "COMMAND_EMPTY"
	ErrCommandExecute ErrorCode = "COMMAND_EXECUTE"
)

// OvmError represents a structured error with code and details
type OvmError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *OvmError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *OvmError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *OvmError) Is(target error) bool {
	var targetErr *OvmError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new OvmError with the given code and message
func New(code ErrorCode, message string) *OvmError {
	return &OvmError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new OvmError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *OvmError {
	return &OvmError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an OvmError
func Wrap(err error, code ErrorCode, message string) *OvmError {
	if err == nil {
		return nil
	}
	return &OvmError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *OvmError {
	if err == nil {
		return nil
	}
	return &OvmError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *OvmError) WithDetail(key string, value interface{}) *OvmError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode reports whether any OvmError in err's chain carries code.
func IsErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var ovmErr *OvmError
		if !errors.As(err, &ovmErr) {
			return false
		}
		if ovmErr.Code == code {
			return true
		}
		err = ovmErr.Wrapped
	}
	return false
}

// GetErrorCode returns the outermost error code, or ErrUnknown if not an OvmError
func GetErrorCode(err error) ErrorCode {
	var ovmErr *OvmError
	if errors.As(err, &ovmErr) {
		return ovmErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an OvmError
func GetErrorDetails(err error) map[string]interface{} {
	var ovmErr *OvmError
	if errors.As(err, &ovmErr) {
		return ovmErr.Details
	}
	return nil
}
