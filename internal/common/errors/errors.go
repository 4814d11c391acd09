// Package errors provides the error types shared by the connector, its
// workflow worker and the host API.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Integration Error
// ==========================

// IntegrationError is the single failure kind of a create call. Message is
// shown to the user as a form-level error; Err keeps the underlying cause.
type IntegrationError struct {
	Message string
	Err     error
}

func (e *IntegrationError) Error() string {
	return e.Message
}

func (e *IntegrationError) Unwrap() error {
	return e.Err
}

// NewIntegrationError builds an IntegrationError from a message template.
func NewIntegrationError(cause error, format string, args ...interface{}) *IntegrationError {
	return &IntegrationError{
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}

// AsIntegrationError reports whether err (or anything it wraps) is an
// IntegrationError and returns it.
func AsIntegrationError(err error) (*IntegrationError, bool) {
	var ie *IntegrationError
	if stderrors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// ==========================
// 2. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeIntegration         ErrorCode = "INTEGRATION_ERROR"
	ErrCodePluginNotConfigured ErrorCode = "PLUGIN_NOT_CONFIGURED"
	ErrCodeUnknownPlugin       ErrorCode = "UNKNOWN_PLUGIN"
	ErrCodeOptionsUnavailable  ErrorCode = "OPTIONS_UNAVAILABLE"
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeInputParsingFailed  ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured worker error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 3. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 4. Constructors
// ==========================

// FromIntegrationError wraps an IntegrationError for the workflow engine.
// Integration failures are never retried.
func FromIntegrationError(ie *IntegrationError) *StandardError {
	details := ""
	if ie.Err != nil {
		details = ie.Err.Error()
	}
	return &StandardError{
		Code:      ErrCodeIntegration,
		Message:   ie.Message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPluginNotConfiguredError is returned when a project has no slug set.
func NewPluginNotConfiguredError(pluginSlug, projectID string) *StandardError {
	return &StandardError{
		Code:      ErrCodePluginNotConfigured,
		Message:   "Plugin is not configured for this project",
		Details:   fmt.Sprintf("plugin: %s, project: %s", pluginSlug, projectID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownPluginError is returned for a slug missing from the registry.
func NewUnknownPluginError(pluginSlug string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownPlugin,
		Message:   "Unknown plugin",
		Details:   fmt.Sprintf("plugin: %s", pluginSlug),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOptionsUnavailableError wraps a failure reading the host option store.
func NewOptionsUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeOptionsUnavailable,
		Message:   "Failed to read plugin options",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError reports invalid job or form input.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInputParsingFailedError reports undecodable job variables.
func NewInputParsingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputParsingFailed,
		Message:   "Failed to parse job variables",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 5. Conversion
// ==========================

// Normalize turns any error into a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	if ie, ok := AsIntegrationError(err); ok {
		return FromIntegrationError(ie)
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeOptionsUnavailable:
		return 3
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// GetErrorCategory groups error codes for logging.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "INTEGRATION"):
		return "EXTERNAL"
	case strings.Contains(codeStr, "PLUGIN"):
		return "CONFIGURATION"
	case strings.Contains(codeStr, "OPTIONS"):
		return "STORAGE"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PARSING"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
