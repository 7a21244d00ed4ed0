// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"buzz-workers/internal/engine/enginerr"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidInput         ErrorCode = "INVALID_INPUT"
	ErrCodeParseError           ErrorCode = "PARSE_ERROR"
	ErrCodeConfigurationInvalid ErrorCode = "CONFIGURATION_INVALID"
	ErrCodeInsufficientData     ErrorCode = "INSUFFICIENT_DATA"

	ErrCodeStoreReadFailed  ErrorCode = "STORE_READ_FAILED"
	ErrCodeStoreTimeout     ErrorCode = "STORE_TIMEOUT"
	ErrCodeModelStoreFailed ErrorCode = "MODEL_STORE_FAILED"
	ErrCodeCacheFailed      ErrorCode = "CACHE_FAILED"

	ErrCodeScoringFailed     ErrorCode = "SCORING_FAILED"
	ErrCodeCalibrationFailed ErrorCode = "CALIBRATION_FAILED"

	ErrCodeEventPublishFailed ErrorCode = "EVENT_PUBLISH_FAILED"

	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT_ERROR"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. BPMN Error Integration
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
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewInvalidInputError creates a non-retryable input validation error.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Job input validation failed", details, false, nil)
}

// NewParseError creates a non-retryable error for undecodable job variables.
func NewParseError(err error) *StandardError {
	return newError(ErrCodeParseError, "Failed to parse job variables", err.Error(), false, err)
}

// NewConfigurationInvalidError creates a non-retryable error for a malformed
// weight table, weight set or count input.
func NewConfigurationInvalidError(err error) *StandardError {
	return newError(ErrCodeConfigurationInvalid, "Scoring configuration is invalid", err.Error(), false, err)
}

// NewInsufficientDataError reports a corpus too small to calibrate from.
func NewInsufficientDataError(sampleSize, minSamples int) *StandardError {
	e := newError(ErrCodeInsufficientData, "Not enough posts to calibrate",
		fmt.Sprintf("sampleSize: %d, minSamples: %d", sampleSize, minSamples), false, nil)
	e.Metadata = map[string]interface{}{"sampleSize": sampleSize, "minSamples": minSamples}
	return e
}

// NewStoreReadFailedError creates a retryable post store error.
func NewStoreReadFailedError(driver string, err error) *StandardError {
	return newError(ErrCodeStoreReadFailed, "Post store read failed",
		fmt.Sprintf("driver: %s, error: %s", driver, err.Error()), true, err)
}

// NewStoreTimeoutError creates a retryable post store timeout error.
func NewStoreTimeoutError(driver string, err error) *StandardError {
	return newError(ErrCodeStoreTimeout, "Post store read timeout",
		fmt.Sprintf("driver: %s", driver), true, err)
}

// NewModelStoreFailedError creates a retryable weight set persistence error.
func NewModelStoreFailedError(err error) *StandardError {
	return newError(ErrCodeModelStoreFailed, "Weight set persistence failed", err.Error(), true, err)
}

// NewCacheFailedError creates a retryable cache error.
func NewCacheFailedError(err error) *StandardError {
	return newError(ErrCodeCacheFailed, "Weight set cache operation failed", err.Error(), true, err)
}

// NewScoringFailedError wraps an unexpected scoring failure.
func NewScoringFailedError(err error) *StandardError {
	return newError(ErrCodeScoringFailed, "Scoring failed", err.Error(), false, err)
}

// NewCalibrationFailedError wraps an unexpected calibration failure.
func NewCalibrationFailedError(err error) *StandardError {
	return newError(ErrCodeCalibrationFailed, "Calibration failed", err.Error(), false, err)
}

// NewEventPublishFailedError creates a retryable notification error.
func NewEventPublishFailedError(topic string, err error) *StandardError {
	return newError(ErrCodeEventPublishFailed, "Calibration event publish failed",
		fmt.Sprintf("topic: %s, error: %s", topic, err.Error()), true, err)
}

// NewExternalServiceError wraps a failure of an infrastructure dependency.
func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err.Error(), true, err)
}

// NewTimeoutError wraps a dependency timeout.
func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true, err)
}

// NewInternalError wraps a failure that is neither input nor infrastructure.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:         "INVALID_INPUT",
	ErrCodeParseError:           "PARSE_ERROR",
	ErrCodeConfigurationInvalid: "CONFIGURATION_INVALID",
	ErrCodeInsufficientData:     "INSUFFICIENT_DATA",
	ErrCodeStoreReadFailed:      "STORE_READ_FAILED",
	ErrCodeStoreTimeout:         "STORE_TIMEOUT",
	ErrCodeModelStoreFailed:     "MODEL_STORE_FAILED",
	ErrCodeCacheFailed:          "CACHE_FAILED",
	ErrCodeScoringFailed:        "SCORING_FAILED",
	ErrCodeCalibrationFailed:    "CALIBRATION_FAILED",
	ErrCodeEventPublishFailed:   "EVENT_PUBLISH_FAILED",
	ErrCodeExternalService:      "EXTERNAL_SERVICE_ERROR",
	ErrCodeTimeout:              "TIMEOUT_ERROR",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeStoreReadFailed,
		ErrCodeModelStoreFailed,
		ErrCodeEventPublishFailed,
		ErrCodeExternalService:
		return 3 // Retryable technical errors

	case ErrCodeStoreTimeout,
		ErrCodeCacheFailed,
		ErrCodeTimeout:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
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

// ==========================
// 5. Utility Functions
// ==========================

// Normalize maps any error to a StandardError. Wrapped StandardErrors are
// returned as is; engine configuration errors and context deadlines get
// their own codes.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	if enginerr.IsConfiguration(err) {
		return NewConfigurationInvalidError(err)
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return newError(ErrCodeStoreTimeout, "Operation timed out", err.Error(), true, err)
	}
	return NewInternalError(err)
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "STORE"):
		return "STORE"
	case strings.Contains(codeStr, "MODEL") || strings.Contains(codeStr, "CACHE"):
		return "MODEL"
	case strings.Contains(codeStr, "SCORING") || strings.Contains(codeStr, "CALIBRATION") || strings.Contains(codeStr, "INSUFFICIENT"):
		return "ENGINE"
	case strings.Contains(codeStr, "EVENT"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "PARSE"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
