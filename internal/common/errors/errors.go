// Package errors provides standardized error handling for the tournament engine
// and its workflow bindings.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"

	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	ErrCodeLocationNotFound  ErrorCode = "LOCATION_NOT_FOUND"
	ErrCodeInsufficientShops ErrorCode = "INSUFFICIENT_SHOPS"
	ErrCodeProviderError     ErrorCode = "PROVIDER_ERROR"
	ErrCodeProviderTimeout   ErrorCode = "PROVIDER_TIMEOUT"

	ErrCodeJudgmentFailure ErrorCode = "JUDGMENT_FAILURE"

	ErrCodeBracketOverflow ErrorCode = "BRACKET_OVERFLOW"
	ErrCodeInvalidSeeding  ErrorCode = "INVALID_SEEDING"

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
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is matches another StandardError by code, so errors.Is works against the
// sentinel-style values returned by the constructors.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
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

// NewConfigurationError reports a missing or unusable setting, typically an API key.
func NewConfigurationError(setting string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfiguration,
		Message:   fmt.Sprintf("%s is not configured", setting),
		Details:   fmt.Sprintf("setting: %s", setting),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidArgumentError creates a non-retryable bad-request error. The
// message is shown to the caller verbatim.
func NewInvalidArgumentError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidArgument,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLocationNotFoundError creates a user-actionable geocoding miss.
func NewLocationNotFoundError(query, status string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLocationNotFound,
		Message:   fmt.Sprintf("Could not find location: %s. Please try a different location or be more specific.", query),
		Details:   fmt.Sprintf("status: %s", status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInsufficientShopsError reports that fewer than the required number of
// shops passed the ranking floor.
func NewInsufficientShopsError(found int) *StandardError {
	return &StandardError{
		Code:      ErrCodeInsufficientShops,
		Message:   fmt.Sprintf("Only found %d highly-rated coffee shops. Try a different location with more options.", found),
		Details:   fmt.Sprintf("found: %d", found),
		Retryable: false,
		Metadata:  map[string]interface{}{"found": found},
		Timestamp: time.Now().UTC(),
	}
}

// NewNoShopsFoundError is the InsufficientShops variant for an empty search.
func NewNoShopsFoundError() *StandardError {
	return &StandardError{
		Code:      ErrCodeInsufficientShops,
		Message:   "No coffee shops found in this area. Try a different location or increase the search radius.",
		Details:   "found: 0",
		Retryable: false,
		Metadata:  map[string]interface{}{"found": 0},
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderError creates a retryable upstream failure. message is surfaced
// to the caller and should carry the upstream status text.
func NewProviderError(provider, message string, err error) *StandardError {
	details := fmt.Sprintf("provider: %s", provider)
	if err != nil {
		details = fmt.Sprintf("provider: %s, error: %s", provider, err.Error())
	}
	return &StandardError{
		Code:      ErrCodeProviderError,
		Message:   message,
		Details:   details,
		Retryable: true,
		Metadata:  map[string]interface{}{"provider": provider},
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderTimeoutError creates a retryable deadline error for an upstream call.
func NewProviderTimeoutError(provider string, timeout time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderTimeout,
		Message:   fmt.Sprintf("%s request timed out after %s", provider, timeout),
		Details:   fmt.Sprintf("provider: %s, timeout: %s", provider, timeout),
		Retryable: true,
		Metadata:  map[string]interface{}{"provider": provider},
		Timestamp: time.Now().UTC(),
	}
}

// NewJudgmentFailureError wraps an LLM failure. It is recovered by the judge
// and only ever appears in logs.
func NewJudgmentFailureError(stage string, err error) *StandardError {
	details := fmt.Sprintf("stage: %s", stage)
	if err != nil {
		details = fmt.Sprintf("stage: %s, error: %s", stage, err.Error())
	}
	return &StandardError{
		Code:      ErrCodeJudgmentFailure,
		Message:   "AI judgment failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewBracketOverflowError reports an attempt to advance into a full round.
func NewBracketOverflowError(fromRound, toRound string) *StandardError {
	return &StandardError{
		Code:      ErrCodeBracketOverflow,
		Message:   "Bracket has no open slot for the winner",
		Details:   fmt.Sprintf("from: %s, to: %s", fromRound, toRound),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidSeedingError reports a bracket initialized with the wrong number of shops.
func NewInvalidSeedingError(got, want int) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSeeding,
		Message:   fmt.Sprintf("A tournament needs %d shops, got %d", want, got),
		Details:   fmt.Sprintf("got: %d, want: %d", got, want),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. BPMN Error Mapping
// ==========================

// BPMNErrorMapping maps internal codes to the error codes modelled on boundary events.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeConfiguration:     "CONFIGURATION_ERROR",
	ErrCodeInvalidArgument:   "INVALID_ARGUMENT",
	ErrCodeLocationNotFound:  "LOCATION_NOT_FOUND",
	ErrCodeInsufficientShops: "INSUFFICIENT_SHOPS",
	ErrCodeProviderError:     "PROVIDER_ERROR",
	ErrCodeProviderTimeout:   "PROVIDER_TIMEOUT",
	ErrCodeJudgmentFailure:   "JUDGMENT_FAILURE",
	ErrCodeBracketOverflow:   "BRACKET_OVERFLOW",
	ErrCodeInvalidSeeding:    "INVALID_SEEDING",
}

// GetRetryCount returns the recommended retry count for a job failing with code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeProviderError:
		return 3

	case ErrCodeProviderTimeout:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
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

// AsStandardError normalizes any error into a StandardError.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// HTTPStatus maps an error code to the status used in the response envelope.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidArgument,
		ErrCodeLocationNotFound,
		ErrCodeInsufficientShops,
		ErrCodeInvalidSeeding:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CONFIGURATION"):
		return "CONFIG"
	case strings.Contains(codeStr, "LOCATION") || strings.Contains(codeStr, "SHOPS") || strings.Contains(codeStr, "PROVIDER"):
		return "PLACES"
	case strings.Contains(codeStr, "JUDGMENT"):
		return "AI"
	case strings.Contains(codeStr, "BRACKET") || strings.Contains(codeStr, "SEEDING"):
		return "BRACKET"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
