package errors

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeInvalidArgument, http.StatusBadRequest},
		{ErrCodeLocationNotFound, http.StatusBadRequest},
		{ErrCodeInsufficientShops, http.StatusBadRequest},
		{ErrCodeInvalidSeeding, http.StatusBadRequest},
		{ErrCodeProviderError, http.StatusInternalServerError},
		{ErrCodeProviderTimeout, http.StatusInternalServerError},
		{ErrCodeConfiguration, http.StatusInternalServerError},
		{ErrCodeBracketOverflow, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "CONFIG", GetErrorCategory(ErrCodeConfiguration))
	assert.Equal(t, "PLACES", GetErrorCategory(ErrCodeLocationNotFound))
	assert.Equal(t, "PLACES", GetErrorCategory(ErrCodeInsufficientShops))
	assert.Equal(t, "PLACES", GetErrorCategory(ErrCodeProviderTimeout))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeJudgmentFailure))
	assert.Equal(t, "BRACKET", GetErrorCategory(ErrCodeBracketOverflow))
	assert.Equal(t, "BRACKET", GetErrorCategory(ErrCodeInvalidSeeding))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidArgument))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestAsStandardError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, AsStandardError(nil))
	})

	t.Run("wrapped standard error is unwrapped", func(t *testing.T) {
		orig := NewLocationNotFoundError("Atlantis", "ZERO_RESULTS")
		wrapped := fmt.Errorf("resolve: %w", orig)

		got := AsStandardError(wrapped)
		require.NotNil(t, got)
		assert.Same(t, orig, got)
		assert.True(t, HasCode(wrapped, ErrCodeLocationNotFound))
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		got := AsStandardError(fmt.Errorf("boom"))
		assert.Equal(t, ErrCodeInternal, got.Code)
		assert.Equal(t, "boom", got.Details)
	})
}

func TestInsufficientShopsMessage(t *testing.T) {
	assert.Equal(t,
		"Only found 3 highly-rated coffee shops. Try a different location with more options.",
		NewInsufficientShopsError(3).Message)
	assert.Equal(t,
		"Only found 0 highly-rated coffee shops. Try a different location with more options.",
		NewInsufficientShopsError(0).Message)

	noneFound := NewNoShopsFoundError()
	assert.Equal(t, ErrCodeInsufficientShops, noneFound.Code)
	assert.Equal(t,
		"No coffee shops found in this area. Try a different location or increase the search radius.",
		noneFound.Message)
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewProviderError("places", "Google Places API error: OVER_QUERY_LIMIT - Unknown error", nil)
	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "PROVIDER_ERROR", bpmnErr.Code)
	assert.Equal(t, 3, bpmnErr.Retries)
	assert.True(t, bpmnErr.Retryable)

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "PROVIDER_ERROR", vars["originalErrorCode"])
	assert.Equal(t, stdErr.Message, vars["errorMessage"])

	nonRetryable := ConvertToBPMNError(NewBracketOverflowError("final", "champion"))
	assert.Equal(t, 0, nonRetryable.Retries)
	assert.False(t, nonRetryable.Retryable)
}

func TestProviderTimeoutError(t *testing.T) {
	err := NewProviderTimeoutError("geocode", 30*time.Second)
	assert.Equal(t, ErrCodeProviderTimeout, err.Code)
	assert.Contains(t, err.Message, "30s")
	assert.True(t, IsRetryableErrorCode(err.Code))
}

func TestStandardErrorIs(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewBracketOverflowError("quarterfinal", "semifinal"))
	assert.ErrorIs(t, err, &StandardError{Code: ErrCodeBracketOverflow})
	assert.NotErrorIs(t, err, &StandardError{Code: ErrCodeInvalidSeeding})
}
