package camunda

import (
	"context"
	"fmt"
	"testing"
	"time"

	"coffee-tournament/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return &Client{config: &ClientConfig{
		ConnectionTimeout: time.Second,
		RetryConfig: &RetryConfig{
			MaxRetries: 2,
			BaseDelay:  time.Millisecond,
			MaxDelay:   5 * time.Millisecond,
		},
	}}
}

func TestExecuteWithRetry_RecoversFromTransientError(t *testing.T) {
	c := newTestClient()
	attempts := 0

	result, err := c.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		attempts++
		if attempts < 2 {
			return nil, fmt.Errorf("rpc error: code = Unavailable desc = connection refused")
		}
		return "deployed", nil
	}, "deploy")

	require.NoError(t, err)
	assert.Equal(t, "deployed", result)
	assert.Equal(t, 2, attempts)
}

func TestExecuteWithRetry_StopsOnPermanentError(t *testing.T) {
	c := newTestClient()
	attempts := 0

	_, err := c.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		attempts++
		return nil, fmt.Errorf("process definition not found")
	}, "create-instance")

	require.Error(t, err)
	assert.Equal(t, 1, attempts)

	stdErr := errors.AsStandardError(err)
	assert.Equal(t, errors.ErrCodeInvalidArgument, stdErr.Code)
	assert.False(t, stdErr.Retryable)
}

func TestExecuteWithRetry_ExhaustsRetries(t *testing.T) {
	c := newTestClient()
	attempts := 0

	_, err := c.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		attempts++
		return nil, fmt.Errorf("context deadline exceeded")
	}, "topology")

	require.Error(t, err)
	assert.Equal(t, 3, attempts)

	stdErr := errors.AsStandardError(err)
	assert.Equal(t, errors.ErrCodeProviderError, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Contains(t, stdErr.Message, "after 2 attempts")
}
