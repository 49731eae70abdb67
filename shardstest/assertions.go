package shardstest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdkErrors "github.com/reglet-dev/shards-sdk/go/domain/errors"
)

// RequireCompositionError asserts that err is a CompositionError raised by
// shard, naming variable when variable is not empty.
func RequireCompositionError(t *testing.T, err error, shard, variable string) *sdkErrors.CompositionError {
	t.Helper()
	var ce *sdkErrors.CompositionError
	require.True(t, errors.As(err, &ce), "expected CompositionError, got %v", err)
	assert.Equal(t, shard, ce.Shard)
	if variable != "" {
		assert.Equal(t, variable, ce.Variable)
	}
	return ce
}

// RequireRuntimeError asserts that err is a RuntimeError raised by shard.
func RequireRuntimeError(t *testing.T, err error, shard string) *sdkErrors.RuntimeError {
	t.Helper()
	var re *sdkErrors.RuntimeError
	require.True(t, errors.As(err, &re), "expected RuntimeError, got %v", err)
	if shard != "" {
		assert.Equal(t, shard, re.Shard)
	}
	return re
}

// RequireConfigurationError asserts that err is a ConfigurationError wrapping target.
func RequireConfigurationError(t *testing.T, err error, target error) *sdkErrors.ConfigurationError {
	t.Helper()
	var ce *sdkErrors.ConfigurationError
	require.True(t, errors.As(err, &ce), "expected ConfigurationError, got %v", err)
	if target != nil {
		assert.ErrorIs(t, err, target)
	}
	return ce
}

// AssertViolation asserts that fn panics with an InvariantViolation for operation.
func AssertViolation(t *testing.T, operation string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected invariant violation during %s", operation)
		iv, ok := r.(*sdkErrors.InvariantViolation)
		require.True(t, ok, "expected *InvariantViolation, got %T: %v", r, r)
		assert.Equal(t, operation, iv.Operation)
	}()
	fn()
}
