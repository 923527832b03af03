package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "config_not_found",
			code:    errors.ErrConfigNotFound,
			message: "config file not found",
			wantStr: "[CONFIG_NOT_FOUND] config file not found",
		},
		{
			name:    "empty_command",
			code:    errors.ErrCommandEmpty,
			message: "command is empty",
			wantStr: "[COMMAND_EMPTY] command is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrPluginNotFoundInRegistry, "plugin %s not found in registry", "dataview")
	assert.Equal(t, "plugin dataview not found in registry", err.Message)
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrInternal, "internal error")

		assert.Equal(t, errors.ErrInternal, err.Code)
		assert.Same(t, baseErr, err.Wrapped)
		assert.Equal(t, "[INTERNAL] internal error: base error", err.Error())
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "internal error"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "internal %s", "error"))
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrConfigNotFound, "not found").
		WithDetail("path", "/home/user/ovm.json")

	assert.Equal(t, "/home/user/ovm.json", err.Details["path"])
	assert.Equal(t, "/home/user/ovm.json", errors.GetErrorDetails(err)["path"])
	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrNoVaults, "error 1")
	err2 := errors.New(errors.ErrNoVaults, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	assert.True(t, err1.Is(err2))
	assert.False(t, err1.Is(err3))
	assert.True(t, stderrors.Is(err1, err2))
}

func TestIsErrorCode(t *testing.T) {
	rateLimit := errors.New(errors.ErrRateLimitExceeded, "API rate limit exceeded")

	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{
			name:     "matching_code",
			err:      errors.New(errors.ErrConfigNotFound, "not found"),
			code:     errors.ErrConfigNotFound,
			expected: true,
		},
		{
			name:     "different_code",
			err:      errors.New(errors.ErrConfigNotFound, "not found"),
			code:     errors.ErrInternal,
			expected: false,
		},
		{
			name:     "inner_code_found_through_outer_wrap",
			err:      errors.Wrap(rateLimit, errors.ErrPluginInstall, "install failed"),
			code:     errors.ErrRateLimitExceeded,
			expected: true,
		},
		{
			name:     "inner_code_found_through_fmt_wrap",
			err:      fmt.Errorf("vault a: %w", rateLimit),
			code:     errors.ErrRateLimitExceeded,
			expected: true,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			code:     errors.ErrConfigNotFound,
			expected: false,
		},
		{
			name:     "nil_error",
			err:      nil,
			code:     errors.ErrConfigNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errors.IsErrorCode(tt.err, tt.code))
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrNoVaults, errors.GetErrorCode(errors.New(errors.ErrNoVaults, "none")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("standard error")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(nil))
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	writeErr := errors.Wrap(rootCause, errors.ErrConfigWrite, "cannot write config")
	outer := errors.Wrap(writeErr, errors.ErrPluginInstall, "failed to persist plugin")

	assert.True(t, errors.IsErrorCode(outer, errors.ErrPluginInstall))
	assert.True(t, errors.IsErrorCode(outer, errors.ErrConfigWrite))
	assert.True(t, stderrors.Is(outer, rootCause))
}
