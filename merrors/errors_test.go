package merrors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/machinemodel/merrors"
)

func TestNewFormatsMessage(t *testing.T) {
	err := merrors.New(merrors.NotFound, "Tree", "Resolve", "no node with id %q", "abc")
	require.Equal(t, merrors.NotFound, err.Code)
	assert.EqualError(t, err, `NOT_FOUND: no node with id "abc"`)
}

func TestWrapMessageShape(t *testing.T) {
	cause := errors.New("boom")
	err := merrors.Wrap(merrors.HookFailed, cause, "Method", "startStop", "pre_invoke")

	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "HOOK_FAILED: Method.startStop: pre_invoke failed: boom")
	assert.Equal(t, merrors.HookFailed, merrors.CodeOf(err))
}

func TestWrapNilErrIsNil(t *testing.T) {
	require.NoError(t, merrors.Wrap(merrors.HookFailed, nil, "Method", "startStop", "pre_invoke"))
}

func TestIs(t *testing.T) {
	err := merrors.New(merrors.OutOfRange, "NumericVariable", "speed", "value %g out of bounds", 200.0)
	assert.True(t, merrors.Is(err, merrors.OutOfRange))
	assert.False(t, merrors.Is(err, merrors.NotFound))
	assert.False(t, merrors.Is(nil, merrors.OutOfRange))
}

func TestCodeOfUnclassifiedError(t *testing.T) {
	plain := errors.New("not a merrors.Error")
	assert.Equal(t, merrors.CodeUnspecified, merrors.CodeOf(plain))
}

func TestCodeStrings(t *testing.T) {
	tests := []struct {
		code merrors.Code
		want string
	}{
		{merrors.NotFound, "NOT_FOUND"},
		{merrors.AddressMismatch, "ADDRESS_MISMATCH"},
		{merrors.TypeMismatch, "TYPE_MISMATCH"},
		{merrors.OutOfRange, "OUT_OF_RANGE"},
		{merrors.Vetoed, "VETOED"},
		{merrors.PostVetoed, "POST_VETOED"},
		{merrors.HookFailed, "HOOK_FAILED"},
		{merrors.UnboundCallback, "UNBOUND_CALLBACK"},
		{merrors.DependencyLost, "DEPENDENCY_LOST"},
		{merrors.Cancelled, "CANCELLED"},
		{merrors.MalformedModel, "MALFORMED_MODEL"},
		{merrors.InvalidFilter, "INVALID_FILTER"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.String())
		})
	}
}
