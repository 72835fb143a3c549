package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aushadhiai/screening-console/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"invalid param", errors.CodeInvalidParam, "disease must not be empty"},
		{"malformed data", errors.CodeMalformedData, "record 2: ic50 missing"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "should not matter"))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("dial tcp: connection refused")
	wrapped := errors.Wrap(root, errors.CodeUpstreamTransport, "backend unreachable")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.CodeUpstreamTransport, wrapped.Code)
	assert.Equal(t, root, stderrors.Unwrap(wrapped))
	assert.ErrorIs(t, wrapped, root)
}

func TestWrap_PreservesOriginalCodeWhenCodeUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeMalformedData, "bad record")
	outer := errors.Wrap(inner, errors.CodeUnknown, "adding context")

	require.NotNil(t, outer)
	assert.Equal(t, errors.CodeMalformedData, outer.Code)
}

func TestWrap_OverridesCodeWhenExplicit(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeMalformedData, "bad record")
	outer := errors.Wrap(inner, errors.CodeInternal, "unexpected state")

	assert.Equal(t, errors.CodeInternal, outer.Code)
}

func TestError_Format(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeUpstreamStatus, "backend rejected request")
	assert.Equal(t, "[UPSTREAM_002] backend rejected request", ae.Error())

	detailed := ae.WithDetail("status=502")
	assert.Equal(t, "[UPSTREAM_002] backend rejected request: status=502", detailed.Error())
	assert.Empty(t, ae.Detail, "WithDetail must not mutate the original")
}

func TestWithDetail_NilReceiver(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
	assert.Nil(t, ae.WithCause(stderrors.New("x")))
}

func TestWithCause_SetsCauseOnCopy(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("eof")
	ae := errors.MalformedData("truncated body").WithCause(cause)
	assert.ErrorIs(t, ae, cause)
}

func TestIsCode_TraversesForeignWrappers(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeUpstreamStatus, "502")
	mid := fmt.Errorf("hits page: %w", inner)
	outer := errors.Wrap(mid, errors.CodeInternal, "load failed")

	assert.True(t, errors.IsCode(outer, errors.CodeInternal))
	assert.True(t, errors.IsCode(outer, errors.CodeUpstreamStatus))
	assert.False(t, errors.IsCode(outer, errors.CodeMalformedData))
	assert.False(t, errors.IsCode(stderrors.New("plain"), errors.CodeInternal))
	assert.False(t, errors.IsCode(nil, errors.CodeInternal))
}

func TestIsUpstream(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsUpstream(errors.New(errors.CodeUpstreamTransport, "x")))
	assert.True(t, errors.IsUpstream(errors.New(errors.CodeUpstreamStatus, "x")))
	assert.True(t, errors.IsUpstream(errors.MalformedData("x")))
	assert.False(t, errors.IsUpstream(errors.InvalidParam("x")))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(errors.InvalidConfig("bad url")))
	assert.Equal(t, errors.CodeInternal, errors.GetCode(errors.Internal("n=3")))
}

func TestNew_StackIsPopulated(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeInternal, "test")
	assert.Contains(t, ae.Stack, "errors_test.go")
}
