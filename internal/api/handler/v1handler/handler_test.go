package v1handler_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"yourplaces/internal/api/handler/v1handler"

	"yourplaces/pkg/logger"
	"yourplaces/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Initialize logger to avoid nil pointer deref during tests
	_ = logger.Setup(logger.DevelopmentEnvironment, "error")
	m.Run()
}

func newTestHandler() *v1handler.Handler {
	return v1handler.New(v1handler.Deps{}, v1handler.Options{})
}

func TestNewError_InternalOnPlainError(t *testing.T) {
	h := newTestHandler()
	ctx := context.Background()

	res := h.NewError(ctx, errors.New("boom"))
	require.NotNil(t, res)
	require.Equal(t, 500, res.StatusCode)
	require.Equal(t, serrors.ErrInternal.Error(), res.Response.Code)
	require.Equal(t, "internal error", res.Response.Message)
}

func TestNewError_KindSentinelDirect_NotFound(t *testing.T) {
	h := newTestHandler()
	ctx := context.Background()

	// Pass the Kind sentinel directly
	res := h.NewError(ctx, serrors.ErrNotFound)
	require.Equal(t, 404, res.StatusCode)
	require.Equal(t, serrors.ErrNotFound.Error(), res.Response.Code)
	require.Equal(t, "resource not found", res.Response.Message)
}

func TestNewError_SemanticWithMessage_BadRequest(t *testing.T) {
	h := newTestHandler()
	ctx := context.Background()

	err := serrors.With(serrors.ErrBadRequest, "invalid inputs passed, please check your data")
	res := h.NewError(ctx, err)
	require.Equal(t, 422, res.StatusCode)
	require.Equal(t, serrors.ErrBadRequest.Error(), res.Response.Code)
	require.Equal(t, "invalid inputs passed, please check your data", res.Response.Message)
}

func TestNewError_SemanticWrap_Unauthorized(t *testing.T) {
	h := newTestHandler()
	ctx := context.Background()

	cause := errors.New("bad token")
	err := serrors.Wrap(serrors.ErrUnauthorized, cause, "unauthorized")
	res := h.NewError(ctx, err)
	require.Equal(t, 401, res.StatusCode)
	require.Equal(t, serrors.ErrUnauthorized.Error(), res.Response.Code)
	// Should include provided message, not the cause
	require.Equal(t, "unauthorized", res.Response.Message)
}

func TestNewError_InternalKind_GeneratesInternal(t *testing.T) {
	h := newTestHandler()
	ctx := context.Background()

	res := h.NewError(ctx, serrors.KindOnly(serrors.ErrInternal))
	require.Equal(t, 500, res.StatusCode)
	require.Equal(t, serrors.ErrInternal.Error(), res.Response.Code)
	require.Equal(t, "internal error", res.Response.Message)
}

func TestNewError_InternalKind_HidesMessage(t *testing.T) {
	h := newTestHandler()

	res := h.NewError(context.Background(), serrors.Wrap(serrors.ErrInternal, errors.New("dsn"), "connect to 10.0.0.1"))
	require.Equal(t, "internal error", res.Response.Message)
}

func TestNewError_StatusByKind(t *testing.T) {
	h := newTestHandler()
	ctx := context.Background()

	tests := []struct {
		kind    serrors.Kind
		status  int
		message string
	}{
		{serrors.ErrForbidden, 403, "you are not allowed to delete this place"},
		{serrors.ErrGeocoding, 422, "unable to get coordinates for the address"},
		{serrors.ErrTransaction, 500, "creating place failed, please try again later"},
		{serrors.ErrStorage, 500, "fetching places failed, please try again later"},
		{serrors.ErrConflict, 409, "conflict!"},
		{serrors.ErrTimeout, 504, "slow"},
		{serrors.ErrUnavailable, 503, "down"},
		{serrors.ErrRateLimited, 429, "slow down"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.Error(), func(t *testing.T) {
			// wrapping with fmt.Errorf keeps kind and message reachable
			err := fmt.Errorf("handler: %w", serrors.Wrap(tt.kind, errors.New("cause"), "%s", tt.message))
			res := h.NewError(ctx, err)
			require.Equal(t, tt.status, res.StatusCode)
			require.Equal(t, tt.kind.Error(), res.Response.Code)
			require.Equal(t, tt.message, res.Response.Message)
		})
	}
}

func TestNewError_DefaultMessages(t *testing.T) {
	h := newTestHandler()

	res := h.NewError(context.Background(), serrors.KindOnly(serrors.ErrGeocoding))
	require.Equal(t, "could not resolve the address", res.Response.Message)

	res = h.NewError(context.Background(), serrors.KindOnly(serrors.ErrTransaction))
	require.Equal(t, "internal error", res.Response.Message)
}

func TestNewError_MessageFromNestedError(t *testing.T) {
	h := newTestHandler()

	inner := serrors.With(serrors.ErrGeocoding, "no coordinates for address")
	err := fmt.Errorf("creating place: %w", serrors.Wrap(serrors.ErrGeocoding, inner, ""))

	res := h.NewError(context.Background(), err)
	require.Equal(t, 422, res.StatusCode)
	require.Equal(t, "GEOCODING_FAILED", res.Response.Code)
	require.Equal(t, "no coordinates for address", res.Response.Message)
}
