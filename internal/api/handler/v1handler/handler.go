// Package v1handler implements the v1 HTTP API of the places service on top
// of the places lifecycle manager.
package v1handler

import (
	"context"
	"net/http"
	"yourplaces/internal/config"
	"yourplaces/internal/places"
	"yourplaces/pkg/assets"
	"yourplaces/pkg/logger"
	"yourplaces/pkg/serrors"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// DefaultMaxImageBytes is used when Options.MaxImageBytes is not positive.
const DefaultMaxImageBytes = 500_000

type Deps struct {
	Places places.Manager
	Assets assets.Store
}

// Options configure request limits of the v1 handlers.
type Options struct {
	// MaxImageBytes is the largest accepted image upload.
	MaxImageBytes int64
}

func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxImageBytes: cfg.Assets.MaxImageBytes,
	}
}

type Handler struct {
	deps    Deps
	options Options
}

func New(deps Deps, options Options) *Handler {
	if options.MaxImageBytes <= 0 {
		options.MaxImageBytes = DefaultMaxImageBytes
	}

	return &Handler{
		deps:    deps,
		options: options,
	}
}

// Register mounts the v1 routes on mux. Mutating routes require a bearer token
// verified by sec.
func (h *Handler) Register(mux *http.ServeMux, sec *SecHandler) {
	mux.HandleFunc("GET /v1/places/{pid}", h.GetPlace)
	mux.HandleFunc("GET /v1/users/{uid}/places", h.ListUserPlaces)
	mux.HandleFunc("POST /v1/places", h.withBearerAuth(sec, "CreatePlace", h.CreatePlace))
	mux.HandleFunc("PATCH /v1/places/{pid}", h.withBearerAuth(sec, "UpdatePlace", h.UpdatePlace))
	mux.HandleFunc("DELETE /v1/places/{pid}", h.withBearerAuth(sec, "DeletePlace", h.DeletePlace))
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string
	Message string
}

// Encode writes the response as a JSON object.
func (r ErrorResponse) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Str(r.Code) })
		e.Field("message", func(e *jx.Encoder) { e.Str(r.Message) })
	})
}

type ErrorStatusCode struct {
	StatusCode int
	Response   ErrorResponse
}

var defaultMessages = map[serrors.Kind]string{ //nolint: gochecknoglobals
	serrors.ErrNotFound:     "resource not found",
	serrors.ErrUnauthorized: "unauthorized",
	serrors.ErrForbidden:    "forbidden",
	serrors.ErrBadRequest:   "invalid request",
	serrors.ErrConflict:     "conflict",
	serrors.ErrTimeout:      "request timed out",
	serrors.ErrUnavailable:  "service unavailable",
	serrors.ErrRateLimited:  "too many requests",
	serrors.ErrGeocoding:    "could not resolve the address",
	serrors.ErrTransaction:  "internal error",
	serrors.ErrStorage:      "internal error",
	serrors.ErrInternal:     "internal error",
}

func statusOf(kind serrors.Kind) int {
	switch kind {
	case serrors.ErrBadRequest, serrors.ErrGeocoding:
		return http.StatusUnprocessableEntity
	case serrors.ErrNotFound:
		return http.StatusNotFound
	case serrors.ErrForbidden:
		return http.StatusForbidden
	case serrors.ErrUnauthorized:
		return http.StatusUnauthorized
	case serrors.ErrConflict:
		return http.StatusConflict
	case serrors.ErrTimeout:
		return http.StatusGatewayTimeout
	case serrors.ErrUnavailable:
		return http.StatusServiceUnavailable
	case serrors.ErrRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// NewError maps err to a status code and a response that only carries the
// error kind and its message. Causes are logged, never returned.
func (h *Handler) NewError(ctx context.Context, err error) *ErrorStatusCode {
	kind := serrors.KindOf(err)
	if kind == nil {
		kind = serrors.ErrInternal
	}
	status := statusOf(kind)

	// internal errors never expose their message
	var message string
	if kind != serrors.ErrInternal {
		message = serrors.MessageOf(err)
	}
	if message == "" {
		message = defaultMessages[kind]
	}
	if message == "" {
		message = "internal error"
	}

	if status >= http.StatusInternalServerError {
		logger.Error(ctx, "Request failed", zap.String("code", kind.Error()), zap.Error(err))
	} else {
		logger.Debug(ctx, "Request rejected", zap.String("code", kind.Error()), zap.Error(err))
	}

	return &ErrorStatusCode{
		StatusCode: status,
		Response: ErrorResponse{
			Code:    kind.Error(),
			Message: message,
		},
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	res := h.NewError(r.Context(), err)
	writeJSON(w, res.StatusCode, res.Response.Encode)
}

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
