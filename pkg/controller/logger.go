package controller

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"
	"yourplaces/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CtxKey namespaces the values this package stores in request contexts.
type CtxKey string

// RequestIDKey holds the X-Request-Id of the current request.
const RequestIDKey CtxKey = "RequestID"

const requestIDHeader = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// GetClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then
// the peer address.
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")

		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

// WithLogger tags every request with an id, taken from X-Request-Id or
// generated, gives handlers a logger carrying it and writes one access log
// entry per request.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = logger.WithFields(ctx, zap.String(string(RequestIDKey), requestID))

		// the mux records the matched pattern on this request
		req := r.WithContext(ctx)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, req)

		logger.Info(ctx, "Access log",
			zap.String("method", r.Method),
			zap.String("route", req.Pattern),
			zap.String("url", r.URL.String()),
			zap.Int("status_code", rec.status),
			zap.Float64("latency", time.Since(start).Seconds()),
			zap.String("client_ip", GetClientIP(r)),
			zap.String("user_agent", r.UserAgent()),
			zap.String("referer", r.Referer()),
		)
	})
}
