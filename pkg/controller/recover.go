package controller

import (
	"net/http"
	"yourplaces/pkg/logger"

	"go.uber.org/zap"
)

const internalErrorBody = `{"code":"INTERNAL","message":"internal error"}`

// WithRecover returns a middleware that turns a panicking handler into a 500
// response and logs the panic value with the request-scoped logger.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func WithRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if p == http.ErrAbortHandler { //nolint: errorlint, err113
				panic(p)
			}

			logger.Error(r.Context(), "captured panic in handler", zap.Any("panic", p), zap.Stack("stack"))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(internalErrorBody))
		}()

		next.ServeHTTP(w, r)
	})
}
