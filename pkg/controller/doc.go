// Package controller contains the HTTP middlewares and debug handlers shared
// by the API server.
//
// Middlewares:
//   - WithCORS answers preflight requests and sets CORS headers for the configured origins.
//   - WithLogger attaches a request ID and a request-scoped logger, then writes an access log.
//   - WithRecover converts handler panics into 500 responses.
//
// Handlers:
//   - PprofMux exposes net/http/pprof, meant to be mounted with http.StripPrefix.
package controller
