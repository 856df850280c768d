// Package api configures and exposes the HTTP server, routes,
// metrics, docs and related middleware for the places service.
package api

import (
	_ "embed"
	"fmt"
	"net/http"
	"time"
	"yourplaces/internal/api/handler/v1handler"
	"yourplaces/internal/config"
	"yourplaces/pkg/controller"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
)

//go:embed specs/v1.yaml
var v1Spec []byte

// Options configures the HTTP surface of the service. Zero timeouts fall back
// to net/http behavior.
type Options struct {
	SecHandlerOptions *v1handler.SecHandlerOptions
	HandlerOptions    v1handler.Options

	Addr              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	// RequestTimeout bounds a single request, including its calls to the
	// database, the geocoder and the asset store.
	RequestTimeout time.Duration

	MetricsPath string
	// AllowedOrigins is the CORS allow list. Empty allows any origin.
	AllowedOrigins []string
	EnablePprof    bool
	// UploadsDir, when set, is served read-only under /uploads/.
	UploadsDir string
}

// NewOptions reads the http, jwt and assets sections of cfg.
func NewOptions(cfg *config.Config) Options {
	opts := Options{
		SecHandlerOptions: v1handler.NewSecHandlerOptions(cfg),
		HandlerOptions:    v1handler.NewOptions(cfg),

		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
		AllowedOrigins:    cfg.HTTP.AllowedOrigins,
		EnablePprof:       cfg.HTTP.EnablePprof,
	}
	if cfg.Assets.Backend == config.AssetsBackendLocal {
		opts.UploadsDir = cfg.Assets.Root
	}

	return opts
}

type Deps struct {
	v1handler.Deps
}

// NewHandler builds the root handler of the service:
// - Prometheus metrics endpoint (MetricsPath)
// - Embedded OpenAPI v1 spec and Swagger UI
// - v1 API routes
// - uploaded images when they live on the local disk
// - pprof endpoints for profiling when enabled
// The mux is wrapped with recovery, CORS and logging middlewares and a request timeout.
func NewHandler(deps Deps, opts Options) (http.Handler, error) {
	mux := http.NewServeMux()

	// prometheus metrics server
	mux.Handle(opts.MetricsPath, promhttp.Handler())

	// v1 specs file
	mux.HandleFunc("GET /specs/v1.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(v1Spec)
	})
	// v1 api swagger playground
	mux.Handle("/v1/docs/", v5emb.New(
		"Your Places",
		"/specs/v1.yaml",
		"/v1/docs/",
	))

	// v1 api
	secHandler, err := v1handler.NewSecHandler(opts.SecHandlerOptions)
	if err != nil {
		return nil, fmt.Errorf("could not create sec handler: %w", err)
	}
	v1handler.New(deps.Deps, opts.HandlerOptions).Register(mux, secHandler)

	// uploaded images
	if opts.UploadsDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir))))
	}

	// pprof
	if opts.EnablePprof {
		mux.Handle("/debug/pprof/", http.StripPrefix("/debug/pprof", controller.PprofMux()))
	}

	// panics
	handler := controller.WithRecover(mux)

	// cors
	handler = controller.WithCORS(opts.AllowedOrigins, handler)

	// logger
	handler = controller.WithLogger(handler)

	if opts.RequestTimeout > 0 {
		handler = http.TimeoutHandler(handler, opts.RequestTimeout,
			`{"code":"TIMEOUT","message":"request timed out"}`)
	}

	return handler, nil
}

// NewServer returns an unstarted server for NewHandler.
func NewServer(deps Deps, opts Options) (*http.Server, error) {
	handler, err := NewHandler(deps, opts)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
	}, nil
}
