package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Asset store backends accepted by Assets.Backend.
const (
	AssetsBackendLocal = "local"
	AssetsBackendS3    = "s3"
)

// Config represents the application configuration structure.
// It contains settings for the environment, HTTP server, database connection,
// external collaborators (geocoder, redis, asset store), the place lifecycle
// manager, background workers and graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the environment's default log level when set (debug, info, warn, error)
	LogLevel string `env:"LOG_LEVEL" env-default:"" yaml:"logLevel"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"10s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// AllowedOrigins lists the origins allowed by CORS; empty or "*" allows any origin
		AllowedOrigins []string `env:"HTTP_ALLOWED_ORIGINS" env-separator:"," yaml:"allowedOrigins"`
		// EnablePprof mounts net/http/pprof handlers under /debug/pprof/
		EnablePprof bool `env:"HTTP_ENABLE_PPROF" env-default:"false" yaml:"enablePprof"`
	} `yaml:"http"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"yourplaces" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"8" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// JWT contains the keys used to issue and verify bearer tokens
	JWT struct {
		// PublicKey is the PEM encoded RSA public key used to verify RS256 tokens
		PublicKey string `env:"JWT_PUBLIC_KEY" yaml:"publicKey"`
		// PrivateKey is the PEM encoded RSA private key used by the jwt command to sign tokens
		PrivateKey string `env:"JWT_PRIVATE_KEY" yaml:"privateKey"`
	} `yaml:"jwt"`

	// Geocoder contains the address resolution provider settings
	Geocoder struct {
		// BaseURL is the geocoding endpoint
		BaseURL string `env:"GEOCODER_BASE_URL" env-default:"https://maps.googleapis.com/maps/api/geocode/json" yaml:"baseURL"` //nolint: lll
		// APIKey is the provider API key
		APIKey string `env:"GEOCODER_API_KEY" yaml:"apiKey"`
		// Timeout bounds a single resolution request
		Timeout time.Duration `env:"GEOCODER_TIMEOUT" env-default:"5s" yaml:"timeout"`
	} `yaml:"geocoder"`

	// Redis contains the settings of the geocoding result cache
	Redis struct {
		// Enabled turns the geocoding cache on
		Enabled bool `env:"REDIS_ENABLED" env-default:"false" yaml:"enabled"`
		// Addr is the redis host:port
		Addr string `env:"REDIS_ADDR" env-default:"localhost:6379" yaml:"addr"`
		// Password for redis authentication
		Password string `env:"REDIS_PASSWORD" env-default:"" yaml:"password"`
		// DB is the redis logical database number
		DB int `env:"REDIS_DB" env-default:"0" yaml:"db"`
		// GeocodeTTL is how long a resolved address is kept
		GeocodeTTL time.Duration `env:"REDIS_GEOCODE_TTL" env-default:"168h" yaml:"geocodeTTL"`
	} `yaml:"redis"`

	// Assets contains the image store settings
	Assets struct {
		// Backend selects the asset store implementation (local or s3)
		Backend string `env:"ASSETS_BACKEND" env-default:"local" yaml:"backend"`
		// Root is the directory images are written to by the local backend
		Root string `env:"ASSETS_ROOT" env-default:"uploads" yaml:"root"`
		// S3 configures the s3 backend
		S3 struct {
			Endpoint  string `env:"ASSETS_S3_ENDPOINT" env-default:"localhost:9000" yaml:"endpoint"`
			AccessKey string `env:"ASSETS_S3_ACCESS_KEY" yaml:"accessKey"`
			SecretKey string `env:"ASSETS_S3_SECRET_KEY" yaml:"secretKey"`
			Bucket    string `env:"ASSETS_S3_BUCKET" env-default:"yourplaces" yaml:"bucket"`
			Secure    bool   `env:"ASSETS_S3_SECURE" env-default:"false" yaml:"secure"`
		} `yaml:"s3"`
		// MaxImageBytes is the largest accepted image upload
		MaxImageBytes int64 `env:"ASSETS_MAX_IMAGE_BYTES" env-default:"500000" yaml:"maxImageBytes"`
	} `yaml:"assets"`

	// Places contains the lifecycle manager settings
	Places struct {
		// MaxTxAttempts is the number of times a conflicting transaction is attempted
		MaxTxAttempts int `env:"PLACES_MAX_TX_ATTEMPTS" env-default:"5" yaml:"maxTxAttempts"`
		// TxTimeout bounds a single transaction attempt; an attempt that does not commit in time rolls back
		TxTimeout time.Duration `env:"PLACES_TX_TIMEOUT" env-default:"5s" yaml:"txTimeout"`
		// RetryInitialInterval is the first backoff delay after a write conflict
		RetryInitialInterval time.Duration `env:"PLACES_RETRY_INITIAL_INTERVAL" env-default:"20ms" yaml:"retryInitialInterval"`
		// RetryMaxInterval caps the backoff delay between attempts
		RetryMaxInterval time.Duration `env:"PLACES_RETRY_MAX_INTERVAL" env-default:"500ms" yaml:"retryMaxInterval"`
		// AssetCleanupMaxAttempts is how often the background worker retries a failed image deletion
		AssetCleanupMaxAttempts int `env:"PLACES_ASSET_CLEANUP_MAX_ATTEMPTS" env-default:"10" yaml:"assetCleanupMaxAttempts"`
	} `yaml:"places"`

	// Worker contains the background job settings
	Worker struct {
		// MaxWorkers is the number of concurrent jobs in the default queue
		MaxWorkers int `env:"WORKER_MAX_WORKERS" env-default:"10" yaml:"maxWorkers"`
		// SweepInterval is how often the orphaned asset sweep runs; zero disables it
		SweepInterval time.Duration `env:"WORKER_SWEEP_INTERVAL" env-default:"24h" yaml:"sweepInterval"`
		// SweepGracePeriod protects freshly uploaded images whose place transaction may still be running
		SweepGracePeriod time.Duration `env:"WORKER_SWEEP_GRACE_PERIOD" env-default:"1h" yaml:"sweepGracePeriod"`
	} `yaml:"worker"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load reads the yaml file at configPath, then applies environment overrides
// and env-default tags. Without a file at configPath only the environment is read.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read config from environment: %w", err)
		}

		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
