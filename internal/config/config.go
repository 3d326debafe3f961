package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	PaymentAPIAddress  string
	PaymentAccessToken string
	PublicBaseURL      string
	CurrencyID         string
	JWTSecret          string
	ProviderMaxRetries int
	ProviderRetryBase  time.Duration
	ReconcileInterval  time.Duration
	PendingOrderTTL    time.Duration
	MaxOrdersBatch     int
	WorkerPoolSize     int
	ShutdownTimeout    time.Duration
}

const (
	defaultRunAddress         = ":8080"
	defaultPaymentAPIAddress  = "https://api.mercadopago.com"
	defaultPublicBaseURL      = "http://localhost:8080"
	defaultCurrencyID         = "ARS"
	defaultJWTSecret          = "change-me-in-production"
	defaultProviderMaxRetries = 4
	defaultProviderRetryBase  = 300 * time.Millisecond
	defaultReconcileInterval  = time.Minute
	defaultPendingOrderTTL    = 30 * time.Minute
	defaultMaxOrdersBatch     = 32
	defaultWorkerPoolSize     = 4
	defaultShutdownTimeout    = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		PaymentAPIAddress:  getString(lookup, "PAYMENT_API_ADDRESS", defaultPaymentAPIAddress),
		PaymentAccessToken: getString(lookup, "MP_ACCESS_TOKEN", ""),
		PublicBaseURL:      getString(lookup, "PUBLIC_BASE_URL", defaultPublicBaseURL),
		CurrencyID:         getString(lookup, "CURRENCY_ID", defaultCurrencyID),
		JWTSecret:          getString(lookup, "JWT_SECRET", defaultJWTSecret),
		ProviderMaxRetries: getInt(lookup, "PROVIDER_MAX_RETRIES", defaultProviderMaxRetries),
		ProviderRetryBase:  getDuration(lookup, "PROVIDER_RETRY_BASE", defaultProviderRetryBase),
		ReconcileInterval:  getDuration(lookup, "RECONCILE_INTERVAL", defaultReconcileInterval),
		PendingOrderTTL:    getDuration(lookup, "PENDING_ORDER_TTL", defaultPendingOrderTTL),
		MaxOrdersBatch:     getInt(lookup, "RECONCILE_BATCH_SIZE", defaultMaxOrdersBatch),
		WorkerPoolSize:     getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("coffeebeans", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		reconcileIntervalStr = cfg.ReconcileInterval.String()
		pendingTTLStr        = cfg.PendingOrderTTL.String()
		shutdownTimeoutStr   = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.PaymentAPIAddress, "p", cfg.PaymentAPIAddress, "Payment processor API base URL")
	fs.StringVar(&cfg.PaymentAccessToken, "token", cfg.PaymentAccessToken, "Payment processor access token")
	fs.StringVar(&cfg.PublicBaseURL, "public-url", cfg.PublicBaseURL, "Public base URL for webhook callbacks")
	fs.StringVar(&cfg.CurrencyID, "currency", cfg.CurrencyID, "Currency identifier sent to the payment processor")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent reconcile workers")
	fs.StringVar(&reconcileIntervalStr, "reconcile-interval", reconcileIntervalStr, "Interval between pending-order reconcile passes")
	fs.StringVar(&pendingTTLStr, "pending-ttl", pendingTTLStr, "Age after which unpaid orders expire")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.MaxOrdersBatch, "reconcile-batch", cfg.MaxOrdersBatch, "Maximum orders per reconcile batch")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ReconcileInterval, err = time.ParseDuration(reconcileIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile interval: %w", err)
	}

	if cfg.PendingOrderTTL, err = time.ParseDuration(pendingTTLStr); err != nil {
		return nil, fmt.Errorf("invalid pending order ttl: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxOrdersBatch <= 0 {
		cfg.MaxOrdersBatch = defaultMaxOrdersBatch
	}

	if cfg.ProviderMaxRetries <= 0 {
		cfg.ProviderMaxRetries = defaultProviderMaxRetries
	}

	if cfg.ProviderRetryBase <= 0 {
		cfg.ProviderRetryBase = defaultProviderRetryBase
	}

	if cfg.ReconcileInterval <= 0 {
		cfg.ReconcileInterval = defaultReconcileInterval
	}

	if cfg.PendingOrderTTL <= 0 {
		cfg.PendingOrderTTL = defaultPendingOrderTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.PaymentAccessToken == "" {
		return nil, fmt.Errorf("payment processor access token must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
