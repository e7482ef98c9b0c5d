package httpserver

import (
	"net/http"
	"time"

	"parish-app-go/internal/config"
)

const (
	defaultReadHeaderTimeout = 5 * time.Second
	defaultRequestTimeout    = 30 * time.Second
)

// New builds the API server. Write timeout stays unset so the CSV export can
// stream; per-request deadlines come from the router's timeout middleware.
func New(cfg config.Config, handler http.Handler) *http.Server {
	readHeader := cfg.HTTP.ReadHeaderTimeout
	if readHeader <= 0 {
		readHeader = defaultReadHeaderTimeout
	}
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: readHeader,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}
}

func requestTimeout(cfg config.Config) time.Duration {
	if cfg.HTTP.RequestTimeout <= 0 {
		return defaultRequestTimeout
	}
	return cfg.HTTP.RequestTimeout
}
