package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Env            string
	Port           int
	RequestTimeout time.Duration
	Store          string
	DatabaseURL    string
	MigrationsPath string
	BooksURL       string
	SalesURL       string
}

/* Reads the configuration from the environment, falling back to defaults for unset variables. */
func FromEnv(defaultPort int) (Config, error) {
	cfg := Config{
		Env:            getEnv("APP_ENV", "dev"),
		Port:           defaultPort,
		RequestTimeout: 10 * time.Second,
		Store:          getEnv("STORE", StorePostgres),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: getEnv("DATABASE_MIGRATIONS_PATH", "migrations"),
		BooksURL:       getEnv("BOOKS_URL", "http://localhost:4000"),
		SalesURL:       getEnv("SALES_URL", "http://localhost:4001"),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("getting port from env: %w", err)
		}
		cfg.Port = port
	}

	if timeoutStr := os.Getenv("HTTP_REQUEST_TIMEOUT"); timeoutStr != "" { //Must be written with a unit suffix, like 5s
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("getting request timeout from env: %w", err)
		}
		cfg.RequestTimeout = timeout
	}

	return cfg, nil
}

var (
	ErrInvalidPort        = errors.New("port must be between 1 and 65535")
	ErrInvalidTimeout     = errors.New("request timeout must be positive")
	ErrInvalidStore       = errors.New("store must be postgres or memory")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for the postgres store")
	ErrInvalidSubgraphURL = errors.New("subgraph url must be an absolute http(s) url")
)

/* Checks the values needed to serve a subgraph. */
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return ErrInvalidPort
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	default:
		return ErrInvalidStore
	}
	return nil
}

/* Checks the values needed to run the gateway, which has no store of its own. */
func (c Config) ValidateGateway() error {
	if c.Port <= 0 || c.Port > 65535 {
		return ErrInvalidPort
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}
	for _, raw := range []string{c.BooksURL, c.SalesURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("%w: %q", ErrInvalidSubgraphURL, raw)
		}
	}
	return nil
}

func getEnv(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
