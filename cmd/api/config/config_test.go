package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/catalog-federation/cmd/api/config"
	"github.com/matryer/is"
)

func TestFromEnv(t *testing.T) {
	t.Run("uses defaults when nothing is set", func(t *testing.T) {
		is := is.New(t)
		t.Setenv("PORT", "")
		t.Setenv("HTTP_REQUEST_TIMEOUT", "")
		t.Setenv("STORE", "")

		cfg, err := config.FromEnv(4000)
		is.NoErr(err)
		is.Equal(cfg.Port, 4000)
		is.Equal(cfg.RequestTimeout, 10*time.Second)
		is.Equal(cfg.Store, config.StorePostgres)
	})

	t.Run("reads overrides from the environment", func(t *testing.T) {
		is := is.New(t)
		t.Setenv("PORT", "8081")
		t.Setenv("HTTP_REQUEST_TIMEOUT", "3s")
		t.Setenv("STORE", "memory")

		cfg, err := config.FromEnv(4000)
		is.NoErr(err)
		is.Equal(cfg.Port, 8081)
		is.Equal(cfg.RequestTimeout, 3*time.Second)
		is.Equal(cfg.Store, config.StoreMemory)
		is.NoErr(cfg.Validate())
	})

	t.Run("rejects a timeout without unit", func(t *testing.T) {
		is := is.New(t)
		t.Setenv("HTTP_REQUEST_TIMEOUT", "30")

		_, err := config.FromEnv(4000)
		is.True(err != nil)
	})
}

func TestValidate(t *testing.T) {
	valid := config.Config{
		Port:           4000,
		RequestTimeout: time.Second,
		Store:          config.StorePostgres,
		DatabaseURL:    "postgres://localhost/catalog",
		BooksURL:       "http://books:4000",
		SalesURL:       "http://sales:4001",
	}

	tests := []struct {
		name   string
		modify func(c *config.Config)
		want   error
	}{
		{"valid postgres config", func(c *config.Config) {}, nil},
		{"memory store needs no database", func(c *config.Config) { c.Store = config.StoreMemory; c.DatabaseURL = "" }, nil},
		{"postgres store needs a database", func(c *config.Config) { c.DatabaseURL = "" }, config.ErrMissingDatabaseURL},
		{"unknown store", func(c *config.Config) { c.Store = "redis" }, config.ErrInvalidStore},
		{"port out of range", func(c *config.Config) { c.Port = 70000 }, config.ErrInvalidPort},
		{"zero timeout", func(c *config.Config) { c.RequestTimeout = 0 }, config.ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			cfg := valid
			tt.modify(&cfg)
			is.Equal(cfg.Validate(), tt.want)
		})
	}

	t.Run("gateway rejects a relative subgraph url", func(t *testing.T) {
		is := is.New(t)
		cfg := valid
		cfg.SalesURL = "sales:4001"
		is.True(errors.Is(cfg.ValidateGateway(), config.ErrInvalidSubgraphURL))
	})

	t.Run("gateway accepts absolute subgraph urls", func(t *testing.T) {
		is := is.New(t)
		is.NoErr(valid.ValidateGateway())
	})
}
