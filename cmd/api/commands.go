package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"path/filepath"
	"slices"
	"time"

	"github.com/catalog-federation/cmd/api/book"
	"github.com/catalog-federation/cmd/api/config"
	"github.com/catalog-federation/cmd/api/database"
	"github.com/catalog-federation/cmd/api/gateway"
	bookhttp "github.com/catalog-federation/cmd/api/http"
	"github.com/catalog-federation/cmd/api/inmemory"
	"github.com/catalog-federation/cmd/api/sale"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

/* A subgraph service. db is nil when the service runs on the in-memory store. */
type service struct {
	name            string
	short           string
	defaultPort     int
	migrationsTable string
	newServer       func(cfg config.Config, db *sql.DB, log *zap.SugaredLogger) (*http.Server, error)
}

var booksService = service{
	name:            "books",
	short:           "Serve the book subgraph (books and authors)",
	defaultPort:     4000,
	migrationsTable: "books_schema_migrations",
	newServer: func(cfg config.Config, db *sql.DB, log *zap.SugaredLogger) (*http.Server, error) {
		var store book.Store
		if db != nil {
			store = database.NewBookStore(db)
		} else {
			memStore, err := inmemory.NewBookStore()
			if err != nil {
				return nil, fmt.Errorf("creating in-memory store: %w", err)
			}
			store = memStore
		}
		handler := bookhttp.NewBookHandler(book.NewService(store, log))
		return bookhttp.NewBookServer(serverConfig(cfg), handler, log), nil
	},
}

var salesService = service{
	name:            "sales",
	short:           "Serve the sale subgraph",
	defaultPort:     4001,
	migrationsTable: "sales_schema_migrations",
	newServer: func(cfg config.Config, db *sql.DB, log *zap.SugaredLogger) (*http.Server, error) {
		var store sale.Store
		if db != nil {
			store = database.NewSaleStore(db)
		} else {
			memStore, err := inmemory.NewSaleStore()
			if err != nil {
				return nil, fmt.Errorf("creating in-memory store: %w", err)
			}
			store = memStore
		}
		handler := bookhttp.NewSaleHandler(sale.NewService(store, log))
		return bookhttp.NewSaleServer(serverConfig(cfg), handler, log), nil
	},
}

var services = []service{booksService, salesService}

func serverConfig(cfg config.Config) bookhttp.ServerConfig {
	return bookhttp.ServerConfig{Port: cfg.Port, RequestTimeout: cfg.RequestTimeout}
}

func newSubgraphCommand(svc service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   svc.name,
		Short: svc.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, svc.defaultPort)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()
			log = log.With("service", svc.name)

			var db *sql.DB
			if cfg.Store == config.StorePostgres {
				db, err = openDatabase(cmd.Context(), cfg, log)
				if err != nil {
					return err
				}
				defer db.Close()

				if err := database.MigrationUp(db, migrationsDir(cfg, svc), svc.migrationsTable); err != nil {
					return fmt.Errorf("migrating %s: %w", svc.name, err)
				}
			}

			server, err := svc.newServer(cfg, db, log)
			if err != nil {
				return err
			}
			log.Infow("starting subgraph", "store", cfg.Store, "request_timeout", cfg.RequestTimeout)
			return serve(log, server)
		},
	}

	cmd.Flags().String("store", "", "postgres or memory (STORE)")
	return cmd
}

func newGatewayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Serve the composition gateway in front of both subgraphs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, 8080)
			if err != nil {
				return err
			}
			if err := cfg.ValidateGateway(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			client := &http.Client{Timeout: cfg.RequestTimeout}
			gw, err := gateway.New(cfg.BooksURL, cfg.SalesURL, client, log)
			if err != nil {
				return err
			}
			log.Infow("starting gateway", "books", cfg.BooksURL, "sales", cfg.SalesURL)
			return serve(log, gateway.NewServer(serverConfig(cfg), gw, log))
		},
	}

	cmd.Flags().String("books-url", "", "base url of the book subgraph (BOOKS_URL)")
	cmd.Flags().String("sales-url", "", "base url of the sale subgraph (SALES_URL)")
	return cmd
}

func newMigrateCommand() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:       "migrate [books|sales]...",
		Short:     "Apply the schema migrations of the given services, all of them by default",
		ValidArgs: lo.Map(services, func(s service, _ int) string { return s.name }),
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, 0)
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return config.ErrMissingDatabaseURL
			}

			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := openDatabase(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer db.Close()

			selected := lo.Filter(services, func(s service, _ int) bool {
				return len(args) == 0 || slices.Contains(args, s.name)
			})
			for _, svc := range selected {
				dir := migrationsDir(cfg, svc)
				if down {
					err = database.MigrationDown(db, dir, svc.migrationsTable)
				} else {
					err = database.MigrationUp(db, dir, svc.migrationsTable)
				}
				if err != nil {
					return fmt.Errorf("migrating %s: %w", svc.name, err)
				}
				log.Infow("migrations applied", "service", svc.name, "down", down)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "revert every migration instead of applying them")
	return cmd
}

func openDatabase(ctx context.Context, cfg config.Config, log *zap.SugaredLogger) (*sql.DB, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := database.ConnectDb(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("connecting with db: %w", err)
	}
	return db, nil
}

func migrationsDir(cfg config.Config, svc service) string {
	return filepath.Join(cfg.MigrationsPath, svc.name)
}
