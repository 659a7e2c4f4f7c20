package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/catalog-federation/cmd/api/config"
	"github.com/catalog-federation/cmd/api/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	err := run()
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	return newRootCommand().Execute()
}

/* Persistent flags override the environment, but only when set on the command line. */
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "catalog",
		Short:         "Federated book and sale services",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("env", "", "environment, dev logs in color (APP_ENV)")
	cmd.PersistentFlags().String("database-url", "", "postgres connection string (DATABASE_URL)")
	cmd.PersistentFlags().String("migrations-path", "", "directory holding the books and sales migrations (DATABASE_MIGRATIONS_PATH)")
	cmd.PersistentFlags().Duration("timeout", 0, "per request timeout, like 5s (HTTP_REQUEST_TIMEOUT)")
	cmd.PersistentFlags().Int("port", 0, "port to listen on (PORT)")

	cmd.AddCommand(
		newSubgraphCommand(booksService),
		newSubgraphCommand(salesService),
		newGatewayCommand(),
		newMigrateCommand(),
	)
	return cmd
}

/* Reads the environment and lays the changed flags over it. */
func loadConfig(cmd *cobra.Command, defaultPort int) (config.Config, error) {
	cfg, err := config.FromEnv(defaultPort)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}

	fs := cmd.Flags()
	if fs.Changed("env") {
		cfg.Env, _ = fs.GetString("env")
	}
	if fs.Changed("database-url") {
		cfg.DatabaseURL, _ = fs.GetString("database-url")
	}
	if fs.Changed("migrations-path") {
		cfg.MigrationsPath, _ = fs.GetString("migrations-path")
	}
	if fs.Changed("timeout") {
		cfg.RequestTimeout, _ = fs.GetDuration("timeout")
	}
	if fs.Changed("port") {
		cfg.Port, _ = fs.GetInt("port")
	}
	if fs.Changed("store") {
		cfg.Store, _ = fs.GetString("store")
	}
	if fs.Changed("books-url") {
		cfg.BooksURL, _ = fs.GetString("books-url")
	}
	if fs.Changed("sales-url") {
		cfg.SalesURL, _ = fs.GetString("sales-url")
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*zap.SugaredLogger, error) {
	sugar, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	zap.ReplaceGlobals(sugar.Desugar())
	return sugar, nil
}

/* Serves until SIGINT or SIGTERM, then drains in-flight requests. */
func serve(log *zap.SugaredLogger, server *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		log.Infow("listening", "addr", server.Addr)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("unexpected http server error: %w", err)
		}
		close(errc)
	}()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sc)

	select {
	case err := <-errc:
		return err
	case sig := <-sc:
		log.Infow("shutting down", "signal", sig.String())
	}

	ctx, shutdownRelease := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownRelease()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown error: %w", err)
	}
	log.Infow("graceful shutdown complete")
	return nil
}
