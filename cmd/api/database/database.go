package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/catalog-federation/cmd/api/pkgerrors"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/lib/pq"
	"go.uber.org/zap"

	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const foreignKeyViolation = "23503"

/* Connects to the database trought a connection string and returns a pointer to a valid DB object (*sql.DB). */
func ConnectDb(ctx context.Context, connStr string, log *zap.SugaredLogger) (*sql.DB, error) {
	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("connecting to db, openning: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("connecting to db, pingging: %w", err)
	}

	log.Infow("successfully connected to database")
	return sqlDB, nil
}

/*
Applies every pending migration found in path. Each service keeps its own migrations table so
both can share one database. ErrNoChange is not an error.
*/
func MigrationUp(db *sql.DB, path, migrationsTable string) error {
	m, err := newMigrate(db, path, migrationsTable)
	if err != nil {
		return fmt.Errorf("migrating up: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating up: %w", err)
	}
	return nil
}

func MigrationDown(db *sql.DB, path, migrationsTable string) error {
	m, err := newMigrate(db, path, migrationsTable)
	if err != nil {
		return fmt.Errorf("migrating down: %w", err)
	}

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating down: %w", err)
	}
	return nil
}

func newMigrate(db *sql.DB, path, migrationsTable string) (*migrate.Migrate, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return nil, err
	}
	return migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", path), "postgres", driver)
}

/*
Runs fn inside one database transaction. The transaction commits when fn returns nil and is
rolled back on every other path, including a panic inside fn.
*/
func withinTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return pkgerrors.TransactionFailure(fmt.Errorf("beginning transaction: %w", err))
	}
	// Rollback after a successful commit returns sql.ErrTxDone and does nothing.
	defer tx.Rollback()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return pkgerrors.TransactionFailure(fmt.Errorf("committing transaction: %w", err))
	}
	return nil
}

func queryRows[T any](ctx context.Context, exc DBTX, q squirrel.Sqlizer, scan func(row scanner) (T, error)) ([]T, error) {
	sqlStatement, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := exc.QueryContext(ctx, sqlStatement, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func queryRow(ctx context.Context, exc DBTX, q squirrel.Sqlizer) (*sql.Row, error) {
	sqlStatement, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return exc.QueryRowContext(ctx, sqlStatement, args...), nil
}

func exec(ctx context.Context, exc DBTX, q squirrel.Sqlizer) (sql.Result, error) {
	sqlStatement, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return exc.ExecContext(ctx, sqlStatement, args...)
}

type scanner interface {
	Scan(dest ...any) error
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}
