package database_test

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/catalog-federation/cmd/api/book"
	"github.com/catalog-federation/cmd/api/database"
	"github.com/catalog-federation/cmd/api/pkgerrors"
	"github.com/catalog-federation/cmd/api/sale"
	"github.com/matryer/is"
	"go.uber.org/zap"
)

const migrationsPath = "../../../migrations"

var sqlDB *sql.DB
var ctx context.Context = context.Background()

// TestMain connects and migrates only when DATABASE_URL points to a test database.
// Without it, the tests that need Postgres skip themselves.
func TestMain(m *testing.M) {
	connStr := os.Getenv("DATABASE_URL")
	if connStr != "" {
		var err error
		sqlDB, err = database.ConnectDb(ctx, connStr, zap.NewNop().Sugar())
		if err != nil {
			log.Fatalln(err)
		}
		if err := database.MigrationUp(sqlDB, migrationsPath+"/books", "books_schema_migrations"); err != nil {
			log.Fatalln(err)
		}
		if err := database.MigrationUp(sqlDB, migrationsPath+"/sales", "sales_schema_migrations"); err != nil {
			log.Fatalln(err)
		}
	}

	os.Exit(m.Run())
}

func requireDB(t *testing.T) {
	t.Helper()
	if sqlDB == nil {
		t.Skip("DATABASE_URL not set")
	}
	t.Cleanup(func() {
		teardownDB(t)
	})
}

func TestBookStore(t *testing.T) {
	requireDB(t)
	store := database.NewBookStore(sqlDB)
	now := time.Now().UTC().Round(time.Millisecond)

	t.Run("creates and loads a book with its authors", func(t *testing.T) {
		is := is.New(t)

		b, err := store.CreateBook(ctx, book.Book{Title: "Foo", Pages: 100, CreatedAt: now, UpdatedAt: now})
		is.NoErr(err)
		birth := time.Date(1970, 5, 1, 0, 0, 0, 0, time.UTC)
		a, err := store.CreateAuthor(ctx, book.Author{Name: "Jane Doe", BirthDate: &birth, CreatedAt: now, UpdatedAt: now})
		is.NoErr(err)
		is.NoErr(store.InsertLinks(ctx, []book.Link{{BookID: b.ID, AuthorID: a.ID}}))

		found, err := store.GetBookByID(ctx, b.ID)
		is.NoErr(err)
		is.Equal(found.Title, "Foo")
		is.True(found.CreatedAt.Equal(now))
		is.Equal(len(found.Authors), 1)
		is.True(found.Authors[0].BirthDate.Equal(birth))

		author, err := store.GetAuthorByID(ctx, a.ID)
		is.NoErr(err)
		is.Equal(len(author.Books), 1)
	})

	t.Run("reports missing rows as not found", func(t *testing.T) {
		is := is.New(t)

		_, err := store.GetBookByID(ctx, 999999)
		is.True(errors.Is(err, pkgerrors.ErrResponseNotFound))
		err = store.DeleteAuthor(ctx, 999999)
		is.True(errors.Is(err, pkgerrors.ErrResponseNotFound))
	})

	t.Run("rolls back on error", func(t *testing.T) {
		is := is.New(t)

		boom := errors.New("boom")
		var created book.Book
		err := store.WithinTx(ctx, func(ctx context.Context, repo book.Repository) error {
			var err error
			created, err = repo.CreateBook(ctx, book.Book{Title: "Gone", Pages: 1, CreatedAt: now, UpdatedAt: now})
			if err != nil {
				return err
			}
			return boom
		})
		is.True(errors.Is(err, boom))

		_, err = store.GetBookByID(ctx, created.ID)
		is.True(errors.Is(err, pkgerrors.ErrResponseNotFound))
	})
}

func TestSyncOnPostgres(t *testing.T) {
	requireDB(t)
	is := is.New(t)
	svc := book.NewService(database.NewBookStore(sqlDB), zap.NewNop().Sugar())

	a1, err := svc.CreateAuthor(ctx, book.CreateAuthorRequest{Name: "Jane Doe"})
	is.NoErr(err)
	a2, err := svc.CreateAuthor(ctx, book.CreateAuthorRequest{Name: "John Roe"})
	is.NoErr(err)

	created, err := svc.CreateBook(ctx, book.CreateBookRequest{Title: "Foo", Pages: 10, Authors: []int{a1.ID}})
	is.NoErr(err)

	authors := []int{a2.ID}
	updated, err := svc.UpdateBook(ctx, book.UpdateBookRequest{ID: created.ID, Authors: &authors})
	is.NoErr(err)
	is.Equal(len(updated.Authors), 1)
	is.Equal(updated.Authors[0].ID, a2.ID)

	_, err = svc.CreateBook(ctx, book.CreateBookRequest{Title: "Bar", Pages: 10, Authors: []int{a1.ID, 999999}})
	is.True(errors.Is(err, pkgerrors.ErrResponseReferenceNotFound))

	books, err := svc.ListBooks(ctx)
	is.NoErr(err)
	is.Equal(len(books), 1)
}

func TestSaleStore(t *testing.T) {
	requireDB(t)
	is := is.New(t)
	svc := sale.NewService(database.NewSaleStore(sqlDB), zap.NewNop().Sugar())

	price := 990
	created, err := svc.NewSale(ctx, sale.NewSaleRequest{
		CustomerID: 1,
		Products:   []sale.LineItemInput{{ProductID: 4, PriceCent: &price}},
	})
	is.NoErr(err)
	is.Equal(created.Status, sale.StatusPending)
	is.Equal(created.Products[0].ProductType, "BOOK")

	three := 3
	updated, err := svc.AddProductToSale(ctx, sale.AddProductsRequest{
		SaleID:   created.ID,
		Products: []sale.LineItemInput{{ProductID: 4, Quantity: &three, PriceCent: &price}},
	})
	is.NoErr(err)
	is.Equal(updated.Products[0].Quantity, 4)

	bookSales, err := svc.ResolveBookSales(ctx, 4)
	is.NoErr(err)
	is.Equal(len(bookSales.Sales), 1)

	is.NoErr(svc.CancelSale(ctx, created.ID))
	err = svc.CancelSale(ctx, 999999)
	is.True(errors.Is(err, pkgerrors.ErrResponseNotFound))

	removed, err := svc.RemoveProductFromSale(ctx, sale.RemoveProductsRequest{SaleID: created.ID, ProductIDs: []int{4}})
	is.NoErr(err)
	is.Equal(len(removed.Products), 0)
	is.Equal(removed.Status, sale.StatusCanceled)
}

func TestDownMigrations(t *testing.T) {
	requireDB(t)
	is := is.New(t)

	t.Cleanup(func() {
		is.NoErr(database.MigrationUp(sqlDB, migrationsPath+"/sales", "sales_schema_migrations"))
	})

	is.NoErr(database.MigrationDown(sqlDB, migrationsPath+"/sales", "sales_schema_migrations"))

	var tableExists bool
	err := sqlDB.QueryRow(`SELECT EXISTS (
		SELECT FROM pg_tables
		WHERE schemaname = 'public' AND tablename = 'sale_products'
	);`).Scan(&tableExists)
	is.NoErr(err)
	is.True(!tableExists)
}

func teardownDB(t *testing.T) {
	is := is.New(t)

	_, err := sqlDB.Exec(`TRUNCATE TABLE authors_books, authors, books RESTART IDENTITY CASCADE`)
	is.NoErr(err)
	_, err = sqlDB.Exec(`TRUNCATE TABLE sale_products, sales RESTART IDENTITY CASCADE`)
	is.NoErr(err)
}
