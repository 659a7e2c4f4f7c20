package inmemory_test

import (
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/catalog-federation/cmd/api/book"
	"github.com/catalog-federation/cmd/api/inmemory"
	"github.com/catalog-federation/cmd/api/pkgerrors"
	"github.com/matryer/is"
)

var ctx context.Context = context.Background()

func TestCreateBook(t *testing.T) {
	store, err := inmemory.NewBookStore()
	if err != nil {
		log.Fatalln(err)
	}

	t.Run("creates books with increasing ids", func(t *testing.T) {
		is := is.New(t)

		first, err := store.CreateBook(ctx, newBook("Foo"))
		is.NoErr(err)
		second, err := store.CreateBook(ctx, newBook("Bar"))
		is.NoErr(err)

		is.Equal(first.Title, "Foo")
		is.True(second.ID > first.ID)
		is.Equal(len(first.Authors), 0)
	})
}

func TestGetBook(t *testing.T) {
	store, err := inmemory.NewBookStore()
	if err != nil {
		log.Fatalln(err)
	}

	t.Run("returns the book with its authors", func(t *testing.T) {
		is := is.New(t)

		b, err := store.CreateBook(ctx, newBook("Foo"))
		is.NoErr(err)
		a, err := store.CreateAuthor(ctx, book.Author{Name: "Jane Doe"})
		is.NoErr(err)
		is.NoErr(store.InsertLinks(ctx, []book.Link{{BookID: b.ID, AuthorID: a.ID}}))

		found, err := store.GetBookByID(ctx, b.ID)
		is.NoErr(err)
		is.Equal(found.Title, "Foo")
		is.Equal(len(found.Authors), 1)
		is.Equal(found.Authors[0].Name, "Jane Doe")

		author, err := store.GetAuthorByID(ctx, a.ID)
		is.NoErr(err)
		is.Equal(len(author.Books), 1)
		is.Equal(author.Books[0].ID, b.ID)
	})

	t.Run("returns not found for an unknown id", func(t *testing.T) {
		is := is.New(t)

		_, err := store.GetBookByID(ctx, 999)
		is.True(errors.Is(err, pkgerrors.ErrResponseNotFound))
	})
}

func TestUpdateBook(t *testing.T) {
	store, err := inmemory.NewBookStore()
	if err != nil {
		log.Fatalln(err)
	}

	t.Run("keeps the creation time", func(t *testing.T) {
		is := is.New(t)

		b, err := store.CreateBook(ctx, newBook("Foo"))
		is.NoErr(err)

		b.Title = "Foo, second edition"
		b.UpdatedAt = b.CreatedAt.Add(time.Hour)
		b.CreatedAt = time.Time{}
		updated, err := store.UpdateBook(ctx, b)
		is.NoErr(err)

		found, err := store.GetBookByID(ctx, b.ID)
		is.NoErr(err)
		is.Equal(found.Title, "Foo, second edition")
		is.Equal(found.UpdatedAt, updated.UpdatedAt)
		is.True(!found.CreatedAt.IsZero())
	})

	t.Run("returns not found for an unknown id", func(t *testing.T) {
		is := is.New(t)

		_, err := store.UpdateBook(ctx, book.Book{ID: 999, Title: "nope"})
		is.True(errors.Is(err, pkgerrors.ErrResponseNotFound))
	})
}

func TestDeleteBook(t *testing.T) {
	store, err := inmemory.NewBookStore()
	if err != nil {
		log.Fatalln(err)
	}

	is := is.New(t)

	b, err := store.CreateBook(ctx, newBook("Foo"))
	is.NoErr(err)

	is.NoErr(store.DeleteBook(ctx, b.ID))
	err = store.DeleteBook(ctx, b.ID)
	is.True(errors.Is(err, pkgerrors.ErrResponseNotFound))
}

func TestExistingIDs(t *testing.T) {
	store, err := inmemory.NewBookStore()
	if err != nil {
		log.Fatalln(err)
	}

	is := is.New(t)

	a1, err := store.CreateAuthor(ctx, book.Author{Name: "Jane Doe"})
	is.NoErr(err)
	a2, err := store.CreateAuthor(ctx, book.Author{Name: "John Roe"})
	is.NoErr(err)

	found, err := store.ExistingAuthorIDs(ctx, []int{a1.ID, 999, a2.ID})
	is.NoErr(err)
	is.Equal(found, []int{a1.ID, a2.ID})

	found, err = store.ExistingBookIDs(ctx, []int{a1.ID})
	is.NoErr(err)
	is.Equal(len(found), 0)
}

func TestLinks(t *testing.T) {
	store, err := inmemory.NewBookStore()
	if err != nil {
		log.Fatalln(err)
	}

	is := is.New(t)

	b, err := store.CreateBook(ctx, newBook("Foo"))
	is.NoErr(err)
	a1, err := store.CreateAuthor(ctx, book.Author{Name: "Jane Doe"})
	is.NoErr(err)
	a2, err := store.CreateAuthor(ctx, book.Author{Name: "John Roe"})
	is.NoErr(err)

	links := []book.Link{{BookID: b.ID, AuthorID: a1.ID}, {BookID: b.ID, AuthorID: a2.ID}}
	is.NoErr(store.InsertLinks(ctx, links))

	t.Run("inserting an existing link fails", func(t *testing.T) {
		is := is.New(t)
		err := store.InsertLinks(ctx, links[:1])
		is.True(err != nil)
	})

	t.Run("lists links from both sides", func(t *testing.T) {
		is := is.New(t)

		byBook, err := store.ListLinksByBook(ctx, b.ID)
		is.NoErr(err)
		is.Equal(len(byBook), 2)

		byAuthor, err := store.ListLinksByAuthor(ctx, a2.ID)
		is.NoErr(err)
		is.Equal(byAuthor, []book.Link{{BookID: b.ID, AuthorID: a2.ID}})
	})

	t.Run("deletes only the given links", func(t *testing.T) {
		is := is.New(t)

		is.NoErr(store.DeleteLinks(ctx, links[:1]))
		byBook, err := store.ListLinksByBook(ctx, b.ID)
		is.NoErr(err)
		is.Equal(byBook, []book.Link{{BookID: b.ID, AuthorID: a2.ID}})
	})
}

func TestBookStoreWithinTx(t *testing.T) {
	store, err := inmemory.NewBookStore()
	if err != nil {
		log.Fatalln(err)
	}

	t.Run("commits when the callback succeeds", func(t *testing.T) {
		is := is.New(t)

		var created book.Book
		err := store.WithinTx(ctx, func(ctx context.Context, repo book.Repository) error {
			var err error
			created, err = repo.CreateBook(ctx, newBook("Committed"))
			return err
		})
		is.NoErr(err)

		_, err = store.GetBookByID(ctx, created.ID)
		is.NoErr(err)
	})

	t.Run("rolls back every write when the callback fails", func(t *testing.T) {
		is := is.New(t)

		boom := errors.New("boom")
		var created book.Book
		err := store.WithinTx(ctx, func(ctx context.Context, repo book.Repository) error {
			var err error
			created, err = repo.CreateBook(ctx, newBook("Rolled back"))
			if err != nil {
				return err
			}
			a, err := repo.CreateAuthor(ctx, book.Author{Name: "Ghost"})
			if err != nil {
				return err
			}
			if err := repo.InsertLinks(ctx, []book.Link{{BookID: created.ID, AuthorID: a.ID}}); err != nil {
				return err
			}
			return boom
		})
		is.True(errors.Is(err, boom))

		_, err = store.GetBookByID(ctx, created.ID)
		is.True(errors.Is(err, pkgerrors.ErrResponseNotFound))

		authors, err := store.ListAuthors(ctx)
		is.NoErr(err)
		is.Equal(len(authors), 0)
	})

	t.Run("does not start on a canceled context", func(t *testing.T) {
		is := is.New(t)

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		called := false
		err := store.WithinTx(canceled, func(ctx context.Context, repo book.Repository) error {
			called = true
			return nil
		})
		is.True(errors.Is(err, pkgerrors.ErrResponseTransactionFailure))
		is.True(errors.Is(err, context.Canceled))
		is.True(!called)
	})
}

func newBook(title string) book.Book {
	now := time.Now().UTC().Round(time.Millisecond)
	return book.Book{Title: title, Pages: 100, CreatedAt: now, UpdatedAt: now}
}
