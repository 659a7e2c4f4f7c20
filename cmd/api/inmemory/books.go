package inmemory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/catalog-federation/cmd/api/book"
	"github.com/catalog-federation/cmd/api/pkgerrors"
	"github.com/hashicorp/go-memdb"
)

const (
	tableBooks   = "books"
	tableAuthors = "authors"
	tableLinks   = "authors_books"
)

type bookRow struct {
	ID        int
	Title     string
	Pages     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type authorRow struct {
	ID        int
	Name      string
	BirthDate *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func bookSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableBooks: {
				Name: tableBooks,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.IntFieldIndex{Field: "ID"},
					},
				},
			},
			tableAuthors: {
				Name: tableAuthors,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.IntFieldIndex{Field: "ID"},
					},
				},
			},
			tableLinks: {
				Name: tableLinks,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:   "id",
						Unique: true,
						Indexer: &memdb.CompoundIndex{
							Indexes: []memdb.Indexer{
								&memdb.IntFieldIndex{Field: "BookID"},
								&memdb.IntFieldIndex{Field: "AuthorID"},
							},
						},
					},
					"book_id": {
						Name:    "book_id",
						Indexer: &memdb.IntFieldIndex{Field: "BookID"},
					},
					"author_id": {
						Name:    "author_id",
						Indexer: &memdb.IntFieldIndex{Field: "AuthorID"},
					},
				},
			},
		},
	}
}

type BookStore struct {
	memStore
}

func NewBookStore() (*BookStore, error) {
	m, err := newMemStore(bookSchema())
	if err != nil {
		return nil, err
	}
	return &BookStore{memStore: m}, nil
}

func (store *BookStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repo book.Repository) error) error {
	return store.withinTx(ctx, func(ctx context.Context, scoped memStore) error {
		return fn(ctx, &BookStore{memStore: scoped})
	})
}

// -- Books --

func (store *BookStore) CreateBook(ctx context.Context, b book.Book) (book.Book, error) {
	row := bookRow{
		ID:        store.nextID(tableBooks),
		Title:     b.Title,
		Pages:     b.Pages,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	err := store.write(ctx, func(txn *memdb.Txn) error {
		return txn.Insert(tableBooks, row)
	})
	if err != nil {
		return book.Book{}, fmt.Errorf("storing book: %w", err)
	}
	return row.toBook(nil), nil
}

func (store *BookStore) GetBookByID(ctx context.Context, id int) (book.Book, error) {
	var found book.Book
	err := store.read(ctx, func(txn *memdb.Txn) error {
		row, err := firstBook(txn, id)
		if err != nil {
			return err
		}
		authors, err := authorsOf(txn, id)
		if err != nil {
			return err
		}
		found = row.toBook(authors)
		return nil
	})
	if err != nil {
		return book.Book{}, fmt.Errorf("searching book by ID: %w", err)
	}
	return found, nil
}

func (store *BookStore) ListBooks(ctx context.Context) ([]book.Book, error) {
	books := []book.Book{}
	err := store.read(ctx, func(txn *memdb.Txn) error {
		it, err := txn.Get(tableBooks, "id")
		if err != nil {
			return err
		}
		for obj := it.Next(); obj != nil; obj = it.Next() {
			row := obj.(bookRow)
			authors, err := authorsOf(txn, row.ID)
			if err != nil {
				return err
			}
			books = append(books, row.toBook(authors))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}

	slices.SortFunc(books, func(a, b book.Book) int { return a.ID - b.ID })
	return books, nil
}

/* CreatedAt never changes. */
func (store *BookStore) UpdateBook(ctx context.Context, b book.Book) (book.Book, error) {
	var updated bookRow
	err := store.write(ctx, func(txn *memdb.Txn) error {
		row, err := firstBook(txn, b.ID)
		if err != nil {
			return err
		}
		row.Title = b.Title
		row.Pages = b.Pages
		row.UpdatedAt = b.UpdatedAt
		updated = row
		return txn.Insert(tableBooks, row)
	})
	if err != nil {
		return book.Book{}, fmt.Errorf("updating book: %w", err)
	}
	return updated.toBook(nil), nil
}

func (store *BookStore) DeleteBook(ctx context.Context, id int) error {
	err := store.write(ctx, func(txn *memdb.Txn) error {
		row, err := firstBook(txn, id)
		if err != nil {
			return err
		}
		return txn.Delete(tableBooks, row)
	})
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	return nil
}

func (store *BookStore) ExistingBookIDs(ctx context.Context, ids []int) ([]int, error) {
	found := []int{}
	err := store.read(ctx, func(txn *memdb.Txn) error {
		return collectExisting(txn, tableBooks, ids, &found)
	})
	if err != nil {
		return nil, fmt.Errorf("checking book ids: %w", err)
	}
	return found, nil
}

// -- Authors --

func (store *BookStore) CreateAuthor(ctx context.Context, a book.Author) (book.Author, error) {
	row := authorRow{
		ID:        store.nextID(tableAuthors),
		Name:      a.Name,
		BirthDate: a.BirthDate,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	err := store.write(ctx, func(txn *memdb.Txn) error {
		return txn.Insert(tableAuthors, row)
	})
	if err != nil {
		return book.Author{}, fmt.Errorf("storing author: %w", err)
	}
	return row.toAuthor(nil), nil
}

func (store *BookStore) GetAuthorByID(ctx context.Context, id int) (book.Author, error) {
	var found book.Author
	err := store.read(ctx, func(txn *memdb.Txn) error {
		row, err := firstAuthor(txn, id)
		if err != nil {
			return err
		}
		books, err := booksOf(txn, id)
		if err != nil {
			return err
		}
		found = row.toAuthor(books)
		return nil
	})
	if err != nil {
		return book.Author{}, fmt.Errorf("searching author by ID: %w", err)
	}
	return found, nil
}

func (store *BookStore) ListAuthors(ctx context.Context) ([]book.Author, error) {
	authors := []book.Author{}
	err := store.read(ctx, func(txn *memdb.Txn) error {
		it, err := txn.Get(tableAuthors, "id")
		if err != nil {
			return err
		}
		for obj := it.Next(); obj != nil; obj = it.Next() {
			row := obj.(authorRow)
			books, err := booksOf(txn, row.ID)
			if err != nil {
				return err
			}
			authors = append(authors, row.toAuthor(books))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing authors: %w", err)
	}

	slices.SortFunc(authors, func(a, b book.Author) int { return a.ID - b.ID })
	return authors, nil
}

func (store *BookStore) UpdateAuthor(ctx context.Context, a book.Author) (book.Author, error) {
	var updated authorRow
	err := store.write(ctx, func(txn *memdb.Txn) error {
		row, err := firstAuthor(txn, a.ID)
		if err != nil {
			return err
		}
		row.Name = a.Name
		row.BirthDate = a.BirthDate
		row.UpdatedAt = a.UpdatedAt
		updated = row
		return txn.Insert(tableAuthors, row)
	})
	if err != nil {
		return book.Author{}, fmt.Errorf("updating author: %w", err)
	}
	return updated.toAuthor(nil), nil
}

func (store *BookStore) DeleteAuthor(ctx context.Context, id int) error {
	err := store.write(ctx, func(txn *memdb.Txn) error {
		row, err := firstAuthor(txn, id)
		if err != nil {
			return err
		}
		return txn.Delete(tableAuthors, row)
	})
	if err != nil {
		return fmt.Errorf("deleting author: %w", err)
	}
	return nil
}

func (store *BookStore) ExistingAuthorIDs(ctx context.Context, ids []int) ([]int, error) {
	found := []int{}
	err := store.read(ctx, func(txn *memdb.Txn) error {
		return collectExisting(txn, tableAuthors, ids, &found)
	})
	if err != nil {
		return nil, fmt.Errorf("checking author ids: %w", err)
	}
	return found, nil
}

// -- Links --

func (store *BookStore) ListLinksByBook(ctx context.Context, bookID int) ([]book.Link, error) {
	var links []book.Link
	err := store.read(ctx, func(txn *memdb.Txn) error {
		var err error
		links, err = linksBy(txn, "book_id", bookID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing links of book: %w", err)
	}
	return links, nil
}

func (store *BookStore) ListLinksByAuthor(ctx context.Context, authorID int) ([]book.Link, error) {
	var links []book.Link
	err := store.read(ctx, func(txn *memdb.Txn) error {
		var err error
		links, err = linksBy(txn, "author_id", authorID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing links of author: %w", err)
	}
	return links, nil
}

func (store *BookStore) InsertLinks(ctx context.Context, links []book.Link) error {
	err := store.write(ctx, func(txn *memdb.Txn) error {
		for _, l := range links {
			existing, err := txn.First(tableLinks, "id", l.BookID, l.AuthorID)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("link book %d author %d already exists", l.BookID, l.AuthorID)
			}
			if err := txn.Insert(tableLinks, l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("inserting links: %w", err)
	}
	return nil
}

/* Links that are not stored are skipped. */
func (store *BookStore) DeleteLinks(ctx context.Context, links []book.Link) error {
	err := store.write(ctx, func(txn *memdb.Txn) error {
		for _, l := range links {
			if _, err := txn.DeleteAll(tableLinks, "id", l.BookID, l.AuthorID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting links: %w", err)
	}
	return nil
}

func firstBook(txn *memdb.Txn, id int) (bookRow, error) {
	raw, err := txn.First(tableBooks, "id", id)
	if err != nil {
		return bookRow{}, err
	}
	if raw == nil {
		return bookRow{}, pkgerrors.NotFound("Book", id)
	}
	return raw.(bookRow), nil
}

func firstAuthor(txn *memdb.Txn, id int) (authorRow, error) {
	raw, err := txn.First(tableAuthors, "id", id)
	if err != nil {
		return authorRow{}, err
	}
	if raw == nil {
		return authorRow{}, pkgerrors.NotFound("Author", id)
	}
	return raw.(authorRow), nil
}

func linksBy(txn *memdb.Txn, index string, id int) ([]book.Link, error) {
	it, err := txn.Get(tableLinks, index, id)
	if err != nil {
		return nil, err
	}
	links := []book.Link{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		links = append(links, obj.(book.Link))
	}
	return links, nil
}

func authorsOf(txn *memdb.Txn, bookID int) ([]book.Author, error) {
	links, err := linksBy(txn, "book_id", bookID)
	if err != nil {
		return nil, err
	}
	authors := make([]book.Author, 0, len(links))
	for _, l := range links {
		row, err := firstAuthor(txn, l.AuthorID)
		if err != nil {
			return nil, err
		}
		authors = append(authors, row.toAuthor(nil))
	}
	slices.SortFunc(authors, func(a, b book.Author) int { return a.ID - b.ID })
	return authors, nil
}

func booksOf(txn *memdb.Txn, authorID int) ([]book.Book, error) {
	links, err := linksBy(txn, "author_id", authorID)
	if err != nil {
		return nil, err
	}
	books := make([]book.Book, 0, len(links))
	for _, l := range links {
		row, err := firstBook(txn, l.BookID)
		if err != nil {
			return nil, err
		}
		books = append(books, row.toBook(nil))
	}
	slices.SortFunc(books, func(a, b book.Book) int { return a.ID - b.ID })
	return books, nil
}

func collectExisting(txn *memdb.Txn, table string, ids []int, found *[]int) error {
	for _, id := range ids {
		raw, err := txn.First(table, "id", id)
		if err != nil {
			return err
		}
		if raw != nil {
			*found = append(*found, id)
		}
	}
	return nil
}

func (row bookRow) toBook(authors []book.Author) book.Book {
	if authors == nil {
		authors = []book.Author{}
	}
	return book.Book{
		ID:        row.ID,
		Title:     row.Title,
		Pages:     row.Pages,
		Authors:   authors,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func (row authorRow) toAuthor(books []book.Book) book.Author {
	if books == nil {
		books = []book.Book{}
	}
	return book.Author{
		ID:        row.ID,
		Name:      row.Name,
		BirthDate: row.BirthDate,
		Books:     books,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
