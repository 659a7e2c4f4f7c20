package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/catalog-federation/cmd/api/book"
	"github.com/catalog-federation/cmd/api/pkgerrors"
	"github.com/samber/lo"
)

const (
	bookColumns   = "id, title, pages, created_at, updated_at"
	authorColumns = "id, name, birth_date, created_at, updated_at"
)

type BookStore struct {
	db  *sql.DB
	exc DBTX
	tx  bool
}

func NewBookStore(db *sql.DB) *BookStore {
	return &BookStore{db: db, exc: db}
}

func (store *BookStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repo book.Repository) error) error {
	if store.tx {
		return fn(ctx, store)
	}
	return withinTx(ctx, store.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, &BookStore{db: store.db, exc: tx, tx: true})
	})
}

// -- Books --

func (store *BookStore) CreateBook(ctx context.Context, b book.Book) (book.Book, error) {
	row, err := queryRow(ctx, store.exc, psql.Insert("books").
		Columns("title", "pages", "created_at", "updated_at").
		Values(b.Title, b.Pages, b.CreatedAt, b.UpdatedAt).
		Suffix("RETURNING "+bookColumns))
	if err != nil {
		return book.Book{}, fmt.Errorf("storing book on db: %w", err)
	}

	created, err := scanBook(row)
	if err != nil {
		return book.Book{}, fmt.Errorf("storing book on db: %w", err)
	}
	created.Authors = []book.Author{}
	return created, nil
}

func (store *BookStore) GetBookByID(ctx context.Context, id int) (book.Book, error) {
	row, err := queryRow(ctx, store.exc, psql.Select(bookColumns).From("books").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return book.Book{}, fmt.Errorf("searching book by ID: %w", err)
	}

	found, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return book.Book{}, fmt.Errorf("searching book by ID: %w", pkgerrors.NotFound("Book", id))
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("searching book by ID: %w", err)
	}

	authors, err := store.authorsByBook(ctx, []int{id})
	if err != nil {
		return book.Book{}, fmt.Errorf("searching book by ID: %w", err)
	}
	found.Authors = lo.ValueOr(authors, id, []book.Author{})
	return found, nil
}

func (store *BookStore) ListBooks(ctx context.Context) ([]book.Book, error) {
	books, err := queryRows(ctx, store.exc, psql.Select(bookColumns).From("books").OrderBy("id"), scanBook)
	if err != nil {
		return nil, fmt.Errorf("listing books from db: %w", err)
	}

	authors, err := store.authorsByBook(ctx, lo.Map(books, func(b book.Book, _ int) int { return b.ID }))
	if err != nil {
		return nil, fmt.Errorf("listing books from db: %w", err)
	}
	for i := range books {
		books[i].Authors = lo.ValueOr(authors, books[i].ID, []book.Author{})
	}
	return books, nil
}

func (store *BookStore) UpdateBook(ctx context.Context, b book.Book) (book.Book, error) {
	row, err := queryRow(ctx, store.exc, psql.Update("books").
		Set("title", b.Title).
		Set("pages", b.Pages).
		Set("updated_at", b.UpdatedAt).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING "+bookColumns))
	if err != nil {
		return book.Book{}, fmt.Errorf("updating book on db: %w", err)
	}

	updated, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return book.Book{}, fmt.Errorf("updating book on db: %w", pkgerrors.NotFound("Book", b.ID))
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("updating book on db: %w", err)
	}
	return updated, nil
}

func (store *BookStore) DeleteBook(ctx context.Context, id int) error {
	return deleteByID(ctx, store.exc, "books", "Book", id)
}

func (store *BookStore) ExistingBookIDs(ctx context.Context, ids []int) ([]int, error) {
	found, err := existingIDs(ctx, store.exc, "books", ids)
	if err != nil {
		return nil, fmt.Errorf("checking book ids: %w", err)
	}
	return found, nil
}

// -- Authors --

func (store *BookStore) CreateAuthor(ctx context.Context, a book.Author) (book.Author, error) {
	row, err := queryRow(ctx, store.exc, psql.Insert("authors").
		Columns("name", "birth_date", "created_at", "updated_at").
		Values(a.Name, a.BirthDate, a.CreatedAt, a.UpdatedAt).
		Suffix("RETURNING "+authorColumns))
	if err != nil {
		return book.Author{}, fmt.Errorf("storing author on db: %w", err)
	}

	created, err := scanAuthor(row)
	if err != nil {
		return book.Author{}, fmt.Errorf("storing author on db: %w", err)
	}
	created.Books = []book.Book{}
	return created, nil
}

func (store *BookStore) GetAuthorByID(ctx context.Context, id int) (book.Author, error) {
	row, err := queryRow(ctx, store.exc, psql.Select(authorColumns).From("authors").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return book.Author{}, fmt.Errorf("searching author by ID: %w", err)
	}

	found, err := scanAuthor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return book.Author{}, fmt.Errorf("searching author by ID: %w", pkgerrors.NotFound("Author", id))
	}
	if err != nil {
		return book.Author{}, fmt.Errorf("searching author by ID: %w", err)
	}

	books, err := store.booksByAuthor(ctx, []int{id})
	if err != nil {
		return book.Author{}, fmt.Errorf("searching author by ID: %w", err)
	}
	found.Books = lo.ValueOr(books, id, []book.Book{})
	return found, nil
}

func (store *BookStore) ListAuthors(ctx context.Context) ([]book.Author, error) {
	authors, err := queryRows(ctx, store.exc, psql.Select(authorColumns).From("authors").OrderBy("id"), scanAuthor)
	if err != nil {
		return nil, fmt.Errorf("listing authors from db: %w", err)
	}

	books, err := store.booksByAuthor(ctx, lo.Map(authors, func(a book.Author, _ int) int { return a.ID }))
	if err != nil {
		return nil, fmt.Errorf("listing authors from db: %w", err)
	}
	for i := range authors {
		authors[i].Books = lo.ValueOr(books, authors[i].ID, []book.Book{})
	}
	return authors, nil
}

func (store *BookStore) UpdateAuthor(ctx context.Context, a book.Author) (book.Author, error) {
	row, err := queryRow(ctx, store.exc, psql.Update("authors").
		Set("name", a.Name).
		Set("birth_date", a.BirthDate).
		Set("updated_at", a.UpdatedAt).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING "+authorColumns))
	if err != nil {
		return book.Author{}, fmt.Errorf("updating author on db: %w", err)
	}

	updated, err := scanAuthor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return book.Author{}, fmt.Errorf("updating author on db: %w", pkgerrors.NotFound("Author", a.ID))
	}
	if err != nil {
		return book.Author{}, fmt.Errorf("updating author on db: %w", err)
	}
	return updated, nil
}

func (store *BookStore) DeleteAuthor(ctx context.Context, id int) error {
	return deleteByID(ctx, store.exc, "authors", "Author", id)
}

func (store *BookStore) ExistingAuthorIDs(ctx context.Context, ids []int) ([]int, error) {
	found, err := existingIDs(ctx, store.exc, "authors", ids)
	if err != nil {
		return nil, fmt.Errorf("checking author ids: %w", err)
	}
	return found, nil
}

// -- Links --

func (store *BookStore) ListLinksByBook(ctx context.Context, bookID int) ([]book.Link, error) {
	links, err := store.listLinks(ctx, squirrel.Eq{"book_id": bookID})
	if err != nil {
		return nil, fmt.Errorf("listing links of book: %w", err)
	}
	return links, nil
}

func (store *BookStore) ListLinksByAuthor(ctx context.Context, authorID int) ([]book.Link, error) {
	links, err := store.listLinks(ctx, squirrel.Eq{"author_id": authorID})
	if err != nil {
		return nil, fmt.Errorf("listing links of author: %w", err)
	}
	return links, nil
}

func (store *BookStore) InsertLinks(ctx context.Context, links []book.Link) error {
	if len(links) == 0 {
		return nil
	}

	q := psql.Insert("authors_books").Columns("book_id", "author_id")
	for _, l := range links {
		q = q.Values(l.BookID, l.AuthorID)
	}
	if _, err := exec(ctx, store.exc, q); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("inserting links on db: %w", pkgerrors.WithDetail(pkgerrors.ErrResponseReferenceNotFound, "Book or Author"))
		}
		return fmt.Errorf("inserting links on db: %w", err)
	}
	return nil
}

func (store *BookStore) DeleteLinks(ctx context.Context, links []book.Link) error {
	if len(links) == 0 {
		return nil
	}

	if _, err := exec(ctx, store.exc, psql.Delete("authors_books").Where(linkFilter(links))); err != nil {
		return fmt.Errorf("deleting links on db: %w", err)
	}
	return nil
}

func linkFilter(links []book.Link) squirrel.Or {
	return lo.Map(links, func(l book.Link, _ int) squirrel.Sqlizer {
		return squirrel.And{squirrel.Eq{"book_id": l.BookID, "author_id": l.AuthorID}}
	})
}

func (store *BookStore) listLinks(ctx context.Context, where squirrel.Eq) ([]book.Link, error) {
	q := psql.Select("book_id", "author_id").From("authors_books").Where(where).OrderBy("book_id", "author_id")
	return queryRows(ctx, store.exc, q, func(row scanner) (book.Link, error) {
		var l book.Link
		err := row.Scan(&l.BookID, &l.AuthorID)
		return l, err
	})
}

func (store *BookStore) authorsByBook(ctx context.Context, bookIDs []int) (map[int][]book.Author, error) {
	type linked struct {
		bookID int
		author book.Author
	}

	q := psql.Select("ab.book_id", "a.id", "a.name", "a.birth_date", "a.created_at", "a.updated_at").
		From("authors_books ab").
		Join("authors a ON a.id = ab.author_id").
		Where(squirrel.Eq{"ab.book_id": bookIDs}).
		OrderBy("a.id")
	rows, err := queryRows(ctx, store.exc, q, func(row scanner) (linked, error) {
		var l linked
		err := row.Scan(&l.bookID, &l.author.ID, &l.author.Name, &l.author.BirthDate, &l.author.CreatedAt, &l.author.UpdatedAt)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("loading authors of books: %w", err)
	}

	grouped := lo.GroupBy(rows, func(l linked) int { return l.bookID })
	return lo.MapValues(grouped, func(ls []linked, _ int) []book.Author {
		return lo.Map(ls, func(l linked, _ int) book.Author { return l.author })
	}), nil
}

func (store *BookStore) booksByAuthor(ctx context.Context, authorIDs []int) (map[int][]book.Book, error) {
	type linked struct {
		authorID int
		book     book.Book
	}

	q := psql.Select("ab.author_id", "b.id", "b.title", "b.pages", "b.created_at", "b.updated_at").
		From("authors_books ab").
		Join("books b ON b.id = ab.book_id").
		Where(squirrel.Eq{"ab.author_id": authorIDs}).
		OrderBy("b.id")
	rows, err := queryRows(ctx, store.exc, q, func(row scanner) (linked, error) {
		var l linked
		err := row.Scan(&l.authorID, &l.book.ID, &l.book.Title, &l.book.Pages, &l.book.CreatedAt, &l.book.UpdatedAt)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("loading books of authors: %w", err)
	}

	grouped := lo.GroupBy(rows, func(l linked) int { return l.authorID })
	return lo.MapValues(grouped, func(ls []linked, _ int) []book.Book {
		return lo.Map(ls, func(l linked, _ int) book.Book { return l.book })
	}), nil
}

func scanBook(row scanner) (book.Book, error) {
	var b book.Book
	err := row.Scan(&b.ID, &b.Title, &b.Pages, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func scanAuthor(row scanner) (book.Author, error) {
	var a book.Author
	err := row.Scan(&a.ID, &a.Name, &a.BirthDate, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func deleteByID(ctx context.Context, exc DBTX, table, entity string, id int) error {
	result, err := exec(ctx, exc, psql.Delete(table).Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("deleting %s on db: %w", entity, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %s on db: %w", entity, err)
	}
	if affected == 0 {
		return fmt.Errorf("deleting %s on db: %w", entity, pkgerrors.NotFound(entity, id))
	}
	return nil
}

func existingIDs(ctx context.Context, exc DBTX, table string, ids []int) ([]int, error) {
	if len(ids) == 0 {
		return []int{}, nil
	}
	q := psql.Select("id").From(table).Where(squirrel.Eq{"id": ids}).OrderBy("id")
	return queryRows(ctx, exc, q, func(row scanner) (int, error) {
		var id int
		err := row.Scan(&id)
		return id, err
	})
}
