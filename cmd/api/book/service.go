package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/catalog-federation/cmd/api/pkgerrors"
	"github.com/catalog-federation/cmd/api/validation"
	"go.uber.org/zap"
)

type Repository interface {
	CreateBook(ctx context.Context, b Book) (Book, error)
	GetBookByID(ctx context.Context, id int) (Book, error)
	ListBooks(ctx context.Context) ([]Book, error)
	UpdateBook(ctx context.Context, b Book) (Book, error)
	DeleteBook(ctx context.Context, id int) error
	ExistingBookIDs(ctx context.Context, ids []int) ([]int, error)

	CreateAuthor(ctx context.Context, a Author) (Author, error)
	GetAuthorByID(ctx context.Context, id int) (Author, error)
	ListAuthors(ctx context.Context) ([]Author, error)
	UpdateAuthor(ctx context.Context, a Author) (Author, error)
	DeleteAuthor(ctx context.Context, id int) error
	ExistingAuthorIDs(ctx context.Context, ids []int) ([]int, error)

	ListLinksByBook(ctx context.Context, bookID int) ([]Link, error)
	ListLinksByAuthor(ctx context.Context, authorID int) ([]Link, error)
	InsertLinks(ctx context.Context, links []Link) error
	DeleteLinks(ctx context.Context, links []Link) error
}

/*
Store is a Repository that can also open a transaction scope. WithinTx commits when fn
returns nil and rolls back otherwise; the transaction is released on every path.
*/
type Store interface {
	Repository
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}

type Service struct {
	store    Store
	validate *validation.Validator
	log      *zap.SugaredLogger
	now      func() time.Time
}

func NewService(store Store, log *zap.SugaredLogger) *Service {
	return &Service{
		store:    store,
		validate: validation.New(),
		log:      log.With("service", "book"),
		now:      func() time.Time { return time.Now().UTC().Round(time.Millisecond) },
	}
}

func (s *Service) ListBooks(ctx context.Context) ([]Book, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, pkgerrors.FromRepository("ListBooks", err)
	}
	return books, nil
}

func (s *Service) GetBook(ctx context.Context, id int) (Book, error) {
	b, err := s.store.GetBookByID(ctx, id)
	if err != nil {
		return Book{}, pkgerrors.FromRepository("GetBook", err)
	}
	return b, nil
}

/* Creates the book and links it to every requested author. One missing author aborts the whole creation. */
func (s *Service) CreateBook(ctx context.Context, req CreateBookRequest) (Book, error) {
	if err := s.validate.Validate(req); err != nil {
		return Book{}, err
	}

	createdAt := s.now()
	var created Book
	err := s.store.WithinTx(ctx, func(ctx context.Context, repo Repository) error {
		b, err := repo.CreateBook(ctx, Book{
			Title:     req.Title,
			Pages:     req.Pages,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		})
		if err != nil {
			return err
		}

		if _, err := Sync(ctx, repo, BookAuthors, b.ID, req.Authors); err != nil {
			return err
		}

		created, err = repo.GetBookByID(ctx, b.ID)
		return err
	})
	if err != nil {
		return Book{}, pkgerrors.FromRepository("CreateBook", err)
	}

	s.log.Infow("book created", "book_id", created.ID, "authors", len(created.Authors))
	return created, nil
}

/* Applies the fields present in req. A relation resync happens in the same transaction as the scalar update. */
func (s *Service) UpdateBook(ctx context.Context, req UpdateBookRequest) (Book, error) {
	if err := s.validate.Validate(req); err != nil {
		return Book{}, err
	}

	var updated Book
	err := s.store.WithinTx(ctx, func(ctx context.Context, repo Repository) error {
		current, err := repo.GetBookByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.Title != nil {
			current.Title = *req.Title
		}
		if req.Pages != nil {
			current.Pages = *req.Pages
		}
		current.UpdatedAt = s.now()

		if _, err := repo.UpdateBook(ctx, current); err != nil {
			return err
		}

		if req.Authors != nil {
			if _, err := Sync(ctx, repo, BookAuthors, req.ID, *req.Authors); err != nil {
				return err
			}
		}

		updated, err = repo.GetBookByID(ctx, req.ID)
		return err
	})
	if err != nil {
		return Book{}, pkgerrors.FromRepository("UpdateBook", err)
	}

	return updated, nil
}

/*
Deletes the book and its author links. Deleting a book that is already gone is reported as
success, so callers cannot tell "deleted now" from "already absent".
*/
func (s *Service) DeleteBook(ctx context.Context, id int) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, repo Repository) error {
		links, err := repo.ListLinksByBook(ctx, id)
		if err != nil {
			return err
		}
		if len(links) > 0 {
			if err := repo.DeleteLinks(ctx, links); err != nil {
				return err
			}
		}
		return repo.DeleteBook(ctx, id)
	})
	if errors.Is(err, pkgerrors.ErrResponseNotFound) {
		s.log.Debugw("book already absent, delete is a no-op", "book_id", id)
		return nil
	}
	if err != nil {
		return pkgerrors.FromRepository("DeleteBook", err)
	}

	s.log.Infow("book deleted", "book_id", id)
	return nil
}

/* Federation entry point: returns nil, without error, when the book does not exist. Read only. */
func (s *Service) ResolveBookReference(ctx context.Context, id int) (*Book, error) {
	b, err := s.store.GetBookByID(ctx, id)
	if errors.Is(err, pkgerrors.ErrResponseNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving book reference: %w", pkgerrors.FromRepository("ResolveBookReference", err))
	}
	return &b, nil
}
