package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/catalog-federation/cmd/api/pkgerrors"
)

func (s *Service) ListAuthors(ctx context.Context) ([]Author, error) {
	authors, err := s.store.ListAuthors(ctx)
	if err != nil {
		return nil, pkgerrors.FromRepository("ListAuthors", err)
	}
	return authors, nil
}

func (s *Service) GetAuthor(ctx context.Context, id int) (Author, error) {
	a, err := s.store.GetAuthorByID(ctx, id)
	if err != nil {
		return Author{}, pkgerrors.FromRepository("GetAuthor", err)
	}
	return a, nil
}

func (s *Service) CreateAuthor(ctx context.Context, req CreateAuthorRequest) (Author, error) {
	if err := s.validate.Validate(req); err != nil {
		return Author{}, err
	}
	birthDate, err := optionalDate(req.BirthDate)
	if err != nil {
		return Author{}, err
	}

	createdAt := s.now()
	created, err := s.store.CreateAuthor(ctx, Author{
		Name:      req.Name,
		BirthDate: birthDate,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	})
	if err != nil {
		return Author{}, pkgerrors.FromRepository("CreateAuthor", err)
	}

	s.log.Infow("author created", "author_id", created.ID)
	return created, nil
}

func (s *Service) UpdateAuthor(ctx context.Context, req UpdateAuthorRequest) (Author, error) {
	if err := s.validate.Validate(req); err != nil {
		return Author{}, err
	}
	birthDate, err := optionalDate(req.BirthDate)
	if err != nil {
		return Author{}, err
	}

	var updated Author
	err = s.store.WithinTx(ctx, func(ctx context.Context, repo Repository) error {
		current, err := repo.GetAuthorByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			current.Name = *req.Name
		}
		if birthDate != nil {
			current.BirthDate = birthDate
		}
		current.UpdatedAt = s.now()

		if _, err := repo.UpdateAuthor(ctx, current); err != nil {
			return err
		}

		if req.Books != nil {
			if _, err := Sync(ctx, repo, AuthorBooks, req.ID, *req.Books); err != nil {
				return err
			}
		}

		updated, err = repo.GetAuthorByID(ctx, req.ID)
		return err
	})
	if err != nil {
		return Author{}, pkgerrors.FromRepository("UpdateAuthor", err)
	}

	return updated, nil
}

/* Same idempotent policy as DeleteBook. */
func (s *Service) DeleteAuthor(ctx context.Context, id int) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, repo Repository) error {
		links, err := repo.ListLinksByAuthor(ctx, id)
		if err != nil {
			return err
		}
		if len(links) > 0 {
			if err := repo.DeleteLinks(ctx, links); err != nil {
				return err
			}
		}
		return repo.DeleteAuthor(ctx, id)
	})
	if errors.Is(err, pkgerrors.ErrResponseNotFound) {
		s.log.Debugw("author already absent, delete is a no-op", "author_id", id)
		return nil
	}
	if err != nil {
		return pkgerrors.FromRepository("DeleteAuthor", err)
	}

	s.log.Infow("author deleted", "author_id", id)
	return nil
}

func (s *Service) ResolveAuthorReference(ctx context.Context, id int) (*Author, error) {
	a, err := s.store.GetAuthorByID(ctx, id)
	if errors.Is(err, pkgerrors.ErrResponseNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving author reference: %w", pkgerrors.FromRepository("ResolveAuthorReference", err))
	}
	return &a, nil
}

func optionalDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := ParseDate(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
