package book

import (
	"fmt"
	"time"

	"github.com/catalog-federation/cmd/api/pkgerrors"
)

type Book struct {
	ID        int
	Title     string
	Pages     int
	Authors   []Author
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Author struct {
	ID        int
	Name      string
	BirthDate *time.Time
	Books     []Book
	CreatedAt time.Time
	UpdatedAt time.Time
}

/* Link is one row of the books/authors join relation. It only exists as a side effect of book or author mutations. */
type Link struct {
	BookID   int
	AuthorID int
}

type CreateBookRequest struct {
	Title   string `json:"title" validate:"required"`
	Pages   int    `json:"pages" validate:"gt=0"`
	Authors []int  `json:"authors" validate:"dive,gt=0"`
}

/*
Nil fields are left untouched. A non-nil Authors pointing to an empty slice removes every
author from the book, which is not the same as leaving Authors out.
*/
type UpdateBookRequest struct {
	ID      int     `json:"id" validate:"gt=0"`
	Title   *string `json:"title" validate:"omitnil,min=1"`
	Pages   *int    `json:"pages" validate:"omitnil,gt=0"`
	Authors *[]int  `json:"authors" validate:"omitnil,dive,gt=0"`
}

type CreateAuthorRequest struct {
	Name      string  `json:"name" validate:"required"`
	BirthDate *string `json:"birthDate"`
}

type UpdateAuthorRequest struct {
	ID        int     `json:"id" validate:"gt=0"`
	Name      *string `json:"name" validate:"omitnil,min=1"`
	BirthDate *string `json:"birthDate"`
	Books     *[]int  `json:"books" validate:"omitnil,dive,gt=0"`
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

/* Parses an ISO-8601 date or timestamp. Anything else is a ValidationError. */
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, pkgerrors.Validation(fmt.Errorf("invalid date: %s", value))
}
