package http

import (
	"context"
	"net/http"
	"time"

	"github.com/catalog-federation/cmd/api/book"
	"github.com/catalog-federation/cmd/api/federation"
	"github.com/go-chi/chi/v5"
)

type BookHandler struct {
	bookService BookServiceAPI
	registry    *federation.Registry
}

func NewBookHandler(bookService BookServiceAPI) *BookHandler {
	registry := federation.NewRegistry().
		Register("Book", bookEntity(bookService)).
		Register("Author", authorEntity(bookService))
	return &BookHandler{bookService: bookService, registry: registry}
}

func (h *BookHandler) Routes(r chi.Router) {
	r.Route("/books", func(r chi.Router) {
		r.Get("/", h.listBooks)
		r.Post("/", h.createBook)
		r.Get("/{id}", h.getBookById)
		r.Patch("/{id}", h.updateBook)
		r.Delete("/{id}", h.deleteBook)
	})
	r.Route("/authors", func(r chi.Router) {
		r.Get("/", h.listAuthors)
		r.Post("/", h.createAuthor)
		r.Get("/{id}", h.getAuthorById)
		r.Patch("/{id}", h.updateAuthor)
		r.Delete("/{id}", h.deleteAuthor)
	})
	r.Post("/_entities", entitiesHandler(h.registry))
}

/* Returns a list of the stored books. */
func (h *BookHandler) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookService.ListBooks(r.Context())
	if err != nil {
		HandleError(err, w, r)
		return
	}
	results := make([]BookResponse, 0, len(books))
	for _, b := range books {
		results = append(results, bookToResponse(b))
	}
	ResponseJSON(w, http.StatusOK, results)
}

/* Returns the book with that specific ID. */
func (h *BookHandler) getBookById(w http.ResponseWriter, r *http.Request) {
	id, ok := isolateId(w, r)
	if !ok {
		return
	}
	returnedBook, err := h.bookService.GetBook(r.Context(), id)
	if err != nil {
		HandleError(err, w, r)
		return
	}
	ResponseJSON(w, http.StatusOK, bookToResponse(returnedBook))
}

/* Stores the entry as a new book linked to the given authors. */
func (h *BookHandler) createBook(w http.ResponseWriter, r *http.Request) {
	var req book.CreateBookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	storedBook, err := h.bookService.CreateBook(r.Context(), req)
	if err != nil {
		HandleError(err, w, r)
		return
	}
	ResponseJSON(w, http.StatusCreated, bookToResponse(storedBook))
}

/* Updates the fields present in the entry. The id in the path wins over one in the body. */
func (h *BookHandler) updateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := isolateId(w, r)
	if !ok {
		return
	}
	var req book.UpdateBookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	updatedBook, err := h.bookService.UpdateBook(r.Context(), req)
	if err != nil {
		HandleError(err, w, r)
		return
	}
	ResponseJSON(w, http.StatusOK, bookToResponse(updatedBook))
}

func (h *BookHandler) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := isolateId(w, r)
	if !ok {
		return
	}
	if err := h.bookService.DeleteBook(r.Context(), id); err != nil {
		HandleError(err, w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BookHandler) listAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.bookService.ListAuthors(r.Context())
	if err != nil {
		HandleError(err, w, r)
		return
	}
	results := make([]AuthorResponse, 0, len(authors))
	for _, a := range authors {
		results = append(results, authorToResponse(a))
	}
	ResponseJSON(w, http.StatusOK, results)
}

func (h *BookHandler) getAuthorById(w http.ResponseWriter, r *http.Request) {
	id, ok := isolateId(w, r)
	if !ok {
		return
	}
	author, err := h.bookService.GetAuthor(r.Context(), id)
	if err != nil {
		HandleError(err, w, r)
		return
	}
	ResponseJSON(w, http.StatusOK, authorToResponse(author))
}

func (h *BookHandler) createAuthor(w http.ResponseWriter, r *http.Request) {
	var req book.CreateAuthorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	author, err := h.bookService.CreateAuthor(r.Context(), req)
	if err != nil {
		HandleError(err, w, r)
		return
	}
	ResponseJSON(w, http.StatusCreated, authorToResponse(author))
}

func (h *BookHandler) updateAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := isolateId(w, r)
	if !ok {
		return
	}
	var req book.UpdateAuthorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	author, err := h.bookService.UpdateAuthor(r.Context(), req)
	if err != nil {
		HandleError(err, w, r)
		return
	}
	ResponseJSON(w, http.StatusOK, authorToResponse(author))
}

func (h *BookHandler) deleteAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := isolateId(w, r)
	if !ok {
		return
	}
	if err := h.bookService.DeleteAuthor(r.Context(), id); err != nil {
		HandleError(err, w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type BookResponse struct {
	ID        int             `json:"id"`
	Title     string          `json:"title"`
	Pages     int             `json:"pages"`
	Authors   []AuthorSummary `json:"authors"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type AuthorSummary struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	BirthDate *time.Time `json:"birthDate"`
}

type AuthorResponse struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	BirthDate *time.Time    `json:"birthDate"`
	Books     []BookSummary `json:"books"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type BookSummary struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Pages int    `json:"pages"`
}

/* Entities carry their __typename so the gateway can tell them apart when merging. */
type BookEntity struct {
	Typename string `json:"__typename"`
	BookResponse
}

type AuthorEntity struct {
	Typename string `json:"__typename"`
	AuthorResponse
}

/*Copy the fields of a book object to an http layer struct with json tags*/
func bookToResponse(b book.Book) BookResponse {
	authors := make([]AuthorSummary, 0, len(b.Authors))
	for _, a := range b.Authors {
		authors = append(authors, AuthorSummary{ID: a.ID, Name: a.Name, BirthDate: a.BirthDate})
	}
	return BookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Pages:     b.Pages,
		Authors:   authors,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func authorToResponse(a book.Author) AuthorResponse {
	books := make([]BookSummary, 0, len(a.Books))
	for _, b := range a.Books {
		books = append(books, BookSummary{ID: b.ID, Title: b.Title, Pages: b.Pages})
	}
	return AuthorResponse{
		ID:        a.ID,
		Name:      a.Name,
		BirthDate: a.BirthDate,
		Books:     books,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func bookEntity(svc BookServiceAPI) federation.ResolverFunc {
	return federation.Resolver(func(ctx context.Context, id int) (*BookEntity, error) {
		b, err := svc.ResolveBookReference(ctx, id)
		if err != nil || b == nil {
			return nil, err
		}
		return &BookEntity{Typename: "Book", BookResponse: bookToResponse(*b)}, nil
	})
}

func authorEntity(svc BookServiceAPI) federation.ResolverFunc {
	return federation.Resolver(func(ctx context.Context, id int) (*AuthorEntity, error) {
		a, err := svc.ResolveAuthorReference(ctx, id)
		if err != nil || a == nil {
			return nil, err
		}
		return &AuthorEntity{Typename: "Author", AuthorResponse: authorToResponse(*a)}, nil
	})
}
