package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/catalog-federation/cmd/api/book"
	bookhttp "github.com/catalog-federation/cmd/api/http"
	httpmock "github.com/catalog-federation/cmd/api/http/mocks"
	"github.com/catalog-federation/cmd/api/pkgerrors"
	"github.com/matryer/is"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

var ts = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

const stamps = `"createdAt":"2024-01-02T03:04:05Z","updatedAt":"2024-01-02T03:04:05Z"`

var config = bookhttp.ServerConfig{Port: 8080, RequestTimeout: time.Second}

func newBookServer(t *testing.T, config bookhttp.ServerConfig) (*http.Server, *httpmock.MockBookServiceAPI) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockService := httpmock.NewMockBookServiceAPI(ctrl)
	server := bookhttp.NewBookServer(config, bookhttp.NewBookHandler(mockService), zap.NewNop().Sugar())
	return server, mockService
}

func serve(server *http.Server, method, target, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	server.Handler.ServeHTTP(recorder, request)
	return recorder
}

func errorBody(t *testing.T, recorder *httptest.ResponseRecorder) pkgerrors.ErrResponse {
	t.Helper()
	var errResp pkgerrors.ErrResponse
	if err := json.NewDecoder(recorder.Body).Decode(&errResp); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return errResp
}

var fooBook = book.Book{
	ID:        1,
	Title:     "Foo",
	Pages:     120,
	Authors:   []book.Author{{ID: 1, Name: "Jane Doe", Books: []book.Book{}}},
	CreatedAt: ts,
	UpdatedAt: ts,
}

const fooJSON = `{"id":1,"title":"Foo","pages":120,"authors":[{"id":1,"name":"Jane Doe","birthDate":null}],` + stamps + `}`

func TestPing(t *testing.T) {
	is := is.New(t)
	server, _ := newBookServer(t, config)

	recorder := serve(server, http.MethodGet, "/ping", "")
	is.Equal(recorder.Code, http.StatusNoContent)

	recorder = serve(server, http.MethodPost, "/ping", "")
	is.Equal(recorder.Code, http.StatusMethodNotAllowed)
}

func TestRequestID(t *testing.T) {
	server, mockService := newBookServer(t, config)
	mockService.EXPECT().ListBooks(gomock.Any()).Return([]book.Book{}, nil).Times(2)

	t.Run("generates an id when the caller sends none", func(t *testing.T) {
		is := is.New(t)
		recorder := serve(server, http.MethodGet, "/books", "")
		is.Equal(recorder.Code, http.StatusOK)
		is.True(recorder.Header().Get(bookhttp.RequestIDHeader) != "")
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		is := is.New(t)
		request := httptest.NewRequest(http.MethodGet, "/books", nil)
		request.Header.Set(bookhttp.RequestIDHeader, "abc-123")
		recorder := httptest.NewRecorder()
		server.Handler.ServeHTTP(recorder, request)
		is.Equal(recorder.Header().Get(bookhttp.RequestIDHeader), "abc-123")
	})
}

func TestCreateBook(t *testing.T) {
	t.Run("creates a book", func(t *testing.T) {
		is := is.New(t)
		server, mockService := newBookServer(t, config)

		req := book.CreateBookRequest{Title: "Foo", Pages: 120, Authors: []int{1}}
		mockService.EXPECT().CreateBook(gomock.Any(), req).Return(fooBook, nil)

		recorder := serve(server, http.MethodPost, "/books", `{"title":"Foo","pages":120,"authors":[1]}`)
		is.Equal(recorder.Code, http.StatusCreated)
		is.Equal(recorder.Header().Get("content-type"), "application/json")
		is.Equal(recorder.Body.String(), fooJSON+"\n")
	})

	t.Run("rejects an invalid json body", func(t *testing.T) {
		is := is.New(t)
		server, _ := newBookServer(t, config)

		recorder := serve(server, http.MethodPost, "/books", `{"title":`)
		is.Equal(recorder.Code, http.StatusBadRequest)
		is.Equal(errorBody(t, recorder).Code, pkgerrors.ErrResponseEntryInvalidJSON.Code)
	})

	t.Run("answers 400 to a validation error", func(t *testing.T) {
		is := is.New(t)
		server, mockService := newBookServer(t, config)

		mockService.EXPECT().CreateBook(gomock.Any(), gomock.Any()).
			Return(book.Book{}, pkgerrors.WithDetail(pkgerrors.ErrResponseValidation, "title is required"))

		recorder := serve(server, http.MethodPost, "/books", `{"pages":10}`)
		is.Equal(recorder.Code, http.StatusBadRequest)
		is.Equal(recorder.Body.String(), `{"error_code":104,"error_message":"invalid input: title is required"}`+"\n")
	})

	t.Run("answers 422 to a missing author", func(t *testing.T) {
		is := is.New(t)
		server, mockService := newBookServer(t, config)

		mockService.EXPECT().CreateBook(gomock.Any(), gomock.Any()).
			Return(book.Book{}, pkgerrors.ReferenceNotFound("Author", []int{404}))

		recorder := serve(server, http.MethodPost, "/books", `{"title":"Foo","pages":120,"authors":[404]}`)
		is.Equal(recorder.Code, http.StatusUnprocessableEntity)
		is.Equal(recorder.Body.String(), `{"error_code":105,"error_message":"referenced entity not found: Author 404"}`+"\n")
	})

	t.Run("answers 500 to a transaction failure", func(t *testing.T) {
		is := is.New(t)
		server, mockService := newBookServer(t, config)

		mockService.EXPECT().CreateBook(gomock.Any(), gomock.Any()).
			Return(book.Book{}, pkgerrors.TransactionFailure(errors.New("connection reset")))

		recorder := serve(server, http.MethodPost, "/books", `{"title":"Foo","pages":120}`)
		is.Equal(recorder.Code, http.StatusInternalServerError)
		is.Equal(errorBody(t, recorder).Code, pkgerrors.ErrResponseTransactionFailure.Code)
	})
}

func TestGetBook(t *testing.T) {
	t.Run("returns the book", func(t *testing.T) {
		is := is.New(t)
		server, mockService := newBookServer(t, config)
		mockService.EXPECT().GetBook(gomock.Any(), 1).Return(fooBook, nil)

		recorder := serve(server, http.MethodGet, "/books/1", "")
		is.Equal(recorder.Code, http.StatusOK)
		is.Equal(recorder.Body.String(), fooJSON+"\n")
	})

	t.Run("answers 404 with the entity and id", func(t *testing.T) {
		is := is.New(t)
		server, mockService := newBookServer(t, config)
		mockService.EXPECT().GetBook(gomock.Any(), 7).Return(book.Book{}, pkgerrors.NotFound("Book", 7))

		recorder := serve(server, http.MethodGet, "/books/7", "")
		is.Equal(recorder.Code, http.StatusNotFound)
		is.Equal(recorder.Body.String(), `{"error_code":101,"error_message":"could not find Book with identifier: 7"}`+"\n")
	})

	testCases := []string{"/books/abc", "/books/0", "/books/-3"}
	for _, target := range testCases {
		t.Run("rejects the id in "+target, func(t *testing.T) {
			is := is.New(t)
			server, _ := newBookServer(t, config)

			recorder := serve(server, http.MethodGet, target, "")
			is.Equal(recorder.Code, http.StatusBadRequest)
			is.Equal(errorBody(t, recorder).Code, pkgerrors.ErrResponseIdInvalidFormat.Code)
		})
	}

	t.Run("answers 504 when the request runs out of time", func(t *testing.T) {
		is := is.New(t)
		server, mockService := newBookServer(t, bookhttp.ServerConfig{Port: 8080, RequestTimeout: 20 * time.Millisecond})
		mockService.EXPECT().GetBook(gomock.Any(), 1).DoAndReturn(func(ctx context.Context, id int) (book.Book, error) {
			<-ctx.Done()
			return book.Book{}, pkgerrors.FromRepository("GetBookByID", ctx.Err())
		})

		recorder := serve(server, http.MethodGet, "/books/1", "")
		is.Equal(recorder.Code, http.StatusGatewayTimeout)
		is.Equal(errorBody(t, recorder).Code, pkgerrors.ErrResponseRequestTimeout.Code)
	})
}

func TestListBooks(t *testing.T) {
	t.Run("lists books", func(t *testing.T) {
		is := is.New(t)
		server, mockService := newBookServer(t, config)
		mockService.EXPECT().ListBooks(gomock.Any()).Return([]book.Book{fooBook}, nil)

		recorder := serve(server, http.MethodGet, "/books", "")
		is.Equal(recorder.Code, http.StatusOK)
		is.Equal(recorder.Body.String(), "["+fooJSON+"]\n")
	})

	t.Run("answers an empty array when there are no books", func(t *testing.T) {
		is := is.New(t)
		server, mockService := newBookServer(t, config)
		mockService.EXPECT().ListBooks(gomock.Any()).Return(nil, nil)

		recorder := serve(server, http.MethodGet, "/books", "")
		is.Equal(recorder.Body.String(), "[]\n")
	})
}

func TestUpdateBook(t *testing.T) {
	t.Run("takes the id from the path", func(t *testing.T) {
		is := is.New(t)
		server, mockService := newBookServer(t, config)

		authors := []int{}
		req := book.UpdateBookRequest{ID: 1, Title: toPointer("Bar"), Authors: &authors}
		updated := fooBook
		updated.Title = "Bar"
		updated.Authors = []book.Author{}
		mockService.EXPECT().UpdateBook(gomock.Any(), req).Return(updated, nil)

		recorder := serve(server, http.MethodPatch, "/books/1", `{"id":99,"title":"Bar","authors":[]}`)
		is.Equal(recorder.Code, http.StatusOK)
		is.Equal(recorder.Body.String(), `{"id":1,"title":"Bar","pages":120,"authors":[],`+stamps+"}\n")
	})

	t.Run("PUT is not allowed", func(t *testing.T) {
		is := is.New(t)
		server, _ := newBookServer(t, config)

		recorder := serve(server, http.MethodPut, "/books/1", `{}`)
		is.Equal(recorder.Code, http.StatusMethodNotAllowed)
	})
}

func TestDeleteBook(t *testing.T) {
	is := is.New(t)
	server, mockService := newBookServer(t, config)
	mockService.EXPECT().DeleteBook(gomock.Any(), 3).Return(nil)

	recorder := serve(server, http.MethodDelete, "/books/3", "")
	is.Equal(recorder.Code, http.StatusNoContent)
	is.Equal(recorder.Body.Len(), 0)
}

func TestAuthors(t *testing.T) {
	birth := time.Date(1970, 5, 1, 0, 0, 0, 0, time.UTC)
	jane := book.Author{
		ID:        2,
		Name:      "Jane Doe",
		BirthDate: &birth,
		Books:     []book.Book{{ID: 1, Title: "Foo", Pages: 120}},
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	janeJSON := `{"id":2,"name":"Jane Doe","birthDate":"1970-05-01T00:00:00Z","books":[{"id":1,"title":"Foo","pages":120}],` + stamps + `}`

	t.Run("creates an author", func(t *testing.T) {
		is := is.New(t)
		server, mockService := newBookServer(t, config)

		req := book.CreateAuthorRequest{Name: "Jane Doe", BirthDate: toPointer("1970-05-01")}
		mockService.EXPECT().CreateAuthor(gomock.Any(), req).Return(jane, nil)

		recorder := serve(server, http.MethodPost, "/authors", `{"name":"Jane Doe","birthDate":"1970-05-01"}`)
		is.Equal(recorder.Code, http.StatusCreated)
		is.Equal(recorder.Body.String(), janeJSON+"\n")
	})

	t.Run("updates the books of an author", func(t *testing.T) {
		is := is.New(t)
		server, mockService := newBookServer(t, config)

		books := []int{1}
		mockService.EXPECT().UpdateAuthor(gomock.Any(), book.UpdateAuthorRequest{ID: 2, Books: &books}).Return(jane, nil)

		recorder := serve(server, http.MethodPatch, "/authors/2", `{"books":[1]}`)
		is.Equal(recorder.Code, http.StatusOK)
		is.Equal(recorder.Body.String(), janeJSON+"\n")
	})

	t.Run("gets, lists and deletes", func(t *testing.T) {
		is := is.New(t)
		server, mockService := newBookServer(t, config)
		mockService.EXPECT().GetAuthor(gomock.Any(), 2).Return(jane, nil)
		mockService.EXPECT().ListAuthors(gomock.Any()).Return([]book.Author{jane}, nil)
		mockService.EXPECT().DeleteAuthor(gomock.Any(), 2).Return(nil)

		is.Equal(serve(server, http.MethodGet, "/authors/2", "").Body.String(), janeJSON+"\n")
		is.Equal(serve(server, http.MethodGet, "/authors", "").Body.String(), "["+janeJSON+"]\n")
		is.Equal(serve(server, http.MethodDelete, "/authors/2", "").Code, http.StatusNoContent)
	})
}

func TestBookEntities(t *testing.T) {
	t.Run("resolves books and authors in order", func(t *testing.T) {
		is := is.New(t)
		server, mockService := newBookServer(t, config)

		gomock.InOrder(
			mockService.EXPECT().ResolveBookReference(gomock.Any(), 1).Return(&fooBook, nil),
			mockService.EXPECT().ResolveAuthorReference(gomock.Any(), 2).Return(&book.Author{ID: 2, Name: "John Roe", CreatedAt: ts, UpdatedAt: ts}, nil),
			mockService.EXPECT().ResolveBookReference(gomock.Any(), 3).Return(nil, nil),
		)

		recorder := serve(server, http.MethodPost, "/_entities",
			`{"representations":[{"__typename":"Book","id":1},{"__typename":"Author","id":2},{"__typename":"Book","id":3}]}`)
		is.Equal(recorder.Code, http.StatusOK)
		is.Equal(recorder.Body.String(), `{"entities":[`+
			`{"__typename":"Book","id":1,"title":"Foo","pages":120,"authors":[{"id":1,"name":"Jane Doe","birthDate":null}],`+stamps+`},`+
			`{"__typename":"Author","id":2,"name":"John Roe","birthDate":null,"books":[],`+stamps+`},`+
			`null]}`+"\n")
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		is := is.New(t)
		server, _ := newBookServer(t, config)

		recorder := serve(server, http.MethodPost, "/_entities", `{"representations":[{"__typename":"Sale","id":1}]}`)
		is.Equal(recorder.Code, http.StatusBadRequest)
		is.Equal(errorBody(t, recorder).Code, pkgerrors.ErrResponseUnknownEntityType.Code)
	})

	t.Run("rejects a representation without id", func(t *testing.T) {
		is := is.New(t)
		server, _ := newBookServer(t, config)

		recorder := serve(server, http.MethodPost, "/_entities", `{"representations":[{"__typename":"Book"}]}`)
		is.Equal(recorder.Code, http.StatusBadRequest)
		is.Equal(errorBody(t, recorder).Code, pkgerrors.ErrResponseValidation.Code)
	})
}

func toPointer[T any](v T) *T {
	return &v
}
