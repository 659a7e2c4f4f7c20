package http

import (
	"context"

	"github.com/catalog-federation/cmd/api/book"
	"github.com/catalog-federation/cmd/api/sale"
)

//go:generate mockgen -source=api.go -destination=mocks/mocks.go -package=mocks

type BookServiceAPI interface {
	ListBooks(ctx context.Context) ([]book.Book, error)
	GetBook(ctx context.Context, id int) (book.Book, error)
	CreateBook(ctx context.Context, req book.CreateBookRequest) (book.Book, error)
	UpdateBook(ctx context.Context, req book.UpdateBookRequest) (book.Book, error)
	DeleteBook(ctx context.Context, id int) error
	ListAuthors(ctx context.Context) ([]book.Author, error)
	GetAuthor(ctx context.Context, id int) (book.Author, error)
	CreateAuthor(ctx context.Context, req book.CreateAuthorRequest) (book.Author, error)
	UpdateAuthor(ctx context.Context, req book.UpdateAuthorRequest) (book.Author, error)
	DeleteAuthor(ctx context.Context, id int) error
	ResolveBookReference(ctx context.Context, id int) (*book.Book, error)
	ResolveAuthorReference(ctx context.Context, id int) (*book.Author, error)
}

type SaleServiceAPI interface {
	ListSales(ctx context.Context) ([]sale.Sale, error)
	GetSale(ctx context.Context, id int) (sale.Sale, error)
	NewSale(ctx context.Context, req sale.NewSaleRequest) (sale.Sale, error)
	CompleteSale(ctx context.Context, id int) (sale.Sale, error)
	CancelSale(ctx context.Context, id int) error
	AddProductToSale(ctx context.Context, req sale.AddProductsRequest) (sale.Sale, error)
	RemoveProductFromSale(ctx context.Context, req sale.RemoveProductsRequest) (sale.Sale, error)
	ResolveSaleReference(ctx context.Context, id int) (*sale.Sale, error)
	ResolveBookSales(ctx context.Context, bookID int) (*sale.BookSales, error)
}
