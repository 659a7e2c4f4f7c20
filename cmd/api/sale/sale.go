package sale

import (
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCanceled  Status = "CANCELED"
)

const (
	DefaultProductType = "BOOK"
	DefaultQuantity    = 1
)

type Sale struct {
	ID         int
	CustomerID int
	Status     Status
	Products   []LineItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

/* LineItem is unique per (SaleID, ProductID). ProductID and ProductType are opaque references to another service. */
type LineItem struct {
	SaleID      int
	ProductID   int
	ProductType string
	Quantity    int
	PriceCent   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

/* Quantity defaults to 1 and ProductType to BOOK when left out. */
type LineItemInput struct {
	ProductID   int    `json:"productId" validate:"gt=0"`
	ProductType string `json:"productType"`
	Quantity    *int   `json:"quantity" validate:"omitnil,gte=1"`
	PriceCent   *int   `json:"priceCent" validate:"required,gte=0"`
}

type NewSaleRequest struct {
	CustomerID int             `json:"customerId" validate:"gt=0"`
	Products   []LineItemInput `json:"products" validate:"required,min=1,dive"`
}

type AddProductsRequest struct {
	SaleID   int             `json:"id" validate:"gt=0"`
	Products []LineItemInput `json:"products" validate:"required,min=1,dive"`
}

type RemoveProductsRequest struct {
	SaleID     int   `json:"id" validate:"gt=0"`
	ProductIDs []int `json:"productIds" validate:"required,min=1"`
}

/* BookSales is the sale service's extension of the Book entity owned by the book service. */
type BookSales struct {
	ID    int
	Sales []Sale
}
