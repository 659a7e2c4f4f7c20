package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/catalog-federation/cmd/api/federation"
	"github.com/catalog-federation/cmd/api/pkgerrors"
	"github.com/catalog-federation/cmd/api/sale"
	"github.com/go-chi/chi/v5"
)

type SaleHandler struct {
	saleService SaleServiceAPI
	registry    *federation.Registry
}

/* Besides its own Sale entity the sale service extends Book with the sales that reference it. */
func NewSaleHandler(saleService SaleServiceAPI) *SaleHandler {
	registry := federation.NewRegistry().
		Register("Sale", saleEntity(saleService)).
		Register("Book", bookSalesEntity(saleService))
	return &SaleHandler{saleService: saleService, registry: registry}
}

func (h *SaleHandler) Routes(r chi.Router) {
	r.Route("/sales", func(r chi.Router) {
		r.Get("/", h.listSales)
		r.Post("/", h.newSale)
		r.Get("/{id}", h.getSaleById)
		r.Post("/{id}/complete", h.completeSale)
		r.Post("/{id}/cancel", h.cancelSale)
		r.Post("/{id}/products", h.addProducts)
		r.Delete("/{id}/products", h.removeProducts)
	})
	r.Post("/_entities", entitiesHandler(h.registry))
}

func (h *SaleHandler) listSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.saleService.ListSales(r.Context())
	if err != nil {
		HandleError(err, w, r)
		return
	}
	ResponseJSON(w, http.StatusOK, salesToResponse(sales))
}

func (h *SaleHandler) getSaleById(w http.ResponseWriter, r *http.Request) {
	id, ok := isolateId(w, r)
	if !ok {
		return
	}
	found, err := h.saleService.GetSale(r.Context(), id)
	if err != nil {
		HandleError(err, w, r)
		return
	}
	ResponseJSON(w, http.StatusOK, saleToResponse(found))
}

/* Opens a pending sale with its first products. */
func (h *SaleHandler) newSale(w http.ResponseWriter, r *http.Request) {
	var req sale.NewSaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := h.saleService.NewSale(r.Context(), req)
	if err != nil {
		HandleError(err, w, r)
		return
	}
	ResponseJSON(w, http.StatusCreated, saleToResponse(created))
}

func (h *SaleHandler) completeSale(w http.ResponseWriter, r *http.Request) {
	id, ok := isolateId(w, r)
	if !ok {
		return
	}
	completed, err := h.saleService.CompleteSale(r.Context(), id)
	if err != nil {
		HandleError(err, w, r)
		return
	}
	ResponseJSON(w, http.StatusOK, saleToResponse(completed))
}

func (h *SaleHandler) cancelSale(w http.ResponseWriter, r *http.Request) {
	id, ok := isolateId(w, r)
	if !ok {
		return
	}
	if err := h.saleService.CancelSale(r.Context(), id); err != nil {
		HandleError(err, w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type ProductsEntry struct {
	Products []sale.LineItemInput `json:"products"`
}

/* Adds products to the sale, summing quantities of the ones it already has. */
func (h *SaleHandler) addProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := isolateId(w, r)
	if !ok {
		return
	}
	var entry ProductsEntry
	if !decodeJSON(w, r, &entry) {
		return
	}

	updated, err := h.saleService.AddProductToSale(r.Context(), sale.AddProductsRequest{SaleID: id, Products: entry.Products})
	if err != nil {
		HandleError(err, w, r)
		return
	}
	ResponseJSON(w, http.StatusOK, saleToResponse(updated))
}

/* Products to drop come as repeated product_id query parameters. */
func (h *SaleHandler) removeProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := isolateId(w, r)
	if !ok {
		return
	}

	rawIDs := r.URL.Query()["product_id"]
	productIDs := make([]int, 0, len(rawIDs))
	for _, raw := range rawIDs {
		productID, err := strconv.Atoi(raw)
		if err != nil || productID <= 0 {
			HandleError(pkgerrors.WithDetail(pkgerrors.ErrResponseValidation, "product_id must be a positive integer: "+raw), w, r)
			return
		}
		productIDs = append(productIDs, productID)
	}

	updated, err := h.saleService.RemoveProductFromSale(r.Context(), sale.RemoveProductsRequest{SaleID: id, ProductIDs: productIDs})
	if err != nil {
		HandleError(err, w, r)
		return
	}
	ResponseJSON(w, http.StatusOK, saleToResponse(updated))
}

type SaleResponse struct {
	ID         int                `json:"id"`
	CustomerID int                `json:"customerId"`
	Status     string             `json:"status"`
	Products   []LineItemResponse `json:"products"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

type LineItemResponse struct {
	ProductID   int       `json:"productId"`
	ProductType string    `json:"productType"`
	Quantity    int       `json:"quantity"`
	PriceCent   int       `json:"priceCent"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type SaleEntity struct {
	Typename string `json:"__typename"`
	SaleResponse
}

/* The sale service's part of a Book: only the key and the sales. */
type BookSalesEntity struct {
	Typename string         `json:"__typename"`
	ID       int            `json:"id"`
	Sales    []SaleResponse `json:"sales"`
}

func saleToResponse(s sale.Sale) SaleResponse {
	products := make([]LineItemResponse, 0, len(s.Products))
	for _, p := range s.Products {
		products = append(products, LineItemResponse{
			ProductID:   p.ProductID,
			ProductType: p.ProductType,
			Quantity:    p.Quantity,
			PriceCent:   p.PriceCent,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}
	return SaleResponse{
		ID:         s.ID,
		CustomerID: s.CustomerID,
		Status:     string(s.Status),
		Products:   products,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func salesToResponse(sales []sale.Sale) []SaleResponse {
	results := make([]SaleResponse, 0, len(sales))
	for _, s := range sales {
		results = append(results, saleToResponse(s))
	}
	return results
}

func saleEntity(svc SaleServiceAPI) federation.ResolverFunc {
	return federation.Resolver(func(ctx context.Context, id int) (*SaleEntity, error) {
		s, err := svc.ResolveSaleReference(ctx, id)
		if err != nil || s == nil {
			return nil, err
		}
		return &SaleEntity{Typename: "Sale", SaleResponse: saleToResponse(*s)}, nil
	})
}

func bookSalesEntity(svc SaleServiceAPI) federation.ResolverFunc {
	return federation.Resolver(func(ctx context.Context, id int) (*BookSalesEntity, error) {
		bs, err := svc.ResolveBookSales(ctx, id)
		if err != nil || bs == nil {
			return nil, err
		}
		return &BookSalesEntity{Typename: "Book", ID: bs.ID, Sales: salesToResponse(bs.Sales)}, nil
	})
}
