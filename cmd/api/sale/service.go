package sale

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
	CreateSale(ctx context.Context, s Sale) (Sale, error)
	GetSaleByID(ctx context.Context, id int) (Sale, error)
	ListSales(ctx context.Context) ([]Sale, error)
	UpdateSaleStatus(ctx context.Context, id int, status Status, updatedAt time.Time) (Sale, error)
	ListSalesByProduct(ctx context.Context, productType string, productID int) ([]Sale, error)

	ListLineItems(ctx context.Context, saleID int, productIDs []int) ([]LineItem, error)
	InsertLineItems(ctx context.Context, items []LineItem) error
	UpdateLineItems(ctx context.Context, items []LineItem) error
	DeleteLineItems(ctx context.Context, saleID int, productIDs []int) error
}

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
		log:      log.With("service", "sale"),
		now:      func() time.Time { return time.Now().UTC().Round(time.Millisecond) },
	}
}

func (s *Service) ListSales(ctx context.Context) ([]Sale, error) {
	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, pkgerrors.FromRepository("ListSales", err)
	}
	return sales, nil
}

func (s *Service) GetSale(ctx context.Context, id int) (Sale, error) {
	sl, err := s.store.GetSaleByID(ctx, id)
	if err != nil {
		return Sale{}, pkgerrors.FromRepository("GetSale", err)
	}
	return sl, nil
}

func (s *Service) NewSale(ctx context.Context, req NewSaleRequest) (Sale, error) {
	if err := s.validate.Validate(req); err != nil {
		return Sale{}, err
	}

	now := s.now()
	var created Sale
	err := s.store.WithinTx(ctx, func(ctx context.Context, repo Repository) error {
		sl, err := repo.CreateSale(ctx, Sale{
			CustomerID: req.CustomerID,
			Status:     StatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return err
		}

		created, err = Reconcile(ctx, repo, sl.ID, req.Products, now)
		return err
	})
	if err != nil {
		return Sale{}, pkgerrors.FromRepository("NewSale", err)
	}

	s.log.Infow("sale created", "sale_id", created.ID, "customer_id", created.CustomerID, "products", len(created.Products))
	return created, nil
}

// Status changes are plain overwrites. Any status may follow any other.
func (s *Service) CompleteSale(ctx context.Context, id int) (Sale, error) {
	sl, err := s.store.UpdateSaleStatus(ctx, id, StatusCompleted, s.now())
	if err != nil {
		return Sale{}, pkgerrors.FromRepository("CompleteSale", err)
	}
	s.log.Infow("sale completed", "sale_id", id)
	return sl, nil
}

func (s *Service) CancelSale(ctx context.Context, id int) error {
	if _, err := s.store.UpdateSaleStatus(ctx, id, StatusCanceled, s.now()); err != nil {
		return pkgerrors.FromRepository("CancelSale", err)
	}
	s.log.Infow("sale canceled", "sale_id", id)
	return nil
}

/* Adds products to an existing sale, accumulating quantity for products the sale already has. */
func (s *Service) AddProductToSale(ctx context.Context, req AddProductsRequest) (Sale, error) {
	if err := s.validate.Validate(req); err != nil {
		return Sale{}, err
	}

	now := s.now()
	var updated Sale
	err := s.store.WithinTx(ctx, func(ctx context.Context, repo Repository) error {
		if _, err := repo.GetSaleByID(ctx, req.SaleID); err != nil {
			return err
		}

		var err error
		updated, err = Reconcile(ctx, repo, req.SaleID, req.Products, now)
		return err
	})
	if err != nil {
		return Sale{}, pkgerrors.FromRepository("AddProductToSale", err)
	}

	return updated, nil
}

/* Removing a product the sale does not hold is not an error. */
func (s *Service) RemoveProductFromSale(ctx context.Context, req RemoveProductsRequest) (Sale, error) {
	if err := s.validate.Validate(req); err != nil {
		return Sale{}, err
	}

	sl, err := RemoveItems(ctx, s.store, req.SaleID, req.ProductIDs)
	if err != nil {
		return Sale{}, pkgerrors.FromRepository("RemoveProductFromSale", err)
	}
	return sl, nil
}

func (s *Service) ResolveSaleReference(ctx context.Context, id int) (*Sale, error) {
	sl, err := s.store.GetSaleByID(ctx, id)
	if errors.Is(err, pkgerrors.ErrResponseNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving sale reference: %w", pkgerrors.FromRepository("ResolveSaleReference", err))
	}
	return &sl, nil
}

/* Extends a Book reference with the sales that hold it. The book itself is owned elsewhere, so it is never reported as absent here. */
func (s *Service) ResolveBookSales(ctx context.Context, bookID int) (*BookSales, error) {
	sales, err := s.store.ListSalesByProduct(ctx, DefaultProductType, bookID)
	if err != nil {
		return nil, fmt.Errorf("resolving book sales: %w", pkgerrors.FromRepository("ResolveBookSales", err))
	}
	return &BookSales{ID: bookID, Sales: sales}, nil
}
