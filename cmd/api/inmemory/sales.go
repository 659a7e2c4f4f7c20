package inmemory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/catalog-federation/cmd/api/pkgerrors"
	"github.com/catalog-federation/cmd/api/sale"
	"github.com/hashicorp/go-memdb"
	"github.com/samber/lo"
)

const (
	tableSales     = "sales"
	tableLineItems = "sale_products"
)

type saleRow struct {
	ID         int
	CustomerID int
	Status     sale.Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func saleSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableSales: {
				Name: tableSales,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.IntFieldIndex{Field: "ID"},
					},
				},
			},
			tableLineItems: {
				Name: tableLineItems,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:   "id",
						Unique: true,
						Indexer: &memdb.CompoundIndex{
							Indexes: []memdb.Indexer{
								&memdb.IntFieldIndex{Field: "SaleID"},
								&memdb.IntFieldIndex{Field: "ProductID"},
							},
						},
					},
					"sale_id": {
						Name:    "sale_id",
						Indexer: &memdb.IntFieldIndex{Field: "SaleID"},
					},
					"product": {
						Name:         "product",
						AllowMissing: true,
						Indexer: &memdb.CompoundIndex{
							Indexes: []memdb.Indexer{
								&memdb.StringFieldIndex{Field: "ProductType"},
								&memdb.IntFieldIndex{Field: "ProductID"},
							},
						},
					},
				},
			},
		},
	}
}

type SaleStore struct {
	memStore
}

func NewSaleStore() (*SaleStore, error) {
	m, err := newMemStore(saleSchema())
	if err != nil {
		return nil, err
	}
	return &SaleStore{memStore: m}, nil
}

func (store *SaleStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repo sale.Repository) error) error {
	return store.withinTx(ctx, func(ctx context.Context, scoped memStore) error {
		return fn(ctx, &SaleStore{memStore: scoped})
	})
}

func (store *SaleStore) CreateSale(ctx context.Context, s sale.Sale) (sale.Sale, error) {
	row := saleRow{
		ID:         store.nextID(tableSales),
		CustomerID: s.CustomerID,
		Status:     s.Status,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
	err := store.write(ctx, func(txn *memdb.Txn) error {
		return txn.Insert(tableSales, row)
	})
	if err != nil {
		return sale.Sale{}, fmt.Errorf("storing sale: %w", err)
	}
	return row.toSale(nil), nil
}

func (store *SaleStore) GetSaleByID(ctx context.Context, id int) (sale.Sale, error) {
	var found sale.Sale
	err := store.read(ctx, func(txn *memdb.Txn) error {
		var err error
		found, err = loadSale(txn, id)
		return err
	})
	if err != nil {
		return sale.Sale{}, fmt.Errorf("searching sale by ID: %w", err)
	}
	return found, nil
}

func (store *SaleStore) ListSales(ctx context.Context) ([]sale.Sale, error) {
	sales := []sale.Sale{}
	err := store.read(ctx, func(txn *memdb.Txn) error {
		it, err := txn.Get(tableSales, "id")
		if err != nil {
			return err
		}
		for obj := it.Next(); obj != nil; obj = it.Next() {
			row := obj.(saleRow)
			items, err := lineItemsOf(txn, row.ID)
			if err != nil {
				return err
			}
			sales = append(sales, row.toSale(items))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}

	slices.SortFunc(sales, func(a, b sale.Sale) int { return a.ID - b.ID })
	return sales, nil
}

func (store *SaleStore) UpdateSaleStatus(ctx context.Context, id int, status sale.Status, updatedAt time.Time) (sale.Sale, error) {
	var updated sale.Sale
	err := store.write(ctx, func(txn *memdb.Txn) error {
		raw, err := txn.First(tableSales, "id", id)
		if err != nil {
			return err
		}
		if raw == nil {
			return pkgerrors.NotFound("Sale", id)
		}

		row := raw.(saleRow)
		row.Status = status
		row.UpdatedAt = updatedAt
		if err := txn.Insert(tableSales, row); err != nil {
			return err
		}

		updated, err = loadSale(txn, id)
		return err
	})
	if err != nil {
		return sale.Sale{}, fmt.Errorf("updating sale status: %w", err)
	}
	return updated, nil
}

func (store *SaleStore) ListSalesByProduct(ctx context.Context, productType string, productID int) ([]sale.Sale, error) {
	sales := []sale.Sale{}
	err := store.read(ctx, func(txn *memdb.Txn) error {
		it, err := txn.Get(tableLineItems, "product", productType, productID)
		if err != nil {
			return err
		}

		saleIDs := []int{}
		for obj := it.Next(); obj != nil; obj = it.Next() {
			saleIDs = append(saleIDs, obj.(sale.LineItem).SaleID)
		}
		for _, id := range lo.Uniq(saleIDs) {
			s, err := loadSale(txn, id)
			if err != nil {
				return err
			}
			sales = append(sales, s)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing sales by product: %w", err)
	}

	slices.SortFunc(sales, func(a, b sale.Sale) int { return a.ID - b.ID })
	return sales, nil
}

// -- Line items --

func (store *SaleStore) ListLineItems(ctx context.Context, saleID int, productIDs []int) ([]sale.LineItem, error) {
	items := []sale.LineItem{}
	err := store.read(ctx, func(txn *memdb.Txn) error {
		for _, productID := range productIDs {
			raw, err := txn.First(tableLineItems, "id", saleID, productID)
			if err != nil {
				return err
			}
			if raw != nil {
				items = append(items, raw.(sale.LineItem))
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing line items: %w", err)
	}
	return items, nil
}

/* The (sale, product) pair is a primary key: inserting it twice is an error. */
func (store *SaleStore) InsertLineItems(ctx context.Context, items []sale.LineItem) error {
	err := store.write(ctx, func(txn *memdb.Txn) error {
		for _, item := range items {
			if err := assertSaleExists(txn, item.SaleID); err != nil {
				return err
			}
			existing, err := txn.First(tableLineItems, "id", item.SaleID, item.ProductID)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("line item sale %d product %d already exists", item.SaleID, item.ProductID)
			}
			if err := txn.Insert(tableLineItems, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("inserting line items: %w", err)
	}
	return nil
}

/* Only quantity and UpdatedAt are written; the rest of the stored row is kept. */
func (store *SaleStore) UpdateLineItems(ctx context.Context, items []sale.LineItem) error {
	err := store.write(ctx, func(txn *memdb.Txn) error {
		for _, item := range items {
			raw, err := txn.First(tableLineItems, "id", item.SaleID, item.ProductID)
			if err != nil {
				return err
			}
			if raw == nil {
				return fmt.Errorf("line item sale %d product %d: %w", item.SaleID, item.ProductID, pkgerrors.ErrResponseNotFound)
			}

			stored := raw.(sale.LineItem)
			stored.Quantity = item.Quantity
			stored.UpdatedAt = item.UpdatedAt
			if err := txn.Insert(tableLineItems, stored); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("updating line items: %w", err)
	}
	return nil
}

func (store *SaleStore) DeleteLineItems(ctx context.Context, saleID int, productIDs []int) error {
	err := store.write(ctx, func(txn *memdb.Txn) error {
		for _, productID := range productIDs {
			if _, err := txn.DeleteAll(tableLineItems, "id", saleID, productID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting line items: %w", err)
	}
	return nil
}

func loadSale(txn *memdb.Txn, id int) (sale.Sale, error) {
	raw, err := txn.First(tableSales, "id", id)
	if err != nil {
		return sale.Sale{}, err
	}
	if raw == nil {
		return sale.Sale{}, pkgerrors.NotFound("Sale", id)
	}

	items, err := lineItemsOf(txn, id)
	if err != nil {
		return sale.Sale{}, err
	}
	return raw.(saleRow).toSale(items), nil
}

func assertSaleExists(txn *memdb.Txn, id int) error {
	raw, err := txn.First(tableSales, "id", id)
	if err != nil {
		return err
	}
	if raw == nil {
		return pkgerrors.NotFound("Sale", id)
	}
	return nil
}

func lineItemsOf(txn *memdb.Txn, saleID int) ([]sale.LineItem, error) {
	it, err := txn.Get(tableLineItems, "sale_id", saleID)
	if err != nil {
		return nil, err
	}
	items := []sale.LineItem{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		items = append(items, obj.(sale.LineItem))
	}
	slices.SortFunc(items, func(a, b sale.LineItem) int { return a.ProductID - b.ProductID })
	return items, nil
}

func (row saleRow) toSale(items []sale.LineItem) sale.Sale {
	if items == nil {
		items = []sale.LineItem{}
	}
	return sale.Sale{
		ID:         row.ID,
		CustomerID: row.CustomerID,
		Status:     row.Status,
		Products:   items,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
