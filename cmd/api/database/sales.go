package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/catalog-federation/cmd/api/pkgerrors"
	"github.com/catalog-federation/cmd/api/sale"
	"github.com/samber/lo"
)

const (
	saleColumns     = "id, customer_id, status, created_at, updated_at"
	lineItemColumns = "sale_id, product_id, product_type, quantity, price_cent, created_at, updated_at"
)

type SaleStore struct {
	db  *sql.DB
	exc DBTX
	tx  bool
}

func NewSaleStore(db *sql.DB) *SaleStore {
	return &SaleStore{db: db, exc: db}
}

func (store *SaleStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repo sale.Repository) error) error {
	if store.tx {
		return fn(ctx, store)
	}
	return withinTx(ctx, store.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, &SaleStore{db: store.db, exc: tx, tx: true})
	})
}

func (store *SaleStore) CreateSale(ctx context.Context, s sale.Sale) (sale.Sale, error) {
	row, err := queryRow(ctx, store.exc, psql.Insert("sales").
		Columns("customer_id", "status", "created_at", "updated_at").
		Values(s.CustomerID, s.Status, s.CreatedAt, s.UpdatedAt).
		Suffix("RETURNING "+saleColumns))
	if err != nil {
		return sale.Sale{}, fmt.Errorf("storing sale on db: %w", err)
	}

	created, err := scanSale(row)
	if err != nil {
		return sale.Sale{}, fmt.Errorf("storing sale on db: %w", err)
	}
	created.Products = []sale.LineItem{}
	return created, nil
}

func (store *SaleStore) GetSaleByID(ctx context.Context, id int) (sale.Sale, error) {
	sales, err := store.loadSales(ctx, squirrel.Eq{"id": id})
	if err != nil {
		return sale.Sale{}, fmt.Errorf("searching sale by ID: %w", err)
	}
	if len(sales) == 0 {
		return sale.Sale{}, fmt.Errorf("searching sale by ID: %w", pkgerrors.NotFound("Sale", id))
	}
	return sales[0], nil
}

func (store *SaleStore) ListSales(ctx context.Context) ([]sale.Sale, error) {
	sales, err := store.loadSales(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("listing sales from db: %w", err)
	}
	return sales, nil
}

func (store *SaleStore) UpdateSaleStatus(ctx context.Context, id int, status sale.Status, updatedAt time.Time) (sale.Sale, error) {
	result, err := exec(ctx, store.exc, psql.Update("sales").
		Set("status", status).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return sale.Sale{}, fmt.Errorf("updating sale status on db: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return sale.Sale{}, fmt.Errorf("updating sale status on db: %w", err)
	}
	if affected == 0 {
		return sale.Sale{}, fmt.Errorf("updating sale status on db: %w", pkgerrors.NotFound("Sale", id))
	}

	return store.GetSaleByID(ctx, id)
}

func (store *SaleStore) ListSalesByProduct(ctx context.Context, productType string, productID int) ([]sale.Sale, error) {
	holding := psql.Select("sale_id").From("sale_products").
		Where(squirrel.Eq{"product_type": productType, "product_id": productID})
	subquery, args, err := holding.ToSql()
	if err != nil {
		return nil, fmt.Errorf("listing sales by product: %w", err)
	}

	sales, err := store.loadSales(ctx, squirrel.Expr("id IN ("+subquery+")", args...))
	if err != nil {
		return nil, fmt.Errorf("listing sales by product: %w", err)
	}
	return sales, nil
}

// -- Line items --

func (store *SaleStore) ListLineItems(ctx context.Context, saleID int, productIDs []int) ([]sale.LineItem, error) {
	q := psql.Select(lineItemColumns).From("sale_products").
		Where(squirrel.Eq{"sale_id": saleID, "product_id": productIDs}).
		OrderBy("product_id")
	items, err := queryRows(ctx, store.exc, q, scanLineItem)
	if err != nil {
		return nil, fmt.Errorf("listing line items from db: %w", err)
	}
	return items, nil
}

func (store *SaleStore) InsertLineItems(ctx context.Context, items []sale.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	q := psql.Insert("sale_products").
		Columns("sale_id", "product_id", "product_type", "quantity", "price_cent", "created_at", "updated_at")
	for _, item := range items {
		q = q.Values(item.SaleID, item.ProductID, item.ProductType, item.Quantity, item.PriceCent, item.CreatedAt, item.UpdatedAt)
	}

	if _, err := exec(ctx, store.exc, q); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("inserting line items on db: %w", pkgerrors.NotFound("Sale", items[0].SaleID))
		}
		return fmt.Errorf("inserting line items on db: %w", err)
	}
	return nil
}

func (store *SaleStore) UpdateLineItems(ctx context.Context, items []sale.LineItem) error {
	for _, item := range items {
		result, err := exec(ctx, store.exc, psql.Update("sale_products").
			Set("quantity", item.Quantity).
			Set("updated_at", item.UpdatedAt).
			Where(squirrel.Eq{"sale_id": item.SaleID, "product_id": item.ProductID}))
		if err != nil {
			return fmt.Errorf("updating line items on db: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("updating line items on db: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("updating line item sale %d product %d: %w", item.SaleID, item.ProductID, pkgerrors.ErrResponseNotFound)
		}
	}
	return nil
}

func (store *SaleStore) DeleteLineItems(ctx context.Context, saleID int, productIDs []int) error {
	_, err := exec(ctx, store.exc, psql.Delete("sale_products").
		Where(squirrel.Eq{"sale_id": saleID, "product_id": productIDs}))
	if err != nil {
		return fmt.Errorf("deleting line items on db: %w", err)
	}
	return nil
}

/* Loads the sales matching where, each one with its line items. A nil where loads every sale. */
func (store *SaleStore) loadSales(ctx context.Context, where squirrel.Sqlizer) ([]sale.Sale, error) {
	q := psql.Select(saleColumns).From("sales").OrderBy("id")
	if where != nil {
		q = q.Where(where)
	}

	sales, err := queryRows(ctx, store.exc, q, scanSale)
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return sales, nil
	}

	itemsQuery := psql.Select(lineItemColumns).From("sale_products").
		Where(squirrel.Eq{"sale_id": lo.Map(sales, func(s sale.Sale, _ int) int { return s.ID })}).
		OrderBy("sale_id", "product_id")
	items, err := queryRows(ctx, store.exc, itemsQuery, scanLineItem)
	if err != nil {
		return nil, fmt.Errorf("loading line items: %w", err)
	}

	bySale := lo.GroupBy(items, func(item sale.LineItem) int { return item.SaleID })
	for i := range sales {
		sales[i].Products = lo.ValueOr(bySale, sales[i].ID, []sale.LineItem{})
	}
	return sales, nil
}

func scanSale(row scanner) (sale.Sale, error) {
	var s sale.Sale
	err := row.Scan(&s.ID, &s.CustomerID, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func scanLineItem(row scanner) (sale.LineItem, error) {
	var item sale.LineItem
	// A NULL quantity scans as 0, which the reconciler counts as one unit.
	var quantity sql.NullInt64
	err := row.Scan(&item.SaleID, &item.ProductID, &item.ProductType, &quantity, &item.PriceCent, &item.CreatedAt, &item.UpdatedAt)
	item.Quantity = int(quantity.Int64)
	return item, err
}
