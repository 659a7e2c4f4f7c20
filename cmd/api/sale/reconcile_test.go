package sale_test

import (
	"testing"
	"time"

	"github.com/catalog-federation/cmd/api/sale"
	"github.com/matryer/is"
)

func TestPlanReconcile(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	earlier := now.Add(-time.Hour)

	t.Run("inserts products the sale does not have", func(t *testing.T) {
		is := is.New(t)

		plan := sale.PlanReconcile(1, nil, []sale.LineItemInput{
			{ProductID: 5, PriceCent: toPointer(990)},
			{ProductID: 6, ProductType: "MAGAZINE", Quantity: toPointer(3), PriceCent: toPointer(100)},
		}, now)

		is.Equal(len(plan.Update), 0)
		is.Equal(plan.Insert, []sale.LineItem{
			{SaleID: 1, ProductID: 5, ProductType: "BOOK", Quantity: 1, PriceCent: 990, CreatedAt: now, UpdatedAt: now},
			{SaleID: 1, ProductID: 6, ProductType: "MAGAZINE", Quantity: 3, PriceCent: 100, CreatedAt: now, UpdatedAt: now},
		})
	})

	t.Run("adds to the stored quantity and keeps the stored price", func(t *testing.T) {
		is := is.New(t)

		existing := []sale.LineItem{
			{SaleID: 1, ProductID: 5, ProductType: "BOOK", Quantity: 2, PriceCent: 990, CreatedAt: earlier, UpdatedAt: earlier},
		}
		plan := sale.PlanReconcile(1, existing, []sale.LineItemInput{
			{ProductID: 5, ProductType: "EBOOK", Quantity: toPointer(3), PriceCent: toPointer(1)},
		}, now)

		is.Equal(len(plan.Insert), 0)
		is.Equal(plan.Update, []sale.LineItem{
			{SaleID: 1, ProductID: 5, ProductType: "BOOK", Quantity: 5, PriceCent: 990, CreatedAt: earlier, UpdatedAt: now},
		})
	})

	t.Run("counts a stored quantity below one as one", func(t *testing.T) {
		is := is.New(t)

		existing := []sale.LineItem{{SaleID: 1, ProductID: 5, Quantity: 0}}
		plan := sale.PlanReconcile(1, existing, []sale.LineItemInput{{ProductID: 5, PriceCent: toPointer(0)}}, now)

		is.Equal(plan.Update[0].Quantity, 2)
	})

	t.Run("merges repeated products of one request", func(t *testing.T) {
		is := is.New(t)

		existing := []sale.LineItem{{SaleID: 1, ProductID: 7, ProductType: "BOOK", Quantity: 1, PriceCent: 50}}
		plan := sale.PlanReconcile(1, existing, []sale.LineItemInput{
			{ProductID: 5, Quantity: toPointer(2), PriceCent: toPointer(10)},
			{ProductID: 7, PriceCent: toPointer(50)},
			{ProductID: 5, Quantity: toPointer(4), PriceCent: toPointer(99)},
			{ProductID: 7, Quantity: toPointer(2), PriceCent: toPointer(50)},
		}, now)

		is.Equal(len(plan.Insert), 1)
		is.Equal(plan.Insert[0].ProductID, 5)
		is.Equal(plan.Insert[0].Quantity, 6)
		is.Equal(plan.Insert[0].PriceCent, 10)

		is.Equal(len(plan.Update), 1)
		is.Equal(plan.Update[0].ProductID, 7)
		is.Equal(plan.Update[0].Quantity, 4)
	})
}

func toPointer[T any](v T) *T {
	return &v
}
