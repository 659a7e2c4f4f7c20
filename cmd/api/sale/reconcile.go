package sale

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
)

type ReconcilePlan struct {
	Insert []LineItem
	Update []LineItem
}

/*
Partitions incoming items against the existing rows of the sale. Items for a product the sale
does not have yet are inserted as submitted. Items for a product already there only add to the
stored quantity; the stored type and price are kept.
*/
func PlanReconcile(saleID int, existing []LineItem, incoming []LineItemInput, now time.Time) ReconcilePlan {
	byProduct := lo.KeyBy(existing, func(item LineItem) int { return item.ProductID })

	plan := ReconcilePlan{}
	for _, item := range mergeIncoming(saleID, incoming, now) {
		current, ok := byProduct[item.ProductID]
		if !ok {
			plan.Insert = append(plan.Insert, item)
			continue
		}

		current.Quantity = storedQuantity(current) + item.Quantity
		current.UpdatedAt = now
		plan.Update = append(plan.Update, current)
	}
	return plan
}

/*
Merges the incoming items into the sale's line items and returns the reloaded sale.
Must run inside the caller's transaction.
*/
func Reconcile(ctx context.Context, repo Repository, saleID int, incoming []LineItemInput, now time.Time) (Sale, error) {
	productIDs := lo.Uniq(lo.Map(incoming, func(item LineItemInput, _ int) int { return item.ProductID }))

	existing, err := repo.ListLineItems(ctx, saleID, productIDs)
	if err != nil {
		return Sale{}, fmt.Errorf("loading existing line items: %w", err)
	}

	plan := PlanReconcile(saleID, existing, incoming, now)
	if len(plan.Insert) > 0 {
		if err := repo.InsertLineItems(ctx, plan.Insert); err != nil {
			return Sale{}, fmt.Errorf("inserting line items: %w", err)
		}
	}
	if len(plan.Update) > 0 {
		if err := repo.UpdateLineItems(ctx, plan.Update); err != nil {
			return Sale{}, fmt.Errorf("updating line items: %w", err)
		}
	}

	return repo.GetSaleByID(ctx, saleID)
}

/* Deletes the line items of productIDs from the sale and returns what is left of it. Products the sale does not hold are skipped. */
func RemoveItems(ctx context.Context, repo Repository, saleID int, productIDs []int) (Sale, error) {
	if err := repo.DeleteLineItems(ctx, saleID, lo.Uniq(productIDs)); err != nil {
		return Sale{}, fmt.Errorf("removing line items: %w", err)
	}
	return repo.GetSaleByID(ctx, saleID)
}

/* Collapses repeated productIds of one request into a single item, summing quantities. The first occurrence wins for type and price. */
func mergeIncoming(saleID int, incoming []LineItemInput, now time.Time) []LineItem {
	merged := make([]LineItem, 0, len(incoming))
	position := map[int]int{}

	for _, in := range incoming {
		quantity := DefaultQuantity
		if in.Quantity != nil {
			quantity = *in.Quantity
		}

		if ix, seen := position[in.ProductID]; seen {
			merged[ix].Quantity += quantity
			continue
		}

		productType := in.ProductType
		if productType == "" {
			productType = DefaultProductType
		}
		priceCent := 0
		if in.PriceCent != nil {
			priceCent = *in.PriceCent
		}

		position[in.ProductID] = len(merged)
		merged = append(merged, LineItem{
			SaleID:      saleID,
			ProductID:   in.ProductID,
			ProductType: productType,
			Quantity:    quantity,
			PriceCent:   priceCent,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return merged
}

// A stored row without a usable quantity counts as one unit.
func storedQuantity(item LineItem) int {
	if item.Quantity < 1 {
		return DefaultQuantity
	}
	return item.Quantity
}
