package respond

import (
	"context"

	"github.com/threadcart/supportbot/internal/extract"
	"github.com/threadcart/supportbot/internal/store"
)

// Queries is the read-only slice of the store the router needs.
type Queries interface {
	SearchProducts(ctx context.Context, input store.SearchProductsInput) ([]store.ProductAvailability, error)
	OrderStatusByID(ctx context.Context, orderID int64) ([]store.OrderStatus, error)
	OrderStatusByUser(ctx context.Context, userID int64, limit int) ([]store.OrderStatus, error)
	UserOrderHistory(ctx context.Context, userID int64) ([]store.OrderHistoryEntry, error)
	InventoryByProduct(ctx context.Context, lookup store.InventoryLookup) ([]store.InventoryLevel, error)
	TopProducts(ctx context.Context, limit int) ([]store.TopProduct, error)
}

// Rows carries the result of one routed query. One slice per query shape so
// the context builder can be checked exhaustively against the categories it
// knows about; only the slice matching Kind is ever populated.
type Rows struct {
	Kind      Category
	Products  []store.ProductAvailability
	Orders    []store.OrderStatus
	History   []store.OrderHistoryEntry
	Inventory []store.InventoryLevel
	Top       []store.TopProduct
}

func (r Rows) Empty() bool {
	return len(r.Products) == 0 && len(r.Orders) == 0 && len(r.History) == 0 &&
		len(r.Inventory) == 0 && len(r.Top) == 0
}

// runQuery maps a category and the extracted facts to one parameterized
// read. Insufficient inputs and unrecognized categories yield empty Rows with
// no error; a store failure is returned so the caller can log it, but both
// degrade to the same "no information found" context.
func (r *Responder) runQuery(ctx context.Context, category Category, facts extract.Facts) (Rows, error) {
	rows := Rows{Kind: category}

	switch category {
	case CategoryProductSearch:
		products, err := r.queries.SearchProducts(ctx, store.SearchProductsInput{
			Category: facts.Category,
			Brand:    facts.Brand,
			Limit:    r.cfg.SearchLimit,
		})
		if err != nil {
			return Rows{Kind: category}, err
		}
		rows.Products = products

	case CategoryOrderStatus:
		switch {
		case facts.HasOrderID:
			orders, err := r.queries.OrderStatusByID(ctx, facts.OrderID)
			if err != nil {
				return Rows{Kind: category}, err
			}
			rows.Orders = orders
		case facts.HasUserID:
			orders, err := r.queries.OrderStatusByUser(ctx, facts.UserID, 10)
			if err != nil {
				return Rows{Kind: category}, err
			}
			rows.Orders = orders
		}

	case CategoryUserOrders:
		if facts.HasUserID {
			history, err := r.queries.UserOrderHistory(ctx, facts.UserID)
			if err != nil {
				return Rows{Kind: category}, err
			}
			rows.History = history
		}

	case CategoryInventoryCheck:
		// None of the extracted hints map to the inventory parameters
		// (product_id/sku), so the lookup is empty and the store answers
		// with no rows rather than guessing from an order or user id.
		levels, err := r.queries.InventoryByProduct(ctx, store.InventoryLookup{})
		if err != nil {
			return Rows{Kind: category}, err
		}
		rows.Inventory = levels

	case CategoryTopProducts:
		top, err := r.queries.TopProducts(ctx, r.cfg.TopLimit)
		if err != nil {
			return Rows{Kind: category}, err
		}
		rows.Top = top
	}

	return rows, nil
}
