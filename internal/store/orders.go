package store

import (
	"context"
	"database/sql"
	"fmt"
)

// OrderStatus is one order joined with its owner, lifecycle timestamps as
// stored (empty string when the stage has not happened).
type OrderStatus struct {
	OrderID     int64
	Status      string
	CreatedAt   string
	ShippedAt   string
	DeliveredAt string
	ReturnedAt  string
	NumOfItem   int64
	FirstName   string
	LastName    string
	Email       string
}

// OrderStatusByID fetches a single order with the customer's identity.
func (s *Store) OrderStatusByID(ctx context.Context, orderID int64) ([]OrderStatus, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT o.order_id, o.status, o.created_at, o.shipped_at, o.delivered_at, o.returned_at,
	       o.num_of_item, u.first_name, u.last_name, u.email
	FROM orders o
	INNER JOIN users u ON o.user_id = u.id
	WHERE o.order_id = ?`, orderID)
	if err != nil {
		return nil, fmt.Errorf("order status by id: %w", err)
	}
	defer rows.Close()
	return scanOrderStatuses(rows, true)
}

// OrderStatusByUser lists a customer's most recent orders.
func (s *Store) OrderStatusByUser(ctx context.Context, userID int64, limit int) ([]OrderStatus, error) {
	if limit < 1 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `SELECT o.order_id, o.status, o.created_at, o.shipped_at, o.delivered_at, o.returned_at,
	       o.num_of_item
	FROM orders o
	WHERE o.user_id = ?
	ORDER BY o.created_at DESC
	LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("order status by user: %w", err)
	}
	defer rows.Close()
	return scanOrderStatuses(rows, false)
}

func scanOrderStatuses(rows *sql.Rows, withUser bool) ([]OrderStatus, error) {
	var statuses []OrderStatus
	for rows.Next() {
		var status OrderStatus
		var shipped, delivered, returned sql.NullString
		dest := []any{&status.OrderID, &status.Status, &status.CreatedAt, &shipped, &delivered, &returned, &status.NumOfItem}
		if withUser {
			dest = append(dest, &status.FirstName, &status.LastName, &status.Email)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan order status row: %w", err)
		}
		status.ShippedAt = shipped.String
		status.DeliveredAt = delivered.String
		status.ReturnedAt = returned.String
		statuses = append(statuses, status)
	}
	return statuses, rows.Err()
}

// OrderHistoryEntry aggregates one order with its item count and value.
type OrderHistoryEntry struct {
	OrderID    int64
	Status     string
	CreatedAt  string
	NumOfItem  int64
	TotalItems int64
	TotalValue float64
}

// UserOrderHistory lists every order a customer placed, newest first, with
// per-order item counts and total retail value.
func (s *Store) UserOrderHistory(ctx context.Context, userID int64) ([]OrderHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT o.order_id, o.status, o.created_at, o.num_of_item,
	       COUNT(oi.id) AS total_items,
	       COALESCE(SUM(p.retail_price), 0) AS total_value
	FROM orders o
	LEFT JOIN order_items oi ON o.order_id = oi.order_id
	LEFT JOIN products p ON oi.product_id = p.id
	WHERE o.user_id = ?
	GROUP BY o.order_id, o.status, o.created_at, o.num_of_item
	ORDER BY o.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("user order history: %w", err)
	}
	defer rows.Close()

	var entries []OrderHistoryEntry
	for rows.Next() {
		var entry OrderHistoryEntry
		if err := rows.Scan(&entry.OrderID, &entry.Status, &entry.CreatedAt, &entry.NumOfItem, &entry.TotalItems, &entry.TotalValue); err != nil {
			return nil, fmt.Errorf("scan order history row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
