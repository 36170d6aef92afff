package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Bulk insert records used by the offline CSV loader. Each call runs in its
// own transaction; the loader controls chunk sizes.

type DistributionCenterRecord struct {
	ID        int64
	Name      string
	Latitude  float64
	Longitude float64
}

type ProductRecord struct {
	ID                   int64
	Cost                 float64
	Category             string
	Name                 string
	Brand                string
	RetailPrice          float64
	Department           string
	SKU                  string
	DistributionCenterID int64
}

type InventoryItemRecord struct {
	ID                          int64
	ProductID                   int64
	CreatedAt                   string
	SoldAt                      string
	Cost                        float64
	ProductCategory             string
	ProductName                 string
	ProductBrand                string
	ProductRetailPrice          float64
	ProductDepartment           string
	ProductSKU                  string
	ProductDistributionCenterID int64
}

type UserRecord struct {
	ID            int64
	FirstName     string
	LastName      string
	Email         string
	Age           int64
	Gender        string
	State         string
	StreetAddress string
	PostalCode    string
	City          string
	Country       string
	Latitude      float64
	Longitude     float64
	TrafficSource string
	CreatedAt     string
}

type OrderRecord struct {
	OrderID     int64
	UserID      int64
	Status      string
	Gender      string
	CreatedAt   string
	ReturnedAt  string
	ShippedAt   string
	DeliveredAt string
	NumOfItem   int64
}

type OrderItemRecord struct {
	ID              int64
	OrderID         int64
	UserID          int64
	ProductID       int64
	InventoryItemID int64
	Status          string
	CreatedAt       string
	ShippedAt       string
	DeliveredAt     string
	ReturnedAt      string
}

func (s *Store) InsertDistributionCenters(ctx context.Context, records []DistributionCenterRecord) error {
	return s.inTx(ctx, "insert distribution centers", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO distribution_centers (id, name, latitude, longitude) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range records {
			if _, err := stmt.ExecContext(ctx, r.ID, r.Name, r.Latitude, r.Longitude); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) InsertProducts(ctx context.Context, records []ProductRecord) error {
	return s.inTx(ctx, "insert products", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO products (id, cost, category, name, brand, retail_price, department, sku, distribution_center_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range records {
			if _, err := stmt.ExecContext(ctx, r.ID, r.Cost, r.Category, r.Name, r.Brand,
				r.RetailPrice, r.Department, r.SKU, nullableID(r.DistributionCenterID)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) InsertInventoryItems(ctx context.Context, records []InventoryItemRecord) error {
	return s.inTx(ctx, "insert inventory items", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO inventory_items (id, product_id, created_at, sold_at, cost, product_category,
			 product_name, product_brand, product_retail_price, product_department, product_sku,
			 product_distribution_center_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range records {
			if _, err := stmt.ExecContext(ctx, r.ID, r.ProductID, r.CreatedAt, nullableText(r.SoldAt),
				r.Cost, r.ProductCategory, r.ProductName, r.ProductBrand, r.ProductRetailPrice,
				r.ProductDepartment, r.ProductSKU, nullableID(r.ProductDistributionCenterID)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) InsertUsers(ctx context.Context, records []UserRecord) error {
	return s.inTx(ctx, "insert users", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO users (id, first_name, last_name, email, age, gender, state, street_address,
			 postal_code, city, country, latitude, longitude, traffic_source, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range records {
			if _, err := stmt.ExecContext(ctx, r.ID, r.FirstName, r.LastName, r.Email, r.Age,
				r.Gender, r.State, r.StreetAddress, r.PostalCode, r.City, r.Country,
				r.Latitude, r.Longitude, r.TrafficSource, r.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) InsertOrders(ctx context.Context, records []OrderRecord) error {
	return s.inTx(ctx, "insert orders", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO orders (order_id, user_id, status, gender, created_at, returned_at, shipped_at, delivered_at, num_of_item)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range records {
			if _, err := stmt.ExecContext(ctx, r.OrderID, r.UserID, r.Status, r.Gender, r.CreatedAt,
				nullableText(r.ReturnedAt), nullableText(r.ShippedAt), nullableText(r.DeliveredAt), r.NumOfItem); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) InsertOrderItems(ctx context.Context, records []OrderItemRecord) error {
	return s.inTx(ctx, "insert order items", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO order_items (id, order_id, user_id, product_id, inventory_item_id, status,
			 created_at, shipped_at, delivered_at, returned_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range records {
			if _, err := stmt.ExecContext(ctx, r.ID, r.OrderID, r.UserID, r.ProductID,
				nullableID(r.InventoryItemID), r.Status, r.CreatedAt,
				nullableText(r.ShippedAt), nullableText(r.DeliveredAt), nullableText(r.ReturnedAt)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func nullableText(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
