package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/threadcart/supportbot/internal/store"
)

// chunkSize bounds transaction size for the two big tables.
const chunkSize = 1000

// Loader imports the retail dataset from CSV files into the store. Files are
// loaded in foreign key order so every reference resolves.
type Loader struct {
	store  *store.Store
	logger *slog.Logger
}

func New(st *store.Store, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{store: st, logger: logger}
}

// Run loads every dataset file found under dir. Missing files are skipped
// with a warning so partial datasets still load.
func (l *Loader) Run(ctx context.Context, dir string) error {
	steps := []struct {
		file string
		load func(ctx context.Context, path string) (int, error)
	}{
		{"distribution_centers.csv", l.loadDistributionCenters},
		{"products.csv", l.loadProducts},
		{"inventory_items.csv", l.loadInventoryItems},
		{"users.csv", l.loadUsers},
		{"orders.csv", l.loadOrders},
		{"order_items.csv", l.loadOrderItems},
	}

	for _, step := range steps {
		path := filepath.Join(dir, step.file)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			l.logger.Warn("dataset file missing, skipping", "file", step.file)
			continue
		}
		count, err := step.load(ctx, path)
		if err != nil {
			return fmt.Errorf("load %s: %w", step.file, err)
		}
		l.logger.Info("dataset file loaded", "file", step.file, "rows", count)
	}
	return nil
}

// rowReader walks a CSV file and hands each data row to fn as a
// header-indexed record.
func rowReader(path string, fn func(row record) error) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	count := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("row %d: %w", count+1, err)
		}
		if err := fn(record{columns: columns, fields: fields}); err != nil {
			return count, fmt.Errorf("row %d: %w", count+1, err)
		}
		count++
	}
	return count, nil
}

type record struct {
	columns map[string]int
	fields  []string
}

func (r record) text(name string) string {
	idx, ok := r.columns[name]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return r.fields[idx]
}

func (r record) id(name string) (int64, error) {
	raw := r.text(name)
	if raw == "" {
		return 0, nil
	}
	// Some exports carry ids as floats.
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %q is not an id", name, raw)
	}
	return int64(f), nil
}

func (r record) number(name string) (float64, error) {
	raw := r.text(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %q is not a number", name, raw)
	}
	return v, nil
}

func (l *Loader) loadDistributionCenters(ctx context.Context, path string) (int, error) {
	var records []store.DistributionCenterRecord
	count, err := rowReader(path, func(row record) error {
		id, err := row.id("id")
		if err != nil {
			return err
		}
		lat, err := row.number("latitude")
		if err != nil {
			return err
		}
		lon, err := row.number("longitude")
		if err != nil {
			return err
		}
		records = append(records, store.DistributionCenterRecord{
			ID:        id,
			Name:      row.text("name"),
			Latitude:  lat,
			Longitude: lon,
		})
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, l.store.InsertDistributionCenters(ctx, records)
}

func (l *Loader) loadProducts(ctx context.Context, path string) (int, error) {
	var records []store.ProductRecord
	count, err := rowReader(path, func(row record) error {
		id, err := row.id("id")
		if err != nil {
			return err
		}
		cost, err := row.number("cost")
		if err != nil {
			return err
		}
		retail, err := row.number("retail_price")
		if err != nil {
			return err
		}
		dcID, err := row.id("distribution_center_id")
		if err != nil {
			return err
		}
		records = append(records, store.ProductRecord{
			ID:                   id,
			Cost:                 cost,
			Category:             row.text("category"),
			Name:                 row.text("name"),
			Brand:                row.text("brand"),
			RetailPrice:          retail,
			Department:           row.text("department"),
			SKU:                  row.text("sku"),
			DistributionCenterID: dcID,
		})
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, l.store.InsertProducts(ctx, records)
}

func (l *Loader) loadInventoryItems(ctx context.Context, path string) (int, error) {
	var chunk []store.InventoryItemRecord
	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		if err := l.store.InsertInventoryItems(ctx, chunk); err != nil {
			return err
		}
		chunk = chunk[:0]
		return nil
	}

	count, err := rowReader(path, func(row record) error {
		id, err := row.id("id")
		if err != nil {
			return err
		}
		productID, err := row.id("product_id")
		if err != nil {
			return err
		}
		cost, err := row.number("cost")
		if err != nil {
			return err
		}
		retail, err := row.number("product_retail_price")
		if err != nil {
			return err
		}
		dcID, err := row.id("product_distribution_center_id")
		if err != nil {
			return err
		}
		chunk = append(chunk, store.InventoryItemRecord{
			ID:                          id,
			ProductID:                   productID,
			CreatedAt:                   row.text("created_at"),
			SoldAt:                      row.text("sold_at"),
			Cost:                        cost,
			ProductCategory:             row.text("product_category"),
			ProductName:                 row.text("product_name"),
			ProductBrand:                row.text("product_brand"),
			ProductRetailPrice:          retail,
			ProductDepartment:           row.text("product_department"),
			ProductSKU:                  row.text("product_sku"),
			ProductDistributionCenterID: dcID,
		})
		if len(chunk) >= chunkSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, flush()
}

func (l *Loader) loadUsers(ctx context.Context, path string) (int, error) {
	var records []store.UserRecord
	count, err := rowReader(path, func(row record) error {
		id, err := row.id("id")
		if err != nil {
			return err
		}
		age, err := row.id("age")
		if err != nil {
			return err
		}
		lat, err := row.number("latitude")
		if err != nil {
			return err
		}
		lon, err := row.number("longitude")
		if err != nil {
			return err
		}
		records = append(records, store.UserRecord{
			ID:            id,
			FirstName:     row.text("first_name"),
			LastName:      row.text("last_name"),
			Email:         row.text("email"),
			Age:           age,
			Gender:        row.text("gender"),
			State:         row.text("state"),
			StreetAddress: row.text("street_address"),
			PostalCode:    row.text("postal_code"),
			City:          row.text("city"),
			Country:       row.text("country"),
			Latitude:      lat,
			Longitude:     lon,
			TrafficSource: row.text("traffic_source"),
			CreatedAt:     row.text("created_at"),
		})
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, l.store.InsertUsers(ctx, records)
}

func (l *Loader) loadOrders(ctx context.Context, path string) (int, error) {
	var records []store.OrderRecord
	count, err := rowReader(path, func(row record) error {
		orderID, err := row.id("order_id")
		if err != nil {
			return err
		}
		userID, err := row.id("user_id")
		if err != nil {
			return err
		}
		numItems, err := row.id("num_of_item")
		if err != nil {
			return err
		}
		records = append(records, store.OrderRecord{
			OrderID:     orderID,
			UserID:      userID,
			Status:      row.text("status"),
			Gender:      row.text("gender"),
			CreatedAt:   row.text("created_at"),
			ReturnedAt:  row.text("returned_at"),
			ShippedAt:   row.text("shipped_at"),
			DeliveredAt: row.text("delivered_at"),
			NumOfItem:   numItems,
		})
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, l.store.InsertOrders(ctx, records)
}

func (l *Loader) loadOrderItems(ctx context.Context, path string) (int, error) {
	var chunk []store.OrderItemRecord
	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		if err := l.store.InsertOrderItems(ctx, chunk); err != nil {
			return err
		}
		chunk = chunk[:0]
		return nil
	}

	count, err := rowReader(path, func(row record) error {
		id, err := row.id("id")
		if err != nil {
			return err
		}
		orderID, err := row.id("order_id")
		if err != nil {
			return err
		}
		userID, err := row.id("user_id")
		if err != nil {
			return err
		}
		productID, err := row.id("product_id")
		if err != nil {
			return err
		}
		inventoryItemID, err := row.id("inventory_item_id")
		if err != nil {
			return err
		}
		chunk = append(chunk, store.OrderItemRecord{
			ID:              id,
			OrderID:         orderID,
			UserID:          userID,
			ProductID:       productID,
			InventoryItemID: inventoryItemID,
			Status:          row.text("status"),
			CreatedAt:       row.text("created_at"),
			ShippedAt:       row.text("shipped_at"),
			DeliveredAt:     row.text("delivered_at"),
			ReturnedAt:      row.text("returned_at"),
		})
		if len(chunk) >= chunkSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, flush()
}
