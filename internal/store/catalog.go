package store

import (
	"context"
	"fmt"
	"strings"
)

type ProductAvailability struct {
	ID                 int64
	Name               string
	Brand              string
	Category           string
	Department         string
	RetailPrice        float64
	SKU                string
	AvailableInventory int64
}

type SearchProductsInput struct {
	Category   string
	Brand      string
	Department string
	Limit      int
}

// SearchProducts lists products matching the optional substring filters,
// ordered by unsold inventory count descending.
func (s *Store) SearchProducts(ctx context.Context, input SearchProductsInput) ([]ProductAvailability, error) {
	query := `SELECT p.id, p.name, p.brand, p.category, p.department, p.retail_price, p.sku,
	       COUNT(ii.id) AS available_inventory
	FROM products p
	LEFT JOIN inventory_items ii ON p.id = ii.product_id AND ii.sold_at IS NULL
	WHERE 1=1`
	args := []any{}

	if category := strings.TrimSpace(input.Category); category != "" {
		query += ` AND LOWER(p.category) LIKE '%' || LOWER(?) || '%'`
		args = append(args, category)
	}
	if brand := strings.TrimSpace(input.Brand); brand != "" {
		query += ` AND LOWER(p.brand) LIKE '%' || LOWER(?) || '%'`
		args = append(args, brand)
	}
	if department := strings.TrimSpace(input.Department); department != "" {
		query += ` AND LOWER(p.department) LIKE '%' || LOWER(?) || '%'`
		args = append(args, department)
	}

	query += ` GROUP BY p.id, p.name, p.brand, p.category, p.department, p.retail_price, p.sku
	ORDER BY available_inventory DESC
	LIMIT ?`
	limit := input.Limit
	if limit < 1 {
		limit = 10
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	var products []ProductAvailability
	for rows.Next() {
		var p ProductAvailability
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Category, &p.Department, &p.RetailPrice, &p.SKU, &p.AvailableInventory); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

type InventoryLevel struct {
	ProductID      int64
	Name           string
	SKU            string
	RetailPrice    float64
	AvailableItems int64
}

type InventoryLookup struct {
	ProductID int64
	SKU       string
}

// InventoryByProduct reports availability for one product, looked up by id or
// by exact SKU. Returns no rows when neither key is supplied.
func (s *Store) InventoryByProduct(ctx context.Context, lookup InventoryLookup) ([]InventoryLevel, error) {
	const base = `SELECT p.id, p.name, p.sku, p.retail_price,
	       COUNT(ii.id) AS available_items
	FROM products p
	LEFT JOIN inventory_items ii ON p.id = ii.product_id AND ii.sold_at IS NULL
	WHERE %s
	GROUP BY p.id, p.name, p.sku, p.retail_price`

	var query string
	var arg any
	switch {
	case lookup.ProductID > 0:
		query = fmt.Sprintf(base, "p.id = ?")
		arg = lookup.ProductID
	case strings.TrimSpace(lookup.SKU) != "":
		query = fmt.Sprintf(base, "p.sku = ?")
		arg = strings.TrimSpace(lookup.SKU)
	default:
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("check inventory: %w", err)
	}
	defer rows.Close()

	var levels []InventoryLevel
	for rows.Next() {
		var level InventoryLevel
		if err := rows.Scan(&level.ProductID, &level.Name, &level.SKU, &level.RetailPrice, &level.AvailableItems); err != nil {
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}

type TopProduct struct {
	ID                 int64
	Name               string
	Brand              string
	Category           string
	RetailPrice        float64
	TotalSales         int64
	AvailableInventory int64
}

// TopProducts ranks products by lifetime order-item count.
func (s *Store) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	if limit < 1 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `SELECT p.id, p.name, p.brand, p.category, p.retail_price,
	       COUNT(DISTINCT oi.id) AS total_sales,
	       COUNT(DISTINCT ii.id) AS available_inventory
	FROM products p
	LEFT JOIN order_items oi ON p.id = oi.product_id
	LEFT JOIN inventory_items ii ON p.id = ii.product_id AND ii.sold_at IS NULL
	GROUP BY p.id, p.name, p.brand, p.category, p.retail_price
	ORDER BY total_sales DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var top []TopProduct
	for rows.Next() {
		var p TopProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Category, &p.RetailPrice, &p.TotalSales, &p.AvailableInventory); err != nil {
			return nil, fmt.Errorf("scan top product row: %w", err)
		}
		top = append(top, p)
	}
	return top, rows.Err()
}
