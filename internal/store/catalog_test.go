package store

import (
	"context"
	"testing"
)

// seedCatalog loads a small fixture: two products, three unsold units for the
// jacket, one sold unit for the shirt, and one order item selling the shirt.
func seedCatalog(t *testing.T, sqlStore *Store) {
	t.Helper()
	ctx := context.Background()

	if err := sqlStore.InsertDistributionCenters(ctx, []DistributionCenterRecord{
		{ID: 1, Name: "Memphis TN", Latitude: 35.1, Longitude: -89.9},
	}); err != nil {
		t.Fatalf("seed distribution centers: %v", err)
	}
	if err := sqlStore.InsertProducts(ctx, []ProductRecord{
		{ID: 1, Cost: 20, Category: "Jackets", Name: "Trail Jacket", Brand: "Nike", RetailPrice: 89.5, Department: "Men", SKU: "SKU-JACKET", DistributionCenterID: 1},
		{ID: 2, Cost: 8, Category: "Shirts", Name: "Logo Tee", Brand: "Adidas", RetailPrice: 24.0, Department: "Women", SKU: "SKU-TEE", DistributionCenterID: 1},
	}); err != nil {
		t.Fatalf("seed products: %v", err)
	}
	if err := sqlStore.InsertInventoryItems(ctx, []InventoryItemRecord{
		{ID: 1, ProductID: 1, CreatedAt: "2024-01-01 00:00:00", Cost: 20, ProductCategory: "Jackets", ProductName: "Trail Jacket", ProductBrand: "Nike", ProductRetailPrice: 89.5, ProductDepartment: "Men", ProductSKU: "SKU-JACKET", ProductDistributionCenterID: 1},
		{ID: 2, ProductID: 1, CreatedAt: "2024-01-01 00:00:00", Cost: 20, ProductCategory: "Jackets", ProductName: "Trail Jacket", ProductBrand: "Nike", ProductRetailPrice: 89.5, ProductDepartment: "Men", ProductSKU: "SKU-JACKET", ProductDistributionCenterID: 1},
		{ID: 3, ProductID: 1, CreatedAt: "2024-01-01 00:00:00", Cost: 20, ProductCategory: "Jackets", ProductName: "Trail Jacket", ProductBrand: "Nike", ProductRetailPrice: 89.5, ProductDepartment: "Men", ProductSKU: "SKU-JACKET", ProductDistributionCenterID: 1},
		{ID: 4, ProductID: 2, CreatedAt: "2024-01-01 00:00:00", SoldAt: "2024-02-01 00:00:00", Cost: 8, ProductCategory: "Shirts", ProductName: "Logo Tee", ProductBrand: "Adidas", ProductRetailPrice: 24.0, ProductDepartment: "Women", ProductSKU: "SKU-TEE", ProductDistributionCenterID: 1},
	}); err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
	if err := sqlStore.InsertUsers(ctx, []UserRecord{
		{ID: 1, FirstName: "Ana", LastName: "Diaz", Email: "ana@example.com", CreatedAt: "2023-01-01 00:00:00"},
	}); err != nil {
		t.Fatalf("seed users: %v", err)
	}
	if err := sqlStore.InsertOrders(ctx, []OrderRecord{
		{OrderID: 100, UserID: 1, Status: "Shipped", CreatedAt: "2024-02-01 00:00:00", ShippedAt: "2024-02-02 00:00:00", NumOfItem: 1},
	}); err != nil {
		t.Fatalf("seed orders: %v", err)
	}
	if err := sqlStore.InsertOrderItems(ctx, []OrderItemRecord{
		{ID: 1, OrderID: 100, UserID: 1, ProductID: 2, InventoryItemID: 4, Status: "Shipped", CreatedAt: "2024-02-01 00:00:00", ShippedAt: "2024-02-02 00:00:00"},
	}); err != nil {
		t.Fatalf("seed order items: %v", err)
	}
}

func TestSearchProductsOrdersByAvailability(t *testing.T) {
	sqlStore := newTestStore(t)
	seedCatalog(t, sqlStore)

	products, err := sqlStore.SearchProducts(context.Background(), SearchProductsInput{})
	if err != nil {
		t.Fatalf("search products: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].Name != "Trail Jacket" || products[0].AvailableInventory != 3 {
		t.Fatalf("unexpected first product: %+v", products[0])
	}
	if products[1].AvailableInventory != 0 {
		t.Fatalf("sold unit counted as available: %+v", products[1])
	}
}

func TestSearchProductsSubstringFiltersAreCaseInsensitive(t *testing.T) {
	sqlStore := newTestStore(t)
	seedCatalog(t, sqlStore)

	products, err := sqlStore.SearchProducts(context.Background(), SearchProductsInput{Category: "jacket", Brand: "NIKE"})
	if err != nil {
		t.Fatalf("search products: %v", err)
	}
	if len(products) != 1 || products[0].SKU != "SKU-JACKET" {
		t.Fatalf("unexpected filter result: %+v", products)
	}
}

func TestInventoryByProductLookups(t *testing.T) {
	sqlStore := newTestStore(t)
	seedCatalog(t, sqlStore)
	ctx := context.Background()

	byID, err := sqlStore.InventoryByProduct(ctx, InventoryLookup{ProductID: 1})
	if err != nil {
		t.Fatalf("inventory by id: %v", err)
	}
	if len(byID) != 1 || byID[0].AvailableItems != 3 {
		t.Fatalf("unexpected inventory by id: %+v", byID)
	}

	bySKU, err := sqlStore.InventoryByProduct(ctx, InventoryLookup{SKU: "SKU-TEE"})
	if err != nil {
		t.Fatalf("inventory by sku: %v", err)
	}
	if len(bySKU) != 1 || bySKU[0].AvailableItems != 0 {
		t.Fatalf("unexpected inventory by sku: %+v", bySKU)
	}

	empty, err := sqlStore.InventoryByProduct(ctx, InventoryLookup{})
	if err != nil {
		t.Fatalf("inventory without keys: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty result without keys, got %+v", empty)
	}
}

func TestTopProductsRanksBySales(t *testing.T) {
	sqlStore := newTestStore(t)
	seedCatalog(t, sqlStore)

	top, err := sqlStore.TopProducts(context.Background(), 10)
	if err != nil {
		t.Fatalf("top products: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 products, got %d", len(top))
	}
	if top[0].Name != "Logo Tee" || top[0].TotalSales != 1 {
		t.Fatalf("unexpected top product: %+v", top[0])
	}
	if top[1].TotalSales != 0 || top[1].AvailableInventory != 3 {
		t.Fatalf("unexpected runner-up: %+v", top[1])
	}
}
