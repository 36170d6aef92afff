package respond

import "strings"

// Category is the intent label routing a customer message to a query
// template. The classifier output is free text; everything outside the known
// set maps to CategoryUnknown, which downstream treats as "no rows".
type Category string

const (
	CategoryProductSearch  Category = "product_search"
	CategoryOrderStatus    Category = "order_status"
	CategoryUserOrders     Category = "user_orders"
	CategoryInventoryCheck Category = "inventory_check"
	CategoryTopProducts    Category = "top_products"
	CategoryGeneralHelp    Category = "general_help"
	CategoryUnknown        Category = "unknown"
)

func ParseCategory(raw string) Category {
	label := Category(strings.ToLower(strings.TrimSpace(raw)))
	switch label {
	case CategoryProductSearch, CategoryOrderStatus, CategoryUserOrders,
		CategoryInventoryCheck, CategoryTopProducts, CategoryGeneralHelp:
		return label
	default:
		return CategoryUnknown
	}
}
