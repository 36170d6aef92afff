package respond

import (
	"fmt"
	"strings"
)

const noInformationFound = "No specific information found in the database for this query."

// buildContext renders routed rows into the short grounding block fed to the
// generation call. At most maxRows representative rows per category; order
// status keeps the full list so a customer's lookup is never truncated.
func (r *Responder) buildContext(rows Rows) string {
	if rows.Empty() {
		return noInformationFound
	}

	maxRows := r.cfg.ContextRows
	if maxRows < 1 {
		maxRows = 5
	}

	var parts []string
	switch rows.Kind {
	case CategoryProductSearch:
		parts = append(parts, "Available products:")
		for i, p := range rows.Products {
			if i >= maxRows {
				break
			}
			parts = append(parts, fmt.Sprintf("- %s by %s (%s) - $%.2f - %d in stock",
				p.Name, p.Brand, p.Category, p.RetailPrice, p.AvailableInventory))
		}

	case CategoryOrderStatus:
		parts = append(parts, "Order information:")
		for _, o := range rows.Orders {
			parts = append(parts, fmt.Sprintf("Order #%d: %s - Created: %s", o.OrderID, o.Status, o.CreatedAt))
			if o.ShippedAt != "" {
				parts = append(parts, fmt.Sprintf("  Shipped: %s", o.ShippedAt))
			}
			if o.DeliveredAt != "" {
				parts = append(parts, fmt.Sprintf("  Delivered: %s", o.DeliveredAt))
			}
		}

	case CategoryUserOrders:
		parts = append(parts, "User's order history:")
		for i, entry := range rows.History {
			if i >= maxRows {
				break
			}
			parts = append(parts, fmt.Sprintf("Order #%d: %s - %d items - $%.2f",
				entry.OrderID, entry.Status, entry.TotalItems, entry.TotalValue))
		}

	case CategoryInventoryCheck:
		parts = append(parts, "Inventory information:")
		for i, level := range rows.Inventory {
			if i >= maxRows {
				break
			}
			parts = append(parts, fmt.Sprintf("%s (SKU: %s): %d available - $%.2f",
				level.Name, level.SKU, level.AvailableItems, level.RetailPrice))
		}

	case CategoryTopProducts:
		parts = append(parts, "Top selling products:")
		for i, p := range rows.Top {
			if i >= maxRows {
				break
			}
			parts = append(parts, fmt.Sprintf("%s by %s: %d sold - %d in stock",
				p.Name, p.Brand, p.TotalSales, p.AvailableInventory))
		}

	default:
		return noInformationFound
	}

	return strings.Join(parts, "\n")
}
