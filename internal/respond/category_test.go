package respond

import "testing"

func TestParseCategory(t *testing.T) {
	cases := []struct {
		label string
		want  Category
	}{
		{"product_search", CategoryProductSearch},
		{"ORDER_STATUS", CategoryOrderStatus},
		{"  user_orders \n", CategoryUserOrders},
		{"inventory_check", CategoryInventoryCheck},
		{"top_products", CategoryTopProducts},
		{"general_help", CategoryGeneralHelp},
		{"Sure! product_search", CategoryUnknown},
		{"", CategoryUnknown},
		{"refund", CategoryUnknown},
	}
	for _, tc := range cases {
		if got := ParseCategory(tc.label); got != tc.want {
			t.Errorf("ParseCategory(%q) = %s, want %s", tc.label, got, tc.want)
		}
	}
}
