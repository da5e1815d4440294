package customer

import (
	"fmt"
	"strings"

	"github.com/happyshopdev/happyshop-backend/internal/catalog"
	"github.com/happyshopdev/happyshop-backend/internal/orders"
	"github.com/happyshopdev/happyshop-backend/internal/trolley"
	"github.com/shopspring/decimal"
)

// ViewModel is the immutable display snapshot returned by every session
// operation. The presentation layer renders it as-is; nothing here is
// shared mutable state.
type ViewModel struct {
	ImageRef      string `json:"image_ref"`
	SearchMessage string `json:"search_message"`
	TrolleyText   string `json:"trolley_text"`
	ReceiptText   string `json:"receipt_text"`
}

// formatLineItems renders a trolley or receipt body: one line per item plus
// a grand total.
func formatLineItems(items []trolley.LineItem) string {
	if len(items) == 0 {
		return ""
	}
	var sb strings.Builder
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
		fmt.Fprintf(&sb, "%s %s (%d) £%s\n",
			item.ProductID, item.Description, item.Qty, item.LineTotal().StringFixed(2))
	}
	fmt.Fprintf(&sb, "Total: £%s", total.StringFixed(2))
	return sb.String()
}

// formatReceipt renders the post-checkout receipt page.
func formatReceipt(order *orders.Order) string {
	if order == nil {
		return ""
	}
	return fmt.Sprintf("Order ID: %s\nOrdered: %s\n%s",
		order.ID, order.OrderedAt.Format("2006-01-02 15:04:05"), formatLineItems(order.Items))
}

// formatShortages renders one bullet line per shortage entry.
func formatShortages(entries []catalog.ShortageEntry) string {
	var sb strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&sb, "• %s, %s (Only %d available, %d requested)\n",
			entry.ProductID, entry.Description, entry.AvailableQty, entry.RequestedQty)
	}
	return sb.String()
}
