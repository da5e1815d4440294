package trolley

import "github.com/shopspring/decimal"

// LineItem pairs a catalogue product snapshot with an ordered quantity.
// Descriptive fields are frozen at lookup time; StockQty is the stock the
// catalogue reported then, not a live count.
type LineItem struct {
	ProductID   string
	Description string
	ImageName   string
	UnitPrice   decimal.Decimal
	StockQty    int
	Qty         int
}

// LineTotal returns unit price times ordered quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Qty)))
}
