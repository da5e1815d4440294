package trolley

import (
	pkgerrors "github.com/happyshopdev/happyshop-backend/pkg/errors"
)

// Trolley is one customer session's cart: at most one line item per product
// id, every quantity >= 1. Not safe for concurrent use; the owning session
// serializes access.
type Trolley struct {
	items []LineItem
}

// New returns an empty trolley.
func New() *Trolley {
	return &Trolley{}
}

// Add appends a line item and re-consolidates the trolley. The product must
// carry a positive ordered quantity and must have been in stock at lookup
// time; checking that a product was selected at all is the caller's job.
func (t *Trolley) Add(item LineItem, qty int) error {
	if item.ProductID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "ordered quantity must be at least 1")
	}
	if item.StockQty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product is out of stock")
	}
	item.Qty = qty
	t.items = Consolidate(append(t.items, item))
	return nil
}

// RemoveByIDs drops every line item whose product id is in ids. Unknown ids
// are ignored.
func (t *Trolley) RemoveByIDs(ids map[string]struct{}) {
	if len(ids) == 0 || len(t.items) == 0 {
		return
	}
	kept := t.items[:0]
	for _, item := range t.items {
		if _, drop := ids[item.ProductID]; !drop {
			kept = append(kept, item)
		}
	}
	t.items = kept
}

// Clear empties the trolley unconditionally.
func (t *Trolley) Clear() {
	t.items = nil
}

// IsEmpty reports whether the trolley holds no line items.
func (t *Trolley) IsEmpty() bool {
	return len(t.items) == 0
}

// Items returns a consolidated, sorted snapshot of the trolley contents.
func (t *Trolley) Items() []LineItem {
	return Consolidate(t.items)
}
