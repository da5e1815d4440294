package trolley

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func radio(qty int) LineItem {
	return LineItem{
		ProductID:   "0002",
		Description: "DAB Radio",
		ImageName:   "0002.jpg",
		UnitPrice:   decimal.RequireFromString("29.99"),
		StockQty:    50,
		Qty:         qty,
	}
}

func watch(qty int) LineItem {
	return LineItem{
		ProductID:   "0004",
		Description: "Watch",
		ImageName:   "0004.jpg",
		UnitPrice:   decimal.RequireFromString("57.00"),
		StockQty:    10,
		Qty:         qty,
	}
}

func TestConsolidateMergesDuplicates(t *testing.T) {
	t.Parallel()

	out := Consolidate([]LineItem{radio(1), watch(2), radio(3)})

	if len(out) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(out))
	}
	if out[0].ProductID != "0002" || out[0].Qty != 4 {
		t.Fatalf("unexpected first item: %+v", out[0])
	}
	if out[1].ProductID != "0004" || out[1].Qty != 2 {
		t.Fatalf("unexpected second item: %+v", out[1])
	}
}

func TestConsolidateKeepsFirstSeenFields(t *testing.T) {
	t.Parallel()

	second := radio(1)
	second.Description = "DAB Radio (renamed)"
	second.StockQty = 7

	out := Consolidate([]LineItem{radio(2), second})

	if len(out) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(out))
	}
	if out[0].Description != "DAB Radio" || out[0].StockQty != 50 {
		t.Fatalf("first-seen fields lost: %+v", out[0])
	}
	if out[0].Qty != 3 {
		t.Fatalf("expected merged qty 3, got %d", out[0].Qty)
	}
}

func TestConsolidateSortsByProductID(t *testing.T) {
	t.Parallel()

	out := Consolidate([]LineItem{watch(1), radio(1)})

	if out[0].ProductID != "0002" || out[1].ProductID != "0004" {
		t.Fatalf("expected [0002 0004], got [%s %s]", out[0].ProductID, out[1].ProductID)
	}
}

func TestConsolidateIdempotent(t *testing.T) {
	t.Parallel()

	once := Consolidate([]LineItem{watch(1), radio(2), radio(1)})
	twice := Consolidate(once)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("consolidation not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestConsolidateConservesQuantities(t *testing.T) {
	t.Parallel()

	in := []LineItem{radio(2), watch(5), radio(4), watch(1)}
	out := Consolidate(in)

	want := map[string]int{}
	for _, item := range in {
		want[item.ProductID] += item.Qty
	}
	got := map[string]int{}
	for _, item := range out {
		got[item.ProductID] += item.Qty
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("quantity totals diverged: want %v, got %v", want, got)
	}
}

func TestConsolidateDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := []LineItem{radio(1), radio(2)}
	out := Consolidate(in)

	if in[0].Qty != 1 || in[1].Qty != 2 {
		t.Fatalf("input mutated: %+v", in)
	}

	out[0].Qty = 99
	if in[0].Qty != 1 {
		t.Fatalf("output aliases input: %+v", in)
	}
}
