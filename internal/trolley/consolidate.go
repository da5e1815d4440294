package trolley

import "sort"

// Consolidate merges duplicate product entries into one line item per
// product id, summing ordered quantities. The first-seen entry's
// descriptive fields win. Output is sorted ascending by product id and is
// independent of the input: mutating it never aliases back.
//
// Consolidating an already-consolidated sequence returns an equal sequence.
func Consolidate(items []LineItem) []LineItem {
	merged := make(map[string]LineItem, len(items))
	for _, item := range items {
		existing, ok := merged[item.ProductID]
		if !ok {
			merged[item.ProductID] = item
			continue
		}
		existing.Qty += item.Qty
		merged[item.ProductID] = existing
	}

	out := make([]LineItem, 0, len(merged))
	for _, item := range merged {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProductID < out[j].ProductID
	})
	return out
}
