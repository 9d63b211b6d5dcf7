package shacl

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type rankEntry struct {
	value    PropertyValue
	order    int
	hasOrder bool
	label    string
}

// Rank returns values in display order: values with an sh:order first,
// ascending; then values without one, by rdfs:label under the collation
// of tag. Equal values keep their relative order.
func Rank(values []PropertyValue, tag language.Tag) []PropertyValue {
	// Collators are not safe for concurrent use
	collator := collate.New(tag)

	entries := make([]rankEntry, len(values))
	for i, pv := range values {
		order, ok := pv.Order()
		entries[i] = rankEntry{value: pv, order: order, hasOrder: ok, label: pv.rankLabel()}
	}

	slices.SortStableFunc(entries, func(a, b rankEntry) int {
		switch {
		case a.hasOrder && b.hasOrder:
			return cmp.Compare(a.order, b.order)
		case a.hasOrder:
			return -1
		case b.hasOrder:
			return 1
		default:
			return collator.CompareString(a.label, b.label)
		}
	})

	ranked := make([]PropertyValue, len(entries))
	for i, entry := range entries {
		ranked[i] = entry.value
	}
	return ranked
}

// Order returns the first sh:order declared by the value's shapes
func (pv PropertyValue) Order() (int, bool) {
	for _, shape := range pv.Shapes {
		if order, ok := shape.Order(); ok {
			return order, true
		}
	}
	return 0, false
}

// rankLabel is the first rdfs:label of the value's shapes, or ""
func (pv PropertyValue) rankLabel() string {
	for _, shape := range pv.Shapes {
		if label, ok := shape.Label(); ok {
			return label
		}
	}
	return ""
}
