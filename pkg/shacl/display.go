package shacl

import (
	"slices"

	"github.com/aleksaelezovic/shaclview/pkg/rdf"
)

// UnknownLabel is shown for a value with neither a label nor a usable path
const UnknownLabel = "Unknown property"

// Label returns the display label of a value: the first sh:name or
// rdfs:label in the first matching language of langs (en, nl when none are
// given), else one without a language, else the local name of the last
// path term.
func (pv PropertyValue) Label(langs ...string) string {
	if len(langs) == 0 {
		langs = []string{"en", "nl"}
	}

	var names []*rdf.Literal
	for _, shape := range pv.Shapes {
		names = append(names, shape.Names()...)
	}

	for _, lang := range append(slices.Clone(langs), "") {
		for _, name := range names {
			if name.Language == lang {
				return name.Value
			}
		}
	}

	if len(pv.Path) > 0 {
		if local := localName(pv.Path[len(pv.Path)-1]); local != "" {
			return local
		}
	}
	return UnknownLabel
}

func localName(term rdf.Term) string {
	switch t := term.(type) {
	case *rdf.NamedNode:
		return t.LocalName()
	case *rdf.BlankNode:
		return t.ID
	default:
		return ""
	}
}

// MinCount returns the largest sh:minCount across the value's shapes
func (pv PropertyValue) MinCount() (int, bool) {
	var counts []int
	for _, shape := range pv.Shapes {
		counts = append(counts, shape.MinCount()...)
	}
	if len(counts) == 0 {
		return 0, false
	}
	return slices.Max(counts), true
}

// MaxCount returns the smallest sh:maxCount across the value's shapes
func (pv PropertyValue) MaxCount() (int, bool) {
	var counts []int
	for _, shape := range pv.Shapes {
		counts = append(counts, shape.MaxCount()...)
	}
	if len(counts) == 0 {
		return 0, false
	}
	return slices.Min(counts), true
}
