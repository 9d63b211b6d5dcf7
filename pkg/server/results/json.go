package results

import (
	"encoding/json"

	"github.com/aleksaelezovic/shaclview/pkg/rdf"
	"github.com/aleksaelezovic/shaclview/pkg/shacl"
)

// TermJSON is the JSON form of an RDF term, shaped like a SPARQL JSON
// results binding (https://www.w3.org/TR/sparql11-results-json/)
type TermJSON struct {
	Type     string  `json:"type"`
	Value    string  `json:"value"`
	Datatype *string `json:"datatype,omitempty"`
	XMLLang  *string `json:"xml:lang,omitempty"`
}

// PropertyValueJSON is one resolved property value
type PropertyValueJSON struct {
	FocusNode *TermJSON   `json:"focusNode,omitempty"`
	Path      []TermJSON  `json:"path"`
	Type      string      `json:"type"`
	Label     string      `json:"label"`
	MinCount  *int        `json:"minCount,omitempty"`
	MaxCount  *int        `json:"maxCount,omitempty"`
	Values    []TermJSON  `json:"values"`
	Shapes    []ShapeJSON `json:"shapes"`
}

// ShapeJSON is a property shape and its raw constraint quads
type ShapeJSON struct {
	Node        TermJSON         `json:"node"`
	Constraints []ConstraintJSON `json:"constraints"`
}

// ConstraintJSON is one predicate/object pair of a property shape
type ConstraintJSON struct {
	Predicate TermJSON `json:"predicate"`
	Object    TermJSON `json:"object"`
}

// TargetJSON is one target match
type TargetJSON struct {
	FocusNode TermJSON `json:"focusNode"`
	Shape     TermJSON `json:"shape"`
}

// FormatPropertyValuesJSON converts ranked property values to JSON,
// labelling each with label
func FormatPropertyValuesJSON(values []shacl.PropertyValue, label func(shacl.PropertyValue) string) ([]byte, error) {
	out := make([]PropertyValueJSON, 0, len(values))
	for _, pv := range values {
		item := PropertyValueJSON{
			Type:   string(pv.Type),
			Label:  label(pv),
			Path:   make([]TermJSON, 0, len(pv.Path)),
			Values: make([]TermJSON, 0, len(pv.ValueNodes)),
			Shapes: make([]ShapeJSON, 0, len(pv.Shapes)),
		}
		if pv.Focus != nil {
			focus := TermToJSON(pv.Focus)
			item.FocusNode = &focus
		}
		if n, ok := pv.MinCount(); ok {
			item.MinCount = &n
		}
		if n, ok := pv.MaxCount(); ok {
			item.MaxCount = &n
		}
		for _, term := range pv.Path {
			item.Path = append(item.Path, TermToJSON(term))
		}
		for _, quad := range pv.ValueNodes {
			item.Values = append(item.Values, TermToJSON(quad.Object))
		}
		for _, shape := range pv.Shapes {
			s := ShapeJSON{Node: TermToJSON(shape.Node), Constraints: make([]ConstraintJSON, 0, len(shape.Quads))}
			for _, quad := range shape.Quads {
				s.Constraints = append(s.Constraints, ConstraintJSON{
					Predicate: TermToJSON(quad.Predicate),
					Object:    TermToJSON(quad.Object),
				})
			}
			item.Shapes = append(item.Shapes, s)
		}
		out = append(out, item)
	}

	return json.MarshalIndent(out, "", "  ")
}

// FormatTargetsJSON converts target matches to JSON
func FormatTargetsJSON(matches []shacl.TargetShapeMatch) ([]byte, error) {
	out := make([]TargetJSON, 0, len(matches))
	for _, m := range matches {
		out = append(out, TargetJSON{FocusNode: TermToJSON(m.Focus), Shape: TermToJSON(m.Shape)})
	}
	return json.MarshalIndent(out, "", "  ")
}

// TermToJSON converts an RDF term to its JSON form
func TermToJSON(term rdf.Term) TermJSON {
	switch t := term.(type) {
	case *rdf.NamedNode:
		return TermJSON{
			Type:  "uri",
			Value: t.IRI,
		}

	case *rdf.BlankNode:
		return TermJSON{
			Type:  "bnode",
			Value: t.ID,
		}

	case *rdf.Literal:
		tj := TermJSON{
			Type:  "literal",
			Value: t.Value,
		}

		if t.Language != "" {
			tj.XMLLang = &t.Language
		} else if t.Datatype != nil {
			datatypeIRI := t.Datatype.IRI
			tj.Datatype = &datatypeIRI
		}

		return tj

	default:
		return TermJSON{
			Type:  "literal",
			Value: term.String(),
		}
	}
}
