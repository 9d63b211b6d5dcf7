package results

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/aleksaelezovic/shaclview/pkg/rdf"
	"github.com/aleksaelezovic/shaclview/pkg/shacl"
)

// FormatPropertyValuesCSV writes one row per property value:
// label, path, type, minCount, maxCount and the values joined by " | "
func FormatPropertyValuesCSV(values []shacl.PropertyValue, label func(shacl.PropertyValue) string) ([]byte, error) {
	var builder strings.Builder
	w := csv.NewWriter(&builder)

	// Write header row
	if err := w.Write([]string{"label", "path", "type", "minCount", "maxCount", "values"}); err != nil {
		return nil, err
	}

	for _, pv := range values {
		path := make([]string, 0, len(pv.Path))
		for _, term := range pv.Path {
			path = append(path, TermToCSVValue(term))
		}
		objects := make([]string, 0, len(pv.ValueNodes))
		for _, quad := range pv.ValueNodes {
			objects = append(objects, TermToCSVValue(quad.Object))
		}

		row := []string{
			label(pv),
			strings.Join(path, " "),
			string(pv.Type),
			optionalInt(pv.MinCount()),
			optionalInt(pv.MaxCount()),
			strings.Join(objects, " | "),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return []byte(builder.String()), nil
}

func optionalInt(n int, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.Itoa(n)
}

// TermToCSVValue converts an RDF term to a CSV value string, following the
// SPARQL CSV results conventions (https://www.w3.org/TR/sparql11-results-csv-tsv/):
// - IRIs are written without angle brackets
// - Language-tagged literals: value@language
// - Typed literals: value only
// - Blank nodes: _:label
func TermToCSVValue(term rdf.Term) string {
	switch t := term.(type) {
	case *rdf.NamedNode:
		return t.IRI

	case *rdf.BlankNode:
		return "_:" + t.ID

	case *rdf.Literal:
		if t.Language != "" {
			return t.Value + "@" + t.Language
		}
		return t.Value

	default:
		return term.String()
	}
}
