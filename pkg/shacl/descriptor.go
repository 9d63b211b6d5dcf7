package shacl

import (
	"math"
	"strconv"
	"strings"

	"github.com/aleksaelezovic/shaclview/pkg/rdf"
)

// PropertyShapeDescriptor holds every quad whose subject is one property
// shape node. Constraints are read through the accessors rather than
// decoded into fields.
type PropertyShapeDescriptor struct {
	Node  rdf.Term
	Quads []*rdf.Quad
}

// Objects returns the objects of the descriptor's quads with the given predicate
func (d PropertyShapeDescriptor) Objects(predicate rdf.Term) []rdf.Term {
	var terms []rdf.Term
	for _, quad := range d.Quads {
		if rdf.Equal(quad.Predicate, predicate) {
			terms = append(terms, quad.Object)
		}
	}
	return terms
}

// Literals returns the literal objects with the given predicate
func (d PropertyShapeDescriptor) Literals(predicate rdf.Term) []*rdf.Literal {
	var literals []*rdf.Literal
	for _, term := range d.Objects(predicate) {
		if lit, ok := term.(*rdf.Literal); ok {
			literals = append(literals, lit)
		}
	}
	return literals
}

// Order returns the first sh:order value that parses as an integer
func (d PropertyShapeDescriptor) Order() (int, bool) {
	return firstInt(d.Objects(shOrder))
}

// Label returns the first rdfs:label literal
func (d PropertyShapeDescriptor) Label() (string, bool) {
	labels := d.Literals(rdfsLabel)
	if len(labels) == 0 {
		return "", false
	}
	return labels[0].Value, true
}

// Names returns the sh:name and rdfs:label literals, in that order
func (d PropertyShapeDescriptor) Names() []*rdf.Literal {
	return append(d.Literals(shName), d.Literals(rdfsLabel)...)
}

// MinCount returns the sh:minCount values
func (d PropertyShapeDescriptor) MinCount() []int {
	return ints(d.Objects(shMinCount))
}

// MaxCount returns the sh:maxCount values
func (d PropertyShapeDescriptor) MaxCount() []int {
	return ints(d.Objects(shMaxCount))
}

func parseInt(term rdf.Term) (int, bool) {
	lit, ok := term.(*rdf.Literal)
	if !ok {
		return 0, false
	}
	text := strings.TrimSpace(lit.Value)
	if value, err := strconv.Atoi(text); err == nil {
		return value, true
	}
	// xsd:decimal and xsd:double values are truncated
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

func firstInt(terms []rdf.Term) (int, bool) {
	for _, term := range terms {
		if value, ok := parseInt(term); ok {
			return value, true
		}
	}
	return 0, false
}

func ints(terms []rdf.Term) []int {
	var values []int
	for _, term := range terms {
		if value, ok := parseInt(term); ok {
			values = append(values, value)
		}
	}
	return values
}
