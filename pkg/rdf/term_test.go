package rdf

import (
	"testing"
)

// ===== NamedNode Tests =====

func TestNamedNode_String(t *testing.T) {
	node := NewNamedNode("http://example.org/resource")
	expected := "<http://example.org/resource>"
	if node.String() != expected {
		t.Errorf("Expected %s, got %s", expected, node.String())
	}
}

func TestNamedNode_Equals(t *testing.T) {
	node1 := NewNamedNode("http://example.org/resource")
	node2 := NewNamedNode("http://example.org/resource")
	node3 := NewNamedNode("http://example.org/different")

	if !node1.Equals(node2) {
		t.Error("Expected equal NamedNodes to be equal")
	}

	if node1.Equals(node3) {
		t.Error("Expected different NamedNodes to not be equal")
	}

	// Test with different term type
	if node1.Equals(NewLiteral("http://example.org/resource")) {
		t.Error("NamedNode should not equal Literal")
	}
}

func TestNamedNode_LocalName(t *testing.T) {
	tests := []struct {
		iri      string
		expected string
	}{
		{"http://xmlns.com/foaf/0.1/name", "name"},
		{"http://www.w3.org/ns/shacl#order", "order"},
		{"urn:isbn", "urn:isbn"},
		{"http://example.org/", ""},
	}

	for _, tt := range tests {
		if got := NewNamedNode(tt.iri).LocalName(); got != tt.expected {
			t.Errorf("LocalName(%s): expected %q, got %q", tt.iri, tt.expected, got)
		}
	}
}

// ===== BlankNode Tests =====

func TestBlankNode_Equals(t *testing.T) {
	if !NewBlankNode("b1").Equals(NewBlankNode("b1")) {
		t.Error("Expected blank nodes with the same label to be equal")
	}
	if NewBlankNode("b1").Equals(NewBlankNode("b2")) {
		t.Error("Expected blank nodes with different labels to differ")
	}
	if NewBlankNode("b1").Equals(NewNamedNode("b1")) {
		t.Error("BlankNode should not equal NamedNode")
	}
}

// ===== Literal Tests =====

func TestLiteral_String(t *testing.T) {
	tests := []struct {
		name     string
		literal  *Literal
		expected string
	}{
		{"plain", NewLiteral("hello"), `"hello"`},
		{"language", NewLiteralWithLanguage("hello", "en"), `"hello"@en`},
		{"typed", NewIntegerLiteral(42), `"42"^^<http://www.w3.org/2001/XMLSchema#integer>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.literal.String(); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestLiteral_Equals(t *testing.T) {
	if !NewLiteral("x").Equals(NewLiteralWithDatatype("x", XSDString)) {
		t.Error("Plain literal should equal its xsd:string form")
	}
	if NewLiteral("x").Equals(NewLiteralWithLanguage("x", "en")) {
		t.Error("Plain literal should not equal language-tagged literal")
	}
	if NewLiteralWithLanguage("x", "en").Equals(NewLiteralWithLanguage("x", "nl")) {
		t.Error("Literals with different languages should differ")
	}
	if NewIntegerLiteral(1).Equals(NewLiteral("1")) {
		t.Error("Typed literal should not equal plain literal")
	}
}

// ===== Quad Tests =====

func TestNewQuad_DefaultsGraph(t *testing.T) {
	quad := NewQuad(NewNamedNode("http://example.org/s"), NewNamedNode("http://example.org/p"), NewLiteral("o"), nil)
	if quad.Graph.Type() != TermTypeDefaultGraph {
		t.Errorf("Expected default graph, got %v", quad.Graph)
	}
}

func TestQuad_Equals(t *testing.T) {
	s := NewNamedNode("http://example.org/s")
	p := NewNamedNode("http://example.org/p")

	q1 := NewQuad(s, p, NewLiteral("o"), nil)
	q2 := NewQuad(NewNamedNode("http://example.org/s"), p, NewLiteral("o"), NewDefaultGraph())
	q3 := NewQuad(s, p, NewLiteral("o"), NewNamedNode("http://example.org/g"))

	if !q1.Equals(q2) {
		t.Error("Expected structurally equal quads to be equal")
	}
	if q1.Equals(q3) {
		t.Error("Expected quads in different graphs to differ")
	}
	if q1.Equals(nil) {
		t.Error("Quad should not equal nil")
	}
}

// ===== TermKey Tests =====

func TestKeyOf_MatchesEqual(t *testing.T) {
	terms := []Term{
		NewNamedNode("http://example.org/a"),
		NewBlankNode("http://example.org/a"),
		NewLiteral("http://example.org/a"),
		NewLiteralWithLanguage("http://example.org/a", "en"),
		NewLiteralWithDatatype("http://example.org/a", XSDInteger),
		NewDefaultGraph(),
	}

	for i, a := range terms {
		for j, b := range terms {
			sameKey := KeyOf(a) == KeyOf(b)
			if sameKey != (i == j) {
				t.Errorf("KeyOf(%s) == KeyOf(%s) is %v", a, b, sameKey)
			}
			if sameKey != Equal(a, b) {
				t.Errorf("KeyOf and Equal disagree for %s and %s", a, b)
			}
		}
	}

	if KeyOf(NewLiteral("x")) != KeyOf(NewLiteralWithDatatype("x", XSDString)) {
		t.Error("xsd:string literal should share a key with the plain literal")
	}
	if KeyOf(nil) != (TermKey{}) {
		t.Error("nil term should yield the zero key")
	}
}

func TestIsGenerated(t *testing.T) {
	tests := []struct {
		term     Term
		expected bool
	}{
		{NewBlankNode("b0"), true},
		{NewNamedNode("http://example.org/.well-known/genid/42"), true},
		{NewNamedNode("http://example.org/name"), false},
		{NewLiteral("/genid/"), false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := IsGenerated(tt.term); got != tt.expected {
			t.Errorf("IsGenerated(%v): expected %v, got %v", tt.term, tt.expected, got)
		}
	}
}

func TestEqual_Nil(t *testing.T) {
	if !Equal(nil, nil) {
		t.Error("nil should equal nil")
	}
	if Equal(NewBlankNode("b"), nil) || Equal(nil, NewBlankNode("b")) {
		t.Error("nil should not equal a term")
	}
}
