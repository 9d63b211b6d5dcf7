package rdf

import (
	"errors"
	"strings"
	"testing"
)

func TestNewParser_ContentTypes(t *testing.T) {
	tests := []struct {
		contentType string
		expected    string
	}{
		{"text/turtle", "text/turtle"},
		{"text/turtle; charset=utf-8", "text/turtle"},
		{"application/x-turtle", "text/turtle"},
		{"text/plain", "application/n-triples"},
		{"application/n-quads", "application/n-quads"},
		{"application/rdf+xml", "application/rdf+xml"},
	}

	for _, tt := range tests {
		parser, err := NewParser(tt.contentType)
		if err != nil {
			t.Fatalf("NewParser(%s): %v", tt.contentType, err)
		}
		if parser.ContentType() != tt.expected {
			t.Errorf("NewParser(%s): expected %s, got %s", tt.contentType, tt.expected, parser.ContentType())
		}
	}

	if _, err := NewParser("application/json"); !errors.Is(err, ErrUnsupportedContentType) {
		t.Errorf("Expected ErrUnsupportedContentType, got %v", err)
	}
}

func TestTurtleParser_Terms(t *testing.T) {
	input := `
@prefix ex: <http://example.org/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

ex:alice ex:name "Alice" ;
	ex:label "Alicia"@nl ;
	ex:age 30 ;
	ex:address [ ex:city "Ghent" ] .
`
	parser, err := NewParser("text/turtle")
	if err != nil {
		t.Fatal(err)
	}

	quads, err := parser.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(quads) != 5 {
		t.Fatalf("Expected 5 quads, got %d", len(quads))
	}

	byPredicate := make(map[string]*Quad)
	for _, q := range quads {
		if q.Graph.Type() != TermTypeDefaultGraph {
			t.Errorf("Expected default graph, got %v", q.Graph)
		}
		byPredicate[q.Predicate.(*NamedNode).IRI] = q
	}

	if lit, ok := byPredicate["http://example.org/name"].Object.(*Literal); !ok || !lit.Equals(NewLiteral("Alice")) {
		t.Errorf("Unexpected name object: %v", byPredicate["http://example.org/name"].Object)
	}
	if lit, ok := byPredicate["http://example.org/label"].Object.(*Literal); !ok || lit.Language != "nl" {
		t.Errorf("Unexpected label object: %v", byPredicate["http://example.org/label"].Object)
	}
	if lit, ok := byPredicate["http://example.org/age"].Object.(*Literal); !ok || !lit.Equals(NewIntegerLiteral(30)) {
		t.Errorf("Unexpected age object: %v", byPredicate["http://example.org/age"].Object)
	}
	if _, ok := byPredicate["http://example.org/address"].Object.(*BlankNode); !ok {
		t.Errorf("Expected blank node address, got %v", byPredicate["http://example.org/address"].Object)
	}
}

func TestTurtleParser_SyntaxError(t *testing.T) {
	parser, _ := NewParser("text/turtle")
	if _, err := parser.Parse(strings.NewReader(`<http://example.org/s> <http://example.org/p> .`)); err == nil {
		t.Error("Expected parse error for triple without object")
	}
}

func TestScopeBlankNodes(t *testing.T) {
	quads := []*Quad{
		NewQuad(NewBlankNode("b1"), NewNamedNode("http://example.org/p"), NewBlankNode("b2"), nil),
		NewQuad(NewNamedNode("http://example.org/s"), NewNamedNode("http://example.org/p"), NewLiteral("b1"), nil),
	}

	scoped := ScopeBlankNodes(quads, "shapes")

	if !scoped[0].Subject.Equals(NewBlankNode("shapes-b1")) || !scoped[0].Object.Equals(NewBlankNode("shapes-b2")) {
		t.Errorf("Blank nodes not scoped: %s", scoped[0])
	}
	if !scoped[1].Equals(quads[1]) {
		t.Errorf("Quad without blank nodes should be unchanged: %s", scoped[1])
	}
	if !quads[0].Subject.Equals(NewBlankNode("b1")) {
		t.Error("Input quads must not be modified")
	}
}

func TestContentTypeForFile(t *testing.T) {
	tests := map[string]string{
		"shapes.ttl":   "text/turtle",
		"data.NT":      "application/n-triples",
		"dump.nq":      "application/n-quads",
		"onto.rdf":     "application/rdf+xml",
		"no-extension": "text/turtle",
	}
	for name, expected := range tests {
		if got := ContentTypeForFile(name); got != expected {
			t.Errorf("ContentTypeForFile(%s): expected %s, got %s", name, expected, got)
		}
	}
}

func parseTurtle(t *testing.T, input string) []*Quad {
	t.Helper()
	parser, err := NewParser("text/turtle")
	if err != nil {
		t.Fatal(err)
	}
	quads, err := parser.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse(%q): %v", input, err)
	}
	return quads
}

func TestTurtleParser_Layout(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"integer before newline and dot", "<http://e/s> <http://e/p> 1\n.\n", 1},
		{"integer before newline and bracket", "<http://e/s> <http://e/p> [ <http://e/q> 1\n ] .", 2},
		{"trailing semicolon in property list", "@prefix ex: <http://e/> .\nex:S ex:property [ ex:path ex:name ; ] .", 2},
		{"trailing semicolon in statement", "@prefix ex: <http://e/> .\nex:s ex:p ex:o ; ; .", 1},
		{"integer then dot", "<http://e/s> <http://e/p> 42.", 1},
		{"sole property list", "[ <http://e/p> <http://e/o> ] .", 1},
		{"sparql style prefix", "PREFIX ex: <http://e/>\nex:s a ex:C .", 1},
		{"object list", "<http://e/s> <http://e/p> 1, 2.5, 3e2, true .", 4},
		{"comments", "# header\n<http://e/s> <http://e/p> \"v\" . # trailing\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quads := parseTurtle(t, tt.input)
			if len(quads) != tt.expected {
				t.Errorf("Expected %d quads, got %d: %v", tt.expected, len(quads), quads)
			}
		})
	}
}

func TestTurtleParser_Numbers(t *testing.T) {
	quads := parseTurtle(t, "<http://e/s> <http://e/p> 1, -2.50, 1.5e3, +7\n.")
	expected := []*Literal{
		NewLiteralWithDatatype("1", XSDInteger),
		NewLiteralWithDatatype("-2.50", XSDDecimal),
		NewLiteralWithDatatype("1.5e3", XSDDouble),
		NewLiteralWithDatatype("+7", XSDInteger),
	}
	if len(quads) != len(expected) {
		t.Fatalf("Expected %d quads, got %d", len(expected), len(quads))
	}
	for i, q := range quads {
		if !q.Object.Equals(expected[i]) {
			t.Errorf("Object %d: expected %s, got %s", i, expected[i], q.Object)
		}
	}
}

func TestTurtleParser_Collection(t *testing.T) {
	quads := parseTurtle(t, "@prefix ex: <http://e/> .\nex:s ex:path ( ex:a ex:b ) .")
	if len(quads) != 5 {
		t.Fatalf("Expected 5 quads, got %d", len(quads))
	}

	next := make(map[string]*Quad)
	first := make(map[string]Term)
	var head Term
	for _, q := range quads {
		switch q.Predicate.(*NamedNode).IRI {
		case "http://e/path":
			head = q.Object
		case rdfFirst:
			first[q.Subject.String()] = q.Object
		case rdfRest:
			next[q.Subject.String()] = q
		}
	}

	var items []string
	for node := head; node != nil && !node.Equals(NewNamedNode(rdfNil)); {
		items = append(items, first[node.String()].String())
		rest, ok := next[node.String()]
		if !ok {
			t.Fatalf("List cell %s has no rdf:rest", node)
		}
		node = rest.Object
	}
	if strings.Join(items, " ") != "<http://e/a> <http://e/b>" {
		t.Errorf("Unexpected list items: %v", items)
	}

	empty := parseTurtle(t, "<http://e/s> <http://e/p> () .")
	if !empty[0].Object.Equals(NewNamedNode(rdfNil)) {
		t.Errorf("Expected rdf:nil for empty collection, got %s", empty[0].Object)
	}
}

func TestTurtleParser_Literals(t *testing.T) {
	input := `@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
<http://e/s> <http://e/p> "plain"^^xsd:string, 'single', """long
text""", "tab\there"@en-GB, "été"@fr, "5"^^<http://www.w3.org/2001/XMLSchema#int> .`
	quads := parseTurtle(t, input)
	expected := []*Literal{
		NewLiteral("plain"),
		NewLiteral("single"),
		NewLiteral("long\ntext"),
		NewLiteralWithLanguage("tab\there", "en-GB"),
		NewLiteralWithLanguage("été", "fr"),
		NewLiteralWithDatatype("5", NewNamedNode("http://www.w3.org/2001/XMLSchema#int")),
	}
	if len(quads) != len(expected) {
		t.Fatalf("Expected %d quads, got %d", len(expected), len(quads))
	}
	for i, q := range quads {
		if !q.Object.Equals(expected[i]) {
			t.Errorf("Object %d: expected %s, got %s", i, expected[i], q.Object)
		}
	}
}

func TestTurtleParser_BaseAndBlankNodes(t *testing.T) {
	quads := parseTurtle(t, "@base <http://e/dir/> .\n<s> <#p> [] .\n_:genid1 <p> _:genid1 .")
	if len(quads) != 2 {
		t.Fatalf("Expected 2 quads, got %d", len(quads))
	}
	if !quads[0].Subject.Equals(NewNamedNode("http://e/dir/s")) {
		t.Errorf("Relative subject not resolved: %s", quads[0].Subject)
	}
	if !quads[0].Predicate.Equals(NewNamedNode("http://e/dir/#p")) {
		t.Errorf("Fragment predicate not resolved: %s", quads[0].Predicate)
	}
	if quads[0].Object.Equals(quads[1].Subject) {
		t.Errorf("Anonymous blank node reused the written label %s", quads[1].Subject)
	}
}

func TestTurtleParser_Errors(t *testing.T) {
	inputs := []string{
		`<http://e/s> <http://e/p> "unclosed .`,
		`ex:s <http://e/p> <http://e/o> .`,
		`<http://e/s> <http://e/p> <http://e/o>`,
		`"literal" <http://e/p> <http://e/o> .`,
		`<http://e/s> _:b <http://e/o> .`,
		`<http://e/s> <http://e/p> ( <http://e/o> .`,
	}
	parser, _ := NewParser("text/turtle")
	for _, input := range inputs {
		_, err := parser.Parse(strings.NewReader(input))
		if !errors.Is(err, ErrTurtleSyntax) {
			t.Errorf("Parse(%q): expected ErrTurtleSyntax, got %v", input, err)
		}
	}
}
