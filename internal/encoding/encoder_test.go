package encoding

import (
	"testing"

	"github.com/aleksaelezovic/shaclview/pkg/rdf"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	encoder := NewTermEncoder()
	decoder := NewTermDecoder()

	terms := []rdf.Term{
		rdf.NewNamedNode("http://www.w3.org/ns/shacl#path"),
		rdf.NewBlankNode("42"),
		rdf.NewBlankNode("shapes-b0"),
		rdf.NewLiteral(""),
		rdf.NewLiteral("sixteen bytes ok"),
		rdf.NewLiteral("this one is longer than sixteen bytes"),
		rdf.NewLiteralWithLanguage("naam", "nl"),
		rdf.NewLiteralWithLanguage("user@example.org", "en"),
		rdf.NewIntegerLiteral(-7),
		rdf.NewLiteralWithDatatype("2.25", rdf.XSDDecimal),
		rdf.NewBooleanLiteral(false),
		rdf.NewLiteralWithDatatype("2024-02-29", rdf.XSDDate),
		rdf.NewLiteralWithDatatype("2024-02-29T10:30:00Z", rdf.XSDDateTime),
		rdf.NewLiteralWithDatatype("P3Y", rdf.NewNamedNode("http://www.w3.org/2001/XMLSchema#duration")),
		rdf.NewDefaultGraph(),
	}

	for _, term := range terms {
		encoded, str, err := encoder.EncodeTerm(term)
		if err != nil {
			t.Fatalf("failed to encode %s: %v", term, err)
		}

		decoded, err := decoder.DecodeTerm(encoded, str)
		if err != nil {
			t.Fatalf("failed to decode %s: %v", term, err)
		}
		if !decoded.Equals(term) {
			t.Errorf("round trip mismatch: %s became %s", term, decoded)
		}
	}
}

func TestNonCanonicalLiteralsKeepLexicalForm(t *testing.T) {
	encoder := NewTermEncoder()
	decoder := NewTermDecoder()

	tests := []*rdf.Literal{
		rdf.NewLiteralWithDatatype("01", rdf.XSDInteger),
		rdf.NewLiteralWithDatatype("1.50", rdf.XSDDecimal),
		rdf.NewLiteralWithDatatype("not a number", rdf.XSDInteger),
		rdf.NewLiteralWithDatatype("1", rdf.XSDBoolean),
	}

	for _, lit := range tests {
		encoded, str, err := encoder.EncodeTerm(lit)
		if err != nil {
			t.Fatalf("failed to encode %s: %v", lit, err)
		}
		if encoded.Kind() != rdf.TermTypeTypedLiteral {
			t.Errorf("expected %s to use the typed encoding, got kind %d", lit, encoded.Kind())
		}
		if str == nil {
			t.Fatalf("expected an id2str entry for %s", lit)
		}

		decoded, err := decoder.DecodeTerm(encoded, str)
		if err != nil {
			t.Fatalf("failed to decode %s: %v", lit, err)
		}
		if !decoded.Equals(lit) {
			t.Errorf("expected %s, got %s", lit, decoded)
		}
	}
}

func TestXSDStringEncodesAsPlainLiteral(t *testing.T) {
	encoder := NewTermEncoder()

	plain, _, err := encoder.EncodeTerm(rdf.NewLiteral("Alice"))
	if err != nil {
		t.Fatalf("failed to encode plain literal: %v", err)
	}
	typed, _, err := encoder.EncodeTerm(rdf.NewLiteralWithDatatype("Alice", rdf.XSDString))
	if err != nil {
		t.Fatalf("failed to encode xsd:string literal: %v", err)
	}

	if plain != typed {
		t.Error("xsd:string and plain literals should share an encoding")
	}
}

func TestEncodeUnknownTerm(t *testing.T) {
	encoder := NewTermEncoder()
	if _, _, err := encoder.EncodeTerm(nil); err == nil {
		t.Error("expected an error for a nil term")
	}
}
