package store

import (
	"github.com/aleksaelezovic/shaclview/pkg/rdf"
)

// EncodedTermSize is a type byte followed by 16 bytes of hash or inline data.
const EncodedTermSize = 17

// EncodedTerm represents a term encoded as a type byte followed by up to 16 bytes of data
type EncodedTerm [EncodedTermSize]byte

// Kind returns the term type stored in the first byte.
func (e EncodedTerm) Kind() rdf.TermType {
	return rdf.TermType(e[0])
}

// NeedsLookup reports whether decoding requires the id2str table.
func (e EncodedTerm) NeedsLookup() bool {
	switch e.Kind() {
	case rdf.TermTypeNamedNode, rdf.TermTypeBlankNode, rdf.TermTypeStringLiteral,
		rdf.TermTypeLangStringLiteral, rdf.TermTypeTypedLiteral:
		return true
	}
	return false
}

// TermEncoder handles encoding of RDF terms into a compact binary format
type TermEncoder interface {
	// EncodeTerm encodes an RDF term into a fixed-size byte array.
	// The returned string, when non-nil, must be stored in the id2str table.
	EncodeTerm(term rdf.Term) (EncodedTerm, *string, error)

	// EncodeQuadKey concatenates encoded terms into an index key
	EncodeQuadKey(terms ...EncodedTerm) []byte
}

// TermDecoder handles decoding of RDF terms from binary format
type TermDecoder interface {
	// DecodeTerm decodes an encoded term back to an rdf.Term.
	// stringValue carries the id2str entry when one exists.
	DecodeTerm(encoded EncodedTerm, stringValue *string) (rdf.Term, error)
}
