package encoding

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aleksaelezovic/shaclview/pkg/rdf"
	"github.com/aleksaelezovic/shaclview/pkg/store"
	"github.com/zeebo/xxh3"
)

const (
	// Maximum size for inline strings (16 bytes of UTF-8)
	MaxInlineStringSize = 16

	// EncodedTermSize mirrors store.EncodedTermSize for local buffers
	EncodedTermSize = store.EncodedTermSize

	// typedSeparator joins lexical form and datatype IRI in id2str entries
	typedSeparator = "^^"
)

// EncodedTerm is the fixed-width encoding shared with the store
type EncodedTerm = store.EncodedTerm

// TermEncoder encodes RDF terms, hashing long strings with 128-bit xxh3
type TermEncoder struct{}

var _ store.TermEncoder = (*TermEncoder)(nil)

func NewTermEncoder() *TermEncoder {
	return &TermEncoder{}
}

// Hash128 computes a 128-bit xxhash3 hash of the input string
func (e *TermEncoder) Hash128(s string) [16]byte {
	hash := xxh3.Hash128([]byte(s))
	var result [16]byte
	// xxh3.Hash128 returns a uint128-like type, we need to extract the bytes
	binary.BigEndian.PutUint64(result[0:8], hash.Hi)
	binary.BigEndian.PutUint64(result[8:16], hash.Lo)
	return result
}

// EncodeTerm encodes an RDF term into a fixed-size byte array
// Returns the encoded term and optionally a string to store in id2str table
func (e *TermEncoder) EncodeTerm(term rdf.Term) (EncodedTerm, *string, error) {
	var encoded EncodedTerm

	switch t := term.(type) {
	case *rdf.NamedNode:
		return e.encodeNamedNode(t)
	case *rdf.BlankNode:
		return e.encodeBlankNode(t)
	case *rdf.Literal:
		return e.encodeLiteral(t)
	case *rdf.DefaultGraph:
		return e.encodeDefaultGraph()
	default:
		return encoded, nil, fmt.Errorf("unknown term type: %T", term)
	}
}

func (e *TermEncoder) encodeNamedNode(node *rdf.NamedNode) (EncodedTerm, *string, error) {
	var encoded EncodedTerm
	encoded[0] = byte(rdf.TermTypeNamedNode)

	// Always hash IRIs (using 128-bit xxhash3)
	hash := e.Hash128(node.IRI)
	copy(encoded[1:], hash[:])

	return encoded, &node.IRI, nil
}

func (e *TermEncoder) encodeBlankNode(node *rdf.BlankNode) (EncodedTerm, *string, error) {
	var encoded EncodedTerm
	encoded[0] = byte(rdf.TermTypeBlankNode)

	// Try to parse as numeric ID
	if num, err := strconv.ParseUint(node.ID, 10, 64); err == nil {
		// Store as inline numeric ID (big endian)
		binary.BigEndian.PutUint64(encoded[1:9], num)
		// Zero out remaining bytes
		for i := 9; i < EncodedTermSize; i++ {
			encoded[i] = 0
		}
		return encoded, nil, nil
	}

	// Hash non-numeric blank node IDs
	hash := e.Hash128(node.ID)
	copy(encoded[1:], hash[:])

	return encoded, &node.ID, nil
}

func (e *TermEncoder) encodeLiteral(lit *rdf.Literal) (EncodedTerm, *string, error) {
	// Language-tagged string
	if lit.Language != "" {
		return e.encodeLangStringLiteral(lit)
	}

	if lit.Datatype == nil || lit.Datatype.IRI == rdf.XSDString.IRI {
		return e.encodeStringLiteral(lit)
	}

	// Typed literals with a compact encoding; a lexical form that does not
	// parse falls back to the generic typed encoding so it still round-trips
	var (
		encoded EncodedTerm
		err     error
	)
	switch lit.Datatype.IRI {
	case rdf.XSDInteger.IRI:
		encoded, err = e.encodeIntegerLiteral(lit)
	case rdf.XSDDecimal.IRI:
		encoded, err = e.encodeFloatLiteral(lit, rdf.TermTypeDecimalLiteral)
	case rdf.XSDDouble.IRI:
		encoded, err = e.encodeFloatLiteral(lit, rdf.TermTypeDoubleLiteral)
	case rdf.XSDBoolean.IRI:
		encoded, err = e.encodeBooleanLiteral(lit)
	case rdf.XSDDateTime.IRI:
		encoded, err = e.encodeDateTimeLiteral(lit)
	case rdf.XSDDate.IRI:
		encoded, err = e.encodeDateLiteral(lit)
	default:
		return e.encodeTypedLiteral(lit)
	}
	if err != nil || !e.roundTrips(encoded, lit) {
		return e.encodeTypedLiteral(lit)
	}
	return encoded, nil, nil
}

// roundTrips reports whether decoding yields the same lexical form, so
// non-canonical forms like "01" or "1.50" are kept verbatim
func (e *TermEncoder) roundTrips(encoded EncodedTerm, lit *rdf.Literal) bool {
	decoded, err := NewTermDecoder().DecodeTerm(encoded, nil)
	if err != nil {
		return false
	}
	return decoded.Equals(lit)
}

// encodeTypedLiteral hashes "value^^datatype" and stores it in id2str
func (e *TermEncoder) encodeTypedLiteral(lit *rdf.Literal) (EncodedTerm, *string, error) {
	var encoded EncodedTerm
	encoded[0] = byte(rdf.TermTypeTypedLiteral)

	combined := lit.Value + typedSeparator + lit.Datatype.IRI
	hash := e.Hash128(combined)
	copy(encoded[1:], hash[:])

	return encoded, &combined, nil
}

func (e *TermEncoder) encodeStringLiteral(lit *rdf.Literal) (EncodedTerm, *string, error) {
	var encoded EncodedTerm
	encoded[0] = byte(rdf.TermTypeStringLiteral)

	if len(lit.Value) <= MaxInlineStringSize {
		// Inline small strings
		copy(encoded[1:], []byte(lit.Value))
		// Zero out remaining bytes
		for i := 1 + len(lit.Value); i < EncodedTermSize; i++ {
			encoded[i] = 0
		}
		return encoded, nil, nil
	}

	// Hash large strings
	hash := e.Hash128(lit.Value)
	copy(encoded[1:], hash[:])

	return encoded, &lit.Value, nil
}

func (e *TermEncoder) encodeLangStringLiteral(lit *rdf.Literal) (EncodedTerm, *string, error) {
	var encoded EncodedTerm
	encoded[0] = byte(rdf.TermTypeLangStringLiteral)

	// Combine value and language tag for hashing
	combined := lit.Value + "@" + lit.Language
	hash := e.Hash128(combined)
	copy(encoded[1:], hash[:])

	return encoded, &combined, nil
}

func (e *TermEncoder) encodeIntegerLiteral(lit *rdf.Literal) (EncodedTerm, error) {
	var encoded EncodedTerm
	encoded[0] = byte(rdf.TermTypeIntegerLiteral)

	value, err := strconv.ParseInt(strings.TrimSpace(lit.Value), 10, 64)
	if err != nil {
		return encoded, fmt.Errorf("invalid integer literal: %w", err)
	}

	// Store as big endian signed integer
	binary.BigEndian.PutUint64(encoded[1:9], uint64(value)) // #nosec G115 - intentional bit-pattern conversion for binary encoding

	return encoded, nil
}

func (e *TermEncoder) encodeFloatLiteral(lit *rdf.Literal, termType rdf.TermType) (EncodedTerm, error) {
	var encoded EncodedTerm
	encoded[0] = byte(termType)

	value, err := strconv.ParseFloat(strings.TrimSpace(lit.Value), 64)
	if err != nil {
		return encoded, fmt.Errorf("invalid numeric literal: %w", err)
	}

	binary.BigEndian.PutUint64(encoded[1:9], math.Float64bits(value))

	return encoded, nil
}

func (e *TermEncoder) encodeBooleanLiteral(lit *rdf.Literal) (EncodedTerm, error) {
	var encoded EncodedTerm
	encoded[0] = byte(rdf.TermTypeBooleanLiteral)

	value, err := strconv.ParseBool(lit.Value)
	if err != nil {
		return encoded, fmt.Errorf("invalid boolean literal: %w", err)
	}

	if value {
		encoded[1] = 1
	}

	return encoded, nil
}

func (e *TermEncoder) encodeDateTimeLiteral(lit *rdf.Literal) (EncodedTerm, error) {
	var encoded EncodedTerm
	encoded[0] = byte(rdf.TermTypeDateTimeLiteral)

	// Parse RFC3339 datetime
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(lit.Value))
	if err != nil {
		return encoded, fmt.Errorf("invalid datetime literal: %w", err)
	}

	// Store as Unix timestamp (nanoseconds since epoch)
	binary.BigEndian.PutUint64(encoded[1:9], uint64(t.UnixNano())) // #nosec G115 - intentional bit-pattern conversion for timestamp encoding

	return encoded, nil
}

func (e *TermEncoder) encodeDateLiteral(lit *rdf.Literal) (EncodedTerm, error) {
	var encoded EncodedTerm
	encoded[0] = byte(rdf.TermTypeDateLiteral)

	// Parse date (assuming YYYY-MM-DD format)
	t, err := time.Parse("2006-01-02", strings.TrimSpace(lit.Value))
	if err != nil {
		return encoded, fmt.Errorf("invalid date literal: %w", err)
	}

	// Store as days since epoch
	days := t.Unix() / 86400
	binary.BigEndian.PutUint64(encoded[1:9], uint64(days)) // #nosec G115 - intentional bit-pattern conversion for date encoding

	return encoded, nil
}

func (e *TermEncoder) encodeDefaultGraph() (EncodedTerm, *string, error) {
	var encoded EncodedTerm
	encoded[0] = byte(rdf.TermTypeDefaultGraph)

	// Zero out remaining bytes
	for i := 1; i < EncodedTermSize; i++ {
		encoded[i] = 0
	}

	return encoded, nil, nil
}

// EncodeQuadKey encodes a quad key for one of the indexes
// Returns a big-endian byte array for lexicographic sorting
func (e *TermEncoder) EncodeQuadKey(terms ...EncodedTerm) []byte {
	result := make([]byte, 0, len(terms)*EncodedTermSize)
	for _, term := range terms {
		result = append(result, term[:]...)
	}
	return result
}
