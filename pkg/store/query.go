package store

import (
	"fmt"

	"github.com/aleksaelezovic/shaclview/pkg/rdf"
)

// Pattern represents a quad pattern. Each position holds an rdf.Term, a
// *Variable, or nil; variables and nil both match anything. A nil Graph
// matches every graph, an rdf.DefaultGraph only the default graph.
type Pattern struct {
	Subject   any
	Predicate any
	Object    any
	Graph     any
}

// Variable represents a named wildcard
type Variable struct {
	Name string
}

// NewVariable creates a new variable
func NewVariable(name string) *Variable {
	return &Variable{Name: name}
}

func (v *Variable) String() string {
	return "?" + v.Name
}

// QuadIterator iterates over quads matching a pattern
type QuadIterator interface {
	Next() bool
	Quad() (*rdf.Quad, error)
	Close() error
}

// Match returns every quad whose bound positions equal the given terms.
// A nil argument is a wildcard; a nil graph matches all graphs.
func (s *TripleStore) Match(subject, predicate, object, graph rdf.Term) ([]*rdf.Quad, error) {
	pattern := &Pattern{}
	if subject != nil {
		pattern.Subject = subject
	}
	if predicate != nil {
		pattern.Predicate = predicate
	}
	if object != nil {
		pattern.Object = object
	}
	if graph != nil {
		pattern.Graph = graph
	}

	it, err := s.Query(pattern)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var quads []*rdf.Quad
	for it.Next() {
		quad, err := it.Quad()
		if err != nil {
			return nil, err
		}
		quads = append(quads, quad)
	}

	return quads, nil
}

// Query executes a pattern match and returns matching quads
func (s *TripleStore) Query(pattern *Pattern) (QuadIterator, error) {
	txn, err := s.storage.Begin(false)
	if err != nil {
		return nil, err
	}

	// Select the best index based on bound positions
	idx := selectIndex(pattern)

	// Build the prefix for scanning
	prefix, err := s.buildScanPrefix(pattern, idx)
	if err != nil {
		_ = txn.Rollback() // #nosec G104 - rollback error less important than original error
		return nil, err
	}

	it, err := txn.Scan(idx.table, prefix)
	if err != nil {
		_ = txn.Rollback() // #nosec G104 - rollback error less important than original error
		return nil, err
	}

	return &quadIterator{
		store: s,
		txn:   txn,
		it:    it,
		index: idx,
	}, nil
}

// selectIndex chooses the index whose key order puts every bound
// position in the scan prefix
func selectIndex(pattern *Pattern) index {
	sBound := !isUnbound(pattern.Subject)
	pBound := !isUnbound(pattern.Predicate)
	oBound := !isUnbound(pattern.Object)

	// rotation: 0 = S,P,O  1 = P,O,S  2 = O,S,P
	rotation := 0
	switch {
	case sBound && pBound:
		rotation = 0
	case pBound && oBound:
		rotation = 1
	case oBound && sBound:
		rotation = 2
	case sBound:
		rotation = 0
	case pBound:
		rotation = 1
	case oBound:
		rotation = 2
	}

	if isUnbound(pattern.Graph) {
		// SPOG, POSG, OSPG
		return quadIndexes[rotation]
	}
	if g, ok := pattern.Graph.(rdf.Term); ok && g.Type() == rdf.TermTypeDefaultGraph {
		// SPO, POS, OSP
		return defaultIndexes[rotation]
	}
	// GSPO, GPOS, GOSP
	return quadIndexes[3+rotation]
}

// buildScanPrefix builds a key prefix for scanning based on bound positions
func (s *TripleStore) buildScanPrefix(pattern *Pattern, idx index) ([]byte, error) {
	positions := [4]any{pattern.Subject, pattern.Predicate, pattern.Object, pattern.Graph}

	var prefix []byte
	for _, pos := range idx.order {
		value := positions[pos]
		if isUnbound(value) {
			// Stop at first variable
			break
		}

		term, ok := value.(rdf.Term)
		if !ok {
			return nil, fmt.Errorf("invalid pattern value %T", value)
		}
		encoded, _, err := s.encoder.EncodeTerm(term)
		if err != nil {
			return nil, err
		}

		prefix = append(prefix, encoded[:]...)
	}

	return prefix, nil
}

// isUnbound checks if a pattern position is a variable or missing
func isUnbound(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(*Variable)
	return ok
}

// quadIterator implements QuadIterator
type quadIterator struct {
	store  *TripleStore
	txn    Transaction
	it     Iterator
	index  index
	closed bool
}

func (qi *quadIterator) Next() bool {
	if qi.closed {
		return false
	}
	return qi.it.Next()
}

func (qi *quadIterator) Quad() (*rdf.Quad, error) {
	if qi.closed {
		return nil, fmt.Errorf("iterator closed")
	}

	key := qi.it.Key()
	if key == nil {
		return nil, fmt.Errorf("no current key")
	}

	terms, err := splitKey(key, len(qi.index.order))
	if err != nil {
		return nil, err
	}

	// Map back to S, P, O, G positions
	var positions [4]EncodedTerm
	for i, pos := range qi.index.order {
		positions[pos] = terms[i]
	}

	decoded := make([]rdf.Term, 4)
	names := [4]string{"subject", "predicate", "object", "graph"}
	for i := range decoded {
		if i == 3 && len(qi.index.order) == 3 {
			decoded[i] = rdf.NewDefaultGraph()
			continue
		}
		decoded[i], err = qi.store.decodeTerm(qi.txn, positions[i])
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", names[i], err)
		}
	}

	return rdf.NewQuad(decoded[0], decoded[1], decoded[2], decoded[3]), nil
}

func (qi *quadIterator) Close() error {
	if qi.closed {
		return nil
	}
	qi.closed = true
	_ = qi.it.Close() // #nosec G104 - iterator close error less critical than transaction rollback error
	return qi.txn.Rollback()
}
