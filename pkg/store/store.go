package store

import (
	"bytes"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/aleksaelezovic/shaclview/pkg/rdf"
)

// index describes one key permutation. order maps key position to the
// quad position (S=0, P=1, O=2, G=3).
type index struct {
	table Table
	order []int
}

var (
	// Default graph indexes (SPO, POS, OSP)
	defaultIndexes = []index{
		{TableSPO, []int{0, 1, 2}},
		{TablePOS, []int{1, 2, 0}},
		{TableOSP, []int{2, 0, 1}},
	}

	// Graph-qualified indexes, written for every quad including the default graph
	quadIndexes = []index{
		{TableSPOG, []int{0, 1, 2, 3}},
		{TablePOSG, []int{1, 2, 0, 3}},
		{TableOSPG, []int{2, 0, 1, 3}},
		{TableGSPO, []int{3, 0, 1, 2}},
		{TableGPOS, []int{3, 1, 2, 0}},
		{TableGOSP, []int{3, 2, 0, 1}},
	}
)

// TripleStore manages the RDF quad store with 9 index permutations
type TripleStore struct {
	storage    Storage
	encoder    TermEncoder
	decoder    TermDecoder
	generation atomic.Uint64
}

// NewTripleStore creates a new triplestore
func NewTripleStore(storage Storage, encoder TermEncoder, decoder TermDecoder) *TripleStore {
	return &TripleStore{
		storage: storage,
		encoder: encoder,
		decoder: decoder,
	}
}

// Close closes the triplestore
func (s *TripleStore) Close() error {
	return s.storage.Close()
}

// Generation changes every time a write transaction commits.
func (s *TripleStore) Generation() uint64 {
	return s.generation.Load()
}

// InsertQuad inserts a quad into the store
func (s *TripleStore) InsertQuad(quad *rdf.Quad) error {
	return s.InsertQuadsBatch([]*rdf.Quad{quad})
}

// batchSize bounds the quads written per transaction
const batchSize = 1000

// InsertQuadsBatch inserts quads, batchSize per transaction
func (s *TripleStore) InsertQuadsBatch(quads []*rdf.Quad) error {
	for start := 0; start < len(quads); start += batchSize {
		chunk := quads[start:min(start+batchSize, len(quads))]
		err := s.update(func(txn Transaction) error {
			for _, quad := range chunk {
				if err := s.insertQuadInTxn(txn, quad); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// update runs fn in a write transaction and bumps the generation on commit
func (s *TripleStore) update(fn func(txn Transaction) error) error {
	txn, err := s.storage.Begin(true)
	if err != nil {
		return err
	}
	defer txn.Rollback() // #nosec G104 - rollback after commit is a no-op

	if err := fn(txn); err != nil {
		return err
	}

	if err := txn.Commit(); err != nil {
		return err
	}
	s.generation.Add(1)
	return nil
}

// encodeQuad encodes the four positions of a quad, storing strings in id2str
// when txn is writable and store is set
func (s *TripleStore) encodeQuad(txn Transaction, quad *rdf.Quad, store bool) ([4]EncodedTerm, error) {
	var encoded [4]EncodedTerm

	graph := quad.Graph
	if graph == nil {
		graph = rdf.NewDefaultGraph()
	}

	names := [4]string{"subject", "predicate", "object", "graph"}
	for i, term := range []rdf.Term{quad.Subject, quad.Predicate, quad.Object, graph} {
		enc, str, err := s.encoder.EncodeTerm(term)
		if err != nil {
			return encoded, fmt.Errorf("failed to encode %s: %w", names[i], err)
		}
		if store {
			if err := s.storeString(txn, enc, str); err != nil {
				return encoded, err
			}
		}
		encoded[i] = enc
	}

	return encoded, nil
}

// indexesFor returns every index a quad is written to
func indexesFor(encoded [4]EncodedTerm) []index {
	if encoded[3].Kind() == rdf.TermTypeDefaultGraph {
		return append(append([]index{}, defaultIndexes...), quadIndexes...)
	}
	return quadIndexes
}

func (s *TripleStore) indexKey(idx index, encoded [4]EncodedTerm) []byte {
	terms := make([]EncodedTerm, len(idx.order))
	for i, pos := range idx.order {
		terms[i] = encoded[pos]
	}
	return s.encoder.EncodeQuadKey(terms...)
}

// insertQuadInTxn inserts a quad within an existing transaction
func (s *TripleStore) insertQuadInTxn(txn Transaction, quad *rdf.Quad) error {
	encoded, err := s.encodeQuad(txn, quad, true)
	if err != nil {
		return err
	}

	// Empty value for all index entries
	emptyValue := []byte{}

	for _, idx := range indexesFor(encoded) {
		if err := txn.Set(idx.table, s.indexKey(idx, encoded), emptyValue); err != nil {
			return err
		}
	}

	// Track named graph
	if encoded[3].Kind() != rdf.TermTypeDefaultGraph {
		if err := txn.Set(TableGraphs, encoded[3][:], emptyValue); err != nil {
			return err
		}
	}

	return nil
}

// storeString stores a string in the id2str table if provided
func (s *TripleStore) storeString(txn Transaction, encoded EncodedTerm, str *string) error {
	if str == nil {
		return nil
	}

	// Use the encoded term (which contains the hash) as the key
	key := encoded[1:]
	value := []byte(*str)

	// Check if already exists to avoid unnecessary writes
	existing, err := txn.Get(TableID2Str, key)
	if err == nil && bytes.Equal(existing, value) {
		return nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	return txn.Set(TableID2Str, key, value)
}

// DeleteQuad deletes a quad from the store
func (s *TripleStore) DeleteQuad(quad *rdf.Quad) error {
	return s.update(func(txn Transaction) error {
		encoded, err := s.encodeQuad(txn, quad, false)
		if err != nil {
			return err
		}
		return s.deleteEncodedInTxn(txn, encoded)
	})
}

// DeleteQuadsBatch deletes quads, batchSize per transaction
func (s *TripleStore) DeleteQuadsBatch(quads []*rdf.Quad) error {
	for start := 0; start < len(quads); start += batchSize {
		chunk := quads[start:min(start+batchSize, len(quads))]
		err := s.update(func(txn Transaction) error {
			for _, quad := range chunk {
				encoded, err := s.encodeQuad(txn, quad, false)
				if err != nil {
					return err
				}
				if err := s.deleteEncodedInTxn(txn, encoded); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// deleteEncodedInTxn removes an encoded quad from all indexes.
// The graphs and id2str tables are left alone since other quads may
// still reference them (no garbage collection).
func (s *TripleStore) deleteEncodedInTxn(txn Transaction, encoded [4]EncodedTerm) error {
	for _, idx := range indexesFor(encoded) {
		if err := txn.Delete(idx.table, s.indexKey(idx, encoded)); err != nil {
			return err
		}
	}
	return nil
}

// DeleteGraph removes every quad of graph. Deleting the default graph
// leaves named graphs untouched.
func (s *TripleStore) DeleteGraph(graph rdf.Term) error {
	return s.update(func(txn Transaction) error {
		graphEnc, _, err := s.encoder.EncodeTerm(graph)
		if err != nil {
			return fmt.Errorf("failed to encode graph: %w", err)
		}

		it, err := txn.Scan(TableGSPO, graphEnc[:])
		if err != nil {
			return err
		}

		// Collect first: deleting while iterating the same table is not safe
		var doomed [][4]EncodedTerm
		for it.Next() {
			terms, err := splitKey(it.Key(), 4)
			if err != nil {
				_ = it.Close() // #nosec G104 - decode error is more relevant
				return err
			}
			doomed = append(doomed, [4]EncodedTerm{terms[1], terms[2], terms[3], terms[0]})
		}
		if err := it.Close(); err != nil {
			return err
		}

		for _, encoded := range doomed {
			if err := s.deleteEncodedInTxn(txn, encoded); err != nil {
				return err
			}
		}

		if graphEnc.Kind() != rdf.TermTypeDefaultGraph {
			return txn.Delete(TableGraphs, graphEnc[:])
		}
		return nil
	})
}

// ContainsQuad checks if a quad exists in the store
func (s *TripleStore) ContainsQuad(quad *rdf.Quad) (bool, error) {
	txn, err := s.storage.Begin(false)
	if err != nil {
		return false, err
	}
	defer txn.Rollback() // #nosec G104 - read-only transaction

	encoded, err := s.encodeQuad(txn, quad, false)
	if err != nil {
		return false, err
	}

	// Check in SPOG index
	_, err = txn.Get(TableSPOG, s.indexKey(quadIndexes[0], encoded))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// Count returns the number of quads in the store
func (s *TripleStore) Count() (int64, error) {
	return s.countPrefix(TableSPOG, nil)
}

// CountGraph returns the number of quads in one graph
func (s *TripleStore) CountGraph(graph rdf.Term) (int64, error) {
	graphEnc, _, err := s.encoder.EncodeTerm(graph)
	if err != nil {
		return 0, err
	}
	return s.countPrefix(TableGSPO, graphEnc[:])
}

func (s *TripleStore) countPrefix(table Table, prefix []byte) (int64, error) {
	txn, err := s.storage.Begin(false)
	if err != nil {
		return 0, err
	}
	defer txn.Rollback() // #nosec G104 - read-only transaction

	it, err := txn.Scan(table, prefix)
	if err != nil {
		return 0, err
	}
	defer it.Close()

	count := int64(0)
	for it.Next() {
		count++
	}

	return count, nil
}

// Graphs lists the named graphs in the store
func (s *TripleStore) Graphs() ([]rdf.Term, error) {
	txn, err := s.storage.Begin(false)
	if err != nil {
		return nil, err
	}
	defer txn.Rollback() // #nosec G104 - read-only transaction

	it, err := txn.Scan(TableGraphs, nil)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var graphs []rdf.Term
	for it.Next() {
		terms, err := splitKey(it.Key(), 1)
		if err != nil {
			return nil, err
		}
		graph, err := s.decodeTerm(txn, terms[0])
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, graph)
	}

	return graphs, nil
}

// splitKey cuts an index key into n encoded terms
func splitKey(key []byte, n int) ([]EncodedTerm, error) {
	if len(key) < n*EncodedTermSize {
		return nil, fmt.Errorf("invalid key length: %d", len(key))
	}

	terms := make([]EncodedTerm, n)
	for i := range terms {
		offset := i * EncodedTermSize
		copy(terms[i][:], key[offset:offset+EncodedTermSize])
	}
	return terms, nil
}

// decodeTerm decodes an encoded term back to an rdf.Term
func (s *TripleStore) decodeTerm(txn Transaction, encoded EncodedTerm) (rdf.Term, error) {
	var stringValue *string
	if encoded.NeedsLookup() {
		str, err := txn.Get(TableID2Str, encoded[1:])
		if err == nil {
			strVal := string(str)
			stringValue = &strVal
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	return s.decoder.DecodeTerm(encoded, stringValue)
}
