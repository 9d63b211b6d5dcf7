// Package shacl resolves the property values of a focus node from a SHACL
// shapes graph and a data graph.
//
// Shapes are used for discovery rather than validation: every predicate a
// matched shape declares, and every predicate the data actually holds, is
// reported once per focus node together with the shape metadata (labels,
// cardinality, ordering) that applies to it.
package shacl

import (
	"github.com/aleksaelezovic/shaclview/pkg/rdf"
	"github.com/rs/zerolog"
)

// Graph is the pattern-query capability the resolver consumes.
// Nil positions are wildcards. Result order is not significant.
type Graph interface {
	Match(subject, predicate, object, graph rdf.Term) ([]*rdf.Quad, error)
}

// Generational is implemented by graphs that can report when their
// contents change. Resolution results are only cached for such graphs.
type Generational interface {
	Generation() uint64
}

// match runs a query against a graph that may be absent
func match(g Graph, subject, predicate, object rdf.Term) ([]*rdf.Quad, error) {
	if g == nil {
		return nil, nil
	}
	return g.Match(subject, predicate, object, nil)
}

// objects returns the objects of (subject, predicate, *)
func objects(g Graph, subject, predicate rdf.Term) ([]rdf.Term, error) {
	quads, err := match(g, subject, predicate, nil)
	if err != nil {
		return nil, err
	}
	terms := make([]rdf.Term, 0, len(quads))
	for _, quad := range quads {
		terms = append(terms, quad.Object)
	}
	return terms, nil
}

// DefaultMaxPathDepth bounds the number of terms a path walk may collect
const DefaultMaxPathDepth = 64

type config struct {
	log       zerolog.Logger
	maxDepth  int
	cacheSize int64
	languages []string
}

func newConfig(options []Option) config {
	c := config{
		log:       zerolog.Nop(),
		maxDepth:  DefaultMaxPathDepth,
		languages: []string{"en", "nl"},
	}
	for _, option := range options {
		option(&c)
	}
	return c
}

// Option configures Aggregate and Resolver
type Option func(*config)

// WithLogger sets the logger used to report skipped property shapes
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithMaxPathDepth bounds path extraction; values below 1 keep the default
func WithMaxPathDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithCache enables memoization of resolved focus nodes, holding up to
// size entries. Zero disables the cache.
func WithCache(size int64) Option {
	return func(c *config) {
		c.cacheSize = size
	}
}

// WithLanguages sets the label language preference. The first language
// also selects the collation used for ranking.
func WithLanguages(languages ...string) Option {
	return func(c *config) {
		if len(languages) > 0 {
			c.languages = languages
		}
	}
}
