package shacl

import (
	"errors"
	"fmt"
	"slices"

	"github.com/aleksaelezovic/shaclview/pkg/rdf"
)

// ErrMalformedPath is returned when a path encoding is cyclic or exceeds the depth bound
var ErrMalformedPath = errors.New("malformed property path")

// ExtractPath returns the term trail of the path whose sh:path quad is start.
//
// The trail begins with the path object. A plain IRI path ends there. Other
// path nodes are walked depth first through their outgoing quads in the
// shapes graph (rdf:first, then the path operators, then rdf:rest, then
// anything else), appending each object. The walk descends only into blank
// or generated nodes, so list members and operator arguments that are IRIs
// end their branch. rdf:nil is not part of the trail. Operators are not
// evaluated.
func ExtractPath(start *rdf.Quad, shapes Graph, maxDepth int) ([]rdf.Term, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxPathDepth
	}

	w := &pathWalk{
		shapes:   shapes,
		maxDepth: maxDepth,
		trail:    []rdf.Term{start.Object},
		visited:  make(map[rdf.TermKey]bool),
	}

	if isPathNode(start.Object) {
		if err := w.walk(start.Object); err != nil {
			return nil, err
		}
	}

	return w.trail, nil
}

type pathWalk struct {
	shapes   Graph
	maxDepth int
	trail    []rdf.Term
	visited  map[rdf.TermKey]bool
}

func (w *pathWalk) walk(node rdf.Term) error {
	key := rdf.KeyOf(node)
	if w.visited[key] {
		return fmt.Errorf("%w: cycle at %s", ErrMalformedPath, node)
	}
	w.visited[key] = true

	quads, err := match(w.shapes, node, nil, nil)
	if err != nil {
		return err
	}
	slices.SortStableFunc(quads, func(a, b *rdf.Quad) int {
		return walkRank(a.Predicate) - walkRank(b.Predicate)
	})

	for _, quad := range quads {
		if rdf.Equal(quad.Object, rdfNil) {
			continue
		}
		if len(w.trail) >= w.maxDepth {
			return fmt.Errorf("%w: more than %d terms", ErrMalformedPath, w.maxDepth)
		}
		w.trail = append(w.trail, quad.Object)

		if isPathNode(quad.Object) {
			if err := w.walk(quad.Object); err != nil {
				return err
			}
		}
	}
	return nil
}

// walkRank orders outgoing quads of a path node
func walkRank(predicate rdf.Term) int {
	switch {
	case rdf.Equal(predicate, rdfFirst):
		return 0
	case rdf.Equal(predicate, rdfRest):
		return 2
	case isOperator(predicate):
		return 1
	default:
		return 3
	}
}

// isPathNode reports whether a term is a node of a path encoding
// rather than a predicate
func isPathNode(term rdf.Term) bool {
	return rdf.IsGenerated(term)
}

func isOperator(predicate rdf.Term) bool {
	return slices.ContainsFunc(pathOperators, func(op *rdf.NamedNode) bool {
		return op.Equals(predicate)
	})
}

