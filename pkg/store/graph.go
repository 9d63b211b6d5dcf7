package store

import (
	"github.com/aleksaelezovic/shaclview/pkg/rdf"
)

// GraphView exposes one graph of a TripleStore as a standalone graph.
// Match ignores the graph argument and always queries the view's graph.
type GraphView struct {
	store *TripleStore
	graph rdf.Term
}

// NewGraphView creates a view over graph; a nil graph selects the default graph.
func NewGraphView(store *TripleStore, graph rdf.Term) *GraphView {
	if graph == nil {
		graph = rdf.NewDefaultGraph()
	}
	return &GraphView{store: store, graph: graph}
}

// Graph returns the graph term of the view
func (v *GraphView) Graph() rdf.Term {
	return v.graph
}

// Match queries the view's graph; nil positions are wildcards.
func (v *GraphView) Match(subject, predicate, object, _ rdf.Term) ([]*rdf.Quad, error) {
	return v.store.Match(subject, predicate, object, v.graph)
}

// Generation reports the generation of the underlying store
func (v *GraphView) Generation() uint64 {
	return v.store.Generation()
}

// Count returns the number of quads in the view's graph
func (v *GraphView) Count() (int64, error) {
	return v.store.CountGraph(v.graph)
}

// Replace removes the view's graph contents and inserts quads into it.
func (v *GraphView) Replace(quads []*rdf.Quad) error {
	if err := v.store.DeleteGraph(v.graph); err != nil {
		return err
	}
	return v.Add(quads)
}

// Add inserts quads into the view's graph, whatever graph they carried.
func (v *GraphView) Add(quads []*rdf.Quad) error {
	return v.store.InsertQuadsBatch(rdf.InGraph(quads, v.graph))
}

// Graphs holding the shapes and the data of a shaclview database
const (
	ShapesGraphIRI = "urn:shaclview:shapes"
	DataGraphIRI   = "urn:shaclview:data"
)

// ShapesGraph returns the view over the shapes graph
func ShapesGraph(store *TripleStore) *GraphView {
	return NewGraphView(store, rdf.NewNamedNode(ShapesGraphIRI))
}

// DataGraph returns the view over the data graph
func DataGraph(store *TripleStore) *GraphView {
	return NewGraphView(store, rdf.NewNamedNode(DataGraphIRI))
}
