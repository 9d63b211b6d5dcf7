package shacl_test

import (
	"strings"
	"testing"

	"github.com/aleksaelezovic/shaclview/internal/encoding"
	"github.com/aleksaelezovic/shaclview/internal/storage"
	"github.com/aleksaelezovic/shaclview/pkg/rdf"
	"github.com/aleksaelezovic/shaclview/pkg/shacl"
	"github.com/aleksaelezovic/shaclview/pkg/store"
	"github.com/stretchr/testify/require"
)

const prefixes = `
@prefix sh:   <http://www.w3.org/ns/shacl#> .
@prefix rdf:  <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix xsd:  <http://www.w3.org/2001/XMLSchema#> .
@prefix foaf: <http://xmlns.com/foaf/0.1/> .
@prefix ex:   <http://example.org/> .
`

const personShapes = `
ex:PersonShape
    a sh:NodeShape ;
    sh:targetClass ex:Person ;
    sh:property [
        sh:path foaf:name ;
        sh:name "Name"@en, "Naam"@nl ;
        sh:minCount 1 ;
        sh:maxCount 1 ;
        sh:order 1
    ] .
`

const aliceData = `
ex:alice a ex:Person ;
    foaf:name "Alice" .
`

var (
	alice    = ex("alice")
	bob      = ex("bob")
	foafName = rdf.NewNamedNode("http://xmlns.com/foaf/0.1/name")
	foafAge  = rdf.NewNamedNode("http://xmlns.com/foaf/0.1/age")
	rdfType  = shacl.RDF("type")
)

func ex(local string) *rdf.NamedNode {
	return rdf.NewNamedNode("http://example.org/" + local)
}

// testGraphs holds a shapes and a data graph in one in-memory store
type testGraphs struct {
	store  *store.TripleStore
	shapes *store.GraphView
	data   *store.GraphView
}

func newTestGraphs(t *testing.T, shapesTTL, dataTTL string) *testGraphs {
	t.Helper()

	backend, err := storage.NewMemoryStorage()
	require.NoError(t, err)

	ts := store.NewTripleStore(backend, encoding.NewTermEncoder(), encoding.NewTermDecoder())
	t.Cleanup(func() { _ = ts.Close() })

	g := &testGraphs{
		store:  ts,
		shapes: store.NewGraphView(ts, rdf.NewNamedNode("urn:shaclview:shapes")),
		data:   store.NewGraphView(ts, rdf.NewNamedNode("urn:shaclview:data")),
	}
	require.NoError(t, g.shapes.Add(parseTurtle(t, shapesTTL, "shapes")))
	require.NoError(t, g.data.Add(parseTurtle(t, dataTTL, "data")))
	return g
}

func parseTurtle(t *testing.T, ttl, scope string) []*rdf.Quad {
	t.Helper()
	if strings.TrimSpace(ttl) == "" {
		return nil
	}

	parser, err := rdf.NewParser("text/turtle")
	require.NoError(t, err)

	quads, err := parser.Parse(strings.NewReader(prefixes + ttl))
	require.NoError(t, err)
	return rdf.ScopeBlankNodes(quads, scope)
}

// byPath indexes values by the string form of their path head
func byPath(values []shacl.PropertyValue) map[string]shacl.PropertyValue {
	m := make(map[string]shacl.PropertyValue, len(values))
	for _, pv := range values {
		m[pv.Path[0].String()] = pv
	}
	return m
}
