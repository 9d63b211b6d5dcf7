package shacl_test

import (
	"testing"

	"github.com/aleksaelezovic/shaclview/pkg/rdf"
	"github.com/aleksaelezovic/shaclview/pkg/shacl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pathStart(t *testing.T, g *testGraphs, shape rdf.Term) *rdf.Quad {
	t.Helper()
	quads, err := g.shapes.Match(shape, shacl.SH("path"), nil, nil)
	require.NoError(t, err)
	require.Len(t, quads, 1)
	return quads[0]
}

func TestExtractPathPredicate(t *testing.T) {
	// Annotations on the predicate do not extend the trail
	g := newTestGraphs(t, `
ex:p sh:path foaf:name .
foaf:name rdfs:label "name" .
`, "")

	path, err := shacl.ExtractPath(pathStart(t, g, ex("p")), g.shapes, 0)
	require.NoError(t, err)
	require.Len(t, path, 1)
	assert.True(t, path[0].Equals(foafName))
}

func TestExtractPathSequence(t *testing.T) {
	g := newTestGraphs(t, `ex:p sh:path ( foaf:knows foaf:name ) .`, "")

	start := pathStart(t, g, ex("p"))
	path, err := shacl.ExtractPath(start, g.shapes, 0)
	require.NoError(t, err)

	// list cell, first member, next cell, second member
	require.Len(t, path, 4)
	assert.True(t, path[0].Equals(start.Object))
	assert.True(t, path[1].Equals(rdf.NewNamedNode("http://xmlns.com/foaf/0.1/knows")))
	assert.Equal(t, rdf.TermTypeBlankNode, path[2].Type())
	assert.True(t, path[3].Equals(foafName))
}

func TestExtractPathMemberAnnotations(t *testing.T) {
	g := newTestGraphs(t, `
ex:p sh:path ( foaf:knows foaf:name ) .
foaf:knows rdfs:label "knows" .
ex:q sh:path [ sh:inversePath ex:parent ] .
ex:parent rdfs:label "parent" ; rdfs:comment "annotated" .
`, "")

	path, err := shacl.ExtractPath(pathStart(t, g, ex("p")), g.shapes, 0)
	require.NoError(t, err)
	require.Len(t, path, 4)
	for _, term := range path {
		assert.NotEqual(t, rdf.TermTypeLiteral, term.Type(), "annotation %s leaked into the trail", term)
	}
	assert.True(t, path[3].Equals(foafName))

	path, err = shacl.ExtractPath(pathStart(t, g, ex("q")), g.shapes, 0)
	require.NoError(t, err)
	require.Len(t, path, 2)
	assert.True(t, path[1].Equals(ex("parent")))
}

func TestExtractPathOperators(t *testing.T) {
	g := newTestGraphs(t, `
ex:inverse sh:path [ sh:inversePath ex:parent ] .
ex:star sh:path [ sh:zeroOrMorePath [ sh:alternativePath ( ex:a ex:b ) ] ] .
`, "")

	path, err := shacl.ExtractPath(pathStart(t, g, ex("inverse")), g.shapes, 0)
	require.NoError(t, err)
	require.Len(t, path, 2)
	assert.True(t, path[1].Equals(ex("parent")))

	path, err = shacl.ExtractPath(pathStart(t, g, ex("star")), g.shapes, 0)
	require.NoError(t, err)

	var named []string
	for _, term := range path {
		if n, ok := term.(*rdf.NamedNode); ok {
			named = append(named, n.LocalName())
		}
	}
	assert.Equal(t, []string{"a", "b"}, named)
}

func TestExtractPathGeneratedNodes(t *testing.T) {
	g := newTestGraphs(t, `
ex:p sh:path <http://example.org/.well-known/genid/1> .
<http://example.org/.well-known/genid/1> sh:inversePath ex:parent .
`, "")

	path, err := shacl.ExtractPath(pathStart(t, g, ex("p")), g.shapes, 0)
	require.NoError(t, err)
	require.Len(t, path, 2)
	assert.True(t, path[1].Equals(ex("parent")))
}

func TestExtractPathCycle(t *testing.T) {
	g := newTestGraphs(t, `
ex:p sh:path _:l1 .
_:l1 rdf:first ex:a ; rdf:rest _:l2 .
_:l2 rdf:first ex:b ; rdf:rest _:l1 .
`, "")

	_, err := shacl.ExtractPath(pathStart(t, g, ex("p")), g.shapes, 0)
	assert.ErrorIs(t, err, shacl.ErrMalformedPath)
}

func TestExtractPathDepthBound(t *testing.T) {
	g := newTestGraphs(t, `ex:p sh:path ( ex:a ex:b ex:c ex:d ex:e ) .`, "")
	start := pathStart(t, g, ex("p"))

	_, err := shacl.ExtractPath(start, g.shapes, 4)
	assert.ErrorIs(t, err, shacl.ErrMalformedPath)

	path, err := shacl.ExtractPath(start, g.shapes, 10)
	require.NoError(t, err)
	assert.Len(t, path, 10)
}
