package shacl_test

import (
	"testing"

	"github.com/aleksaelezovic/shaclview/pkg/rdf"
	"github.com/aleksaelezovic/shaclview/pkg/shacl"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

// valueWith builds a property value whose single shape carries the given
// predicate/object pairs
func valueWith(path rdf.Term, pairs ...rdf.Term) shacl.PropertyValue {
	node := rdf.NewBlankNode("p-" + path.String())
	var quads []*rdf.Quad
	for i := 0; i+1 < len(pairs); i += 2 {
		quads = append(quads, rdf.NewQuad(node, pairs[i], pairs[i+1], nil))
	}
	pv := shacl.PropertyValue{Path: []rdf.Term{path}, Type: shacl.ValueTypeData}
	if len(quads) > 0 {
		pv.Shapes = []shacl.PropertyShapeDescriptor{{Node: node, Quads: quads}}
		pv.Type = shacl.ValueTypeShape
	}
	return pv
}

func paths(values []shacl.PropertyValue) []string {
	var out []string
	for _, pv := range values {
		out = append(out, pv.Path[0].(*rdf.NamedNode).LocalName())
	}
	return out
}

func TestRankOrderContract(t *testing.T) {
	order := shacl.SH("order")
	label := shacl.RDFS("label")

	values := []shacl.PropertyValue{
		valueWith(ex("zeta"), label, rdf.NewLiteral("Zeta")),
		valueWith(ex("second"), order, rdf.NewIntegerLiteral(2)),
		valueWith(ex("alpha"), label, rdf.NewLiteral("alpha")),
		valueWith(ex("first"), order, rdf.NewIntegerLiteral(1)),
		valueWith(ex("unlabeled")),
	}

	ranked := shacl.Rank(values, language.English)
	assert.Equal(t, []string{"first", "second", "unlabeled", "alpha", "zeta"}, paths(ranked))

	// Input is left untouched
	assert.Equal(t, "zeta", paths(values)[0])
}

func TestRankIsStable(t *testing.T) {
	order := shacl.SH("order")
	values := []shacl.PropertyValue{
		valueWith(ex("b"), order, rdf.NewIntegerLiteral(5)),
		valueWith(ex("a"), order, rdf.NewIntegerLiteral(5)),
		valueWith(ex("c"), order, rdf.NewLiteral("not a number")),
	}

	ranked := shacl.Rank(values, language.Und)
	assert.Equal(t, []string{"b", "a", "c"}, paths(ranked))
}

func TestRankDecimalOrder(t *testing.T) {
	order := shacl.SH("order")
	values := []shacl.PropertyValue{
		valueWith(ex("third"), order, rdf.NewIntegerLiteral(3)),
		valueWith(ex("unordered")),
		valueWith(ex("second"), order, rdf.NewLiteralWithDatatype("2.5", rdf.XSDDecimal)),
		valueWith(ex("first"), order, rdf.NewLiteralWithDatatype("1.0", rdf.XSDDecimal)),
	}

	ranked := shacl.Rank(values, language.Und)
	assert.Equal(t, []string{"first", "second", "third", "unordered"}, paths(ranked))

	got, ok := values[2].Shapes[0].Order()
	assert.True(t, ok)
	assert.Equal(t, 2, got)

	pv := valueWith(foafName, shacl.SH("minCount"), rdf.NewLiteralWithDatatype("1.0", rdf.XSDDouble))
	low, ok := pv.MinCount()
	assert.True(t, ok)
	assert.Equal(t, 1, low)
}

func TestRankCollation(t *testing.T) {
	label := shacl.RDFS("label")
	values := []shacl.PropertyValue{
		valueWith(ex("z"), label, rdf.NewLiteral("zebra")),
		valueWith(ex("e"), label, rdf.NewLiteral("Éclair")),
		valueWith(ex("a"), label, rdf.NewLiteral("apple")),
	}

	ranked := shacl.Rank(values, language.French)
	assert.Equal(t, []string{"a", "e", "z"}, paths(ranked))
}

func TestLabel(t *testing.T) {
	name := shacl.SH("name")
	label := shacl.RDFS("label")

	tests := []struct {
		name  string
		value shacl.PropertyValue
		langs []string
		want  string
	}{
		{
			name: "english first",
			value: valueWith(foafName,
				name, rdf.NewLiteralWithLanguage("Naam", "nl"),
				label, rdf.NewLiteralWithLanguage("Name", "en")),
			want: "Name",
		},
		{
			name:  "dutch before plain",
			value: valueWith(foafName, label, rdf.NewLiteral("plain"), name, rdf.NewLiteralWithLanguage("Naam", "nl")),
			want:  "Naam",
		},
		{
			name:  "plain",
			value: valueWith(foafName, label, rdf.NewLiteral("plain")),
			want:  "plain",
		},
		{
			name:  "other languages are ignored",
			value: valueWith(foafName, label, rdf.NewLiteralWithLanguage("Nom", "fr")),
			want:  "name",
		},
		{
			name:  "custom preference",
			value: valueWith(foafName, label, rdf.NewLiteralWithLanguage("Nom", "fr")),
			langs: []string{"fr"},
			want:  "Nom",
		},
		{
			name:  "hash namespace",
			value: valueWith(shacl.RDF("type")),
			want:  "type",
		},
		{
			name:  "no path",
			value: shacl.PropertyValue{},
			want:  shacl.UnknownLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.Label(tt.langs...))
		})
	}
}

func TestCardinality(t *testing.T) {
	minCount := shacl.SH("minCount")
	maxCount := shacl.SH("maxCount")

	pv := valueWith(foafName, minCount, rdf.NewIntegerLiteral(1), maxCount, rdf.NewIntegerLiteral(5))
	pv.Shapes = append(pv.Shapes, valueWith(foafName, minCount, rdf.NewIntegerLiteral(2), maxCount, rdf.NewIntegerLiteral(3)).Shapes...)

	low, ok := pv.MinCount()
	assert.True(t, ok)
	assert.Equal(t, 2, low)

	high, ok := pv.MaxCount()
	assert.True(t, ok)
	assert.Equal(t, 3, high)

	_, ok = valueWith(foafName).MinCount()
	assert.False(t, ok)
	_, ok = valueWith(foafName).MaxCount()
	assert.False(t, ok)
}
