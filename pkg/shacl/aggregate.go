package shacl

import (
	"errors"
	"strings"

	"github.com/aleksaelezovic/shaclview/pkg/rdf"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// ValueType tells whether a property value is described by a shape
type ValueType string

const (
	ValueTypeShape ValueType = "shape"
	ValueTypeData  ValueType = "data"
)

// PropertyValue is one predicate of a focus node: the shapes describing it
// and the quads holding its values.
type PropertyValue struct {
	// Focus is nil only for values of the data-only bucket without a focus node
	Focus rdf.Term

	// Path is the predicate, or the term trail of a composite path
	Path []rdf.Term

	// ValueNodes are the data quads (Focus, Path[0], *). Composite paths
	// are not evaluated and carry none.
	ValueNodes []*rdf.Quad

	Shapes []PropertyShapeDescriptor
	Type   ValueType
}

// Composite reports whether the path is more than a single predicate
func (pv PropertyValue) Composite() bool {
	return len(pv.Path) > 1
}

// groupKey identifies a focus node group. The data-only bucket has a key
// of its own that no node can collide with.
type groupKey struct {
	dataOnly bool
	node     rdf.TermKey
}

func focusKey(focus rdf.Term) groupKey {
	return groupKey{node: rdf.KeyOf(focus)}
}

var dataOnlyKey = groupKey{dataOnly: true}

type focusGroup struct {
	key    groupKey
	focus  rdf.Term
	shapes []rdf.Term
}

// Aggregate resolves the property values of focus, or of every targeted
// node when focus is nil. Each group of values is ordered shape values
// first, then data-only values; use Rank for display order.
//
// Only storage errors are returned. Property shapes without a usable path
// are skipped and logged.
func Aggregate(focus rdf.Term, shapes, data Graph, options ...Option) ([]PropertyValue, error) {
	return aggregate(focus, shapes, data, newConfig(options))
}

func aggregate(focus rdf.Term, shapes, data Graph, cfg config) ([]PropertyValue, error) {
	matches, err := ResolveTargets(focus, shapes, data)
	if err != nil {
		return nil, err
	}

	var groups []*focusGroup
	byKey := make(map[groupKey]*focusGroup)
	for _, m := range matches {
		key := focusKey(m.Focus)
		g, ok := byKey[key]
		if !ok {
			g = &focusGroup{key: key, focus: m.Focus}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.shapes = append(g.shapes, m.Shape)
	}

	// A focus node no shape targets still gets its data listed
	if focus == nil || byKey[focusKey(focus)] == nil {
		groups = append(groups, &focusGroup{key: dataOnlyKey, focus: focus})
	}

	var values []PropertyValue
	for _, g := range groups {
		found, err := aggregateGroup(g, shapes, data, cfg)
		if err != nil {
			return nil, err
		}
		values = append(values, found...)
	}
	return values, nil
}

// pathKey identifies a result within one group: the predicate for simple
// paths, the whole trail for composite ones
type pathKey struct {
	head  rdf.TermKey
	trail string
}

func keyOfPath(path []rdf.Term) pathKey {
	key := pathKey{head: rdf.KeyOf(path[0])}
	if len(path) > 1 {
		key.trail = strings.Join(lo.Map(path, func(t rdf.Term, _ int) string { return t.String() }), " ")
	}
	return key
}

func aggregateGroup(g *focusGroup, shapes, data Graph, cfg config) ([]PropertyValue, error) {
	log := cfg.log.With().Stringer("focus", stringer{g.focus}).Bool("dataOnly", g.key.dataOnly).Logger()

	var values []*PropertyValue
	byPath := make(map[pathKey]*PropertyValue)
	register := func(path []rdf.Term) *PropertyValue {
		key := keyOfPath(path)
		pv, ok := byPath[key]
		if !ok {
			pv = &PropertyValue{Focus: g.focus, Path: path, Type: ValueTypeData}
			byPath[key] = pv
			values = append(values, pv)
		}
		return pv
	}

	parents, err := parentShapes(g.shapes, shapes)
	if err != nil {
		return nil, err
	}
	propertyShapes, err := propertyShapesOf(parents, shapes)
	if err != nil {
		return nil, err
	}

	for _, node := range propertyShapes {
		descriptor, path, err := describe(node, shapes, cfg.maxDepth, log)
		if err != nil {
			return nil, err
		}
		if path == nil {
			continue
		}
		pv := register(path)
		pv.Shapes = append(pv.Shapes, descriptor)
		pv.Type = ValueTypeShape
	}

	if g.focus != nil {
		quads, err := match(data, g.focus, nil, nil)
		if err != nil {
			return nil, err
		}
		for _, quad := range quads {
			pv := register([]rdf.Term{quad.Predicate})
			pv.ValueNodes = append(pv.ValueNodes, quad)
		}
	}

	return lo.Map(values, func(pv *PropertyValue, _ int) PropertyValue { return *pv }), nil
}

// parentShapes returns the matched shapes followed by the shapes they
// compose through sh:node and sh:and, one level deep
func parentShapes(matched []rdf.Term, shapes Graph) ([]rdf.Term, error) {
	parents := append([]rdf.Term{}, matched...)
	for _, shape := range matched {
		nodes, err := objects(shapes, shape, shNode)
		if err != nil {
			return nil, err
		}
		parents = append(parents, nodes...)

		ands, err := objects(shapes, shape, shAnd)
		if err != nil {
			return nil, err
		}
		for _, and := range ands {
			members, err := listMembers(and, shapes)
			if err != nil {
				return nil, err
			}
			parents = append(parents, members...)
		}
	}
	return lo.UniqBy(parents, rdf.KeyOf), nil
}

// listMembers returns the members of an RDF list, or the term itself when
// it is not a list head
func listMembers(head rdf.Term, shapes Graph) ([]rdf.Term, error) {
	var members []rdf.Term
	seen := make(map[rdf.TermKey]bool)
	for cell := head; cell != nil && !rdf.Equal(cell, rdfNil) && !seen[rdf.KeyOf(cell)]; {
		seen[rdf.KeyOf(cell)] = true

		first, err := objects(shapes, cell, rdfFirst)
		if err != nil {
			return nil, err
		}
		if len(first) == 0 {
			if cell == head {
				return []rdf.Term{head}, nil
			}
			break
		}
		members = append(members, first[0])

		rest, err := objects(shapes, cell, rdfRest)
		if err != nil {
			return nil, err
		}
		cell = nil
		if len(rest) > 0 {
			cell = rest[0]
		}
	}
	return members, nil
}

func propertyShapesOf(parents []rdf.Term, shapes Graph) ([]rdf.Term, error) {
	var nodes []rdf.Term
	for _, parent := range parents {
		found, err := objects(shapes, parent, shProperty)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, found...)
	}
	return lo.UniqBy(nodes, rdf.KeyOf), nil
}

// describe collects a property shape's quads and extracts its path.
// A nil path means the shape is skipped.
func describe(node rdf.Term, shapes Graph, maxDepth int, log zerolog.Logger) (PropertyShapeDescriptor, []rdf.Term, error) {
	quads, err := match(shapes, node, nil, nil)
	if err != nil {
		return PropertyShapeDescriptor{}, nil, err
	}
	descriptor := PropertyShapeDescriptor{Node: node, Quads: quads}

	var start *rdf.Quad
	for _, quad := range quads {
		if rdf.Equal(quad.Predicate, shPath) {
			start = quad
			break
		}
	}
	if start == nil {
		log.Debug().Stringer("shape", node).Msg("property shape without sh:path skipped")
		return descriptor, nil, nil
	}

	path, err := ExtractPath(start, shapes, maxDepth)
	if errors.Is(err, ErrMalformedPath) {
		log.Warn().Err(err).Stringer("shape", node).Msg("property shape skipped")
		return descriptor, nil, nil
	}
	if err != nil {
		return descriptor, nil, err
	}

	if len(path) == 1 && path[0].Type() != rdf.TermTypeNamedNode {
		log.Debug().Stringer("shape", node).Stringer("path", path[0]).Msg("property shape with an empty path node skipped")
		return descriptor, nil, nil
	}
	return descriptor, path, nil
}

// stringer renders a possibly nil term for log fields
type stringer struct {
	rdf.Term
}

func (s stringer) String() string {
	if s.Term == nil {
		return "-"
	}
	return s.Term.String()
}
