package shacl

import (
	"fmt"

	"github.com/aleksaelezovic/shaclview/pkg/rdf"
	"github.com/samber/lo"
)

// TargetShapeMatch records that Shape targets Focus
type TargetShapeMatch struct {
	Focus rdf.Term
	Shape rdf.Term
}

func (m TargetShapeMatch) key() [2]rdf.TermKey {
	return [2]rdf.TermKey{rdf.KeyOf(m.Focus), rdf.KeyOf(m.Shape)}
}

type targetRule struct {
	name    string
	resolve func(focus rdf.Term, shapes, data Graph) ([]TargetShapeMatch, error)
}

// Target rules of SHACL section 2.1.3. sh:targetWhere is not supported.
var targetRules = []targetRule{
	{"node", nodeTargets},
	{"class", classTargets},
	{"implicit class", implicitClassTargets},
	{"subjects of", subjectsOfTargets},
	{"objects of", objectsOfTargets},
	{"shape", explicitShapeTargets},
}

// ResolveTargets returns every (focus, shape) pair established by a target
// declaration. With a nil focus all pairs are returned; otherwise only pairs
// whose focus equals it. A missing graph makes the rules that need it
// contribute nothing. Duplicate pairs are reported once, in first-seen order.
func ResolveTargets(focus rdf.Term, shapes, data Graph) ([]TargetShapeMatch, error) {
	var matches []TargetShapeMatch
	for _, rule := range targetRules {
		found, err := rule.resolve(focus, shapes, data)
		if err != nil {
			return nil, fmt.Errorf("%s targets: %w", rule.name, err)
		}
		matches = append(matches, found...)
	}

	if focus != nil {
		matches = lo.Filter(matches, func(m TargetShapeMatch, _ int) bool {
			return rdf.Equal(m.Focus, focus)
		})
	}

	return lo.UniqBy(matches, TargetShapeMatch.key), nil
}

// (shape, sh:targetNode, node)
func nodeTargets(focus rdf.Term, shapes, _ Graph) ([]TargetShapeMatch, error) {
	quads, err := match(shapes, nil, shTargetNode, focus)
	if err != nil {
		return nil, err
	}
	return lo.Map(quads, func(q *rdf.Quad, _ int) TargetShapeMatch {
		return TargetShapeMatch{Focus: q.Object, Shape: q.Subject}
	}), nil
}

// (shape, sh:targetClass, class) and (instance, rdf:type, class)
func classTargets(focus rdf.Term, shapes, data Graph) ([]TargetShapeMatch, error) {
	if data == nil {
		return nil, nil
	}
	quads, err := match(shapes, nil, shTargetClass, nil)
	if err != nil {
		return nil, err
	}

	var matches []TargetShapeMatch
	for _, q := range quads {
		found, err := instancesOf(focus, q.Object, q.Subject, data)
		if err != nil {
			return nil, err
		}
		matches = append(matches, found...)
	}
	return matches, nil
}

// Resources typed both rdfs:Class and sh:NodeShape, or typed sh:ShapeClass,
// target their own instances
func implicitClassTargets(focus rdf.Term, shapes, data Graph) ([]TargetShapeMatch, error) {
	if data == nil {
		return nil, nil
	}
	classes, err := match(shapes, nil, rdfType, rdfsClass)
	if err != nil {
		return nil, err
	}

	var shapeClasses []rdf.Term
	for _, q := range classes {
		isShape, err := match(shapes, q.Subject, rdfType, shNodeShape)
		if err != nil {
			return nil, err
		}
		if len(isShape) > 0 {
			shapeClasses = append(shapeClasses, q.Subject)
		}
	}

	explicit, err := match(shapes, nil, rdfType, shShapeClass)
	if err != nil {
		return nil, err
	}
	for _, q := range explicit {
		shapeClasses = append(shapeClasses, q.Subject)
	}

	var matches []TargetShapeMatch
	for _, class := range lo.UniqBy(shapeClasses, rdf.KeyOf) {
		found, err := instancesOf(focus, class, class, data)
		if err != nil {
			return nil, err
		}
		matches = append(matches, found...)
	}
	return matches, nil
}

func instancesOf(focus, class, shape rdf.Term, data Graph) ([]TargetShapeMatch, error) {
	quads, err := match(data, focus, rdfType, class)
	if err != nil {
		return nil, err
	}
	return lo.Map(quads, func(q *rdf.Quad, _ int) TargetShapeMatch {
		return TargetShapeMatch{Focus: q.Subject, Shape: shape}
	}), nil
}

// (shape, sh:targetSubjectsOf, p) and (node, p, *)
func subjectsOfTargets(focus rdf.Term, shapes, data Graph) ([]TargetShapeMatch, error) {
	if data == nil {
		return nil, nil
	}
	quads, err := match(shapes, nil, shTargetSubjectsOf, nil)
	if err != nil {
		return nil, err
	}

	var matches []TargetShapeMatch
	for _, q := range quads {
		used, err := match(data, focus, q.Object, nil)
		if err != nil {
			return nil, err
		}
		for _, u := range used {
			matches = append(matches, TargetShapeMatch{Focus: u.Subject, Shape: q.Subject})
		}
	}
	return matches, nil
}

// (shape, sh:targetObjectsOf, p) and (*, p, node)
func objectsOfTargets(focus rdf.Term, shapes, data Graph) ([]TargetShapeMatch, error) {
	if data == nil {
		return nil, nil
	}
	quads, err := match(shapes, nil, shTargetObjectsOf, nil)
	if err != nil {
		return nil, err
	}

	var matches []TargetShapeMatch
	for _, q := range quads {
		used, err := match(data, nil, q.Object, focus)
		if err != nil {
			return nil, err
		}
		for _, u := range used {
			matches = append(matches, TargetShapeMatch{Focus: u.Object, Shape: q.Subject})
		}
	}
	return matches, nil
}

// (node, sh:shape, shape), looked up in the shapes graph
func explicitShapeTargets(focus rdf.Term, shapes, _ Graph) ([]TargetShapeMatch, error) {
	quads, err := match(shapes, focus, shShape, nil)
	if err != nil {
		return nil, err
	}
	return lo.Map(quads, func(q *rdf.Quad, _ int) TargetShapeMatch {
		return TargetShapeMatch{Focus: q.Subject, Shape: q.Object}
	}), nil
}
