package shacl

import (
	"github.com/aleksaelezovic/shaclview/pkg/rdf"
)

// Namespaces
const (
	SHNamespace   = "http://www.w3.org/ns/shacl#"
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
)

// SH returns a term in the SHACL namespace
func SH(local string) *rdf.NamedNode {
	return rdf.NewNamedNode(SHNamespace + local)
}

// RDF returns a term in the RDF namespace
func RDF(local string) *rdf.NamedNode {
	return rdf.NewNamedNode(RDFNamespace + local)
}

// RDFS returns a term in the RDF Schema namespace
func RDFS(local string) *rdf.NamedNode {
	return rdf.NewNamedNode(RDFSNamespace + local)
}

var (
	shTargetNode       = SH("targetNode")
	shTargetClass      = SH("targetClass")
	shTargetSubjectsOf = SH("targetSubjectsOf")
	shTargetObjectsOf  = SH("targetObjectsOf")
	shShape            = SH("shape")
	shNodeShape        = SH("NodeShape")
	shShapeClass       = SH("ShapeClass")
	shNode             = SH("node")
	shAnd              = SH("and")
	shProperty         = SH("property")
	shPath             = SH("path")
	shOrder            = SH("order")
	shName             = SH("name")
	shMinCount         = SH("minCount")
	shMaxCount         = SH("maxCount")

	rdfType  = RDF("type")
	rdfFirst = RDF("first")
	rdfRest  = RDF("rest")
	rdfNil   = RDF("nil")

	rdfsClass = RDFS("Class")
	rdfsLabel = RDFS("label")

	// Path operators, in the order the path walk visits them
	pathOperators = []*rdf.NamedNode{
		SH("alternativePath"),
		SH("zeroOrMorePath"),
		SH("oneOrMorePath"),
		SH("zeroOrOnePath"),
		SH("inversePath"),
	}
)
