package main

import (
	"strings"

	"github.com/aleksaelezovic/shaclview/pkg/rdf"
	"github.com/aleksaelezovic/shaclview/pkg/store"
	"github.com/spf13/cobra"
)

const demoShapes = `
@prefix sh:   <http://www.w3.org/ns/shacl#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix foaf: <http://xmlns.com/foaf/0.1/> .
@prefix ex:   <http://example.org/> .

ex:PersonShape
    a sh:NodeShape ;
    sh:targetClass ex:Person ;
    sh:property [
        sh:path foaf:name ;
        sh:name "Name"@en, "Naam"@nl ;
        sh:minCount 1 ;
        sh:maxCount 1 ;
        sh:order 1
    ] , [
        sh:path foaf:knows ;
        rdfs:label "Knows"@en, "Kent"@nl ;
        sh:order 2
    ] , [
        sh:path ( foaf:knows foaf:name ) ;
        rdfs:label "Friend names"@en
    ] .

ex:Employee
    a rdfs:Class, sh:NodeShape ;
    sh:property [
        sh:path ex:employer ;
        rdfs:label "Employer"@en, "Werkgever"@nl
    ] .
`

const demoData = `
@prefix foaf: <http://xmlns.com/foaf/0.1/> .
@prefix ex:   <http://example.org/> .

ex:alice a ex:Person, ex:Employee ;
    foaf:name "Alice" ;
    foaf:knows ex:bob ;
    foaf:age 34 ;
    ex:employer ex:acme .

ex:bob a ex:Person ;
    foaf:name "Bob" .
`

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Resolve a built-in example in memory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := openMemoryStore()
		if err != nil {
			return err
		}
		defer ts.Close()

		if err = loadTurtle(store.ShapesGraph(ts), demoShapes); err != nil {
			return err
		}
		if err = loadTurtle(store.DataGraph(ts), demoData); err != nil {
			return err
		}

		return resolveAndPrint(cmd.OutOrStdout(), ts, nil)
	},
}

func loadTurtle(view *store.GraphView, doc string) error {
	parser, err := rdf.NewParser("text/turtle")
	if err != nil {
		return err
	}
	quads, err := parser.Parse(strings.NewReader(doc))
	if err != nil {
		return err
	}
	return view.Add(rdf.ScopeBlankNodes(quads, "demo"))
}
