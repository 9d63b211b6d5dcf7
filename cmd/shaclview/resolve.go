package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/aleksaelezovic/shaclview/pkg/rdf"
	"github.com/aleksaelezovic/shaclview/pkg/server"
	"github.com/aleksaelezovic/shaclview/pkg/shacl"
	"github.com/aleksaelezovic/shaclview/pkg/store"
	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var (
	resolveCmd = &cobra.Command{
		Use:   "resolve",
		Short: "Print the ranked property values of a node",
		Long: `Print the ranked property values of a node.

Without --focus every targeted node is resolved. With --shapes and --data the
files are loaded into a temporary in-memory store instead of the database.`,
		Args: cobra.NoArgs,
	}

	resolveFocus  = resolveCmd.Flags().String("focus", "", "Focus node IRI, <IRI> or _:blank")
	resolveShapes = resolveCmd.Flags().StringSlice("shapes", nil, "Shapes graph files")
	resolveData   = resolveCmd.Flags().StringSlice("data", nil, "Data graph files")
)

var (
	labelColor = color.New(color.FgHiWhite, color.Bold)
	shapeColor = color.New(color.FgGreen)
	dataColor  = color.New(color.FgYellow)
	pathColor  = color.New(color.FgCyan)
	dimColor   = color.New(color.Faint)
)

func init() {
	resolveCmd.RunE = runResolve
}

func runResolve(cmd *cobra.Command, args []string) error {
	var (
		ts  *store.TripleStore
		err error
	)
	if len(*resolveShapes) > 0 || len(*resolveData) > 0 {
		ts, err = openMemoryStore()
		if err != nil {
			return err
		}
		defer ts.Close()
		if err = loadFiles(store.ShapesGraph(ts), *resolveShapes); err != nil {
			return err
		}
		if err = loadFiles(store.DataGraph(ts), *resolveData); err != nil {
			return err
		}
	} else {
		ts, err = openStore()
		if err != nil {
			return err
		}
		defer ts.Close()
	}

	return resolveAndPrint(cmd.OutOrStdout(), ts, server.ParseTerm(*resolveFocus))
}

func loadFiles(view *store.GraphView, files []string) error {
	for _, file := range files {
		quads, err := readRDFFile(file)
		if err != nil {
			return err
		}
		if err = view.Add(quads); err != nil {
			return err
		}
	}
	return nil
}

func resolveAndPrint(out io.Writer, ts *store.TripleStore, focus rdf.Term) error {
	resolver, err := shacl.NewResolver(store.ShapesGraph(ts), store.DataGraph(ts), resolverOptions()...)
	if err != nil {
		return err
	}
	defer resolver.Close()

	values, err := resolver.Resolve(focus)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		dimColor.Fprintln(out, "No property values")
		return nil
	}

	// Ranking is global; print it per focus node in order of first appearance
	groups := lo.GroupBy(values, func(pv shacl.PropertyValue) rdf.TermKey { return rdf.KeyOf(pv.Focus) })
	foci := lo.UniqBy(values, func(pv shacl.PropertyValue) rdf.TermKey { return rdf.KeyOf(pv.Focus) })
	for _, first := range foci {
		if first.Focus != nil {
			fmt.Fprintf(out, "%s\n", first.Focus)
		}
		for _, pv := range groups[rdf.KeyOf(first.Focus)] {
			printValue(out, resolver.Label(pv), pv)
		}
	}
	return nil
}

func printValue(out io.Writer, label string, pv shacl.PropertyValue) {
	labelColor.Fprintf(out, "  %s", label)
	if pv.Type == shacl.ValueTypeShape {
		shapeColor.Fprintf(out, " [%s]", pv.Type)
	} else {
		dataColor.Fprintf(out, " [%s]", pv.Type)
	}
	if card := cardinality(pv); card != "" {
		dimColor.Fprintf(out, " %s", card)
	}
	fmt.Fprintln(out)

	path := make([]string, len(pv.Path))
	for i, term := range pv.Path {
		path[i] = term.String()
	}
	pathColor.Fprintf(out, "    %s\n", strings.Join(path, " "))

	for _, value := range pv.ValueNodes {
		fmt.Fprintf(out, "    - %s\n", value.Object)
	}
}

func cardinality(pv shacl.PropertyValue) string {
	minCount, hasMin := pv.MinCount()
	maxCount, hasMax := pv.MaxCount()
	switch {
	case hasMin && hasMax:
		return fmt.Sprintf("%d..%d", minCount, maxCount)
	case hasMin:
		return fmt.Sprintf("%d..*", minCount)
	case hasMax:
		return fmt.Sprintf("0..%d", maxCount)
	default:
		return ""
	}
}
