package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aleksaelezovic/shaclview/internal/ui"
	"github.com/aleksaelezovic/shaclview/pkg/rdf"
	"github.com/aleksaelezovic/shaclview/pkg/server"
	"github.com/aleksaelezovic/shaclview/pkg/store"
	"github.com/spf13/cobra"
)

var (
	loadCmd = &cobra.Command{
		Use:   "load FILE...",
		Short: "Load RDF files into the shapes or data graph",
		Args:  cobra.MinimumNArgs(1),
	}

	loadGraph   = loadCmd.Flags().String("graph", "data", "Target graph (shapes or data)")
	loadReplace = loadCmd.Flags().Bool("replace", false, "Empty the graph before loading")
)

func init() {
	loadCmd.RunE = runLoad
}

func runLoad(cmd *cobra.Command, args []string) error {
	ts, err := openStore()
	if err != nil {
		return err
	}
	defer ts.Close()

	view, err := namedGraph(ts, *loadGraph)
	if err != nil {
		return err
	}

	var quads []*rdf.Quad
	for _, file := range args {
		fileQuads, err := readRDFFile(file)
		if err != nil {
			return err
		}
		quads = append(quads, fileQuads...)
	}

	if *loadReplace {
		err = view.Replace(quads)
	} else {
		err = view.Add(quads)
	}
	if err != nil {
		return fmt.Errorf("failed to store quads: %w", err)
	}

	count, err := view.Count()
	if err != nil {
		return err
	}
	ui.Logger().Info().Int("loaded", len(quads)).Int64("total", count).Msgf("Loaded %d files into %s graph", len(args), *loadGraph)
	return nil
}

// readRDFFile parses a file by its extension, scoping its blank nodes to the file
func readRDFFile(name string) ([]*rdf.Quad, error) {
	parser, err := rdf.NewParser(rdf.ContentTypeForFile(name))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Clean(name))
	if err != nil {
		return nil, fmt.Errorf("could not open %v: %w", name, err)
	}
	defer f.Close()

	quads, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("could not parse %v: %w", name, err)
	}
	ui.Logger().Debug().Str("file", name).Int("quads", len(quads)).Msg("Parsed file")
	return rdf.ScopeBlankNodes(quads, server.UploadScope(time.Now())), nil
}

func namedGraph(ts *store.TripleStore, name string) (*store.GraphView, error) {
	switch name {
	case "shapes":
		return store.ShapesGraph(ts), nil
	case "data":
		return store.DataGraph(ts), nil
	default:
		return nil, fmt.Errorf("unknown graph %q, use shapes or data", name)
	}
}
