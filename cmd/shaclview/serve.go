package main

import (
	"github.com/aleksaelezovic/shaclview/internal/ui"
	"github.com/aleksaelezovic/shaclview/pkg/server"
	"github.com/spf13/cobra"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve property values over HTTP",
		Args:  cobra.NoArgs,
	}

	serveAddr = serveCmd.Flags().String("addr", "localhost:8080", "Listen address")
)

func init() {
	serveCmd.RunE = runServe
}

func runServe(cmd *cobra.Command, args []string) error {
	ts, err := openStore()
	if err != nil {
		return err
	}
	defer ts.Close()

	s, err := server.NewServer(ts, *serveAddr, *ui.Logger(), resolverOptions()...)
	if err != nil {
		return err
	}
	defer s.Close()

	stats, err := s.Stats()
	if err != nil {
		return err
	}
	ui.Logger().Info().Int64("shapes", stats.ShapesQuads).Int64("data", stats.DataQuads).Msg("Opened database")

	return s.Start()
}
