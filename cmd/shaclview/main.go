package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aleksaelezovic/shaclview/internal/encoding"
	"github.com/aleksaelezovic/shaclview/internal/storage"
	"github.com/aleksaelezovic/shaclview/internal/ui"
	"github.com/aleksaelezovic/shaclview/pkg/shacl"
	"github.com/aleksaelezovic/shaclview/pkg/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	root = &cobra.Command{
		Use:           "shaclview",
		Short:         "Resolve SHACL property values of RDF nodes",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	loglevel     = root.PersistentFlags().String("loglevel", "info", "Console log level (trace, debug, info, warn, error)")
	datapath     = root.PersistentFlags().String("datapath", "data", "Folder holding the database and configuration.yaml")
	languages    = root.PersistentFlags().StringSlice("lang", []string{"en", "nl"}, "Label language preference")
	maxPathDepth = root.PersistentFlags().Int("max-path-depth", shacl.DefaultMaxPathDepth, "Maximum number of terms in a property path")
	cacheSize    = root.PersistentFlags().Int64("cache", 1024, "Number of resolved nodes to cache (0 disables)")

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Show shaclview version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "shaclview %s\n", version)
			return err
		},
	}
)

func init() {
	cobra.OnInitialize(func() {
		loadConfiguration(root)
	})

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return ui.SetLevel(*loglevel)
	}

	root.AddCommand(versionCmd, loadCmd, resolveCmd, serveCmd, demoCmd)
}

func main() {
	if err := root.Execute(); err != nil {
		ui.Logger().Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// loadConfiguration reads SHACLVIEW_* environment variables and
// configuration.yaml in the data path into flags the user did not set
func loadConfiguration(cmd *cobra.Command) {
	viper.SetEnvPrefix("SHACLVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	log := ui.Logger()
	configfilename := filepath.Join(*datapath, "configuration.yaml")
	viper.SetConfigFile(configfilename)
	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Msgf("Using configuration file: %v", viper.ConfigFileUsed())
	} else {
		log.Debug().Msgf("No settings loaded from %v: %v", configfilename, err)
	}

	bindFlags(cmd)
}

func bindFlags(cmd *cobra.Command) {
	apply := func(f *pflag.Flag) {
		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && viper.IsSet(f.Name) {
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				_ = sv.Replace(viper.GetStringSlice(f.Name))
			} else {
				_ = f.Value.Set(viper.GetString(f.Name))
			}
		}
	}
	cmd.PersistentFlags().VisitAll(apply)
	cmd.Flags().VisitAll(apply)
	for _, subCommand := range cmd.Commands() {
		bindFlags(subCommand)
	}
}

// resolverOptions collects the resolver settings from the flags
func resolverOptions() []shacl.Option {
	return []shacl.Option{
		shacl.WithLogger(*ui.Logger()),
		shacl.WithMaxPathDepth(*maxPathDepth),
		shacl.WithLanguages(*languages...),
		shacl.WithCache(*cacheSize),
	}
}

// openStore opens the database in the data path
func openStore() (*store.TripleStore, error) {
	if err := os.MkdirAll(*datapath, 0o750); err != nil {
		return nil, fmt.Errorf("could not create data folder %v: %w", *datapath, err)
	}
	backend, err := storage.NewBadgerStorage(filepath.Join(*datapath, "db"), storage.WithLogger(*ui.Logger()))
	if err != nil {
		return nil, err
	}
	return store.NewTripleStore(backend, encoding.NewTermEncoder(), encoding.NewTermDecoder()), nil
}

// openMemoryStore opens a throwaway in-memory database
func openMemoryStore() (*store.TripleStore, error) {
	backend, err := storage.NewMemoryStorage(storage.WithLogger(*ui.Logger()))
	if err != nil {
		return nil, err
	}
	return store.NewTripleStore(backend, encoding.NewTermEncoder(), encoding.NewTermDecoder()), nil
}
