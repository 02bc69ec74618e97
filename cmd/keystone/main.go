package main

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Mohammedazif/keystone-map3d-sub002/internal/config"
	"github.com/Mohammedazif/keystone-map3d-sub002/internal/logging"
)

var (
	verbose    bool
	configPath string
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "keystone",
		Short:        "Generate building footprints for a plot",
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("KEYSTONE_CONFIG"), "TOML configuration file")

	root.AddCommand(generateCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(typologiesCmd())
	root.AddCommand(serveCmd())
	return root
}

// setup loads the configuration and attaches a logger to the command
// context.
func setup(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	level := logging.ParseLevel(cfg.Log.Level)
	if verbose {
		level = charmlog.DebugLevel
	}
	cmd.SetContext(logging.WithLogger(cmd.Context(), logging.New(os.Stderr, level)))
	return cfg, nil
}

func generateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate [site-file]",
		Short: "Generate footprints for a site and write them as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				opts.seed = &opts.seedValue
			}
			return runGenerate(cmd.Context(), cfg, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().Uint64Var(&opts.seedValue, "seed", 0, "override the site seed")
	cmd.Flags().BoolVar(&opts.geojson, "geojson", false, "write only the feature collection")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print a summary to stderr")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the result cache")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [site-file]",
		Short: "Validate a site file without generating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := setup(cmd); err != nil {
				return err
			}
			return runValidate(cmd.OutOrStdout(), args[0])
		},
	}
}

func typologiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "typologies",
		Short: "List the typologies and their default parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printTypologies(cmd.OutOrStdout())
		},
	}
}

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP server port (overrides config)")
	return cmd
}
