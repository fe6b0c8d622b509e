// Package cmd provides the CLI commands for ticket-settle.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ticket-settlement/core/catalog"
	"ticket-settlement/core/engine"
	"ticket-settlement/core/output"
	"ticket-settlement/internal/config"
	"ticket-settlement/internal/logging"
)

// Version is stamped at build time with -ldflags.
var Version = "0.1.0"

// rootOptions holds state shared by every subcommand of one invocation
type rootOptions struct {
	cfgFile     string
	catalogPath string
	verbose     bool

	cfg *config.Config
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "ticket-settle",
		Short: "Price ticket checkouts and resolve plan upgrades",
		Long: `ticket-settle computes the money breakdown of a ticket checkout
(subtotal, processor fee, platform commission, buyer total) and tells
an organiser which subscription tier unlocks a gated feature.

Examples:
  ticket-settle quote --unit-price 5000 --quantity 2 --commission 10
  ticket-settle quote --unit-price 10000 --strategy split_fee --format json
  ticket-settle upgrade --tier Basic --feature collaborators --usage 1
  ticket-settle catalog show`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.ticket-settle.json)")
	rootCmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "HCL catalog file (overrides config and "+config.EnvCatalog+")")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newQuoteCmd(opts))
	rootCmd.AddCommand(newUpgradeCmd(opts))
	rootCmd.AddCommand(newCatalogCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return NewRootCmd().Execute()
}

func (o *rootOptions) init() error {
	config.LoadEnv()

	path := o.cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyEnv()
	if o.catalogPath != "" {
		cfg.Catalog.Path = o.catalogPath
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	config.Set(cfg)
	o.cfg = cfg
	return nil
}

// engine loads the configured catalog and builds an engine over it
func (o *rootOptions) engine() (*engine.Engine, error) {
	cat, err := catalog.Load(o.cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	return engine.New(cat, engine.WithLogger(logging.Logger))
}

// formatter resolves --format, falling back to the configured default
func (o *rootOptions) formatter(flag string) (output.Formatter, error) {
	if flag == "" {
		flag = o.cfg.Output.DefaultFormat
	}
	format, err := output.ParseFormat(flag)
	if err != nil {
		return nil, err
	}
	return output.New(format, o.cfg.Output.NoColor)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ticket-settle version %s\n", Version)
		},
	}
}
