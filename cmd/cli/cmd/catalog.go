package cmd

import (
	"github.com/spf13/cobra"

	"ticket-settlement/core/catalog"
	"ticket-settlement/core/ui"
)

func newCatalogCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the fee schedule and tier table",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := root.formatter(format)
			if err != nil {
				return err
			}
			eng, err := root.engine()
			if err != nil {
				return err
			}
			return formatter.Catalog(cmd.OutOrStdout(), eng.Catalog())
		},
	}
	showCmd.Flags().StringVarP(&format, "format", "f", "", "output format (cli, json)")

	validateCmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a catalog file without using it",
		Long: `Parse and validate an HCL catalog. With no argument the configured
catalog is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.cfg.Catalog.Path
			if len(args) > 0 {
				path = args[0]
			}
			cat, err := catalog.Load(path)
			if err != nil {
				return err
			}
			uw := ui.NewWriter(cmd.OutOrStdout(), root.cfg.Output.NoColor)
			uw.Success("%s: %d tiers, processor rate %s%%", cat.Source, len(cat.Tiers.Order()), cat.Fees.RatePercent.String())
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Print the active catalog as HCL",
		Long: `Print the active catalog as HCL. The output is a valid catalog file,
so the built-in catalog can be exported, edited and loaded with --catalog.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(root.cfg.Catalog.Path)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(cat.HCL())
			return err
		},
	}

	cmd.AddCommand(showCmd, validateCmd, exportCmd)
	return cmd
}
