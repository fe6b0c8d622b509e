package cmd

import (
	"github.com/spf13/cobra"

	"ticket-settlement/core/entitlements"
	"ticket-settlement/internal/errors"
)

type upgradeOptions struct {
	tier    string
	feature string
	usage   int64
	strict  bool
	format  string
}

func newUpgradeCmd(root *rootOptions) *cobra.Command {
	opts := &upgradeOptions{}

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Resolve which tier unlocks a feature",
		Long: `Decide whether a feature is locked for an organiser's tier and, if so,
which higher tier unlocks it and at what monthly price.

Unknown tiers and features are reported as unrestricted unless --strict
is given.

Examples:
  ticket-settle upgrade --tier Basic --feature collaborators --usage 1
  ticket-settle upgrade --tier Standard --feature custom_branding`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpgrade(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.tier, "tier", "t", "", "current subscription tier [REQUIRED]")
	cmd.Flags().StringVar(&opts.feature, "feature", "", "feature key [REQUIRED]")
	cmd.Flags().Int64VarP(&opts.usage, "usage", "u", 0, "current usage of a quota feature")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on tiers and features missing from the catalog")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format (cli, json)")
	_ = cmd.MarkFlagRequired("tier")
	_ = cmd.MarkFlagRequired("feature")

	return cmd
}

func runUpgrade(cmd *cobra.Command, root *rootOptions, opts *upgradeOptions) error {
	formatter, err := root.formatter(opts.format)
	if err != nil {
		return err
	}
	eng, err := root.engine()
	if err != nil {
		return err
	}

	if opts.strict {
		if _, ok := entitlements.ParseFeature(opts.feature); !ok {
			return errors.UnknownConfiguration("feature", opts.feature)
		}
		if _, ok := eng.Catalog().Tiers.Rank(entitlements.Tier(opts.tier)); !ok {
			return errors.UnknownConfiguration("tier", opts.tier)
		}
	}

	var usage entitlements.UsageAccessor
	if cmd.Flags().Changed("usage") {
		n := opts.usage
		usage = entitlements.UsageFunc(func(entitlements.Feature) (int64, bool) { return n, true })
	}

	res := eng.Upgrade(opts.tier, opts.feature, usage)
	return formatter.Resolution(cmd.OutOrStdout(), res)
}
