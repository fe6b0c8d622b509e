package cmd

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"ticket-settlement/core/fees"
	"ticket-settlement/core/money"
	"ticket-settlement/internal/errors"
)

type quoteOptions struct {
	unitPrice  int64
	quantity   int64
	commission string
	strategy   string
	format     string
}

func newQuoteCmd(root *rootOptions) *cobra.Command {
	opts := &quoteOptions{}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute the payment breakdown for a checkout",
		Long: `Compute subtotal, processor fee, platform commission and buyer total
for a checkout. Amounts are in minor currency units (kobo, cents).

Strategies:
  buyer_pays      the buyer covers the whole processor fee (default)
  split_fee       buyer and organiser share the processor fee
  organiser_pays  the buyer pays the subtotal only

Examples:
  ticket-settle quote --unit-price 5000 --quantity 2 --commission 10
  ticket-settle quote --unit-price 10000 --strategy split_fee --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd, root, opts)
		},
	}

	cmd.Flags().Int64VarP(&opts.unitPrice, "unit-price", "p", 0, "ticket price in minor units [REQUIRED]")
	cmd.Flags().Int64VarP(&opts.quantity, "quantity", "q", 1, "number of tickets")
	cmd.Flags().StringVarP(&opts.commission, "commission", "c", "0", "platform commission rate in percent (0-100)")
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "", "processing fee strategy (buyer_pays, split_fee, organiser_pays)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format (cli, json)")
	_ = cmd.MarkFlagRequired("unit-price")

	return cmd
}

func runQuote(cmd *cobra.Command, root *rootOptions, opts *quoteOptions) error {
	rate, err := decimal.NewFromString(opts.commission)
	if err != nil {
		return errors.Wrap(errors.TypeInvalidInput, "commission rate is not a number", err).
			WithContext("commission", opts.commission)
	}
	strategy, err := fees.ParseStrategy(opts.strategy)
	if err != nil {
		return err
	}

	formatter, err := root.formatter(opts.format)
	if err != nil {
		return err
	}
	eng, err := root.engine()
	if err != nil {
		return err
	}

	q, err := eng.Quote(fees.PaymentInput{
		UnitPrice:             money.Money(opts.unitPrice),
		Quantity:              opts.quantity,
		CommissionRatePercent: rate,
		Strategy:              strategy,
	})
	if err != nil {
		return err
	}
	return formatter.Quote(cmd.OutOrStdout(), q)
}
