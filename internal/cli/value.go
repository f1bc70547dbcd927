package cli

import (
	"github.com/spf13/cobra"

	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/simaogato/assetval-backend/internal/usecase/market"
	"github.com/simaogato/assetval-backend/internal/usecase/portfolio"
)

// ValueOptions holds flags for the value command.
type ValueOptions struct {
	Asset  string
	Method string
}

// NewValueCommand creates the value command.
func NewValueCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValueOptions{}

	cmd := &cobra.Command{
		Use:   "value <assets.yaml>",
		Short: "Value each asset at the as-of date",
		Long: `Value each asset declared in the file with its selected (or overridden)
depreciation method. With --market, forward-looking figures are adjusted
for the given market conditions.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValue(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Asset, "asset", "a", "", "only value the asset with this name")
	cmd.Flags().StringVar(&opts.Method, "method", "", "force a depreciation method for every asset")

	return cmd
}

func runValue(rootOpts *RootOptions, opts *ValueOptions, path string, cmd *cobra.Command) error {
	s, err := newSession(rootOpts)
	if err != nil {
		return err
	}

	assets, err := LoadAssets(path)
	if err != nil {
		return err
	}

	if opts.Asset != "" {
		asset, err := findAsset(assets, opts.Asset)
		if err != nil {
			return err
		}
		assets = []domain.AssetSnapshot{asset}
	}

	if opts.Method != "" {
		method, err := parseMethodFlag(opts.Method)
		if err != nil {
			return err
		}
		for i := range assets {
			assets[i].Method = method
		}
	}

	summary, err := portfolio.NewAggregator(s.engine, market.NewAdjuster()).Calculate(assets, s.asOf, s.conditions)
	if err != nil {
		return err
	}

	return s.renderer.Valuations(cmd.OutOrStdout(), summary.Valuations)
}
