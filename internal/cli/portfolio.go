package cli

import (
	"github.com/spf13/cobra"

	"github.com/simaogato/assetval-backend/internal/usecase/market"
	"github.com/simaogato/assetval-backend/internal/usecase/portfolio"
)

// NewPortfolioCommand creates the portfolio command.
func NewPortfolioCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "portfolio <assets.yaml>",
		Short:        "Summarize every asset in the file as one portfolio",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(rootOpts)
			if err != nil {
				return err
			}

			assets, err := LoadAssets(args[0])
			if err != nil {
				return err
			}

			summary, err := portfolio.NewAggregator(s.engine, market.NewAdjuster()).Calculate(assets, s.asOf, s.conditions)
			if err != nil {
				return err
			}

			return s.renderer.Portfolio(cmd.OutOrStdout(), summary)
		},
	}
}
