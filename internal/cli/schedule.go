package cli

import (
	"github.com/spf13/cobra"

	"github.com/simaogato/assetval-backend/internal/usecase/market"
	"github.com/simaogato/assetval-backend/internal/usecase/schedule"
)

// ScheduleOptions holds flags for the schedule command.
type ScheduleOptions struct {
	Asset  string
	Method string
}

// NewScheduleCommand creates the schedule command.
func NewScheduleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScheduleOptions{}

	cmd := &cobra.Command{
		Use:   "schedule <assets.yaml>",
		Short: "Print the year-by-year depreciation schedule of one asset",
		Long: `Print one row per year of the asset's expected lifespan. Rows whose
year end falls after the as-of date are marked as projected.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Asset, "asset", "a", "", "asset name (required when the file declares several)")
	cmd.Flags().StringVar(&opts.Method, "method", "auto", "depreciation method (straight_line|declining_balance|double_declining_balance|auto)")

	return cmd
}

func runSchedule(rootOpts *RootOptions, opts *ScheduleOptions, path string, cmd *cobra.Command) error {
	method, err := parseMethodFlag(opts.Method)
	if err != nil {
		return err
	}

	s, err := newSession(rootOpts)
	if err != nil {
		return err
	}

	assets, err := LoadAssets(path)
	if err != nil {
		return err
	}

	asset, err := findAsset(assets, opts.Asset)
	if err != nil {
		return err
	}

	entries, err := schedule.NewGenerator(s.engine, market.NewAdjuster()).Generate(asset, method, s.asOf, s.conditions)
	if err != nil {
		return err
	}

	return s.renderer.Schedule(cmd.OutOrStdout(), entries)
}
