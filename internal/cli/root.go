package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/simaogato/assetval-backend/internal/report"
	"github.com/simaogato/assetval-backend/internal/usecase/depreciation"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format     string // "text" | "json"
	Currency   string // ISO 4217 code used by the text renderer
	AsOf       string // YYYY-MM-DD or RFC 3339, empty means now
	MarketFile string // optional market conditions YAML

	// now is replaced in tests
	now func() time.Time
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{report.FormatText, report.FormatJSON}

// NewRootCommand creates the root command for the assetval CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{now: time.Now}

	cmd := &cobra.Command{
		Use:   "assetval",
		Short: "Asset depreciation and valuation",
		Long: `Compute current book values, depreciation schedules and portfolio summaries
for the assets declared in a YAML file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", report.FormatText, "output format (text|json)")
	cmd.PersistentFlags().StringVar(&opts.Currency, "currency", report.DefaultCurrency, "currency code for text output")
	cmd.PersistentFlags().StringVar(&opts.AsOf, "as-of", "", "valuation date (YYYY-MM-DD, default today)")
	cmd.PersistentFlags().StringVarP(&opts.MarketFile, "market", "m", "", "market conditions YAML file")

	cmd.AddCommand(NewValueCommand(opts))
	cmd.AddCommand(NewScheduleCommand(opts))
	cmd.AddCommand(NewPortfolioCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// session is the per-invocation state shared by every subcommand
type session struct {
	engine     *depreciation.Engine
	renderer   *report.Renderer
	asOf       time.Time
	conditions *domain.MarketConditions
}

func newSession(opts *RootOptions) (*session, error) {
	renderer, err := report.NewRenderer(opts.Format, opts.Currency)
	if err != nil {
		return nil, err
	}

	now := opts.now
	if now == nil {
		now = time.Now
	}
	asOf, err := domain.ParseAsOf(opts.AsOf, now())
	if err != nil {
		return nil, err
	}

	var conditions *domain.MarketConditions
	if opts.MarketFile != "" {
		if conditions, err = LoadMarket(opts.MarketFile); err != nil {
			return nil, err
		}
	}

	return &session{
		engine:     depreciation.NewEngine(domain.DefaultEngineConfig()),
		renderer:   renderer,
		asOf:       asOf,
		conditions: conditions,
	}, nil
}

// parseMethodFlag accepts the same method spellings as asset files
func parseMethodFlag(raw string) (domain.Method, error) {
	method, ok := domain.ParseMethod(raw)
	if !ok {
		return "", fmt.Errorf("unknown method %q: must be one of straight_line, declining_balance, double_declining_balance, auto", raw)
	}
	return method, nil
}

// findAsset returns the asset with the given name, or the only asset when name is empty
func findAsset(assets []domain.AssetSnapshot, name string) (domain.AssetSnapshot, error) {
	if name == "" {
		if len(assets) == 1 {
			return assets[0], nil
		}
		return domain.AssetSnapshot{}, fmt.Errorf("file declares %d assets, select one with --asset", len(assets))
	}

	for _, asset := range assets {
		if asset.Name == name {
			return asset, nil
		}
	}
	return domain.AssetSnapshot{}, fmt.Errorf("asset %q not found", name)
}
