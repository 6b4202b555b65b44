package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"osrs_profit/internal/application"
	"osrs_profit/pkg/logx"
)

func init() { //nolint:gochecknoinits
	var force bool

	refresh := &cobra.Command{
		Use:   "refresh-prices",
		Short: "Fetch the price feed once and evaluate the price rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApplication(cmd, func(ctx context.Context, app *application.Application) error {
				res, err := app.PriceCache(ctx).Refresh(ctx, force)
				if err != nil {
					return fmt.Errorf("cache.Refresh: %w", err)
				}

				logger(ctx).Info("prices refreshed",
					slog.Int("fetched", res.Fetched),
					slog.Int("written", res.Written),
					slog.Int("derived", res.Derived),
					slog.Int("rules-skipped", res.RulesSkipped),
				)

				return nil
			})
		},
	}
	refresh.Flags().BoolVar(&force, "force", false, "write every fetched entry, not only the changed ones")

	migrate := &cobra.Command{
		Use:   "migrate-prices",
		Short: "Copy the legacy JSON price document into the price hash",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApplication(cmd, func(ctx context.Context, app *application.Application) error {
				n, err := app.PriceCache(ctx).MigrateLegacy(ctx)
				if err != nil {
					return fmt.Errorf("cache.MigrateLegacy: %w", err)
				}

				logger(ctx).Info("legacy prices migrated", slog.Int(logx.FieldCount, n))

				return nil
			})
		},
	}

	RootCmd.AddCommand(refresh, migrate)
}
