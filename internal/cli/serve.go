package cli

import (
	"context"

	"github.com/spf13/cobra"

	"osrs_profit/internal/application"
)

func init() { //nolint:gochecknoinits
	RootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the scheduled tasks",
		RunE:  runServe,
	})
}

func runServe(cmd *cobra.Command, _ []string) error {
	return withApplication(cmd, func(ctx context.Context, app *application.Application) error {
		logger(ctx).Info("application starting")

		if err := app.Serve(ctx); err != nil {
			return err
		}

		logger(ctx).Info("application stopped")

		return nil
	})
}
