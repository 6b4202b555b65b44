// Package cli implements the commands of the service binary.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"osrs_profit/internal/application"
	"osrs_profit/internal/config"
	"osrs_profit/pkg/contextx"
	"osrs_profit/pkg/logx"
)

// RootCmd runs the service when no subcommand is given.
var RootCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:           "osrs-profit",
	Short:         "Price cache, profit ranking and profit history service",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

type commandFunc func(ctx context.Context, app *application.Application) error

// withApplication loads the configuration, puts the configured logger into
// the context and hands a ready application to fn.
func withApplication(cmd *cobra.Command, fn commandFunc) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	log := logx.NewLogger(os.Stdout, cfg.App.LogFormat, cfg.App.LogLevel).With(
		logx.FieldAppName, cfg.App.Name,
		logx.FieldAppVersion, cfg.App.Version,
	)

	ctx := contextx.WithLogger(cmd.Context(), log)

	app := application.New(cfg)
	defer app.Close(ctx)

	if err := fn(ctx, app); err != nil {
		log.Error(cmd.Name()+" failed", logx.Error(err))
		return err
	}

	return nil
}
