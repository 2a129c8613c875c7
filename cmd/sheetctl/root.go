package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/geocoder89/lentpath/internal/config"
	"github.com/geocoder89/lentpath/internal/sheets"
)

// app is shared by every subcommand. Configuration is read lazily so that
// hash-password works without any sheets settings.
type app struct {
	cfg     config.Config
	loaded  bool
	timeout time.Duration
}

func (a *app) config() config.Config {
	if !a.loaded {
		a.cfg = config.Load()
		a.loaded = true
	}
	return a.cfg
}

func (a *app) gateway() (sheets.Gateway, error) {
	g, err := sheets.FromConfig(a.config(), nil)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (a *app) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	d := a.timeout
	if d <= 0 {
		d = a.config().SheetsTimeout
	}
	return context.WithTimeout(ctx, d)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "sheetctl",
		Short:         "Inspect the Lent journey workbooks",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "Deadline for each workbook call (default: $SHEETS_TIMEOUT)")

	root.AddCommand(
		newCheckCmd(a),
		newTodayCmd(a),
		newHashPasswordCmd(),
	)

	return root
}
