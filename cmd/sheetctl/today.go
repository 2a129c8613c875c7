package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/geocoder89/lentpath/internal/daily"
	"github.com/geocoder89/lentpath/internal/domain/content"
	reposheets "github.com/geocoder89/lentpath/internal/repo/sheets"
)

func newTodayCmd(a *app) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Print the content entry of today, or of --date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.config()
			loc := cfg.Location()

			day := time.Now().In(loc)
			if date != "" {
				t, err := time.ParseInLocation(content.DateLayout, date, loc)
				if err != nil {
					return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", date)
				}
				day = t
			}

			g, err := a.gateway()
			if err != nil {
				return err
			}

			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			repo := reposheets.LoadContent(ctx, g, cfg.ContentSheet)
			if err := repo.LoadErr(); err != nil {
				return err
			}

			resolver := daily.NewResolver(repo, loc, nil)
			e, err := resolver.Resolve(day)
			if err != nil {
				return fmt.Errorf("%s: %w", daily.DateKey(day, loc), err)
			}

			printEntry(cmd, e)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to resolve, YYYY-MM-DD (default: today in $APP_TIMEZONE)")

	return cmd
}

func printEntry(cmd *cobra.Command, e content.Entry) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Parcours du Jour : %s\n", e.Date)
	fmt.Fprintf(out, "Jour:   %s\n", e.DayLabel)
	if e.HasImage() {
		fmt.Fprintf(out, "Image:  %s\n", e.ImageURL)
	}
	fmt.Fprintf(out, "\n%s\n\n%s\n\nEffort: %s\n", e.BioText, e.ScriptureQuote, e.DailyEffort)

	for _, col := range e.Missing {
		fmt.Fprintf(out, "warning: column %s is missing\n", col)
	}
}
