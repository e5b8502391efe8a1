package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/solari/internal/cli"
	"github.com/Veraticus/solari/internal/model"
	"github.com/Veraticus/solari/internal/report"
)

func searchCmd() *cobra.Command {
	var (
		fromStr  string
		toStr    string
		category string
		note     string
		minStr   string
		maxStr   string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search transactions",
		Long: `Find transactions matching every given criterion. Date bounds are
inclusive; category and note match case-insensitive substrings; an amount
bound of zero or less means no bound on that side.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			c := report.Criteria{Category: category, Note: note}
			if fromStr != "" {
				d, parseErr := model.ParseDate(fromStr)
				if parseErr != nil {
					return fmt.Errorf("invalid --from date: %w", parseErr)
				}
				c.From = &d
			}
			if toStr != "" {
				d, parseErr := model.ParseDate(toStr)
				if parseErr != nil {
					return fmt.Errorf("invalid --to date: %w", parseErr)
				}
				c.To = &d
			}
			if minStr != "" {
				v, parseErr := decimal.NewFromString(minStr)
				if parseErr != nil {
					return fmt.Errorf("invalid --min amount %q: %w", minStr, parseErr)
				}
				c.MinAmount = v
			}
			if maxStr != "" {
				v, parseErr := decimal.NewFromString(maxStr)
				if parseErr != nil {
					return fmt.Errorf("invalid --max amount %q: %w", maxStr, parseErr)
				}
				c.MaxAmount = v
			}

			cli.RenderTransactions(os.Stdout, s.store, s.reports.Search(c))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "earliest date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "latest date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&category, "category", "", "category name substring")
	cmd.Flags().StringVar(&note, "note", "", "note substring")
	cmd.Flags().StringVar(&minStr, "min", "", "minimum amount")
	cmd.Flags().StringVar(&maxStr, "max", "", "maximum amount")

	return cmd
}
