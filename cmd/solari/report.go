package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/solari/internal/cli"
)

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <year> <month>",
		Short: "Show the combined monthly report",
		Long: `Print the month's income/expense summary, the net spend of every
category, and budget-versus-actual for every category with a budget set
for that month.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year: %w", err)
			}
			month, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid month: %w", err)
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("month must be between 1 and 12, got %d", month)
			}

			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			cli.RenderMonthReport(os.Stdout, s.reports, year, month)
			return nil
		},
	}
}
