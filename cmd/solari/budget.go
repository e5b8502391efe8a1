package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/solari/internal/cli"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage monthly category budgets",
		Long:  `Set and list per-category spending limits for a calendar month.`,
	}

	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(listBudgetsCmd())

	return cmd
}

func setBudgetCmd() *cobra.Command {
	var (
		amount   string
		category int
		year     int
		month    int
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set a budget",
		Long:  `Set the spending limit for one category in one month. Setting the same month again overwrites the amount.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}

			if err := s.store.SetBudget(category, year, month, value); err != nil {
				return err
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("budget set for category %d in %04d-%02d", category, year, month)))
			return nil
		},
	}

	cmd.Flags().IntVar(&category, "category", 0, "category id")
	cmd.Flags().IntVar(&year, "year", 0, "budget year")
	cmd.Flags().IntVar(&month, "month", 0, "budget month (1-12)")
	cmd.Flags().StringVar(&amount, "amount", "", "non-negative limit")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("month")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func listBudgetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all budgets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			cli.RenderBudgets(os.Stdout, s.store, s.store.BudgetEntries())
			return nil
		},
	}
}
