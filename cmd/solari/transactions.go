package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/solari/internal/cli"
	"github.com/Veraticus/solari/internal/ledger"
	"github.com/Veraticus/solari/internal/model"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Manage ledger transactions",
		Long:    `Record, list, edit, and delete income and expense transactions.`,
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(listTxCmd())
	cmd.AddCommand(editTxCmd())
	cmd.AddCommand(deleteTxCmd())

	return cmd
}

func addTxCmd() *cobra.Command {
	var (
		date     string
		amount   string
		note     string
		category int
		income   bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Long:  `Record one expense (default) or income transaction and save the ledger.`,
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
			kind := model.Expense
			if income {
				kind = model.Income
			}

			tx, err := s.store.AddTransaction(date, kind, value, category, note)
			if err != nil {
				return err
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("recorded transaction #%d", tx.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "transaction date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&amount, "amount", "", "positive amount")
	cmd.Flags().IntVar(&category, "category", 0, "category id")
	cmd.Flags().BoolVar(&income, "income", false, "record income instead of an expense")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func listTxCmd() *cobra.Command {
	var fromStr, toStr string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long:  `List transactions in insertion order, optionally restricted to a date range (inclusive on both ends).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			var f ledger.Filter
			if fromStr != "" {
				d, parseErr := model.ParseDate(fromStr)
				if parseErr != nil {
					return fmt.Errorf("invalid --from date: %w", parseErr)
				}
				f.From = &d
			}
			if toStr != "" {
				d, parseErr := model.ParseDate(toStr)
				if parseErr != nil {
					return fmt.Errorf("invalid --to date: %w", parseErr)
				}
				f.To = &d
			}

			cli.RenderTransactions(os.Stdout, s.store, s.store.Transactions(f))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "earliest date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "latest date to include (YYYY-MM-DD)")

	return cmd
}

func editTxCmd() *cobra.Command {
	var (
		date     string
		kindStr  string
		amount   string
		note     string
		category int
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a transaction",
		Long:  `Change individual fields of a transaction. Omitted flags keep their current values.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid transaction id: %w", err)
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			var edit ledger.TransactionEdit
			if cmd.Flags().Changed("date") {
				edit.Date = &date
			}
			if cmd.Flags().Changed("kind") {
				kind, parseErr := model.ParseKind(kindStr)
				if parseErr != nil {
					return parseErr
				}
				edit.Kind = &kind
			}
			if cmd.Flags().Changed("amount") {
				value, parseErr := decimal.NewFromString(amount)
				if parseErr != nil {
					return fmt.Errorf("invalid amount %q: %w", amount, parseErr)
				}
				edit.Amount = &value
			}
			if cmd.Flags().Changed("category") {
				edit.CategoryID = &category
			}
			if cmd.Flags().Changed("note") {
				edit.Note = &note
			}

			result, err := s.store.EditTransaction(id, edit)
			if err != nil {
				return err
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			if result.DateRejected {
				fmt.Println(cli.FormatWarning("date not changed (invalid)"))
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("updated transaction #%d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "new date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&kindStr, "kind", "", "new kind (expense, income)")
	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	cmd.Flags().IntVar(&category, "category", 0, "new category id")
	cmd.Flags().StringVar(&note, "note", "", "new note")

	return cmd
}

func deleteTxCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid transaction id: %w", err)
			}

			// Confirm deletion
			if !force {
				fmt.Printf("Are you sure you want to delete transaction %d? (y/N): ", id)
				var response string
				_, _ = fmt.Scanln(&response)
				if strings.ToLower(response) != "y" {
					fmt.Println("Deletion cancelled.")
					return nil
				}
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.store.RemoveTransaction(id); err != nil {
				return err
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("deleted transaction #%d", id)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
