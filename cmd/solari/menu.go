package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/solari/internal/cli"
)

func menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Open the interactive menu",
		Long:  `Run the numbered menu session against the configured ledger. Plain "solari" does the same thing.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenu(cmd.Context())
		},
	}
}

func runMenu(ctx context.Context) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	menu := cli.NewMenu(s.store, s.reports, s.archive, os.Stdin, os.Stdout, s.settings.ExportPath)
	return menu.Run(ctx)
}
