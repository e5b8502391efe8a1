package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/solari/internal/cli"
	"github.com/Veraticus/solari/internal/exchange"
	"github.com/Veraticus/solari/internal/ofx"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Import transactions from CSV",
		Long: `Read transactions from a CSV file in the export shape. The id column is
ignored; category names are matched case-insensitively and created when
missing; rows with unparseable dates are skipped and reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			rows, err := countDataRows(f)
			if err != nil {
				return err
			}

			bar := cli.NewProgressBar(os.Stderr, rows, "importing")
			result, err := exchange.Import(f, s.store, func() { _ = bar.Add(1) })
			if err != nil {
				return err
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("imported %d transactions (%d new categories)",
				result.Imported, result.CategoriesCreated)))
			if len(result.SkippedLines) > 0 {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("skipped lines with bad dates: %v", result.SkippedLines)))
			}
			return nil
		},
	}
}

// countDataRows sizes the progress bar: lines after the header. The file
// is rewound afterwards so the import reads it from the top.
func countDataRows(f *os.File) (int, error) {
	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		n++
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("failed to read import: %w", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return 0, fmt.Errorf("failed to rewind import: %w", err)
	}
	if n > 0 {
		n--
	}
	return n, nil
}

func importOFXCmd() *cobra.Command {
	var (
		category string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "import-ofx <files...>",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX statements exported from a bank.
Debits become expenses and credits become income; every transaction lands
in the category named by --category, created if missing.

Examples:
  solari import-ofx ~/Downloads/checking_jan.qfx
  solari import-ofx --category "Card" ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var files []string
			for _, pattern := range args {
				matches, err := filepath.Glob(pattern)
				if err != nil {
					return fmt.Errorf("invalid pattern %s: %w", pattern, err)
				}
				if len(matches) == 0 {
					if _, err := os.Stat(pattern); err == nil {
						files = append(files, pattern)
					} else {
						slog.Warn("no files match pattern", "pattern", pattern)
					}
					continue
				}
				files = append(files, matches...)
			}
			if len(files) == 0 {
				return fmt.Errorf("no files found to import")
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			parser := ofx.NewParser()
			imported := 0
			for _, path := range files {
				entries, err := parseOFXFile(ctx, parser, path)
				if err != nil {
					slog.Error("failed to parse OFX file", "file", path, "error", err)
					continue
				}
				if len(entries) == 0 {
					slog.Warn("no transactions in file", "file", filepath.Base(path))
					continue
				}
				if dryRun {
					fmt.Println(cli.FormatInfo(fmt.Sprintf("%s: %d transactions", filepath.Base(path), len(entries))))
					imported += len(entries)
					continue
				}
				for _, e := range entries {
					s.store.InsertImported(e.Date, e.Kind, e.Amount, category, e.Note)
				}
				imported += len(entries)
			}

			if dryRun {
				fmt.Println(cli.FormatInfo(fmt.Sprintf("dry run: would import %d transactions", imported)))
				return nil
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("imported %d transactions into %q", imported, category)))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "Imported", "category for every imported transaction")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "parse and report without saving")

	return cmd
}

func parseOFXFile(ctx context.Context, parser *ofx.Parser, path string) ([]ofx.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return parser.ParseFile(ctx, f)
}
