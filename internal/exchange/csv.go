// Package exchange moves transactions across the CSV boundary. The line
// shape is fixed: id,date,type,amount,category,note with no quoting. On
// import the note is everything after the fifth comma, so commas in notes
// survive a round trip; ids are never reused, only reassigned.
package exchange

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/solari/internal/ledger"
	"github.com/Veraticus/solari/internal/model"
)

// Header is the first line of every export, and the line every import
// skips.
const Header = "id,date,type,amount,category,note"

// Books is the read surface exporting needs.
type Books interface {
	Transactions(f ledger.Filter) []model.Transaction
	GetCategory(id int) (model.Category, bool)
}

// Inserter is the single core operation importing drives.
type Inserter interface {
	InsertImported(date model.Date, kind model.Kind, amount decimal.Decimal, categoryName, note string) (model.Transaction, bool)
}

// ImportResult tallies one import run. SkippedLines holds the 1-based
// file line numbers of rows whose date failed to parse.
type ImportResult struct {
	SkippedLines      []int
	Imported          int
	CategoriesCreated int
}

// Export writes every transaction to w in ledger order and returns how
// many rows it wrote. A transaction whose category is gone renders as
// UNKNOWN rather than failing the export.
func Export(w io.Writer, books Books) (int, error) {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, Header)

	txns := books.Transactions(ledger.Filter{})
	for _, t := range txns {
		name := "UNKNOWN"
		if c, ok := books.GetCategory(t.CategoryID); ok {
			name = c.Name
		}
		fmt.Fprintf(bw, "%d,%s,%d,%s,%s,%s\n",
			t.ID, t.Date, int(t.Kind), t.Amount.StringFixed(2), name, t.Note)
	}

	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("failed to write export: %w", err)
	}
	return len(txns), nil
}

// Import reads rows in the exchange shape from r and inserts them through
// store. The id column is ignored. A row whose date fails the date
// contract is skipped and its line number recorded; a row with fewer than
// five fields is dropped silently; an unparseable amount imports as zero
// rather than failing the row. progress, when non-nil, runs once per
// stored row.
func Import(r io.Reader, store Inserter, progress func()) (ImportResult, error) {
	var res ImportResult

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		if line == 1 {
			// Header row, present or not, is never data.
			continue
		}
		text := strings.TrimSuffix(sc.Text(), "\r")
		parts := strings.SplitN(text, ",", 6)
		if len(parts) < 5 {
			continue
		}

		date, err := model.ParseDate(parts[1])
		if err != nil {
			res.SkippedLines = append(res.SkippedLines, line)
			continue
		}

		kind := model.Expense
		if v, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil && v == 1 {
			kind = model.Income
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(parts[3]))
		if err != nil {
			amount = decimal.Zero
		}

		note := ""
		if len(parts) == 6 {
			note = parts[5]
		}

		_, created := store.InsertImported(date, kind, amount, parts[4], note)
		res.Imported++
		if created {
			res.CategoriesCreated++
		}
		if progress != nil {
			progress()
		}
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("failed to read import: %w", err)
	}

	slog.Debug("imported transactions",
		"imported", res.Imported,
		"categories_created", res.CategoriesCreated,
		"skipped", len(res.SkippedLines))
	return res, nil
}
