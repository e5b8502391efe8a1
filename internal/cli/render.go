package cli

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/solari/internal/model"
	"github.com/Veraticus/solari/internal/report"
)

// CategoryNamer resolves category ids for display.
type CategoryNamer interface {
	GetCategory(id int) (model.Category, bool)
}

func categoryName(names CategoryNamer, id int) string {
	if c, ok := names.GetCategory(id); ok {
		return c.Name
	}
	return "UNKNOWN"
}

// RenderTransactions writes the transaction table.
func RenderTransactions(w io.Writer, names CategoryNamer, txs []model.Transaction) {
	if len(txs) == 0 {
		fmt.Fprintln(w, SubtleStyle.Render("no transactions"))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tKIND\tAMOUNT\tCATEGORY\tNOTE")
	for _, t := range txs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date, t.Kind, t.Amount.StringFixed(2), categoryName(names, t.CategoryID), t.Note)
	}
	_ = tw.Flush()
}

// RenderCategories writes the category table.
func RenderCategories(w io.Writer, categories []model.Category) {
	if len(categories) == 0 {
		fmt.Fprintln(w, SubtleStyle.Render("no categories"))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, c := range categories {
		fmt.Fprintf(tw, "%d\t%s\n", c.ID, c.Name)
	}
	_ = tw.Flush()
}

// RenderBudgets writes the budget table.
func RenderBudgets(w io.Writer, names CategoryNamer, entries []model.BudgetEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, SubtleStyle.Render("no budgets"))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tYEAR\tMONTH\tAMOUNT")
	for _, b := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n",
			categoryName(names, b.CategoryID), b.Year, b.Month, b.Amount.StringFixed(2))
	}
	_ = tw.Flush()
}

// RenderMonthReport writes the combined monthly, per-category, and budget
// report for one month window.
func RenderMonthReport(w io.Writer, reports *report.Engine, year, month int) {
	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("%s Report for %04d-%02d", ChartIcon, year, month)))

	summary := reports.MonthlySummary(year, month)
	fmt.Fprintf(w, "Income:  %s\n", summary.TotalIncome.StringFixed(2))
	fmt.Fprintf(w, "Expense: %s\n", summary.TotalExpense.StringFixed(2))
	fmt.Fprintf(w, "Net:     %s\n", summary.Net.StringFixed(2))

	fmt.Fprintln(w)
	fmt.Fprintln(w, BoldStyle.Render("Net spend per category"))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tNET SPEND")
	for _, ct := range reports.CategorySummary(year, month) {
		fmt.Fprintf(tw, "%s\t%s\n", ct.Category.Name, ct.Total.StringFixed(2))
	}
	_ = tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintln(w, BoldStyle.Render("Budgets"))
	lines := reports.BudgetReport(year, month)
	if len(lines) == 0 {
		fmt.Fprintln(w, SubtleStyle.Render("no budgets set for this month"))
		return
	}
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tBUDGET\tUSED\tREMAINING")
	for _, line := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			line.CategoryName,
			line.Budget.StringFixed(2),
			line.Used.StringFixed(2),
			line.Remaining.StringFixed(2))
	}
	_ = tw.Flush()
}

// NewProgressBar builds the bar used by long imports. A negative total
// renders a spinner instead of a bar.
func NewProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
