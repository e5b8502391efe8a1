package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/solari/internal/exchange"
	"github.com/Veraticus/solari/internal/ledger"
	"github.com/Veraticus/solari/internal/model"
	"github.com/Veraticus/solari/internal/persist"
	"github.com/Veraticus/solari/internal/report"
)

// Masker is satisfied by archives that support the reversible byte mask.
type Masker interface {
	Mask() byte
	SetMask(key byte)
}

// Menu drives the interactive numbered-menu session over one ledger.
// Recoverable failures are printed and the loop re-prompts; the session
// ends with a save on "0" or end of input, and without one on cancel.
type Menu struct {
	store      *ledger.Store
	reports    *report.Engine
	archive    persist.Gateway
	in         *Reader
	out        io.Writer
	exportPath string
}

// NewMenu creates a menu session bound to the given stores and streams.
func NewMenu(store *ledger.Store, reports *report.Engine, archive persist.Gateway, in io.Reader, out io.Writer, exportPath string) *Menu {
	return &Menu{
		store:      store,
		reports:    reports,
		archive:    archive,
		in:         NewReader(in),
		out:        out,
		exportPath: exportPath,
	}
}

// Run loops until the user chooses to exit or input ends, then saves.
// A canceled context exits immediately without saving.
func (m *Menu) Run(ctx context.Context) error {
	fmt.Fprintln(m.out, FormatTitle("solari ledger"))

	for {
		m.printMenu()

		choice, err := m.prompt(ctx, "Choice")
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if choice == "0" {
			break
		}

		if err := m.dispatch(ctx, choice); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
	}

	if err := m.archive.Save(ctx, m.store.Snapshot()); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	fmt.Fprintln(m.out, FormatSuccess("ledger saved"))
	return nil
}

func (m *Menu) printMenu() {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, BoldStyle.Render("Main menu"))
	fmt.Fprintln(m.out, ` 1) Add transaction
 2) List transactions
 3) Edit transaction
 4) Delete transaction
 5) Add category
 6) List categories
 7) Rename category
 8) Delete category
 9) Set budget
10) List budgets
11) Monthly report
12) Search
13) Export CSV
14) Import CSV
15) Toggle masking
 0) Save and exit`)
}

func (m *Menu) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return m.addTransaction(ctx)
	case "2":
		return m.listTransactions(ctx)
	case "3":
		return m.editTransaction(ctx)
	case "4":
		return m.removeTransaction(ctx)
	case "5":
		return m.addCategory(ctx)
	case "6":
		m.printCategories()
		return nil
	case "7":
		return m.renameCategory(ctx)
	case "8":
		return m.removeCategory(ctx)
	case "9":
		return m.setBudget(ctx)
	case "10":
		m.printBudgets()
		return nil
	case "11":
		return m.monthReport(ctx)
	case "12":
		return m.search(ctx)
	case "13":
		m.exportCSV()
		return nil
	case "14":
		return m.importCSV(ctx)
	case "15":
		return m.toggleMask(ctx)
	default:
		fmt.Fprintln(m.out, FormatWarning("unknown choice"))
		return nil
	}
}

// prompt prints a styled label and reads one trimmed line.
func (m *Menu) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(m.out, FormatPrompt(label))
	line, err := m.in.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptInt reads one line and converts it to an integer. The second
// return is false when the input was not a number; the failure has
// already been reported to the user.
func (m *Menu) promptInt(ctx context.Context, label string) (int, bool, error) {
	s, err := m.prompt(ctx, label)
	if err != nil {
		return 0, false, err
	}
	n, convErr := strconv.Atoi(s)
	if convErr != nil {
		fmt.Fprintln(m.out, FormatError("enter a number"))
		return 0, false, nil
	}
	return n, true, nil
}

func (m *Menu) fail(err error) {
	fmt.Fprintln(m.out, FormatError(err.Error()))
}

func (m *Menu) addTransaction(ctx context.Context) error {
	date, err := m.prompt(ctx, "Date (YYYY-MM-DD)")
	if err != nil {
		return err
	}
	kindStr, err := m.prompt(ctx, "Kind (0=expense, 1=income)")
	if err != nil {
		return err
	}
	kind, ok := parseKindInput(kindStr)
	if !ok {
		fmt.Fprintln(m.out, FormatError("kind must be 0, 1, expense, or income"))
		return nil
	}
	amountStr, err := m.prompt(ctx, "Amount")
	if err != nil {
		return err
	}
	amount, convErr := decimal.NewFromString(amountStr)
	if convErr != nil {
		fmt.Fprintln(m.out, FormatError("invalid amount"))
		return nil
	}
	m.printCategories()
	categoryID, ok, err := m.promptInt(ctx, "Category id")
	if err != nil || !ok {
		return err
	}
	note, err := m.prompt(ctx, "Note (optional)")
	if err != nil {
		return err
	}

	tx, addErr := m.store.AddTransaction(date, kind, amount, categoryID, note)
	if addErr != nil {
		m.fail(addErr)
		return nil
	}
	fmt.Fprintln(m.out, FormatSuccess(fmt.Sprintf("recorded transaction #%d", tx.ID)))
	return nil
}

func (m *Menu) listTransactions(ctx context.Context) error {
	f, err := m.promptDateRange(ctx)
	if err != nil {
		return err
	}
	m.printTransactions(m.store.Transactions(f))
	return nil
}

func (m *Menu) editTransaction(ctx context.Context) error {
	id, ok, err := m.promptInt(ctx, "Transaction id")
	if err != nil || !ok {
		return err
	}
	current, found := m.store.GetTransaction(id)
	if !found {
		fmt.Fprintln(m.out, FormatError(fmt.Sprintf("no transaction #%d", id)))
		return nil
	}
	m.printTransactions([]model.Transaction{current})
	fmt.Fprintln(m.out, SubtleStyle.Render("blank keeps the current value"))

	var edit ledger.TransactionEdit

	if s, perr := m.prompt(ctx, fmt.Sprintf("Date [%s]", current.Date)); perr != nil {
		return perr
	} else if s != "" {
		edit.Date = &s
	}

	if s, perr := m.prompt(ctx, fmt.Sprintf("Kind [%s]", current.Kind)); perr != nil {
		return perr
	} else if s != "" {
		if kind, kindOK := parseKindInput(s); kindOK {
			edit.Kind = &kind
		} else {
			fmt.Fprintln(m.out, FormatWarning("kind not changed (unrecognized)"))
		}
	}

	if s, perr := m.prompt(ctx, fmt.Sprintf("Amount [%s]", current.Amount.StringFixed(2))); perr != nil {
		return perr
	} else if s != "" {
		if amount, convErr := decimal.NewFromString(s); convErr == nil {
			edit.Amount = &amount
		} else {
			fmt.Fprintln(m.out, FormatWarning("amount not changed (unrecognized)"))
		}
	}

	if s, perr := m.prompt(ctx, fmt.Sprintf("Category id [%d]", current.CategoryID)); perr != nil {
		return perr
	} else if s != "" {
		if categoryID, convErr := strconv.Atoi(s); convErr == nil {
			edit.CategoryID = &categoryID
		} else {
			fmt.Fprintln(m.out, FormatWarning("category not changed (unrecognized)"))
		}
	}

	if s, perr := m.prompt(ctx, fmt.Sprintf("Note [%s]", current.Note)); perr != nil {
		return perr
	} else if s != "" {
		edit.Note = &s
	}

	result, editErr := m.store.EditTransaction(id, edit)
	if editErr != nil {
		m.fail(editErr)
		return nil
	}
	if result.DateRejected {
		fmt.Fprintln(m.out, FormatWarning("date not changed (invalid)"))
	}
	fmt.Fprintln(m.out, FormatSuccess(fmt.Sprintf("updated transaction #%d", id)))
	return nil
}

func (m *Menu) removeTransaction(ctx context.Context) error {
	id, ok, err := m.promptInt(ctx, "Transaction id")
	if err != nil || !ok {
		return err
	}
	if removeErr := m.store.RemoveTransaction(id); removeErr != nil {
		m.fail(removeErr)
		return nil
	}
	fmt.Fprintln(m.out, FormatSuccess(fmt.Sprintf("deleted transaction #%d", id)))
	return nil
}

func (m *Menu) addCategory(ctx context.Context) error {
	name, err := m.prompt(ctx, "Category name")
	if err != nil {
		return err
	}
	c, addErr := m.store.AddCategory(name)
	if addErr != nil {
		m.fail(addErr)
		return nil
	}
	fmt.Fprintln(m.out, FormatSuccess(fmt.Sprintf("added category #%d %q", c.ID, c.Name)))
	return nil
}

func (m *Menu) renameCategory(ctx context.Context) error {
	id, ok, err := m.promptInt(ctx, "Category id")
	if err != nil || !ok {
		return err
	}
	name, err := m.prompt(ctx, "New name (blank keeps)")
	if err != nil {
		return err
	}
	if renameErr := m.store.RenameCategory(id, name); renameErr != nil {
		m.fail(renameErr)
		return nil
	}
	fmt.Fprintln(m.out, FormatSuccess(fmt.Sprintf("renamed category #%d", id)))
	return nil
}

func (m *Menu) removeCategory(ctx context.Context) error {
	id, ok, err := m.promptInt(ctx, "Category id")
	if err != nil || !ok {
		return err
	}
	if removeErr := m.store.RemoveCategory(id); removeErr != nil {
		if errors.Is(removeErr, ledger.ErrReferentialIntegrity) {
			fmt.Fprintln(m.out, FormatError("category still has transactions; delete or move them first"))
			return nil
		}
		m.fail(removeErr)
		return nil
	}
	fmt.Fprintln(m.out, FormatSuccess(fmt.Sprintf("deleted category #%d", id)))
	return nil
}

func (m *Menu) setBudget(ctx context.Context) error {
	m.printCategories()
	categoryID, ok, err := m.promptInt(ctx, "Category id")
	if err != nil || !ok {
		return err
	}
	year, ok, err := m.promptInt(ctx, "Year")
	if err != nil || !ok {
		return err
	}
	month, ok, err := m.promptInt(ctx, "Month (1-12)")
	if err != nil || !ok {
		return err
	}
	amountStr, err := m.prompt(ctx, "Amount")
	if err != nil {
		return err
	}
	amount, convErr := decimal.NewFromString(amountStr)
	if convErr != nil {
		fmt.Fprintln(m.out, FormatError("invalid amount"))
		return nil
	}

	if setErr := m.store.SetBudget(categoryID, year, month, amount); setErr != nil {
		m.fail(setErr)
		return nil
	}
	fmt.Fprintln(m.out, FormatSuccess(fmt.Sprintf("budget set for %04d-%02d", year, month)))
	return nil
}

func (m *Menu) monthReport(ctx context.Context) error {
	year, ok, err := m.promptInt(ctx, "Year")
	if err != nil || !ok {
		return err
	}
	month, ok, err := m.promptInt(ctx, "Month (1-12)")
	if err != nil || !ok {
		return err
	}
	if month < 1 || month > 12 {
		fmt.Fprintln(m.out, FormatError("month must be between 1 and 12"))
		return nil
	}

	RenderMonthReport(m.out, m.reports, year, month)
	return nil
}

func (m *Menu) search(ctx context.Context) error {
	fmt.Fprintln(m.out, SubtleStyle.Render("blank skips a criterion; amount 0 means unbounded"))

	var c report.Criteria
	var err error

	if c.Category, err = m.prompt(ctx, "Category contains"); err != nil {
		return err
	}
	if c.Note, err = m.prompt(ctx, "Note contains"); err != nil {
		return err
	}

	if s, perr := m.prompt(ctx, "Min amount"); perr != nil {
		return perr
	} else if s != "" {
		if amount, convErr := decimal.NewFromString(s); convErr == nil {
			c.MinAmount = amount
		} else {
			fmt.Fprintln(m.out, FormatWarning("ignoring unrecognized min amount"))
		}
	}
	if s, perr := m.prompt(ctx, "Max amount"); perr != nil {
		return perr
	} else if s != "" {
		if amount, convErr := decimal.NewFromString(s); convErr == nil {
			c.MaxAmount = amount
		} else {
			fmt.Fprintln(m.out, FormatWarning("ignoring unrecognized max amount"))
		}
	}

	f, err := m.promptDateRange(ctx)
	if err != nil {
		return err
	}
	c.From, c.To = f.From, f.To

	m.printTransactions(m.reports.Search(c))
	return nil
}

func (m *Menu) exportCSV() {
	f, err := os.Create(m.exportPath)
	if err != nil {
		m.fail(err)
		return
	}
	n, err := exchange.Export(f, m.store)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		m.fail(err)
		return
	}
	fmt.Fprintln(m.out, FormatSuccess(fmt.Sprintf("exported %d transactions to %s", n, m.exportPath)))
}

func (m *Menu) importCSV(ctx context.Context) error {
	path, err := m.prompt(ctx, "CSV path")
	if err != nil {
		return err
	}
	f, openErr := os.Open(path)
	if openErr != nil {
		m.fail(openErr)
		return nil
	}
	result, importErr := exchange.Import(f, m.store, nil)
	_ = f.Close()
	if importErr != nil {
		m.fail(importErr)
		return nil
	}

	fmt.Fprintln(m.out, FormatSuccess(fmt.Sprintf("imported %d transactions (%d new categories)",
		result.Imported, result.CategoriesCreated)))
	if len(result.SkippedLines) > 0 {
		fmt.Fprintln(m.out, FormatWarning(fmt.Sprintf("skipped lines with bad dates: %v", result.SkippedLines)))
	}
	return nil
}

func (m *Menu) toggleMask(ctx context.Context) error {
	masker, ok := m.archive.(Masker)
	if !ok {
		fmt.Fprintln(m.out, FormatWarning("active storage backend does not support masking"))
		return nil
	}

	if masker.Mask() != 0 {
		masker.SetMask(0)
		fmt.Fprintln(m.out, FormatInfo("masking disabled; next save writes files in the clear"))
		return nil
	}

	key, ok, err := m.promptInt(ctx, "Mask key (1-255)")
	if err != nil || !ok {
		return err
	}
	if key < 1 || key > 255 {
		fmt.Fprintln(m.out, FormatError("mask key must be between 1 and 255"))
		return nil
	}
	masker.SetMask(byte(key))
	fmt.Fprintln(m.out, FormatSuccess("masking enabled for the next save"))
	return nil
}

// promptDateRange reads optional from/to dates. Unparseable input is
// reported and treated as no bound.
func (m *Menu) promptDateRange(ctx context.Context) (ledger.Filter, error) {
	var f ledger.Filter

	s, err := m.prompt(ctx, "From date (blank for all)")
	if err != nil {
		return f, err
	}
	if s != "" {
		if d, parseErr := model.ParseDate(s); parseErr == nil {
			f.From = &d
		} else {
			fmt.Fprintln(m.out, FormatWarning("ignoring unrecognized from date"))
		}
	}

	s, err = m.prompt(ctx, "To date (blank for all)")
	if err != nil {
		return f, err
	}
	if s != "" {
		if d, parseErr := model.ParseDate(s); parseErr == nil {
			f.To = &d
		} else {
			fmt.Fprintln(m.out, FormatWarning("ignoring unrecognized to date"))
		}
	}
	return f, nil
}

func (m *Menu) printTransactions(txs []model.Transaction) {
	RenderTransactions(m.out, m.store, txs)
}

func (m *Menu) printCategories() {
	RenderCategories(m.out, m.store.Categories())
}

func (m *Menu) printBudgets() {
	RenderBudgets(m.out, m.store, m.store.BudgetEntries())
}

// parseKindInput accepts the menu's numeric shorthand alongside the
// word forms.
func parseKindInput(s string) (model.Kind, bool) {
	switch strings.TrimSpace(s) {
	case "0":
		return model.Expense, true
	case "1":
		return model.Income, true
	}
	kind, err := model.ParseKind(s)
	if err != nil {
		return model.Expense, false
	}
	return kind, true
}
