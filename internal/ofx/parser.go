// Package ofx reads bank and credit card statements in OFX/QFX form and
// flattens them into ledger-ready entries.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/solari/internal/model"
)

// Entry is one statement transaction, normalized for the ledger: the
// amount is absolute and the direction lives in Kind, following the OFX
// convention that debits are negative.
type Entry struct {
	Amount decimal.Decimal
	Note   string
	Date   model.Date
	Kind   model.Kind
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// Real-world exports are often sloppy SGML; these patterns patch up the
// issues ofxgo refuses to swallow.
var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagRegex  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocess fixes common formatting issues before handing the document
// to ofxgo: leading blank lines, mixed-case SEVERITY values, and SGML
// opening tags missing their closing bracket.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	content = openTagRegex.ReplaceAllString(content, "$1>")
	return content
}

// ParseFile parses an OFX/QFX document and returns its entries in
// statement order, bank statements before credit card statements.
func (p *Parser) ParseFile(_ context.Context, reader io.Reader) ([]Entry, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var entries []Entry
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			entries = append(entries, statementEntries(stmt.BankTranList)...)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			entries = append(entries, statementEntries(stmt.BankTranList)...)
		}
	}

	slog.Info("parsed OFX file",
		"entries", len(entries),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)
	return entries, nil
}

func statementEntries(list *ofxgo.TransactionList) []Entry {
	if list == nil {
		return nil
	}
	out := make([]Entry, 0, len(list.Transactions))
	for _, tx := range list.Transactions {
		out = append(out, convert(tx))
	}
	return out
}

// convert flattens one OFX transaction. The posted timestamp's calendar
// day becomes the ledger date; timezones are not reconciled.
func convert(tx ofxgo.Transaction) Entry {
	amount := decimal.NewFromBigRat(&tx.TrnAmt.Rat, 2)
	kind := model.Income
	if amount.IsNegative() {
		kind = model.Expense
	}

	y, m, d := tx.DtPosted.Date()
	return Entry{
		Amount: amount.Abs(),
		Note:   noteFrom(tx),
		Date:   model.Date{Year: y, Month: int(m), Day: d},
		Kind:   kind,
	}
}

// noteFrom picks the most descriptive single line for the note field:
// the payee when present, the name otherwise, and the memo when the name
// is a generic placeholder.
func noteFrom(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return sanitize(string(tx.Payee.Name))
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		// Sometimes MEMO has better merchant info.
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	// Strip processor noise prefixes.
	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Drop leading "MM/DD " date stamps.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return sanitize(name)
}

// isGenericDescription checks if a transaction name is too generic to be
// worth keeping over the memo.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}

	upperName := strings.ToUpper(name)
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}

// sanitize keeps notes single-line for the record and CSV formats.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
