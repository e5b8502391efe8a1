package persist

import (
	"bytes"
	"encoding/binary"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/solari/internal/model"
)

// Snapshot files hold fixed-size records back to back: little-endian, no
// header, no delimiters. Text fields are NUL-padded byte arrays read back
// to the first NUL; amounts travel as a shopspring coefficient and
// exponent pair, which round-trips any ledger amount exactly.

type categoryRecord struct {
	ID   int32
	Name [model.MaxCategoryName + 1]byte
}

type transactionRecord struct {
	ID          int32
	Year        int16
	Month       uint8
	Day         uint8
	Kind        uint8
	CategoryID  int32
	AmountCoeff int64
	AmountExp   int32
	Note        [model.MaxNote + 1]byte
}

type budgetRecord struct {
	CategoryID  int32
	Year        int32
	Month       uint8
	AmountCoeff int64
	AmountExp   int32
}

var (
	categoryRecordSize    = binary.Size(categoryRecord{})
	transactionRecordSize = binary.Size(transactionRecord{})
	budgetRecordSize      = binary.Size(budgetRecord{})
)

// maskBytes XORs every byte with key, in place. Applying it twice is the
// identity; key zero leaves the buffer alone.
func maskBytes(b []byte, key byte) {
	if key == 0 {
		return
	}
	for i := range b {
		b[i] ^= key
	}
}

func encodeCategories(cats []model.Category) []byte {
	var buf bytes.Buffer
	for _, c := range cats {
		rec := categoryRecord{ID: int32(c.ID)}
		copy(rec.Name[:], model.Clip(c.Name, model.MaxCategoryName))
		binary.Write(&buf, binary.LittleEndian, &rec) //nolint:errcheck // bytes.Buffer cannot fail
	}
	return buf.Bytes()
}

func decodeCategories(data []byte) []model.Category {
	n := len(data) / categoryRecordSize
	out := make([]model.Category, 0, n)
	r := bytes.NewReader(data[:n*categoryRecordSize])
	for i := 0; i < n; i++ {
		var rec categoryRecord
		binary.Read(r, binary.LittleEndian, &rec) //nolint:errcheck // reader is sized above
		out = append(out, model.Category{
			ID:   int(rec.ID),
			Name: trimNUL(rec.Name[:]),
		})
	}
	return out
}

func encodeTransactions(txns []model.Transaction) []byte {
	var buf bytes.Buffer
	for _, t := range txns {
		rec := transactionRecord{
			ID:          int32(t.ID),
			Year:        int16(t.Date.Year),
			Month:       uint8(t.Date.Month),
			Day:         uint8(t.Date.Day),
			Kind:        uint8(t.Kind),
			CategoryID:  int32(t.CategoryID),
			AmountCoeff: t.Amount.CoefficientInt64(),
			AmountExp:   t.Amount.Exponent(),
		}
		copy(rec.Note[:], model.Clip(t.Note, model.MaxNote))
		binary.Write(&buf, binary.LittleEndian, &rec) //nolint:errcheck // bytes.Buffer cannot fail
	}
	return buf.Bytes()
}

func decodeTransactions(data []byte) []model.Transaction {
	n := len(data) / transactionRecordSize
	out := make([]model.Transaction, 0, n)
	r := bytes.NewReader(data[:n*transactionRecordSize])
	for i := 0; i < n; i++ {
		var rec transactionRecord
		binary.Read(r, binary.LittleEndian, &rec) //nolint:errcheck // reader is sized above
		out = append(out, model.Transaction{
			ID:         int(rec.ID),
			Date:       model.Date{Year: int(rec.Year), Month: int(rec.Month), Day: int(rec.Day)},
			Kind:       model.Kind(rec.Kind),
			Amount:     decimal.New(rec.AmountCoeff, rec.AmountExp),
			CategoryID: int(rec.CategoryID),
			Note:       trimNUL(rec.Note[:]),
		})
	}
	return out
}

func encodeBudgets(entries []model.BudgetEntry) []byte {
	var buf bytes.Buffer
	for _, b := range entries {
		rec := budgetRecord{
			CategoryID:  int32(b.CategoryID),
			Year:        int32(b.Year),
			Month:       uint8(b.Month),
			AmountCoeff: b.Amount.CoefficientInt64(),
			AmountExp:   b.Amount.Exponent(),
		}
		binary.Write(&buf, binary.LittleEndian, &rec) //nolint:errcheck // bytes.Buffer cannot fail
	}
	return buf.Bytes()
}

func decodeBudgets(data []byte) []model.BudgetEntry {
	n := len(data) / budgetRecordSize
	out := make([]model.BudgetEntry, 0, n)
	r := bytes.NewReader(data[:n*budgetRecordSize])
	for i := 0; i < n; i++ {
		var rec budgetRecord
		binary.Read(r, binary.LittleEndian, &rec) //nolint:errcheck // reader is sized above
		out = append(out, model.BudgetEntry{
			CategoryID: int(rec.CategoryID),
			Year:       int(rec.Year),
			Month:      int(rec.Month),
			Amount:     decimal.New(rec.AmountCoeff, rec.AmountExp),
		})
	}
	return out
}

// trimNUL returns the bytes up to the first NUL as a string.
func trimNUL(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
