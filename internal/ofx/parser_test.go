package ofx

import (
	"context"
	"strings"
	"testing"

	"github.com/aclindsa/ofxgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/solari/internal/model"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240131120000[0:GMT]
<TRNAMT>2500.00
<FITID>2024013101
<NAME>PAYROLL ACME CORP
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParseFile(t *testing.T) {
	tests := []struct {
		name          string
		ofxData       string
		expectedCount int
		expectedError bool
	}{
		{
			name:          "valid bank statement",
			ofxData:       sampleBankOFX,
			expectedCount: 4,
			expectedError: false,
		},
		{
			name:          "valid credit card statement",
			ofxData:       sampleCreditCardOFX,
			expectedCount: 2,
			expectedError: false,
		},
		{
			name:          "invalid OFX data",
			ofxData:       "not valid OFX",
			expectedCount: 0,
			expectedError: true,
		},
		{
			name:          "empty OFX",
			ofxData:       "",
			expectedCount: 0,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser()
			reader := strings.NewReader(tt.ofxData)

			entries, err := parser.ParseFile(context.Background(), reader)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, entries, tt.expectedCount)
			}
		})
	}
}

func TestParseBankEntries(t *testing.T) {
	parser := NewParser()
	reader := strings.NewReader(sampleBankOFX)

	entries, err := parser.ParseFile(context.Background(), reader)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	// First entry (Starbucks): a debit, so the sign moves into Kind.
	e1 := entries[0]
	assert.Equal(t, "STARBUCKS STORE #1234", e1.Note)
	assert.Equal(t, "25.50", e1.Amount.StringFixed(2))
	assert.Equal(t, model.Expense, e1.Kind)
	assert.Equal(t, model.Date{Year: 2024, Month: 1, Day: 15}, e1.Date)

	// Second entry (Whole Foods)
	e2 := entries[1]
	assert.Equal(t, "Whole Foods Market", e2.Note)
	assert.Equal(t, "125.00", e2.Amount.StringFixed(2))
	assert.Equal(t, model.Expense, e2.Kind)

	// Third entry (Check)
	e3 := entries[2]
	assert.Equal(t, "CHECK #1234", e3.Note)
	assert.Equal(t, "500.00", e3.Amount.StringFixed(2))
	assert.Equal(t, model.Date{Year: 2024, Month: 1, Day: 25}, e3.Date)

	// Fourth entry (Payroll): positive amount maps to income.
	e4 := entries[3]
	assert.Equal(t, "PAYROLL ACME CORP", e4.Note)
	assert.Equal(t, "2500.00", e4.Amount.StringFixed(2))
	assert.Equal(t, model.Income, e4.Kind)
	assert.Equal(t, model.Date{Year: 2024, Month: 1, Day: 31}, e4.Date)
}

func TestParseCreditCardEntries(t *testing.T) {
	parser := NewParser()
	reader := strings.NewReader(sampleCreditCardOFX)

	entries, err := parser.ParseFile(context.Background(), reader)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Amazon entry
	e1 := entries[0]
	assert.Equal(t, "AMAZON.COM*RT4Y7HG2", e1.Note)
	assert.Equal(t, "45.99", e1.Amount.StringFixed(2))
	assert.Equal(t, model.Expense, e1.Kind)

	// Netflix entry
	e2 := entries[1]
	assert.Equal(t, "NETFLIX.COM", e2.Note)
	assert.Equal(t, "15.00", e2.Amount.StringFixed(2))
}

func TestNoteFrom(t *testing.T) {
	tests := []struct {
		name     string
		tx       ofxgo.Transaction
		expected string
	}{
		{
			name:     "remove POS prefix",
			tx:       ofxgo.Transaction{Name: "POS PURCHASE STARBUCKS"},
			expected: "STARBUCKS",
		},
		{
			name:     "remove DEBIT CARD prefix",
			tx:       ofxgo.Transaction{Name: "DEBIT CARD PURCHASE WHOLE FOODS"},
			expected: "WHOLE FOODS",
		},
		{
			name:     "keep clean name",
			tx:       ofxgo.Transaction{Name: "NETFLIX.COM"},
			expected: "NETFLIX.COM",
		},
		{
			name:     "trim whitespace",
			tx:       ofxgo.Transaction{Name: "  AMAZON.COM  "},
			expected: "AMAZON.COM",
		},
		{
			name:     "drop leading date stamp",
			tx:       ofxgo.Transaction{Name: "01/15 TRADER JOES"},
			expected: "TRADER JOES",
		},
		{
			name:     "memo replaces generic name",
			tx:       ofxgo.Transaction{Name: "DEBIT", Memo: "ACME FITNESS"},
			expected: "ACME FITNESS",
		},
		{
			name:     "memo ignored for specific name",
			tx:       ofxgo.Transaction{Name: "NETFLIX.COM", Memo: "RECURRING"},
			expected: "NETFLIX.COM",
		},
		{
			name:     "payee preferred over name",
			tx:       ofxgo.Transaction{Name: "CHECK 1021", Payee: &ofxgo.Payee{Name: "City Water Dept"}},
			expected: "City Water Dept",
		},
		{
			name:     "newlines flattened",
			tx:       ofxgo.Transaction{Name: "ACME\nSTORE"},
			expected: "ACME STORE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, noteFrom(tt.tx))
		})
	}
}

func TestPreprocess(t *testing.T) {
	t.Run("uppercases severity", func(t *testing.T) {
		in := "<SEVERITY>Info</SEVERITY>"
		assert.Equal(t, "<SEVERITY>INFO</SEVERITY>", preprocess(in))
	})

	t.Run("closes bare SGML tags", func(t *testing.T) {
		in := "<OFX>\n<SIGNONMSGSRSV1\n</OFX>"
		assert.Equal(t, "<OFX>\n<SIGNONMSGSRSV1>\n</OFX>", preprocess(in))
	})

	t.Run("strips leading blank lines", func(t *testing.T) {
		in := "\n\n  OFXHEADER:100"
		assert.Equal(t, "OFXHEADER:100", preprocess(in))
	})
}
