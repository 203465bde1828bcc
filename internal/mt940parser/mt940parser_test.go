package mt940parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/models"
	"fjacquet/fin-parser/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMT940 = `:20:STATEMENT1
:25:DE0012345678
:60F:C251001EUR1000,00
:61:2510011001C100,00NTRFNONREF
:86:Salary October
:62F:C251031EUR1100,00
`

const multiEntryMT940 = ":20:STMT-42\r\n" +
	":25:CH9300762011623852957\r\n" +
	":60F:D250930CHF50,00\r\n" +
	"\r\n" +
	":61:2510021002D12,50NMSCINV-7781\r\n" +
	":86:Coffee\r\n" +
	":86:ignored, already consumed\r\n" +
	":61:2510031003C200,NTRFREF2\r\n" +
	":61:2510041004D7.25NCHG\r\n" +
	":86:Fees\r\n" +
	":62F:C251004CHF130,25\r\n" +
	"-\r\n"

func newTestAdapter() (*Adapter, *logging.MockLogger) {
	mock := logging.NewMockLogger()
	return NewAdapter(mock, nil), mock
}

func TestRead_Sample(t *testing.T) {
	adapter, _ := newTestAdapter()

	st, err := adapter.Read(strings.NewReader(sampleMT940))
	require.NoError(t, err)

	assert.Equal(t, "STATEMENT1", st.ID)
	assert.Equal(t, "DE0012345678", st.AccountID)
	require.NotNil(t, st.OpeningBalance)
	assert.Equal(t, models.Balance{Kind: models.Credit, Date: "251001", Currency: "EUR", Amount: "1000,00"}, *st.OpeningBalance)
	require.NotNil(t, st.ClosingBalance)
	assert.Equal(t, "1100,00", st.ClosingBalance.Amount)

	require.Len(t, st.Entries, 1)
	e := st.Entries[0]
	assert.Equal(t, "251001", e.ValueDate)
	assert.Equal(t, "251001", e.BookingDate)
	assert.Equal(t, "100,00", e.Amount)
	assert.Equal(t, "EUR", e.Currency)
	assert.Equal(t, models.Credit, e.Kind)
	assert.Equal(t, "NTRF", e.TypeCode)
	assert.Nil(t, e.Reference)
	assert.Equal(t, "Salary October", e.Description)
	assert.NoError(t, st.Validate())
}

func TestRead_MultipleEntries(t *testing.T) {
	adapter, mock := newTestAdapter()

	st, err := adapter.Read(strings.NewReader(multiEntryMT940))
	require.NoError(t, err)

	require.Len(t, st.Entries, 3)
	assert.Equal(t, models.Debit, st.OpeningBalance.Kind)

	assert.Equal(t, "12,50", st.Entries[0].Amount)
	assert.Equal(t, "NMSC", st.Entries[0].TypeCode)
	assert.Equal(t, "INV-7781", st.Entries[0].Ref())
	assert.Equal(t, "Coffee", st.Entries[0].Description)
	assert.Equal(t, models.Debit, st.Entries[0].Kind)

	assert.Equal(t, "200,", st.Entries[1].Amount)
	assert.Equal(t, "REF2", st.Entries[1].Ref())
	assert.Empty(t, st.Entries[1].Description)

	assert.Equal(t, "7.25", st.Entries[2].Amount)
	assert.Equal(t, "NCHG", st.Entries[2].TypeCode)
	assert.Nil(t, st.Entries[2].Reference)
	assert.Equal(t, "Fees", st.Entries[2].Description)

	for _, e := range st.Entries {
		assert.Equal(t, "CHF", e.Currency)
	}
	assert.NotEmpty(t, mock.GetEntriesByLevel("DEBUG"))
}

func TestRead_OrphanDescriptionIgnored(t *testing.T) {
	adapter, _ := newTestAdapter()
	input := ":20:X\n:25:ACC\n:86:orphan\n:60F:C251001EUR0,00\n:62F:C251001EUR0,00\n"

	st, err := adapter.Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, st.Entries)
}

func TestRead_MissingTags(t *testing.T) {
	tests := []struct {
		name     string
		drop     string
		expected string
	}{
		{"reference", ":20:STATEMENT1\n", "missing :20: reference"},
		{"account", ":25:DE0012345678\n", "missing :25: account id"},
		{"opening balance", ":60F:C251001EUR1000,00\n", "missing :60F: opening balance"},
		{"closing balance", ":62F:C251031EUR1100,00\n", "missing :62F: closing balance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, _ := newTestAdapter()
			_, err := adapter.Read(strings.NewReader(strings.Replace(sampleMT940, tt.drop, "", 1)))

			require.Error(t, err)
			assert.True(t, parsererror.IsParseError(err))
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestRead_MalformedFields(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected string
	}{
		{"short balance", ":60F:C2510", "balance too short"},
		{"bad balance sign", ":60F:X251001EUR1,00", "unknown balance sign"},
		{"balance without amount", ":60F:C251001EUR", "balance amount missing"},
		{"short transaction", ":61:251001", ":61: too short"},
		{"no amount", ":61:2510011001CNTRFREF", ":61: amount missing"},
		{"no type code", ":61:2510011001C100,00", ":61: type code missing"},
		{"bad transaction sign", ":61:2510011001X100,00NTRF", ":61: bad sign"},
		{"reference without amount", ":61:251001C NTRFREF", ":61:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, _ := newTestAdapter()
			input := ":20:X\n:25:ACC\n" + tt.line + "\n"

			st, err := adapter.Read(strings.NewReader(input))

			require.Error(t, err)
			assert.Nil(t, st)
			var pe *parsererror.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, 3, pe.Line)
			assert.NotEmpty(t, pe.Fragment)
			assert.Contains(t, pe.Error(), tt.expected)
		})
	}
}

func TestParseTransaction_AmountScan(t *testing.T) {
	inputs := []string{
		"2510011001C100,00NTRFNONREF",
		"2510011001D1.234,56NMSC",
		"2510011001C0NTRF",
		"2510011001C.5NTRFX",
		"2510011001D99,NCHGref with spaces",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			tx, err := parseTransaction(in)
			require.NoError(t, err)
			require.NotEmpty(t, tx.amount)
			assert.Equal(t, "", strings.Trim(tx.amount, "0123456789,."))
			assert.NotEmpty(t, tx.typeCode)
			assert.LessOrEqual(t, len(tx.typeCode), 4)
		})
	}
}

func TestParseTransaction_TypeCodeCappedAtFourLetters(t *testing.T) {
	// the identification code is four letters; letters after it belong to the reference
	tests := []struct {
		in        string
		typeCode  string
		reference string
	}{
		{"2510011001D12,50NMSCABC", "NMSC", "ABC"},
		{"2510011001C100,00NTRFNONREF", "NTRF", "NONREF"},
		{"2510011001C1,00NTR", "NTR", ""},
		{"2510011001C1,00NCHG123", "NCHG", "123"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tx, err := parseTransaction(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.typeCode, tx.typeCode)
			assert.Equal(t, tt.reference, tx.reference)
		})
	}
}

func TestRoundTrip_AlphabeticReference(t *testing.T) {
	adapter, _ := newTestAdapter()
	input := strings.Replace(sampleMT940, "NTRFNONREF", "NMSCABC", 1)

	st, err := adapter.Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, st.Entries, 1)
	assert.Equal(t, "NMSC", st.Entries[0].TypeCode)
	assert.Equal(t, "ABC", st.Entries[0].Ref())

	var buf bytes.Buffer
	require.NoError(t, adapter.Write(&buf, st))
	assert.Contains(t, buf.String(), ":61:2510011001C100,00NMSCABC\n")
}

func TestWrite_Sample(t *testing.T) {
	adapter, _ := newTestAdapter()
	st, err := adapter.Read(strings.NewReader(sampleMT940))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, adapter.Write(&buf, st))

	assert.Equal(t, sampleMT940, buf.String())
}

func TestWrite_Normalizes(t *testing.T) {
	adapter, _ := newTestAdapter()
	st := &models.Statement{
		ID:             "CAMT-1",
		AccountID:      "DE0012345678",
		OpeningBalance: &models.Balance{Kind: models.Debit, Date: "2025-10-01", Currency: "eur", Amount: "10.5"},
		Entries: []models.Entry{
			{
				BookingDate: "2025-10-02",
				ValueDate:   "2025-10-03",
				Amount:      "1234.5",
				Currency:    "EUR",
				Kind:        models.Debit,
				Description: "multi\nline",
				Reference:   models.StringPtr("E2E-1"),
				TypeCode:    "01",
			},
			{
				ValueDate: "20251004",
				Amount:    "3",
				Currency:  "EUR",
				Kind:      models.Credit,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, adapter.Write(&buf, st))

	expected := ":20:CAMT-1\n" +
		":25:DE0012345678\n" +
		":60F:D251001EUR10,50\n" +
		":61:2510031002D1234,50NTRFE2E-1\n" +
		":86:multi line\n" +
		":61:2510041004C3,00NTRFNONREF\n" +
		":86:\n"
	assert.Equal(t, expected, buf.String())
	assert.NotContains(t, buf.String(), ".")
}

func TestWrite_Errors(t *testing.T) {
	adapter, _ := newTestAdapter()

	t.Run("nil statement", func(t *testing.T) {
		assert.Error(t, adapter.Write(&bytes.Buffer{}, nil))
	})

	t.Run("unrecognized date", func(t *testing.T) {
		st := &models.Statement{ID: "X", AccountID: "A", Entries: []models.Entry{{ValueDate: "someday", Amount: "1", Currency: "EUR"}}}
		var buf bytes.Buffer
		err := adapter.Write(&buf, st)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "entry 1")
		assert.Zero(t, buf.Len())
	})

	t.Run("sink failure", func(t *testing.T) {
		st, err := adapter.Read(strings.NewReader(sampleMT940))
		require.NoError(t, err)

		err = adapter.Write(failingWriter{}, st)
		require.Error(t, err)
		assert.True(t, parsererror.IsWriteError(err))
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRoundTrip_Entries(t *testing.T) {
	adapter, _ := newTestAdapter()
	for name, input := range map[string]string{"sample": sampleMT940, "multi": multiEntryMT940} {
		t.Run(name, func(t *testing.T) {
			first, err := adapter.Read(strings.NewReader(input))
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, adapter.Write(&buf, first))
			second, err := adapter.Read(&buf)
			require.NoError(t, err)

			require.Len(t, second.Entries, len(first.Entries))
			for i := range first.Entries {
				a, b := first.Entries[i], second.Entries[i]
				assert.Equal(t, a.ValueDate, b.ValueDate)
				assert.Equal(t, a.Kind, b.Kind)
				assert.Equal(t, a.Ref(), b.Ref())
				assert.Equal(t, a.TypeCode, b.TypeCode)
				assert.Equal(t, a.Description, b.Description)
			}
		})
	}
}

func TestIdempotence(t *testing.T) {
	adapter, _ := newTestAdapter()
	first, err := adapter.Read(strings.NewReader(multiEntryMT940))
	require.NoError(t, err)

	var once, twice bytes.Buffer
	require.NoError(t, adapter.Write(&once, first))
	second, err := adapter.Read(strings.NewReader(once.String()))
	require.NoError(t, err)
	require.NoError(t, adapter.Write(&twice, second))
	third, err := adapter.Read(strings.NewReader(twice.String()))
	require.NoError(t, err)

	assert.Equal(t, once.String(), twice.String())
	assert.True(t, second.Equal(third))
}

func TestValidateFormat(t *testing.T) {
	adapter, _ := newTestAdapter()

	ok, err := adapter.ValidateFormat(strings.NewReader(sampleMT940))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = adapter.ValidateFormat(strings.NewReader("<Document/>"))
	require.NoError(t, err)
	assert.False(t, ok)
}
