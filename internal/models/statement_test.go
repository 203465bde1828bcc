package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStatement() *Statement {
	return &Statement{
		ID:        "STATEMENT1",
		AccountID: "DE0012345678",
		OpeningBalance: &Balance{
			Kind:     Credit,
			Date:     "251001",
			Currency: "EUR",
			Amount:   "1000,00",
		},
		Entries: []Entry{
			{
				BookingDate: "251001",
				ValueDate:   "251001",
				Amount:      "100,00",
				Currency:    "EUR",
				Kind:        Credit,
				Description: "Salary October",
				TypeCode:    "NTRF",
			},
			{
				BookingDate:  "251002",
				ValueDate:    "251002",
				Amount:       "20,00",
				Currency:     "EUR",
				Kind:         Debit,
				Description:  "Coffee",
				Reference:    StringPtr("REF-1"),
				Counterparty: &Party{Name: "Cafe", Account: "DE89370400440532013000"},
			},
		},
		ClosingBalance: &Balance{
			Kind:     Credit,
			Date:     "251031",
			Currency: "EUR",
			Amount:   "1080,00",
		},
	}
}

func TestParseDebitCredit(t *testing.T) {
	tests := []struct {
		input       string
		expected    DebitCredit
		expectError bool
	}{
		{"CRDT", Credit, false},
		{"DBIT", Debit, false},
		{"c", Credit, false},
		{"D", Debit, false},
		{" crdt ", Credit, false},
		{"RVSL", Debit, true},
		{"", Debit, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDebitCredit(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDebitCredit_String(t *testing.T) {
	assert.Equal(t, "CRDT", Credit.String())
	assert.Equal(t, "DBIT", Debit.String())
	assert.Equal(t, "C", Credit.Sign())
	assert.Equal(t, "D", Debit.Sign())
}

func TestStatement_CloneIsDeep(t *testing.T) {
	original := sampleStatement()
	clone := original.Clone()

	require.True(t, original.Equal(clone))

	*clone.Entries[1].Reference = "CHANGED"
	clone.Entries[1].Counterparty.Name = "Other"
	clone.OpeningBalance.Amount = "0,00"

	assert.Equal(t, "REF-1", original.Entries[1].Ref())
	assert.Equal(t, "Cafe", original.Entries[1].Counterparty.Name)
	assert.Equal(t, "1000,00", original.OpeningBalance.Amount)
	assert.False(t, original.Equal(clone))
}

func TestStatement_Equal(t *testing.T) {
	a := sampleStatement()

	t.Run("entry order matters", func(t *testing.T) {
		b := sampleStatement()
		b.Entries[0], b.Entries[1] = b.Entries[1], b.Entries[0]
		assert.False(t, a.Equal(b))
	})

	t.Run("missing balance", func(t *testing.T) {
		b := sampleStatement()
		b.ClosingBalance = nil
		assert.False(t, a.Equal(b))
	})

	t.Run("nil reference versus empty", func(t *testing.T) {
		b := sampleStatement()
		empty := ""
		b.Entries[0].Reference = &empty
		assert.False(t, a.Equal(b))
	})

	t.Run("nil statements", func(t *testing.T) {
		var x, y *Statement
		assert.True(t, x.Equal(y))
		assert.False(t, a.Equal(nil))
	})
}

func TestStatement_Validate(t *testing.T) {
	assert.NoError(t, sampleStatement().Validate())

	s := sampleStatement()
	s.Entries[1].Currency = ""
	assert.EqualError(t, s.Validate(), "entry 2 has no currency")

	s = sampleStatement()
	s.ID = ""
	assert.Error(t, s.Validate())

	s = sampleStatement()
	s.OpeningBalance.Currency = ""
	assert.EqualError(t, s.Validate(), "opening balance has no currency")

	var nilStatement *Statement
	assert.Error(t, nilStatement.Validate())
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr(""))
	require.NotNil(t, StringPtr("x"))
	assert.Equal(t, "x", *StringPtr("x"))
}
