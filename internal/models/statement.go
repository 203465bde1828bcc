// Package models provides the canonical statement data structures every format codec reads
// from and writes to.
package models

import (
	"fmt"
	"strings"
)

// DebitCredit tells whether money left (Debit) or entered (Credit) the account.
type DebitCredit int

const (
	Debit DebitCredit = iota
	Credit
)

// String returns the camt.053 indicator for the kind
func (dc DebitCredit) String() string {
	if dc == Credit {
		return TransactionTypeCredit
	}
	return TransactionTypeDebit
}

// Sign returns the single-letter MT940 sign for the kind
func (dc DebitCredit) Sign() string {
	if dc == Credit {
		return "C"
	}
	return "D"
}

// ParseDebitCredit accepts "DBIT", "CRDT", "D" and "C" in any case.
func ParseDebitCredit(s string) (DebitCredit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case TransactionTypeDebit, "D":
		return Debit, nil
	case TransactionTypeCredit, "C":
		return Credit, nil
	default:
		return Debit, fmt.Errorf("unknown credit/debit indicator %q", s)
	}
}

// Entry is one transaction line of a statement.
//
// Dates and amounts are kept exactly as the source wrote them. Codecs reformat them only when
// the target format demands a different representation.
type Entry struct {
	BookingDate string
	ValueDate   string
	Amount      string
	Currency    string
	Kind        DebitCredit
	Description string
	Reference   *string
	// TypeCode is the MT940 transaction type or the bank operation code, when the source has one
	TypeCode     string
	Counterparty *Party
}

// Ref returns the reference or "" when the entry has none
func (e Entry) Ref() string {
	if e.Reference == nil {
		return ""
	}
	return *e.Reference
}

// Equal reports whether two entries carry the same values.
func (e Entry) Equal(other Entry) bool {
	if e.BookingDate != other.BookingDate ||
		e.ValueDate != other.ValueDate ||
		e.Amount != other.Amount ||
		e.Currency != other.Currency ||
		e.Kind != other.Kind ||
		e.Description != other.Description ||
		e.TypeCode != other.TypeCode {
		return false
	}
	if (e.Reference == nil) != (other.Reference == nil) || e.Ref() != other.Ref() {
		return false
	}
	if (e.Counterparty == nil) != (other.Counterparty == nil) {
		return false
	}
	return e.Counterparty == nil || *e.Counterparty == *other.Counterparty
}

// Clone returns a deep copy of the entry
func (e Entry) Clone() Entry {
	c := e
	if e.Reference != nil {
		c.Reference = StringPtr(*e.Reference)
	}
	if e.Counterparty != nil {
		p := *e.Counterparty
		c.Counterparty = &p
	}
	return c
}

// Balance is a snapshot of the account at a point in time.
type Balance struct {
	Kind DebitCredit
	// Date is textual, usually YYMMDD (MT940) or YYYY-MM-DD (camt.053)
	Date     string
	Currency string
	Amount   string
}

// Statement is the root aggregate produced by readers and consumed by writers.
type Statement struct {
	ID             string
	AccountID      string
	OpeningBalance *Balance
	Entries        []Entry
	ClosingBalance *Balance
}

// Clone returns a deep copy of the statement
func (s *Statement) Clone() *Statement {
	if s == nil {
		return nil
	}
	c := &Statement{
		ID:        s.ID,
		AccountID: s.AccountID,
	}
	if s.OpeningBalance != nil {
		b := *s.OpeningBalance
		c.OpeningBalance = &b
	}
	if s.ClosingBalance != nil {
		b := *s.ClosingBalance
		c.ClosingBalance = &b
	}
	if s.Entries != nil {
		c.Entries = make([]Entry, len(s.Entries))
		for i, e := range s.Entries {
			c.Entries[i] = e.Clone()
		}
	}
	return c
}

// Equal reports whether two statements carry the same values, entry order included.
func (s *Statement) Equal(other *Statement) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.ID != other.ID || s.AccountID != other.AccountID {
		return false
	}
	if !balanceEqual(s.OpeningBalance, other.OpeningBalance) || !balanceEqual(s.ClosingBalance, other.ClosingBalance) {
		return false
	}
	if len(s.Entries) != len(other.Entries) {
		return false
	}
	for i := range s.Entries {
		if !s.Entries[i].Equal(other.Entries[i]) {
			return false
		}
	}
	return true
}

func balanceEqual(a, b *Balance) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Validate checks the invariants every reader must establish before handing a statement
// to a writer.
func (s *Statement) Validate() error {
	if s == nil {
		return fmt.Errorf("statement is nil")
	}
	if s.ID == "" {
		return fmt.Errorf("statement id is empty")
	}
	if s.AccountID == "" {
		return fmt.Errorf("account id is empty")
	}
	for name, b := range map[string]*Balance{"opening": s.OpeningBalance, "closing": s.ClosingBalance} {
		if b != nil && b.Currency == "" {
			return fmt.Errorf("%s balance has no currency", name)
		}
	}
	for i, e := range s.Entries {
		if e.Currency == "" {
			return fmt.Errorf("entry %d has no currency", i+1)
		}
	}
	return nil
}

// StringPtr returns a pointer to s, or nil when s is empty
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
