package models

import (
	"fmt"
	"strings"
)

// Party is the counterparty of an entry as far as the source format describes it.
type Party struct {
	Name    string `json:"name" yaml:"name"`
	Account string `json:"account" yaml:"account"`
	TaxID   string `json:"tax_id" yaml:"tax_id"`
	// BankBIK is the bank identification code found in free-text bank fields
	BankBIK  string `json:"bank_bik" yaml:"bank_bik"`
	BankName string `json:"bank_name" yaml:"bank_name"`
}

// NewParty creates a Party from an account/tax id/name triple, trimming every field
func NewParty(account, taxID, name string) Party {
	return Party{
		Name:    strings.TrimSpace(name),
		Account: strings.TrimSpace(account),
		TaxID:   strings.TrimSpace(taxID),
	}
}

// IsEmpty returns true if no field is set
func (p Party) IsEmpty() bool {
	return p == Party{}
}

// String returns a string representation of the party
func (p Party) String() string {
	if p.Name != "" && p.Account != "" {
		return fmt.Sprintf("%s (%s)", p.Name, p.Account)
	}
	if p.Name != "" {
		return p.Name
	}
	return p.Account
}

// NormalizeIBAN returns the IBAN uppercased with spaces removed
func NormalizeIBAN(iban string) string {
	return strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
}
