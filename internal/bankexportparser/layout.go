package bankexportparser

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Layout holds the 0-based column index of every field the bank export carries.
type Layout struct {
	Date           int `yaml:"date"`
	DebitAccount   int `yaml:"debit_account"`
	CreditAccount  int `yaml:"credit_account"`
	DebitAmount    int `yaml:"debit_amount"`
	CreditAmount   int `yaml:"credit_amount"`
	DocumentNumber int `yaml:"document_number"`
	OperationCode  int `yaml:"operation_code"`
	BankInfo       int `yaml:"bank_info"`
	Purpose        int `yaml:"purpose"`
}

// DefaultLayout is the column layout of the standard account statement export
func DefaultLayout() Layout {
	return Layout{
		Date:           1,
		DebitAccount:   4,
		CreditAccount:  8,
		DebitAmount:    9,
		CreditAmount:   13,
		DocumentNumber: 14,
		OperationCode:  16,
		BankInfo:       17,
		Purpose:        20,
	}
}

// LoadLayout reads a YAML layout file. Keys missing from the file keep their default index.
func LoadLayout(path string) (Layout, error) {
	layout := DefaultLayout()
	if path == "" {
		return layout, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- layout path comes from configuration
	if err != nil {
		return Layout{}, fmt.Errorf("failed to read layout file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return Layout{}, fmt.Errorf("failed to parse layout file %s: %w", path, err)
	}
	if err := layout.validate(); err != nil {
		return Layout{}, fmt.Errorf("invalid layout file %s: %w", path, err)
	}
	return layout, nil
}

func (l Layout) columns() map[string]int {
	return map[string]int{
		"date":            l.Date,
		"debit_account":   l.DebitAccount,
		"credit_account":  l.CreditAccount,
		"debit_amount":    l.DebitAmount,
		"credit_amount":   l.CreditAmount,
		"document_number": l.DocumentNumber,
		"operation_code":  l.OperationCode,
		"bank_info":       l.BankInfo,
		"purpose":         l.Purpose,
	}
}

func (l Layout) validate() error {
	used := make(map[int]string)
	for name, idx := range l.columns() {
		if idx < 0 {
			return fmt.Errorf("column %s has negative index %d", name, idx)
		}
		if other, ok := used[idx]; ok {
			return fmt.Errorf("columns %s and %s share index %d", name, other, idx)
		}
		used[idx] = name
	}
	return nil
}

// width is the number of columns a data row needs
func (l Layout) width() int {
	w := 0
	for _, idx := range l.columns() {
		if idx+1 > w {
			w = idx + 1
		}
	}
	return w
}
