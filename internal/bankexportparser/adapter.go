// Package bankexportparser reads and writes the raw bank account export: a headerless CSV with
// report boilerplate on top and fixed column positions below it.
package bankexportparser

import (
	"io"

	"fjacquet/fin-parser/internal/config"
	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/models"
	"fjacquet/fin-parser/internal/parser"
)

// settings is the subset of the configuration the codec needs, resolved once
type settings struct {
	layout    Layout
	skipRows  int
	encoding  string
	currency  string
	delimiter rune
}

// Adapter implements parser.FullParser for the bank export CSV.
type Adapter struct {
	parser.BaseParser
	settings settings
}

// NewAdapter creates a new bank export codec. A nil cfg uses the built-in defaults.
// A layout file that cannot be loaded is logged and the default layout is used;
// use LoadLayout with NewAdapterWithLayout to fail instead.
func NewAdapter(logger logging.Logger, cfg *config.Config) *Adapter {
	a := NewAdapterWithLayout(logger, cfg, DefaultLayout())
	if cfg != nil && cfg.CSV.BankExport.LayoutFile != "" {
		layout, err := LoadLayout(cfg.CSV.BankExport.LayoutFile)
		if err != nil {
			a.GetLogger().WithError(err).Warn("Using default bank export layout")
			return a
		}
		a.settings.layout = layout
	}
	return a
}

// NewAdapterWithLayout creates a bank export codec for an explicit column layout.
func NewAdapterWithLayout(logger logging.Logger, cfg *config.Config, layout Layout) *Adapter {
	if cfg == nil {
		cfg = config.Default()
	}
	bank := cfg.CSV.BankExport
	return &Adapter{
		BaseParser: parser.NewBaseParser(parser.BankCSV, logger),
		settings: settings{
			layout:    layout,
			skipRows:  bank.SkipRows,
			encoding:  bank.Encoding,
			currency:  bank.Currency,
			delimiter: cfg.DelimiterRune(),
		},
	}
}

// Read implements parser.Reader
func (a *Adapter) Read(r io.Reader) (*models.Statement, error) {
	return readStatement(r, a.settings, a.GetLogger())
}

// Write implements parser.Writer
func (a *Adapter) Write(w io.Writer, statement *models.Statement) error {
	return writeStatement(w, statement, a.settings, a.GetLogger())
}

// ValidateFormat implements parser.Validator. It reports true when at least one row past the
// boilerplate parses as a transaction.
func (a *Adapter) ValidateFormat(r io.Reader) (bool, error) {
	st, err := readStatement(r, a.settings, a.GetLogger())
	if err != nil {
		a.GetLogger().WithError(err).Debug("Input is not a bank export")
		return false, nil
	}
	return len(st.Entries) > 0, nil
}
