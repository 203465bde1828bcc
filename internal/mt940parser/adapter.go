// Package mt940parser reads and writes SWIFT MT940 customer statements.
package mt940parser

import (
	"io"

	"fjacquet/fin-parser/internal/config"
	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/models"
	"fjacquet/fin-parser/internal/parser"
)

// Adapter implements parser.FullParser for MT940 text.
type Adapter struct {
	parser.BaseParser
	defaultTypeCode string
}

// NewAdapter creates a new MT940 codec. A nil cfg uses the built-in defaults.
func NewAdapter(logger logging.Logger, cfg *config.Config) *Adapter {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Adapter{
		BaseParser:      parser.NewBaseParser(parser.MT940, logger),
		defaultTypeCode: cfg.MT940.DefaultTypeCode,
	}
}

// Read implements parser.Reader
func (a *Adapter) Read(r io.Reader) (*models.Statement, error) {
	return readStatement(r, a.GetLogger())
}

// Write implements parser.Writer
func (a *Adapter) Write(w io.Writer, statement *models.Statement) error {
	return writeStatement(w, statement, a.defaultTypeCode, a.GetLogger())
}

// ValidateFormat implements parser.Validator
func (a *Adapter) ValidateFormat(r io.Reader) (bool, error) {
	return looksLikeMT940(r)
}
