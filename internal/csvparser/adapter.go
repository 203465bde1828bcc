// Package csvparser reads and writes the generic header-based CSV table, one entry per row.
package csvparser

import (
	"io"

	"fjacquet/fin-parser/internal/config"
	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/models"
	"fjacquet/fin-parser/internal/parser"
)

// Adapter implements parser.FullParser for the generic CSV table.
type Adapter struct {
	parser.BaseParser
	delimiter rune
}

// NewAdapter creates a new CSV codec. A nil cfg uses the built-in defaults.
func NewAdapter(logger logging.Logger, cfg *config.Config) *Adapter {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Adapter{
		BaseParser: parser.NewBaseParser(parser.CSV, logger),
		delimiter:  cfg.DelimiterRune(),
	}
}

// Read implements parser.Reader
func (a *Adapter) Read(r io.Reader) (*models.Statement, error) {
	return readStatement(r, a.delimiter, a.GetLogger())
}

// Write implements parser.Writer
func (a *Adapter) Write(w io.Writer, statement *models.Statement) error {
	return writeStatement(w, statement, a.delimiter, a.GetLogger())
}

// ValidateFormat implements parser.Validator by checking the header row.
func (a *Adapter) ValidateFormat(r io.Reader) (bool, error) {
	return hasHeader(r, a.delimiter)
}
