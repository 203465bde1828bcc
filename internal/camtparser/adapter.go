// Package camtparser reads and writes ISO 20022 camt.053 bank-to-customer statements.
package camtparser

import (
	"io"

	"fjacquet/fin-parser/internal/config"
	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/models"
	"fjacquet/fin-parser/internal/parser"
	"fjacquet/fin-parser/internal/xmlutils"
)

// Adapter implements parser.FullParser for camt.053 XML.
type Adapter struct {
	parser.BaseParser
	namespace string
	// strictID makes a missing Stmt/Id a parse error instead of defaulting to models.NoStatementID
	strictID bool
}

// NewAdapter creates a new camt.053 codec. A nil cfg uses the built-in defaults.
func NewAdapter(logger logging.Logger, cfg *config.Config) *Adapter {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Adapter{
		BaseParser: parser.NewBaseParser(parser.CAMT053, logger),
		namespace:  cfg.Camt.Namespace,
		strictID:   cfg.Camt.StrictStatementID,
	}
}

// Read implements parser.Reader
func (a *Adapter) Read(r io.Reader) (*models.Statement, error) {
	return readStatement(r, a.strictID, a.GetLogger())
}

// Write implements parser.Writer
func (a *Adapter) Write(w io.Writer, statement *models.Statement) error {
	return writeStatement(w, statement, a.namespace, a.GetLogger())
}

// ValidateFormat implements parser.Validator. Input that is not XML is reported as
// not matching rather than as an error.
func (a *Adapter) ValidateFormat(r io.Reader) (bool, error) {
	root, err := xmlutils.ParseXML(r)
	if err != nil {
		a.GetLogger().Debug("Input is not well-formed XML", logging.Field{Key: logging.FieldError, Value: err.Error()})
		return false, nil
	}
	ok, err := xmlutils.Exists(root, xmlutils.XPathStatement)
	if err != nil || !ok {
		return false, err
	}

	ids, err := xmlutils.ExtractFromXML(root, xmlutils.XPathStatementID)
	if err != nil {
		return false, err
	}
	entries, err := xmlutils.ExtractFromXML(root, xmlutils.XPathEntry)
	if err != nil {
		return false, err
	}
	a.GetLogger().Debug("Recognized camt.053 document",
		logging.Field{Key: logging.FieldStatement, Value: xmlutils.GetOrEmpty(ids, 0)},
		logging.Field{Key: logging.FieldCount, Value: len(entries)})
	return true, nil
}
