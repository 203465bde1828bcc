// Package parser defines the format tags and the segregated capabilities every statement
// codec implements.
package parser

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/models"
	"fjacquet/fin-parser/internal/parsererror"
)

// FormatType is the declared format tag of an input or output.
type FormatType string

const (
	CSV     FormatType = "csv"
	BankCSV FormatType = "csv-bank"
	MT940   FormatType = "mt940"
	CAMT053 FormatType = "camt053"
)

// AllFormats lists the supported tags in CLI help order
func AllFormats() []FormatType {
	return []FormatType{CSV, BankCSV, MT940, CAMT053}
}

var aliases = map[string]FormatType{
	"csv":      CSV,
	"csv-bank": BankCSV,
	"bank-csv": BankCSV,
	"mt940":    MT940,
	"sta":      MT940,
	"camt053":  CAMT053,
	"camt.053": CAMT053,
	"camt":     CAMT053,
}

// ParseFormatType resolves a user supplied tag, case-insensitively.
func ParseFormatType(s string) (FormatType, error) {
	if f, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return "", &parsererror.UnknownFormatError{Format: s}
}

// FormatNames returns the supported tags joined for help text
func FormatNames() string {
	names := make([]string, 0, 4)
	for _, f := range AllFormats() {
		names = append(names, string(f))
	}
	return strings.Join(names, "|")
}

// String implements fmt.Stringer
func (f FormatType) String() string {
	return string(f)
}

// Label is the upper-case name used as ParseError.Format
func (f FormatType) Label() string {
	return strings.ToUpper(string(f))
}

// Extension is the file extension used for outputs of the format
func (f FormatType) Extension() string {
	switch f {
	case MT940:
		return ".sta"
	case CAMT053:
		return ".xml"
	default:
		return ".csv"
	}
}

// Reader parses a whole document into a Statement.
// Implementations must return a *parsererror.ParseError for malformed input.
type Reader interface {
	Read(r io.Reader) (*models.Statement, error)
}

// Writer serializes a Statement.
// Implementations must return a *parsererror.WriteError when the sink fails.
type Writer interface {
	Write(w io.Writer, statement *models.Statement) error
}

// Validator checks whether the input looks like the codec's format without fully parsing it
type Validator interface {
	ValidateFormat(r io.Reader) (bool, error)
}

// LoggerConfigurable is implemented by codecs whose logger can be replaced after construction
type LoggerConfigurable interface {
	SetLogger(logger logging.Logger)
}

// FullParser is the complete capability set of a registered codec.
type FullParser interface {
	Reader
	Writer
	Validator
	LoggerConfigurable
}

// WrapWriteError wraps a sink failure as a *parsererror.WriteError, leaving nil alone.
func WrapWriteError(format FormatType, err error) error {
	if err == nil {
		return nil
	}
	if parsererror.IsWriteError(err) {
		return err
	}
	return &parsererror.WriteError{Format: format.Label(), Err: err}
}

// ErrNilStatement is returned by writers given no statement
var ErrNilStatement = fmt.Errorf("statement is nil")
