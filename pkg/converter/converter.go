// Package converter is the public entry point for converting bank statements between the
// supported formats. It wraps the internal codecs with a stable, string-tagged API.
package converter

import (
	"context"
	"io"

	"fjacquet/fin-parser/internal/config"
	"fjacquet/fin-parser/internal/container"
	"fjacquet/fin-parser/internal/converter"
	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/parser"
	"fjacquet/fin-parser/internal/parsererror"
)

// Format is a statement format tag
type Format string

// Supported formats
const (
	CSV     Format = Format(parser.CSV)
	BankCSV Format = Format(parser.BankCSV)
	MT940   Format = Format(parser.MT940)
	CAMT053 Format = Format(parser.CAMT053)
)

// Error types callers can match with errors.As
type (
	ParseError         = parsererror.ParseError
	WriteError         = parsererror.WriteError
	UnknownFormatError = parsererror.UnknownFormatError
	ValidationError    = parsererror.ValidationError
)

// ErrUndetectable is returned by Detect when no format matches
var ErrUndetectable = converter.ErrUndetectable

// Converter converts statements with one fixed configuration
type Converter struct {
	inner *converter.Converter
}

// New builds a Converter from the usual configuration sources: config.yaml, FINPARSER_
// environment variables and built-in defaults.
func New() (*Converter, error) {
	return NewWithConfigFile("")
}

// NewWithConfigFile is like New but reads an explicit config file when path is not empty
func NewWithConfigFile(path string) (*Converter, error) {
	cfg, err := config.InitializeConfigFromFile(path)
	if err != nil {
		return nil, err
	}
	return newConverter(cfg, config.ConfigureLoggingFromConfig(cfg))
}

// NewDefault builds a Converter from the built-in defaults only, logging through logger.
// A nil logger uses the process-wide default.
func NewDefault(logger logging.Logger) (*Converter, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return newConverter(config.Default(), logger)
}

func newConverter(cfg *config.Config, logger logging.Logger) (*Converter, error) {
	c, err := container.NewContainerWithLogger(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Converter{inner: converter.New(c, logger)}, nil
}

// Convert reads a statement in format in from r and writes it to w in format out.
func (c *Converter) Convert(ctx context.Context, r io.Reader, in Format, w io.Writer, out Format) error {
	inFormat, outFormat, err := resolve(in, out)
	if err != nil {
		return err
	}
	return c.inner.Convert(ctx, r, inFormat, w, outFormat)
}

// ConvertFile converts inPath into outPath. An empty path or "-" selects stdin/stdout.
func (c *Converter) ConvertFile(ctx context.Context, inPath string, in Format, outPath string, out Format) error {
	inFormat, outFormat, err := resolve(in, out)
	if err != nil {
		return err
	}
	return c.inner.ConvertFile(ctx, inPath, inFormat, outPath, outFormat)
}

// Detect reports the format of the input
func (c *Converter) Detect(r io.Reader) (Format, error) {
	f, err := c.inner.Detect(r)
	if err != nil {
		return "", err
	}
	return Format(f), nil
}

// Convert converts with the built-in defaults. Format tags are matched case-insensitively
// and accept the aliases of the CLI ("camt", "sta", ...).
func Convert(ctx context.Context, r io.Reader, in string, w io.Writer, out string) error {
	c, err := NewDefault(nil)
	if err != nil {
		return err
	}
	return c.Convert(ctx, r, Format(in), w, Format(out))
}

func resolve(in, out Format) (parser.FormatType, parser.FormatType, error) {
	inFormat, err := parser.ParseFormatType(string(in))
	if err != nil {
		return "", "", err
	}
	outFormat, err := parser.ParseFormatType(string(out))
	if err != nil {
		return "", "", err
	}
	return inFormat, outFormat, nil
}
