// Package converter is the conversion facade: it reads a document with the codec of the
// declared input format and writes it with the codec of the declared output format.
package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/fin-parser/internal/fileutils"
	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/models"
	"fjacquet/fin-parser/internal/parser"
	"fjacquet/fin-parser/internal/parsererror"

	"github.com/google/uuid"
)

// ErrUndetectable is returned by Detect when no codec recognizes the input
var ErrUndetectable = errors.New("input matches no supported format")

// detectOrder is the order in which Detect asks the codecs; the laxest format goes last
var detectOrder = []parser.FormatType{parser.CAMT053, parser.MT940, parser.CSV, parser.BankCSV}

// Registry resolves a format tag to its codec. *container.Container implements it.
type Registry interface {
	GetParser(format parser.FormatType) (parser.FullParser, error)
}

// Converter dispatches conversions to the registered codecs. It keeps no state between calls.
type Converter struct {
	registry Registry
	logger   logging.Logger
}

// New creates a Converter. A nil logger uses the default logger.
func New(registry Registry, logger logging.Logger) *Converter {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Converter{registry: registry, logger: logger}
}

// Convert reads the whole input with the in codec, then writes it with the out codec.
// Any codec error aborts the conversion; bytes already flushed to w stay there.
func (c *Converter) Convert(ctx context.Context, r io.Reader, in parser.FormatType, w io.Writer, out parser.FormatType) error {
	reader, writer, err := c.codecs(in, out)
	if err != nil {
		return err
	}
	logger := c.runLogger(in, out)

	statement, err := c.read(ctx, reader, r, logger)
	if err != nil {
		return err
	}
	return c.write(ctx, writer, w, statement, logger)
}

// ConvertFile converts inPath into outPath. An empty path or "-" selects stdin/stdout.
// The output is only created once the input parsed successfully.
func (c *Converter) ConvertFile(ctx context.Context, inPath string, in parser.FormatType, outPath string, out parser.FormatType) (err error) {
	reader, writer, err := c.codecs(in, out)
	if err != nil {
		return err
	}
	logger := c.runLogger(in, out).WithFields(
		logging.Field{Key: logging.FieldInputFile, Value: inPath},
		logging.Field{Key: logging.FieldOutputFile, Value: outPath})

	input, err := fileutils.OpenInput(inPath)
	if err != nil {
		return err
	}
	statement, err := c.read(ctx, reader, input, logger)
	if cerr := input.Close(); cerr != nil {
		logger.WithError(cerr).Warn("Failed to close input file")
	}
	if err != nil {
		return err
	}

	output, err := fileutils.CreateOutput(outPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := output.Close(); cerr != nil && err == nil {
			err = parser.WrapWriteError(out, cerr)
		}
	}()

	return c.write(ctx, writer, output, statement, logger)
}

// Detect sniffs the format of the input. CSV is only reported when the header names the
// expected columns.
func (c *Converter) Detect(r io.Reader) (parser.FormatType, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	for _, format := range detectOrder {
		p, err := c.registry.GetParser(format)
		if err != nil {
			continue
		}
		ok, err := p.ValidateFormat(bytes.NewReader(data))
		if err != nil {
			c.logger.WithError(err).Debug("Format check failed",
				logging.Field{Key: logging.FieldFormat, Value: string(format)})
			continue
		}
		if ok {
			return format, nil
		}
	}
	return "", ErrUndetectable
}

// ValidateFile checks that path looks like the declared format. An empty format is
// detected; the format that matched is returned.
func (c *Converter) ValidateFile(path string, format parser.FormatType) (parser.FormatType, error) {
	input, err := fileutils.OpenInput(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := input.Close(); cerr != nil {
			c.logger.WithError(cerr).Warn("Failed to close input file")
		}
	}()

	if format == "" {
		detected, err := c.Detect(input)
		if err != nil {
			return "", &parsererror.ValidationError{FilePath: path, Format: "auto", Reason: err.Error()}
		}
		return detected, nil
	}

	p, err := c.registry.GetParser(format)
	if err != nil {
		return "", err
	}
	ok, err := p.ValidateFormat(input)
	if err != nil {
		return "", fmt.Errorf("error validating %s: %w", path, err)
	}
	if !ok {
		return "", &parsererror.ValidationError{FilePath: path, Format: string(format),
			Reason: "content does not match the format"}
	}
	return format, nil
}

func (c *Converter) codecs(in, out parser.FormatType) (parser.Reader, parser.Writer, error) {
	reader, err := c.registry.GetParser(in)
	if err != nil {
		return nil, nil, err
	}
	writer, err := c.registry.GetParser(out)
	if err != nil {
		return nil, nil, err
	}
	return reader, writer, nil
}

func (c *Converter) runLogger(in, out parser.FormatType) logging.Logger {
	return c.logger.WithFields(
		logging.Field{Key: logging.FieldRunID, Value: uuid.NewString()},
		logging.Field{Key: logging.FieldInFormat, Value: string(in)},
		logging.Field{Key: logging.FieldOutFormat, Value: string(out)})
}

func (c *Converter) read(ctx context.Context, reader parser.Reader, r io.Reader, logger logging.Logger) (*models.Statement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	statement, err := reader.Read(r)
	if err != nil {
		logger.WithError(err).Debug("Read failed")
		return nil, err
	}
	logger.Info("Statement read",
		logging.Field{Key: logging.FieldStatement, Value: statement.ID},
		logging.Field{Key: logging.FieldCount, Value: len(statement.Entries)})
	return statement, nil
}

func (c *Converter) write(ctx context.Context, writer parser.Writer, w io.Writer, statement *models.Statement, logger logging.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	if err := writer.Write(w, statement); err != nil {
		logger.WithError(err).Debug("Write failed")
		return err
	}
	logger.Info("Statement written",
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return nil
}

// outputPath maps an input file to its name in outDir with the extension of the out format
func outputPath(inPath, outDir string, out parser.FormatType) string {
	base := filepath.Base(inPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, base+out.Extension())
}
