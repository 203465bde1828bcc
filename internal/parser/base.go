package parser

import (
	"fjacquet/fin-parser/internal/logging"
)

// BaseParser provides common functionality for all codec implementations.
// It implements the LoggerConfigurable interface.
//
// Codecs should embed BaseParser to inherit common functionality:
//
//	type MyParser struct {
//		parser.BaseParser
//		// format-specific fields
//	}
type BaseParser struct {
	logger logging.Logger
	format FormatType
}

// NewBaseParser creates a new BaseParser for the given format.
// If logger is nil, a default logger will be used.
func NewBaseParser(format FormatType, logger logging.Logger) BaseParser {
	if logger == nil {
		logger = logging.GetLogger()
	}

	return BaseParser{
		logger: logger.WithField(logging.FieldFormat, string(format)),
		format: format,
	}
}

// SetLogger implements the LoggerConfigurable interface.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger.WithField(logging.FieldFormat, string(b.format))
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	if b.logger == nil {
		b.logger = logging.GetLogger()
	}
	return b.logger
}

// Format returns the format tag the codec handles
func (b *BaseParser) Format() FormatType {
	return b.format
}
