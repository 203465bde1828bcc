// Package container provides dependency injection for the fin-parser application.
// It centralizes the creation and wiring of the logger, the configuration and the codec
// registry, making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/fin-parser/internal/bankexportparser"
	"fjacquet/fin-parser/internal/camtparser"
	"fjacquet/fin-parser/internal/config"
	"fjacquet/fin-parser/internal/csvparser"
	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/mt940parser"
	"fjacquet/fin-parser/internal/parser"
	"fjacquet/fin-parser/internal/parsererror"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger logging.Logger
	config *config.Config

	// Codec registry keyed by format tag
	parsers map[parser.FormatType]parser.FullParser
}

// NewContainer creates and wires all application dependencies, building the logger from
// the configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, config.ConfigureLoggingFromConfig(cfg))
}

// NewContainerWithLogger wires the codecs around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	// the layout file is configuration: fail here rather than at the first conversion
	layout, err := bankexportparser.LoadLayout(cfg.CSV.BankExport.LayoutFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load bank export layout: %w", err)
	}

	parsers := map[parser.FormatType]parser.FullParser{
		parser.CSV:     csvparser.NewAdapter(logger, cfg),
		parser.BankCSV: bankexportparser.NewAdapterWithLayout(logger, cfg, layout),
		parser.MT940:   mt940parser.NewAdapter(logger, cfg),
		parser.CAMT053: camtparser.NewAdapter(logger, cfg),
	}

	logger.Debug("Container initialized",
		logging.Field{Key: "parsers_count", Value: len(parsers)})

	return &Container{
		logger:  logger,
		config:  cfg,
		parsers: parsers,
	}, nil
}

// GetParser returns the codec registered for the given format.
// An unregistered format yields a *parsererror.UnknownFormatError.
func (c *Container) GetParser(format parser.FormatType) (parser.FullParser, error) {
	p, ok := c.parsers[format]
	if !ok {
		return nil, &parsererror.UnknownFormatError{Format: string(format)}
	}
	return p, nil
}

// GetParsers returns a copy of the parser registry.
func (c *Container) GetParsers() map[parser.FormatType]parser.FullParser {
	result := make(map[parser.FormatType]parser.FullParser, len(c.parsers))
	for k, v := range c.parsers {
		result[k] = v
	}
	return result
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}
