// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"fjacquet/fin-parser/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Supported bank export encodings
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1251 = "windows-1251"
)

// DefaultCamtNamespace is written on the camt.053 Document element
const DefaultCamtNamespace = "urn:iso:std:iso:20022:tech:xsd:camt.053.001.02"

// BankExportConfig configures the fixed-offset bank export CSV variant
type BankExportConfig struct {
	SkipRows   int    `mapstructure:"skip_rows" yaml:"skip_rows"`
	Encoding   string `mapstructure:"encoding" yaml:"encoding"`
	Currency   string `mapstructure:"currency" yaml:"currency"`
	LayoutFile string `mapstructure:"layout_file" yaml:"layout_file"`
}

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter  string           `mapstructure:"delimiter" yaml:"delimiter"`
		BankExport BankExportConfig `mapstructure:"bank_export" yaml:"bank_export"`
	} `mapstructure:"csv" yaml:"csv"`

	Camt struct {
		Namespace         string `mapstructure:"namespace" yaml:"namespace"`
		StrictStatementID bool   `mapstructure:"strict_statement_id" yaml:"strict_statement_id"`
	} `mapstructure:"camt" yaml:"camt"`

	MT940 struct {
		DefaultTypeCode string `mapstructure:"default_type_code" yaml:"default_type_code"`
	} `mapstructure:"mt940" yaml:"mt940"`
}

// DelimiterRune returns the configured CSV delimiter as a rune
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigFromFile("")
}

// InitializeConfigFromFile behaves like InitializeConfig but reads an explicit config file
// when path is not empty. An explicit file that cannot be read is an error.
func InitializeConfigFromFile(path string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.fin-parser")
		v.AddConfigPath(".fin-parser")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("FINPARSER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless explicit)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case path != "":
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		case !errors.As(err, &notFound):
			logging.GetLogger().Warn("Error reading config file, using defaults",
				logging.Field{Key: logging.FieldFile, Value: v.ConfigFileUsed()},
				logging.Field{Key: logging.FieldError, Value: err.Error()})
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the built-in configuration without consulting files or the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// defaults alone always decode
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.bank_export.skip_rows", 11)
	v.SetDefault("csv.bank_export.encoding", EncodingUTF8)
	v.SetDefault("csv.bank_export.currency", "XXX")
	v.SetDefault("csv.bank_export.layout_file", "")

	v.SetDefault("camt.namespace", DefaultCamtNamespace)
	v.SetDefault("camt.strict_statement_id", false)

	v.SetDefault("mt940.default_type_code", "NTRF")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if utf8.RuneCountInString(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %q", config.CSV.Delimiter)
	}

	be := &config.CSV.BankExport
	if be.SkipRows < 0 {
		return fmt.Errorf("csv.bank_export.skip_rows must not be negative, got: %d", be.SkipRows)
	}
	be.Encoding = strings.ToLower(be.Encoding)
	switch be.Encoding {
	case EncodingUTF8, EncodingWindows1251:
	case "cp1251":
		be.Encoding = EncodingWindows1251
	default:
		return fmt.Errorf("csv.bank_export.encoding must be %s or %s, got: %s", EncodingUTF8, EncodingWindows1251, be.Encoding)
	}
	if len(be.Currency) != 3 {
		return fmt.Errorf("csv.bank_export.currency must be a 3-letter code, got: %s", be.Currency)
	}
	be.Currency = strings.ToUpper(be.Currency)

	if config.Camt.Namespace == "" {
		return fmt.Errorf("camt.namespace must not be empty")
	}

	code := config.MT940.DefaultTypeCode
	if len(code) != 4 || strings.IndexFunc(code, func(r rune) bool {
		return (r < 'A' || r > 'Z') && (r < 'a' || r > 'z')
	}) >= 0 {
		return fmt.Errorf("mt940.default_type_code must be four letters, got: %q", code)
	}

	return nil
}

// ConfigureLoggingFromConfig builds the application logger from the Config struct
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
}
