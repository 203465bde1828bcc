// Package root contains the root command for the application
package root

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fjacquet/fin-parser/internal/config"
	"fjacquet/fin-parser/internal/container"
	"fjacquet/fin-parser/internal/converter"
	"fjacquet/fin-parser/internal/fileutils"
	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/parser"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Output     string
	InFormat   string
	OutFormat  string
	ConfigFile string
	LogLevel   string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.GetLogger()

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	appContainer *container.Container
	initOnce     sync.Once

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "fin-parser",
		Short: "Convert bank statements between MT940, camt.053 and CSV",
		Long: `fin-parser converts a bank statement from one format to another through a single
in-memory statement model. Supported formats: csv, csv-bank, mt940, camt053.

Input and output default to stdin and stdout; "-" selects them explicitly.

Example:
  fin-parser --in-format mt940 --out-format camt053 -i statement.sta -o statement.xml`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		RunE:              convertFunc,
	}
)

// Init initializes the root command and all flags. It is safe to call more than once.
func Init() {
	initOnce.Do(func() {
		flags := Cmd.PersistentFlags()
		flags.StringVarP(&SharedFlags.Input, "input", "i", "", "Input file (default stdin)")
		flags.StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default stdout)")
		flags.StringVar(&SharedFlags.InFormat, "in-format", "", "Input format: "+parser.FormatNames())
		flags.StringVar(&SharedFlags.OutFormat, "out-format", "", "Output format: "+parser.FormatNames())
		flags.StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default $HOME/.fin-parser/config.yaml)")
		flags.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	})
}

// GetContainer returns the container built for the running command
func GetContainer() *container.Container {
	return appContainer
}

// GetConverter returns a converter over the running command's container
func GetConverter() *converter.Converter {
	return converter.New(appContainer, Log)
}

// Context returns the command context, or a background context when none was set
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// ParseFormats resolves the --in-format and --out-format flags; both are required.
func ParseFormats() (parser.FormatType, parser.FormatType, error) {
	if SharedFlags.InFormat == "" || SharedFlags.OutFormat == "" {
		return "", "", errors.New("--in-format and --out-format are required")
	}
	in, err := parser.ParseFormatType(SharedFlags.InFormat)
	if err != nil {
		return "", "", err
	}
	out, err := parser.ParseFormatType(SharedFlags.OutFormat)
	if err != nil {
		return "", "", err
	}
	return in, out, nil
}

// setup loads configuration, builds the logger and the parser container
func setup(cmd *cobra.Command, _ []string) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfigFromFile(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	level, err := logrus.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	logging.SetAllLogLevels(level)

	// logs go to stderr so converted output on stdout stays clean
	logger := config.ConfigureLoggingFromConfig(cfg)
	if adapter, ok := logger.(*logging.LogrusAdapter); ok {
		adapter.SetOutput(cmd.ErrOrStderr())
	}
	Log = logger

	fileutils.Stdin = cmd.InOrStdin()
	fileutils.Stdout = cmd.OutOrStdout()

	appContainer, err = container.NewContainerWithLogger(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	return nil
}

func convertFunc(cmd *cobra.Command, _ []string) error {
	in, out, err := ParseFormats()
	if err != nil {
		return err
	}
	return GetConverter().ConvertFile(Context(cmd), SharedFlags.Input, in, SharedFlags.Output, out)
}
