package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"fjacquet/fin-parser/cmd/batch"
	"fjacquet/fin-parser/cmd/root"
	"fjacquet/fin-parser/cmd/validate"
	"fjacquet/fin-parser/internal/config"
	"fjacquet/fin-parser/internal/logging"

	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Configure global log level directly - this affects ALL new loggers
	logging.SetAllLogLevels(configureLogLevelDirectly())

	// 2. Now that logging is properly configured, initialize root command
	root.Init()

	// 3. Add all subcommands
	root.Cmd.AddCommand(validate.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
}

// configureLogLevelDirectly reads the level from the environment before any config file is
// loaded, so that logging during start-up already honours it
func configureLogLevelDirectly() logrus.Level {
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.GetEnv("FINPARSER_LOG_LEVEL", "info")))
	if err != nil {
		return logrus.InfoLevel
	}
	return logLevel
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := root.Cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
