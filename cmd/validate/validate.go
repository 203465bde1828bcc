// Package validate checks that a file matches a statement format
package validate

import (
	"errors"
	"fmt"

	"fjacquet/fin-parser/cmd/root"
	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/parser"

	"github.com/spf13/cobra"
)

// Cmd represents the validate command
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that a file matches a statement format",
	Long: `Check that the --input file matches --in-format. Without --in-format the format
is detected, trying camt053, mt940, csv and csv-bank in that order.

Example:
  fin-parser validate -i statement.xml --in-format camt053
  fin-parser validate -i unknown.txt`,
	RunE: validateFunc,
}

func validateFunc(cmd *cobra.Command, _ []string) error {
	input := root.SharedFlags.Input
	if input == "" {
		return errors.New("--input is required")
	}

	var format parser.FormatType
	if root.SharedFlags.InFormat != "" {
		f, err := parser.ParseFormatType(root.SharedFlags.InFormat)
		if err != nil {
			return err
		}
		format = f
	}

	matched, err := root.GetConverter().ValidateFile(input, format)
	if err != nil {
		return err
	}

	root.Log.Info("File is valid",
		logging.Field{Key: logging.FieldFile, Value: input},
		logging.Field{Key: logging.FieldFormat, Value: matched.String()})
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: valid %s\n", input, matched)
	return err
}
