// Package batch handles batch processing of files
package batch

import (
	"fmt"

	"fjacquet/fin-parser/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch convert statements from a directory",
	Long: `Batch convert every statement in an input directory and write the results to another directory.

Each regular, non-hidden file is converted independently. A file that fails is reported and
the batch carries on; the command exits with an error if any file failed.

Example:
  fin-parser batch --in-format mt940 --out-format camt053 -i input_dir/ -o output_dir/`,
	RunE: batchFunc,
}

func init() {
	// Override the usage text for the input/output flags in batch context
	Cmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags (for batch, -i/-o refer to directories):
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}
`)
}

func batchFunc(cmd *cobra.Command, _ []string) error {
	inputDir := root.SharedFlags.Input
	outputDir := root.SharedFlags.Output
	if inputDir == "" || outputDir == "" {
		return fmt.Errorf("input and output directories must be specified")
	}

	in, out, err := root.ParseFormats()
	if err != nil {
		return err
	}

	result, err := root.GetConverter().BatchConvert(root.Context(cmd), inputDir, in, outputDir, out)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, path := range result.Converted {
		fmt.Fprintf(w, "converted %s\n", path)
	}
	for _, f := range result.Failures {
		fmt.Fprintf(w, "failed %s: %v\n", f.Path, f.Err)
	}

	if n := len(result.Failures); n > 0 {
		return fmt.Errorf("%d of %d files failed", n, n+len(result.Converted))
	}
	return nil
}
