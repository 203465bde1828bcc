package converter

import (
	"context"
	"fmt"

	"fjacquet/fin-parser/internal/fileutils"
	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/parser"
)

// FileFailure records a file the batch could not convert
type FileFailure struct {
	Path string
	Err  error
}

// BatchResult summarizes a BatchConvert run
type BatchResult struct {
	Converted []string
	Failures  []FileFailure
}

// BatchConvert converts every regular, non-hidden file of inDir into outDir. A failing file
// is recorded and the batch moves on; only directory errors and cancellation abort it.
func (c *Converter) BatchConvert(ctx context.Context, inDir string, in parser.FormatType, outDir string, out parser.FormatType) (BatchResult, error) {
	var result BatchResult

	if _, _, err := c.codecs(in, out); err != nil {
		return result, err
	}
	files, err := fileutils.ListFiles(inDir)
	if err != nil {
		return result, fmt.Errorf("failed to read input directory: %w", err)
	}
	if err := fileutils.EnsureDirectoryExists(outDir); err != nil {
		return result, fmt.Errorf("failed to create output directory: %w", err)
	}

	if len(files) == 0 {
		c.logger.Warn("No files found in input directory", logging.Field{Key: logging.FieldFile, Value: inDir})
		return result, nil
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		target := outputPath(file, outDir, out)
		if err := c.ConvertFile(ctx, file, in, target, out); err != nil {
			c.logger.WithError(err).Warn("Failed to convert file",
				logging.Field{Key: logging.FieldInputFile, Value: file})
			result.Failures = append(result.Failures, FileFailure{Path: file, Err: err})
			continue
		}
		result.Converted = append(result.Converted, target)
	}

	c.logger.Info("Batch conversion finished",
		logging.Field{Key: logging.FieldCount, Value: len(result.Converted)},
		logging.Field{Key: "failed", Value: len(result.Failures)})
	return result, nil
}
