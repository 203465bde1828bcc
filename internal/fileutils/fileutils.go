// Package fileutils provides the file and stdio selection used by the converter and the CLI.
package fileutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"fjacquet/fin-parser/internal/models"
)

// StdioPath selects stdin or stdout instead of a file
const StdioPath = "-"

// Stdin and Stdout are the streams used for StdioPath; tests replace them.
var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
)

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// IsStdio reports whether path designates a standard stream
func IsStdio(path string) bool {
	return path == "" || path == StdioPath
}

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if !DirectoryExists(dirPath) {
		if err := os.MkdirAll(dirPath, models.PermissionDirectory); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// OpenInput opens a file for reading, or returns stdin for "" and "-".
// Closing the stdin reader is a no-op.
func OpenInput(path string) (io.ReadCloser, error) {
	if IsStdio(path) {
		return io.NopCloser(Stdin), nil
	}
	if !FileExists(path) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// CreateOutput creates or truncates a file for writing, creating parent directories,
// or returns stdout for "" and "-". Closing the stdout writer is a no-op.
func CreateOutput(path string) (io.WriteCloser, error) {
	if IsStdio(path) {
		return nopWriteCloser{Stdout}, nil
	}
	if err := EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, models.PermissionOutputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return file, nil
}

// ListFiles returns the regular files directly inside dirPath, sorted by name.
// Hidden files are skipped.
func ListFiles(dirPath string) ([]string, error) {
	if !DirectoryExists(dirPath) {
		return nil, fmt.Errorf("directory does not exist: %s", dirPath)
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || e.Name()[0] == '.' {
			continue
		}
		files = append(files, filepath.Join(dirPath, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
