package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParseError
		expected string
	}{
		{
			name:     "line and fragment",
			err:      NewParseError("MT940", 4, "251001C NTRFREF", ":61: amount missing"),
			expected: "MT940: parse error at line 4: :61: amount missing in '251001C NTRFREF'",
		},
		{
			name: "wrapped cause without line",
			err: &ParseError{
				Format: "CAMT053",
				Msg:    "invalid XML",
				Err:    errors.New("unexpected EOF"),
			},
			expected: "CAMT053: parse error: invalid XML: unexpected EOF",
		},
		{
			name:     "bare",
			err:      &ParseError{Format: "CSV"},
			expected: "CSV: parse error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestParseError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	parseErr := &ParseError{Format: "CSV", Line: 3, Err: originalErr}

	assert.Equal(t, originalErr, parseErr.Unwrap())
	assert.True(t, errors.Is(parseErr, originalErr))
}

func TestWriteError(t *testing.T) {
	cause := errors.New("disk full")
	err := &WriteError{Format: "MT940", Err: cause}

	assert.Equal(t, "MT940: write failed: disk full", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestUnknownFormatError(t *testing.T) {
	err := &UnknownFormatError{Format: "ofx"}
	assert.Equal(t, `unknown format: "ofx"`, err.Error())
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{FilePath: "/tmp/a.xml", Format: "camt053", Reason: "missing BkToCstmrStmt"}
	assert.Equal(t, "validation failed for /tmp/a.xml (camt053): missing BkToCstmrStmt", err.Error())
}

func TestIsHelpers(t *testing.T) {
	wrappedParse := fmt.Errorf("reading input: %w", NewParseError("CSV", 2, "", "bad row"))
	wrappedWrite := fmt.Errorf("writing output: %w", &WriteError{Format: "CSV", Err: errors.New("closed")})

	assert.True(t, IsParseError(wrappedParse))
	assert.False(t, IsParseError(wrappedWrite))
	assert.True(t, IsWriteError(wrappedWrite))
	assert.False(t, IsWriteError(errors.New("plain")))
}
