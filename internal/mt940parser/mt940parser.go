package mt940parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/models"
	"fjacquet/fin-parser/internal/parsererror"
)

// Tags understood by the codec; any other line is ignored.
const (
	TagReference      = ":20:"
	TagAccount        = ":25:"
	TagOpeningBalance = ":60F:"
	TagTransaction    = ":61:"
	TagDescription    = ":86:"
	TagClosingBalance = ":62F:"
)

// NoReference is the MT940 placeholder for a transaction without reference
const NoReference = "NONREF"

const formatLabel = "MT940"

// maxLineLength bounds a single input line
const maxLineLength = 1 << 20

type readState struct {
	reference string
	account   string
	opening   *models.Balance
	closing   *models.Balance
	txs       []transaction
	// index into txs of the :61: still waiting for its :86:, -1 when none
	awaiting int
}

func readStatement(r io.Reader, logger logging.Logger) (*models.Statement, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	st := &readState{awaiting: -1}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := st.consume(line, lineNo, logger); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &parsererror.ParseError{Format: formatLabel, Line: lineNo + 1, Msg: "reading input", Err: err}
	}

	statement, err := st.finish()
	if err != nil {
		return nil, err
	}
	logger.Debug("Parsed MT940 statement",
		logging.Field{Key: logging.FieldStatement, Value: statement.ID},
		logging.Field{Key: logging.FieldCount, Value: len(statement.Entries)})
	return statement, nil
}

func (st *readState) consume(line string, lineNo int, logger logging.Logger) error {
	switch {
	case strings.HasPrefix(line, TagReference):
		if st.reference == "" {
			st.reference = strings.TrimSpace(line[len(TagReference):])
		}
	case strings.HasPrefix(line, TagAccount):
		if st.account == "" {
			st.account = strings.TrimSpace(line[len(TagAccount):])
		}
	case strings.HasPrefix(line, TagOpeningBalance):
		b, err := parseBalance(strings.TrimSpace(line[len(TagOpeningBalance):]))
		if err != nil {
			return withLine(err, lineNo)
		}
		st.opening = b
	case strings.HasPrefix(line, TagTransaction):
		tx, err := parseTransaction(strings.TrimSpace(line[len(TagTransaction):]))
		if err != nil {
			return withLine(err, lineNo)
		}
		st.txs = append(st.txs, tx)
		st.awaiting = len(st.txs) - 1
	case strings.HasPrefix(line, TagDescription):
		if st.awaiting < 0 {
			logger.Debug("Ignoring :86: without preceding :61:", logging.Field{Key: logging.FieldLine, Value: lineNo})
			return nil
		}
		tx := &st.txs[st.awaiting]
		text := strings.TrimSpace(line[len(TagDescription):])
		if tx.description != "" && text != "" {
			tx.description += " "
		}
		tx.description += text
		st.awaiting = -1
	case strings.HasPrefix(line, TagClosingBalance):
		b, err := parseBalance(strings.TrimSpace(line[len(TagClosingBalance):]))
		if err != nil {
			return withLine(err, lineNo)
		}
		st.closing = b
	default:
		logger.Debug("Ignoring unsupported MT940 line",
			logging.Field{Key: logging.FieldLine, Value: lineNo},
			logging.Field{Key: logging.FieldTag, Value: tagOf(line)})
	}
	return nil
}

func (st *readState) finish() (*models.Statement, error) {
	switch {
	case st.reference == "":
		return nil, parsererror.NewParseError(formatLabel, 0, "", "missing :20: reference")
	case st.account == "":
		return nil, parsererror.NewParseError(formatLabel, 0, "", "missing :25: account id")
	case st.opening == nil:
		return nil, parsererror.NewParseError(formatLabel, 0, "", "missing :60F: opening balance")
	case st.closing == nil:
		return nil, parsererror.NewParseError(formatLabel, 0, "", "missing :62F: closing balance")
	}

	statement := &models.Statement{
		ID:             st.reference,
		AccountID:      st.account,
		OpeningBalance: st.opening,
		ClosingBalance: st.closing,
		Entries:        make([]models.Entry, 0, len(st.txs)),
	}
	for _, tx := range st.txs {
		statement.Entries = append(statement.Entries, tx.toEntry(st.opening.Currency))
	}
	return statement, nil
}

// withLine attaches the input line number to a ParseError from a field parser
func withLine(err error, lineNo int) error {
	if pe, ok := err.(*parsererror.ParseError); ok {
		pe.Line = lineNo
		return pe
	}
	return &parsererror.ParseError{Format: formatLabel, Line: lineNo, Err: err}
}

func tagOf(line string) string {
	if len(line) > 1 && line[0] == ':' {
		if end := strings.IndexByte(line[1:], ':'); end >= 0 {
			return line[:end+2]
		}
	}
	return ""
}

func looksLikeMT940(r io.Reader) (bool, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var hasReference, hasAccount bool
	for i := 0; i < 200 && scanner.Scan(); i++ {
		line := strings.TrimSpace(scanner.Text())
		hasReference = hasReference || strings.HasPrefix(line, TagReference)
		hasAccount = hasAccount || strings.HasPrefix(line, TagAccount)
		if hasReference && hasAccount {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("reading input: %w", err)
	}
	return false, nil
}
