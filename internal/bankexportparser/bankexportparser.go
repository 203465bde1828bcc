package bankexportparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"fjacquet/fin-parser/internal/config"
	"fjacquet/fin-parser/internal/currencyutils"
	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/models"
	"fjacquet/fin-parser/internal/parsererror"

	"golang.org/x/text/encoding/charmap"
)

const formatLabel = "CSV-BANK"

// Labels of the boilerplate rows written by this codec
const (
	labelAccount   = "Account"
	labelStatement = "Statement"
)

var (
	accountNumber = regexp.MustCompile(`\b\d{20}\b`)
	bankCode      = regexp.MustCompile(`(?i)(БИК|BIK)\s*[:№]?\s*(\d{9})\s*(.*)`)
)

func decodeInput(r io.Reader, encoding string) io.Reader {
	if encoding == config.EncodingWindows1251 {
		return charmap.Windows1251.NewDecoder().Reader(r)
	}
	return r
}

func readStatement(r io.Reader, s settings, logger logging.Logger) (*models.Statement, error) {
	reader := csv.NewReader(decodeInput(r, s.encoding))
	reader.Comma = s.delimiter
	reader.FieldsPerRecord = -1

	st := &models.Statement{}
	skipped := 0
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				err = csvErr.Err
			}
			return nil, &parsererror.ParseError{Format: formatLabel, Line: row, Msg: "malformed row", Err: err}
		}
		for _, field := range record {
			if !utf8.ValidString(field) {
				return nil, &parsererror.ParseError{Format: formatLabel, Line: row, Fragment: field,
					Msg: "invalid UTF-8, check csv.bank_export.encoding"}
			}
		}

		if row <= s.skipRows {
			scanBoilerplate(record, st)
			continue
		}

		entry, ok, err := s.parseRecord(record)
		if err != nil {
			return nil, withRow(err, row)
		}
		if !ok {
			skipped++
			logger.Debug("Skipping non-transactional bank export row", logging.Field{Key: logging.FieldRow, Value: row})
			continue
		}
		st.Entries = append(st.Entries, entry)
	}

	if st.ID == "" {
		st.ID = models.NoStatementID
	}
	if st.AccountID == "" {
		logger.Warn("No account number found in bank export header")
		st.AccountID = models.Undefined
	}

	logger.Debug("Parsed bank export",
		logging.Field{Key: logging.FieldCount, Value: len(st.Entries)},
		logging.Field{Key: logging.FieldEncoding, Value: s.encoding},
		logging.Field{Key: "skipped", Value: skipped})
	return st, nil
}

// scanBoilerplate picks the statement and account identifiers out of the report header rows.
// First occurrence wins.
func scanBoilerplate(record []string, st *models.Statement) {
	if len(record) == 0 {
		return
	}
	switch label := strings.TrimSpace(record[0]); {
	case strings.EqualFold(label, labelAccount):
		if st.AccountID == "" {
			st.AccountID = cell(record, 1)
		}
		return
	case strings.EqualFold(label, labelStatement):
		if st.ID == "" {
			st.ID = cell(record, 1)
		}
		return
	}

	if st.AccountID != "" {
		return
	}
	for _, field := range record {
		if m := accountNumber.FindString(field); m != "" {
			st.AccountID = m
			return
		}
	}
}

// parseRecord converts a data row. ok is false for report lines without date or amount.
func (s settings) parseRecord(record []string) (models.Entry, bool, error) {
	l := s.layout
	date := cell(record, l.Date)
	if date == "" {
		return models.Entry{}, false, nil
	}
	if len(record) < l.width() {
		return models.Entry{}, false, parsererror.NewParseError(formatLabel, 0, date,
			fmt.Sprintf("row has %d columns, want at least %d", len(record), l.width()))
	}

	debit := currencyutils.CleanAmount(cell(record, l.DebitAmount))
	credit := currencyutils.CleanAmount(cell(record, l.CreditAmount))
	if debit == "" && credit == "" {
		return models.Entry{}, false, nil
	}
	for _, amount := range []string{debit, credit} {
		if amount == "" {
			continue
		}
		if err := currencyutils.ValidateAmount(amount); err != nil {
			return models.Entry{}, false, &parsererror.ParseError{Format: formatLabel, Fragment: amount, Msg: "invalid amount", Err: err}
		}
	}

	entry := models.Entry{
		BookingDate: date,
		ValueDate:   date,
		Currency:    s.currency,
		Description: cell(record, l.Purpose),
		Reference:   models.StringPtr(cell(record, l.DocumentNumber)),
		TypeCode:    cell(record, l.OperationCode),
	}
	if entry.Currency == "" {
		entry.Currency = models.UnknownCurrency
	}

	// the counterparty sits on the other side of the booking
	counterpartyBlock := cell(record, l.DebitAccount)
	if debit != "" {
		entry.Kind, entry.Amount = models.Debit, debit
		counterpartyBlock = cell(record, l.CreditAccount)
	} else {
		entry.Kind, entry.Amount = models.Credit, credit
	}

	party := parseAccountBlock(counterpartyBlock)
	parseBankInfo(cell(record, l.BankInfo), &party)
	if !party.IsEmpty() {
		entry.Counterparty = &party
	}
	return entry, true, nil
}

// parseAccountBlock unpacks an "account\ntax id\nname" cell. Name lines past the third are
// joined with spaces.
func parseAccountBlock(block string) models.Party {
	lines := strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n")
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, undefinedToEmpty(strings.TrimSpace(line)))
	}

	var account, taxID string
	var name []string
	for i, p := range parts {
		switch {
		case i == 0:
			account = p
		case i == 1:
			taxID = p
		case p != "":
			name = append(name, p)
		}
	}
	return models.NewParty(account, taxID, strings.Join(name, " "))
}

func parseBankInfo(info string, party *models.Party) {
	if info == "" {
		return
	}
	if m := bankCode.FindStringSubmatch(info); m != nil {
		party.BankBIK = m[2]
		party.BankName = strings.TrimSpace(m[3])
		return
	}
	party.BankName = info
}

// cell returns the trimmed field at idx, "" when out of range or undefined
func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return undefinedToEmpty(strings.TrimSpace(record[idx]))
}

func undefinedToEmpty(s string) string {
	if s == models.Undefined {
		return ""
	}
	return s
}

func withRow(err error, row int) error {
	var pe *parsererror.ParseError
	if errors.As(err, &pe) && pe.Line == 0 {
		pe.Line = row
	}
	return err
}
