package csvparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"fjacquet/fin-parser/internal/currencyutils"
	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/models"
	"fjacquet/fin-parser/internal/parsererror"

	"github.com/gocarina/gocsv"
)

const formatLabel = "CSV"

// Row is one line of the generic CSV table. It uses struct tags for gocsv (un)marshaling.
type Row struct {
	StatementID         string `csv:"StatementID"`
	AccountID           string `csv:"AccountID"`
	BookingDate         string `csv:"BookingDate"`
	ValueDate           string `csv:"ValueDate"`
	Debit               string `csv:"Debit"`
	Credit              string `csv:"Credit"`
	Currency            string `csv:"Currency"`
	Description         string `csv:"Description"`
	Reference           string `csv:"Reference"`
	TypeCode            string `csv:"TypeCode"`
	Counterparty        string `csv:"Counterparty"`
	CounterpartyAccount string `csv:"CounterpartyAccount"`
	CounterpartyTaxID   string `csv:"CounterpartyTaxID"`
	BankBIK             string `csv:"BankBIK"`
	BankName            string `csv:"BankName"`
}

func (r *Row) fields() []*string {
	return []*string{
		&r.StatementID, &r.AccountID, &r.BookingDate, &r.ValueDate, &r.Debit, &r.Credit,
		&r.Currency, &r.Description, &r.Reference, &r.TypeCode, &r.Counterparty,
		&r.CounterpartyAccount, &r.CounterpartyTaxID, &r.BankBIK, &r.BankName,
	}
}

// normalize trims every cell and turns the "undefined" placeholder back into an empty value.
// ok is false when a cell is not valid UTF-8.
func (r *Row) normalize() (fragment string, ok bool) {
	for _, f := range r.fields() {
		if !utf8.ValidString(*f) {
			return *f, false
		}
		v := strings.TrimSpace(*f)
		if v == models.Undefined {
			v = ""
		}
		*f = v
	}
	return "", true
}

func newCSVReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.TrimLeadingSpace = true
	return reader
}

// recordReader counts the records it returns, so errors can name the 1-based row that
// failed (the header is row 1) even when a quoted cell spans several lines.
type recordReader struct {
	*csv.Reader
	records int
}

func (r *recordReader) Read() ([]string, error) {
	record, err := r.Reader.Read()
	if err == nil {
		r.records++
	}
	return record, err
}

func (r *recordReader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

func readStatement(r io.Reader, delimiter rune, logger logging.Logger) (*models.Statement, error) {
	var rows []Row
	reader := &recordReader{Reader: newCSVReader(r, delimiter)}
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, toParseError(err, reader.records+1)
	}

	st := &models.Statement{}
	skipped := 0
	for i := range rows {
		// the header is row 1
		rowNum := i + 2
		row := &rows[i]
		if fragment, ok := row.normalize(); !ok {
			return nil, &parsererror.ParseError{Format: formatLabel, Line: rowNum, Fragment: fragment, Msg: "invalid UTF-8"}
		}
		if st.ID == "" {
			st.ID = row.StatementID
		}
		if st.AccountID == "" {
			st.AccountID = row.AccountID
		}

		entry, ok, err := rowToEntry(row)
		if err != nil {
			return nil, &parsererror.ParseError{Format: formatLabel, Line: rowNum, Fragment: err.fragment, Msg: err.msg}
		}
		if !ok {
			skipped++
			logger.Debug("Skipping non-transactional CSV row", logging.Field{Key: logging.FieldRow, Value: rowNum})
			continue
		}
		st.Entries = append(st.Entries, entry)
	}

	if st.ID == "" {
		st.ID = models.NoStatementID
	}
	if st.AccountID == "" {
		st.AccountID = models.Undefined
	}

	logger.Debug("Parsed CSV statement",
		logging.Field{Key: logging.FieldCount, Value: len(st.Entries)},
		logging.Field{Key: logging.FieldDelimiter, Value: string(delimiter)},
		logging.Field{Key: "skipped", Value: skipped})
	return st, nil
}

type rowError struct {
	fragment string
	msg      string
}

// rowToEntry converts a normalized row. ok is false for rows that carry no transaction.
func rowToEntry(row *Row) (models.Entry, bool, *rowError) {
	if row.BookingDate == "" && row.ValueDate == "" {
		return models.Entry{}, false, nil
	}
	if row.Debit == "" && row.Credit == "" {
		return models.Entry{}, false, nil
	}

	kind, amount := models.Credit, row.Credit
	if row.Debit != "" {
		kind, amount = models.Debit, row.Debit
	}
	if err := currencyutils.ValidateAmount(amount); err != nil {
		return models.Entry{}, false, &rowError{fragment: amount, msg: "invalid amount"}
	}

	currency := strings.ToUpper(row.Currency)
	if currency == "" {
		currency = models.UnknownCurrency
	}

	entry := models.Entry{
		BookingDate: row.BookingDate,
		ValueDate:   row.ValueDate,
		Amount:      amount,
		Currency:    currency,
		Kind:        kind,
		Description: row.Description,
		Reference:   models.StringPtr(row.Reference),
		TypeCode:    row.TypeCode,
	}
	// a row with only one of the dates keeps the other one equal
	if entry.BookingDate == "" {
		entry.BookingDate = entry.ValueDate
	}
	if entry.ValueDate == "" {
		entry.ValueDate = entry.BookingDate
	}

	party := models.Party{
		Name:     row.Counterparty,
		Account:  row.CounterpartyAccount,
		TaxID:    row.CounterpartyTaxID,
		BankBIK:  row.BankBIK,
		BankName: row.BankName,
	}
	if !party.IsEmpty() {
		entry.Counterparty = &party
	}
	return entry, true, nil
}

// toParseError maps a read failure to a ParseError for the given 1-based row
func toParseError(err error, row int) error {
	if errors.Is(err, gocsv.ErrEmptyCSVFile) {
		return parsererror.NewParseError(formatLabel, 1, "", "missing header row")
	}
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &parsererror.ParseError{Format: formatLabel, Line: row, Msg: "malformed row", Err: csvErr.Err}
	}
	return &parsererror.ParseError{Format: formatLabel, Line: row, Msg: "unreadable CSV", Err: err}
}

// hasHeader reports whether the first record names the date and amount columns.
func hasHeader(r io.Reader, delimiter rune) (bool, error) {
	header, err := newCSVReader(r, delimiter).Read()
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			return false, nil
		}
		return false, fmt.Errorf("error reading CSV header: %w", err)
	}

	required := map[string]bool{"BookingDate": false, "Debit": false, "Credit": false}
	for _, h := range header {
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		if _, ok := required[h]; ok {
			required[h] = true
		}
	}
	for _, seen := range required {
		if !seen {
			return false, nil
		}
	}
	return true, nil
}
