package csvparser

import (
	"bytes"
	"encoding/csv"
	"io"

	"fjacquet/fin-parser/internal/dateutils"
	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/models"
	"fjacquet/fin-parser/internal/parser"

	"github.com/gocarina/gocsv"
)

func writeStatement(w io.Writer, statement *models.Statement, delimiter rune, logger logging.Logger) error {
	if statement == nil {
		return parser.ErrNilStatement
	}

	rows := make([]Row, 0, len(statement.Entries))
	for _, e := range statement.Entries {
		rows = append(rows, entryToRow(statement, e))
	}

	var buf bytes.Buffer
	csvWriter := csv.NewWriter(&buf)
	csvWriter.Comma = delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return err
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return parser.WrapWriteError(parser.CSV, err)
	}

	logger.Debug("Wrote CSV statement", logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return nil
}

func entryToRow(st *models.Statement, e models.Entry) Row {
	row := Row{
		StatementID: orUndefined(st.ID),
		AccountID:   orUndefined(st.AccountID),
		BookingDate: dateutils.ToISODate(e.BookingDate),
		ValueDate:   dateutils.ToISODate(e.ValueDate),
		Currency:    e.Currency,
		Description: e.Description,
		Reference:   orUndefined(e.Ref()),
		TypeCode:    orUndefined(e.TypeCode),
	}
	if e.Kind == models.Debit {
		row.Debit = e.Amount
	} else {
		row.Credit = e.Amount
	}

	var party models.Party
	if e.Counterparty != nil {
		party = *e.Counterparty
	}
	row.Counterparty = orUndefined(party.Name)
	row.CounterpartyAccount = orUndefined(party.Account)
	row.CounterpartyTaxID = orUndefined(party.TaxID)
	row.BankBIK = orUndefined(party.BankBIK)
	row.BankName = orUndefined(party.BankName)
	return row
}

func orUndefined(s string) string {
	if s == "" {
		return models.Undefined
	}
	return s
}
