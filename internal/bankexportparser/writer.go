package bankexportparser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"fjacquet/fin-parser/internal/config"
	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/models"
	"fjacquet/fin-parser/internal/parser"

	"golang.org/x/text/encoding/charmap"
)

func writeStatement(w io.Writer, statement *models.Statement, s settings, logger logging.Logger) error {
	if statement == nil {
		return parser.ErrNilStatement
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Comma = s.delimiter

	for _, record := range boilerplate(statement, s.skipRows) {
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	for _, e := range statement.Entries {
		if err := cw.Write(s.formatRecord(statement.AccountID, e)); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	out := buf.Bytes()
	if s.encoding == config.EncodingWindows1251 {
		encoded, err := charmap.Windows1251.NewEncoder().Bytes(out)
		if err != nil {
			return fmt.Errorf("statement cannot be encoded as %s: %w", s.encoding, err)
		}
		out = encoded
	}

	if _, err := w.Write(out); err != nil {
		return parser.WrapWriteError(parser.BankCSV, err)
	}

	logger.Debug("Wrote bank export",
		logging.Field{Key: logging.FieldStatement, Value: statement.ID},
		logging.Field{Key: logging.FieldCount, Value: len(statement.Entries)})
	return nil
}

// boilerplate returns exactly skipRows header records. Padding records have two empty
// fields because the CSV reader drops blank lines.
func boilerplate(st *models.Statement, skipRows int) [][]string {
	labeled := [][]string{
		{labelAccount, orUndefined(st.AccountID)},
		{labelStatement, orUndefined(st.ID)},
	}
	records := make([][]string, 0, skipRows)
	for i := 0; i < skipRows; i++ {
		if i < len(labeled) {
			records = append(records, labeled[i])
			continue
		}
		records = append(records, []string{"", ""})
	}
	return records
}

func (s settings) formatRecord(ownAccount string, e models.Entry) []string {
	l := s.layout
	record := make([]string, l.width())

	date := e.BookingDate
	if date == "" {
		date = e.ValueDate
	}
	record[l.Date] = date

	var party models.Party
	if e.Counterparty != nil {
		party = *e.Counterparty
	}
	counterparty := formatAccountBlock(party)
	if e.Kind == models.Debit {
		record[l.DebitAmount] = e.Amount
		record[l.DebitAccount] = orUndefined(ownAccount)
		record[l.CreditAccount] = counterparty
	} else {
		record[l.CreditAmount] = e.Amount
		record[l.DebitAccount] = counterparty
		record[l.CreditAccount] = orUndefined(ownAccount)
	}

	record[l.DocumentNumber] = orUndefined(e.Ref())
	record[l.OperationCode] = orUndefined(e.TypeCode)
	record[l.BankInfo] = formatBankInfo(party)
	record[l.Purpose] = e.Description
	return record
}

func formatAccountBlock(p models.Party) string {
	return strings.Join([]string{orUndefined(p.Account), orUndefined(p.TaxID), orUndefined(p.Name)}, "\n")
}

func formatBankInfo(p models.Party) string {
	if p.BankBIK == "" {
		return orUndefined(p.BankName)
	}
	return strings.TrimSpace("BIK " + p.BankBIK + " " + p.BankName)
}

func orUndefined(s string) string {
	if s == "" {
		return models.Undefined
	}
	return s
}
