package camtparser

import (
	"bufio"
	"encoding/xml"
	"io"

	"fjacquet/fin-parser/internal/dateutils"
	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/models"
	"fjacquet/fin-parser/internal/parser"
)

func writeStatement(w io.Writer, statement *models.Statement, namespace string, logger logging.Logger) error {
	if statement == nil {
		return parser.ErrNilStatement
	}

	doc := buildDocument(statement, namespace)

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(xml.Header); err != nil {
		return parser.WrapWriteError(parser.CAMT053, err)
	}
	enc := xml.NewEncoder(bw)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return parser.WrapWriteError(parser.CAMT053, err)
	}
	if err := bw.WriteByte('\n'); err != nil {
		return parser.WrapWriteError(parser.CAMT053, err)
	}
	if err := bw.Flush(); err != nil {
		return parser.WrapWriteError(parser.CAMT053, err)
	}

	logger.Debug("Wrote camt.053 statement",
		logging.Field{Key: logging.FieldStatement, Value: statement.ID},
		logging.Field{Key: logging.FieldCount, Value: len(statement.Entries)})
	return nil
}

func buildDocument(st *models.Statement, namespace string) xmlDocument {
	stmt := xmlStatement{ID: st.ID}
	stmt.Acct.ID.IBAN = st.AccountID

	if st.OpeningBalance != nil {
		stmt.Bal = append(stmt.Bal, toXMLBalance(st.OpeningBalance, models.BalanceCodeOpening))
	}
	if st.ClosingBalance != nil {
		stmt.Bal = append(stmt.Bal, toXMLBalance(st.ClosingBalance, models.BalanceCodeClosing))
	}

	stmt.Ntry = make([]xmlEntry, 0, len(st.Entries))
	for _, e := range st.Entries {
		stmt.Ntry = append(stmt.Ntry, xmlEntry{
			NtryRef:      e.Ref(),
			Amt:          xmlAmount{Value: e.Amount, Ccy: currencyOrUnknown(e.Currency)},
			CdtDbtInd:    e.Kind.String(),
			ValDt:        xmlDate{Dt: dateutils.ToISODate(e.ValueDate)},
			BookgDt:      xmlDate{Dt: dateutils.ToISODate(e.BookingDate)},
			AddtlNtryInf: e.Description,
		})
	}

	return xmlDocument{
		Xmlns:         namespace,
		BkToCstmrStmt: xmlBkToCstmrStmt{Stmt: stmt},
	}
}

func toXMLBalance(b *models.Balance, code string) xmlBalance {
	var x xmlBalance
	x.Tp.CdOrPrtry.Cd = code
	x.Amt = xmlAmount{Value: b.Amount, Ccy: currencyOrUnknown(b.Currency)}
	x.CdtDbtInd = b.Kind.String()
	x.Dt = xmlDate{Dt: dateutils.ToISODate(b.Date)}
	return x
}

func currencyOrUnknown(c string) string {
	if c == "" {
		return models.UnknownCurrency
	}
	return c
}
