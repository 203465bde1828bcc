package mt940parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"fjacquet/fin-parser/internal/currencyutils"
	"fjacquet/fin-parser/internal/dateutils"
	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/models"
	"fjacquet/fin-parser/internal/parser"
)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func writeStatement(w io.Writer, statement *models.Statement, defaultTypeCode string, logger logging.Logger) error {
	if statement == nil {
		return parser.ErrNilStatement
	}

	// render everything first so a conversion error never leaves half a document behind
	lines, err := renderStatement(statement, defaultTypeCode)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return parser.WrapWriteError(parser.MT940, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return parser.WrapWriteError(parser.MT940, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return parser.WrapWriteError(parser.MT940, err)
	}

	logger.Debug("Wrote MT940 statement",
		logging.Field{Key: logging.FieldStatement, Value: statement.ID},
		logging.Field{Key: logging.FieldCount, Value: len(statement.Entries)})
	return nil
}

func renderStatement(statement *models.Statement, defaultTypeCode string) ([]string, error) {
	lines := make([]string, 0, 4+2*len(statement.Entries))
	lines = append(lines,
		TagReference+flatten(statement.ID),
		TagAccount+flatten(statement.AccountID))

	if statement.OpeningBalance != nil {
		b, err := formatBalance(statement.OpeningBalance)
		if err != nil {
			return nil, fmt.Errorf("opening balance: %w", err)
		}
		lines = append(lines, TagOpeningBalance+b)
	}

	for i, entry := range statement.Entries {
		tx, err := formatTransaction(entry, defaultTypeCode)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		lines = append(lines, TagTransaction+tx, TagDescription+flatten(entry.Description))
	}

	if statement.ClosingBalance != nil {
		b, err := formatBalance(statement.ClosingBalance)
		if err != nil {
			return nil, fmt.Errorf("closing balance: %w", err)
		}
		lines = append(lines, TagClosingBalance+b)
	}
	return lines, nil
}

func formatBalance(b *models.Balance) (string, error) {
	date, err := dateutils.ToMT940Date(b.Date)
	if err != nil {
		return "", err
	}
	if len(b.Currency) != 3 {
		return "", fmt.Errorf("currency %q is not a 3-letter code", b.Currency)
	}
	amount, err := currencyutils.FormatMT940Amount(b.Amount)
	if err != nil {
		return "", err
	}
	return b.Kind.Sign() + date + strings.ToUpper(b.Currency) + amount, nil
}

func formatTransaction(e models.Entry, defaultTypeCode string) (string, error) {
	valueDate := e.ValueDate
	if valueDate == "" {
		valueDate = e.BookingDate
	}
	value, err := dateutils.ToMT940Date(valueDate)
	if err != nil {
		return "", fmt.Errorf("value date: %w", err)
	}

	entryDate, err := dateutils.ToMonthDay(e.BookingDate)
	if err != nil {
		// the booking date is optional in practice; fall back to the value date
		entryDate = value[2:]
	}

	amount, err := currencyutils.FormatMT940Amount(e.Amount)
	if err != nil {
		return "", err
	}

	typeCode := e.TypeCode
	if !isTypeCode(typeCode) {
		typeCode = defaultTypeCode
	}

	reference := flatten(e.Ref())
	if reference == "" {
		reference = NoReference
	}

	return value + entryDate + e.Kind.Sign() + amount + typeCode + reference, nil
}

// isTypeCode reports whether code re-reads as the same identification code
func isTypeCode(code string) bool {
	if len(code) != typeCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !isLetter(code[i]) {
			return false
		}
	}
	return true
}

func flatten(s string) string {
	return strings.TrimSpace(lineBreaks.Replace(s))
}
