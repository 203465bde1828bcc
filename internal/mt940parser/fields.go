package mt940parser

import (
	"fmt"

	"fjacquet/fin-parser/internal/models"
	"fjacquet/fin-parser/internal/parsererror"
)

// typeCodeLength caps the identification code; "NTRFNONREF" is type NTRF, reference NONREF
const typeCodeLength = 4

// transaction is one :61: line plus the text of its :86: line
type transaction struct {
	valueDate   string
	entryMMDD   string
	kind        models.DebitCredit
	amount      string
	typeCode    string
	reference   string
	description string
}

func (tx transaction) toEntry(currency string) models.Entry {
	entry := models.Entry{
		// the entry field has no year; borrow it from the value date
		BookingDate: tx.valueDate[:2] + tx.entryMMDD,
		ValueDate:   tx.valueDate,
		Amount:      tx.amount,
		Currency:    currency,
		Kind:        tx.kind,
		Description: tx.description,
		TypeCode:    tx.typeCode,
	}
	if tx.reference != "" && tx.reference != NoReference {
		entry.Reference = models.StringPtr(tx.reference)
	}
	return entry
}

func fieldError(fragment, format string, args ...interface{}) error {
	return parsererror.NewParseError(formatLabel, 0, fragment, fmt.Sprintf(format, args...))
}

func parseSign(s string) (models.DebitCredit, bool) {
	switch s {
	case "C":
		return models.Credit, true
	case "D":
		return models.Debit, true
	}
	return models.Debit, false
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

func isAmountByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == ',' || c == '.'
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// parseBalance reads <sign:1><date:6><currency:3><amount:rest> (:60F:, :62F:)
func parseBalance(s string) (*models.Balance, error) {
	if len(s) < 1+6+3 {
		return nil, fieldError(s, "balance too short")
	}
	kind, ok := parseSign(s[0:1])
	if !ok {
		return nil, fieldError(s, "unknown balance sign %q", s[0:1])
	}
	date := s[1:7]
	if !isDigits(date) {
		return nil, fieldError(s, "balance date %q is not YYMMDD", date)
	}
	amount := s[10:]
	if amount == "" {
		return nil, fieldError(s, "balance amount missing")
	}
	for i := 0; i < len(amount); i++ {
		if !isAmountByte(amount[i]) {
			return nil, fieldError(s, "balance amount %q is not a number", amount)
		}
	}
	return &models.Balance{
		Kind:     kind,
		Date:     date,
		Currency: s[7:10],
		Amount:   amount,
	}, nil
}

// parseTransaction reads <date:6><entry_mmdd:4><sign:1><amount><type_code><reference> (:61:)
func parseTransaction(s string) (transaction, error) {
	var tx transaction
	if len(s) < 6+4+1+1 {
		return tx, fieldError(s, ":61: too short")
	}
	tx.valueDate = s[0:6]
	if !isDigits(tx.valueDate) {
		return tx, fieldError(s, ":61: value date %q is not YYMMDD", tx.valueDate)
	}
	tx.entryMMDD = s[6:10]
	if !isDigits(tx.entryMMDD) {
		return tx, fieldError(s, ":61: entry date %q is not MMDD", tx.entryMMDD)
	}
	kind, ok := parseSign(s[10:11])
	if !ok {
		return tx, fieldError(s, ":61: bad sign %q", s[10:11])
	}
	tx.kind = kind

	i := 11
	for i < len(s) && isAmountByte(s[i]) {
		i++
	}
	if i == 11 {
		return tx, fieldError(s, ":61: amount missing")
	}
	tx.amount = s[11:i]

	start := i
	for i < len(s) && i-start < typeCodeLength && isLetter(s[i]) {
		i++
	}
	if i == start {
		return tx, fieldError(s, ":61: type code missing")
	}
	tx.typeCode = s[start:i]
	tx.reference = s[i:]
	return tx, nil
}
