package camtparser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"fjacquet/fin-parser/internal/logging"
	"fjacquet/fin-parser/internal/models"
	"fjacquet/fin-parser/internal/parsererror"
	"fjacquet/fin-parser/internal/xmlutils"
)

const formatLabel = "CAMT053"

// cursorState is everything the token loop knows about where it is in the document.
type cursorState struct {
	// local names of the open elements, root first
	path []string
	// character data seen since the last start or end tag
	text strings.Builder

	statement    *models.Statement
	sawStatement bool
	otherAccount string
	// entry being assembled between <Ntry> and </Ntry>
	entry        *models.Entry
	remittance   []string
	hasAddtlInfo bool
}

func newCursorState() *cursorState {
	return &cursorState{statement: &models.Statement{}}
}

// at reports whether the open elements end with the given names
func (c *cursorState) at(names ...string) bool {
	if len(names) > len(c.path) {
		return false
	}
	tail := c.path[len(c.path)-len(names):]
	for i, n := range names {
		if tail[i] != n {
			return false
		}
	}
	return true
}

func (c *cursorState) inside(name string) bool {
	for _, n := range c.path {
		if n == name {
			return true
		}
	}
	return false
}

func (c *cursorState) parent() string {
	if len(c.path) == 0 {
		return ""
	}
	return c.path[len(c.path)-1]
}

func readStatement(r io.Reader, strictID bool, logger logging.Logger) (*models.Statement, error) {
	d := xmlutils.NewDecoder(r)
	c := newCursorState()

	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		line, _ := d.InputPos()
		if err != nil {
			return nil, &parsererror.ParseError{Format: formatLabel, Line: line, Msg: "invalid XML", Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := c.start(d, t); err != nil {
				return nil, withLine(err, line)
			}
		case xml.CharData:
			if len(c.path) > 0 {
				c.text.Write(t)
			}
		case xml.EndElement:
			if err := c.end(t); err != nil {
				return nil, withLine(err, line)
			}
		}
	}

	return c.finish(strictID, logger)
}

func (c *cursorState) start(d *xml.Decoder, t xml.StartElement) error {
	name := t.Name.Local
	c.text.Reset()

	if len(c.path) == 0 && name != "Document" {
		return parsererror.NewParseError(formatLabel, 0, "<"+name+">", "malformed top-level document structure: root element must be Document")
	}

	switch {
	case name == "Bal" && c.parent() == "Stmt":
		// balances have a fixed shape; decode the whole element at once
		var b xmlBalance
		if err := d.DecodeElement(&b, &t); err != nil {
			return &parsererror.ParseError{Format: formatLabel, Msg: "invalid Bal element", Err: err}
		}
		return c.applyBalance(b)
	case name == "Stmt" && c.at("Document", "BkToCstmrStmt"):
		c.sawStatement = true
	case name == "Ntry" && c.parent() == "Stmt":
		c.entry = &models.Entry{Currency: models.UnknownCurrency, Kind: models.Credit}
		c.remittance = nil
		c.hasAddtlInfo = false
	case name == "Amt" && c.parent() == "Ntry" && c.entry != nil:
		if ccy := currencyAttr(t.Attr); ccy != "" {
			c.entry.Currency = strings.ToUpper(ccy)
		}
	}

	c.path = append(c.path, name)
	return nil
}

func (c *cursorState) end(t xml.EndElement) error {
	text := strings.TrimSpace(c.text.String())
	c.text.Reset()

	if err := c.applyText(text); err != nil {
		return err
	}

	c.path = c.path[:len(c.path)-1]
	if t.Name.Local == "Ntry" && c.entry != nil && c.parent() == "Stmt" {
		if !c.hasAddtlInfo && len(c.remittance) > 0 {
			c.entry.Description = strings.Join(c.remittance, " ")
		}
		c.statement.Entries = append(c.statement.Entries, *c.entry)
		c.entry = nil
	}
	return nil
}

// applyText routes the text of the element being closed
func (c *cursorState) applyText(text string) error {
	st := c.statement
	switch {
	case c.at("Stmt", "Id"):
		if st.ID == "" {
			st.ID = text
		}
	case c.at("Stmt", "Acct", "Id", "IBAN"):
		if st.AccountID == "" {
			st.AccountID = models.NormalizeIBAN(text)
		}
	case c.at("Stmt", "Acct", "Id", "Othr", "Id"):
		if c.otherAccount == "" {
			c.otherAccount = text
		}
	}

	if c.entry == nil {
		return nil
	}
	e := c.entry
	switch {
	case c.at("Ntry", "Amt"):
		e.Amount = text
	case c.at("Ntry", "CdtDbtInd"):
		kind, err := parseIndicator(text)
		if err != nil {
			return err
		}
		e.Kind = kind
	case c.at("Ntry", "BookgDt", "Dt"), c.at("Ntry", "BookgDt", "DtTm"):
		e.BookingDate = text
	case c.at("Ntry", "ValDt", "Dt"), c.at("Ntry", "ValDt", "DtTm"):
		e.ValueDate = text
	case c.at("Ntry", "AddtlNtryInf"):
		e.Description = xmlutils.CleanText(text)
		c.hasAddtlInfo = true
	case c.at("Ntry", "NtryRef"):
		e.Reference = models.StringPtr(text)
	case c.at("RmtInf", "Ustrd") && c.inside("Ntry"):
		if text != "" {
			c.remittance = append(c.remittance, xmlutils.CleanText(text))
		}
	}
	return nil
}

func (c *cursorState) applyBalance(b xmlBalance) error {
	kind := models.Credit
	if ind := strings.TrimSpace(b.CdtDbtInd); ind != "" {
		k, err := parseIndicator(ind)
		if err != nil {
			return err
		}
		kind = k
	}
	currency := strings.ToUpper(b.Amt.Ccy)
	if currency == "" {
		currency = models.UnknownCurrency
	}
	balance := &models.Balance{
		Kind:     kind,
		Date:     b.Dt.value(),
		Currency: currency,
		Amount:   b.Amt.Value,
	}

	switch strings.ToUpper(strings.TrimSpace(b.Tp.CdOrPrtry.Cd)) {
	case models.BalanceCodeOpening, models.BalanceCodePreviousClosing:
		if c.statement.OpeningBalance == nil {
			c.statement.OpeningBalance = balance
		}
	case models.BalanceCodeClosing:
		c.statement.ClosingBalance = balance
	}
	return nil
}

func (c *cursorState) finish(strictID bool, logger logging.Logger) (*models.Statement, error) {
	st := c.statement
	if !c.sawStatement {
		return nil, parsererror.NewParseError(formatLabel, 0, "", "malformed top-level document structure: no BkToCstmrStmt/Stmt element")
	}

	if st.ID == "" {
		if strictID {
			return nil, parsererror.NewParseError(formatLabel, 0, "", "missing Stmt/Id statement id")
		}
		logger.Warn("camt.053 statement has no Id, using placeholder",
			logging.Field{Key: logging.FieldStatement, Value: models.NoStatementID})
		st.ID = models.NoStatementID
	}

	if st.AccountID == "" {
		st.AccountID = c.otherAccount
	}
	if st.AccountID == "" {
		logger.Warn("camt.053 statement has no account id")
		st.AccountID = models.Undefined
	}

	logger.Debug("Parsed camt.053 statement",
		logging.Field{Key: logging.FieldStatement, Value: st.ID},
		logging.Field{Key: logging.FieldCount, Value: len(st.Entries)})
	return st, nil
}

func parseIndicator(text string) (models.DebitCredit, error) {
	switch text {
	case models.TransactionTypeCredit:
		return models.Credit, nil
	case models.TransactionTypeDebit:
		return models.Debit, nil
	}
	return models.Debit, parsererror.NewParseError(formatLabel, 0, text, fmt.Sprintf("unknown CdtDbtInd value %q", text))
}

func withLine(err error, line int) error {
	var pe *parsererror.ParseError
	if errors.As(err, &pe) && pe.Line == 0 {
		pe.Line = line
	}
	return err
}
