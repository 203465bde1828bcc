package models

// Sentinels used by readers when the source format omits a value
const (
	// UnknownCurrency is the ISO 4217 code for "no currency involved"
	UnknownCurrency = "XXX"
	// NoStatementID marks a statement whose source carried no identifier
	NoStatementID = "none"
	// Undefined is written for fields a target format has a column for but the model has no value
	Undefined = "undefined"
)

// Credit/debit indicators as used by camt.053 and the CSV exports
const (
	TransactionTypeDebit  = "DBIT"
	TransactionTypeCredit = "CRDT"
)

// Balance type codes (camt.053 Bal/Tp/CdOrPrtry/Cd)
const (
	BalanceCodeOpening         = "OPBD"
	BalanceCodePreviousClosing = "PRCD"
	BalanceCodeClosing         = "CLBD"
)

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionOutputFile = 0644
)
