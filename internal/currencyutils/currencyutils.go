// Package currencyutils provides the decimal operations applied to textual amounts at codec
// boundaries. Amounts stay strings in the statement model; decimal.Decimal is only used to
// validate and re-format them.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	symbolsAndSpaces = regexp.MustCompile(`[€$£¥₣₤₧₹₺₽₩฿₫₲₴₸₼₪\s\x{00A0}\x{202F}']`)
	mt940Amount      = regexp.MustCompile(`^[0-9]+(,[0-9]*)?$`)
)

// CleanAmount removes spaces and non-breaking spaces and turns a decimal comma into a dot.
// "1 234,50" becomes "1234.50".
func CleanAmount(amountStr string) string {
	amountStr = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(strings.TrimSpace(amountStr))
	return strings.ReplaceAll(amountStr, ",", ".")
}

// groupedDigits matches a thousands group after the first one
var groupedDigits = regexp.MustCompile(`^[0-9]{3}$`)

// standardize converts the currency string formats found in statements to a form
// decimal.NewFromString accepts. Handled: "1'234.56", "€1.234,56", "$1,234.56", "1 234,56",
// "100,00", "1,234,567". A lone comma is always the decimal separator, as in MT940, so
// "1,234" is 1.234.
func standardize(amountStr string) (string, error) {
	amountStr = strings.TrimSpace(amountStr)
	amountStr = strings.TrimPrefix(strings.TrimPrefix(amountStr, "CHF"), "RUB")
	amountStr = symbolsAndSpaces.ReplaceAllString(amountStr, "")

	commas := strings.Count(amountStr, ",")
	switch {
	case commas > 0 && strings.Contains(amountStr, "."):
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// European format (1.234,56)
			i := strings.LastIndex(amountStr, ",")
			whole, ok := ungroup(amountStr[:i], ".")
			if !ok || commas > 1 {
				return "", fmt.Errorf("malformed digit grouping")
			}
			amountStr = whole + "." + amountStr[i+1:]
		} else {
			// 1,234.56
			i := strings.LastIndex(amountStr, ".")
			whole, ok := ungroup(amountStr[:i], ",")
			if !ok {
				return "", fmt.Errorf("malformed digit grouping")
			}
			amountStr = whole + amountStr[i:]
		}
	case commas == 1:
		// decimal comma (1234,56)
		amountStr = strings.Replace(amountStr, ",", ".", 1)
	case commas > 1:
		// thousands separators only (1,234,567)
		whole, ok := ungroup(amountStr, ",")
		if !ok {
			return "", fmt.Errorf("malformed digit grouping")
		}
		amountStr = whole
	}

	// MT940 allows a bare trailing separator ("100,")
	return strings.TrimSuffix(amountStr, "."), nil
}

// ungroup removes thousands separators, requiring every group after the first to have
// exactly three digits and the first to have one to three.
func ungroup(s, sep string) (string, bool) {
	if !strings.Contains(s, sep) {
		return s, true
	}
	groups := strings.Split(s, sep)
	first := strings.TrimPrefix(strings.TrimPrefix(groups[0], "-"), "+")
	if len(first) == 0 || len(first) > 3 {
		return "", false
	}
	for _, g := range groups[1:] {
		if !groupedDigits.MatchString(g) {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

// ParseAmount parses a string representation of an amount into a decimal value
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized, err := standardize(amountStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': empty", amountStr)
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// ValidateAmount reports whether amountStr is a number, without changing it.
func ValidateAmount(amountStr string) error {
	_, err := ParseAmount(amountStr)
	return err
}

// FormatMT940Amount formats an amount the MT940 way: unsigned, two decimals, comma separator.
// "100.5" and "100,5" both become "100,50". An amount that needs more than two decimals is
// an error rather than being rounded.
func FormatMT940Amount(amountStr string) (string, error) {
	amount, err := ParseAmount(amountStr)
	if err != nil {
		return "", err
	}
	if !amount.Equal(amount.Round(2)) {
		return "", fmt.Errorf("amount '%s' has more than two decimals", amountStr)
	}
	return strings.Replace(amount.Abs().StringFixed(2), ".", ",", 1), nil
}

// IsMT940Amount reports whether s already is an MT940 amount (digits with an optional comma part)
func IsMT940Amount(s string) bool {
	return mt940Amount.MatchString(s)
}
