// Package dateutils recognizes the date shapes found in bank statements and re-formats them
// at codec boundaries. Dates are stored as text in the statement model, so every helper here
// takes and returns strings; unrecognized input is passed through or reported, never guessed.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts used by the supported statement formats
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutCompact  = "20060102"
	DateLayoutMT940    = "060102"
	DateLayoutMonthDay = "0102"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutDateTime = "2006-01-02T15:04:05"
)

// CommonFormats is the ordered list of layouts tried by ParseDate.
// Six and eight digit forms are unambiguous by length, so they come first.
var CommonFormats = []string{
	DateLayoutMT940,
	DateLayoutCompact,
	DateLayoutISO,
	DateLayoutEuropean,
	DateLayoutDateTime,
	DateLayoutDateTime + ".000",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02.01.06",
}

var whitespace = regexp.MustCompile(`\s+`)

// ParseDate attempts to parse a date string using CommonFormats.
// Returns the parsed time and the detected layout.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)
	if dateStr == "" {
		return time.Time{}, "", fmt.Errorf("unable to parse date: empty")
	}

	for _, layout := range CommonFormats {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, layout, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// CleanDateString trims and collapses whitespace
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ToISODate re-formats a recognized date as YYYY-MM-DD. Anything else is returned unchanged.
func ToISODate(dateStr string) string {
	t, _, err := ParseDate(dateStr)
	if err != nil {
		return dateStr
	}
	return t.Format(DateLayoutISO)
}

// ToMT940Date re-formats a recognized date as YYMMDD.
func ToMT940Date(dateStr string) (string, error) {
	t, _, err := ParseDate(dateStr)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayoutMT940), nil
}

// ToMonthDay re-formats a recognized date as MMDD, the MT940 entry date field.
func ToMonthDay(dateStr string) (string, error) {
	t, _, err := ParseDate(dateStr)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayoutMonthDay), nil
}

// IsMonthDay reports whether s is a plausible 4-digit MMDD value
func IsMonthDay(s string) bool {
	if len(s) != 4 {
		return false
	}
	// Feb 29 must parse regardless of year
	_, err := time.Parse("2006"+DateLayoutMonthDay, "2000"+s)
	return err == nil
}

// CompareDates compares two textual dates by calendar day:
//
//	-1 if date1 is before date2
//	 0 if date1 is equal to date2
//	 1 if date1 is after date2
//
// An error is returned when either date is not recognized.
func CompareDates(date1, date2 string) (int, error) {
	t1, _, err := ParseDate(date1)
	if err != nil {
		return 0, err
	}
	t2, _, err := ParseDate(date2)
	if err != nil {
		return 0, err
	}
	t1 = time.Date(t1.Year(), t1.Month(), t1.Day(), 0, 0, 0, 0, time.UTC)
	t2 = time.Date(t2.Year(), t2.Month(), t2.Day(), 0, 0, 0, 0, time.UTC)

	switch {
	case t1.Before(t2):
		return -1, nil
	case t1.After(t2):
		return 1, nil
	default:
		return 0, nil
	}
}
