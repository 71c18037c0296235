// Package format holds the small display transforms the dashboards rely on:
// currency amounts with grouping and symbol, and short human dates.
package format

import (
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Money renders an amount with its currency symbol, e.g.
// Money("NGN", 1250000) -> "NGN 1,250,000.00" (symbol form where the CLDR
// data has one). An unknown currency code renders the bare grouped amount.
func Money(code string, amount float64) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return printer.Sprintf("%.2f", amount)
	}
	return printer.Sprintf("%v", currency.Symbol(unit.Amount(amount)))
}

// Date renders a timestamp the way the dashboards show dates.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// DateTime renders a timestamp with the time of day included.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006 3:04 PM")
}
