// Package format renders numeric and date values the way the marketplace UI
// displays them: Brazilian Portuguese locale, BRL currency, tons of
// CO₂-equivalent. All functions are pure.
package format

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

func decimal(value float64) number.Formatter {
	return number.Decimal(value, number.MinFractionDigits(2), number.MaxFractionDigits(2))
}

// Currency formats a BRL amount: 1234.5 → "R$ 1.234,50".
func Currency(value float64) string {
	return printer.Sprintf("R$ %v", decimal(value))
}

// Tons formats a CO₂-equivalent tonnage: 500.5 → "500,50 tCO₂".
func Tons(value float64) string {
	return printer.Sprintf("%v tCO₂", decimal(value))
}

// Date renders a timestamp with date and time, pt-BR order.
func Date(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}

// DateShort renders only the date part.
func DateShort(t time.Time) string {
	return t.Format("02/01/2006")
}

// RelativeTime renders how far target lies ahead of now, for hold countdowns:
// "Expirado" once passed, then "45s", "12min", "1h 5min".
func RelativeTime(target, now time.Time) string {
	diff := target.Sub(now)
	if diff < 0 {
		return "Expirado"
	}

	seconds := int(diff.Seconds())
	minutes := seconds / 60
	hours := minutes / 60

	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case minutes < 60:
		return fmt.Sprintf("%dmin", minutes)
	default:
		return fmt.Sprintf("%dh %dmin", hours, minutes%60)
	}
}
