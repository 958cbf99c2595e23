package view

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
	"github.com/MrJamesThe3rd/backoffice/internal/format"
)

// Formatter renders amounts in every screen. It is set once by main.
var Formatter *format.Formatter

// FormatAmount renders an API amount, falling back to the raw text.
func FormatAmount(n api.Numeric) string {
	d, ok := n.Decimal()
	if !ok || Formatter == nil {
		return string(n)
	}

	return Formatter.Money(d)
}

// FormatQuantity renders a stock quantity.
func FormatQuantity(n api.Numeric) string {
	if Formatter == nil {
		return string(n)
	}

	return Formatter.Text(string(n))
}

func money(d decimal.Decimal) string {
	if Formatter == nil {
		return d.StringFixed(2)
	}

	return Formatter.Money(d)
}
