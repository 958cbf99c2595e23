// Package format renders amounts for people.
package format

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	unit    currency.Unit
}

// New creates a formatter for a BCP 47 locale and an ISO 4217 currency code.
func New(locale, code string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("parsing currency %q: %w", code, err)
	}

	return &Formatter{tag: tag, printer: message.NewPrinter(tag), unit: unit}, nil
}

// Tag returns the locale the formatter was built for.
func (f *Formatter) Tag() language.Tag {
	return f.tag
}

// Money renders d with the currency symbol and two decimals.
func (f *Formatter) Money(d decimal.Decimal) string {
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(d.Round(2).InexactFloat64())))
}

// Number renders d with grouping and two decimals.
func (f *Formatter) Number(d decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(2)))
}

// Count renders an integer with grouping.
func (f *Formatter) Count(n int) string {
	return f.printer.Sprint(number.Decimal(n))
}

// Text parses s and renders it as Number. Text that is not a number is returned
// unchanged.
func (f *Formatter) Text(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}

	return f.Number(d)
}
