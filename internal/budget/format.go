package budget

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders amounts for the budget panel in a given locale.
type Formatter struct {
	p *message.Printer
}

// NewFormatter returns a formatter for the BCP 47 tag lang (e.g. "es", "en-GB").
// Unparseable tags fall back to Spanish, the language of the default catalog.
func NewFormatter(lang string) Formatter {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Spanish
	}
	return Formatter{p: message.NewPrinter(tag)}
}

// Cost formats a euro amount with locale digit grouping and no decimals, e.g. "1.200 €".
func (f Formatter) Cost(v float64) string {
	return f.p.Sprint(number.Decimal(v, number.MaxFractionDigits(0))) + " €"
}

// Summary is the one-line panel text, e.g. "1.200 € / 20.000 €".
func (f Formatter) Summary(s State) string {
	return f.Cost(s.Total) + " / " + f.Cost(s.Limit)
}
