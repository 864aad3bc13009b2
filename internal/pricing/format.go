// Package pricing converts and formats quote amounts for display.
package pricing

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is used when a viewer has no valid locale preference.
const DefaultLocale = "en"

// SupportedLocales lists the locales offered in settings.
var SupportedLocales = []string{"en", "en-GB", "de", "fr", "es", "it", "nl"}

// SupportedCurrencies lists the display currencies offered in settings.
var SupportedCurrencies = []string{"EUR", "USD", "GBP", "CHF"}

// Money is an amount in minor units of a currency.
type Money struct {
	Minor    int64
	Currency string
}

// ParseLocale returns a language tag, falling back to DefaultLocale.
func ParseLocale(raw string) language.Tag {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return language.Make(DefaultLocale)
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return language.Make(DefaultLocale)
	}
	return tag
}

// ParseCurrency validates an ISO 4217 code.
func ParseCurrency(raw string) (currency.Unit, error) {
	return currency.ParseISO(strings.ToUpper(strings.TrimSpace(raw)))
}

// Scale returns the number of minor digits for a currency.
func Scale(unit currency.Unit) int {
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

// Major converts minor units to a float in major units.
func (m Money) Major() (float64, error) {
	unit, err := ParseCurrency(m.Currency)
	if err != nil {
		return 0, err
	}
	return float64(m.Minor) / math.Pow10(Scale(unit)), nil
}

// Format renders money with the currency symbol and locale grouping.
// Unknown currencies are rendered with the raw code.
func Format(m Money, locale string) string {
	p := message.NewPrinter(ParseLocale(locale))
	unit, err := ParseCurrency(m.Currency)
	if err != nil {
		return p.Sprintf("%s %v", strings.ToUpper(m.Currency), number.Decimal(float64(m.Minor)/100, number.Scale(2)))
	}
	scale := Scale(unit)
	major := float64(m.Minor) / math.Pow10(scale)
	symbol := p.Sprint(currency.Symbol(unit))
	return fmt.Sprintf("%s %s", symbol, p.Sprintf("%v", number.Decimal(major, number.Scale(scale))))
}

// Percent renders a ratio in [0,1] as a percentage.
func Percent(ratio float64, locale string) string {
	p := message.NewPrinter(ParseLocale(locale))
	return p.Sprintf("%v", number.Percent(ratio, number.Scale(1)))
}
