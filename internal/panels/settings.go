package panels

import (
	"context"

	"github.com/lexquote/lexquote/internal/dashboard"
	"github.com/lexquote/lexquote/internal/pricing"
)

// SettingsData feeds panels/settings.html.
type SettingsData struct {
	Currency   string
	Locale     string
	Currencies []string
	Locales    []string
	Sample     string
}

// Settings shows display preferences. Saving is handled by the dashboard
// handler so the panel stays read-only.
type Settings struct{}

func (p *Settings) Section() dashboard.SectionID { return dashboard.SectionSettings }

func (p *Settings) Load(ctx context.Context, v dashboard.Viewer) (dashboard.Content, error) {
	currency := v.Currency
	if currency == "" {
		currency = pricing.SupportedCurrencies[0]
	}
	locale := v.Locale
	if locale == "" {
		locale = pricing.DefaultLocale
	}
	return dashboard.Content{
		Template: "panels/settings.html",
		Data: SettingsData{
			Currency:   currency,
			Locale:     locale,
			Currencies: pricing.SupportedCurrencies,
			Locales:    pricing.SupportedLocales,
			Sample:     pricing.Format(pricing.Money{Minor: 123456, Currency: currency}, locale),
		},
	}, nil
}
