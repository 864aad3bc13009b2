// Package quotes serves downloadable quotation documents.
package quotes

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/lexquote/lexquote/internal/adminapi"
	"github.com/lexquote/lexquote/internal/pricing"
)

// MoneyDisplay converts and formats amounts for a viewer.
type MoneyDisplay interface {
	Display(ctx context.Context, m pricing.Money, preferred, locale string) string
}

// Document feeds pdf/quote.html.
type Document struct {
	Brand         string
	Locale        string
	Reference     string
	ClientName    string
	Mark          string
	Classes       string
	Jurisdictions string
	CreatedAt     time.Time
	ValidUntil    time.Time
	Lines         []DocumentLine
	Total         string
}

// DocumentLine is one printed fee line.
type DocumentLine struct {
	Description  string
	Jurisdiction string
	Amount       string
}

// BuildDocument prepares a quote for printing in the viewer's display
// currency and locale.
func BuildDocument(ctx context.Context, q adminapi.Quote, money MoneyDisplay, brand, currency, locale string) Document {
	format := func(minor int64) string {
		m := pricing.Money{Minor: minor, Currency: q.Currency}
		if money == nil {
			return pricing.Format(m, locale)
		}
		return money.Display(ctx, m, currency, locale)
	}

	classes := make([]string, 0, len(q.Classes))
	for _, c := range q.Classes {
		classes = append(classes, strconv.Itoa(c))
	}
	lines := make([]DocumentLine, 0, len(q.Lines))
	for _, l := range q.Lines {
		lines = append(lines, DocumentLine{
			Description:  l.Description,
			Jurisdiction: l.Jurisdiction,
			Amount:       format(l.AmountMinor),
		})
	}
	return Document{
		Brand:         brand,
		Locale:        pricing.ParseLocale(locale).String(),
		Reference:     q.Reference,
		ClientName:    q.ClientName,
		Mark:          q.Mark,
		Classes:       strings.Join(classes, ", "),
		Jurisdictions: strings.Join(q.Jurisdictions, ", "),
		CreatedAt:     q.CreatedAt,
		ValidUntil:    q.ValidUntil,
		Lines:         lines,
		Total:         format(q.AmountMinor),
	}
}

// Filename returns a safe attachment name for the quote.
func Filename(q adminapi.Quote) string {
	ref := q.Reference
	if ref == "" {
		ref = q.ID
	}
	var b strings.Builder
	for _, r := range ref {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "quote.pdf"
	}
	return "quote-" + b.String() + ".pdf"
}
