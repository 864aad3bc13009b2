package panels

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/lexquote/lexquote/internal/dashboard"
	"github.com/lexquote/lexquote/internal/pricing"
	"github.com/lexquote/lexquote/internal/shared"
)

const quoteListLimit = 50

// QuoteRow is one quote line in the table.
type QuoteRow struct {
	ID            string
	Reference     string
	Mark          string
	Classes       int
	Jurisdictions string
	Amount        string
	Status        string
	CreatedAt     time.Time
	PDFHref       string
}

// QuotesData feeds panels/quotes.html.
type QuotesData struct {
	Rows      []QuoteRow
	CanExport bool
}

// Quotes lists the viewer's quotations.
type Quotes struct {
	API   QuoteAPI
	Money MoneyDisplay
}

func (p *Quotes) Section() dashboard.SectionID { return dashboard.SectionQuotes }

func (p *Quotes) Load(ctx context.Context, v dashboard.Viewer) (dashboard.Content, error) {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	quotes, err := p.API.ListQuotes(ctx, callerOf(v), quoteListLimit)
	if err != nil {
		return dashboard.Content{}, err
	}
	canExport := v.Capabilities.Has(shared.PermQuotesExport)
	rows := make([]QuoteRow, 0, len(quotes))
	for _, q := range quotes {
		row := QuoteRow{
			ID:            q.ID,
			Reference:     q.Reference,
			Mark:          q.Mark,
			Classes:       len(q.Classes),
			Jurisdictions: strings.Join(q.Jurisdictions, ", "),
			Amount:        display(ctx, p.Money, pricing.Money{Minor: q.AmountMinor, Currency: q.Currency}, v),
			Status:        q.Status,
			CreatedAt:     q.CreatedAt,
		}
		if canExport {
			row.PDFHref = "/quotes/" + url.PathEscape(q.ID) + "/pdf"
		}
		rows = append(rows, row)
	}
	return dashboard.Content{
		Template: "panels/quotes.html",
		Data:     QuotesData{Rows: rows, CanExport: canExport},
	}, nil
}
