package panels

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/lexquote/lexquote/internal/adminapi"
	"github.com/lexquote/lexquote/internal/dashboard"
	"github.com/lexquote/lexquote/internal/pricing"
	"github.com/lexquote/lexquote/internal/shared"
)

// OverviewData feeds panels/overview.html.
type OverviewData struct {
	TotalQuotes    int
	OpenQuotes     int
	OpenValue      string
	ActiveUsers    int
	ShowUserCounts bool
}

// Overview shows headline figures.
type Overview struct {
	Quotes QuoteAPI
	Users  UserAPI
	Money  MoneyDisplay
}

func (p *Overview) Section() dashboard.SectionID { return dashboard.SectionOverview }

func (p *Overview) Load(ctx context.Context, v dashboard.Viewer) (dashboard.Content, error) {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	caller := callerOf(v)
	showUsers := p.Users != nil && v.Capabilities.Has(shared.PermUsersView)

	var summary adminapi.QuoteSummary
	var active int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = p.Quotes.QuoteSummary(gctx, caller)
		return err
	})
	if showUsers {
		g.Go(func() error {
			var err error
			active, err = p.Users.ActiveUserCount(gctx, caller)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return dashboard.Content{}, err
	}

	return dashboard.Content{
		Template: "panels/overview.html",
		Data: OverviewData{
			TotalQuotes:    summary.Total,
			OpenQuotes:     summary.Open,
			OpenValue:      display(ctx, p.Money, pricing.Money{Minor: summary.OpenValueMinor, Currency: summary.Currency}, v),
			ActiveUsers:    active,
			ShowUserCounts: showUsers,
		},
	}, nil
}
