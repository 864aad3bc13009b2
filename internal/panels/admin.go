package panels

import (
	"context"
	"sort"

	"github.com/lexquote/lexquote/internal/adminapi"
	"github.com/lexquote/lexquote/internal/dashboard"
	"github.com/lexquote/lexquote/internal/pricing"
)

// UsersData feeds panels/users.html.
type UsersData struct {
	Users  []adminapi.User
	Active int
}

// Users is the user directory.
type Users struct {
	API UserAPI
}

func (p *Users) Section() dashboard.SectionID { return dashboard.SectionUsers }

func (p *Users) Load(ctx context.Context, v dashboard.Viewer) (dashboard.Content, error) {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	users, err := p.API.ListUsers(ctx, callerOf(v))
	if err != nil {
		return dashboard.Content{}, err
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	active := 0
	for _, u := range users {
		if u.Active {
			active++
		}
	}
	return dashboard.Content{Template: "panels/users.html", Data: UsersData{Users: users, Active: active}}, nil
}

// AnalyticsData feeds panels/analytics.html.
type AnalyticsData struct {
	Period           string
	QuotesIssued     int
	QuotesAccepted   int
	Conversion       string
	Revenue          string
	TopJurisdictions []adminapi.JurisdictionCount
}

// Analytics shows conversion figures for the current month.
type Analytics struct {
	Service AnalyticsService
	Money   MoneyDisplay
}

func (p *Analytics) Section() dashboard.SectionID { return dashboard.SectionAnalytics }

func (p *Analytics) Load(ctx context.Context, v dashboard.Viewer) (dashboard.Content, error) {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	summary, err := p.Service.Summary(ctx, "")
	if err != nil {
		return dashboard.Content{}, err
	}
	return dashboard.Content{
		Template: "panels/analytics.html",
		Data: AnalyticsData{
			Period:           summary.Period,
			QuotesIssued:     summary.QuotesIssued,
			QuotesAccepted:   summary.QuotesAccepted,
			Conversion:       pricing.Percent(summary.ConversionRate(), v.Locale),
			Revenue:          display(ctx, p.Money, pricing.Money{Minor: summary.RevenueMinor, Currency: summary.Currency}, v),
			TopJurisdictions: summary.TopJurisdictions,
		},
	}, nil
}
