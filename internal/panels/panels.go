// Package panels holds the content components rendered inside the
// dashboard shell, one per section.
package panels

import (
	"context"
	"time"

	"github.com/lexquote/lexquote/internal/adminapi"
	"github.com/lexquote/lexquote/internal/dashboard"
	"github.com/lexquote/lexquote/internal/pricing"
)

const loadTimeout = 2 * time.Second

// QuoteAPI exposes quote reads from the admin API.
type QuoteAPI interface {
	QuoteSummary(ctx context.Context, caller adminapi.Caller) (adminapi.QuoteSummary, error)
	ListQuotes(ctx context.Context, caller adminapi.Caller, limit int) ([]adminapi.Quote, error)
}

// UserAPI exposes the user directory.
type UserAPI interface {
	ActiveUserCount(ctx context.Context, caller adminapi.Caller) (int, error)
	ListUsers(ctx context.Context, caller adminapi.Caller) ([]adminapi.User, error)
}

// SystemAPI exposes backend health and sign-in events.
type SystemAPI interface {
	SystemStatus(ctx context.Context, caller adminapi.Caller) (adminapi.SystemStatus, error)
	SecurityEvents(ctx context.Context, caller adminapi.Caller, limit int) ([]adminapi.SecurityEvent, error)
}

// AnalyticsService returns cached analytics summaries.
type AnalyticsService interface {
	Summary(ctx context.Context, period string) (adminapi.AnalyticsSummary, error)
}

// MoneyDisplay converts and formats amounts for a viewer.
type MoneyDisplay interface {
	Display(ctx context.Context, m pricing.Money, preferred, locale string) string
}

// Deps bundles the collaborators used to build the standard panel set.
type Deps struct {
	Quotes    QuoteAPI
	Users     UserAPI
	System    SystemAPI
	Analytics AnalyticsService
	Queues    QueueInspector
	Money     MoneyDisplay
}

// Standard returns one panel per dashboard section.
func Standard(deps Deps) []dashboard.Panel {
	return []dashboard.Panel{
		&Overview{Quotes: deps.Quotes, Users: deps.Users, Money: deps.Money},
		&Quotes{API: deps.Quotes, Money: deps.Money},
		&Users{API: deps.Users},
		&Analytics{Service: deps.Analytics, Money: deps.Money},
		&System{API: deps.System},
		&Security{API: deps.System},
		&Monitoring{Inspector: deps.Queues},
		&Settings{},
	}
}

func callerOf(v dashboard.Viewer) adminapi.Caller {
	return adminapi.Caller{UserID: v.UserID, Role: v.Role.String()}
}

func display(ctx context.Context, money MoneyDisplay, m pricing.Money, v dashboard.Viewer) string {
	if money == nil {
		return pricing.Format(m, v.Locale)
	}
	return money.Display(ctx, m, v.Currency, v.Locale)
}
