package adminapi

import "time"

// Quote is a trademark filing quotation. Amounts are in minor units.
type Quote struct {
	ID            string    `json:"id"`
	Reference     string    `json:"reference"`
	ClientName    string    `json:"client_name"`
	Mark          string    `json:"mark"`
	Classes       []int     `json:"classes"`
	Jurisdictions []string  `json:"jurisdictions"`
	Lines         []Line    `json:"lines"`
	AmountMinor   int64     `json:"amount_minor"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	ValidUntil    time.Time `json:"valid_until"`
}

// Line is a single fee line on a quote.
type Line struct {
	Description  string `json:"description"`
	Jurisdiction string `json:"jurisdiction"`
	AmountMinor  int64  `json:"amount_minor"`
}

// QuoteSummary aggregates quotes visible to the caller.
type QuoteSummary struct {
	Total          int    `json:"total"`
	Open           int    `json:"open"`
	OpenValueMinor int64  `json:"open_value_minor"`
	Currency       string `json:"currency"`
}

// User is a directory entry.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// JurisdictionCount is a ranked jurisdiction in analytics.
type JurisdictionCount struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// AnalyticsSummary holds conversion figures for a period.
type AnalyticsSummary struct {
	Period           string              `json:"period"`
	QuotesIssued     int                 `json:"quotes_issued"`
	QuotesAccepted   int                 `json:"quotes_accepted"`
	RevenueMinor     int64               `json:"revenue_minor"`
	Currency         string              `json:"currency"`
	TopJurisdictions []JurisdictionCount `json:"top_jurisdictions"`
}

// ConversionRate returns accepted/issued in the range [0,1].
func (a AnalyticsSummary) ConversionRate() float64 {
	if a.QuotesIssued <= 0 {
		return 0
	}
	return float64(a.QuotesAccepted) / float64(a.QuotesIssued)
}

// ComponentStatus is the health of one backend dependency.
type ComponentStatus struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Detail  string `json:"detail"`
}

// SystemStatus describes the backend deployment.
type SystemStatus struct {
	Version       string            `json:"version"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Components    []ComponentStatus `json:"components"`
}

// Healthy reports whether every component is healthy.
func (s SystemStatus) Healthy() bool {
	for _, c := range s.Components {
		if !c.Healthy {
			return false
		}
	}
	return true
}

// SecurityEvent is a sign-in attempt.
type SecurityEvent struct {
	At        time.Time `json:"at"`
	UserEmail string    `json:"user_email"`
	IP        string    `json:"ip"`
	Kind      string    `json:"kind"`
	Success   bool      `json:"success"`
}
