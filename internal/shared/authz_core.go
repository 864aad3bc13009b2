package shared

// Dashboard capabilities handed to content panels.
const (
	PermQuotesView   = "quotes.view"
	PermQuotesExport = "quotes.export"

	PermSettingsEdit = "settings.edit"

	PermUsersView     = "users.view"
	PermAnalyticsView = "analytics.view"

	PermSystemView     = "system.view"
	PermSecurityView   = "security.view"
	PermMonitoringView = "monitoring.view"
)

// UserScopes lists capabilities granted to every authenticated user.
func UserScopes() []string {
	return []string{
		PermQuotesView,
		PermQuotesExport,
		PermSettingsEdit,
	}
}

// AdminScopes lists capabilities added for administrators.
func AdminScopes() []string {
	return []string{
		PermUsersView,
		PermAnalyticsView,
	}
}

// SuperAdminScopes lists capabilities added for super administrators.
func SuperAdminScopes() []string {
	return []string{
		PermSystemView,
		PermSecurityView,
		PermMonitoringView,
	}
}
