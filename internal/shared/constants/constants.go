// Package constants defines shared constant values used across the application.
package constants

// Gin context keys set by the auth middleware.
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

// Database table names.
const (
	TableUsers         = "users"
	TableLocations     = "locations"
	TableResources     = "resources"
	TableRequests      = "network_requests"
	TableAllocations   = "request_resources"
	TableNotifications = "notifications"
)

// Pagination defaults.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
