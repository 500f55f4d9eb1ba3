package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

// Pagination bounds
const (
	MinPage         = 1
	MinPageSize     = 10
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// Credential rules
const (
	MinPasswordLength = 6
	MinNameLength     = 2
	PINLength         = 6
)

// TokenTTLDays is the validity window of issued bearer tokens.
const TokenTTLDays = 7
