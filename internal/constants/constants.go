package constants

// Session
const (
	SessionCookieName = "teamhub_session"
	ContextKeyUserID  = "user_id"
)

// Passwords
const (
	MinPasswordLength = 8
)

// Join codes
const (
	JoinCodeLength      = 8
	JoinCodeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	MaxJoinCodeAttempts = 5
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
