package utils

import (
	"time"
)

// Context keys used to carry request metadata into business flows
type ContextKey string

const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for admin access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for admin refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Moderation constants
const (
	// ModerationLockTTL bounds how long a per-account moderation lock may be
	// held before it expires on its own (crash safety for the redis lock).
	ModerationLockTTL = 30 * time.Second

	// ModerationLockKeyPrefix is the redis key prefix for per-account locks
	ModerationLockKeyPrefix = "moderation:lock"
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)
