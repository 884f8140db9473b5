package security

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig tunes the request budgets and the ban policy.
type RateLimiterConfig struct {
	// AuthenticatedRPS and UnauthenticatedRPS are the global token bucket
	// rates for the two request classes.
	AuthenticatedRPS   float64
	UnauthenticatedRPS float64
	Burst              int

	// PerClientRPS bounds each individual client address.
	PerClientRPS   float64
	PerClientBurst int

	// BanThreshold is the number of violations after which a client is
	// banned for BanDuration.
	BanThreshold int
	BanDuration  time.Duration

	// MaxClients caps the per-client limiter map; the least recently seen
	// client is evicted when the cap is hit.
	MaxClients int
}

// RateLimiterStats is a point-in-time snapshot of limiter state.
type RateLimiterStats struct {
	ActiveClients   int `json:"active_clients"`
	BannedClients   int `json:"banned_clients"`
	TotalViolations int `json:"total_violations"`
}

type clientState struct {
	limiter    *rate.Limiter
	lastSeen   time.Time
	violations int
}

// RateLimiter enforces three budgets per request: a global one for the
// request's class (authenticated or not), and a per-client one keyed by
// address. Clients that keep violating get banned for a fixed duration.
// Expired bans and stale client state are swept lazily on the request path,
// so no background goroutine is needed. Safe for concurrent use.
type RateLimiter struct {
	config RateLimiterConfig

	authenticated   *rate.Limiter
	unauthenticated *rate.Limiter

	mu              sync.Mutex
	clients         map[string]*clientState
	banned          map[string]time.Time
	totalViolations int
	lastCleanup     time.Time
}

const cleanupInterval = time.Minute

// NewRateLimiter creates a rate limiter from config.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	return &RateLimiter{
		config:          config,
		authenticated:   rate.NewLimiter(rate.Limit(config.AuthenticatedRPS), config.Burst),
		unauthenticated: rate.NewLimiter(rate.Limit(config.UnauthenticatedRPS), config.Burst),
		clients:         make(map[string]*clientState),
		banned:          make(map[string]time.Time),
		lastCleanup:     time.Now(),
	}
}

// Allow admits or rejects one request from client. A nil return means the
// request may proceed.
func (r *RateLimiter) Allow(client string, authenticated bool) *Error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.maybeCleanup(now)

	if until, ok := r.banned[client]; ok {
		if now.Before(until) {
			return newError(ViolationIPBanned, SeverityHigh, "client %s banned until %s", client, until.Format(time.RFC3339))
		}
		delete(r.banned, client)
	}

	global := r.unauthenticated
	if authenticated {
		global = r.authenticated
	}
	if !global.Allow() {
		r.recordViolation(client, now)
		return newError(ViolationRateLimit, SeverityMedium, "global %s limit exceeded", requestClass(authenticated))
	}

	state := r.clientFor(client, now)
	if !state.limiter.Allow() {
		r.recordViolation(client, now)
		return newError(ViolationRateLimit, SeverityMedium, "per-client limit exceeded for %s", client)
	}
	return nil
}

func requestClass(authenticated bool) string {
	if authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// clientFor returns the limiter state for a client, creating it and
// evicting the least recently seen client when the map is full. Caller
// holds mu.
func (r *RateLimiter) clientFor(client string, now time.Time) *clientState {
	if state, ok := r.clients[client]; ok {
		state.lastSeen = now
		return state
	}

	if r.config.MaxClients > 0 && len(r.clients) >= r.config.MaxClients {
		r.evictOldest()
	}

	state := &clientState{
		limiter:  rate.NewLimiter(rate.Limit(r.config.PerClientRPS), r.config.PerClientBurst),
		lastSeen: now,
	}
	r.clients[client] = state
	return state
}

// evictOldest removes the least recently seen client. Caller holds mu.
func (r *RateLimiter) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	first := true

	for key, state := range r.clients {
		if first || state.lastSeen.Before(oldestTime) {
			oldestKey = key
			oldestTime = state.lastSeen
			first = false
		}
	}
	if !first {
		delete(r.clients, oldestKey)
	}
}

// recordViolation bumps the client's violation counter and bans it once the
// threshold is crossed. Caller holds mu.
func (r *RateLimiter) recordViolation(client string, now time.Time) {
	r.totalViolations++

	state := r.clientFor(client, now)
	state.violations++
	if r.config.BanThreshold > 0 && state.violations >= r.config.BanThreshold {
		r.banned[client] = now.Add(r.config.BanDuration)
		state.violations = 0
	}
}

// maybeCleanup sweeps expired bans and stale clients at most once per
// cleanup interval. Caller holds mu.
func (r *RateLimiter) maybeCleanup(now time.Time) {
	if now.Sub(r.lastCleanup) < cleanupInterval {
		return
	}
	r.lastCleanup = now

	for client, until := range r.banned {
		if !now.Before(until) {
			delete(r.banned, client)
		}
	}

	stale := now.Add(-time.Hour)
	for client, state := range r.clients {
		if state.lastSeen.Before(stale) {
			delete(r.clients, client)
		}
	}
}

// Stats returns a snapshot of limiter state.
func (r *RateLimiter) Stats() RateLimiterStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return RateLimiterStats{
		ActiveClients:   len(r.clients),
		BannedClients:   len(r.banned),
		TotalViolations: r.totalViolations,
	}
}
