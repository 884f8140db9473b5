package security

import (
	"strings"
	"time"
)

// PolicyConfig declares the network and transport policy for the API.
type PolicyConfig struct {
	// BlockedIPs are rejected outright (exact match).
	BlockedIPs []string

	// RequireTLS demands an https forwarded protocol; MinTLSVersion (e.g.
	// "1.2") additionally bounds the negotiated version when present.
	RequireTLS    bool
	MinTLSVersion string

	// AllowedOrigins restricts the Origin header when non-empty.
	AllowedOrigins []string

	// MaxRequestSize bounds the declared request body size in bytes;
	// zero disables the check.
	MaxRequestSize int64

	// BlockedEndpoints and AllowedEndpoints are path patterns: "*", an
	// exact path, "prefix*" or "*suffix". Blocked patterns win; an empty
	// allow list allows everything not blocked.
	BlockedEndpoints []string
	AllowedEndpoints []string

	// MaxSessionAge bounds how old a session timestamp may be; zero
	// disables the check.
	MaxSessionAge time.Duration
}

// tlsVersionRank orders TLS versions for minimum-version comparison.
var tlsVersionRank = map[string]int{
	"1.0": 10,
	"1.1": 11,
	"1.2": 12,
	"1.3": 13,
}

// PolicyEnforcer applies PolicyConfig to individual requests. Stateless and
// safe for concurrent use.
type PolicyEnforcer struct {
	config     PolicyConfig
	blockedIPs map[string]struct{}
}

// NewPolicyEnforcer creates an enforcer from config.
func NewPolicyEnforcer(config PolicyConfig) *PolicyEnforcer {
	blocked := make(map[string]struct{}, len(config.BlockedIPs))
	for _, ip := range config.BlockedIPs {
		blocked[ip] = struct{}{}
	}
	return &PolicyEnforcer{config: config, blockedIPs: blocked}
}

// CheckIP rejects clients on the block list.
func (p *PolicyEnforcer) CheckIP(ip string) *Error {
	if _, blocked := p.blockedIPs[ip]; blocked {
		return newError(ViolationIPBlocked, SeverityHigh, "ip %s is blocked", ip)
	}
	return nil
}

// CheckTLS verifies the forwarded protocol and, when advertised, the TLS
// version against the policy. forwardedProto comes from X-Forwarded-Proto
// and tlsVersion from the terminating proxy (empty when unknown).
func (p *PolicyEnforcer) CheckTLS(forwardedProto, tlsVersion string) *Error {
	if !p.config.RequireTLS {
		return nil
	}

	if !strings.EqualFold(forwardedProto, "https") {
		return newError(ViolationTLSRequired, SeverityMedium, "plaintext request where TLS is required")
	}

	if p.config.MinTLSVersion != "" && tlsVersion != "" {
		minRank, okMin := tlsVersionRank[p.config.MinTLSVersion]
		gotRank, okGot := tlsVersionRank[tlsVersion]
		if okMin && okGot && gotRank < minRank {
			return newError(ViolationTLSRequired, SeverityMedium, "TLS %s below minimum %s", tlsVersion, p.config.MinTLSVersion)
		}
	}
	return nil
}

// CheckOrigin verifies the Origin header against the allow list. Requests
// without an Origin header (non-browser clients) pass.
func (p *PolicyEnforcer) CheckOrigin(origin string) *Error {
	if origin == "" || len(p.config.AllowedOrigins) == 0 {
		return nil
	}
	for _, allowed := range p.config.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return nil
		}
	}
	return newError(ViolationPolicy, SeverityMedium, "origin %s not allowed", origin)
}

// CheckEndpoint applies the endpoint patterns. Blocked patterns are
// evaluated before allowed ones.
func (p *PolicyEnforcer) CheckEndpoint(path string) *Error {
	for _, pattern := range p.config.BlockedEndpoints {
		if matchEndpoint(pattern, path) {
			return newError(ViolationPolicy, SeverityMedium, "endpoint %s is blocked", path)
		}
	}

	if len(p.config.AllowedEndpoints) == 0 {
		return nil
	}
	for _, pattern := range p.config.AllowedEndpoints {
		if matchEndpoint(pattern, path) {
			return nil
		}
	}
	return newError(ViolationPolicy, SeverityMedium, "endpoint %s not in allow list", path)
}

func matchEndpoint(pattern, path string) bool {
	switch {
	case pattern == "*":
		return true
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(path, strings.TrimSuffix(pattern, "*"))
	case strings.HasPrefix(pattern, "*"):
		return strings.HasSuffix(path, strings.TrimPrefix(pattern, "*"))
	default:
		return pattern == path
	}
}

// CheckRequestSize rejects bodies larger than the configured limit. size is
// the declared Content-Length; unknown sizes (-1) pass here and are bounded
// by the server's body reader instead.
func (p *PolicyEnforcer) CheckRequestSize(size int64) *Error {
	if p.config.MaxRequestSize > 0 && size > p.config.MaxRequestSize {
		return newError(ViolationRequestTooLarge, SeverityLow, "size %d exceeds limit %d", size, p.config.MaxRequestSize)
	}
	return nil
}

// CheckSessionAge rejects security contexts whose session timestamp is
// older than the configured maximum.
func (p *PolicyEnforcer) CheckSessionAge(sc Context) *Error {
	if p.config.MaxSessionAge <= 0 {
		return nil
	}
	if time.Since(sc.Timestamp) > p.config.MaxSessionAge {
		return newError(ViolationPolicy, SeverityMedium, "session for %s expired", sc.UserID)
	}
	return nil
}
