package security

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	auditDomain "github.com/allisson/llm-config/internal/audit/domain"
	auditUseCase "github.com/allisson/llm-config/internal/audit/usecase"
)

// Pipeline runs every request through the security checks in a fixed
// order: rate limiting, IP blocking, TLS policy, endpoint policy, input
// validation, request size, and finally context injection. The first
// failing check aborts the request with a sanitized message.
type Pipeline struct {
	rateLimiter *RateLimiter
	enforcer    *PolicyEnforcer
	validator   *InputValidator
	audit       auditUseCase.AuditUseCase
	logger      *slog.Logger
}

// NewPipeline wires the security components together. audit may be nil when
// auditing is disabled.
func NewPipeline(rateLimiter *RateLimiter, enforcer *PolicyEnforcer, validator *InputValidator, audit auditUseCase.AuditUseCase, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		rateLimiter: rateLimiter,
		enforcer:    enforcer,
		validator:   validator,
		audit:       audit,
		logger:      logger,
	}
}

// Middleware returns the gin handler that applies the pipeline.
func (p *Pipeline) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		authenticated := isAuthenticated(c)

		if err := p.rateLimiter.Allow(ip, authenticated); err != nil {
			if err.Violation == ViolationRateLimit {
				c.Header("Retry-After", "1")
			}
			p.reject(c, err)
			return
		}

		if err := p.enforcer.CheckIP(ip); err != nil {
			p.reject(c, err)
			return
		}

		if err := p.enforcer.CheckTLS(forwardedProto(c), c.GetHeader("X-TLS-Version")); err != nil {
			p.reject(c, err)
			return
		}

		if err := p.enforcer.CheckOrigin(c.GetHeader("Origin")); err != nil {
			p.reject(c, err)
			return
		}

		if err := p.enforcer.CheckEndpoint(c.Request.URL.Path); err != nil {
			p.reject(c, err)
			return
		}

		if err := p.validator.Validate(c.Request.URL.Path); err != nil {
			p.reject(c, err)
			return
		}
		for key, values := range c.Request.URL.Query() {
			if err := p.validator.Validate(key); err != nil {
				p.reject(c, err)
				return
			}
			for _, value := range values {
				if err := p.validator.Validate(value); err != nil {
					p.reject(c, err)
					return
				}
			}
		}

		if err := p.enforcer.CheckRequestSize(c.Request.ContentLength); err != nil {
			p.reject(c, err)
			return
		}

		sc := Context{
			UserID:    requestUser(c),
			IPAddress: ip,
			Timestamp: sessionStart(c),
			SessionID: c.GetHeader("X-Session-ID"),
		}
		if err := p.enforcer.CheckSessionAge(sc); err != nil {
			p.reject(c, err)
			return
		}
		SetContext(c, sc)

		c.Next()
	}
}

// reject aborts the request, logs the violation, and emits an audit event.
func (p *Pipeline) reject(c *gin.Context, err *Error) {
	p.logger.Warn("request rejected by security pipeline",
		slog.String("violation", string(err.Violation)),
		slog.String("severity", string(err.Severity)),
		slog.String("detail", err.Detail),
		slog.String("ip", c.ClientIP()),
		slog.String("path", c.Request.URL.Path),
	)

	if p.audit != nil {
		event := auditDomain.NewSecurityEvent(string(err.Violation), err.Detail, requestUser(c)).
			WithSourceIP(c.ClientIP()).
			WithSeverity(auditSeverity(err.Severity))
		if id := requestid.Get(c); id != "" {
			event = event.WithRequestID(id)
		}
		p.audit.Log(event)
	}

	status := statusFor(err)
	c.AbortWithStatusJSON(status, gin.H{
		"error":   http.StatusText(status),
		"message": err.PublicMessage(),
	})
}

func statusFor(err *Error) int {
	switch err.Violation {
	case ViolationRateLimit, ViolationIPBanned:
		return http.StatusTooManyRequests
	case ViolationIPBlocked, ViolationPolicy:
		return http.StatusForbidden
	case ViolationTLSRequired:
		return http.StatusUpgradeRequired
	case ViolationRequestTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusBadRequest
	}
}

func auditSeverity(severity Severity) auditDomain.Severity {
	switch severity {
	case SeverityCritical:
		return auditDomain.SeverityCritical
	case SeverityHigh:
		return auditDomain.SeverityError
	case SeverityMedium:
		return auditDomain.SeverityWarning
	default:
		return auditDomain.SeverityInfo
	}
}

func isAuthenticated(c *gin.Context) bool {
	return c.GetHeader("Authorization") != "" || c.GetHeader("X-API-Key") != ""
}

func forwardedProto(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

// sessionStart reads the session start advertised by the client, falling
// back to now for requests without one.
func sessionStart(c *gin.Context) time.Time {
	if raw := c.GetHeader("X-Session-Start"); raw != "" {
		if start, err := time.Parse(time.RFC3339, raw); err == nil {
			return start.UTC()
		}
	}
	return time.Now().UTC()
}

func requestUser(c *gin.Context) string {
	if user := c.GetHeader("X-User"); user != "" {
		return user
	}
	return "anonymous"
}
