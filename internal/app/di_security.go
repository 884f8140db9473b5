package app

import (
	"fmt"
	"strings"

	"github.com/allisson/llm-config/internal/security"
)

// SecurityPipeline returns the request security pipeline applied to all API routes.
func (c *Container) SecurityPipeline() (*security.Pipeline, error) {
	var err error
	c.securityPipelineInit.Do(func() {
		c.securityPipeline, err = c.initSecurityPipeline()
		if err != nil {
			c.initErrors["securityPipeline"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["securityPipeline"]; exists {
		return nil, storedErr
	}
	return c.securityPipeline, nil
}

// initSecurityPipeline assembles the rate limiter, policy enforcer and
// input validator from configuration.
func (c *Container) initSecurityPipeline() (*security.Pipeline, error) {
	audit, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for security pipeline: %w", err)
	}

	rateLimiter := security.NewRateLimiter(security.RateLimiterConfig{
		AuthenticatedRPS:   c.config.RateLimitAuthenticatedPerSec,
		UnauthenticatedRPS: c.config.RateLimitUnauthenticatedPerSec,
		Burst:              c.config.RateLimitBurst,
		PerClientRPS:       c.config.RateLimitPerClientPerSec,
		PerClientBurst:     c.config.RateLimitPerClientBurst,
		BanThreshold:       c.config.RateLimitBanThreshold,
		BanDuration:        c.config.RateLimitBanDuration,
		MaxClients:         c.config.RateLimitMaxClients,
	})

	enforcer := security.NewPolicyEnforcer(security.PolicyConfig{
		BlockedIPs:       splitCommaList(c.config.SecurityBlockedIPs),
		RequireTLS:       c.config.SecurityRequireTLS,
		MinTLSVersion:    c.config.SecurityMinTLSVersion,
		AllowedOrigins:   splitCommaList(c.config.SecurityAllowedOrigins),
		BlockedEndpoints: splitCommaList(c.config.SecurityBlockedEndpoints),
		AllowedEndpoints: splitCommaList(c.config.SecurityAllowedEndpoints),
		MaxRequestSize:   c.config.SecurityMaxRequestSize,
		MaxSessionAge:    c.config.SecurityMaxSessionAge,
	})

	validator := security.NewInputValidator(c.config.SecurityMaxInputLength)

	return security.NewPipeline(rateLimiter, enforcer, validator, audit, c.Logger()), nil
}

// splitCommaList parses a comma-separated list, trimming whitespace and
// dropping empty items.
func splitCommaList(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
