// Package security implements the request security pipeline: rate limiting
// with violation-based bans, injection detection on inbound input, and
// network/transport policy enforcement. Every rejection is a typed Error
// carrying a severity for audit logging and a sanitized public message.
package security

import (
	"fmt"

	apperrors "github.com/allisson/llm-config/internal/errors"
)

// Severity ranks how hostile a rejected request looks.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Violation identifies the security check that rejected a request.
type Violation string

const (
	ViolationRateLimit       Violation = "rate_limit_exceeded"
	ViolationIPBanned        Violation = "ip_banned"
	ViolationIPBlocked       Violation = "ip_blocked"
	ViolationTLSRequired     Violation = "tls_required"
	ViolationPolicy          Violation = "policy_violation"
	ViolationInjection       Violation = "injection_attempt"
	ViolationInputTooLong    Violation = "input_too_long"
	ViolationRequestTooLarge Violation = "request_too_large"
)

// Error is a security rejection. Detail is for logs and audit events only;
// clients see PublicMessage, which never echoes attacker-controlled input.
type Error struct {
	Violation Violation
	Severity  Severity
	Detail    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Violation)
	}
	return fmt.Sprintf("%s: %s", e.Violation, e.Detail)
}

// Unwrap maps the violation onto the shared error kinds so handlers can use
// the standard status mapping.
func (e *Error) Unwrap() error {
	switch e.Violation {
	case ViolationRateLimit, ViolationIPBanned:
		return apperrors.ErrRateLimited
	case ViolationIPBlocked, ViolationPolicy:
		return apperrors.ErrForbidden
	case ViolationTLSRequired:
		return apperrors.ErrUpgradeRequired
	case ViolationRequestTooLarge:
		return apperrors.ErrPayloadTooLarge
	default:
		return apperrors.ErrInvalidInput
	}
}

// PublicMessage returns the message safe to send to clients.
func (e *Error) PublicMessage() string {
	switch e.Violation {
	case ViolationRateLimit:
		return "Too many requests. Please retry after the specified delay."
	case ViolationIPBanned, ViolationIPBlocked:
		return "Access denied"
	case ViolationTLSRequired:
		return "TLS is required for this endpoint"
	case ViolationRequestTooLarge:
		return "Request body exceeds the allowed size"
	case ViolationInputTooLong:
		return "Input exceeds the maximum allowed length"
	default:
		return "Request rejected due to security policy"
	}
}

func newError(violation Violation, severity Severity, format string, args ...any) *Error {
	return &Error{
		Violation: violation,
		Severity:  severity,
		Detail:    fmt.Sprintf(format, args...),
	}
}
