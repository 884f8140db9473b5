package security

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

// Threat type labels used in security errors and audit events.
const (
	ThreatSQLInjection     = "sql_injection"
	ThreatXSS              = "xss"
	ThreatPathTraversal    = "path_traversal"
	ThreatCommandInjection = "command_injection"
	ThreatLDAPInjection    = "ldap_injection"
)

type threatPatterns struct {
	threat   string
	severity Severity
	patterns []*regexp.Regexp
}

func compileAll(exprs ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		compiled[i] = regexp.MustCompile(expr)
	}
	return compiled
}

// Detection patterns are matched against raw request input (path segments
// and query strings), not against parsed values, so encoded traversal
// attempts are caught before any decoding.
var detectors = []threatPatterns{
	{
		threat:   ThreatSQLInjection,
		severity: SeverityHigh,
		patterns: compileAll(
			`(?i)\bunion\b.*\bselect\b`,
			`(?i)\bdrop\b.*\btable\b`,
			`(?i)\binsert\b.*\binto\b`,
			`(?i)\bdelete\b.*\bfrom\b`,
			`(?i)\bupdate\b.*\bset\b`,
			`(?i)\bexec\b.*\b(sp|xp)_`,
			`(?i)('|"|--|#|@@)`,
		),
	},
	{
		threat:   ThreatXSS,
		severity: SeverityHigh,
		patterns: compileAll(
			`(?i)<script[^>]*>`,
			`(?i)javascript:`,
			`(?i)\bon\w+\s*=`,
			`(?i)<(iframe|embed|object)\b`,
			`(?i)\beval\s*\(`,
			`(?i)\bexpression\s*\(`,
		),
	},
	{
		threat:   ThreatPathTraversal,
		severity: SeverityHigh,
		patterns: compileAll(
			`\.\./`,
			`\.\.\\`,
			`(?i)%2e%2e(%2f|%5c|/|\\)`,
			`(?i)\.\.(%2f|%5c)`,
		),
	},
	{
		threat:   ThreatCommandInjection,
		severity: SeverityCritical,
		patterns: compileAll(
			"[;&|`\n]",
			`\$\(`,
		),
	},
	{
		threat:   ThreatLDAPInjection,
		severity: SeverityMedium,
		patterns: compileAll(
			`[*()\\]`,
			"\x00",
		),
	},
}

// InputValidator screens inbound strings for injection payloads and
// enforces a maximum length. Safe for concurrent use.
type InputValidator struct {
	maxLength int
}

// NewInputValidator creates a validator. maxLength bounds each individual
// input; values at or below zero disable the length check.
func NewInputValidator(maxLength int) *InputValidator {
	return &InputValidator{maxLength: maxLength}
}

// Validate rejects input that exceeds the length limit or matches a threat
// pattern. The returned error names the threat for audit logging; clients
// only ever see the sanitized public message.
func (v *InputValidator) Validate(input string) *Error {
	if v.maxLength > 0 && len(input) > v.maxLength {
		return newError(ViolationInputTooLong, SeverityLow, "input length %d exceeds limit %d", len(input), v.maxLength)
	}

	for _, detector := range detectors {
		for _, pattern := range detector.patterns {
			if pattern.MatchString(input) {
				return newError(ViolationInjection, detector.severity, "%s pattern matched", detector.threat)
			}
		}
	}
	return nil
}

// Threat extracts the threat label from a validation error, or "unknown".
func Threat(err *Error) string {
	if err == nil || err.Violation != ViolationInjection {
		return "unknown"
	}
	return strings.TrimSuffix(err.Detail, " pattern matched")
}

// Sanitize normalizes untrusted text for safe storage and display: leading
// and trailing whitespace is trimmed, null and control characters are
// removed, and HTML metacharacters are escaped.
func (v *InputValidator) Sanitize(input string) string {
	trimmed := strings.TrimSpace(input)
	cleaned := strings.Map(func(r rune) rune {
		if r == 0 || unicode.IsControl(r) {
			return -1
		}
		return r
	}, trimmed)
	return html.EscapeString(cleaned)
}
