// Package domain defines audit events: who did what, to which entry, when,
// and with what outcome. Events serialize as flat JSON objects with a
// "type" discriminator so the log stays greppable line by line.
package domain

import (
	"time"

	"github.com/google/uuid"

	configsDomain "github.com/allisson/llm-config/internal/configs/domain"
)

// Severity classifies how alarming an event is.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// EventType discriminates the event payload.
type EventType string

const (
	EventConfigCreated    EventType = "config_created"
	EventConfigUpdated    EventType = "config_updated"
	EventConfigDeleted    EventType = "config_deleted"
	EventConfigAccessed   EventType = "config_accessed"
	EventConfigRolledBack EventType = "config_rolled_back"
	EventSecretModified   EventType = "secret_modified"
	EventSecretAccessed   EventType = "secret_accessed"
	EventAuthAttempt      EventType = "auth_attempt"
	EventAuthzCheck       EventType = "authz_check"
	EventSystemEvent      EventType = "system_event"
	EventSecurityEvent    EventType = "security_event"
)

// Event is one audit log record. Only the fields relevant to the event's
// type are populated; the rest are omitted from the JSON.
type Event struct {
	ID        uuid.UUID         `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Severity  Severity          `json:"severity"`
	Type      EventType         `json:"type"`
	User      string            `json:"user"`
	SourceIP  *string           `json:"source_ip,omitempty"`
	RequestID *string           `json:"request_id,omitempty"`
	Metadata  map[string]string `json:"metadata"`

	// Entry-scoped events.
	Namespace   string                     `json:"namespace,omitempty"`
	Key         string                     `json:"key,omitempty"`
	Environment configsDomain.Environment  `json:"environment,omitempty"`
	OldVersion  *uint64                    `json:"old_version,omitempty"`
	NewVersion  *uint64                    `json:"new_version,omitempty"`
	FromVersion *uint64                    `json:"from_version,omitempty"`
	ToVersion   *uint64                    `json:"to_version,omitempty"`

	// Authentication and authorization events.
	Method   string `json:"method,omitempty"`
	Success  *bool  `json:"success,omitempty"`
	Resource string `json:"resource,omitempty"`
	Action   string `json:"action,omitempty"`
	Allowed  *bool  `json:"allowed,omitempty"`

	// System and security events.
	Component  string `json:"component,omitempty"`
	Message    string `json:"message,omitempty"`
	ThreatType string `json:"threat_type,omitempty"`
	Details    string `json:"details,omitempty"`
}

func newEvent(eventType EventType, severity Severity, user string) Event {
	return Event{
		ID:        uuid.New(),
		Timestamp: time.Now().UTC(),
		Severity:  severity,
		Type:      eventType,
		User:      user,
		Metadata:  map[string]string{},
	}
}

// NewConfigCreated records the creation of an entry.
func NewConfigCreated(namespace, key string, environment configsDomain.Environment, user string) Event {
	e := newEvent(EventConfigCreated, SeverityInfo, user)
	e.Namespace, e.Key, e.Environment = namespace, key, environment
	return e
}

// NewConfigUpdated records an entry update with the version transition.
func NewConfigUpdated(namespace, key string, environment configsDomain.Environment, user string, oldVersion, newVersion uint64) Event {
	e := newEvent(EventConfigUpdated, SeverityInfo, user)
	e.Namespace, e.Key, e.Environment = namespace, key, environment
	e.OldVersion, e.NewVersion = &oldVersion, &newVersion
	return e
}

// NewConfigDeleted records the deletion of an entry.
func NewConfigDeleted(namespace, key string, environment configsDomain.Environment, user string) Event {
	e := newEvent(EventConfigDeleted, SeverityInfo, user)
	e.Namespace, e.Key, e.Environment = namespace, key, environment
	return e
}

// NewConfigAccessed records a read of an entry.
func NewConfigAccessed(namespace, key string, environment configsDomain.Environment, user string) Event {
	e := newEvent(EventConfigAccessed, SeverityInfo, user)
	e.Namespace, e.Key, e.Environment = namespace, key, environment
	return e
}

// NewConfigRolledBack records a rollback with the version transition.
func NewConfigRolledBack(namespace, key string, environment configsDomain.Environment, user string, fromVersion, toVersion uint64) Event {
	e := newEvent(EventConfigRolledBack, SeverityWarning, user)
	e.Namespace, e.Key, e.Environment = namespace, key, environment
	e.FromVersion, e.ToVersion = &fromVersion, &toVersion
	return e
}

// NewSecretModified records a secret write. The value itself never appears
// in the audit log.
func NewSecretModified(namespace, key string, environment configsDomain.Environment, user string) Event {
	e := newEvent(EventSecretModified, SeverityWarning, user)
	e.Namespace, e.Key, e.Environment = namespace, key, environment
	return e
}

// NewSecretAccessed records a secret read.
func NewSecretAccessed(namespace, key string, environment configsDomain.Environment, user string) Event {
	e := newEvent(EventSecretAccessed, SeverityWarning, user)
	e.Namespace, e.Key, e.Environment = namespace, key, environment
	return e
}

// NewAuthAttempt records an authentication attempt.
func NewAuthAttempt(user, method string, success bool) Event {
	severity := SeverityInfo
	if !success {
		severity = SeverityWarning
	}
	e := newEvent(EventAuthAttempt, severity, user)
	e.Method = method
	e.Success = &success
	return e
}

// NewAuthzCheck records an authorization decision.
func NewAuthzCheck(user, resource, action string, allowed bool) Event {
	severity := SeverityInfo
	if !allowed {
		severity = SeverityWarning
	}
	e := newEvent(EventAuthzCheck, severity, user)
	e.Resource = resource
	e.Action = action
	e.Allowed = &allowed
	return e
}

// NewSystemEvent records an operational event from a component.
func NewSystemEvent(component, message string) Event {
	e := newEvent(EventSystemEvent, SeverityInfo, "system")
	e.Component = component
	e.Message = message
	return e
}

// NewSecurityEvent records a detected threat.
func NewSecurityEvent(threatType, details, user string) Event {
	e := newEvent(EventSecurityEvent, SeverityWarning, user)
	e.ThreatType = threatType
	e.Details = details
	return e
}

// WithSourceIP attaches the client address.
func (e Event) WithSourceIP(ip string) Event {
	e.SourceIP = &ip
	return e
}

// WithRequestID attaches the request correlation id.
func (e Event) WithRequestID(id string) Event {
	e.RequestID = &id
	return e
}

// WithSeverity overrides the default severity.
func (e Event) WithSeverity(severity Severity) Event {
	e.Severity = severity
	return e
}

// WithMetadata adds one metadata pair.
func (e Event) WithMetadata(key, value string) Event {
	if e.Metadata == nil {
		e.Metadata = map[string]string{}
	}
	e.Metadata[key] = value
	return e
}
