package audit

import (
	"context"
	"time"
)

// Event captures a state-changing action. Subject is the record c_id or the
// police ID the action applies to.
type Event struct {
	Timestamp  time.Time         `json:"timestamp"`
	Action     string            `json:"action"`
	Subject    string            `json:"subject"`
	RequestID  string            `json:"request_id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type AuditEvent string

const (
	EventRecordCreated     AuditEvent = "record_created"
	EventRecordUpdated     AuditEvent = "record_updated"
	EventRecordDeleted     AuditEvent = "record_deleted"
	EventOfficerRegistered AuditEvent = "officer_registered"
	EventLoginSucceeded    AuditEvent = "login_succeeded"
	EventLoginFailed       AuditEvent = "login_failed"
	EventLoginLocked       AuditEvent = "login_locked"
)

// Emitter is satisfied by publisher.Publisher.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Sink persists or forwards events.
type Sink interface {
	Append(ctx context.Context, event Event) error
}
