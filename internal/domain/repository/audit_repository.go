package repository

import "context"

// AuditEntry is one row in the audit log. UserID and Email may be empty when
// the actor is unknown (e.g. a reset attempt for an unregistered address).
type AuditEntry struct {
	UserID    string
	Email     string
	Action    string
	IP        string
	UserAgent string
	Metadata  map[string]any
}

// AuditRepository records security-relevant events. Implementations must not
// fail the caller: writes are fire-and-forget from the handlers' perspective.
type AuditRepository interface {
	Insert(ctx context.Context, e AuditEntry) error
}
