package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction identifies the lifecycle event an audit entry records.
type AuditAction string

const (
	ActionCreate        AuditAction = "create"
	ActionRead          AuditAction = "read"
	ActionDelete        AuditAction = "delete"
	ActionExpiredAccess AuditAction = "expired_access"
	ActionAutoDelete    AuditAction = "auto_delete"
)

// Notes attached to audit entries written on expiry.
const (
	NoteExpiredAccess = "secret expired before it was read"
	NoteAutoDelete    = "secret expired and automatically deleted"
)

// AuditEntry is an append-only record of a secret lifecycle event. Entries
// outlive the secret they reference.
type AuditEntry struct {
	ID         uuid.UUID
	SecretID   uuid.UUID
	Action     AuditAction
	ClientIP   string
	UserAgent  string
	TTLSeconds *int
	Timestamp  time.Time
	Note       string
}

// RequestMeta carries caller metadata recorded in the audit trail.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
}
