package domain

import "time"

// AuditAction names a security-relevant operation recorded in the audit log.
type AuditAction string

const (
	AuditLogin          AuditAction = "login"
	AuditRegister       AuditAction = "register"
	AuditBootstrapAdmin AuditAction = "bootstrap_admin"
	AuditRegisterAdmin  AuditAction = "register_admin"
	AuditUpdateEvent    AuditAction = "update_event"
	AuditDeleteEvent    AuditAction = "delete_event"
	AuditCancelAttendee AuditAction = "cancel_registration"
)

// AuditOutcome is the result of an audited operation.
type AuditOutcome string

const (
	OutcomeSuccess AuditOutcome = "success"
	OutcomeDenied  AuditOutcome = "denied"
	OutcomeFailure AuditOutcome = "failure"
)

// AuditRecord is one entry of the security audit trail.
type AuditRecord struct {
	Action   AuditAction
	Outcome  AuditOutcome
	Username string
	UserID   int64
	Detail   string
	At       time.Time
}
