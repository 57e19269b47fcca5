//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Audit action names. One constant per privileged mutation so queries and
// tests never depend on string literals scattered across packages.
const (
	AuditActionUserPromote       = "user.promote"
	AuditActionUserDemote        = "user.demote"
	AuditActionUserDeactivate    = "user.deactivate"
	AuditActionUserReactivate    = "user.reactivate"
	AuditActionSessionRevoke     = "session.revoke"
	AuditActionFeedbackReply     = "feedback.reply"
	AuditActionFeedbackResolve   = "feedback.resolve"
	AuditActionImpersonateStart  = "impersonate.start"
	AuditActionImpersonateRevert = "impersonate.revert"
)

// AuditEntry is one immutable row in the audit log. Entries are append-only;
// nothing in the codebase updates or deletes them.
type AuditEntry struct {
	ID         string          `json:"id"                    db:"id"`
	Action     string          `json:"action"                db:"action"`
	ActorID    string          `json:"actor_id"              db:"actor_id"`
	TargetID   *string         `json:"target_id,omitempty"   db:"target_id"`
	TargetType *string         `json:"target_type,omitempty" db:"target_type"`
	Details    json.RawMessage `json:"details,omitempty"     db:"details"`
	CreatedAt  time.Time       `json:"created_at"            db:"created_at"`
}

// Validate checks the minimal invariants before an entry is appended.
func (e *AuditEntry) Validate() error {
	if strings.TrimSpace(e.Action) == "" {
		return errors.New("action is required and cannot be empty")
	}
	if strings.TrimSpace(e.ActorID) == "" {
		return errors.New("actor_id is required and cannot be empty")
	}
	return nil
}

// AuditListOptions controls paging and filtering for listing audit entries.
// Entries are always returned newest first.
type AuditListOptions struct {
	Limit    int
	Offset   int
	Action   *string
	ActorID  *string
	TargetID *string
}
