package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/data"
	domainauth "github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/auth"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/ports"
)

// AdminUserStore is the user persistence surface the admin service needs.
type AdminUserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateRole(ctx context.Context, id string, role domainauth.Role) (*model.User, error)
	SetActive(ctx context.Context, id string, active bool) (*model.User, error)
	List(ctx context.Context, opts *model.UsersListOptions) ([]*model.User, error)
}

// FeedbackStore is the feedback persistence surface shared by the admin and
// feedback services.
type FeedbackStore interface {
	Create(ctx context.Context, userID string, req *model.CreateFeedbackRequest) (*model.Feedback, error)
	GetByID(ctx context.Context, id string) (*model.Feedback, error)
	List(ctx context.Context, opts *model.FeedbackListOptions) ([]*model.Feedback, error)
	Reply(ctx context.Context, params data.ReplyParams) (*model.Feedback, error)
	Resolve(ctx context.Context, id string) (*model.Feedback, error)
}

// AdminServiceOptions groups dependencies for AdminService.
type AdminServiceOptions struct {
	Users    AdminUserStore
	Sessions ports.SessionStore
	Feedback FeedbackStore
	Audit    *AuditService
}

// AdminService implements privileged operations. Every mutation records an
// audit entry after it succeeds; a failed mutation leaves no audit trail.
type AdminService struct {
	users    AdminUserStore
	sessions ports.SessionStore
	feedback FeedbackStore
	audit    *AuditService
}

// NewAdminService constructs a new AdminService.
func NewAdminService(opts AdminServiceOptions) *AdminService {
	return &AdminService{
		users:    opts.Users,
		sessions: opts.Sessions,
		feedback: opts.Feedback,
		audit:    opts.Audit,
	}
}

// PromoteUser grants the target the admin role.
func (s *AdminService) PromoteUser(ctx context.Context, actorID, targetID string) (*model.User, error) {
	user, err := s.users.UpdateRole(ctx, targetID, domainauth.RoleAdmin)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, model.AuditEntry{
		Action:     model.AuditActionUserPromote,
		ActorID:    actorID,
		TargetID:   &user.ID,
		TargetType: targetTypeUser(),
		Details:    auditDetails(map[string]any{"role": domainauth.RoleAdmin}),
	})
	return user, nil
}

// DemoteUser strips the target back to the user role.
func (s *AdminService) DemoteUser(ctx context.Context, actorID, targetID string) (*model.User, error) {
	user, err := s.users.UpdateRole(ctx, targetID, domainauth.RoleUser)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, model.AuditEntry{
		Action:     model.AuditActionUserDemote,
		ActorID:    actorID,
		TargetID:   &user.ID,
		TargetType: targetTypeUser(),
		Details:    auditDetails(map[string]any{"role": domainauth.RoleUser}),
	})
	return user, nil
}

// DeactivateUser disables the target account.
func (s *AdminService) DeactivateUser(ctx context.Context, actorID, targetID string) (*model.User, error) {
	user, err := s.users.SetActive(ctx, targetID, false)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, model.AuditEntry{
		Action:     model.AuditActionUserDeactivate,
		ActorID:    actorID,
		TargetID:   &user.ID,
		TargetType: targetTypeUser(),
	})
	return user, nil
}

// ReactivateUser re-enables the target account.
func (s *AdminService) ReactivateUser(ctx context.Context, actorID, targetID string) (*model.User, error) {
	user, err := s.users.SetActive(ctx, targetID, true)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, model.AuditEntry{
		Action:     model.AuditActionUserReactivate,
		ActorID:    actorID,
		TargetID:   &user.ID,
		TargetType: targetTypeUser(),
	})
	return user, nil
}

// UserDetail bundles a user record with its submitted feedback.
type UserDetail struct {
	User     *model.User       `json:"user"`
	Feedback []*model.Feedback `json:"feedback"`
}

// GetUserDetail retrieves a user together with their feedback history.
func (s *AdminService) GetUserDetail(ctx context.Context, id string) (*UserDetail, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	feedback, err := s.feedback.List(ctx, &model.FeedbackListOptions{UserID: &user.ID})
	if err != nil {
		return nil, fmt.Errorf("list user feedback: %w", err)
	}
	if feedback == nil {
		feedback = []*model.Feedback{}
	}

	return &UserDetail{User: user, Feedback: feedback}, nil
}

// ListUsers retrieves users with the given options.
func (s *AdminService) ListUsers(ctx context.Context, opts *model.UsersListOptions) ([]*model.User, error) {
	return s.users.List(ctx, opts)
}

// ListUserSessions retrieves a user's live sessions. The user must exist.
func (s *AdminService) ListUserSessions(ctx context.Context, userID string) ([]domainauth.Session, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user sessions: %w", err)
	}
	return sessions, nil
}

// RevokeSession deletes a session by ID. Revoking an already-revoked or
// unknown session succeeds; the end state is identical either way.
func (s *AdminService) RevokeSession(ctx context.Context, actorID, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	s.audit.Record(ctx, model.AuditEntry{
		Action:     model.AuditActionSessionRevoke,
		ActorID:    actorID,
		TargetID:   &sessionID,
		TargetType: targetTypeSession(),
	})
	return nil
}

// ReplyFeedback stores an admin reply on a feedback item.
func (s *AdminService) ReplyFeedback(ctx context.Context, actorID, feedbackID, message string) (*model.Feedback, error) {
	fb, err := s.feedback.Reply(ctx, data.ReplyParams{
		ID:        feedbackID,
		Message:   message,
		RepliedBy: actorID,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, model.AuditEntry{
		Action:     model.AuditActionFeedbackReply,
		ActorID:    actorID,
		TargetID:   &fb.ID,
		TargetType: targetTypeFeedback(),
	})
	return fb, nil
}

// ResolveFeedback marks a feedback item resolved. Resolving twice succeeds
// and keeps the first resolution timestamp.
func (s *AdminService) ResolveFeedback(ctx context.Context, actorID, feedbackID string) (*model.Feedback, error) {
	fb, err := s.feedback.Resolve(ctx, feedbackID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, model.AuditEntry{
		Action:     model.AuditActionFeedbackResolve,
		ActorID:    actorID,
		TargetID:   &fb.ID,
		TargetType: targetTypeFeedback(),
	})
	return fb, nil
}

// ListFeedback retrieves feedback items with the given options.
func (s *AdminService) ListFeedback(ctx context.Context, opts *model.FeedbackListOptions) ([]*model.Feedback, error) {
	return s.feedback.List(ctx, opts)
}

// auditDetails marshals structured detail for an audit entry. Marshal failures
// degrade to no detail rather than blocking the caller.
func auditDetails(v map[string]any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}

func targetTypeUser() *string     { t := "user"; return &t }
func targetTypeSession() *string  { t := "session"; return &t }
func targetTypeFeedback() *string { t := "feedback"; return &t }
