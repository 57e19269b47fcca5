package service

import (
	"context"
	"errors"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
)

// ErrImpersonateSelf is returned when an admin tries to impersonate their own account.
var ErrImpersonateSelf = errors.New("cannot impersonate your own account")

// ImpersonationService lets an admin view the app as another user. The
// impersonated identity is display-only: the admin's real identity keeps
// making every authorization decision and appears in every audit entry.
type ImpersonationService struct {
	users UserStore
	audit *AuditService
}

// NewImpersonationService constructs a new ImpersonationService.
func NewImpersonationService(users UserStore, audit *AuditService) *ImpersonationService {
	return &ImpersonationService{users: users, audit: audit}
}

// Start validates the target and records the impersonation. The caller is
// responsible for setting the impersonation cookie on success.
func (s *ImpersonationService) Start(ctx context.Context, actorID, targetID string) (*model.User, error) {
	if actorID == targetID {
		return nil, ErrImpersonateSelf
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, model.AuditEntry{
		Action:     model.AuditActionImpersonateStart,
		ActorID:    actorID,
		TargetID:   &target.ID,
		TargetType: targetTypeUser(),
	})
	return target, nil
}

// Revert records the end of an impersonation. It is idempotent: reverting
// with no active impersonation still succeeds and is still audited, since
// the request expresses admin intent either way.
func (s *ImpersonationService) Revert(ctx context.Context, actorID string, targetID *string) {
	s.audit.Record(ctx, model.AuditEntry{
		Action:     model.AuditActionImpersonateRevert,
		ActorID:    actorID,
		TargetID:   targetID,
		TargetType: targetTypeUser(),
	})
}
