package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
)

// AuditStore is the append-only persistence the audit service needs.
type AuditStore interface {
	Append(ctx context.Context, entry *model.AuditEntry) (*model.AuditEntry, error)
	List(ctx context.Context, opts *model.AuditListOptions) ([]*model.AuditEntry, error)
}

// AuditService records privileged actions. Recording is fail-open: a storage
// failure is logged but never propagated, so an audit outage cannot block
// admin operations. Callers record only after the underlying mutation
// succeeded, so failed mutations leave no trail.
type AuditService struct {
	store  AuditStore
	logger *slog.Logger
}

// NewAuditService constructs a new AuditService.
func NewAuditService(store AuditStore, logger *slog.Logger) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditService{
		store:  store,
		logger: logger.With("component", "audit"),
	}
}

// Record appends an audit entry, swallowing storage failures.
func (s *AuditService) Record(ctx context.Context, entry model.AuditEntry) {
	if _, err := s.store.Append(ctx, &entry); err != nil {
		s.logger.ErrorContext(ctx, "failed to record audit entry",
			"action", entry.Action,
			"actor_id", entry.ActorID,
			"err", err,
		)
	}
}

// List retrieves audit entries, newest first.
func (s *AuditService) List(ctx context.Context, opts *model.AuditListOptions) ([]*model.AuditEntry, error) {
	entries, err := s.store.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}
