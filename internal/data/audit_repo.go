package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/data/pgxutil"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
)

// AuditRepo provides append-only storage for audit log entries. There are
// deliberately no update or delete operations on this table.
type AuditRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAuditRepo creates a new AuditRepo instance with the given database connection.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

const auditColumns = `id, action, actor_id, target_id, target_type, details, created_at`

// Append inserts a new audit entry and returns the stored record.
func (r *AuditRepo) Append(ctx context.Context, entry *model.AuditEntry) (*model.AuditEntry, error) {
	if entry == nil {
		return nil, errors.New("audit entry is required")
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now()
	query := `
		INSERT INTO audit_log (action, actor_id, target_id, target_type, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + auditColumns

	var stored model.AuditEntry
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, err := pgxConn.Query(ctx, query,
			entry.Action, entry.ActorID, entry.TargetID, entry.TargetType, entry.Details, now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		stored, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AuditEntry])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("append audit entry: %w", err)
	}

	return &stored, nil
}

// List retrieves audit entries with the given options, newest first.
func (r *AuditRepo) List(ctx context.Context, opts *model.AuditListOptions) ([]*model.AuditEntry, error) {
	if opts == nil {
		opts = &model.AuditListOptions{}
	}

	limit, offset := normalizePagination(opts.Limit, opts.Offset)

	var conditions []string
	var args []any
	argIndex := 1

	if opts.Action != nil && strings.TrimSpace(*opts.Action) != "" {
		conditions = append(conditions, fmt.Sprintf("action = $%d", argIndex))
		args = append(args, strings.TrimSpace(*opts.Action))
		argIndex++
	}
	if opts.ActorID != nil {
		conditions = append(conditions, fmt.Sprintf("actor_id = $%d", argIndex))
		args = append(args, *opts.ActorID)
		argIndex++
	}
	if opts.TargetID != nil {
		conditions = append(conditions, fmt.Sprintf("target_id = $%d", argIndex))
		args = append(args, *opts.TargetID)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(
		`SELECT %s FROM audit_log %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		auditColumns, whereClause, argIndex, argIndex+1,
	)
	args = append(args, limit, offset)

	var entries []*model.AuditEntry
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, err := pgxConn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		entries, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.AuditEntry])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	return entries, nil
}
