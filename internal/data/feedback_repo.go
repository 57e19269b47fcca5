package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/data/pgxutil"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
)

// FeedbackRepo provides database operations for feedback items.
type FeedbackRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewFeedbackRepo creates a new FeedbackRepo instance with the given database connection.
func NewFeedbackRepo(db *sql.DB) *FeedbackRepo {
	return &FeedbackRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

// feedbackColumns defines the column list for Feedback SELECT queries to ensure consistent field mapping.
const feedbackColumns = `id, user_id, subject, body, status, reply, replied_by, replied_at, resolved_at, created_at, updated_at`

// handleCreateError maps foreign-key violations on user_id to ErrUserNotFound.
func (r *FeedbackRepo) handleCreateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" && strings.Contains(pgErr.Detail, "user_id") {
		return ErrUserNotFound
	}
	return fmt.Errorf("create feedback: %w", err)
}

// Create inserts a new open feedback item filed by the given user.
func (r *FeedbackRepo) Create(
	ctx context.Context,
	userID string,
	req *model.CreateFeedbackRequest,
) (*model.Feedback, error) {
	if req == nil {
		return nil, errors.New("create feedback request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now()
	query := `
		INSERT INTO feedback (user_id, subject, body, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING ` + feedbackColumns

	var fb model.Feedback
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, err := pgxConn.Query(ctx, query,
			userID, strings.TrimSpace(req.Subject), strings.TrimSpace(req.Body),
			model.FeedbackStatusOpen, now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		fb, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Feedback])
		return err
	})
	if err != nil {
		return nil, r.handleCreateError(err)
	}

	return &fb, nil
}

// GetByID retrieves a feedback item by its ID.
func (r *FeedbackRepo) GetByID(ctx context.Context, id string) (*model.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE id = $1`

	var fb model.Feedback
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, err := pgxConn.Query(ctx, query, id)
		if err != nil {
			return err
		}
		defer rows.Close()

		fb, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Feedback])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUIDError(err) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("get feedback by id: %w", err)
	}

	return &fb, nil
}

// List retrieves feedback items with the given options, newest first.
func (r *FeedbackRepo) List(ctx context.Context, opts *model.FeedbackListOptions) ([]*model.Feedback, error) {
	if opts == nil {
		opts = &model.FeedbackListOptions{}
	}

	limit, offset := normalizePagination(opts.Limit, opts.Offset)

	var conditions []string
	var args []any
	argIndex := 1

	if opts.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIndex))
		args = append(args, *opts.UserID)
		argIndex++
	}
	if opts.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *opts.Status)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(
		`SELECT %s FROM feedback %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		feedbackColumns, whereClause, argIndex, argIndex+1,
	)
	args = append(args, limit, offset)

	var items []*model.Feedback
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, err := pgxConn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		items, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.Feedback])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	return items, nil
}

// ReplyParams groups parameters for Reply.
type ReplyParams struct {
	ID        string
	Message   string
	RepliedBy string
}

// Reply stores an admin reply on a feedback item and returns the updated record.
func (r *FeedbackRepo) Reply(ctx context.Context, params ReplyParams) (*model.Feedback, error) {
	if strings.TrimSpace(params.Message) == "" {
		return nil, errors.New("reply message is required")
	}
	if params.RepliedBy == "" {
		return nil, errors.New("replied_by is required")
	}

	now := r.timeProvider.Now()
	query := `
		UPDATE feedback
		SET reply = $1, replied_by = $2, replied_at = $3, updated_at = $3
		WHERE id = $4
		RETURNING ` + feedbackColumns

	var fb model.Feedback
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, err := pgxConn.Query(ctx, query, params.Message, params.RepliedBy, now, params.ID)
		if err != nil {
			return err
		}
		defer rows.Close()

		fb, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Feedback])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUIDError(err) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("reply to feedback: %w", err)
	}

	return &fb, nil
}

// Resolve marks a feedback item resolved and returns the updated record.
// Resolving an already-resolved item is a no-op that keeps the original
// resolved_at timestamp.
func (r *FeedbackRepo) Resolve(ctx context.Context, id string) (*model.Feedback, error) {
	now := r.timeProvider.Now()
	query := `
		UPDATE feedback
		SET status = $1, resolved_at = COALESCE(resolved_at, $2), updated_at = $2
		WHERE id = $3
		RETURNING ` + feedbackColumns

	var fb model.Feedback
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, err := pgxConn.Query(ctx, query, model.FeedbackStatusResolved, now, id)
		if err != nil {
			return err
		}
		defer rows.Close()

		fb, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Feedback])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUIDError(err) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("resolve feedback: %w", err)
	}

	return &fb, nil
}
