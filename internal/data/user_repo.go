package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/data/pgxutil"
	domainauth "github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/auth"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
)

// UserRepo provides database operations for user accounts.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo instance with the given database connection.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

// userColumns defines the column list for User SELECT queries to ensure consistent field mapping.
const userColumns = `id, email, name, password_hash, role, active, created_at, updated_at`

// handleCreateError maps unique-violation errors to ErrEmailTaken.
func (r *UserRepo) handleCreateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrEmailTaken
	}
	return fmt.Errorf("create user: %w", err)
}

// Create inserts a new user account.
func (r *UserRepo) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if req == nil {
		return nil, errors.New("create user request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now()
	query := `
		INSERT INTO users (email, name, password_hash, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, TRUE, $5, $5)
		RETURNING ` + userColumns

	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, err := pgxConn.Query(ctx, query, req.Email, req.Name, req.PasswordHash, req.Role, now)
		if err != nil {
			return err
		}
		defer rows.Close()

		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		return nil, r.handleCreateError(err)
	}

	return &user, nil
}

// GetByID retrieves a user by its ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, err := pgxConn.Query(ctx, query, id)
		if err != nil {
			return err
		}
		defer rows.Close()

		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUIDError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by its normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, err := pgxConn.Query(ctx, query, strings.ToLower(strings.TrimSpace(email)))
		if err != nil {
			return err
		}
		defer rows.Close()

		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

// UpsertFromIdentity creates or refreshes a user record from an IdP identity.
// Existing accounts keep their stored role and active flag; only profile
// fields are refreshed. New accounts are created with the mapped role.
func (r *UserRepo) UpsertFromIdentity(
	ctx context.Context,
	identity domainauth.Identity,
	role domainauth.Role,
) (*model.User, error) {
	if identity.Email == "" {
		return nil, errors.New("identity email is required")
	}
	if !role.Valid() {
		return nil, errors.New("invalid role")
	}

	now := r.timeProvider.Now()
	query := `
		INSERT INTO users (email, name, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, $4, $4)
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at
		RETURNING ` + userColumns

	email := strings.ToLower(strings.TrimSpace(identity.Email))
	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, err := pgxConn.Query(ctx, query, email, identity.Name, role, now)
		if err != nil {
			return err
		}
		defer rows.Close()

		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("upsert user from identity: %w", err)
	}

	return &user, nil
}

// UpdateRole sets a user's role and returns the updated record.
func (r *UserRepo) UpdateRole(ctx context.Context, id string, role domainauth.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, errors.New("invalid role")
	}

	now := r.timeProvider.Now()
	query := `
		UPDATE users
		SET role = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + userColumns

	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, err := pgxConn.Query(ctx, query, role, now, id)
		if err != nil {
			return err
		}
		defer rows.Close()

		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUIDError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user role: %w", err)
	}

	return &user, nil
}

// SetActive flips a user's active flag and returns the updated record.
func (r *UserRepo) SetActive(ctx context.Context, id string, active bool) (*model.User, error) {
	now := r.timeProvider.Now()
	query := `
		UPDATE users
		SET active = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + userColumns

	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, err := pgxConn.Query(ctx, query, active, now, id)
		if err != nil {
			return err
		}
		defer rows.Close()

		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUIDError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("set user active: %w", err)
	}

	return &user, nil
}

// List retrieves users with the given options, newest first by default.
func (r *UserRepo) List(ctx context.Context, opts *model.UsersListOptions) ([]*model.User, error) {
	if opts == nil {
		opts = &model.UsersListOptions{}
	}

	limit, offset := normalizePagination(opts.Limit, opts.Offset)
	sortCol, sortDir := r.validateSortOptions(opts.Sort, opts.Dir)

	var conditions []string
	var args []any
	argIndex := 1

	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		conditions = append(conditions,
			fmt.Sprintf("(email ILIKE $%d OR name ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+strings.TrimSpace(*opts.Q)+"%")
		argIndex++
	}
	if opts.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIndex))
		args = append(args, *opts.Role)
		argIndex++
	}
	if opts.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", argIndex))
		args = append(args, *opts.Active)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(
		`SELECT %s FROM users %s ORDER BY %s %s, id DESC LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, sortCol, sortDir, argIndex, argIndex+1,
	)
	args = append(args, limit, offset)

	var users []*model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, err := pgxConn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		users, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.User])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

// validateSortOptions validates and returns safe sort column and direction.
func (r *UserRepo) validateSortOptions(sort, dir string) (string, string) {
	switch sort {
	case "created_at", "email":
		// Valid sort fields
	default:
		sort = "created_at"
	}

	if strings.EqualFold(dir, "asc") {
		dir = "ASC"
	} else {
		dir = "DESC"
	}

	return sort, dir
}

// normalizePagination normalizes limit and offset values for pagination.
func normalizePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// isInvalidUUIDError reports whether err is Postgres rejecting a malformed
// uuid literal. Lookups by an unparsable id behave like "not found".
func isInvalidUUIDError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation
}
