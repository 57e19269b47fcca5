package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/data"
	domainauth "github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/auth"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/service"
)

// AdminHandlers provides HTTP handlers for privileged administration
// endpoints. All routes using these handlers are wrapped in RequireAdmin, so
// a session and a store-verified admin actor are always in the context.
type AdminHandlers struct {
	Svc    *service.AdminService
	Audit  *service.AuditService
	Logger *slog.Logger
}

// ListUsers returns users matching the query filters.
// GET /api/admin/users?q=&role=&active=&limit=&offset=&sort=&dir=.
func (h *AdminHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	opts := &model.UsersListOptions{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
		Q:      queryString(r, "q"),
		Active: queryBool(r, "active"),
		Sort:   r.URL.Query().Get("sort"),
		Dir:    r.URL.Query().Get("dir"),
	}
	if raw := r.URL.Query().Get("role"); raw != "" {
		role := domainauth.Role(raw)
		if !role.Valid() {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_role",
				Err:     errors.New("unknown role filter"),
			})
			return
		}
		opts.Role = &role
	}

	users, err := h.Svc.ListUsers(r.Context(), opts)
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"users":   users,
	})
}

// GetUser returns a user together with their feedback history.
// GET /api/admin/users/{id}.
func (h *AdminHandlers) GetUser(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Svc.GetUserDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"user":     detail.User,
		"feedback": detail.Feedback,
	})
}

// PromoteUser grants the target the admin role.
// POST /api/admin/users/{id}/promote.
func (h *AdminHandlers) PromoteUser(w http.ResponseWriter, r *http.Request) {
	h.mutateUser(w, r, h.Svc.PromoteUser)
}

// DemoteUser strips the target back to the user role.
// POST /api/admin/users/{id}/demote.
func (h *AdminHandlers) DemoteUser(w http.ResponseWriter, r *http.Request) {
	h.mutateUser(w, r, h.Svc.DemoteUser)
}

// DeactivateUser disables the target account.
// POST /api/admin/users/{id}/deactivate.
func (h *AdminHandlers) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	h.mutateUser(w, r, h.Svc.DeactivateUser)
}

// ReactivateUser re-enables the target account.
// POST /api/admin/users/{id}/reactivate.
func (h *AdminHandlers) ReactivateUser(w http.ResponseWriter, r *http.Request) {
	h.mutateUser(w, r, h.Svc.ReactivateUser)
}

// mutateUser runs a single-user admin mutation and writes the updated record.
func (h *AdminHandlers) mutateUser(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, actorID, targetID string) (*model.User, error),
) {
	user, err := op(r.Context(), actorID(r), r.PathValue("id"))
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

func actorID(r *http.Request) string {
	if session := GetSessionFromContext(r.Context()); session != nil {
		return session.UserID
	}
	return ""
}

// writeAdminError maps service and data errors to HTTP responses.
func (h *AdminHandlers) writeAdminError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, data.ErrUserNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("user not found")})
	case errors.Is(err, data.ErrFeedbackNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("feedback not found")})
	default:
		h.logger().ErrorContext(r.Context(), "admin operation failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal_error", Err: errors.New("internal error")})
	}
}

func (h *AdminHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// queryInt parses an integer query parameter, returning 0 when absent or bad.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}

// queryString returns a pointer to a non-empty query parameter, else nil.
func queryString(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}

// queryBool parses a boolean query parameter, returning nil when absent or bad.
func queryBool(r *http.Request, name string) *bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
