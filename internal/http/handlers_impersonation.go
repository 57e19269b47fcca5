package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/data"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/service"
)

// ImpersonationHandlers provides HTTP handlers for admin impersonation.
// Impersonation only changes what /api/me displays; the admin's real session
// keeps making every authorization decision and appears in every audit entry.
type ImpersonationHandlers struct {
	Svc          *service.ImpersonationService
	CookieDomain string
	Logger       *slog.Logger
}

// Start begins impersonating the target user.
// POST /api/admin/impersonate/{id}.
func (h *ImpersonationHandlers) Start(w http.ResponseWriter, r *http.Request) {
	target, err := h.Svc.Start(r.Context(), actorID(r), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImpersonateSelf):
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_target",
				Err:     err,
			})
		case errors.Is(err, data.ErrUserNotFound):
			WriteError(w, ErrorParams{
				Code:    http.StatusNotFound,
				ErrCode: "not_found",
				Err:     errors.New("user not found"),
			})
		default:
			WriteError(w, ErrorParams{
				Code:    http.StatusInternalServerError,
				ErrCode: "internal_error",
				Err:     errors.New("internal error"),
			})
		}
		return
	}

	setImpersonationCookie(w, r, h.CookieDomain, target.ID)
	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    target,
	})
}

// Revert ends the current impersonation. Reverting with no active
// impersonation still returns 200 and is still audited; the request
// expresses admin intent either way.
// POST /api/admin/impersonate/revert.
func (h *ImpersonationHandlers) Revert(w http.ResponseWriter, r *http.Request) {
	var target *string
	if cookie, err := r.Cookie(ImpersonationCookieName); err == nil && cookie.Value != "" {
		target = &cookie.Value
	}

	h.Svc.Revert(r.Context(), actorID(r), target)
	clearCookie(w, r, h.CookieDomain, ImpersonationCookieName)

	WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
