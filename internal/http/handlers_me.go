package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/service"
)

// MeHandlers serves the current-user profile. The profile is always read
// fresh from the store; token claims are never echoed back as authoritative.
type MeHandlers struct {
	Authz        Authorizer
	Users        service.UserStore
	CookieDomain string
	Logger       *slog.Logger
}

// Me returns the current user's profile.
// GET /api/me.
//
// When a valid impersonation cookie is present and the real user is an admin,
// the impersonated profile is returned instead, flagged so clients can render
// an indicator. A stale or unauthorized impersonation cookie is cleared and
// ignored rather than failing the request.
func (h *MeHandlers) Me(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	user, err := h.Authz.RequireUser(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			WriteError(w, ErrorParams{
				Code:    http.StatusForbidden,
				ErrCode: "forbidden",
				Err:     errors.New("account is not available"),
			})
			return
		}
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "profile_lookup_failed",
			Err:     err,
		})
		return
	}

	if cookie, cookieErr := r.Cookie(ImpersonationCookieName); cookieErr == nil && cookie.Value != "" {
		// Impersonation changes only what this endpoint shows. The real
		// identity stays in the session and must hold the admin role.
		if _, adminErr := h.Authz.RequireAdmin(r.Context(), session.UserID); adminErr == nil {
			if target, targetErr := h.Users.GetByID(r.Context(), cookie.Value); targetErr == nil {
				WriteJSON(w, http.StatusOK, map[string]any{
					"success":       true,
					"user":          target,
					"impersonating": true,
					"real_user": map[string]any{
						"id":    user.ID,
						"email": user.Email,
						"role":  user.Role,
					},
				})
				return
			}
		}
		clearCookie(w, r, h.CookieDomain, ImpersonationCookieName)
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}
