package httpx

import (
	"errors"
	"net/http"
)

// ListSessions returns a user's live sessions.
// GET /api/admin/sessions?user_id=<id>.
func (h *AdminHandlers) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_user_id",
			Err:     errors.New("user_id query parameter is required"),
		})
		return
	}

	sessions, err := h.Svc.ListUserSessions(r.Context(), userID)
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"sessions": sessions,
	})
}

// RevokeSession deletes a session by ID. Revoking a session that is already
// gone still returns 200; the end state is the same either way.
// DELETE /api/admin/sessions/{id}.
func (h *AdminHandlers) RevokeSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.RevokeSession(r.Context(), actorID(r), r.PathValue("id")); err != nil {
		h.writeAdminError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
