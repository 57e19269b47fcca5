package httpx

import (
	"errors"
	"net/http"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
)

// ListFeedback returns feedback items matching the query filters.
// GET /api/admin/feedback?status=&user_id=&limit=&offset=.
func (h *AdminHandlers) ListFeedback(w http.ResponseWriter, r *http.Request) {
	opts := &model.FeedbackListOptions{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
		UserID: queryString(r, "user_id"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := model.FeedbackStatus(raw)
		if !status.Valid() {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_status",
				Err:     errors.New("unknown status filter"),
			})
			return
		}
		opts.Status = &status
	}

	items, err := h.Svc.ListFeedback(r.Context(), opts)
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"feedback": items,
	})
}

// ReplyFeedback stores an admin reply on a feedback item.
// POST /api/admin/feedback/{id}/reply {message}.
func (h *AdminHandlers) ReplyFeedback(w http.ResponseWriter, r *http.Request) {
	var req model.ReplyFeedbackRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation_error",
			Err:     err,
		})
		return
	}

	fb, err := h.Svc.ReplyFeedback(r.Context(), actorID(r), r.PathValue("id"), req.Message)
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"feedback": fb,
	})
}

// ResolveFeedback marks a feedback item resolved. Resolving an already
// resolved item succeeds and keeps the original resolution time.
// POST /api/admin/feedback/{id}/resolve.
func (h *AdminHandlers) ResolveFeedback(w http.ResponseWriter, r *http.Request) {
	fb, err := h.Svc.ResolveFeedback(r.Context(), actorID(r), r.PathValue("id"))
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"feedback": fb,
	})
}
