package httpx

import (
	"errors"
	"net/http"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/service"
)

// FeedbackHandlers provides HTTP handlers for user-facing feedback operations.
type FeedbackHandlers struct {
	Svc *service.FeedbackService
}

// Submit files a feedback item for the current user.
// POST /api/feedback {subject, body}.
func (h *FeedbackHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req model.CreateFeedbackRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	fb, err := h.Svc.Submit(r.Context(), session.UserID, &req)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation_error",
			Err:     err,
		})
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"feedback": fb,
	})
}

// ListMine returns the current user's feedback, newest first.
// GET /api/feedback.
func (h *FeedbackHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	items, err := h.Svc.ListForUser(r.Context(), session.UserID)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "feedback_list_failed",
			Err:     err,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"feedback": items,
	})
}
