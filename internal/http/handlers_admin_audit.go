package httpx

import (
	"net/http"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
)

// ListAudit returns recent audit entries, newest first.
// GET /api/admin/audit?action=&actor_id=&target_id=&limit=&offset=.
func (h *AdminHandlers) ListAudit(w http.ResponseWriter, r *http.Request) {
	opts := &model.AuditListOptions{
		Limit:    queryInt(r, "limit"),
		Offset:   queryInt(r, "offset"),
		Action:   queryString(r, "action"),
		ActorID:  queryString(r, "actor_id"),
		TargetID: queryString(r, "target_id"),
	}

	entries, err := h.Audit.List(r.Context(), opts)
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"entries": entries,
	})
}
