// internal/handler/member_handler.go
package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/unclebandit/fellowship-comms/internal/model"
	"github.com/unclebandit/fellowship-comms/internal/service"
)

// MemberHandler serves the read-only member directory.
type MemberHandler struct {
	Members service.MemberDirectory
	Logger  *zap.Logger
}

// ListMembersHandler handles GET /members?filter=&paymentStatus=&consent=
func (h *MemberHandler) ListMembersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.MemberFilter{
		Search:        q.Get("filter"),
		PaymentStatus: model.PaymentStatus(q.Get("paymentStatus")),
	}
	if consent, err := strconv.ParseBool(q.Get("consent")); err == nil {
		filter.ConsentOnly = consent
	}

	members, err := h.Members.ListMembers(r.Context(), filter)
	if err != nil {
		h.Logger.Error("failed to list members", zap.Error(err))
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"members": members})
}
