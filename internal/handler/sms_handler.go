package handler

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/fellowship-comms/internal/errors"
	"github.com/unclebandit/fellowship-comms/internal/service"
	"github.com/unclebandit/fellowship-comms/internal/sms"
)

// SMSHandler sends one-off test messages outside any communication.
type SMSHandler struct {
	Sender sms.Sender
	Logger *zap.Logger
}

// TestSMSHandler handles POST /sms/test
func (h *SMSHandler) TestSMSHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		To      string `json:"to"`
		Message string `json:"message"`
	}
	if err := DecodeJSON(r, &body); err != nil {
		WriteError(w, err)
		return
	}
	if strings.TrimSpace(body.To) == "" {
		WriteError(w, appErrors.NewValidation("to", "must not be empty"))
		return
	}
	if strings.TrimSpace(body.Message) == "" {
		WriteError(w, appErrors.NewValidation("message", "must not be empty"))
		return
	}
	if service.MessageLength(body.Message) > service.MaxMessageLength {
		WriteError(w, appErrors.NewValidation("message", "must be at most 1600 characters"))
		return
	}

	sid, err := h.Sender.Send(r.Context(), body.To, body.Message)
	if err != nil {
		h.Logger.Warn("test sms failed", zap.Error(err))
		WriteJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	h.Logger.Info("test sms sent", zap.String("sid", sid))
	WriteJSON(w, http.StatusOK, map[string]any{"result": map[string]string{"sid": sid}})
}
