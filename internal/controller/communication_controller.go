// internal/controller/communication_controller.go
package controller

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/fellowship-comms/internal/handler"
	"github.com/unclebandit/fellowship-comms/internal/model"
	"github.com/unclebandit/fellowship-comms/internal/service"
)

type CommunicationController struct {
	CampaignService *service.CampaignService
	DispatchService *service.DispatchService
	Logger          *zap.Logger
}

func (c *CommunicationController) CreateCommunication(w http.ResponseWriter, r *http.Request) {
	var draft service.CampaignDraft
	if err := handler.DecodeJSON(r, &draft); err != nil {
		handler.WriteError(w, err)
		return
	}
	draft.ID = ""

	comm, err := c.CampaignService.Submit(r.Context(), draft)
	if err != nil {
		handler.WriteError(w, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, comm)
}

func (c *CommunicationController) UpdateCommunication(w http.ResponseWriter, r *http.Request) {
	var draft service.CampaignDraft
	if err := handler.DecodeJSON(r, &draft); err != nil {
		handler.WriteError(w, err)
		return
	}
	draft.ID = model.ID(chi.URLParam(r, "id"))

	comm, err := c.CampaignService.Submit(r.Context(), draft)
	if err != nil {
		handler.WriteError(w, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, comm)
}

func (c *CommunicationController) GetCommunication(w http.ResponseWriter, r *http.Request) {
	comm, err := c.CampaignService.GetCommunication(r.Context(), model.ID(chi.URLParam(r, "id")))
	if err != nil {
		handler.WriteError(w, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, comm)
}

func (c *CommunicationController) ListCommunications(w http.ResponseWriter, r *http.Request) {
	// Parse query parameters
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	status := r.URL.Query().Get("status")

	communications, pagination, err := c.CampaignService.ListCommunications(r.Context(), page, pageSize, status)
	if err != nil {
		handler.WriteError(w, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, map[string]any{
		"data":       communications,
		"pagination": pagination,
	})
}

func (c *CommunicationController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.CampaignService.Stats(r.Context())
	if err != nil {
		c.Logger.Error("failed to compute stats", zap.Error(err))
		handler.WriteError(w, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, stats)
}

func (c *CommunicationController) SendCommunication(w http.ResponseWriter, r *http.Request) {
	result, err := c.DispatchService.Send(r.Context(), model.ID(chi.URLParam(r, "id")))
	if err != nil {
		handler.WriteError(w, err)
		return
	}
	handler.WriteJSON(w, http.StatusAccepted, result)
}

func (c *CommunicationController) Preview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message  string   `json:"message"`
		MemberID model.ID `json:"memberId,omitempty"`
	}
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.WriteError(w, err)
		return
	}

	rendered, err := c.CampaignService.Preview(r.Context(), body.Message, body.MemberID)
	if err != nil {
		handler.WriteError(w, err)
		return
	}

	estimate := service.EstimateCost(service.MessageLength(rendered), 1, c.CampaignService.UnitPrice)
	handler.WriteJSON(w, http.StatusOK, map[string]any{
		"renderedMessage": rendered,
		"memberId":        body.MemberID,
		"characters":      estimate.Characters,
		"segments":        estimate.Segments,
	})
}

func (c *CommunicationController) Estimate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Audience       model.AudienceSelector `json:"audience"`
		CustomAudience []model.ID             `json:"customAudience,omitempty"`
		Message        string                 `json:"message"`
	}
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.WriteError(w, err)
		return
	}

	estimate, err := c.CampaignService.Estimate(r.Context(), body.Audience, body.CustomAudience, body.Message)
	if err != nil {
		handler.WriteError(w, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, map[string]any{
		"estimate": estimate,
		"display":  estimate.Display(),
	})
}
