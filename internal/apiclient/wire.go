package apiclient

import (
	"time"

	"github.com/unclebandit/fellowship-comms/internal/model"
	"github.com/unclebandit/fellowship-comms/internal/service"
)

// The backend has served documents keyed by both "id" and "_id". The wire
// types accept either and collapse them into model.ID here, once.

type wireMember struct {
	ID              string              `json:"id"`
	DocumentID      string              `json:"_id"`
	FirstName       string              `json:"firstName"`
	LastName        string              `json:"lastName"`
	Phone           string              `json:"phone"`
	Email           string              `json:"email"`
	PaymentStatus   model.PaymentStatus `json:"paymentStatus"`
	DelinquencyDays int                 `json:"delinquencyDays"`
	Eligibility     model.Eligibility   `json:"eligibility"`
	Consent         bool                `json:"consent"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

func canonicalID(id, documentID string) model.ID {
	if id != "" {
		return model.ID(id)
	}
	return model.ID(documentID)
}

func (w wireMember) toModel() model.Member {
	m := model.Member{
		ID:              canonicalID(w.ID, w.DocumentID),
		FirstName:       w.FirstName,
		LastName:        w.LastName,
		Phone:           w.Phone,
		Email:           w.Email,
		PaymentStatus:   w.PaymentStatus,
		DelinquencyDays: w.DelinquencyDays,
		Eligibility:     w.Eligibility,
		Consent:         w.Consent,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
	m.Normalize()
	return m
}

type wireCommunication struct {
	model.Communication
	DocumentID string `json:"_id"`
}

func (w wireCommunication) toModel() *model.Communication {
	c := w.Communication
	c.ID = canonicalID(string(w.ID), w.DocumentID)
	return &c
}

// bodyFor builds the POST/PATCH body. It is the draft the server decodes;
// the server derives status from the schedule.
func bodyFor(c *model.Communication) service.CampaignDraft {
	return service.CampaignDraft{
		Name:           c.Name,
		Audience:       c.Audience,
		CustomAudience: c.CustomAudience,
		Message:        c.Message,
		ScheduledAt:    c.ScheduledAt,
	}
}
