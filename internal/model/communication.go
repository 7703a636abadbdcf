// internal/model/communication.go
package model

import "time"

type CommunicationStatus string

const (
	StatusDraft     CommunicationStatus = "DRAFT"
	StatusScheduled CommunicationStatus = "SCHEDULED"
	StatusSending   CommunicationStatus = "SENDING"
	StatusSent      CommunicationStatus = "SENT"
	StatusFailed    CommunicationStatus = "FAILED"
)

type Communication struct {
	ID             ID                  `db:"id" json:"id"`
	Name           string              `db:"name" json:"name"`
	Audience       AudienceSelector    `db:"audience" json:"audience"`
	CustomAudience []ID                `db:"custom_audience" json:"customAudience,omitempty"`
	Message        string              `db:"message" json:"message"`
	Status         CommunicationStatus `db:"status" json:"status"`
	ScheduledAt    *time.Time          `db:"scheduled_at" json:"scheduledAt,omitempty"`
	SentCount      int                 `db:"sent_count" json:"sentCount"`
	DeliveredCount int                 `db:"delivered_count" json:"deliveredCount"`
	FailedCount    int                 `db:"failed_count" json:"failedCount"`
	CreatedAt      time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt      *time.Time          `db:"updated_at" json:"updatedAt,omitempty"`
}

// Editable reports whether the communication may still be changed. Once
// sending has started the record is frozen.
func (c *Communication) Editable() bool {
	return c.Status == StatusDraft || c.Status == StatusScheduled
}

// CanSend reports whether a dispatch may be started from the current status.
func (c *Communication) CanSend() bool {
	return c.Status == StatusDraft || c.Status == StatusScheduled
}

// CommunicationStats is the dashboard summary served at communications/stats.
type CommunicationStats struct {
	Total             int  `json:"total"`
	Draft             int  `json:"draft"`
	Scheduled         int  `json:"scheduled"`
	Sent              int  `json:"sent"`
	Failed            int  `json:"failed"`
	TotalSMSSent      *int `json:"totalSmsSent,omitempty"`
	TotalSMSDelivered *int `json:"totalSmsDelivered,omitempty"`
}
