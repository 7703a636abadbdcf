// internal/model/outbound_message.go
package model

import "time"

type OutboundStatus string

const (
	OutboundPending OutboundStatus = "pending"
	OutboundSent    OutboundStatus = "sent"
	OutboundFailed  OutboundStatus = "failed"
)

// OutboundMessage is one personalised SMS produced when a communication is dispatched.
type OutboundMessage struct {
	ID              ID             `db:"id" json:"id"`
	CommunicationID ID             `db:"communication_id" json:"communicationId"`
	MemberID        ID             `db:"member_id" json:"memberId"`
	Phone           string         `db:"phone" json:"phone"`
	Status          OutboundStatus `db:"status" json:"status"`
	RenderedContent string         `db:"rendered_content" json:"renderedContent"`
	ProviderSID     string         `db:"provider_sid" json:"providerSid,omitempty"`
	LastError       string         `db:"last_error" json:"lastError,omitempty"`
	RetryCount      int            `db:"retry_count" json:"retryCount"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updatedAt"`
}
