package service

import (
	"context"

	"github.com/unclebandit/fellowship-comms/internal/model"
)

// MemberDirectory is the read-only source of members. Implementations return
// normalised members.
type MemberDirectory interface {
	ListMembers(ctx context.Context, filter model.MemberFilter) ([]model.Member, error)
}

// MemberLookup is implemented by directories that can fetch one member
// directly. GetByID returns nil, nil when the member does not exist.
type MemberLookup interface {
	GetByID(ctx context.Context, id model.ID) (*model.Member, error)
}

// CommunicationStore persists communications. Create and Update replace *c
// with what the store acknowledged.
type CommunicationStore interface {
	Create(ctx context.Context, c *model.Communication) error
	Update(ctx context.Context, c *model.Communication) error
	GetByID(ctx context.Context, id model.ID) (*model.Communication, error)
	Stats(ctx context.Context) (*model.CommunicationStats, error)
}

// DeliveryTracker records dispatch progress on a communication.
type DeliveryTracker interface {
	UpdateStatus(ctx context.Context, id model.ID, status model.CommunicationStatus) error
	UpdateCounters(ctx context.Context, id model.ID, sent, delivered, failed int) error
}

// OutboundStore holds the per-recipient messages produced by a dispatch.
type OutboundStore interface {
	CreateOutboundMessage(ctx context.Context, msg *model.OutboundMessage) error
	GetOutboundMessage(ctx context.Context, id model.ID) (*model.OutboundMessage, error)
	UpdateOutboundMessage(ctx context.Context, msg *model.OutboundMessage) error
	CountByStatus(ctx context.Context, communicationID model.ID) (map[model.OutboundStatus]int, error)
}

// CommunicationLister pages through stored communications, newest first.
type CommunicationLister interface {
	ListCommunications(ctx context.Context, offset, limit int, status string) ([]*model.Communication, int, error)
}
