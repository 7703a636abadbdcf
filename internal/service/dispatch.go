package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/fellowship-comms/internal/errors"
	"github.com/unclebandit/fellowship-comms/internal/model"
	"github.com/unclebandit/fellowship-comms/internal/queue"
)

const SendTopic = "communication_sends"

// SendJob is the queued unit of work: one outbound message.
type SendJob struct {
	OutboundMessageID model.ID `json:"outbound_message_id"`
}

func DecodeSendJob(body []byte) (SendJob, error) {
	var job SendJob
	if err := json.Unmarshal(body, &job); err != nil {
		return job, fmt.Errorf("invalid send job: %w", err)
	}
	if job.OutboundMessageID == "" {
		return job, fmt.Errorf("invalid send job: missing outbound_message_id")
	}
	return job, nil
}

type SendResult struct {
	CommunicationID model.ID   `json:"communicationId"`
	MessagesQueued  int        `json:"messagesQueued"`
	Skipped         int        `json:"skipped"`
	Status          string     `json:"status"`
	MessageIDs      []model.ID `json:"messageIds"`
}

// DispatchService turns a stored communication into queued outbound messages.
type DispatchService struct {
	Communications CommunicationStore
	Tracker        DeliveryTracker
	Outbound       OutboundStore
	Members        MemberDirectory
	Queue          queue.Queue
	Topic          string
	Links          Links
	Logger         *zap.Logger
}

func (s *DispatchService) topic() string {
	if s.Topic != "" {
		return s.Topic
	}
	return SendTopic
}

// Send renders one message per reachable recipient, stores it and queues its
// ID. Failures on individual recipients are logged and skipped.
func (s *DispatchService) Send(ctx context.Context, id model.ID) (*SendResult, error) {
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c, err := s.Communications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.CanSend() {
		return nil, appErrors.NewImmutableCommunication(string(c.ID), string(c.Status))
	}

	members, err := s.Members.ListMembers(ctx, model.MemberFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	recipients, err := ResolveRecipients(c.Audience, members, c.CustomAudience)
	if err != nil {
		return nil, err
	}

	if err := s.Tracker.UpdateStatus(ctx, c.ID, model.StatusSending); err != nil {
		return nil, err
	}

	result := &SendResult{
		CommunicationID: c.ID,
		Status:          string(model.StatusSending),
		MessageIDs:      []model.ID{},
	}

	// Store every message before queuing any: the worker closes the
	// communication as soon as none is pending.
	var stored []*model.OutboundMessage
	for _, m := range recipients {
		msg := &model.OutboundMessage{
			CommunicationID: c.ID,
			MemberID:        m.ID,
			Phone:           m.Phone,
			Status:          model.OutboundPending,
			RenderedContent: RenderTemplate(c.Message, TemplateDataFor(m, s.Links)),
		}
		if err := s.Outbound.CreateOutboundMessage(ctx, msg); err != nil {
			log.Warn("failed to create outbound message", zap.String("member_id", string(m.ID)), zap.Error(err))
			result.Skipped++
			continue
		}
		stored = append(stored, msg)
	}

	unpublished := 0
	for _, msg := range stored {
		if err := s.Queue.Publish(s.topic(), SendJob{OutboundMessageID: msg.ID}); err != nil {
			log.Warn("failed to enqueue outbound message", zap.String("message_id", string(msg.ID)), zap.Error(err))
			// Never delivered; it must not stay pending.
			msg.Status = model.OutboundFailed
			msg.LastError = err.Error()
			if uerr := s.Outbound.UpdateOutboundMessage(ctx, msg); uerr != nil {
				return result, uerr
			}
			result.Skipped++
			unpublished++
			continue
		}
		result.MessageIDs = append(result.MessageIDs, msg.ID)
		result.MessagesQueued++
	}

	switch {
	case result.MessagesQueued == 0:
		// Nothing will ever come back from the worker to close this out.
		status := model.StatusSent
		if result.Skipped > 0 {
			status = model.StatusFailed
		}
		if err := s.Tracker.UpdateStatus(ctx, c.ID, status); err != nil {
			return result, err
		}
		result.Status = string(status)
	case unpublished > 0:
		// The worker may have finished the queued messages before these
		// left pending.
		if err := settle(ctx, s.Outbound, s.Tracker, c.ID); err != nil {
			return result, err
		}
	}

	log.Info("communication dispatched",
		zap.String("id", string(c.ID)),
		zap.Int("queued", result.MessagesQueued),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}
