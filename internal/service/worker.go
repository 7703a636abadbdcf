package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/unclebandit/fellowship-comms/internal/model"
	"github.com/unclebandit/fellowship-comms/internal/queue"
	"github.com/unclebandit/fellowship-comms/internal/sms"
)

// Worker delivers queued outbound messages and keeps the owning
// communication's counters and status current.
type Worker struct {
	Outbound OutboundStore
	Tracker  DeliveryTracker
	Sender   sms.Sender
	Logger   *zap.Logger
	// MaxAttempts is how many sends a message gets before it is marked
	// failed. It should match the queue's redelivery budget.
	MaxAttempts int

	// refreshMu keeps concurrent handlers from writing stale counters.
	refreshMu sync.Mutex
}

func NewWorker(outbound OutboundStore, tracker DeliveryTracker, sender sms.Sender, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		Outbound:    outbound,
		Tracker:     tracker,
		Sender:      sender,
		Logger:      logger,
		MaxAttempts: queue.DefaultMaxRetries + 1,
	}
}

// Handle is the queue callback. A returned error asks the queue to redeliver.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	job, err := DecodeSendJob(body)
	if err != nil {
		w.Logger.Warn("dropping malformed job", zap.Error(err))
		return nil
	}
	return w.Process(ctx, job.OutboundMessageID)
}

// Process makes one send attempt. A failed attempt leaves the message
// pending and returns the error until MaxAttempts is used up; the last
// failure marks it failed and is not redelivered.
func (w *Worker) Process(ctx context.Context, id model.ID) error {
	msg, err := w.Outbound.GetOutboundMessage(ctx, id)
	if err != nil {
		w.Logger.Warn("failed to fetch outbound message", zap.String("id", string(id)), zap.Error(err))
		return err
	}
	if msg == nil {
		w.Logger.Warn("outbound message not found", zap.String("id", string(id)))
		return nil
	}
	if msg.Status != model.OutboundPending {
		// Redelivered after a final outcome.
		return nil
	}

	sid, sendErr := w.Sender.Send(ctx, msg.Phone, msg.RenderedContent)
	if sendErr != nil {
		msg.RetryCount++
		msg.LastError = sendErr.Error()
		if msg.RetryCount >= w.maxAttempts() {
			msg.Status = model.OutboundFailed
		}
	} else {
		msg.Status = model.OutboundSent
		msg.ProviderSID = sid
		msg.LastError = ""
	}

	if err := w.Outbound.UpdateOutboundMessage(ctx, msg); err != nil {
		w.Logger.Warn("failed to update outbound message", zap.String("id", string(id)), zap.Error(err))
		return err
	}
	if err := w.refresh(ctx, msg.CommunicationID); err != nil {
		return err
	}

	if sendErr != nil {
		if msg.Status == model.OutboundFailed {
			w.Logger.Warn("send failed, giving up", zap.String("id", string(id)), zap.Int("attempts", msg.RetryCount), zap.Error(sendErr))
			return nil
		}
		w.Logger.Warn("send failed, will retry", zap.String("id", string(id)), zap.Int("attempt", msg.RetryCount), zap.Error(sendErr))
		return sendErr
	}
	w.Logger.Info("message sent", zap.String("id", string(id)), zap.String("sid", sid))
	return nil
}

func (w *Worker) maxAttempts() int {
	if w.MaxAttempts > 0 {
		return w.MaxAttempts
	}
	return 1
}

func (w *Worker) refresh(ctx context.Context, communicationID model.ID) error {
	w.refreshMu.Lock()
	defer w.refreshMu.Unlock()
	return settle(ctx, w.Outbound, w.Tracker, communicationID)
}

// settle recomputes counters from the outbound messages and closes the
// communication once none is pending.
func settle(ctx context.Context, outbound OutboundStore, tracker DeliveryTracker, communicationID model.ID) error {
	counts, err := outbound.CountByStatus(ctx, communicationID)
	if err != nil {
		return err
	}
	sent := counts[model.OutboundSent]
	failed := counts[model.OutboundFailed]

	if err := tracker.UpdateCounters(ctx, communicationID, sent+failed, sent, failed); err != nil {
		return err
	}
	if counts[model.OutboundPending] > 0 {
		return nil
	}

	status := model.StatusSent
	if sent == 0 && failed > 0 {
		status = model.StatusFailed
	}
	return tracker.UpdateStatus(ctx, communicationID, status)
}
