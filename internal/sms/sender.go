package sms

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sender hands one SMS to a provider and returns the provider's message SID.
type Sender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// MockSender simulates a provider. FailureRate is the share of sends that fail.
type MockSender struct {
	// From is the sender ID shown to recipients.
	From        string
	FailureRate float64
	Logger      *zap.Logger
	// Rand returns values in [0,1); defaults to math/rand.
	Rand func() float64
}

func NewMockSender(from string, failureRate float64, logger *zap.Logger) *MockSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MockSender{From: from, FailureRate: failureRate, Logger: logger}
}

func (s *MockSender) Send(ctx context.Context, to, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(to) == "" {
		return "", fmt.Errorf("missing destination number")
	}
	if s.From == "" {
		return "", fmt.Errorf("missing sender ID")
	}

	r := rand.Float64
	if s.Rand != nil {
		r = s.Rand
	}
	if r() < s.FailureRate {
		return "", fmt.Errorf("mock sending failed")
	}

	sid := NewSID()
	if s.Logger != nil {
		s.Logger.Debug("mock sms sent", zap.String("from", s.From), zap.String("to", to), zap.Int("length", len(body)), zap.String("sid", sid))
	}
	return sid, nil
}

// NewSID produces a provider-style message identifier.
func NewSID() string {
	return "SM" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
