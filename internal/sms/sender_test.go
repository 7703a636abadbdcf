package sms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockSender_Succeeds(t *testing.T) {
	s := NewMockSender("FELLOWSHIP", 0, nil)

	sid, err := s.Send(context.Background(), "+15550100", "hello")
	require.NoError(t, err)
	assert.Len(t, sid, 34)
	assert.Equal(t, "SM", sid[:2])
}

func TestMockSender_Fails(t *testing.T) {
	s := NewMockSender("FELLOWSHIP", 0.5, nil)
	s.Rand = func() float64 { return 0.1 }

	_, err := s.Send(context.Background(), "+15550100", "hello")
	assert.Error(t, err)
}

func TestMockSender_RequiresNumber(t *testing.T) {
	_, err := NewMockSender("FELLOWSHIP", 0, nil).Send(context.Background(), " ", "hello")
	assert.Error(t, err)
}

func TestMockSender_RequiresSenderID(t *testing.T) {
	_, err := NewMockSender("", 0, nil).Send(context.Background(), "+15550100", "hello")
	assert.ErrorContains(t, err, "sender ID")
}
