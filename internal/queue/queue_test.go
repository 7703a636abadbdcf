package queue

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueue_DeliversJSON(t *testing.T) {
	q := NewInMemoryQueue(nil)

	got := make(chan string, 1)
	require.NoError(t, q.Subscribe("sends", func(body []byte) error {
		got <- string(body)
		return nil
	}))

	require.NoError(t, q.Publish("sends", map[string]string{"outbound_message_id": "abc"}))
	q.Wait()

	assert.JSONEq(t, `{"outbound_message_id":"abc"}`, <-got)
}

func TestInMemoryQueue_RetriesUntilSuccess(t *testing.T) {
	q := NewInMemoryQueue(nil)
	q.RetryDelay = time.Millisecond

	var calls int32
	require.NoError(t, q.Subscribe("sends", func(body []byte) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("provider busy")
		}
		return nil
	}))

	require.NoError(t, q.Publish("sends", 1))
	q.Wait()
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestInMemoryQueue_GivesUp(t *testing.T) {
	q := NewInMemoryQueue(nil)
	q.RetryDelay = time.Millisecond
	q.MaxRetries = 2

	var calls int32
	require.NoError(t, q.Subscribe("sends", func(body []byte) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("always")
	}))

	require.NoError(t, q.Publish("sends", 1))
	q.Wait()
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestInMemoryQueue_NoSubscribers(t *testing.T) {
	q := NewInMemoryQueue(nil)
	assert.Error(t, q.Publish("nobody", 1))
}

func TestRetryCount(t *testing.T) {
	assert.Equal(t, 0, retryCount(nil))
	assert.Equal(t, 2, retryCount(amqp.Table{"x-retry-count": int32(2)}))
	assert.Equal(t, 3, retryCount(amqp.Table{"x-retry-count": int64(3)}))
}
