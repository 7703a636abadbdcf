package queue

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Handler receives the JSON body of a published payload. Returning an error
// requests redelivery.
type Handler func(body []byte) error

// DefaultMaxRetries is how often both queues redeliver a failed payload
// after the first attempt.
const DefaultMaxRetries = 3

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler Handler) error
}

// InMemoryQueue delivers to in-process subscribers with bounded retries.
type InMemoryQueue struct {
	mu       sync.Mutex
	wg       sync.WaitGroup
	handlers map[string][]Handler

	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(logger *zap.Logger) *InMemoryQueue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryQueue{
		handlers:   make(map[string][]Handler),
		MaxRetries: DefaultMaxRetries,
		RetryDelay: 500 * time.Millisecond,
		Logger:     logger,
	}
}

// job wraps a message body with retry info
type job struct {
	Body       []byte
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload for %s: %w", topic, err)
	}

	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		q.wg.Add(1)
		go q.processJob(handler, job{Body: body, MaxRetries: q.MaxRetries})
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler Handler, j job) {
	defer q.wg.Done()

	for j.RetryCount <= j.MaxRetries {
		err := handler(j.Body)
		if err == nil {
			return
		}

		j.RetryCount++
		q.Logger.Warn("job failed",
			zap.Int("attempt", j.RetryCount),
			zap.Int("max_retries", j.MaxRetries),
			zap.ByteString("body", j.Body),
			zap.Error(err),
		)

		if j.RetryCount > j.MaxRetries {
			q.Logger.Error("job permanently failed", zap.ByteString("body", j.Body))
			return
		}

		// Linear backoff before retry
		time.Sleep(time.Duration(j.RetryCount) * q.RetryDelay)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler Handler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Wait blocks until every published job has finished, including retries.
func (q *InMemoryQueue) Wait() {
	q.wg.Wait()
}

var _ Queue = (*InMemoryQueue)(nil)
