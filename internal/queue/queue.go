package queue

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Handler processes one delivered message body. A non-nil error asks for redelivery.
type Handler func(body []byte) error

// Queue is the transport for change events. Payloads travel as JSON on every implementation.
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler Handler) error
	Close() error
}

// InMemoryQueue delivers to in-process subscribers with bounded retries
type InMemoryQueue struct {
	mu         sync.Mutex
	handlers   map[string][]Handler
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
	wg         sync.WaitGroup
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(logger *zap.Logger) *InMemoryQueue {
	return &InMemoryQueue{
		handlers:   make(map[string][]Handler),
		maxRetries: 3,
		backoff:    500 * time.Millisecond,
		logger:     logger,
	}
}

// job wraps a message body with retry info
type job struct {
	topic      string
	body       []byte
	retryCount int
}

// Publish sends a message to all subscribers of topic
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", topic, err)
	}

	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		q.wg.Add(1)
		go q.processJob(handler, job{topic: topic, body: body})
	}

	return nil
}

// processJob handles retries with linear backoff
func (q *InMemoryQueue) processJob(handler Handler, j job) {
	defer q.wg.Done()

	for {
		err := handler(j.body)
		if err == nil {
			return
		}

		j.retryCount++
		q.logger.Warn("Job failed",
			zap.String("topic", j.topic),
			zap.Int("attempt", j.retryCount),
			zap.Int("max_retries", q.maxRetries),
			zap.Error(err),
		)

		if j.retryCount > q.maxRetries {
			q.logger.Error("Job permanently failed", zap.String("topic", j.topic), zap.ByteString("body", j.body))
			return
		}

		time.Sleep(time.Duration(j.retryCount) * q.backoff)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler Handler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Close waits for in-flight jobs, including their retries
func (q *InMemoryQueue) Close() error {
	q.wg.Wait()
	return nil
}

var _ Queue = (*InMemoryQueue)(nil)
