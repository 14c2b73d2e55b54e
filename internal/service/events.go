package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/logger"
	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/queue"
)

// EventPublisher announces successful writes. A nil publisher is a no-op.
type EventPublisher struct {
	Queue queue.Queue
	Topic string
}

func NewEventPublisher(q queue.Queue, topic string) *EventPublisher {
	return &EventPublisher{Queue: q, Topic: topic}
}

// Publish never fails the caller: the write it describes has already happened.
func (p *EventPublisher) Publish(ctx context.Context, ev model.RecordEvent) {
	if p == nil || p.Queue == nil {
		return
	}
	if err := p.Queue.Publish(p.Topic, ev); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish record event",
			zap.String("type", ev.Type),
			zap.Int("customer_id", ev.CustomerID),
			zap.Error(err),
		)
	}
}
