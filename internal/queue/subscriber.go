package queue

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/repository"
)

const auditWriteTimeout = 5 * time.Second

// StartAuditSubscriber persists every record event published on topic
func StartAuditSubscriber(q Queue, topic string, auditRepo repository.AuditRepositoryInterface, logger *zap.Logger) error {
	return q.Subscribe(topic, func(body []byte) error {
		var ev model.RecordEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			// Malformed payloads never succeed, so don't retry them
			logger.Warn("Invalid record event payload", zap.ByteString("body", body), zap.Error(err))
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		defer cancel()

		if err := auditRepo.Insert(ctx, ev); err != nil {
			logger.Error("Failed to store record event", zap.String("event_id", ev.ID.String()), zap.Error(err))
			return err
		}

		logger.Debug("Record event stored",
			zap.String("event_id", ev.ID.String()),
			zap.String("type", ev.Type),
			zap.Int("customer_id", ev.CustomerID),
		)
		return nil
	})
}
