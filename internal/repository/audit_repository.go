package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/unclebandit/customer-records/internal/model"
)

type AuditRepositoryInterface interface {
	Insert(ctx context.Context, e model.RecordEvent) error
	ListByCustomer(ctx context.Context, customerID, limit int) ([]model.RecordEvent, error)
}

// AuditRepository persists change events delivered through the queue
type AuditRepository struct {
	DB *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{DB: db}
}

// Insert is idempotent on the event id so redelivered messages are harmless
func (r *AuditRepository) Insert(ctx context.Context, e model.RecordEvent) error {
	query := `
        INSERT INTO record_events (id, type, customer_id, address_id, occurred_at)
        VALUES (:id, :type, :customer_id, :address_id, :occurred_at)
        ON CONFLICT (id) DO NOTHING
    `
	_, err := r.DB.NamedExecContext(ctx, query, e)
	return err
}

// ListByCustomer returns the newest events first
func (r *AuditRepository) ListByCustomer(ctx context.Context, customerID, limit int) ([]model.RecordEvent, error) {
	query := `
        SELECT id, type, customer_id, address_id, occurred_at
        FROM record_events
        WHERE customer_id = $1
        ORDER BY occurred_at DESC
        LIMIT $2
    `
	events := []model.RecordEvent{}
	if err := r.DB.SelectContext(ctx, &events, query, customerID, limit); err != nil {
		return nil, err
	}
	return events, nil
}

var _ AuditRepositoryInterface = (*AuditRepository)(nil)
