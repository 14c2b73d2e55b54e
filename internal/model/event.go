package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventCustomerCreated = "customer.created"
	EventCustomerUpdated = "customer.updated"
	EventCustomerDeleted = "customer.deleted"
	EventAddressCreated  = "address.created"
	EventAddressUpdated  = "address.updated"
	EventAddressDeleted  = "address.deleted"
)

// RecordEvent describes one successful write. AddressID is nil for customer events.
type RecordEvent struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Type       string    `db:"type" json:"type"`
	CustomerID int       `db:"customer_id" json:"customer_id"`
	AddressID  *int      `db:"address_id" json:"address_id,omitempty"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
}

func NewRecordEvent(eventType string, customerID int, addressID *int) RecordEvent {
	return RecordEvent{
		ID:         uuid.New(),
		Type:       eventType,
		CustomerID: customerID,
		AddressID:  addressID,
		OccurredAt: time.Now().UTC(),
	}
}
