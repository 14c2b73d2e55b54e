package appErrors

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when a lookup misses or an update/delete affects no rows
type NotFoundError struct {
	Resource string
	ID       int
	OwnerID  int // customer id for addresses, zero otherwise
}

func (e *NotFoundError) Error() string {
	if e.OwnerID != 0 {
		return fmt.Sprintf("%s not found or does not belong to this customer", e.Resource)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// NewCustomerNotFound builds the not-found error for a customer id
func NewCustomerNotFound(id int) error {
	return &NotFoundError{Resource: "Customer", ID: id}
}

// NewAddressNotFound builds the not-found error for an address scoped to its customer
func NewAddressNotFound(customerID, addressID int) error {
	return &NotFoundError{Resource: "Address", ID: addressID, OwnerID: customerID}
}

// ValidationError names the offending field and the reason it was rejected
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError wraps a uniqueness violation reported by the store.
// Error() is the raw store text.
type ConflictError struct {
	Field string
	Err   error
}

func (e *ConflictError) Error() string {
	return e.Err.Error()
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
