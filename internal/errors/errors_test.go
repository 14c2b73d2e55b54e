package appErrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
)

func TestNotFoundMessages(t *testing.T) {
	assert.Equal(t, "Customer not found", appErrors.NewCustomerNotFound(3).Error())
	assert.Equal(t, "Address not found or does not belong to this customer", appErrors.NewAddressNotFound(1, 2).Error())
}

func TestKindHelpersSeeThroughWrapping(t *testing.T) {
	nf := fmt.Errorf("get customer: %w", appErrors.NewCustomerNotFound(3))
	assert.True(t, appErrors.IsNotFound(nf))
	assert.False(t, appErrors.IsValidation(nf))

	ve := fmt.Errorf("create: %w", appErrors.NewValidation("phone_number", "Invalid phone number format"))
	assert.True(t, appErrors.IsValidation(ve))

	raw := errors.New(`pq: duplicate key value violates unique constraint "customers_phone_number_key"`)
	ce := &appErrors.ConflictError{Field: "phone_number", Err: raw}
	assert.True(t, appErrors.IsConflict(fmt.Errorf("wrap: %w", ce)))
	assert.Equal(t, raw.Error(), ce.Error())
	assert.ErrorIs(t, ce, raw)
}
