package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/validation"
)

type fakeCustomers struct {
	rows      []model.Customer
	conflicts int
}

func (f *fakeCustomers) Create(_ context.Context, c *model.Customer) error {
	if f.conflicts > 0 {
		f.conflicts--
		return &appErrors.ConflictError{Field: "phone_number", Err: errors.New("duplicate key")}
	}
	c.ID = len(f.rows) + 1
	f.rows = append(f.rows, *c)
	return nil
}
func (f *fakeCustomers) GetByID(context.Context, int) (*model.Customer, error) { return nil, nil }
func (f *fakeCustomers) List(context.Context, model.CustomerFilter) ([]model.Customer, int, error) {
	return nil, 0, nil
}
func (f *fakeCustomers) Update(context.Context, *model.Customer) error { return nil }
func (f *fakeCustomers) Delete(context.Context, int) error             { return nil }

type fakeAddresses struct {
	rows []model.Address
}

func (f *fakeAddresses) Create(_ context.Context, a *model.Address) error {
	a.ID = len(f.rows) + 1
	f.rows = append(f.rows, *a)
	return nil
}
func (f *fakeAddresses) ListByCustomer(context.Context, int) ([]model.Address, error) {
	return nil, nil
}
func (f *fakeAddresses) Update(context.Context, *model.Address) error { return nil }
func (f *fakeAddresses) Delete(context.Context, int, int) error       { return nil }

func newTestSeeder(c *fakeCustomers, a *fakeAddresses) *Seeder {
	s := New(c, a, zap.NewNop())
	s.Faker = gofakeit.New(42)
	return s
}

func TestRunGeneratesValidRecords(t *testing.T) {
	customers, addresses := &fakeCustomers{}, &fakeAddresses{}

	res, err := newTestSeeder(customers, addresses).Run(context.Background(), 20)
	require.NoError(t, err)

	assert.Equal(t, 20, res.Customers)
	assert.Len(t, customers.rows, 20)
	assert.Equal(t, len(addresses.rows), res.Addresses)

	for _, c := range customers.rows {
		assert.Nil(t, validation.Fields(model.CustomerInput{FirstName: c.FirstName, LastName: c.LastName, PhoneNumber: c.PhoneNumber}))
	}
	perCustomer := map[int]int{}
	for _, a := range addresses.rows {
		assert.Nil(t, validation.Fields(model.AddressInput{AddressDetails: a.AddressDetails, City: a.City, State: a.State, PinCode: a.PinCode}))
		perCustomer[a.CustomerID]++
	}
	for id, n := range perCustomer {
		assert.LessOrEqual(t, n, 3, "customer %d", id)
	}
}

func TestRunRetriesPhoneConflicts(t *testing.T) {
	customers := &fakeCustomers{conflicts: 2}

	res, err := newTestSeeder(customers, &fakeAddresses{}).Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Customers)
}

func TestRunGivesUpAfterRepeatedConflicts(t *testing.T) {
	customers := &fakeCustomers{conflicts: maxPhoneAttempts}

	_, err := newTestSeeder(customers, &fakeAddresses{}).Run(context.Background(), 1)
	assert.True(t, appErrors.IsConflict(err))
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newTestSeeder(&fakeCustomers{}, &fakeAddresses{}).Run(ctx, 5)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Customers)
}
