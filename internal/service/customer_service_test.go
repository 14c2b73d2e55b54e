package service_test

import (
	"context"
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/queue"
	"github.com/unclebandit/customer-records/internal/service"
)

// --- Mock Repositories ---

type MockCustomerRepo struct {
	customers  []model.Customer
	nextID     int
	lastFilter model.CustomerFilter
	listErr    error
	createErr  error
}

func (m *MockCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	c.ID = m.nextID
	m.customers = append(m.customers, *c)
	return nil
}

func (m *MockCustomerRepo) GetByID(_ context.Context, id int) (*model.Customer, error) {
	for _, c := range m.customers {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, appErrors.NewCustomerNotFound(id)
}

func (m *MockCustomerRepo) List(_ context.Context, filter model.CustomerFilter) ([]model.Customer, int, error) {
	m.lastFilter = filter
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	total := len(m.customers)
	start := filter.Offset()
	if start > total {
		return []model.Customer{}, total, nil
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return m.customers[start:end], total, nil
}

func (m *MockCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	for i := range m.customers {
		if m.customers[i].ID == c.ID {
			m.customers[i] = *c
			return nil
		}
	}
	return appErrors.NewCustomerNotFound(c.ID)
}

func (m *MockCustomerRepo) Delete(_ context.Context, id int) error {
	for i := range m.customers {
		if m.customers[i].ID == id {
			m.customers = append(m.customers[:i], m.customers[i+1:]...)
			return nil
		}
	}
	return appErrors.NewCustomerNotFound(id)
}

// recordingQueue captures published payloads without delivering them
type recordingQueue struct {
	published []model.RecordEvent
	err       error
}

func (q *recordingQueue) Publish(_ string, payload any) error {
	if q.err != nil {
		return q.err
	}
	q.published = append(q.published, payload.(model.RecordEvent))
	return nil
}

func (q *recordingQueue) Subscribe(string, queue.Handler) error { return nil }
func (q *recordingQueue) Close() error                          { return nil }

func seedCustomers(n int) *MockCustomerRepo {
	repo := &MockCustomerRepo{}
	for i := 1; i <= n; i++ {
		_ = repo.Create(context.Background(), &model.Customer{
			FirstName:   "First" + strconv.Itoa(i),
			LastName:    "Last",
			PhoneNumber: "98765432" + strconv.Itoa(10+i),
		})
	}
	return repo
}

func TestCreateCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("trims input and publishes an event", func(t *testing.T) {
		repo := &MockCustomerRepo{}
		q := &recordingQueue{}
		svc := &service.CustomerService{CustomerRepo: repo, Events: service.NewEventPublisher(q, "record_events")}

		c, err := svc.CreateCustomer(ctx, model.CustomerInput{FirstName: "  Ann ", LastName: "Lee", PhoneNumber: " 9876543210 "})
		require.NoError(t, err)

		assert.Equal(t, 1, c.ID)
		assert.Equal(t, "Ann", c.FirstName)
		assert.Equal(t, "9876543210", c.PhoneNumber)
		require.Len(t, q.published, 1)
		assert.Equal(t, model.EventCustomerCreated, q.published[0].Type)
		assert.Equal(t, 1, q.published[0].CustomerID)
		assert.Nil(t, q.published[0].AddressID)
	})

	t.Run("rejects malformed phone numbers before touching the store", func(t *testing.T) {
		for _, phone := range []string{"12345", "98765432101", "98765abcde", "+919876543"} {
			repo := &MockCustomerRepo{}
			svc := &service.CustomerService{CustomerRepo: repo}

			_, err := svc.CreateCustomer(ctx, model.CustomerInput{FirstName: "Ann", LastName: "Lee", PhoneNumber: phone})
			require.Error(t, err, phone)
			assert.True(t, appErrors.IsValidation(err))
			assert.Equal(t, "Invalid phone number format", err.Error())
			assert.Empty(t, repo.customers)
		}
	})

	t.Run("names the missing field", func(t *testing.T) {
		svc := &service.CustomerService{CustomerRepo: &MockCustomerRepo{}}

		_, err := svc.CreateCustomer(ctx, model.CustomerInput{FirstName: "Ann", LastName: "   ", PhoneNumber: "9876543210"})
		require.Error(t, err)

		var ve *appErrors.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "last_name", ve.Field)
		assert.Equal(t, "last_name is required", ve.Message)
	})

	t.Run("store errors pass through unchanged and publish nothing", func(t *testing.T) {
		storeErr := errors.New(`pq: duplicate key value violates unique constraint "customers_phone_number_key"`)
		q := &recordingQueue{}
		svc := &service.CustomerService{
			CustomerRepo: &MockCustomerRepo{createErr: &appErrors.ConflictError{Field: "phone_number", Err: storeErr}},
			Events:       service.NewEventPublisher(q, "record_events"),
		}

		_, err := svc.CreateCustomer(ctx, model.CustomerInput{FirstName: "Ann", LastName: "Lee", PhoneNumber: "9876543210"})
		assert.True(t, appErrors.IsConflict(err))
		assert.Equal(t, storeErr.Error(), err.Error())
		assert.Empty(t, q.published)
	})

	t.Run("publish failures do not fail the write", func(t *testing.T) {
		repo := &MockCustomerRepo{}
		svc := &service.CustomerService{
			CustomerRepo: repo,
			Events:       service.NewEventPublisher(&recordingQueue{err: errors.New("broker down")}, "record_events"),
		}

		_, err := svc.CreateCustomer(ctx, model.CustomerInput{FirstName: "Ann", LastName: "Lee", PhoneNumber: "9876543210"})
		require.NoError(t, err)
		assert.Len(t, repo.customers, 1)
	})
}

func TestListCustomersPagination(t *testing.T) {
	ctx := context.Background()
	repo := seedCustomers(25)
	svc := &service.CustomerService{CustomerRepo: repo, DefaultLimit: 10, MaxLimit: 100}

	seen := map[int]bool{}
	for page := 1; page <= 3; page++ {
		result, err := svc.ListCustomers(ctx, model.CustomerFilter{Page: page, Limit: 10})
		require.NoError(t, err)

		assert.Equal(t, 25, result.Total)
		assert.Equal(t, 3, result.TotalPages)
		assert.Equal(t, page, result.Page)
		for _, c := range result.Customers {
			assert.False(t, seen[c.ID], "customer %d returned twice", c.ID)
			seen[c.ID] = true
		}
	}
	assert.Len(t, seen, 25)
}

func TestListCustomersClampsParameters(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		filter    model.CustomerFilter
		wantPage  int
		wantLimit int
	}{
		{"zero values use defaults", model.CustomerFilter{}, 1, 10},
		{"negative page becomes first page", model.CustomerFilter{Page: -3, Limit: 5}, 1, 5},
		{"limit capped at max", model.CustomerFilter{Page: 2, Limit: 1000}, 2, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := seedCustomers(3)
			svc := &service.CustomerService{CustomerRepo: repo, DefaultLimit: 10, MaxLimit: 100}

			result, err := svc.ListCustomers(ctx, tt.filter)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPage, repo.lastFilter.Page)
			assert.Equal(t, tt.wantLimit, repo.lastFilter.Limit)
			assert.Equal(t, tt.wantLimit, result.Limit)
		})
	}

	t.Run("huge page keeps the offset non-negative", func(t *testing.T) {
		repo := seedCustomers(3)
		svc := &service.CustomerService{CustomerRepo: repo, DefaultLimit: 10, MaxLimit: 100}

		result, err := svc.ListCustomers(ctx, model.CustomerFilter{Page: math.MaxInt, Limit: 100})
		require.NoError(t, err)

		assert.GreaterOrEqual(t, repo.lastFilter.Offset(), 0)
		assert.Empty(t, result.Customers)
		assert.Equal(t, 3, result.Total)
	})

	t.Run("empty store has zero pages", func(t *testing.T) {
		svc := &service.CustomerService{CustomerRepo: &MockCustomerRepo{}}

		result, err := svc.ListCustomers(ctx, model.CustomerFilter{Page: 1})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Total)
		assert.Equal(t, 0, result.TotalPages)
		assert.Empty(t, result.Customers)
	})

	t.Run("store failure is returned", func(t *testing.T) {
		svc := &service.CustomerService{CustomerRepo: &MockCustomerRepo{listErr: errors.New("connection refused")}}

		_, err := svc.ListCustomers(ctx, model.CustomerFilter{})
		assert.EqualError(t, err, "connection refused")
	})
}

func TestUpdateAndDeleteCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("update replaces every field", func(t *testing.T) {
		repo := seedCustomers(1)
		q := &recordingQueue{}
		svc := &service.CustomerService{CustomerRepo: repo, Events: service.NewEventPublisher(q, "record_events")}

		_, err := svc.UpdateCustomer(ctx, 1, model.CustomerInput{FirstName: "Ann", LastName: "Lee", PhoneNumber: "1234567890"})
		require.NoError(t, err)

		got, err := svc.GetCustomer(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Ann", got.FirstName)
		assert.Equal(t, "1234567890", got.PhoneNumber)
		require.Len(t, q.published, 1)
		assert.Equal(t, model.EventCustomerUpdated, q.published[0].Type)
	})

	t.Run("invalid update leaves the row unchanged", func(t *testing.T) {
		repo := seedCustomers(1)
		svc := &service.CustomerService{CustomerRepo: repo}
		before := repo.customers[0]

		_, err := svc.UpdateCustomer(ctx, 1, model.CustomerInput{FirstName: "Ann", LastName: "Lee", PhoneNumber: "12"})
		assert.True(t, appErrors.IsValidation(err))
		assert.Equal(t, before, repo.customers[0])
	})

	t.Run("delete then get is not found", func(t *testing.T) {
		repo := seedCustomers(2)
		svc := &service.CustomerService{CustomerRepo: repo}

		require.NoError(t, svc.DeleteCustomer(ctx, 1))

		_, err := svc.GetCustomer(ctx, 1)
		assert.True(t, appErrors.IsNotFound(err))
		assert.Len(t, repo.customers, 1)
	})

	t.Run("delete announces each cascaded address before the customer", func(t *testing.T) {
		repo := seedCustomers(2)
		addresses := &MockAddressRepo{}
		for _, owner := range []int{1, 1, 2} {
			_ = addresses.Create(ctx, &model.Address{CustomerID: owner, City: "London"})
		}
		q := &recordingQueue{}
		svc := &service.CustomerService{CustomerRepo: repo, AddressRepo: addresses, Events: service.NewEventPublisher(q, "record_events")}

		require.NoError(t, svc.DeleteCustomer(ctx, 1))

		require.Len(t, q.published, 3)
		for i, wantID := range []int{1, 2} {
			assert.Equal(t, model.EventAddressDeleted, q.published[i].Type)
			assert.Equal(t, 1, q.published[i].CustomerID)
			require.NotNil(t, q.published[i].AddressID)
			assert.Equal(t, wantID, *q.published[i].AddressID)
		}
		assert.Equal(t, model.EventCustomerDeleted, q.published[2].Type)
		assert.Nil(t, q.published[2].AddressID)
	})

	t.Run("deleting a missing customer changes nothing", func(t *testing.T) {
		repo := seedCustomers(2)
		q := &recordingQueue{}
		svc := &service.CustomerService{CustomerRepo: repo, AddressRepo: &MockAddressRepo{}, Events: service.NewEventPublisher(q, "record_events")}

		err := svc.DeleteCustomer(ctx, 99)
		assert.True(t, appErrors.IsNotFound(err))
		assert.Len(t, repo.customers, 2)
		assert.Empty(t, q.published)
	})
}
