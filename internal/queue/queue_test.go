package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/model"
)

func newTestQueue() *InMemoryQueue {
	q := NewInMemoryQueue(zap.NewNop())
	q.backoff = time.Millisecond
	return q
}

func TestInMemoryQueue_PublishWithoutSubscribers(t *testing.T) {
	q := newTestQueue()
	assert.Error(t, q.Publish("record_events", map[string]int{"id": 1}))
}

func TestInMemoryQueue_DeliversJSON(t *testing.T) {
	q := newTestQueue()

	got := make(chan []byte, 1)
	require.NoError(t, q.Subscribe("record_events", func(body []byte) error {
		got <- body
		return nil
	}))

	require.NoError(t, q.Publish("record_events", map[string]int{"customer_id": 4}))
	require.NoError(t, q.Close())

	assert.JSONEq(t, `{"customer_id":4}`, string(<-got))
}

func TestInMemoryQueue_RetriesUntilSuccess(t *testing.T) {
	q := newTestQueue()

	var mu sync.Mutex
	attempts := 0
	require.NoError(t, q.Subscribe("t", func([]byte) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}))

	require.NoError(t, q.Publish("t", "x"))
	require.NoError(t, q.Close())
	assert.Equal(t, 3, attempts)
}

func TestInMemoryQueue_GivesUpAfterMaxRetries(t *testing.T) {
	q := newTestQueue()

	attempts := 0
	require.NoError(t, q.Subscribe("t", func([]byte) error {
		attempts++
		return errors.New("permanent")
	}))

	require.NoError(t, q.Publish("t", "x"))
	require.NoError(t, q.Close())
	assert.Equal(t, q.maxRetries+1, attempts)
}

type fakeAuditRepo struct {
	mu     sync.Mutex
	events []model.RecordEvent
	fail   int
}

func (f *fakeAuditRepo) Insert(_ context.Context, e model.RecordEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail > 0 {
		f.fail--
		return errors.New("db down")
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakeAuditRepo) ListByCustomer(context.Context, int, int) ([]model.RecordEvent, error) {
	return nil, nil
}

func TestAuditSubscriber(t *testing.T) {
	t.Run("stores published events after a transient failure", func(t *testing.T) {
		q := newTestQueue()
		repo := &fakeAuditRepo{fail: 1}
		require.NoError(t, StartAuditSubscriber(q, "record_events", repo, zap.NewNop()))

		ev := model.NewRecordEvent(model.EventCustomerCreated, 9, nil)
		require.NoError(t, q.Publish("record_events", ev))
		require.NoError(t, q.Close())

		require.Len(t, repo.events, 1)
		assert.Equal(t, ev.ID, repo.events[0].ID)
		assert.Equal(t, model.EventCustomerCreated, repo.events[0].Type)
		assert.Equal(t, 9, repo.events[0].CustomerID)
	})

	t.Run("drops malformed payloads without retrying", func(t *testing.T) {
		q := newTestQueue()
		repo := &fakeAuditRepo{}
		require.NoError(t, StartAuditSubscriber(q, "record_events", repo, zap.NewNop()))

		require.NoError(t, q.Publish("record_events", "not an event"))
		require.NoError(t, q.Close())
		assert.Empty(t, repo.events)
	})
}
