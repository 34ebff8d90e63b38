package messaging

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/edupulse-backend/internal/domain/shared"
)

func newSyncBus() *InMemoryEventBus {
	return NewInMemoryEventBus(InMemoryEventBusConfig{
		AsyncMode:     false,
		EnableMetrics: true,
	})
}

func TestInMemoryEventBus_PublishToTypedHandler(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var received []shared.Event
	err := bus.Subscribe(shared.EventRiskAlertRaised, func(e shared.Event) error {
		received = append(received, e)
		return nil
	})
	require.NoError(t, err)

	alert := shared.NewRiskAlertRaisedEvent("student-1", "course-1", 88.5, "critical")
	require.NoError(t, bus.Publish(alert))

	require.Len(t, received, 1)
	assert.Equal(t, shared.EventRiskAlertRaised, received[0].EventType())
	assert.Equal(t, "student-1", received[0].AggregateID())
	assert.Equal(t, 88.5, received[0].Payload()["risk_score"])
}

func TestInMemoryEventBus_TypedHandlerIgnoresOtherEvents(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	calls := 0
	require.NoError(t, bus.Subscribe(shared.EventRiskAlertRaised, func(shared.Event) error {
		calls++
		return nil
	}))

	generated := shared.NewPredictionGeneratedEvent("student-1", "", 42, "low", 80)
	require.NoError(t, bus.Publish(generated))

	assert.Zero(t, calls)
}

func TestInMemoryEventBus_SubscribeAllSeesEverything(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var types []shared.EventType
	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error {
		types = append(types, e.EventType())
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewPredictionGeneratedEvent("s1", "", 42, "low", 80)))
	require.NoError(t, bus.Publish(shared.NewRiskScanCompletedEvent("scan-1", "c1", 10, 3, 0, 0)))

	assert.Equal(t, []shared.EventType{shared.EventPredictionGenerated, shared.EventRiskScanCompleted}, types)
}

func TestInMemoryEventBus_HandlerErrorDoesNotFailPublish(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	require.NoError(t, bus.Subscribe(shared.EventRiskAlertRaised, func(shared.Event) error {
		return errors.New("notifier down")
	}))

	second := 0
	require.NoError(t, bus.Subscribe(shared.EventRiskAlertRaised, func(shared.Event) error {
		second++
		return nil
	}))

	err := bus.Publish(shared.NewRiskAlertRaisedEvent("s1", "", 90, "critical"))
	assert.NoError(t, err)
	assert.Equal(t, 1, second)
}

func TestInMemoryEventBus_ClosedBusRejectsOperations(t *testing.T) {
	bus := newSyncBus()
	require.NoError(t, bus.Close())

	err := bus.Publish(shared.NewRiskAlertRaisedEvent("s1", "", 90, "critical"))
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.Subscribe(shared.EventRiskAlertRaised, func(shared.Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventBusClosed)
}

func TestInMemoryEventBus_NilHandlerRejected(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	assert.Error(t, bus.Subscribe(shared.EventRiskAlertRaised, nil))
	assert.Error(t, bus.SubscribeAll(nil))
}

func TestInMemoryEventBus_AsyncDeliveryCompletesOnClose(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{
		AsyncMode:      true,
		WorkerPoolSize: 4,
	})

	var mu sync.Mutex
	count := 0
	require.NoError(t, bus.SubscribeAll(func(shared.Event) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}))

	for i := 0; i < 20; i++ {
		require.NoError(t, bus.Publish(shared.NewPredictionGeneratedEvent("s1", "", 42, "low", 80)))
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 20
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, bus.Close())
}

func TestEventBusMetrics_Snapshot(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	require.NoError(t, bus.SubscribeAll(func(shared.Event) error { return nil }))
	require.NoError(t, bus.Subscribe(shared.EventRiskAlertRaised, func(shared.Event) error {
		return errors.New("boom")
	}))

	require.NoError(t, bus.Publish(shared.NewRiskAlertRaisedEvent("s1", "", 90, "critical")))

	snap := bus.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.TotalPublished)
	assert.Equal(t, int64(2), snap.TotalHandlerExecs)
	assert.InDelta(t, 0.5, snap.HandlerSuccessRate, 1e-9)
}
