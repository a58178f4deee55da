package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beforetheshoes/traveling-snails/models"
)

func TestObserverRegistry_NotifySync_AllObserversCalled(t *testing.T) {
	registry := NewObserverRegistry()

	var got1, got2 []SyncEvent
	registry.SubscribeSync(func(ev SyncEvent) { got1 = append(got1, ev) })
	registry.SubscribeSync(func(ev SyncEvent) { got2 = append(got2, ev) })

	registry.NotifySync(SyncEvent{Kind: SyncStarted})
	registry.NotifySync(SyncEvent{Kind: SyncCompleted})

	require.Len(t, got1, 2)
	require.Len(t, got2, 2)
	assert.Equal(t, SyncStarted, got1[0].Kind)
	assert.Equal(t, SyncCompleted, got1[1].Kind)
}

func TestObserverRegistry_Unsubscribe_StopsDelivery(t *testing.T) {
	registry := NewObserverRegistry()

	var count int
	token := registry.SubscribeSync(func(SyncEvent) { count++ })

	registry.NotifySync(SyncEvent{Kind: SyncStarted})
	registry.Unsubscribe(token)
	registry.NotifySync(SyncEvent{Kind: SyncCompleted})

	assert.Equal(t, 1, count)
}

func TestObserverRegistry_Unsubscribe_UnknownTokenIsNoop(t *testing.T) {
	registry := NewObserverRegistry()
	registry.Unsubscribe(SubscriptionToken("never-issued"))
}

func TestObserverRegistry_ShareAndSyncObserversAreIndependent(t *testing.T) {
	registry := NewObserverRegistry()

	var syncEvents, shareEvents int
	syncToken := registry.SubscribeSync(func(SyncEvent) { syncEvents++ })
	registry.SubscribeShare(func(ShareEvent) { shareEvents++ })

	registry.NotifySync(SyncEvent{Kind: SyncStarted})
	registry.NotifyShare(ShareEvent{Kind: ShareCreated, TripID: "t1"})

	assert.Equal(t, 1, syncEvents)
	assert.Equal(t, 1, shareEvents)

	// A token removes its observer from both maps; the share observer has a
	// different token and survives.
	registry.Unsubscribe(syncToken)
	registry.NotifyShare(ShareEvent{Kind: ShareRemoved, TripID: "t1"})
	assert.Equal(t, 2, shareEvents)
}

func TestObserverRegistry_NotifyShare_CarriesPayload(t *testing.T) {
	registry := NewObserverRegistry()

	var got ShareEvent
	registry.SubscribeShare(func(ev ShareEvent) { got = ev })

	share := models.Share{ShareID: "s1", Title: "Summer"}
	registry.NotifyShare(ShareEvent{Kind: ShareCreated, TripID: "trip-1", Share: share})

	assert.Equal(t, ShareCreated, got.Kind)
	assert.Equal(t, "trip-1", got.TripID)
	assert.Equal(t, share, got.Share)
}

func TestObserverRegistry_ConcurrentSubscribeAndNotify(t *testing.T) {
	registry := NewObserverRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			token := registry.SubscribeSync(func(SyncEvent) {})
			registry.Unsubscribe(token)
		}()
		go func() {
			defer wg.Done()
			registry.NotifySync(SyncEvent{Kind: SyncProgressed})
		}()
	}
	wg.Wait()
}
