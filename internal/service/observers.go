package service

import (
	"sync"

	"github.com/google/uuid"

	"github.com/beforetheshoes/traveling-snails/models"
)

// SyncEventKind enumerates the lifecycle events published by the sync
// coordinator.
type SyncEventKind int

const (
	SyncStarted SyncEventKind = iota
	SyncCompleted
	SyncFailed
	SyncProgressed
	ConflictDetected
	ConflictResolved
)

// SyncEvent is one lifecycle notification. Err is set for SyncFailed;
// Progress is set for SyncProgressed.
type SyncEvent struct {
	Kind     SyncEventKind
	Err      error
	Progress models.SyncProgress
}

// ShareEventKind enumerates the lifecycle events published by the sharing
// coordinator.
type ShareEventKind int

const (
	ShareCreated ShareEventKind = iota
	ShareRemoved
	ShareAccepted
	ShareUpdated
)

// ShareEvent is one share lifecycle notification for the trip identified by
// TripID.
type ShareEvent struct {
	Kind   ShareEventKind
	TripID string
	Share  models.Share
}

// SubscriptionToken identifies one observer registration. Unsubscribing with
// the token removes the observer; tokens stand in for the weak references
// the original design used, so an observer's lifetime never pins the
// coordinator and a forgotten Unsubscribe leaks one closure, not a cycle.
type SubscriptionToken string

// ObserverRegistry is the broadcast channel both coordinators publish
// through. Callbacks run on the notifying goroutine outside any coordinator
// lock; observers that need to hop to a UI thread do so themselves.
type ObserverRegistry struct {
	mu             sync.RWMutex
	syncObservers  map[SubscriptionToken]func(SyncEvent)
	shareObservers map[SubscriptionToken]func(ShareEvent)
}

func NewObserverRegistry() *ObserverRegistry {
	return &ObserverRegistry{
		syncObservers:  make(map[SubscriptionToken]func(SyncEvent)),
		shareObservers: make(map[SubscriptionToken]func(ShareEvent)),
	}
}

// SubscribeSync registers fn for sync lifecycle events and returns the token
// that removes it.
func (r *ObserverRegistry) SubscribeSync(fn func(SyncEvent)) SubscriptionToken {
	token := SubscriptionToken(uuid.NewString())

	r.mu.Lock()
	r.syncObservers[token] = fn
	r.mu.Unlock()

	return token
}

// SubscribeShare registers fn for share lifecycle events and returns the
// token that removes it.
func (r *ObserverRegistry) SubscribeShare(fn func(ShareEvent)) SubscriptionToken {
	token := SubscriptionToken(uuid.NewString())

	r.mu.Lock()
	r.shareObservers[token] = fn
	r.mu.Unlock()

	return token
}

// Unsubscribe removes the observer registered under token. Unknown tokens
// are a no-op.
func (r *ObserverRegistry) Unsubscribe(token SubscriptionToken) {
	r.mu.Lock()
	delete(r.syncObservers, token)
	delete(r.shareObservers, token)
	r.mu.Unlock()
}

// NotifySync broadcasts ev to all sync observers.
func (r *ObserverRegistry) NotifySync(ev SyncEvent) {
	r.mu.RLock()
	observers := make([]func(SyncEvent), 0, len(r.syncObservers))
	for _, fn := range r.syncObservers {
		observers = append(observers, fn)
	}
	r.mu.RUnlock()

	for _, fn := range observers {
		fn(ev)
	}
}

// NotifyShare broadcasts ev to all share observers.
func (r *ObserverRegistry) NotifyShare(ev ShareEvent) {
	r.mu.RLock()
	observers := make([]func(ShareEvent), 0, len(r.shareObservers))
	for _, fn := range r.shareObservers {
		observers = append(observers, fn)
	}
	r.mu.RUnlock()

	for _, fn := range observers {
		fn(ev)
	}
}
