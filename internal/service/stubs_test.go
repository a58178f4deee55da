package service

import (
	"context"
	"sync"
	"time"

	"github.com/beforetheshoes/traveling-snails/internal/config"
	"github.com/beforetheshoes/traveling-snails/internal/store"
	"github.com/beforetheshoes/traveling-snails/models"
)

// Hand-rolled repository stubs. The store has its own sqlmock-backed tests;
// here the repositories only need to serve data and record deletions.

type stubTripRepo struct {
	mu        sync.Mutex
	trips     []models.Trip
	deleted   []int64
	deleteErr map[int64]error
	shareIDs  map[string]string
}

func (s *stubTripRepo) SaveTrip(_ context.Context, trips ...models.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips = append(s.trips, trips...)
	return nil
}

func (s *stubTripRepo) GetTrip(_ context.Context, id string) (models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.trips {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Trip{}, store.ErrTripNotFound
}

func (s *stubTripRepo) GetAllTrips(_ context.Context) ([]models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Trip, len(s.trips))
	copy(out, s.trips)
	return out, nil
}

func (s *stubTripRepo) CountTrips(_ context.Context, includeProtected bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.trips {
		if t.Protected && !includeProtected {
			continue
		}
		n++
	}
	return n, nil
}

func (s *stubTripRepo) DeleteTripCopy(_ context.Context, localID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.deleteErr[localID]; ok {
		return err
	}
	s.deleted = append(s.deleted, localID)
	for i, t := range s.trips {
		if t.LocalID == localID {
			s.trips = append(s.trips[:i], s.trips[i+1:]...)
			break
		}
	}
	return nil
}

func (s *stubTripRepo) SetShareID(_ context.Context, tripID, shareID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shareIDs == nil {
		s.shareIDs = make(map[string]string)
	}
	s.shareIDs[tripID] = shareID
	return nil
}

func (s *stubTripRepo) CountDirtyTrips(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.trips {
		if t.Dirty {
			n++
		}
	}
	return n, nil
}

func (s *stubTripRepo) MarkTripsClean(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.trips {
		s.trips[i].Dirty = false
	}
	return nil
}

func (s *stubTripRepo) deletedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, len(s.deleted))
	copy(out, s.deleted)
	return out
}

type stubActivityRepo struct {
	mu         sync.Mutex
	activities map[string][]models.Activity
}

func (s *stubActivityRepo) SaveActivity(_ context.Context, activities ...models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activities == nil {
		s.activities = make(map[string][]models.Activity)
	}
	for _, a := range activities {
		s.activities[a.TripID] = append(s.activities[a.TripID], a)
	}
	return nil
}

func (s *stubActivityRepo) GetActivitiesByTrip(_ context.Context, tripID string) ([]models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activities[tripID], nil
}

func (s *stubActivityRepo) CountActivities(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, list := range s.activities {
		n += len(list)
	}
	return n, nil
}

func (s *stubActivityRepo) DeleteActivitiesByTrip(_ context.Context, tripID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.activities, tripID)
	return nil
}

func (s *stubActivityRepo) CountDirtyActivities(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, list := range s.activities {
		for _, a := range list {
			if a.Dirty {
				n++
			}
		}
	}
	return n, nil
}

func (s *stubActivityRepo) MarkActivitiesClean(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, list := range s.activities {
		for i := range list {
			list[i].Dirty = false
		}
		s.activities[id] = list
	}
	return nil
}

type stubLodgingRepo struct {
	mu       sync.Mutex
	lodgings map[string][]models.Lodging
}

func (s *stubLodgingRepo) SaveLodging(_ context.Context, lodgings ...models.Lodging) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lodgings == nil {
		s.lodgings = make(map[string][]models.Lodging)
	}
	for _, l := range lodgings {
		s.lodgings[l.TripID] = append(s.lodgings[l.TripID], l)
	}
	return nil
}

func (s *stubLodgingRepo) GetLodgingsByTrip(_ context.Context, tripID string) ([]models.Lodging, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lodgings[tripID], nil
}

func (s *stubLodgingRepo) CountLodgings(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, list := range s.lodgings {
		n += len(list)
	}
	return n, nil
}

func (s *stubLodgingRepo) DeleteLodgingsByTrip(_ context.Context, tripID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lodgings, tripID)
	return nil
}

func (s *stubLodgingRepo) CountDirtyLodgings(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, list := range s.lodgings {
		for _, l := range list {
			if l.Dirty {
				n++
			}
		}
	}
	return n, nil
}

func (s *stubLodgingRepo) MarkLodgingsClean(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, list := range s.lodgings {
		for i := range list {
			list[i].Dirty = false
		}
		s.lodgings[id] = list
	}
	return nil
}

// stubSaver records save labels without opening a real transaction. The
// mutation itself is exercised by the store package's tests.
type stubSaver struct {
	mu     sync.Mutex
	labels []string
	err    error
}

func (s *stubSaver) PerformBackgroundSave(_ context.Context, label string, _ func(tx *store.WriteTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.labels = append(s.labels, label)
	return nil
}

func (s *stubSaver) savedLabels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// eventRecorder collects observer notifications from any goroutine.
type eventRecorder struct {
	mu          sync.Mutex
	syncEvents  []SyncEvent
	shareEvents []ShareEvent
}

func (r *eventRecorder) subscribe(registry *ObserverRegistry) {
	registry.SubscribeSync(func(ev SyncEvent) {
		r.mu.Lock()
		r.syncEvents = append(r.syncEvents, ev)
		r.mu.Unlock()
	})
	registry.SubscribeShare(func(ev ShareEvent) {
		r.mu.Lock()
		r.shareEvents = append(r.shareEvents, ev)
		r.mu.Unlock()
	})
}

func (r *eventRecorder) syncKinds() []SyncEventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SyncEventKind, 0, len(r.syncEvents))
	for _, ev := range r.syncEvents {
		out = append(out, ev.Kind)
	}
	return out
}

func (r *eventRecorder) countSync(kind SyncEventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.syncEvents {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func (r *eventRecorder) countShare(kind ShareEventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.shareEvents {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func (r *eventRecorder) progressEvents() []models.SyncProgress {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.SyncProgress
	for _, ev := range r.syncEvents {
		if ev.Kind == SyncProgressed {
			out = append(out, ev.Progress)
		}
	}
	return out
}

// testSyncConfig shrinks every delay and timeout so the state machine runs in
// test time.
func testSyncConfig() config.Sync {
	return config.Sync{
		MaxRetryAttempts: 3,
		BatchLimit:       2,
		OperationTimeout: 500 * time.Millisecond,
		ProgressTimeout:  time.Second,
		RetryTimeout:     2 * time.Second,
		SettleDelay:      time.Millisecond,
		InterBatchDelay:  time.Millisecond,
	}
}
