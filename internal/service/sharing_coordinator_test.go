package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/beforetheshoes/traveling-snails/internal/backend"
	"github.com/beforetheshoes/traveling-snails/internal/config"
	"github.com/beforetheshoes/traveling-snails/internal/logger"
	"github.com/beforetheshoes/traveling-snails/internal/mock"
	"github.com/beforetheshoes/traveling-snails/models"
)

type sharingFixture struct {
	coordinator *SharingCoordinator
	activities  *stubActivityRepo
	lodgings    *stubLodgingRepo
	remote      *mock.MockRemoteBackend
	saver       *stubSaver
	events      *eventRecorder
}

func testSharingConfig() config.Sharing {
	return config.Sharing{
		ZoneName:         "TripShareZone",
		URLRecoveryDelay: time.Millisecond,
	}
}

func newSharingFixture(t *testing.T, cfg config.Sharing) *sharingFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &sharingFixture{
		activities: &stubActivityRepo{},
		lodgings:   &stubLodgingRepo{},
		remote:     mock.NewMockRemoteBackend(ctrl),
		saver:      &stubSaver{},
		events:     &eventRecorder{},
	}

	registry := NewObserverRegistry()
	f.events.subscribe(registry)

	f.coordinator = NewSharingCoordinator(
		cfg, f.activities, f.lodgings, f.remote, f.saver, registry, logger.Nop(),
	)
	return f
}

func sharedTrip(id, shareID string) models.Trip {
	trip := testTrip(1, id, false)
	trip.ShareID = shareID
	return trip
}

// ── ProvisionZone ────────────────────────────────────────────────────────────

func TestSharingCoordinator_ProvisionZone_CreatesOnlyWhenAbsent(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())
	zone := models.ZoneID{Name: "TripShareZone"}

	gomock.InOrder(
		f.remote.EXPECT().ZoneExists(gomock.Any(), zone).Return(false, nil),
		f.remote.EXPECT().CreateZone(gomock.Any(), zone).Return(nil),
	)

	require.NoError(t, f.coordinator.ProvisionZone(context.Background(), ""))

	// Second provision hits the cache; the mock would fail on another call.
	require.NoError(t, f.coordinator.ProvisionZone(context.Background(), ""))
}

func TestSharingCoordinator_ProvisionZone_ExistingZoneNotRecreated(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())

	f.remote.EXPECT().ZoneExists(gomock.Any(), gomock.Any()).Return(true, nil)
	require.NoError(t, f.coordinator.ProvisionZone(context.Background(), "Custom"))
}

func TestSharingCoordinator_ProvisionZone_CreateFailure(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())

	f.remote.EXPECT().ZoneExists(gomock.Any(), gomock.Any()).Return(false, nil)
	f.remote.EXPECT().CreateZone(gomock.Any(), gomock.Any()).Return(errors.New("500 internal"))

	err := f.coordinator.ProvisionZone(context.Background(), "")
	require.ErrorIs(t, err, ErrZoneCreationFailed)
}

// ── CreateShare ──────────────────────────────────────────────────────────────

func TestSharingCoordinator_CreateShare_MaterializesZoneAndSubtree(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())
	trip := testTrip(1, "t1", false)
	f.activities.activities = map[string][]models.Activity{
		"t1": {{ID: "a1", TripID: "t1", Name: "Museum"}},
	}

	zone := models.ZoneID{Name: "TripShareZone"}
	f.remote.EXPECT().ZoneExists(gomock.Any(), zone).Return(true, nil)
	f.remote.EXPECT().SaveRecordsAtomic(gomock.Any(), gomock.Len(1)).DoAndReturn(
		func(_ context.Context, recs []models.RemoteRecord) ([]models.RemoteRecord, error) {
			assert.Equal(t, zone, recs[0].ID.Zone, "children re-addressed into the collaboration zone")
			return recs, nil
		})
	f.remote.EXPECT().SaveShare(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, root models.RemoteRecord, share models.Share) (models.Share, error) {
			assert.Equal(t, zone, root.ID.Zone)
			assert.Equal(t, "t1", root.ID.Name)
			assert.Equal(t, trip.Name, share.Title)
			share.URL = "https://share.example/s1"
			return share, nil
		})

	share, err := f.coordinator.CreateShare(context.Background(), trip)
	require.NoError(t, err)
	assert.NotEmpty(t, share.ShareID)
	assert.Equal(t, "https://share.example/s1", share.URL)

	assert.Equal(t, []string{"set-share-id"}, f.saver.savedLabels())
	assert.Equal(t, 1, f.events.countShare(ShareCreated))
}

func TestSharingCoordinator_CreateShare_ConcurrentCallsCoalesce(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())
	trip := testTrip(1, "t1", false)

	f.remote.EXPECT().ZoneExists(gomock.Any(), gomock.Any()).Return(true, nil).Times(1)
	f.remote.EXPECT().SaveShare(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ models.RemoteRecord, share models.Share) (models.Share, error) {
			// Widen the in-flight window so the callers overlap.
			time.Sleep(20 * time.Millisecond)
			share.URL = "https://share.example/s1"
			return share, nil
		}).Times(1)

	const callers = 8
	shares := make([]models.Share, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			share, err := f.coordinator.CreateShare(context.Background(), trip)
			assert.NoError(t, err)
			shares[i] = share
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		assert.Equal(t, shares[0].ShareID, shares[i].ShareID, "every caller gets the same share")
	}
	assert.Equal(t, 1, f.events.countShare(ShareCreated))
}

func TestSharingCoordinator_CreateShare_AlreadySharedFetchesExisting(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())
	trip := sharedTrip("t1", "existing-share")

	existing := models.Share{ShareID: "existing-share", URL: "https://share.example/e1"}
	f.remote.EXPECT().FetchShare(gomock.Any(), "existing-share", backend.DatabasePrivate).
		Return(existing, nil).Times(1)

	share, err := f.coordinator.CreateShare(context.Background(), trip)
	require.NoError(t, err)
	assert.Equal(t, existing, share)

	// Cached now; no second fetch.
	share, err = f.coordinator.CreateShare(context.Background(), trip)
	require.NoError(t, err)
	assert.Equal(t, existing, share)
}

// ── Share URL recovery ───────────────────────────────────────────────────────

func TestSharingCoordinator_CreateShare_RecoversURLFromPrivateFetch(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())
	trip := testTrip(1, "t1", false)

	f.remote.EXPECT().ZoneExists(gomock.Any(), gomock.Any()).Return(true, nil)
	f.remote.EXPECT().SaveShare(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ models.RemoteRecord, share models.Share) (models.Share, error) {
			return share, nil // backend did not populate the URL yet
		})
	f.remote.EXPECT().FetchShare(gomock.Any(), gomock.Any(), backend.DatabasePrivate).DoAndReturn(
		func(_ context.Context, shareID string, _ backend.Database) (models.Share, error) {
			return models.Share{ShareID: shareID, URL: "https://share.example/recovered"}, nil
		})

	share, err := f.coordinator.CreateShare(context.Background(), trip)
	require.NoError(t, err)
	assert.Equal(t, "https://share.example/recovered", share.URL)
}

func TestSharingCoordinator_CreateShare_DegradesToURLLessShare(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig()) // strict off by default
	trip := testTrip(1, "t1", false)

	f.remote.EXPECT().ZoneExists(gomock.Any(), gomock.Any()).Return(true, nil)
	f.remote.EXPECT().SaveShare(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ models.RemoteRecord, share models.Share) (models.Share, error) {
			return share, nil
		})
	f.remote.EXPECT().FetchShare(gomock.Any(), gomock.Any(), backend.DatabasePrivate).
		Return(models.Share{}, errors.New("503 unavailable"))
	f.remote.EXPECT().FetchShare(gomock.Any(), gomock.Any(), backend.DatabaseShared).
		Return(models.Share{}, errors.New("503 unavailable"))

	share, err := f.coordinator.CreateShare(context.Background(), trip)
	require.NoError(t, err, "non-strict mode degrades instead of failing")
	assert.Empty(t, share.URL)
	assert.NotEmpty(t, share.ShareID)
}

func TestSharingCoordinator_CreateShare_StrictModeFailsWithoutURL(t *testing.T) {
	cfg := testSharingConfig()
	strict := true
	cfg.StrictShareURL = &strict
	f := newSharingFixture(t, cfg)
	trip := testTrip(1, "t1", false)

	f.remote.EXPECT().ZoneExists(gomock.Any(), gomock.Any()).Return(true, nil)
	f.remote.EXPECT().SaveShare(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ models.RemoteRecord, share models.Share) (models.Share, error) {
			return share, nil
		})
	f.remote.EXPECT().FetchShare(gomock.Any(), gomock.Any(), backend.DatabasePrivate).
		Return(models.Share{}, nil)
	f.remote.EXPECT().FetchShare(gomock.Any(), gomock.Any(), backend.DatabaseShared).
		Return(models.Share{}, nil)

	_, err := f.coordinator.CreateShare(context.Background(), trip)
	require.ErrorIs(t, err, ErrShareURLNotAvailable)
}

// ── RemoveShare ──────────────────────────────────────────────────────────────

func TestSharingCoordinator_RemoveShare_UnsharedTripIsNoop(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())

	err := f.coordinator.RemoveShare(context.Background(), testTrip(1, "t1", false))
	require.NoError(t, err)
	assert.Empty(t, f.saver.savedLabels())
}

func TestSharingCoordinator_RemoveShare_DeletesRemoteAndClearsLocal(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())
	trip := sharedTrip("t1", "share-1")

	f.remote.EXPECT().DeleteRecord(gomock.Any(), models.RecordID{
		Name: "share-1",
		Zone: models.ZoneID{Name: "TripShareZone"},
	}).Return(nil)

	err := f.coordinator.RemoveShare(context.Background(), trip)
	require.NoError(t, err)

	assert.Equal(t, []string{"clear-share-id"}, f.saver.savedLabels())
	assert.Equal(t, 1, f.events.countShare(ShareRemoved))
}

func TestSharingCoordinator_RemoveShare_AlreadyGoneRemotelyStillClearsLocal(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())
	trip := sharedTrip("t1", "share-1")

	f.remote.EXPECT().DeleteRecord(gomock.Any(), gomock.Any()).
		Return(backend.ErrNotFound)

	err := f.coordinator.RemoveShare(context.Background(), trip)
	require.NoError(t, err)
	assert.Equal(t, []string{"clear-share-id"}, f.saver.savedLabels())
}

// ── AcceptShare ──────────────────────────────────────────────────────────────

func TestSharingCoordinator_AcceptShare_InvalidMetadataRejected(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())

	_, err := f.coordinator.AcceptShare(context.Background(), models.ShareMetadata{})
	require.ErrorIs(t, err, ErrInvalidShareMetadata)

	_, err = f.coordinator.AcceptShare(context.Background(), models.ShareMetadata{ShareID: "s1"})
	require.ErrorIs(t, err, ErrInvalidShareMetadata)
}

func TestSharingCoordinator_AcceptShare_CachesAcceptedShare(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())

	meta := models.ShareMetadata{
		ShareID:      "s1",
		RootRecordID: models.RecordID{Name: "t1", Zone: models.ZoneID{Name: "TripShareZone"}},
	}
	accepted := models.Share{
		ShareID:      "s1",
		RootRecordID: meta.RootRecordID,
		URL:          "https://share.example/s1",
	}
	f.remote.EXPECT().AcceptShare(gomock.Any(), meta).Return(accepted, nil)

	share, err := f.coordinator.AcceptShare(context.Background(), meta)
	require.NoError(t, err)
	assert.Equal(t, accepted, share)
	assert.Equal(t, 1, f.events.countShare(ShareAccepted))

	// The accepted share serves sharing info without another fetch.
	info := f.coordinator.GetSharingInfo(context.Background(), sharedTrip("t1", "s1"))
	assert.True(t, info.IsShared)
	assert.Equal(t, accepted, info.Share)
}

// ── GetSharingInfo ───────────────────────────────────────────────────────────

func TestSharingCoordinator_GetSharingInfo_UnsharedTrip(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())

	info := f.coordinator.GetSharingInfo(context.Background(), testTrip(1, "t1", false))
	assert.Equal(t, models.NotShared, info)
}

func TestSharingCoordinator_GetSharingInfo_FetchFailureReportsNotShared(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())

	f.remote.EXPECT().FetchShare(gomock.Any(), "share-1", backend.DatabasePrivate).
		Return(models.Share{}, errors.New("503 unavailable"))

	info := f.coordinator.GetSharingInfo(context.Background(), sharedTrip("t1", "share-1"))
	assert.Equal(t, models.NotShared, info)
}

func TestSharingCoordinator_GetSharingInfo_FetchesOnceThenCaches(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())
	trip := sharedTrip("t1", "share-1")

	share := models.Share{ShareID: "share-1", Participants: []models.Participant{
		{Identity: "owner@example.com", Permission: models.PermissionReadWrite},
	}}
	f.remote.EXPECT().FetchShare(gomock.Any(), "share-1", backend.DatabasePrivate).
		Return(share, nil).Times(1)

	first := f.coordinator.GetSharingInfo(context.Background(), trip)
	second := f.coordinator.GetSharingInfo(context.Background(), trip)

	assert.True(t, first.IsShared)
	assert.Equal(t, share, first.Share)
	assert.Equal(t, first, second)
}

// ── Remote events ────────────────────────────────────────────────────────────

func TestSharingCoordinator_HandleEvent_AccountChangeInvalidatesCache(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())

	f.coordinator.mu.Lock()
	f.coordinator.shares["t1"] = models.Share{ShareID: "s1"}
	f.coordinator.zonesReady["TripShareZone"] = true
	f.coordinator.mu.Unlock()

	f.coordinator.handleEvent(context.Background(), models.RemoteEvent{Kind: models.EventAccountChange})

	_, cached := f.coordinator.cachedShare("t1")
	assert.False(t, cached)

	f.coordinator.mu.Lock()
	zoneReady := f.coordinator.zonesReady["TripShareZone"]
	f.coordinator.mu.Unlock()
	assert.False(t, zoneReady, "zone knowledge is account-scoped too")
}

func TestSharingCoordinator_HandleEvent_DeletionClearsMatchingShare(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())

	f.coordinator.mu.Lock()
	f.coordinator.shares["t1"] = models.Share{ShareID: "s1"}
	f.coordinator.mu.Unlock()

	f.coordinator.handleEvent(context.Background(), models.RemoteEvent{
		Kind: models.EventFetchedZoneChanges,
		Deletions: []models.RecordID{
			{Name: "unrelated-record"},
			{Name: "s1"},
		},
	})

	_, cached := f.coordinator.cachedShare("t1")
	assert.False(t, cached)
	assert.Equal(t, []string{"clear-share-id"}, f.saver.savedLabels())
	assert.Equal(t, 1, f.events.countShare(ShareRemoved))
}

func TestSharingCoordinator_HandleEvent_EveryDeletionCountedDespiteLogLimit(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())

	var deletions []models.RecordID
	for i := 0; i < 250; i++ {
		deletions = append(deletions, models.RecordID{Name: "rec"})
	}
	f.coordinator.handleEvent(context.Background(), models.RemoteEvent{
		Kind:      models.EventFetchedZoneChanges,
		Deletions: deletions,
	})

	f.coordinator.mu.Lock()
	count := f.coordinator.deletionEvents
	f.coordinator.mu.Unlock()
	assert.Equal(t, int64(250), count, "state tracks every deletion, only logging is limited")
}

func TestSharingCoordinator_HandleEvent_ModificationRecachesShare(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())

	f.coordinator.mu.Lock()
	f.coordinator.shares["t1"] = models.Share{ShareID: "s1", Title: "Old Title"}
	f.coordinator.mu.Unlock()

	f.coordinator.handleEvent(context.Background(), models.RemoteEvent{
		Kind: models.EventFetchedZoneChanges,
		Modifications: []models.RemoteRecord{
			{
				ID:   models.RecordID{Name: "s1", Zone: models.ZoneID{Name: "TripShareZone"}},
				Type: models.RecordTypeShare,
				Fields: map[string]any{
					"root_record": "t1",
					"title":       "Renamed Trip",
					"url":         "https://share.example/s1",
				},
			},
		},
	})

	// No FetchShare expectation: the modified record itself refreshed the cache.
	share, cached := f.coordinator.cachedShare("t1")
	require.True(t, cached, "modified share stays cached under its trip id")
	assert.Equal(t, "s1", share.ShareID)
	assert.Equal(t, "Renamed Trip", share.Title)
	assert.Equal(t, "https://share.example/s1", share.URL)
	assert.Equal(t, "t1", share.RootRecordID.Name)
	assert.Equal(t, 1, f.events.countShare(ShareUpdated))
}

func TestSharingCoordinator_HandleEvent_ModificationWithoutRootInvalidatesShare(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())

	f.coordinator.mu.Lock()
	f.coordinator.shares["t1"] = models.Share{ShareID: "s1"}
	f.coordinator.mu.Unlock()

	f.coordinator.handleEvent(context.Background(), models.RemoteEvent{
		Kind: models.EventFetchedZoneChanges,
		Modifications: []models.RemoteRecord{
			{ID: models.RecordID{Name: "s1"}, Type: models.RecordTypeShare},
		},
	})

	_, cached := f.coordinator.cachedShare("t1")
	assert.False(t, cached, "share without a root reference drops out for refetch")
	assert.Equal(t, 1, f.events.countShare(ShareUpdated))
}

func TestSharingCoordinator_Run_StopsWhenFeedCloses(t *testing.T) {
	f := newSharingFixture(t, testSharingConfig())

	events := make(chan models.RemoteEvent)
	var feed <-chan models.RemoteEvent = events
	f.remote.EXPECT().Events().Return(feed)

	done := make(chan struct{})
	go func() {
		f.coordinator.Run(context.Background())
		close(done)
	}()

	events <- models.RemoteEvent{Kind: models.EventSentChanges}
	close(events)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the feed closed")
	}
}
