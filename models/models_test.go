package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSyncStatistics_RecordAttempt(t *testing.T) {
	var s SyncStatistics

	s.RecordAttempt(10*time.Second, true)
	assert.Equal(t, int64(1), s.TotalSyncsPerformed)
	assert.Equal(t, int64(1), s.SuccessfulSyncs)
	assert.Equal(t, int64(0), s.FailedSyncs)
	assert.Equal(t, 10*time.Second, s.LastSyncDuration)
	assert.Equal(t, 10*time.Second, s.AverageSyncDuration)

	s.RecordAttempt(20*time.Second, false)
	assert.Equal(t, int64(2), s.TotalSyncsPerformed)
	assert.Equal(t, int64(1), s.SuccessfulSyncs)
	assert.Equal(t, int64(1), s.FailedSyncs)
	assert.Equal(t, 20*time.Second, s.LastSyncDuration)
	// Running mean: (10 + 20) / 2.
	assert.Equal(t, 15*time.Second, s.AverageSyncDuration)

	s.RecordAttempt(30*time.Second, true)
	assert.Equal(t, int64(3), s.TotalSyncsPerformed)
	assert.Equal(t, 20*time.Second, s.AverageSyncDuration)
}

func TestTrip_EffectiveEndDate(t *testing.T) {
	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	withEnd := Trip{HasEndDate: true, EndDate: end, CreatedAt: created}
	assert.Equal(t, end, withEnd.EffectiveEndDate())

	withoutEnd := Trip{HasEndDate: false, EndDate: end, CreatedAt: created}
	assert.Equal(t, created, withoutEnd.EffectiveEndDate())
}

func TestTrip_Shared(t *testing.T) {
	assert.False(t, Trip{}.Shared())
	assert.True(t, Trip{ShareID: "s1"}.Shared())
}

func TestShareMetadata_Valid(t *testing.T) {
	assert.False(t, ShareMetadata{}.Valid())
	assert.False(t, ShareMetadata{ShareID: "s1"}.Valid())
	assert.False(t, ShareMetadata{RootRecordID: RecordID{Name: "t1"}}.Valid())
	assert.True(t, ShareMetadata{ShareID: "s1", RootRecordID: RecordID{Name: "t1"}}.Valid())
}

func TestRemoteRecord_InZone(t *testing.T) {
	original := RemoteRecord{
		ID:        RecordID{Name: "t1", Zone: DefaultZone},
		Type:      RecordTypeTrip,
		Fields:    map[string]any{"name": "Summer Trip"},
		ChangeTag: "tag-1",
	}
	shareZone := ZoneID{Name: "TripShareZone"}

	moved := original.InZone(shareZone)

	assert.Equal(t, "t1", moved.ID.Name)
	assert.Equal(t, shareZone, moved.ID.Zone)
	assert.Equal(t, RecordTypeTrip, moved.Type)
	assert.Equal(t, "Summer Trip", moved.Fields["name"])
	assert.Empty(t, moved.ChangeTag, "re-addressed record must not carry the old change tag")

	// Fields are copied, not aliased.
	moved.Fields["name"] = "changed"
	assert.Equal(t, "Summer Trip", original.Fields["name"])

	// Original untouched.
	assert.Equal(t, DefaultZone, original.ID.Zone)
}

func TestNetworkStatus_String(t *testing.T) {
	assert.Equal(t, "online", NetworkOnline.String())
	assert.Equal(t, "offline", NetworkOffline.String())
}

func TestAccountStatus_String(t *testing.T) {
	assert.Equal(t, "available", AccountStatusAvailable.String())
	assert.Equal(t, "noAccount", AccountStatusNoAccount.String())
	assert.Equal(t, "restricted", AccountStatusRestricted.String())
	assert.Equal(t, "temporarilyUnavailable", AccountStatusTemporarilyUnavailable.String())
	assert.Equal(t, "couldNotDetermine", AccountStatusUnknown.String())
}

func TestRemoteEventKind_String(t *testing.T) {
	assert.Equal(t, "stateUpdate", EventStateUpdate.String())
	assert.Equal(t, "accountChange", EventAccountChange.String())
	assert.Equal(t, "fetchedRecordZoneChanges", EventFetchedZoneChanges.String())
	assert.Equal(t, "sentRecordZoneChanges", EventSentChanges.String())
}
