package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/beforetheshoes/traveling-snails/internal/backend"
	"github.com/beforetheshoes/traveling-snails/internal/config"
	"github.com/beforetheshoes/traveling-snails/internal/logger"
	"github.com/beforetheshoes/traveling-snails/internal/store"
	"github.com/beforetheshoes/traveling-snails/models"
)

// Deletion events arrive in bursts when another participant removes a trip
// subtree. Every event still updates the cache; only the logging is limited.
const (
	logFirstDeletions   = 5
	logEveryNthDeletion = 100
)

// SharingCoordinator owns the share lifecycle for trips: creation in the
// collaboration zone, removal, acceptance of shares from other participants,
// and a cache of known shares kept coherent by the remote event feed. It
// implements [SharingService].
type SharingCoordinator struct {
	cfg        config.Sharing
	activities store.ActivityRepository
	lodgings   store.LodgingRepository
	remote     backend.RemoteBackend
	writer     BackgroundSaver
	observers  *ObserverRegistry
	logger     *logger.Logger

	strictURL bool

	// group collapses concurrent CreateShare calls for the same trip into one
	// backend operation.
	group singleflight.Group

	mu             sync.Mutex
	shares         map[string]models.Share // trip ID -> share
	zonesReady     map[string]bool
	deletionEvents int64
}

func NewSharingCoordinator(
	cfg config.Sharing,
	activities store.ActivityRepository,
	lodgings store.LodgingRepository,
	remote backend.RemoteBackend,
	writer BackgroundSaver,
	observers *ObserverRegistry,
	log *logger.Logger,
) *SharingCoordinator {
	return &SharingCoordinator{
		cfg:        cfg,
		activities: activities,
		lodgings:   lodgings,
		remote:     remote,
		writer:     writer,
		observers:  observers,
		logger:     log,
		strictURL:  cfg.StrictShareURL != nil && *cfg.StrictShareURL,
		shares:     make(map[string]models.Share),
		zonesReady: make(map[string]bool),
	}
}

// ProvisionZone ensures the named zone exists on the backend, creating it only
// when absent. An empty name provisions the configured collaboration zone.
// Idempotent: once a zone is known to exist no further backend calls are made
// until an account change invalidates that knowledge.
func (s *SharingCoordinator) ProvisionZone(ctx context.Context, name string) error {
	if name == "" {
		name = s.cfg.ZoneName
	}

	s.mu.Lock()
	ready := s.zonesReady[name]
	s.mu.Unlock()
	if ready {
		return nil
	}

	zone := models.ZoneID{Name: name}
	exists, err := s.remote.ZoneExists(ctx, zone)
	if err != nil {
		return mapBackendError(err)
	}
	if !exists {
		if err = s.remote.CreateZone(ctx, zone); err != nil {
			return fmt.Errorf("%w: %s", ErrZoneCreationFailed, err)
		}
		s.logger.Info().Str("zone", name).Msg("collaboration zone created")
	}

	s.mu.Lock()
	s.zonesReady[name] = true
	s.mu.Unlock()
	return nil
}

// CreateShare returns the trip's share, creating it remotely on first call.
// Concurrent calls for the same trip coalesce: exactly one backend share is
// created and every caller receives it.
func (s *SharingCoordinator) CreateShare(ctx context.Context, trip models.Trip) (models.Share, error) {
	if share, ok := s.cachedShare(trip.ID); ok {
		return share, nil
	}

	if trip.Shared() {
		return s.fetchAndCache(ctx, trip.ID, trip.ShareID)
	}

	v, err, _ := s.group.Do(trip.ID, func() (any, error) {
		return s.createShare(ctx, trip)
	})
	if err != nil {
		return models.Share{}, err
	}
	return v.(models.Share), nil
}

func (s *SharingCoordinator) createShare(ctx context.Context, trip models.Trip) (models.Share, error) {
	// A racing call may have finished between the caller's cache check and
	// the flight starting.
	if share, ok := s.cachedShare(trip.ID); ok {
		return share, nil
	}

	if err := s.ProvisionZone(ctx, ""); err != nil {
		return models.Share{}, err
	}
	zone := models.ZoneID{Name: s.cfg.ZoneName}

	// The default zone cannot host a share, so the trip subtree is
	// materialized into the collaboration zone first. Children go in ahead of
	// the root; the root itself rides in the atomic save with the share.
	children, err := s.gatherChildRecords(ctx, trip.ID, zone)
	if err != nil {
		return models.Share{}, err
	}
	if len(children) > 0 {
		if _, err = s.remote.SaveRecordsAtomic(ctx, children); err != nil {
			return models.Share{}, mapBackendError(err)
		}
	}

	root := tripToRecord(trip, models.DefaultZone).InZone(zone)
	share := models.Share{
		ShareID:          uuid.NewString(),
		RootRecordID:     root.ID,
		Title:            trip.Name,
		PublicPermission: models.PermissionNone,
	}

	saved, err := s.remote.SaveShare(ctx, root, share)
	if err != nil {
		err = mapBackendError(err)
		s.logger.Err(err).Str("trip_id", trip.ID).Msg("share creation failed")
		return models.Share{}, err
	}

	saved, err = s.recoverShareURL(ctx, saved)
	if err != nil {
		return models.Share{}, err
	}

	// Remote is the source of truth for the share itself; a failure to record
	// the link locally is repaired by the event feed, not by re-creating the
	// share.
	if err = s.writer.PerformBackgroundSave(ctx, "set-share-id",
		store.SetTripShareID(ctx, trip.ID, saved.ShareID)); err != nil {
		s.logger.Err(err).
			Str("trip_id", trip.ID).
			Str("share_id", saved.ShareID).
			Msg("failed to persist share id locally")
	}

	s.mu.Lock()
	s.shares[trip.ID] = saved
	s.mu.Unlock()

	s.observers.NotifyShare(ShareEvent{Kind: ShareCreated, TripID: trip.ID, Share: saved})
	s.logger.Info().
		Str("trip_id", trip.ID).
		Str("share_id", saved.ShareID).
		Bool("has_url", saved.URL != "").
		Msg("share created")

	return saved, nil
}

// recoverShareURL handles the backend returning a freshly saved share without
// its URL populated yet. The recovery is bounded: one delayed re-check against
// the private view, one against the shared view, then either degrade to a
// URL-less share or fail, per configuration.
func (s *SharingCoordinator) recoverShareURL(ctx context.Context, share models.Share) (models.Share, error) {
	if share.URL != "" {
		return share, nil
	}

	select {
	case <-time.After(s.cfg.URLRecoveryDelay):
	case <-ctx.Done():
		return models.Share{}, ErrOperationTimeout
	}

	for _, db := range []backend.Database{backend.DatabasePrivate, backend.DatabaseShared} {
		fetched, err := s.remote.FetchShare(ctx, share.ShareID, db)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("share_id", share.ShareID).
				Msg("share URL recovery fetch failed")
			continue
		}
		if fetched.URL != "" {
			return fetched, nil
		}
	}

	if s.strictURL {
		return models.Share{}, ErrShareURLNotAvailable
	}

	s.logger.Warn().
		Str("share_id", share.ShareID).
		Msg("share URL unavailable after recovery, continuing without one")
	return share, nil
}

// RemoveShare deletes the trip's remote share and clears the local share
// identifier. Removing an unshared trip is not an error; a share already gone
// remotely still gets its local side cleaned up.
func (s *SharingCoordinator) RemoveShare(ctx context.Context, trip models.Trip) error {
	if !trip.Shared() {
		s.logger.Warn().Str("trip_id", trip.ID).Msg("remove share requested for unshared trip")
		return nil
	}

	shareRecordID := models.RecordID{
		Name: trip.ShareID,
		Zone: models.ZoneID{Name: s.cfg.ZoneName},
	}
	if err := s.remote.DeleteRecord(ctx, shareRecordID); err != nil {
		if !errors.Is(err, backend.ErrNotFound) {
			return mapBackendError(err)
		}
		s.logger.Warn().
			Str("trip_id", trip.ID).
			Str("share_id", trip.ShareID).
			Msg("share already absent remotely, clearing local state")
	}

	if err := s.writer.PerformBackgroundSave(ctx, "clear-share-id",
		store.SetTripShareID(ctx, trip.ID, "")); err != nil {
		return fmt.Errorf("clear local share id: %w", err)
	}

	s.mu.Lock()
	delete(s.shares, trip.ID)
	s.mu.Unlock()

	s.observers.NotifyShare(ShareEvent{Kind: ShareRemoved, TripID: trip.ID})
	s.logger.Info().Str("trip_id", trip.ID).Str("share_id", trip.ShareID).Msg("share removed")
	return nil
}

// AcceptShare redeems share metadata received from another participant and
// caches the accepted share under its root trip.
func (s *SharingCoordinator) AcceptShare(ctx context.Context, meta models.ShareMetadata) (models.Share, error) {
	if !meta.Valid() {
		return models.Share{}, ErrInvalidShareMetadata
	}

	share, err := s.remote.AcceptShare(ctx, meta)
	if err != nil {
		return models.Share{}, mapBackendError(err)
	}
	if share.ShareID == "" {
		return models.Share{}, ErrInvalidShareRecord
	}

	tripID := share.RootRecordID.Name
	s.mu.Lock()
	s.shares[tripID] = share
	s.mu.Unlock()

	s.observers.NotifyShare(ShareEvent{Kind: ShareAccepted, TripID: tripID, Share: share})
	s.logger.Info().Str("trip_id", tripID).Str("share_id", share.ShareID).Msg("share accepted")
	return share, nil
}

// GetSharingInfo answers "is this trip shared, and with whom". It never
// fails: a fetch error is logged and reported as not shared, which is the
// safe answer for every caller (the UI shows the share sheet instead of
// participants).
func (s *SharingCoordinator) GetSharingInfo(ctx context.Context, trip models.Trip) models.SharingInfo {
	if !trip.Shared() {
		return models.NotShared
	}

	if share, ok := s.cachedShare(trip.ID); ok {
		return models.SharingInfo{IsShared: true, Share: share}
	}

	share, err := s.fetchAndCache(ctx, trip.ID, trip.ShareID)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("trip_id", trip.ID).
			Str("share_id", trip.ShareID).
			Msg("failed to fetch share, reporting not shared")
		return models.NotShared
	}

	return models.SharingInfo{IsShared: true, Share: share}
}

// Run consumes the remote event feed until ctx is cancelled or the feed
// closes, keeping the share cache coherent with changes made elsewhere.
func (s *SharingCoordinator) Run(ctx context.Context) {
	events := s.remote.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.handleEvent(ctx, ev)
		}
	}
}

func (s *SharingCoordinator) handleEvent(ctx context.Context, ev models.RemoteEvent) {
	switch ev.Kind {
	case models.EventAccountChange:
		// Shares and zones are account-scoped; everything cached is suspect.
		s.mu.Lock()
		cached := len(s.shares)
		s.shares = make(map[string]models.Share)
		s.zonesReady = make(map[string]bool)
		s.mu.Unlock()

		s.logger.Info().Int("invalidated", cached).Msg("account changed, share cache invalidated")

	case models.EventFetchedZoneChanges:
		s.applyModifications(ev.Modifications)
		s.applyDeletions(ctx, ev.Deletions)

	case models.EventSentChanges:
		s.logger.Debug().Msg("local changes accepted by backend")

	default:
		s.logger.Debug().Str("kind", ev.Kind.String()).Msg("remote state update")
	}
}

// applyModifications re-caches shares another participant changed under their
// derived trip id, so the next read sees the fresh copy without a refetch. A
// record that does not name its root can only invalidate the stale entry.
func (s *SharingCoordinator) applyModifications(recs []models.RemoteRecord) {
	for _, rec := range recs {
		if rec.Type != models.RecordTypeShare {
			continue
		}

		share, tripID := shareFromRecord(rec)

		s.mu.Lock()
		if tripID == "" {
			for id, cached := range s.shares {
				if cached.ShareID == rec.ID.Name {
					tripID = id
					delete(s.shares, id)
					break
				}
			}
			s.mu.Unlock()
		} else {
			s.shares[tripID] = share
			s.mu.Unlock()
		}

		if tripID != "" {
			s.observers.NotifyShare(ShareEvent{Kind: ShareUpdated, TripID: tripID, Share: share})
		}
	}
}

// applyDeletions updates state for every deleted record while rate-limiting
// the log: bursts of hundreds of deletions arrive when a participant removes
// a whole trip subtree, and logging each one drowns everything else.
func (s *SharingCoordinator) applyDeletions(ctx context.Context, ids []models.RecordID) {
	for _, id := range ids {
		s.mu.Lock()
		s.deletionEvents++
		n := s.deletionEvents

		var tripID string
		for trip, share := range s.shares {
			if share.ShareID == id.Name {
				tripID = trip
				delete(s.shares, trip)
				break
			}
		}
		s.mu.Unlock()

		if n <= logFirstDeletions || n%logEveryNthDeletion == 0 {
			s.logger.Info().
				Str("record", id.Name).
				Int64("total_deletions", n).
				Msg("remote record deleted")
		}

		if tripID == "" {
			continue
		}

		// The share itself was deleted remotely; drop the local link too.
		if err := s.writer.PerformBackgroundSave(ctx, "clear-share-id",
			store.SetTripShareID(ctx, tripID, "")); err != nil {
			s.logger.Err(err).Str("trip_id", tripID).Msg("failed to clear share id after remote deletion")
		}
		s.observers.NotifyShare(ShareEvent{Kind: ShareRemoved, TripID: tripID})
	}
}

func (s *SharingCoordinator) cachedShare(tripID string) (models.Share, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	share, ok := s.shares[tripID]
	return share, ok
}

func (s *SharingCoordinator) fetchAndCache(ctx context.Context, tripID, shareID string) (models.Share, error) {
	share, err := s.remote.FetchShare(ctx, shareID, backend.DatabasePrivate)
	if err != nil {
		return models.Share{}, mapBackendError(err)
	}

	s.mu.Lock()
	s.shares[tripID] = share
	s.mu.Unlock()
	return share, nil
}

// gatherChildRecords loads the trip's activities and lodgings and re-addresses
// them into the collaboration zone.
func (s *SharingCoordinator) gatherChildRecords(ctx context.Context, tripID string, zone models.ZoneID) ([]models.RemoteRecord, error) {
	activities, err := s.activities.GetActivitiesByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("gather activities for share: %w", err)
	}
	lodgings, err := s.lodgings.GetLodgingsByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("gather lodgings for share: %w", err)
	}

	records := make([]models.RemoteRecord, 0, len(activities)+len(lodgings))
	for _, a := range activities {
		records = append(records, activityToRecord(a, models.DefaultZone).InZone(zone))
	}
	for _, l := range lodgings {
		records = append(records, lodgingToRecord(l, models.DefaultZone).InZone(zone))
	}
	return records, nil
}
