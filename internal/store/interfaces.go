package store

import (
	"context"

	"github.com/beforetheshoes/traveling-snails/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// TripRepository is the local persistence contract for trips. The sync
// coordinator reads counts and full snapshots through it and the conflict
// resolver deletes loser copies through it; the sharing coordinator updates
// the share identifier through it.
type TripRepository interface {
	// SaveTrip upserts one or more trips by logical id. New trips are
	// inserted dirty; saving an existing trip marks it dirty again.
	SaveTrip(ctx context.Context, trips ...models.Trip) error

	// GetTrip returns the trip with the given logical id. When duplicate
	// local copies exist it returns the first by row id; callers that care
	// about duplicates use GetAllTrips. Returns ErrTripNotFound when absent.
	GetTrip(ctx context.Context, id string) (models.Trip, error)

	// GetAllTrips returns every local trip row, including duplicate copies
	// of the same logical trip. Conflict resolution depends on seeing all
	// copies.
	GetAllTrips(ctx context.Context) ([]models.Trip, error)

	// CountTrips returns the number of trip rows. With includeProtected
	// false, protected trips are excluded from the count.
	CountTrips(ctx context.Context, includeProtected bool) (int, error)

	// DeleteTripCopy removes a single local row by row id. Used by conflict
	// resolution, which must target an exact copy rather than a logical id.
	DeleteTripCopy(ctx context.Context, localID int64) error

	// SetShareID updates the share identifier of every local copy of the
	// trip. An empty shareID clears it.
	SetShareID(ctx context.Context, tripID, shareID string) error

	// CountDirtyTrips returns the number of trips with uncommitted local
	// changes.
	CountDirtyTrips(ctx context.Context) (int, error)

	// MarkTripsClean clears the dirty flag on all trips after a successful
	// push to the backend.
	MarkTripsClean(ctx context.Context) error
}

// ActivityRepository is the local persistence contract for trip activities.
type ActivityRepository interface {
	SaveActivity(ctx context.Context, activities ...models.Activity) error
	GetActivitiesByTrip(ctx context.Context, tripID string) ([]models.Activity, error)
	CountActivities(ctx context.Context) (int, error)
	DeleteActivitiesByTrip(ctx context.Context, tripID string) error
	CountDirtyActivities(ctx context.Context) (int, error)
	MarkActivitiesClean(ctx context.Context) error
}

// LodgingRepository is the local persistence contract for trip lodgings.
type LodgingRepository interface {
	SaveLodging(ctx context.Context, lodgings ...models.Lodging) error
	GetLodgingsByTrip(ctx context.Context, tripID string) ([]models.Lodging, error)
	CountLodgings(ctx context.Context) (int, error)
	DeleteLodgingsByTrip(ctx context.Context, tripID string) error
	CountDirtyLodgings(ctx context.Context) (int, error)
	MarkLodgingsClean(ctx context.Context) error
}
