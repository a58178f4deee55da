package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/beforetheshoes/traveling-snails/internal/logger"
	"github.com/beforetheshoes/traveling-snails/models"
)

var tripColumns = []string{
	"local_id", "id", "name", "notes", "start_date", "end_date",
	"has_end_date", "protected", "share_id", "dirty", "created_at", "updated_at",
}

type tripRepository struct {
	*DB
	logger *logger.Logger
}

func NewTripRepository(db *DB, logger *logger.Logger) TripRepository {
	return &tripRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *tripRepository) SaveTrip(ctx context.Context, trips ...models.Trip) error {
	log := logger.FromContext(ctx)

	for _, trip := range trips {
		// Upsert by logical id: a plain save from the app replaces the
		// first copy; extra copies created by sync races stay untouched for
		// the conflict resolver.
		res, err := r.update(ctx, trip)
		if err != nil {
			return err
		}
		affected, _ := res.RowsAffected()
		if affected > 0 {
			continue
		}

		query, args, err := sq.Insert("trips").
			Columns(tripColumns[1:]...).
			Values(trip.ID, trip.Name, trip.Notes, trip.StartDate, trip.EndDate,
				trip.HasEndDate, trip.Protected, trip.ShareID, true,
				trip.CreatedAt, trip.UpdatedAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert trip query: %w", err)
		}

		if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).
				Str("func", "tripRepository.SaveTrip").
				Str("trip_id", trip.ID).
				Msg("failed to execute insert for trip")
			return fmt.Errorf("failed to save trip (id=%s): %w", trip.ID, mapSQLiteError(err))
		}
	}

	return nil
}

func (r *tripRepository) update(ctx context.Context, trip models.Trip) (sql.Result, error) {
	query, args, err := sq.Update("trips").
		Set("name", trip.Name).
		Set("notes", trip.Notes).
		Set("start_date", trip.StartDate).
		Set("end_date", trip.EndDate).
		Set("has_end_date", trip.HasEndDate).
		Set("protected", trip.Protected).
		Set("share_id", trip.ShareID).
		Set("dirty", true).
		Set("updated_at", trip.UpdatedAt).
		Where(sq.Eq{"id": trip.ID}).
		Where("local_id = (SELECT MIN(local_id) FROM trips WHERE id = ?)", trip.ID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update trip query: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update trip (id=%s): %w", trip.ID, mapSQLiteError(err))
	}
	return res, nil
}

func (r *tripRepository) GetTrip(ctx context.Context, id string) (models.Trip, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select(tripColumns...).
		From("trips").
		Where(sq.Eq{"id": id}).
		OrderBy("local_id").
		Limit(1).
		ToSql()
	if err != nil {
		return models.Trip{}, fmt.Errorf("build get trip query: %w", err)
	}

	row := r.DB.QueryRowContext(ctx, query, args...)
	trip, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Trip{}, ErrTripNotFound
		}
		log.Err(err).
			Str("func", "tripRepository.GetTrip").
			Str("trip_id", id).
			Msg("failed to scan trip row")
		return models.Trip{}, fmt.Errorf("failed to scan trip row: %w", err)
	}

	return trip, nil
}

func (r *tripRepository) GetAllTrips(ctx context.Context) ([]models.Trip, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select(tripColumns...).
		From("trips").
		OrderBy("local_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get all trips query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "tripRepository.GetAllTrips").
			Msg("failed to query all trips")
		return nil, fmt.Errorf("failed to query all trips: %w", err)
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip row: %w", err)
		}
		trips = append(trips, trip)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trip rows: %w", err)
	}

	return trips, nil
}

func (r *tripRepository) CountTrips(ctx context.Context, includeProtected bool) (int, error) {
	builder := sq.Select("COUNT(*)").From("trips")
	if !includeProtected {
		builder = builder.Where(sq.Eq{"protected": false})
	}

	return countRows(ctx, r.DB, builder, "tripRepository.CountTrips")
}

func (r *tripRepository) DeleteTripCopy(ctx context.Context, localID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Delete("trips").
		Where(sq.Eq{"local_id": localID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete trip query: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "tripRepository.DeleteTripCopy").
			Int64("local_id", localID).
			Msg("failed to delete trip copy")
		return fmt.Errorf("failed to delete trip copy (local_id=%d): %w", localID, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrTripNotFound
	}
	return nil
}

func (r *tripRepository) SetShareID(ctx context.Context, tripID, shareID string) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Update("trips").
		Set("share_id", shareID).
		Where(sq.Eq{"id": tripID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set share id query: %w", err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "tripRepository.SetShareID").
			Str("trip_id", tripID).
			Str("share_id", shareID).
			Msg("failed to set share id")
		return fmt.Errorf("failed to set share id (trip_id=%s): %w", tripID, err)
	}

	return nil
}

func (r *tripRepository) CountDirtyTrips(ctx context.Context) (int, error) {
	builder := sq.Select("COUNT(*)").From("trips").Where(sq.Eq{"dirty": true})
	return countRows(ctx, r.DB, builder, "tripRepository.CountDirtyTrips")
}

func (r *tripRepository) MarkTripsClean(ctx context.Context) error {
	query, args, err := sq.Update("trips").
		Set("dirty", false).
		Where(sq.Eq{"dirty": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark trips clean query: %w", err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark trips clean: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(s scanner) (models.Trip, error) {
	var trip models.Trip
	err := s.Scan(
		&trip.LocalID,
		&trip.ID,
		&trip.Name,
		&trip.Notes,
		&trip.StartDate,
		&trip.EndDate,
		&trip.HasEndDate,
		&trip.Protected,
		&trip.ShareID,
		&trip.Dirty,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	return trip, err
}
