package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/beforetheshoes/traveling-snails/internal/logger"
	"github.com/beforetheshoes/traveling-snails/models"
)

var activityColumns = []string{
	"local_id", "id", "trip_id", "name", "start", `"end"`, "cost", "notes",
	"dirty", "created_at", "updated_at",
}

type activityRepository struct {
	*DB
	logger *logger.Logger
}

func NewActivityRepository(db *DB, logger *logger.Logger) ActivityRepository {
	return &activityRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *activityRepository) SaveActivity(ctx context.Context, activities ...models.Activity) error {
	log := logger.FromContext(ctx)

	for _, a := range activities {
		query, args, err := sq.Insert("activities").
			Columns(activityColumns[1:]...).
			Values(a.ID, a.TripID, a.Name, a.Start, a.End, a.Cost, a.Notes,
				true, a.CreatedAt, a.UpdatedAt).
			Suffix(`ON CONFLICT(id) DO UPDATE SET
				trip_id=excluded.trip_id, name=excluded.name, start=excluded.start,
				"end"=excluded."end", cost=excluded.cost, notes=excluded.notes,
				dirty=1, updated_at=excluded.updated_at`).
			ToSql()
		if err != nil {
			return fmt.Errorf("build upsert activity query: %w", err)
		}

		if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).
				Str("func", "activityRepository.SaveActivity").
				Str("activity_id", a.ID).
				Msg("failed to execute upsert for activity")
			return fmt.Errorf("failed to save activity (id=%s): %w", a.ID, mapSQLiteError(err))
		}
	}

	return nil
}

func (r *activityRepository) GetActivitiesByTrip(ctx context.Context, tripID string) ([]models.Activity, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select(activityColumns...).
		From("activities").
		Where(sq.Eq{"trip_id": tripID}).
		OrderBy("start").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get activities query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "activityRepository.GetActivitiesByTrip").
			Str("trip_id", tripID).
			Msg("failed to query activities")
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		if err = rows.Scan(&a.LocalID, &a.ID, &a.TripID, &a.Name, &a.Start, &a.End,
			&a.Cost, &a.Notes, &a.Dirty, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		activities = append(activities, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity rows: %w", err)
	}

	return activities, nil
}

func (r *activityRepository) CountActivities(ctx context.Context) (int, error) {
	return countRows(ctx, r.DB, sq.Select("COUNT(*)").From("activities"),
		"activityRepository.CountActivities")
}

func (r *activityRepository) DeleteActivitiesByTrip(ctx context.Context, tripID string) error {
	query, args, err := sq.Delete("activities").
		Where(sq.Eq{"trip_id": tripID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete activities query: %w", err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete activities (trip_id=%s): %w", tripID, err)
	}
	return nil
}

func (r *activityRepository) CountDirtyActivities(ctx context.Context) (int, error) {
	return countRows(ctx, r.DB,
		sq.Select("COUNT(*)").From("activities").Where(sq.Eq{"dirty": true}),
		"activityRepository.CountDirtyActivities")
}

func (r *activityRepository) MarkActivitiesClean(ctx context.Context) error {
	query, args, err := sq.Update("activities").
		Set("dirty", false).
		Where(sq.Eq{"dirty": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark activities clean query: %w", err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark activities clean: %w", err)
	}
	return nil
}

func countRows(ctx context.Context, db *DB, builder sq.SelectBuilder, caller string) (int, error) {
	log := logger.FromContext(ctx)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var n int
	if err = db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		log.Err(err).Str("func", caller).Msg("failed to count rows")
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return n, nil
}
