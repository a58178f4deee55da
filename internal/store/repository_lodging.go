package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/beforetheshoes/traveling-snails/internal/logger"
	"github.com/beforetheshoes/traveling-snails/models"
)

var lodgingColumns = []string{
	"local_id", "id", "trip_id", "name", "check_in", "check_out", "cost",
	"dirty", "created_at", "updated_at",
}

type lodgingRepository struct {
	*DB
	logger *logger.Logger
}

func NewLodgingRepository(db *DB, logger *logger.Logger) LodgingRepository {
	return &lodgingRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *lodgingRepository) SaveLodging(ctx context.Context, lodgings ...models.Lodging) error {
	log := logger.FromContext(ctx)

	for _, l := range lodgings {
		query, args, err := sq.Insert("lodgings").
			Columns(lodgingColumns[1:]...).
			Values(l.ID, l.TripID, l.Name, l.CheckIn, l.CheckOut, l.Cost,
				true, l.CreatedAt, l.UpdatedAt).
			Suffix(`ON CONFLICT(id) DO UPDATE SET
				trip_id=excluded.trip_id, name=excluded.name, check_in=excluded.check_in,
				check_out=excluded.check_out, cost=excluded.cost,
				dirty=1, updated_at=excluded.updated_at`).
			ToSql()
		if err != nil {
			return fmt.Errorf("build upsert lodging query: %w", err)
		}

		if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).
				Str("func", "lodgingRepository.SaveLodging").
				Str("lodging_id", l.ID).
				Msg("failed to execute upsert for lodging")
			return fmt.Errorf("failed to save lodging (id=%s): %w", l.ID, mapSQLiteError(err))
		}
	}

	return nil
}

func (r *lodgingRepository) GetLodgingsByTrip(ctx context.Context, tripID string) ([]models.Lodging, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select(lodgingColumns...).
		From("lodgings").
		Where(sq.Eq{"trip_id": tripID}).
		OrderBy("check_in").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get lodgings query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "lodgingRepository.GetLodgingsByTrip").
			Str("trip_id", tripID).
			Msg("failed to query lodgings")
		return nil, fmt.Errorf("failed to query lodgings: %w", err)
	}
	defer rows.Close()

	var lodgings []models.Lodging
	for rows.Next() {
		var l models.Lodging
		if err = rows.Scan(&l.LocalID, &l.ID, &l.TripID, &l.Name, &l.CheckIn,
			&l.CheckOut, &l.Cost, &l.Dirty, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lodging row: %w", err)
		}
		lodgings = append(lodgings, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lodging rows: %w", err)
	}

	return lodgings, nil
}

func (r *lodgingRepository) CountLodgings(ctx context.Context) (int, error) {
	return countRows(ctx, r.DB, sq.Select("COUNT(*)").From("lodgings"),
		"lodgingRepository.CountLodgings")
}

func (r *lodgingRepository) DeleteLodgingsByTrip(ctx context.Context, tripID string) error {
	query, args, err := sq.Delete("lodgings").
		Where(sq.Eq{"trip_id": tripID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete lodgings query: %w", err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete lodgings (trip_id=%s): %w", tripID, err)
	}
	return nil
}

func (r *lodgingRepository) CountDirtyLodgings(ctx context.Context) (int, error) {
	return countRows(ctx, r.DB,
		sq.Select("COUNT(*)").From("lodgings").Where(sq.Eq{"dirty": true}),
		"lodgingRepository.CountDirtyLodgings")
}

func (r *lodgingRepository) MarkLodgingsClean(ctx context.Context) error {
	query, args, err := sq.Update("lodgings").
		Set("dirty", false).
		Where(sq.Eq{"dirty": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark lodgings clean query: %w", err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark lodgings clean: %w", err)
	}
	return nil
}
