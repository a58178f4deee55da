package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// MarkAllClean returns a mutation that clears the dirty flag across every
// synced table in one transaction. Run through
// [BackgroundWriter.PerformBackgroundSave] after a successful push so a crash
// between tables cannot leave the flags half-cleared.
func MarkAllClean(ctx context.Context) func(tx *WriteTx) error {
	return func(tx *WriteTx) error {
		for _, table := range []string{"trips", "activities", "lodgings"} {
			query, args, err := sq.Update(table).
				Set("dirty", false).
				Where(sq.Eq{"dirty": true}).
				ToSql()
			if err != nil {
				return fmt.Errorf("mark %s clean build query: %w", table, err)
			}

			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("mark %s clean: %w", table, err)
			}
		}
		return nil
	}
}

// SetTripShareID returns a mutation that updates the share identifier on
// every local copy of the trip. An empty shareID clears it.
func SetTripShareID(ctx context.Context, tripID, shareID string) func(tx *WriteTx) error {
	return func(tx *WriteTx) error {
		query, args, err := sq.Update("trips").
			Set("share_id", shareID).
			Where(sq.Eq{"id": tripID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("set trip share id build query: %w", err)
		}

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("set trip share id: %w", err)
		}
		return nil
	}
}
