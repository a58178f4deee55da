package store

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// mapSQLiteError translates driver-level errors into the package's sentinel
// errors so callers can branch with errors.Is without importing the driver.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: %s", ErrConstraintViolation, sqliteErr.Error())
		}
	}

	return err
}
