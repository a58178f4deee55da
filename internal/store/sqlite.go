package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/beforetheshoes/traveling-snails/internal/config"
	"github.com/beforetheshoes/traveling-snails/internal/logger"
	"github.com/beforetheshoes/traveling-snails/migrations"
)

// DB wraps the shared database handle. Both the interactive read path and
// the background write executor run over this one handle, which is what
// makes committed background writes visible to subsequent reads.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

func NewConnectSQLite(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	if cfg.DSN != ":memory:" {
		if err := createLocalDBFileIfNotExists(cfg.DSN); err != nil {
			log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database file")
			return nil, fmt.Errorf("error creating database file")
		}
	}

	conn, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB")
	}

	err = conn.PingContext(ctx)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Debug().Str("func", "NewConnectSQLite").Msg("connected to database successfully")

	db := &DB{
		DB:     conn,
		logger: log,
	}

	return db, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	return nil
}

// Migrate applies the embedded goose migrations to the underlying database.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// Storages groups all local repositories into a single value that can be
// passed around the service layer.
type Storages struct {
	// Trips is the SQLite-backed repository for trips.
	Trips TripRepository
	// Activities is the SQLite-backed repository for trip activities.
	Activities ActivityRepository
	// Lodgings is the SQLite-backed repository for trip lodgings.
	Lodgings LodgingRepository

	db *DB
}

// NewStorages initialises the local storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs and returns a [Storages] value wired to fresh repositories.
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewStorages(cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		Trips:      NewTripRepository(db, log),
		Activities: NewActivityRepository(db, log),
		Lodgings:   NewLodgingRepository(db, log),
		db:         db,
	}, nil
}

// Writer returns a background write executor over the same database handle.
func (s *Storages) Writer() *BackgroundWriter {
	return NewBackgroundWriter(s.db, s.db.logger)
}

// Close releases the underlying database handle.
func (s *Storages) Close() error {
	return s.db.Close()
}
