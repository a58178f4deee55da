// Package backend provides transport-layer abstractions for communicating
// with the remote synchronization backend.
//
// The primary abstraction is [RemoteBackend], which decouples the coordinator
// layer from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPRemoteBackend]) whose wire format is owned entirely
// by this package; coordinators only ever see the interface.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrQuotaExceeded] for 429, [ErrNetworkUnavailable]
// for gateway failures).
package backend

import (
	"context"

	"github.com/beforetheshoes/traveling-snails/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/backend_mock.go -package=mock

// Database selects which backend view a fetch reads from. Shares accepted
// from other users live in the shared view; everything this device writes
// lives in the private one.
type Database int

const (
	DatabasePrivate Database = iota
	DatabaseShared
)

// RemoteBackend defines transport-agnostic communication with the remote
// synchronization backend. Implementations are responsible for
// serialisation and for mapping transport-level errors to the sentinel
// values defined in this package.
//
// Every method is a suspension point: implementations must honour ctx
// cancellation and never busy-wait.
type RemoteBackend interface {
	// AccountStatus queries the signed-in account's availability. A
	// transport failure returns AccountStatusUnknown with the error.
	AccountStatus(ctx context.Context) (models.AccountStatus, error)

	// ZoneExists reports whether the named zone has been provisioned.
	ZoneExists(ctx context.Context, zone models.ZoneID) (bool, error)

	// CreateZone provisions a record zone. Creating a zone that already
	// exists is not an error.
	CreateZone(ctx context.Context, zone models.ZoneID) error

	// SaveRecord saves a single record and returns it with the backend's
	// updated change tag.
	SaveRecord(ctx context.Context, rec models.RemoteRecord) (models.RemoteRecord, error)

	// SaveRecordsAtomic saves all records in one atomic operation: either
	// every record is persisted or none is. Subject to the backend's
	// per-operation record limit.
	SaveRecordsAtomic(ctx context.Context, recs []models.RemoteRecord) ([]models.RemoteRecord, error)

	// FetchRecord retrieves one record by identifier. Returns
	// [ErrRecordNotFound] (wrapped) when the record does not exist remotely.
	FetchRecord(ctx context.Context, id models.RecordID) (models.RemoteRecord, error)

	// DeleteRecord removes one record by identifier.
	DeleteRecord(ctx context.Context, id models.RecordID) error

	// SaveShare persists the share and its root record in one atomic
	// operation; a partial save (record without share, or share without
	// record) is not possible. Returns the share as stored, including the
	// backend-assigned URL when available.
	SaveShare(ctx context.Context, root models.RemoteRecord, share models.Share) (models.Share, error)

	// FetchShare retrieves a share by its identifier from the selected
	// database view. Returns [ErrShareNotFound] (wrapped) when absent.
	FetchShare(ctx context.Context, shareID string, db Database) (models.Share, error)

	// AcceptShare redeems share metadata received from another participant
	// and returns the accepted share.
	AcceptShare(ctx context.Context, meta models.ShareMetadata) (models.Share, error)

	// Events returns the asynchronous remote change feed. The channel is
	// closed when the subscription ends; consumers must tolerate bursts
	// (one remote action can fan out into many events).
	Events() <-chan models.RemoteEvent
}
