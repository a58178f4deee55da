// Package service implements the coordinator layer: the sync state machine,
// the share lifecycle, and the observer registry both publish through. It sits
// between the local store and the remote backend and owns every business
// error a caller can see.
package service

import (
	"github.com/beforetheshoes/traveling-snails/internal/backend"
	"github.com/beforetheshoes/traveling-snails/internal/config"
	"github.com/beforetheshoes/traveling-snails/internal/logger"
	"github.com/beforetheshoes/traveling-snails/internal/store"
)

// Services bundles both coordinators behind their interfaces together with
// the observer registry they publish through.
type Services struct {
	Sync      SyncService
	Sharing   SharingService
	Observers *ObserverRegistry
}

// NewServices wires the coordinator layer: one observer registry, one
// background writer over the storages' database handle, and the two
// coordinators sharing both.
func NewServices(cfg *config.StructuredConfig, storages *store.Storages, remote backend.RemoteBackend, log *logger.Logger) *Services {
	observers := NewObserverRegistry()
	writer := storages.Writer()

	syncLog := log.GetChildLogger("sync")
	sharingLog := log.GetChildLogger("sharing")

	return &Services{
		Sync: NewSyncCoordinator(
			cfg.Sync,
			storages.Trips,
			storages.Activities,
			storages.Lodgings,
			remote,
			writer,
			observers,
			syncLog,
		),
		Sharing: NewSharingCoordinator(
			cfg.Sharing,
			storages.Activities,
			storages.Lodgings,
			remote,
			writer,
			observers,
			sharingLog,
		),
		Observers: observers,
	}
}
