package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/beforetheshoes/traveling-snails/internal/backend"
	"github.com/beforetheshoes/traveling-snails/internal/config"
	"github.com/beforetheshoes/traveling-snails/internal/logger"
	"github.com/beforetheshoes/traveling-snails/internal/service"
	"github.com/beforetheshoes/traveling-snails/internal/store"
	"github.com/beforetheshoes/traveling-snails/internal/workers"
	"github.com/beforetheshoes/traveling-snails/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("snailsync")
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	remote, err := backend.NewHTTPRemoteBackend(cfg.Backend, log.GetChildLogger("backend"))
	if err != nil {
		log.Fatal().Err(err).Msg("create remote backend")
	}

	storages, err := store.NewStorages(cfg.Storage, log.GetChildLogger("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer storages.Close()

	services := service.NewServices(cfg, storages, remote, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	remote.Start(ctx)
	services.Sync.SetNetworkStatus(models.NetworkOnline)

	if err = run(ctx, cfg, services, storages, log); err != nil {
		log.Fatal().Err(err).Msg("snailsync run error")
	}
}

// run dispatches the optional subcommand. Without one, the coordinator runs
// as a long-lived process with its background workers until interrupted.
func run(ctx context.Context, cfg *config.StructuredConfig, services *service.Services, storages *store.Storages, log *logger.Logger) error {
	switch subcommand(os.Args[1:]) {
	case "sync":
		if err := services.Sync.TriggerSyncWithRetry(ctx); err != nil {
			return fmt.Errorf("sync: %w", err)
		}
		printState(services.Sync.State())
		return nil

	case "status":
		printState(services.Sync.State())
		printInventory(ctx, storages)
		return nil

	default:
		log.Info().Msg("starting background workers")
		workers.NewWorkers(cfg.Workers, services, log).Run(ctx)
		<-ctx.Done()
		log.Info().Msg("shutting down")
		return nil
	}
}

// subcommand returns the first non-flag token of args, so flags may appear on
// either side of the subcommand. Every defined flag takes a value, so a
// "-flag value" pair consumes the following token too.
func subcommand(args []string) string {
	for i := 0; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			if !strings.Contains(args[i], "=") {
				i++
			}
			continue
		}
		return args[i]
	}
	return ""
}

func printState(state models.SyncState) {
	fmt.Printf("Syncing: %v\n", state.IsSyncing)
	fmt.Printf("Network: %s\n", state.NetworkStatus)
	fmt.Printf("Pending changes: %d\n", state.PendingChangesCount)
	if state.LastSyncDate != nil {
		fmt.Printf("Last sync: %s\n", state.LastSyncDate.Format("2006-01-02 15:04:05"))
	}
	if state.SyncError != nil {
		fmt.Printf("Last error: %v\n", state.SyncError)
	}
	stats := state.Statistics
	fmt.Printf("Syncs: %d total, %d ok, %d failed, %d conflicts resolved\n",
		stats.TotalSyncsPerformed, stats.SuccessfulSyncs, stats.FailedSyncs, stats.ConflictsResolved)
}

func printInventory(ctx context.Context, storages *store.Storages) {
	trips, err := storages.Trips.CountTrips(ctx, true)
	if err != nil {
		return
	}
	activities, err := storages.Activities.CountActivities(ctx)
	if err != nil {
		return
	}
	lodgings, err := storages.Lodgings.CountLodgings(ctx)
	if err != nil {
		return
	}
	fmt.Printf("Local store: %d trips, %d activities, %d lodgings\n", trips, activities, lodgings)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
