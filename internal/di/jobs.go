package di

import (
	"fmt"
	"os"

	"github.com/aristath/limitup/internal/config"
	"github.com/aristath/limitup/internal/modules/snapshots"
	"github.com/aristath/limitup/internal/scheduler"
	"github.com/rs/zerolog"
)

// RegisterJobs creates the background jobs. Scheduling is left to the caller.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil || container.SnapshotService == nil {
		return nil, fmt.Errorf("services must be initialized before jobs")
	}

	if cfg.ImportDir != "" {
		if err := os.MkdirAll(cfg.ImportDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create import directory: %w", err)
		}
	}

	jobs := &JobInstances{
		WALCheckpoint: scheduler.NewWALCheckpointJob(log, container.SnapshotsDB, container.ArchiveDB),
	}
	if cfg.ImportDir != "" {
		jobs.ImportSnapshots = snapshots.NewImportDirectoryJob(container.SnapshotService, cfg.ImportDir, cfg.Location(), log)
	}

	log.Info().Int("jobs", len(jobs.All())).Msg("Jobs registered")
	return jobs, nil
}
