package di

import (
	"fmt"

	"github.com/aristath/limitup/internal/config"
	"github.com/aristath/limitup/internal/modules/review"
	"github.com/aristath/limitup/internal/modules/snapshots"
	"github.com/rs/zerolog"
)

// InitializeRepositories creates the data access layer on top of the open databases
func InitializeRepositories(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil || container.SnapshotsDB == nil || container.ArchiveDB == nil {
		return fmt.Errorf("databases must be initialized before repositories")
	}

	container.SnapshotRepo = snapshots.NewRepository(container.SnapshotsDB.Conn(), cfg.Location(), log)
	container.ArchiveRepo = review.NewArchiveRepository(container.ArchiveDB.Conn(), log)

	log.Info().Msg("Repositories initialized")
	return nil
}
