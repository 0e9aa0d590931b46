package di

import (
	"fmt"

	"github.com/aristath/limitup/internal/config"
	"github.com/aristath/limitup/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens both databases and applies their schemas
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// 1. snapshots.db - ingested snapshots, the only source data
	snapshotsDB, err := database.New(database.Config{
		Path:    cfg.DatabasePath("snapshots"),
		Profile: database.ProfileStandard,
		Name:    "snapshots",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize snapshots database: %w", err)
	}
	container.SnapshotsDB = snapshotsDB

	// 2. archive.db - computed reviews, can be rebuilt from snapshots
	archiveDB, err := database.New(database.Config{
		Path:    cfg.DatabasePath("archive"),
		Profile: database.ProfileCache,
		Name:    "archive",
	})
	if err != nil {
		snapshotsDB.Close()
		return nil, fmt.Errorf("failed to initialize archive database: %w", err)
	}
	container.ArchiveDB = archiveDB

	for _, db := range []*database.DB{snapshotsDB, archiveDB} {
		if err := db.Migrate(); err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to apply schema for %s: %w", db.Name(), err)
		}
		log.Debug().Str("database", db.Name()).Str("path", db.Path()).Msg("Database ready")
	}

	log.Info().Msg("Databases initialized")
	return container, nil
}
