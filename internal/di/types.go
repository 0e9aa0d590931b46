// Package di provides dependency injection type definitions.
//
// Container holds every application dependency and is the single source of
// truth for service instances. It is created by Wire and handed to the server.
package di

import (
	"github.com/aristath/limitup/internal/database"
	"github.com/aristath/limitup/internal/modules/calendar"
	"github.com/aristath/limitup/internal/modules/reasons"
	"github.com/aristath/limitup/internal/modules/review"
	"github.com/aristath/limitup/internal/modules/snapshots"
	"github.com/aristath/limitup/internal/modules/streaks"
	"github.com/aristath/limitup/internal/scheduler"
)

// Container holds all dependencies for the application
type Container struct {
	// Databases
	SnapshotsDB *database.DB // ingested limit-up snapshots (source data)
	ArchiveDB   *database.DB // computed reviews (recomputable)

	// Repositories
	SnapshotRepo *snapshots.Repository
	ArchiveRepo  *review.ArchiveRepository

	// Services
	ExchangeCalendar *calendar.ExchangeCalendar
	CalendarService  *calendar.Service
	SnapshotImporter *snapshots.Importer
	SnapshotService  *snapshots.Service
	ReasonAggregator *reasons.Aggregator
	StreakGrouper    *streaks.Grouper
	ReviewService    *review.Service
}

// JobInstances holds the background jobs so they can be scheduled and triggered manually
type JobInstances struct {
	ImportSnapshots *snapshots.ImportDirectoryJob
	WALCheckpoint   *scheduler.WALCheckpointJob
}

// All returns the jobs keyed by name
func (j *JobInstances) All() map[string]scheduler.Job {
	jobs := make(map[string]scheduler.Job)
	if j == nil {
		return jobs
	}
	if j.ImportSnapshots != nil {
		jobs[j.ImportSnapshots.Name()] = j.ImportSnapshots
	}
	if j.WALCheckpoint != nil {
		jobs[j.WALCheckpoint.Name()] = j.WALCheckpoint
	}
	return jobs
}

// Close closes every open database
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.SnapshotsDB != nil {
		_ = c.SnapshotsDB.Close()
	}
	if c.ArchiveDB != nil {
		_ = c.ArchiveDB.Close()
	}
}
