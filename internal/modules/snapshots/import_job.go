package snapshots

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/aristath/limitup/internal/domain"
	"github.com/rs/zerolog"
)

var importFileName = regexp.MustCompile(`^limitup_(\d{8})\.(csv|xlsx)$`)

// ImportDirectoryJob ingests limitup_YYYYMMDD.{csv,xlsx} files that have no stored snapshot yet
type ImportDirectoryJob struct {
	service *Service
	dir     string
	loc     *time.Location
	timeout time.Duration
	log     zerolog.Logger
}

// NewImportDirectoryJob creates a job scanning dir
func NewImportDirectoryJob(service *Service, dir string, loc *time.Location, log zerolog.Logger) *ImportDirectoryJob {
	return &ImportDirectoryJob{
		service: service,
		dir:     dir,
		loc:     loc,
		timeout: 2 * time.Minute,
		log:     log.With().Str("job", "import_snapshots").Logger(),
	}
}

// Name returns the job name
func (j *ImportDirectoryJob) Name() string {
	return "import_snapshots"
}

// Run executes one directory scan. Bad files are logged and skipped.
func (j *ImportDirectoryJob) Run() error {
	if j.dir == "" {
		return nil
	}

	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if os.IsNotExist(err) {
			j.log.Debug().Str("dir", j.dir).Msg("Import directory does not exist")
			return nil
		}
		return fmt.Errorf("failed to read import directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	imported, skipped, failed := 0, 0, 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := importFileName.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		date, err := domain.ParseDate(m[1], j.loc)
		if err != nil {
			failed++
			continue
		}

		done, err := j.service.IsImported(ctx, date)
		if err != nil {
			return err
		}
		if done {
			skipped++
			continue
		}

		content, err := os.ReadFile(filepath.Join(j.dir, entry.Name()))
		if err != nil {
			j.log.Warn().Err(err).Str("file", entry.Name()).Msg("Failed to read snapshot file")
			failed++
			continue
		}
		if _, err := j.service.Import(ctx, date, entry.Name(), content); err != nil {
			j.log.Warn().Err(err).Str("file", entry.Name()).Msg("Failed to import snapshot file")
			failed++
			continue
		}
		imported++
	}

	j.log.Info().
		Int("imported", imported).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("Snapshot directory scan completed")
	return nil
}
