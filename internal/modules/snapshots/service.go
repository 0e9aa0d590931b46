package snapshots

import (
	"context"
	"time"

	"github.com/aristath/limitup/internal/domain"
	"github.com/rs/zerolog"
)

// Service ingests snapshot files and serves stored snapshots
type Service struct {
	repo     *Repository
	importer *Importer
	log      zerolog.Logger
}

// NewService creates a snapshot service
func NewService(repo *Repository, importer *Importer, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		importer: importer,
		log:      log.With().Str("service", "snapshots").Logger(),
	}
}

// Fetch returns the stored snapshot for date
func (s *Service) Fetch(ctx context.Context, date time.Time) (domain.RecordSet, error) {
	return s.repo.Fetch(ctx, date)
}

// Import parses a snapshot file and replaces the stored snapshot for date
func (s *Service) Import(ctx context.Context, date time.Time, filename string, content []byte) (ImportSummary, error) {
	records, err := s.importer.Parse(content, filename, date)
	if err != nil {
		s.log.Warn().Err(err).Str("file", filename).Str("date", domain.DateKey(date)).Msg("Rejected snapshot file")
		return ImportSummary{}, err
	}
	return s.repo.Replace(ctx, date, records, filename)
}

// IsImported reports whether date has a stored snapshot
func (s *Service) IsImported(ctx context.Context, date time.Time) (bool, error) {
	return s.repo.HasImport(ctx, date)
}

// List returns the most recent imports
func (s *Service) List(ctx context.Context, limit int) ([]ImportSummary, error) {
	return s.repo.ListImports(ctx, limit)
}
