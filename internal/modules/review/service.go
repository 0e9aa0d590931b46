// Package review assembles the daily limit-up review from stored snapshots.
package review

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/limitup/internal/domain"
	"github.com/aristath/limitup/internal/modules/reasons"
	"github.com/aristath/limitup/internal/modules/streaks"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// TradingCalendar finds the session a review compares against
type TradingCalendar interface {
	PreviousTradingDay(date time.Time) (time.Time, error)
}

// Review is the full daily review of one trade date
type Review struct {
	TradeDate    string                 `json:"trade_date" msgpack:"trade_date"`
	PreviousDate string                 `json:"previous_date" msgpack:"previous_date"`
	Metrics      Metrics                `json:"metrics" msgpack:"metrics"`
	Groups       []domain.StreakGroup   `json:"groups" msgpack:"groups"`
	Reasons      []domain.CategoryCount `json:"reasons" msgpack:"reasons"`
	ComputedAt   time.Time              `json:"computed_at" msgpack:"computed_at"`
}

// Service computes daily reviews
type Service struct {
	source     domain.SnapshotSource
	calendar   TradingCalendar
	aggregator *reasons.Aggregator
	grouper    *streaks.Grouper
	archive    *ArchiveRepository
	log        zerolog.Logger
}

// NewService creates a review service. archive may be nil.
func NewService(
	source domain.SnapshotSource,
	calendar TradingCalendar,
	aggregator *reasons.Aggregator,
	grouper *streaks.Grouper,
	archive *ArchiveRepository,
	log zerolog.Logger,
) *Service {
	return &Service{
		source:     source,
		calendar:   calendar,
		aggregator: aggregator,
		grouper:    grouper,
		archive:    archive,
		log:        log.With().Str("service", "review").Logger(),
	}
}

// Review computes the review of date. The previous trading day and both
// snapshots must be available; any collaborator failure is returned.
func (s *Service) Review(ctx context.Context, date time.Time) (*Review, error) {
	prevDate, err := s.calendar.PreviousTradingDay(date)
	if err != nil {
		return nil, fmt.Errorf("failed to find previous trading day of %s: %w", domain.DateKey(date), err)
	}

	var today, previous domain.RecordSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		set, err := s.source.Fetch(gctx, date)
		if err != nil {
			return fmt.Errorf("failed to fetch snapshot %s: %w", domain.DateKey(date), err)
		}
		today = set
		return nil
	})
	g.Go(func() error {
		set, err := s.source.Fetch(gctx, prevDate)
		if err != nil {
			return fmt.Errorf("failed to fetch previous snapshot %s: %w", domain.DateKey(prevDate), err)
		}
		previous = set
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rv := &Review{
		TradeDate:    domain.DateKey(date),
		PreviousDate: domain.DateKey(prevDate),
		Metrics:      ComputeMetrics(today.Records, previous.Records),
		Groups:       s.grouper.Group(today.Records),
		Reasons:      s.aggregator.Aggregate(today.Records, date),
		ComputedAt:   time.Now().Truncate(time.Second),
	}

	s.log.Info().
		Str("date", rv.TradeDate).
		Str("previous", rv.PreviousDate).
		Int("total", rv.Metrics.Total).
		Int("delta", rv.Metrics.Delta).
		Str("streak_ratio", rv.Metrics.StreakRatio.String()).
		Msg("Review computed")

	if s.archive != nil {
		if err := s.archive.Save(ctx, rv); err != nil {
			s.log.Warn().Err(err).Str("date", rv.TradeDate).Msg("Failed to archive review")
		}
	}
	return rv, nil
}

// Groups returns the streak groups of date
func (s *Service) Groups(ctx context.Context, date time.Time) ([]domain.StreakGroup, error) {
	set, err := s.source.Fetch(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot %s: %w", domain.DateKey(date), err)
	}
	return s.grouper.Group(set.Records), nil
}

// Reasons returns the significant reason categories of date
func (s *Service) Reasons(ctx context.Context, date time.Time) ([]domain.CategoryCount, error) {
	set, err := s.source.Fetch(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot %s: %w", domain.DateKey(date), err)
	}
	return s.aggregator.Aggregate(set.Records, date), nil
}

// History returns archived review metrics, newest first
func (s *Service) History(ctx context.Context, limit int) ([]ArchivedMetrics, error) {
	if s.archive == nil {
		return []ArchivedMetrics{}, nil
	}
	return s.archive.History(ctx, limit)
}

// Archived returns a stored review without recomputing it
func (s *Service) Archived(ctx context.Context, date time.Time) (*Review, error) {
	if s.archive == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotArchived, domain.DateKey(date))
	}
	return s.archive.Get(ctx, date)
}
