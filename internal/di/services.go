package di

import (
	"fmt"

	"github.com/aristath/limitup/internal/config"
	"github.com/aristath/limitup/internal/modules/calendar"
	"github.com/aristath/limitup/internal/modules/reasons"
	"github.com/aristath/limitup/internal/modules/review"
	"github.com/aristath/limitup/internal/modules/snapshots"
	"github.com/aristath/limitup/internal/modules/streaks"
	"github.com/rs/zerolog"
)

// InitializeServices creates the business logic layer.
// Order matters: review depends on the calendar, snapshots, reasons and streaks.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil || container.SnapshotRepo == nil {
		return fmt.Errorf("repositories must be initialized before services")
	}

	exchangeCalendar, err := calendar.NewExchangeCalendar(cfg.Location())
	if err != nil {
		return fmt.Errorf("failed to load exchange calendar: %w", err)
	}
	container.ExchangeCalendar = exchangeCalendar
	container.CalendarService = calendar.NewService(exchangeCalendar, cfg.MaxLookbackDays, log)
	if cfg.HolidayFile != "" {
		if err := container.CalendarService.LoadOverrides(cfg.HolidayFile); err != nil {
			return fmt.Errorf("failed to load holiday overrides: %w", err)
		}
	}

	container.SnapshotImporter = snapshots.NewImporter()
	container.SnapshotService = snapshots.NewService(container.SnapshotRepo, container.SnapshotImporter, log)

	container.ReasonAggregator = reasons.NewAggregator(cfg.TopK, log)
	container.StreakGrouper = streaks.NewGrouper(streaks.ParseLocale(cfg.LabelLocale))

	container.ReviewService = review.NewService(
		container.SnapshotService,
		container.CalendarService,
		container.ReasonAggregator,
		container.StreakGrouper,
		container.ArchiveRepo,
		log,
	)

	log.Info().
		Int("top_k", container.ReasonAggregator.TopK()).
		Int("max_lookback_days", cfg.MaxLookbackDays).
		Str("label_locale", cfg.LabelLocale).
		Ints("calendar_years", container.CalendarService.Years()).
		Msg("Services initialized")
	return nil
}
