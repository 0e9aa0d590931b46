package calendar

import (
	"time"

	"github.com/aristath/limitup/internal/domain"
	"github.com/rs/zerolog"
)

// Service exposes the exchange calendar and its walker to handlers and the review flow
type Service struct {
	cal    *ExchangeCalendar
	walker *Walker
	log    zerolog.Logger
}

// NewService creates a calendar service
func NewService(cal *ExchangeCalendar, maxLookback int, log zerolog.Logger) *Service {
	return &Service{
		cal:    cal,
		walker: NewWalker(cal, maxLookback, log),
		log:    log.With().Str("service", "calendar").Logger(),
	}
}

// Location returns the exchange time zone
func (s *Service) Location() *time.Location {
	return s.cal.Location()
}

// Today returns the current exchange-local date
func (s *Service) Today() time.Time {
	return domain.Day(time.Now().In(s.cal.Location()))
}

// PreviousTradingDay returns the trading session before date
func (s *Service) PreviousTradingDay(date time.Time) (time.Time, error) {
	return s.walker.PreviousTradingDay(date.In(s.cal.Location()))
}

// TradingDate returns the oracle verdicts for date
func (s *Service) TradingDate(date time.Time) (domain.TradingDate, error) {
	return s.walker.Inspect(date.In(s.cal.Location()))
}

// Holidays returns the closures of a year
func (s *Service) Holidays(year int) ([]time.Time, error) {
	return s.cal.Holidays(year)
}

// Years returns the years the closure table covers
func (s *Service) Years() []int {
	return s.cal.Years()
}

// LoadOverrides merges an operator-supplied closure table from path
func (s *Service) LoadOverrides(path string) error {
	f, err := LoadHolidayFile(path)
	if err != nil {
		return err
	}
	if err := s.cal.Merge(f); err != nil {
		return err
	}
	s.log.Info().Str("path", path).Int("years", len(f.Years)).Msg("Loaded holiday overrides")
	return nil
}
