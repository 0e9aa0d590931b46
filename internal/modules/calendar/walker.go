package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/aristath/limitup/internal/domain"
	"github.com/rs/zerolog"
)

// DefaultMaxLookback bounds the backward walk in calendar days
const DefaultMaxLookback = 30

// Walker finds trading sessions by stepping through a calendar oracle
type Walker struct {
	cal         domain.Calendar
	maxLookback int
	log         zerolog.Logger
}

// NewWalker creates a walker over cal. A non-positive maxLookback uses DefaultMaxLookback.
func NewWalker(cal domain.Calendar, maxLookback int, log zerolog.Logger) *Walker {
	if maxLookback < 1 {
		maxLookback = DefaultMaxLookback
	}
	return &Walker{
		cal:         cal,
		maxLookback: maxLookback,
		log:         log.With().Str("component", "calendar_walker").Logger(),
	}
}

// PreviousTradingDay returns the closest trading day strictly before date.
// Oracle failures and an exhausted lookback window are returned as errors
// wrapping domain.ErrCalendarLookup.
func (w *Walker) PreviousTradingDay(date time.Time) (time.Time, error) {
	candidate := domain.Day(date)
	for i := 0; i < w.maxLookback; i++ {
		candidate = candidate.AddDate(0, 0, -1)

		td, err := w.Inspect(candidate)
		if err != nil {
			return time.Time{}, err
		}
		if td.IsTradingDay() {
			w.log.Debug().
				Str("date", domain.DateKey(date)).
				Str("previous", domain.DateKey(candidate)).
				Int("steps", i+1).
				Msg("Found previous trading day")
			return candidate, nil
		}
	}

	w.log.Warn().
		Str("date", domain.DateKey(date)).
		Int("max_lookback", w.maxLookback).
		Msg("No trading day within lookback window")
	return time.Time{}, fmt.Errorf("%w: %s", domain.ErrNoTradingDay, domain.DateKey(date))
}

// Inspect queries the oracle for one date. The holiday predicate is only
// consulted for workdays.
func (w *Walker) Inspect(date time.Time) (domain.TradingDate, error) {
	day := domain.Day(date)
	td := domain.TradingDate{Date: day}

	workday, err := w.cal.IsWorkday(day)
	if err != nil {
		return td, lookupError("workday", day, err)
	}
	td.IsWorkday = workday
	if !workday {
		return td, nil
	}

	holiday, err := w.cal.IsHoliday(day)
	if err != nil {
		return td, lookupError("holiday", day, err)
	}
	td.IsHoliday = holiday
	return td, nil
}

// IsTradingDay reports whether the market is open on date
func (w *Walker) IsTradingDay(date time.Time) (bool, error) {
	td, err := w.Inspect(date)
	if err != nil {
		return false, err
	}
	return td.IsTradingDay(), nil
}

func lookupError(check string, date time.Time, err error) error {
	if errors.Is(err, domain.ErrCalendarLookup) {
		return fmt.Errorf("%s check %s: %w", check, domain.DateKey(date), err)
	}
	return fmt.Errorf("%w: %s check %s: %w", domain.ErrCalendarLookup, check, domain.DateKey(date), err)
}
