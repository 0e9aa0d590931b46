// Package calendar provides the exchange trading calendar and the previous-session walk.
package calendar

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aristath/limitup/internal/domain"
)

// ExchangeCalendar answers workday and holiday questions for the Shanghai/Shenzhen exchanges.
// Holiday lookups fail for years the closure table does not cover.
type ExchangeCalendar struct {
	loc      *time.Location
	mu       sync.RWMutex
	holidays map[int]map[string]struct{} // year -> closed dates (YYYY-MM-DD)
}

// NewExchangeCalendar creates a calendar preloaded with the builtin closure table
func NewExchangeCalendar(loc *time.Location) (*ExchangeCalendar, error) {
	if loc == nil {
		loc = time.UTC
	}
	c := &ExchangeCalendar{
		loc:      loc,
		holidays: make(map[int]map[string]struct{}),
	}

	builtin, err := BuiltinHolidays()
	if err != nil {
		return nil, err
	}
	if err := c.Merge(builtin); err != nil {
		return nil, err
	}
	return c, nil
}

// Location returns the exchange time zone
func (c *ExchangeCalendar) Location() *time.Location {
	return c.loc
}

// Merge adds a closure table. Years in f replace the same years already loaded.
func (c *ExchangeCalendar) Merge(f HolidayFile) error {
	parsed := make(map[int]map[string]struct{}, len(f.Years))
	for year, dates := range f.Years {
		set := make(map[string]struct{}, len(dates))
		for _, s := range dates {
			d, err := domain.ParseDate(s, c.loc)
			if err != nil {
				return fmt.Errorf("holiday table year %d: %w", year, err)
			}
			if d.Year() != year {
				return fmt.Errorf("holiday table year %d: date %s belongs to %d", year, s, d.Year())
			}
			set[domain.DateKey(d)] = struct{}{}
		}
		parsed[year] = set
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for year, set := range parsed {
		c.holidays[year] = set
	}
	return nil
}

// IsWorkday reports whether date falls Monday through Friday
func (c *ExchangeCalendar) IsWorkday(date time.Time) (bool, error) {
	wd := date.In(c.loc).Weekday()
	return wd != time.Saturday && wd != time.Sunday, nil
}

// IsHoliday reports whether the exchange is closed on a weekday date
func (c *ExchangeCalendar) IsHoliday(date time.Time) (bool, error) {
	local := date.In(c.loc)

	c.mu.RLock()
	set, ok := c.holidays[local.Year()]
	c.mu.RUnlock()
	if !ok {
		return false, fmt.Errorf("%w: no holiday data for %d", domain.ErrCalendarLookup, local.Year())
	}

	_, closed := set[domain.DateKey(local)]
	return closed, nil
}

// Holidays returns the closures of a year in ascending order
func (c *ExchangeCalendar) Holidays(year int) ([]time.Time, error) {
	c.mu.RLock()
	set, ok := c.holidays[year]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no holiday data for %d", domain.ErrCalendarLookup, year)
	}

	out := make([]time.Time, 0, len(set))
	for key := range set {
		d, err := domain.ParseDate(key, c.loc)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

// Years returns the covered years in ascending order
func (c *ExchangeCalendar) Years() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	years := make([]int, 0, len(c.holidays))
	for y := range c.holidays {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
