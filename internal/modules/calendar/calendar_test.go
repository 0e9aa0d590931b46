package calendar

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aristath/limitup/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shanghai(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)
	return loc
}

func TestBuiltinHolidays(t *testing.T) {
	f, err := BuiltinHolidays()
	require.NoError(t, err)

	assert.Equal(t, "XSHG", f.Exchange)
	assert.Contains(t, f.Years, 2024)
	assert.Contains(t, f.Years[2024], "2024-10-01")
}

func TestExchangeCalendar_NationalDay2024(t *testing.T) {
	loc := shanghai(t)
	cal, err := NewExchangeCalendar(loc)
	require.NoError(t, err)

	for d := 1; d <= 7; d++ {
		date := time.Date(2024, 10, d, 0, 0, 0, 0, loc)
		workday, err := cal.IsWorkday(date)
		require.NoError(t, err)
		holiday, err := cal.IsHoliday(date)
		require.NoError(t, err)
		assert.False(t, workday && !holiday, "2024-10-%02d should be closed", d)
	}

	open := time.Date(2024, 10, 8, 0, 0, 0, 0, loc)
	holiday, err := cal.IsHoliday(open)
	require.NoError(t, err)
	assert.False(t, holiday)
}

func TestExchangeCalendar_WeekendIsNotWorkday(t *testing.T) {
	cal, err := NewExchangeCalendar(shanghai(t))
	require.NoError(t, err)

	// make-up workday for the 2024 National Day holiday, exchanges stay closed
	sat := time.Date(2024, 10, 12, 0, 0, 0, 0, cal.Location())
	workday, err := cal.IsWorkday(sat)
	require.NoError(t, err)
	assert.False(t, workday)
}

func TestExchangeCalendar_UncoveredYear(t *testing.T) {
	cal, err := NewExchangeCalendar(shanghai(t))
	require.NoError(t, err)

	_, err = cal.IsHoliday(time.Date(1999, 3, 1, 0, 0, 0, 0, cal.Location()))
	assert.True(t, errors.Is(err, domain.ErrCalendarLookup))

	_, err = cal.Holidays(1999)
	assert.True(t, errors.Is(err, domain.ErrCalendarLookup))
}

func TestExchangeCalendar_Merge(t *testing.T) {
	cal, err := NewExchangeCalendar(shanghai(t))
	require.NoError(t, err)

	err = cal.Merge(HolidayFile{Years: map[int][]string{2030: {"2030-01-01", "20300102"}}})
	require.NoError(t, err)

	holidays, err := cal.Holidays(2030)
	require.NoError(t, err)
	require.Len(t, holidays, 2)
	assert.Equal(t, "2030-01-01", domain.DateKey(holidays[0]))
	assert.Equal(t, "2030-01-02", domain.DateKey(holidays[1]))
	assert.Contains(t, cal.Years(), 2030)

	err = cal.Merge(HolidayFile{Years: map[int][]string{2031: {"2030-05-01"}}})
	assert.Error(t, err)

	err = cal.Merge(HolidayFile{Years: map[int][]string{2031: {"not-a-date"}}})
	assert.True(t, errors.Is(err, domain.ErrInvalidDate))
}

func TestExchangeCalendar_MergeEmptyYearIsCovered(t *testing.T) {
	cal, err := NewExchangeCalendar(shanghai(t))
	require.NoError(t, err)
	require.NoError(t, cal.Merge(HolidayFile{Years: map[int][]string{2040: {}}}))

	holiday, err := cal.IsHoliday(time.Date(2040, 1, 2, 0, 0, 0, 0, cal.Location()))
	require.NoError(t, err)
	assert.False(t, holiday)
}

func TestExchangeCalendar_Holidays(t *testing.T) {
	cal, err := NewExchangeCalendar(shanghai(t))
	require.NoError(t, err)

	holidays, err := cal.Holidays(2025)
	require.NoError(t, err)
	require.NotEmpty(t, holidays)
	for i := 1; i < len(holidays); i++ {
		assert.True(t, holidays[i-1].Before(holidays[i]))
	}
	for _, h := range holidays {
		assert.NotEqual(t, time.Saturday, h.Weekday())
		assert.NotEqual(t, time.Sunday, h.Weekday())
	}
}

func TestService_PreviousTradingDay(t *testing.T) {
	loc := shanghai(t)
	cal, err := NewExchangeCalendar(loc)
	require.NoError(t, err)
	svc := NewService(cal, 30, zerolog.Nop())

	tests := []struct {
		date string
		want string
	}{
		{"2024-10-08", "2024-09-30"},
		{"2025-02-05", "2025-01-27"},
		{"2024-06-11", "2024-06-07"},
		{"2024-06-12", "2024-06-11"},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := domain.ParseDate(tt.date, loc)
			require.NoError(t, err)

			got, err := svc.PreviousTradingDay(d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, domain.DateKey(got))
		})
	}
}

func TestService_PreviousTradingDay_UncoveredYearFails(t *testing.T) {
	loc := shanghai(t)
	cal, err := NewExchangeCalendar(loc)
	require.NoError(t, err)
	svc := NewService(cal, 30, zerolog.Nop())

	_, err = svc.PreviousTradingDay(time.Date(2010, 3, 2, 0, 0, 0, 0, loc))
	assert.True(t, errors.Is(err, domain.ErrCalendarLookup))
}

func TestService_LoadOverrides(t *testing.T) {
	cal, err := NewExchangeCalendar(shanghai(t))
	require.NoError(t, err)
	svc := NewService(cal, 30, zerolog.Nop())

	path := filepath.Join(t.TempDir(), "holidays.yaml")
	require.NoError(t, os.WriteFile(path, []byte("years:\n  2035:\n    - \"2035-10-01\"\n"), 0o644))

	require.NoError(t, svc.LoadOverrides(path))
	assert.Contains(t, svc.Years(), 2035)

	assert.Error(t, svc.LoadOverrides(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestService_TradingDate(t *testing.T) {
	loc := shanghai(t)
	cal, err := NewExchangeCalendar(loc)
	require.NoError(t, err)
	svc := NewService(cal, 30, zerolog.Nop())

	td, err := svc.TradingDate(time.Date(2024, 10, 1, 0, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.True(t, td.IsWorkday)
	assert.True(t, td.IsHoliday)
	assert.False(t, td.IsTradingDay())
}

func TestParseHolidayFile_Invalid(t *testing.T) {
	_, err := ParseHolidayFile([]byte("years: [unterminated"))
	assert.Error(t, err)
}
