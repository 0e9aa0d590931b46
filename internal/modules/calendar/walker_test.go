package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/aristath/limitup/internal/domain"
	testingpkg "github.com/aristath/limitup/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCalendar is a scripted oracle: weekends are non-workdays, listed dates are holidays
type fakeCalendar struct {
	holidays   map[string]bool
	failOn     string
	workdayErr error
	calls      []string
}

func (f *fakeCalendar) IsWorkday(date time.Time) (bool, error) {
	f.calls = append(f.calls, domain.DateKey(date))
	if f.workdayErr != nil {
		return false, f.workdayErr
	}
	wd := date.Weekday()
	return wd != time.Saturday && wd != time.Sunday, nil
}

func (f *fakeCalendar) IsHoliday(date time.Time) (bool, error) {
	key := domain.DateKey(date)
	if key == f.failOn {
		return false, errors.New("oracle unavailable")
	}
	return f.holidays[key], nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPreviousTradingDay_SkipsHolidayMondayAndWeekend(t *testing.T) {
	// 2024-06-10 is a Monday
	cal := &fakeCalendar{holidays: map[string]bool{"2024-06-10": true}}
	w := NewWalker(cal, 30, zerolog.Nop())

	got, err := w.PreviousTradingDay(day(2024, 6, 11))

	require.NoError(t, err)
	assert.Equal(t, day(2024, 6, 7), got)
	assert.Equal(t, []string{"2024-06-10", "2024-06-09", "2024-06-08", "2024-06-07"}, cal.calls)
}

func TestPreviousTradingDay_StrictlyBefore(t *testing.T) {
	w := NewWalker(&fakeCalendar{}, 30, zerolog.Nop())

	got, err := w.PreviousTradingDay(day(2024, 6, 12))

	require.NoError(t, err)
	assert.Equal(t, day(2024, 6, 11), got)
}

func TestPreviousTradingDay_IgnoresTimeOfDay(t *testing.T) {
	w := NewWalker(&fakeCalendar{}, 30, zerolog.Nop())

	got, err := w.PreviousTradingDay(time.Date(2024, 6, 12, 23, 59, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, day(2024, 6, 11), got)
}

func TestPreviousTradingDay_ResultIsTradingDay(t *testing.T) {
	cal := &fakeCalendar{holidays: map[string]bool{
		"2024-10-01": true, "2024-10-02": true, "2024-10-03": true, "2024-10-04": true, "2024-10-07": true,
	}}
	w := NewWalker(cal, 30, zerolog.Nop())

	for d := day(2024, 9, 20); d.Before(day(2024, 10, 20)); d = d.AddDate(0, 0, 1) {
		prev, err := w.PreviousTradingDay(d)
		require.NoError(t, err)
		assert.True(t, prev.Before(d))

		ok, err := w.IsTradingDay(prev)
		require.NoError(t, err)
		assert.True(t, ok, "previous of %s is %s", domain.DateKey(d), domain.DateKey(prev))

		for between := prev.AddDate(0, 0, 1); between.Before(d); between = between.AddDate(0, 0, 1) {
			ok, err := w.IsTradingDay(between)
			require.NoError(t, err)
			assert.False(t, ok, "skipped trading day %s", domain.DateKey(between))
		}
	}
}

func TestPreviousTradingDay_OracleFailurePropagates(t *testing.T) {
	cal := &fakeCalendar{failOn: "2024-06-10"}
	w := NewWalker(cal, 30, zerolog.Nop())

	_, err := w.PreviousTradingDay(day(2024, 6, 11))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCalendarLookup))
	assert.Contains(t, err.Error(), "oracle unavailable")
}

func TestPreviousTradingDay_WorkdayFailurePropagates(t *testing.T) {
	sentinel := errors.New("boom")
	w := NewWalker(&fakeCalendar{workdayErr: sentinel}, 30, zerolog.Nop())

	_, err := w.PreviousTradingDay(day(2024, 6, 11))

	assert.True(t, errors.Is(err, domain.ErrCalendarLookup))
	assert.True(t, errors.Is(err, sentinel))
}

func TestPreviousTradingDay_LookbackExhausted(t *testing.T) {
	holidays := make(map[string]bool)
	for d := day(2024, 1, 1); d.Before(day(2024, 3, 1)); d = d.AddDate(0, 0, 1) {
		holidays[domain.DateKey(d)] = true
	}
	w := NewWalker(&fakeCalendar{holidays: holidays}, 10, zerolog.Nop())

	_, err := w.PreviousTradingDay(day(2024, 2, 1))

	assert.True(t, errors.Is(err, domain.ErrNoTradingDay))
	assert.True(t, errors.Is(err, domain.ErrCalendarLookup))
}

func TestNewWalker_DefaultLookback(t *testing.T) {
	w := NewWalker(&fakeCalendar{}, 0, zerolog.Nop())
	assert.Equal(t, DefaultMaxLookback, w.maxLookback)
}

func TestInspect_SkipsHolidayCheckOnWeekend(t *testing.T) {
	cal := &fakeCalendar{failOn: "2024-06-08"}
	w := NewWalker(cal, 30, zerolog.Nop())

	td, err := w.Inspect(day(2024, 6, 8))

	require.NoError(t, err)
	assert.False(t, td.IsWorkday)
	assert.False(t, td.IsTradingDay())
}

func TestPreviousTradingDay_ScriptedCalendar(t *testing.T) {
	cal := &testingpkg.MockCalendar{
		Holidays: map[string]bool{"2024-05-01": true, "2024-05-02": true, "2024-05-03": true},
		FailOn:   map[string]error{"2024-04-23": errors.New("oracle unavailable")},
	}
	w := NewWalker(cal, 30, zerolog.Nop())

	tests := []struct {
		name    string
		date    time.Time
		want    time.Time
		wantErr bool
	}{
		{name: "labour day closure", date: day(2024, 5, 6), want: day(2024, 4, 30)},
		{name: "plain weekday", date: day(2024, 4, 25), want: day(2024, 4, 24)},
		{name: "oracle failure", date: day(2024, 4, 24), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := w.PreviousTradingDay(tt.date)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrCalendarLookup))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
