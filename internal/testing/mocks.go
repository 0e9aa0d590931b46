package testing

import (
	"context"
	"sync"
	"time"

	"github.com/aristath/limitup/internal/domain"
)

// MockSnapshotSource is an in-memory SnapshotSource.
// Dates without a stored set return domain.ErrSnapshotNotFound.
type MockSnapshotSource struct {
	mu      sync.Mutex
	sets    map[string][]domain.Record
	errs    map[string]error
	fetched []string
}

// NewMockSnapshotSource creates an empty source
func NewMockSnapshotSource() *MockSnapshotSource {
	return &MockSnapshotSource{
		sets: make(map[string][]domain.Record),
		errs: make(map[string]error),
	}
}

// Set stores the snapshot for date (YYYY-MM-DD). A nil slice stores an empty snapshot.
func (m *MockSnapshotSource) Set(date string, records ...domain.Record) *MockSnapshotSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	if records == nil {
		records = []domain.Record{}
	}
	m.sets[date] = records
	return m
}

// Fail makes every fetch of date (YYYY-MM-DD) return err
func (m *MockSnapshotSource) Fail(date string, err error) *MockSnapshotSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[date] = err
	return m
}

// Fetch implements domain.SnapshotSource
func (m *MockSnapshotSource) Fetch(_ context.Context, date time.Time) (domain.RecordSet, error) {
	key := domain.DateKey(date)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetched = append(m.fetched, key)

	if err := m.errs[key]; err != nil {
		return domain.RecordSet{}, err
	}
	records, ok := m.sets[key]
	if !ok {
		return domain.RecordSet{}, domain.ErrSnapshotNotFound
	}
	return domain.RecordSet{TradeDate: date, Records: records}, nil
}

// Fetched returns the dates requested so far, in call order
func (m *MockSnapshotSource) Fetched() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.fetched...)
}

// MockCalendar is a scripted calendar oracle: Monday to Friday are workdays
// and listed dates are holidays. Dates in failOn make IsHoliday fail.
type MockCalendar struct {
	Holidays map[string]bool
	FailOn   map[string]error
}

// IsWorkday implements domain.Calendar
func (m *MockCalendar) IsWorkday(date time.Time) (bool, error) {
	wd := date.Weekday()
	return wd != time.Saturday && wd != time.Sunday, nil
}

// IsHoliday implements domain.Calendar
func (m *MockCalendar) IsHoliday(date time.Time) (bool, error) {
	key := domain.DateKey(date)
	if err := m.FailOn[key]; err != nil {
		return false, err
	}
	return m.Holidays[key], nil
}

// MockTradingCalendar maps review dates to fixed previous trading days
type MockTradingCalendar struct {
	Previous map[string]time.Time
	Err      error
}

// PreviousTradingDay returns the scripted previous day or Err
func (m *MockTradingCalendar) PreviousTradingDay(date time.Time) (time.Time, error) {
	if m.Err != nil {
		return time.Time{}, m.Err
	}
	return m.Previous[domain.DateKey(date)], nil
}
