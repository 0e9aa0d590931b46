package testing

import (
	"strconv"

	"github.com/aristath/limitup/internal/domain"
)

// Tagged returns a record carrying the given reason tags
func Tagged(code string, streak float64, tags string) domain.Record {
	return domain.Record{Code: code, StreakDays: streak, ReasonTags: &tags}
}

// Untagged returns a record without a reason field
func Untagged(code string, streak float64) domain.Record {
	return domain.Record{Code: code, StreakDays: streak}
}

// WithStreaks returns one untagged record per streak value, coded by position
func WithStreaks(streaks ...float64) []domain.Record {
	records := make([]domain.Record, len(streaks))
	for i, s := range streaks {
		records[i] = Untagged(strconv.Itoa(i+1), s)
	}
	return records
}

// Repeat returns value n times
func Repeat(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}
