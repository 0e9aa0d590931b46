package review

import (
	"github.com/aristath/limitup/internal/domain"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var hundred = decimal.NewFromInt(100)

// Metrics are the headline numbers of a daily review
type Metrics struct {
	Total         int             `json:"total" msgpack:"total"`
	PreviousTotal int             `json:"previous_total" msgpack:"previous_total"`
	Delta         int             `json:"delta" msgpack:"delta"`
	Consecutive   int             `json:"consecutive" msgpack:"consecutive"`
	StreakRatio   decimal.Decimal `json:"streak_ratio" msgpack:"streak_ratio"` // percent, 2dp
	MaxStreak     float64         `json:"max_streak" msgpack:"max_streak"`
	MeanStreak    float64         `json:"mean_streak" msgpack:"mean_streak"`
}

// ComputeMetrics derives the review metrics from the snapshots of a date and its previous session
func ComputeMetrics(today, previous []domain.Record) Metrics {
	m := Metrics{
		Total:         len(today),
		PreviousTotal: len(previous),
		Delta:         len(today) - len(previous),
		StreakRatio:   decimal.Zero,
	}
	if m.Total == 0 {
		return m
	}

	streaks := make([]float64, len(today))
	for i, r := range today {
		streaks[i] = r.StreakDays
		if r.IsConsecutive() {
			m.Consecutive++
		}
	}

	m.StreakRatio = StreakRatio(m.Consecutive, m.Total)
	m.MaxStreak = floats.Max(streaks)
	m.MeanStreak = decimal.NewFromFloat(stat.Mean(streaks, nil)).Round(2).InexactFloat64()
	return m
}

// StreakRatio returns consecutive/total as a percentage rounded to 2 decimals, 0 when total is 0
func StreakRatio(consecutive, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(consecutive)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}
