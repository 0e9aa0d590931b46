package reasons

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/aristath/limitup/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

var tradeDate = time.Date(2024, 10, 8, 0, 0, 0, 0, time.UTC)

func withReasons(tags ...string) []domain.Record {
	records := make([]domain.Record, len(tags))
	for i := range tags {
		records[i] = domain.Record{Code: string(rune('A' + i)), ReasonTags: &tags[i]}
	}
	return records
}

func TestAggregate_MixedTags(t *testing.T) {
	agg := NewAggregator(5, zerolog.Nop())

	got := agg.Aggregate(withReasons("AI+Chip", "Chip", "AI", "Auto"), tradeDate)

	assert.Equal(t, []domain.CategoryCount{
		{Category: "AI", Count: 2},
		{Category: "Chip", Count: 2},
		{Category: "Auto", Count: 1},
	}, got)
}

func TestAggregate_ThresholdDropsTail(t *testing.T) {
	agg := NewAggregator(2, zerolog.Nop())

	got := agg.Aggregate(withReasons("A+B+C", "A+B", "A", "D"), tradeDate)

	// counts A:3 B:2 C:1 D:1, second largest is 2
	assert.Equal(t, []domain.CategoryCount{
		{Category: "A", Count: 3},
		{Category: "B", Count: 2},
	}, got)
}

func TestAggregate_TiedThresholdKeepsAllTies(t *testing.T) {
	agg := NewAggregator(1, zerolog.Nop())

	got := agg.Aggregate(withReasons("X+Y", "Y+X"), tradeDate)

	assert.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, 2, c.Count)
	}
}

func TestAggregate_MissingFieldIsUnknown(t *testing.T) {
	agg := NewAggregator(5, zerolog.Nop())
	records := []domain.Record{{Code: "600000"}, {Code: "600001"}}

	got := agg.Aggregate(records, tradeDate)

	assert.Equal(t, []domain.CategoryCount{{Category: domain.UnknownReason, Count: 2}}, got)
}

func TestAggregate_EmptyTokensDiscarded(t *testing.T) {
	agg := NewAggregator(5, zerolog.Nop())

	got := agg.Aggregate(withReasons("AI+", "+AI", "", " + "), tradeDate)

	assert.Equal(t, []domain.CategoryCount{{Category: "AI", Count: 2}}, got)
}

func TestAggregate_DegenerateInput(t *testing.T) {
	agg := NewAggregator(5, zerolog.Nop())

	assert.Empty(t, agg.Aggregate(nil, tradeDate))
	assert.NotNil(t, agg.Aggregate(nil, tradeDate))
	assert.Empty(t, agg.Aggregate(withReasons("", "+"), tradeDate))
}

func TestAggregate_CountEqualsPairs(t *testing.T) {
	records := withReasons("A+B", "B+C", "C+A", "A")
	total := 0
	for _, c := range Count(records) {
		total += c.Count
		assert.GreaterOrEqual(t, c.Count, 1)
	}
	assert.Equal(t, 7, total)
}

func TestAggregate_Reproducible(t *testing.T) {
	agg := NewAggregator(3, zerolog.Nop())
	records := withReasons("芯片+人工智能", "汽车", "芯片", "人工智能", "医药")

	first := agg.Aggregate(records, tradeDate)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, agg.Aggregate(records, tradeDate))
	}
}

func TestAggregate_ReorderInvariant(t *testing.T) {
	agg := NewAggregator(3, zerolog.Nop())
	records := withReasons("芯片+人工智能", "汽车", "芯片", "人工智能", "医药",
		"AI+芯片", "汽车+医药", "Robotics", "白酒", "AI")
	records = append(records, domain.Record{Code: "Z"})
	want := agg.Aggregate(records, tradeDate)
	assert.NotEmpty(t, want)

	r := rand.New(rand.NewPCG(11, 29))
	for i := 0; i < 50; i++ {
		shuffled := append([]domain.Record(nil), records...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, agg.Aggregate(shuffled, tradeDate))
	}
}

func TestNewAggregator_DefaultTopK(t *testing.T) {
	assert.Equal(t, DefaultTopK, NewAggregator(0, zerolog.Nop()).TopK())
	assert.Equal(t, 3, NewAggregator(3, zerolog.Nop()).TopK())
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		field string
		want  []string
	}{
		{"AI+Chip", []string{"AI", "Chip"}},
		{" AI + Chip ", []string{"AI", "Chip"}},
		{"AI++Chip", []string{"AI", "Chip"}},
		{"AI+AI", []string{"AI", "AI"}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTags(tt.field))
		})
	}
}
