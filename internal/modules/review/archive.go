package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/limitup/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrNotArchived is returned when no review was stored for a date
var ErrNotArchived = errors.New("review not archived")

// ArchivedMetrics is one row of the review history
type ArchivedMetrics struct {
	TradeDate     string          `json:"trade_date"`
	PreviousDate  string          `json:"previous_date"`
	Total         int             `json:"total"`
	PreviousTotal int             `json:"previous_total"`
	StreakRatio   decimal.Decimal `json:"streak_ratio"`
	ComputedAt    time.Time       `json:"computed_at"`
}

// ArchiveRepository stores computed reviews in the archive database
type ArchiveRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewArchiveRepository creates an archive repository
func NewArchiveRepository(db *sql.DB, log zerolog.Logger) *ArchiveRepository {
	return &ArchiveRepository{
		db:  db,
		log: log.With().Str("repo", "review_archive").Logger(),
	}
}

// Save upserts a review
func (r *ArchiveRepository) Save(ctx context.Context, rv *Review) error {
	payload, err := msgpack.Marshal(rv)
	if err != nil {
		return fmt.Errorf("failed to encode review: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO reviews (trade_date, previous_date, total, previous_total, streak_ratio, payload, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(trade_date) DO UPDATE SET
			previous_date = excluded.previous_date,
			total = excluded.total,
			previous_total = excluded.previous_total,
			streak_ratio = excluded.streak_ratio,
			payload = excluded.payload,
			computed_at = excluded.computed_at
	`, rv.TradeDate, rv.PreviousDate, rv.Metrics.Total, rv.Metrics.PreviousTotal,
		rv.Metrics.StreakRatio.StringFixed(2), payload, rv.ComputedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to store review %s: %w", rv.TradeDate, err)
	}

	r.log.Debug().Str("date", rv.TradeDate).Int("bytes", len(payload)).Msg("Review archived")
	return nil
}

// Get loads the stored review of date
func (r *ArchiveRepository) Get(ctx context.Context, date time.Time) (*Review, error) {
	key := domain.DateKey(date)
	var payload []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM reviews WHERE trade_date = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotArchived, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load review %s: %w", key, err)
	}

	var rv Review
	if err := msgpack.Unmarshal(payload, &rv); err != nil {
		return nil, fmt.Errorf("failed to decode review %s: %w", key, err)
	}
	return &rv, nil
}

// History lists archived metrics, newest trade date first
func (r *ArchiveRepository) History(ctx context.Context, limit int) ([]ArchivedMetrics, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT trade_date, previous_date, total, previous_total, streak_ratio, computed_at
		FROM reviews
		ORDER BY trade_date DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	out := []ArchivedMetrics{}
	for rows.Next() {
		var m ArchivedMetrics
		var ratio string
		var computedAt int64
		if err := rows.Scan(&m.TradeDate, &m.PreviousDate, &m.Total, &m.PreviousTotal, &ratio, &computedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		m.StreakRatio, err = decimal.NewFromString(ratio)
		if err != nil {
			return nil, fmt.Errorf("invalid streak ratio %q for %s: %w", ratio, m.TradeDate, err)
		}
		m.ComputedAt = time.Unix(computedAt, 0)
		out = append(out, m)
	}
	return out, rows.Err()
}
