// Package snapshots stores and serves daily limit-up snapshots.
package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/limitup/internal/database"
	"github.com/aristath/limitup/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ImportSummary describes one ingested trade date
type ImportSummary struct {
	TradeDate  string    `json:"trade_date"`
	BatchID    string    `json:"batch_id"`
	Source     string    `json:"source"`
	RowCount   int       `json:"row_count"`
	ImportedAt time.Time `json:"imported_at"`
}

// Repository persists snapshots in the snapshots database
type Repository struct {
	db  *sql.DB
	loc *time.Location
	log zerolog.Logger
}

// NewRepository creates a snapshot repository. Dates are interpreted in loc.
func NewRepository(db *sql.DB, loc *time.Location, log zerolog.Logger) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{
		db:  db,
		loc: loc,
		log: log.With().Str("repo", "snapshots").Logger(),
	}
}

// Fetch returns the snapshot for date in input order.
// A never-ingested date yields ErrSnapshotNotFound; an ingested date with no rows yields an empty set.
func (r *Repository) Fetch(ctx context.Context, date time.Time) (domain.RecordSet, error) {
	key := domain.DateKey(date.In(r.loc))
	set := domain.RecordSet{TradeDate: domain.Day(date.In(r.loc)), Records: []domain.Record{}}

	ok, err := r.HasImport(ctx, date)
	if err != nil {
		return domain.RecordSet{}, err
	}
	if !ok {
		return domain.RecordSet{}, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, key)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT code, name, price, final_limit_up, open_count, streak_days, limit_up_type, reason_tags
		FROM limit_up_records
		WHERE trade_date = ?
		ORDER BY position
	`, key)
	if err != nil {
		return domain.RecordSet{}, fmt.Errorf("failed to query snapshot %s: %w", key, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec domain.Record
		var price string
		var reasons sql.NullString
		if err := rows.Scan(&rec.Code, &rec.Name, &price, &rec.FinalLimitUp, &rec.OpenCount,
			&rec.StreakDays, &rec.LimitUpType, &reasons); err != nil {
			return domain.RecordSet{}, fmt.Errorf("failed to scan record: %w", err)
		}
		if p, err := decimal.NewFromString(price); err == nil {
			rec.Price = p
		}
		if reasons.Valid {
			tags := reasons.String
			rec.ReasonTags = &tags
		}
		set.Records = append(set.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return domain.RecordSet{}, fmt.Errorf("failed to iterate snapshot %s: %w", key, err)
	}
	return set, nil
}

// HasImport reports whether date was ever ingested
func (r *Repository) HasImport(ctx context.Context, date time.Time) (bool, error) {
	key := domain.DateKey(date.In(r.loc))
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM snapshot_imports WHERE trade_date = ?`, key).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up import %s: %w", key, err)
	}
	return true, nil
}

// Replace atomically swaps the snapshot of date for records
func (r *Repository) Replace(ctx context.Context, date time.Time, records []domain.Record, source string) (ImportSummary, error) {
	summary := ImportSummary{
		TradeDate:  domain.DateKey(date.In(r.loc)),
		BatchID:    uuid.NewString(),
		Source:     source,
		RowCount:   len(records),
		ImportedAt: time.Now().Truncate(time.Second),
	}

	err := database.WithTransactionContext(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM limit_up_records WHERE trade_date = ?`, summary.TradeDate); err != nil {
			return fmt.Errorf("failed to clear records: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshot_imports (trade_date, batch_id, source, row_count, imported_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(trade_date) DO UPDATE SET
				batch_id = excluded.batch_id,
				source = excluded.source,
				row_count = excluded.row_count,
				imported_at = excluded.imported_at
		`, summary.TradeDate, summary.BatchID, summary.Source, summary.RowCount, summary.ImportedAt.Unix()); err != nil {
			return fmt.Errorf("failed to record import: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO limit_up_records
				(trade_date, position, code, name, price, final_limit_up, open_count, streak_days, limit_up_type, reason_tags)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, rec := range records {
			var reasons interface{}
			if rec.ReasonTags != nil {
				reasons = *rec.ReasonTags
			}
			if _, err := stmt.ExecContext(ctx, summary.TradeDate, i, rec.Code, rec.Name, rec.Price.String(),
				rec.FinalLimitUp, rec.OpenCount, rec.StreakDays, rec.LimitUpType, reasons); err != nil {
				return fmt.Errorf("failed to insert %s: %w", rec.Code, err)
			}
		}
		return nil
	})
	if err != nil {
		return ImportSummary{}, fmt.Errorf("failed to replace snapshot %s: %w", summary.TradeDate, err)
	}

	r.log.Info().
		Str("date", summary.TradeDate).
		Str("batch_id", summary.BatchID).
		Str("source", source).
		Int("rows", summary.RowCount).
		Msg("Snapshot replaced")

	return summary, nil
}

// ListImports returns ingested dates, newest first
func (r *Repository) ListImports(ctx context.Context, limit int) ([]ImportSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT trade_date, batch_id, source, row_count, imported_at
		FROM snapshot_imports
		ORDER BY trade_date DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	defer rows.Close()

	out := []ImportSummary{}
	for rows.Next() {
		var s ImportSummary
		var importedAt int64
		if err := rows.Scan(&s.TradeDate, &s.BatchID, &s.Source, &s.RowCount, &importedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		s.ImportedAt = time.Unix(importedAt, 0)
		out = append(out, s)
	}
	return out, rows.Err()
}
