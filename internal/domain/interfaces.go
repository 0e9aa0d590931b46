package domain

import (
	"context"
	"time"
)

// Calendar is the trading-calendar oracle.
// Both predicates may fail when the oracle has no data for the requested date.
type Calendar interface {
	IsWorkday(date time.Time) (bool, error)
	IsHoliday(date time.Time) (bool, error)
}

// SnapshotSource fetches the limit-up snapshot for a trade date.
// A date that was ingested with no limit-up stocks yields an empty RecordSet and a nil error;
// a date that cannot be retrieved yields an error wrapping ErrSnapshotNotFound or the
// underlying storage failure.
type SnapshotSource interface {
	Fetch(ctx context.Context, date time.Time) (RecordSet, error)
}
