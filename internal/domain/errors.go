package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSnapshotNotFound is returned when no snapshot was ever ingested for a date.
	ErrSnapshotNotFound = errors.New("limit-up snapshot not found")

	// ErrCalendarLookup is returned when the trading calendar cannot answer for a date.
	ErrCalendarLookup = errors.New("trading calendar lookup failed")

	// ErrNoTradingDay is returned when the backward walk exhausts its lookback window.
	ErrNoTradingDay = fmt.Errorf("%w: no trading day within lookback window", ErrCalendarLookup)

	// ErrInvalidDate is returned for malformed date input.
	ErrInvalidDate = errors.New("invalid date")
)
