// Package domain provides core domain models and types.
package domain

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnknownReason is the category assigned to a record whose reason field is absent.
const UnknownReason = "unknown"

// ReasonSeparator joins multiple reason tags in a single field.
const ReasonSeparator = "+"

// Record is one stock's limit-up snapshot for a trade date.
// Only Code, StreakDays and ReasonTags feed the aggregation core; the rest is display data.
type Record struct {
	Code         string          `json:"code" msgpack:"code"`
	Name         string          `json:"name" msgpack:"name"`
	Price        decimal.Decimal `json:"price" msgpack:"price"`
	FinalLimitUp string          `json:"final_limit_up_time,omitempty" msgpack:"final_limit_up_time"`
	OpenCount    int             `json:"open_count" msgpack:"open_count"`
	StreakDays   float64         `json:"streak_days" msgpack:"streak_days"`
	LimitUpType  string          `json:"limit_up_type,omitempty" msgpack:"limit_up_type"`
	ReasonTags   *string         `json:"reason_tags,omitempty" msgpack:"reason_tags"` // nil when the source had no reason field
}

// Reasons returns the raw reason field, substituting UnknownReason when absent.
func (r Record) Reasons() string {
	if r.ReasonTags == nil {
		return UnknownReason
	}
	return *r.ReasonTags
}

// IsConsecutive reports whether the record extends a streak beyond the first board.
func (r Record) IsConsecutive() bool {
	return r.StreakDays > 1
}

// ParseStreakDays coerces a raw streak field to a non-negative number.
// Anything unparsable, negative or non-finite yields 0; it never fails.
func ParseStreakDays(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// RecordSet is the immutable snapshot of limit-up records for one trade date.
type RecordSet struct {
	TradeDate time.Time `json:"trade_date"`
	Records   []Record  `json:"records"`
}

// Len returns the number of records in the set
func (s RecordSet) Len() int {
	return len(s.Records)
}

// CategoryCount is the number of (record, tag) occurrences of one reason category.
type CategoryCount struct {
	Category string `json:"category" msgpack:"category"`
	Count    int    `json:"count" msgpack:"count"`
}

// StreakGroup holds every record sharing the same streak length.
type StreakGroup struct {
	StreakDays     float64  `json:"streak_days" msgpack:"streak_days"`
	Label          string   `json:"label" msgpack:"label"`
	Records        []Record `json:"records" msgpack:"records"`
	SizeAnnotation string   `json:"size_annotation,omitempty" msgpack:"size_annotation"` // empty when absent
}

// Size returns the number of records in the group
func (g StreakGroup) Size() int {
	return len(g.Records)
}

// HasAnnotation reports whether the group carries a size annotation
func (g StreakGroup) HasAnnotation() bool {
	return g.SizeAnnotation != ""
}

// TradingDate is a calendar date with the oracle's workday and holiday verdicts.
type TradingDate struct {
	Date      time.Time `json:"date"`
	IsWorkday bool      `json:"is_workday"`
	IsHoliday bool      `json:"is_holiday"`
}

// IsTradingDay reports whether the market is open on the date
func (d TradingDate) IsTradingDay() bool {
	return d.IsWorkday && !d.IsHoliday
}
