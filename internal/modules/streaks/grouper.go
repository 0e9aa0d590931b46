// Package streaks groups limit-up records by consecutive-board streak.
package streaks

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/aristath/limitup/internal/domain"
)

// AnnotationThreshold is the group size from which a size annotation is shown
const AnnotationThreshold = 10

// Locale selects the label language
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleZH Locale = "zh"
)

// ParseLocale maps a config value to a Locale, defaulting to English
func ParseLocale(s string) Locale {
	if Locale(s) == LocaleZH {
		return LocaleZH
	}
	return LocaleEN
}

// Grouper partitions records by exact streak value
type Grouper struct {
	locale Locale
}

// NewGrouper creates a grouper rendering labels in the given locale
func NewGrouper(locale Locale) *Grouper {
	return &Grouper{locale: ParseLocale(string(locale))}
}

// Group returns one group per distinct StreakDays, longest streak first.
// Records keep their input order inside each group.
func (g *Grouper) Group(records []domain.Record) []domain.StreakGroup {
	index := make(map[float64]int)
	groups := make([]domain.StreakGroup, 0)
	for _, r := range records {
		i, ok := index[r.StreakDays]
		if !ok {
			i = len(groups)
			index[r.StreakDays] = i
			groups = append(groups, domain.StreakGroup{StreakDays: r.StreakDays})
		}
		groups[i].Records = append(groups[i].Records, r)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].StreakDays > groups[j].StreakDays
	})

	for i := range groups {
		groups[i].Label = g.Label(groups[i].StreakDays)
		groups[i].SizeAnnotation = Annotation(len(groups[i].Records))
	}
	return groups
}

// Label renders the display label for a streak length
func (g *Grouper) Label(streak float64) string {
	n := strconv.FormatFloat(streak, 'f', -1, 64)
	if g.locale == LocaleZH {
		if streak == 1 {
			return "首板"
		}
		return n + "连板"
	}
	if streak == 1 {
		return "first-board"
	}
	return n + " consecutive"
}

// Annotation returns "(<size>)" for groups of AnnotationThreshold or more, else "".
func Annotation(size int) string {
	if size < AnnotationThreshold {
		return ""
	}
	return fmt.Sprintf("(%d)", size)
}
