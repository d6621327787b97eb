package filter

import (
	"errors"
	"fmt"
	"time"

	"thoughtstream/src/domain"
)

var (
	// ErrInvalidInput is returned when a custom date string cannot be parsed
	ErrInvalidInput = errors.New("invalid input")
)

const dateLayout = "2006-01-02"

// Range represents a resolved date interval. A nil bound is unbounded.
type Range struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t falls within the range
func (r Range) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// IsUnbounded reports whether both bounds are absent
func (r Range) IsUnbounded() bool {
	return r.Start == nil && r.End == nil
}

// ResolveRange maps a date filter selector to a concrete interval relative to now.
// Custom start/end strings are only meaningful for DateFilterCustom and each may
// be empty independently; a malformed string yields ErrInvalidInput.
func ResolveRange(selector domain.DateFilter, customStart, customEnd string, now time.Time) (Range, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch selector {
	case domain.DateFilterToday:
		return Range{Start: &midnight, End: &now}, nil

	case domain.DateFilterYesterday:
		start := midnight.AddDate(0, 0, -1)
		// 今日の0時直前までを含む（サブ秒のタイムスタンプも漏らさない）
		end := midnight.Add(-time.Nanosecond)
		return Range{Start: &start, End: &end}, nil

	case domain.DateFilterWeek:
		start := midnight.AddDate(0, 0, -7)
		return Range{Start: &start, End: &now}, nil

	case domain.DateFilterMonth:
		start := midnight.AddDate(0, -1, 0)
		return Range{Start: &start, End: &now}, nil

	case domain.DateFilterCustom:
		var r Range
		if customStart != "" {
			parsed, err := time.ParseInLocation(dateLayout, customStart, now.Location())
			if err != nil {
				return Range{}, fmt.Errorf("%w: custom start date %q", ErrInvalidInput, customStart)
			}
			r.Start = &parsed
		}
		if customEnd != "" {
			parsed, err := time.ParseInLocation(dateLayout, customEnd, now.Location())
			if err != nil {
				return Range{}, fmt.Errorf("%w: custom end date %q", ErrInvalidInput, customEnd)
			}
			// 終了日はその日の最後の瞬間まで含む（翌日0時は含まない）
			end := parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
			r.End = &end
		}
		return r, nil

	default:
		// all（および未指定）は無制限
		return Range{}, nil
	}
}
