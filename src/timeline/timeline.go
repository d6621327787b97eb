package timeline

import (
	"sort"
	"time"

	"thoughtstream/src/domain"
)

const dayKeyLayout = "2006-01-02"

// GroupByDay buckets notes by the calendar day of their creation timestamp.
// Groups are ordered newest day first and notes within a group newest first.
// Every input note appears in exactly one group.
func GroupByDay(notes []domain.Note, now time.Time) []domain.DayGroup {
	buckets := make(map[string][]domain.Note)
	var keys []string

	for _, note := range notes {
		key := note.CreatedAt.Format(dayKeyLayout)
		if _, ok := buckets[key]; !ok {
			keys = append(keys, key)
		}
		buckets[key] = append(buckets[key], note)
	}

	// 日付キーの降順（新しい日が先）
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	groups := make([]domain.DayGroup, 0, len(keys))
	for _, key := range keys {
		dayNotes := buckets[key]
		sort.SliceStable(dayNotes, func(i, j int) bool {
			return dayNotes[i].CreatedAt.After(dayNotes[j].CreatedAt)
		})

		groups = append(groups, domain.DayGroup{
			Date:        key,
			DisplayDate: displayDate(key, now),
			Notes:       dayNotes,
		})
	}

	return groups
}

// displayDate labels a day key as Today/Yesterday or a long-form date,
// including the year only when it differs from the current year
func displayDate(key string, now time.Time) string {
	todayKey := now.Format(dayKeyLayout)
	yesterdayKey := now.AddDate(0, 0, -1).Format(dayKeyLayout)

	switch key {
	case todayKey:
		return "Today"
	case yesterdayKey:
		return "Yesterday"
	}

	date, err := time.ParseInLocation(dayKeyLayout, key, now.Location())
	if err != nil {
		return key
	}

	if date.Year() != now.Year() {
		return date.Format("Monday, Jan 2, 2006")
	}
	return date.Format("Monday, Jan 2")
}
