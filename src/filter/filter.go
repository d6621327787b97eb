package filter

import (
	"strings"
	"time"

	"thoughtstream/src/domain"
)

// Apply returns the subsequence of notes satisfying all active predicates
// of the filter state. Predicates with empty selections are vacuously
// satisfied. The input slice is never mutated and relative order is
// preserved.
func Apply(notes []domain.Note, filters domain.Filters, now time.Time) ([]domain.Note, error) {
	dateRange, err := ResolveRange(filters.DateFilter, filters.CustomStart, filters.CustomEnd, now)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(filters.SearchQuery)

	result := make([]domain.Note, 0, len(notes))
	for _, note := range notes {
		if len(filters.Statuses) > 0 && !containsStatus(filters.Statuses, note.Status) {
			continue
		}

		// タグはAND条件：選択された全タグを持つノートのみ
		if len(filters.TagIDs) > 0 && !hasAllTags(note, filters.TagIDs) {
			continue
		}

		if query != "" && !strings.Contains(strings.ToLower(note.Content), query) {
			continue
		}

		if !dateRange.IsUnbounded() && !dateRange.Contains(note.CreatedAt) {
			continue
		}

		result = append(result, note)
	}

	return result, nil
}

func containsStatus(statuses []domain.Status, status domain.Status) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func hasAllTags(note domain.Note, tagIDs []int) bool {
	noteTagIDs := make(map[int]bool, len(note.Tags))
	for _, tag := range note.Tags {
		noteTagIDs[tag.ID] = true
	}

	for _, id := range tagIDs {
		if !noteTagIDs[id] {
			return false
		}
	}
	return true
}
