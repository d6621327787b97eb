package filter_test

import (
	"testing"
	"time"

	"thoughtstream/src/domain"
	"thoughtstream/src/filter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-06-15 15:00 を「現在」として固定
var now = time.Date(2024, 6, 15, 15, 0, 0, 0, time.UTC)

func note(id int, content string, status domain.Status, createdAt time.Time, tagIDs ...int) domain.Note {
	n := domain.Note{
		ID:        id,
		UserID:    1,
		Content:   content,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	for _, tagID := range tagIDs {
		n.Tags = append(n.Tags, domain.Tag{ID: tagID, UserID: 1})
	}
	return n
}

func TestResolveRange(t *testing.T) {
	midnight := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("today spans midnight to now", func(t *testing.T) {
		r, err := filter.ResolveRange(domain.DateFilterToday, "", "", now)
		require.NoError(t, err)
		assert.Equal(t, midnight, *r.Start)
		assert.Equal(t, now, *r.End)
	})

	t.Run("yesterday excludes today", func(t *testing.T) {
		r, err := filter.ResolveRange(domain.DateFilterYesterday, "", "", now)
		require.NoError(t, err)
		assert.Equal(t, midnight.AddDate(0, 0, -1), *r.Start)

		// 昨日の最後の瞬間までは含まれ、今日の0:00は含まれない
		assert.True(t, r.Contains(time.Date(2024, 6, 14, 23, 59, 59, 0, time.UTC)))
		assert.True(t, r.Contains(time.Date(2024, 6, 14, 23, 59, 59, 500_000_000, time.UTC)))
		assert.False(t, r.Contains(midnight))
	})

	t.Run("week spans seven days back", func(t *testing.T) {
		r, err := filter.ResolveRange(domain.DateFilterWeek, "", "", now)
		require.NoError(t, err)
		assert.Equal(t, midnight.AddDate(0, 0, -7), *r.Start)
		assert.Equal(t, now, *r.End)
	})

	t.Run("month spans one calendar month back", func(t *testing.T) {
		r, err := filter.ResolveRange(domain.DateFilterMonth, "", "", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), *r.Start)
	})

	t.Run("all is unbounded", func(t *testing.T) {
		r, err := filter.ResolveRange(domain.DateFilterAll, "", "", now)
		require.NoError(t, err)
		assert.True(t, r.IsUnbounded())
	})

	t.Run("custom range includes both endpoint days", func(t *testing.T) {
		r, err := filter.ResolveRange(domain.DateFilterCustom, "2024-06-01", "2024-06-10", now)
		require.NoError(t, err)

		assert.True(t, r.Contains(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
		assert.True(t, r.Contains(time.Date(2024, 6, 10, 23, 59, 59, 0, time.UTC)))
		assert.True(t, r.Contains(time.Date(2024, 6, 10, 23, 59, 59, 999_999_999, time.UTC)))
		assert.False(t, r.Contains(time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC)))
		assert.False(t, r.Contains(time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("custom bounds may be open on either side", func(t *testing.T) {
		r, err := filter.ResolveRange(domain.DateFilterCustom, "2024-06-01", "", now)
		require.NoError(t, err)
		assert.NotNil(t, r.Start)
		assert.Nil(t, r.End)
		assert.True(t, r.Contains(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("malformed custom start yields ErrInvalidInput", func(t *testing.T) {
		_, err := filter.ResolveRange(domain.DateFilterCustom, "June 1st", "", now)
		assert.ErrorIs(t, err, filter.ErrInvalidInput)
	})

	t.Run("malformed custom end yields ErrInvalidInput", func(t *testing.T) {
		_, err := filter.ResolveRange(domain.DateFilterCustom, "", "2024-13-99", now)
		assert.ErrorIs(t, err, filter.ErrInvalidInput)
	})
}

func TestApply_EmptyFiltersReturnEverything(t *testing.T) {
	notes := []domain.Note{
		note(1, "first", domain.StatusNone, now.Add(-1*time.Hour)),
		note(2, "second", domain.StatusDone, now.Add(-2*time.Hour)),
		note(3, "third", domain.StatusTodo, now.Add(-3*time.Hour)),
	}

	result, err := filter.Apply(notes, domain.Filters{DateFilter: domain.DateFilterAll}, now)
	require.NoError(t, err)
	assert.Equal(t, notes, result)
}

func TestApply_StatusFilter(t *testing.T) {
	notes := []domain.Note{
		note(1, "a", domain.StatusTodo, now),
		note(2, "b", domain.StatusDone, now),
		note(3, "c", domain.StatusInProgress, now),
	}

	result, err := filter.Apply(notes, domain.Filters{
		Statuses:   []domain.Status{domain.StatusTodo, domain.StatusDone},
		DateFilter: domain.DateFilterAll,
	}, now)
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, 1, result[0].ID)
	assert.Equal(t, 2, result[1].ID)
}

func TestApply_TagFilterRequiresAllTags(t *testing.T) {
	notes := []domain.Note{
		note(1, "both tags", domain.StatusNone, now, 10, 20),
		note(2, "one tag", domain.StatusNone, now, 10),
		note(3, "no tags", domain.StatusNone, now),
	}

	result, err := filter.Apply(notes, domain.Filters{
		TagIDs:     []int{10, 20},
		DateFilter: domain.DateFilterAll,
	}, now)
	require.NoError(t, err)

	// 選択された全タグを持つノートだけが残る（AND条件）
	require.Len(t, result, 1)
	assert.Equal(t, 1, result[0].ID)
}

func TestApply_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	notes := []domain.Note{
		note(1, "Meeting notes for Project Alpha", domain.StatusNone, now),
		note(2, "grocery list", domain.StatusNone, now),
		note(3, "PROJECT kickoff", domain.StatusNone, now),
	}

	result, err := filter.Apply(notes, domain.Filters{
		SearchQuery: "project",
		DateFilter:  domain.DateFilterAll,
	}, now)
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, 1, result[0].ID)
	assert.Equal(t, 3, result[1].ID)
}

func TestApply_DateFilter(t *testing.T) {
	notes := []domain.Note{
		note(1, "today", domain.StatusNone, now.Add(-1*time.Hour)),
		note(2, "yesterday", domain.StatusNone, now.AddDate(0, 0, -1)),
		note(3, "last month", domain.StatusNone, now.AddDate(0, -2, 0)),
	}

	result, err := filter.Apply(notes, domain.Filters{DateFilter: domain.DateFilterToday}, now)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 1, result[0].ID)

	result, err = filter.Apply(notes, domain.Filters{DateFilter: domain.DateFilterYesterday}, now)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 2, result[0].ID)
}

func TestApply_CombinedPredicatesAreANDed(t *testing.T) {
	notes := []domain.Note{
		note(1, "project review", domain.StatusTodo, now.Add(-1*time.Hour), 10),
		note(2, "project review", domain.StatusDone, now.Add(-1*time.Hour), 10),
		note(3, "unrelated", domain.StatusTodo, now.Add(-1*time.Hour), 10),
	}

	result, err := filter.Apply(notes, domain.Filters{
		Statuses:    []domain.Status{domain.StatusTodo},
		TagIDs:      []int{10},
		SearchQuery: "review",
		DateFilter:  domain.DateFilterToday,
	}, now)
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, 1, result[0].ID)
}

func TestApply_MalformedCustomDatePropagatesError(t *testing.T) {
	notes := []domain.Note{note(1, "a", domain.StatusNone, now)}

	_, err := filter.Apply(notes, domain.Filters{
		DateFilter:  domain.DateFilterCustom,
		CustomStart: "not-a-date",
	}, now)

	assert.ErrorIs(t, err, filter.ErrInvalidInput)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	notes := []domain.Note{
		note(1, "a", domain.StatusTodo, now),
		note(2, "b", domain.StatusDone, now),
	}
	original := make([]domain.Note, len(notes))
	copy(original, notes)

	_, err := filter.Apply(notes, domain.Filters{
		Statuses:   []domain.Status{domain.StatusDone},
		DateFilter: domain.DateFilterAll,
	}, now)
	require.NoError(t, err)

	assert.Equal(t, original, notes)
}
