package domain

import (
	"time"
)

// Note represents a note domain entity
type Note struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Content   string    `json:"content"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Tags      []Tag     `json:"tags"`
}

// Tag represents a tag derived from a hashtag in note content.
// A tag name is lowercase and unique within a user's scope.
type Tag struct {
	ID     int    `json:"id"`
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}

// Status represents the workflow state of a note
type Status string

const (
	StatusNone       Status = "none"
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// IsValid validates if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusNone, StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// Next advances the status through the fixed cycle
// none → todo → in_progress → done → none
func (s Status) Next() Status {
	switch s {
	case StatusNone:
		return StatusTodo
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	case StatusDone:
		return StatusNone
	default:
		return StatusNone
	}
}

// String returns string representation of Status
func (s Status) String() string {
	return string(s)
}

// DateFilter selects the coarse date range applied when filtering notes
type DateFilter string

const (
	DateFilterAll       DateFilter = "all"
	DateFilterToday     DateFilter = "today"
	DateFilterYesterday DateFilter = "yesterday"
	DateFilterWeek      DateFilter = "week"
	DateFilterMonth     DateFilter = "month"
	DateFilterCustom    DateFilter = "custom"
)

// IsValid validates if the date filter selector is valid
func (f DateFilter) IsValid() bool {
	switch f {
	case DateFilterAll, DateFilterToday, DateFilterYesterday, DateFilterWeek, DateFilterMonth, DateFilterCustom:
		return true
	default:
		return false
	}
}

// String returns string representation of DateFilter
func (f DateFilter) String() string {
	return string(f)
}

// Filters represents the transient, view-only filter state.
// Empty selections mean the corresponding predicate is skipped.
type Filters struct {
	Statuses    []Status
	TagIDs      []int
	SearchQuery string
	DateFilter  DateFilter
	CustomStart string // YYYY-MM-DD、DateFilterCustomのときのみ有効
	CustomEnd   string // YYYY-MM-DD、DateFilterCustomのときのみ有効
}

// DayGroup represents notes bucketed by the calendar day of their creation
type DayGroup struct {
	Date        string `json:"date"` // YYYY-MM-DD
	DisplayDate string `json:"display_date"`
	Notes       []Note `json:"notes"`
}
