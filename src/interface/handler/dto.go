package handler

import (
	"time"
)

// CreateNoteRequestDTO represents HTTP request for creating a note
type CreateNoteRequestDTO struct {
	Content string `json:"content" binding:"required" validate:"required,min=1,safe_text,no_sql_injection"`
	Status  string `json:"status" binding:"omitempty,oneof=none todo in_progress done" validate:"omitempty,oneof=none todo in_progress done"`
}

// UpdateNoteRequestDTO represents HTTP request for editing note content
type UpdateNoteRequestDTO struct {
	Content string `json:"content" binding:"required" validate:"required,min=1,safe_text,no_sql_injection"`
}

// UpdateNoteStatusRequestDTO represents HTTP request for setting a note's status
type UpdateNoteStatusRequestDTO struct {
	Status string `json:"status" binding:"required,oneof=none todo in_progress done" validate:"required,oneof=none todo in_progress done"`
}

// UpdateTagColorRequestDTO represents HTTP request for changing a tag's color
type UpdateTagColorRequestDTO struct {
	Color string `json:"color" binding:"required" validate:"required,hex_color"`
}

// NoteFilterDTO represents HTTP query parameters for the filter state
type NoteFilterDTO struct {
	Statuses   string `form:"statuses"` // カンマ区切り
	TagIDs     string `form:"tag_ids"`  // カンマ区切り
	Search     string `form:"search" validate:"omitempty,max=200,safe_text,no_sql_injection"`
	DateFilter string `form:"date_filter" binding:"omitempty,oneof=all today yesterday week month custom" validate:"omitempty,oneof=all today yesterday week month custom"`
	Start      string `form:"start"` // YYYY-MM-DD、date_filter=customのときのみ
	End        string `form:"end"`   // YYYY-MM-DD、date_filter=customのときのみ
}

// TagResponseDTO represents HTTP response for a tag
type TagResponseDTO struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// NoteResponseDTO represents HTTP response for a note
type NoteResponseDTO struct {
	ID        int              `json:"id"`
	Content   string           `json:"content"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Tags      []TagResponseDTO `json:"tags"`
}

// NoteListResponseDTO represents HTTP response for the filtered note list
type NoteListResponseDTO struct {
	Notes []NoteResponseDTO `json:"notes"`
	Total int               `json:"total"`
}

// DayGroupResponseDTO represents one day bucket of the timeline view
type DayGroupResponseDTO struct {
	Date        string            `json:"date"`
	DisplayDate string            `json:"display_date"`
	Notes       []NoteResponseDTO `json:"notes"`
}

// TimelineResponseDTO represents HTTP response for the timeline view
type TimelineResponseDTO struct {
	Days  []DayGroupResponseDTO `json:"days"`
	Total int                   `json:"total"`
}

// ErrorResponseDTO represents HTTP error response
type ErrorResponseDTO struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
