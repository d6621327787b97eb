package domain

import (
	"context"
	"time"
)

// NoteRepository defines the interface for note data operations
type NoteRepository interface {
	Create(ctx context.Context, note *Note) (*Note, error)
	GetByID(ctx context.Context, id int, userID int) (*Note, error)
	ListByUser(ctx context.Context, userID int) ([]Note, error)
	UpdateContent(ctx context.Context, id int, userID int, content string, updatedAt time.Time) (*Note, error)
	UpdateStatus(ctx context.Context, id int, userID int, status Status, updatedAt time.Time) (*Note, error)
	Delete(ctx context.Context, id int, userID int) error
}

// TagRepository defines the interface for tag and note-tag link operations
type TagRepository interface {
	// Upsert creates a tag or returns the existing row for (userID, name).
	// The color is only applied when the tag is newly created.
	Upsert(ctx context.Context, userID int, name string, color string) (*Tag, error)
	ListByUser(ctx context.Context, userID int) ([]Tag, error)
	ListByNote(ctx context.Context, noteID int) ([]Tag, error)
	UpdateColor(ctx context.Context, id int, userID int, color string) error
	Delete(ctx context.Context, id int, userID int) error

	// note-tag links
	LinkNote(ctx context.Context, noteID int, tagID int) error
	UnlinkNote(ctx context.Context, noteID int) error
}
