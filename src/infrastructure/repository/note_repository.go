package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"thoughtstream/src/database"
	"thoughtstream/src/domain"

	"github.com/sirupsen/logrus"
)

// NoteRepository implements domain.NoteRepository against the hosted store
type NoteRepository struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *database.DB, logger *logrus.Logger) *NoteRepository {
	return &NoteRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new note
func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	query := `
		INSERT INTO notes (user_id, content, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		note.UserID, note.Content, note.Status.String(), note.CreatedAt, note.UpdatedAt,
	).Scan(&note.ID)

	if err != nil {
		r.logger.WithError(err).Error("ノートの作成に失敗")
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	r.logger.WithField("note_id", note.ID).Info("ノートを作成しました")
	return note, nil
}

// GetByID retrieves a note by ID scoped to its owner
func (r *NoteRepository) GetByID(ctx context.Context, id int, userID int) (*domain.Note, error) {
	query := `
		SELECT id, user_id, content, status, created_at, updated_at
		FROM notes WHERE id = $1 AND user_id = $2`

	note := &domain.Note{}
	var status string
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&note.ID, &note.UserID, &note.Content, &status, &note.CreatedAt, &note.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("note not found")
		}
		r.logger.WithError(err).WithField("note_id", id).Error("ノートの取得に失敗")
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	note.Status = domain.Status(status)
	return note, nil
}

// ListByUser retrieves all notes for a user, newest first
func (r *NoteRepository) ListByUser(ctx context.Context, userID int) ([]domain.Note, error) {
	query := `
		SELECT id, user_id, content, status, created_at, updated_at
		FROM notes WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.WithError(err).Error("ノートリストの取得に失敗")
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		var note domain.Note
		var status string
		err := rows.Scan(&note.ID, &note.UserID, &note.Content, &status, &note.CreatedAt, &note.UpdatedAt)
		if err != nil {
			r.logger.WithError(err).Error("ノートのスキャンに失敗")
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		note.Status = domain.Status(status)
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return notes, nil
}

// UpdateContent updates a note's content and update timestamp
func (r *NoteRepository) UpdateContent(ctx context.Context, id int, userID int, content string, updatedAt time.Time) (*domain.Note, error) {
	query := `
		UPDATE notes SET content = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4
		RETURNING id, user_id, content, status, created_at, updated_at`

	return r.scanUpdated(ctx, query, id, content, updatedAt, id, userID)
}

// UpdateStatus updates a note's workflow status and update timestamp
func (r *NoteRepository) UpdateStatus(ctx context.Context, id int, userID int, status domain.Status, updatedAt time.Time) (*domain.Note, error) {
	query := `
		UPDATE notes SET status = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4
		RETURNING id, user_id, content, status, created_at, updated_at`

	return r.scanUpdated(ctx, query, id, status.String(), updatedAt, id, userID)
}

func (r *NoteRepository) scanUpdated(ctx context.Context, query string, id int, args ...interface{}) (*domain.Note, error) {
	note := &domain.Note{}
	var status string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&note.ID, &note.UserID, &note.Content, &status, &note.CreatedAt, &note.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("note not found")
		}
		r.logger.WithError(err).WithField("note_id", id).Error("ノートの更新に失敗")
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	note.Status = domain.Status(status)
	r.logger.WithField("note_id", id).Info("ノートを更新しました")
	return note, nil
}

// Delete deletes a note
func (r *NoteRepository) Delete(ctx context.Context, id int, userID int) error {
	query := `DELETE FROM notes WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		r.logger.WithError(err).WithField("note_id", id).Error("ノートの削除に失敗")
		return fmt.Errorf("failed to delete note: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("note not found")
	}

	r.logger.WithField("note_id", id).Info("ノートを削除しました")
	return nil
}
