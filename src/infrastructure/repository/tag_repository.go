package repository

import (
	"context"
	"fmt"

	"thoughtstream/src/database"
	"thoughtstream/src/domain"

	"github.com/sirupsen/logrus"
)

// TagRepository implements domain.TagRepository against the hosted store
type TagRepository struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *database.DB, logger *logrus.Logger) *TagRepository {
	return &TagRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert creates a tag or returns the existing row for (userID, name).
// The conflict target is the per-user unique name; an existing tag keeps
// its color.
func (r *TagRepository) Upsert(ctx context.Context, userID int, name string, color string) (*domain.Tag, error) {
	query := `
		INSERT INTO tags (user_id, name, color)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, user_id, name, color`

	tag := &domain.Tag{}
	err := r.db.QueryRowContext(ctx, query, userID, name, color).Scan(
		&tag.ID, &tag.UserID, &tag.Name, &tag.Color,
	)

	if err != nil {
		r.logger.WithError(err).WithField("tag", name).Error("タグのupsertに失敗")
		return nil, fmt.Errorf("failed to upsert tag: %w", err)
	}

	return tag, nil
}

// ListByUser retrieves all tags for a user ordered by name
func (r *TagRepository) ListByUser(ctx context.Context, userID int) ([]domain.Tag, error) {
	query := `
		SELECT id, user_id, name, color
		FROM tags WHERE user_id = $1
		ORDER BY name`

	return r.queryTags(ctx, query, userID)
}

// ListByNote retrieves the tags linked to a note
func (r *TagRepository) ListByNote(ctx context.Context, noteID int) ([]domain.Tag, error) {
	query := `
		SELECT t.id, t.user_id, t.name, t.color
		FROM note_tags nt
		JOIN tags t ON t.id = nt.tag_id
		WHERE nt.note_id = $1
		ORDER BY t.id`

	return r.queryTags(ctx, query, noteID)
}

func (r *TagRepository) queryTags(ctx context.Context, query string, arg interface{}) ([]domain.Tag, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		r.logger.WithError(err).Error("タグリストの取得に失敗")
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.Color); err != nil {
			r.logger.WithError(err).Error("タグのスキャンに失敗")
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return tags, nil
}

// UpdateColor changes a tag's display color
func (r *TagRepository) UpdateColor(ctx context.Context, id int, userID int, color string) error {
	query := `UPDATE tags SET color = $1 WHERE id = $2 AND user_id = $3`

	result, err := r.db.ExecContext(ctx, query, color, id, userID)
	if err != nil {
		r.logger.WithError(err).WithField("tag_id", id).Error("タグ色の更新に失敗")
		return fmt.Errorf("failed to update tag color: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("tag not found")
	}

	return nil
}

// Delete removes a tag's note links and then the tag itself. The link
// deletion is scoped to the owner's tag so a foreign tag id touches
// nothing.
func (r *TagRepository) Delete(ctx context.Context, id int, userID int) error {
	linkQuery := `
		DELETE FROM note_tags
		WHERE tag_id IN (SELECT id FROM tags WHERE id = $1 AND user_id = $2)`

	if _, err := r.db.ExecContext(ctx, linkQuery, id, userID); err != nil {
		r.logger.WithError(err).WithField("tag_id", id).Error("タグリンクの削除に失敗")
		return fmt.Errorf("failed to delete tag links: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.WithError(err).WithField("tag_id", id).Error("タグの削除に失敗")
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("tag not found")
	}

	r.logger.WithField("tag_id", id).Info("タグを削除しました")
	return nil
}

// LinkNote links a tag to a note. The insert is idempotent so duplicate
// hashtag tokens in one note never create duplicate links.
func (r *TagRepository) LinkNote(ctx context.Context, noteID int, tagID int) error {
	query := `
		INSERT INTO note_tags (note_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, noteID, tagID); err != nil {
		return fmt.Errorf("failed to link tag: %w", err)
	}
	return nil
}

// UnlinkNote removes all tag links for a note
func (r *TagRepository) UnlinkNote(ctx context.Context, noteID int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = $1`, noteID); err != nil {
		return fmt.Errorf("failed to unlink tags: %w", err)
	}
	return nil
}
