package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"thoughtstream/src/domain"
	"thoughtstream/src/filter"
	"thoughtstream/src/timeline"

	"github.com/sirupsen/logrus"
)

var (
	ErrNoteNotFound      = errors.New("note not found")
	ErrEmptyContent      = errors.New("content is required")
	ErrInvalidStatus     = errors.New("status must be none, todo, in_progress, or done")
	ErrInvalidDateFilter = errors.New("date filter must be all, today, yesterday, week, month, or custom")
)

// CreateNoteRequest represents input for creating a note
type CreateNoteRequest struct {
	Content string
	Status  string
}

// NoteUsecase defines the interface for note business logic
type NoteUsecase interface {
	CreateNote(ctx context.Context, userID int, req CreateNoteRequest) (*domain.Note, error)
	GetNote(ctx context.Context, userID int, id int) (*domain.Note, error)
	ListNotes(ctx context.Context, userID int, filters domain.Filters) ([]domain.Note, error)
	Timeline(ctx context.Context, userID int, filters domain.Filters) ([]domain.DayGroup, error)
	UpdateNoteContent(ctx context.Context, userID int, id int, content string) (*domain.Note, error)
	UpdateNoteStatus(ctx context.Context, userID int, id int, status domain.Status) (*domain.Note, error)
	CycleNoteStatus(ctx context.Context, userID int, id int) (*domain.Note, error)
	DeleteNote(ctx context.Context, userID int, id int) error
}

type noteUsecase struct {
	noteRepo domain.NoteRepository
	tagRepo  domain.TagRepository
	logger   *logrus.Logger
}

// NewNoteUsecase creates a new note usecase
func NewNoteUsecase(noteRepo domain.NoteRepository, tagRepo domain.TagRepository, logger *logrus.Logger) NoteUsecase {
	return &noteUsecase{
		noteRepo: noteRepo,
		tagRepo:  tagRepo,
		logger:   logger,
	}
}

// CreateNote creates a note and links the tags extracted from its content
func (u *noteUsecase) CreateNote(ctx context.Context, userID int, req CreateNoteRequest) (*domain.Note, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	status := domain.Status(req.Status)
	if req.Status == "" {
		status = domain.StatusNone // デフォルト値
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	note, err := u.noteRepo.Create(ctx, &domain.Note{
		UserID:    userID,
		Content:   content,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	u.syncTags(ctx, userID, note.ID, content)

	note.Tags = u.tagsForNote(ctx, note.ID)
	return note, nil
}

// GetNote retrieves a note by ID
func (u *noteUsecase) GetNote(ctx context.Context, userID int, id int) (*domain.Note, error) {
	note, err := u.noteRepo.GetByID(ctx, id, userID)
	if err != nil {
		if strings.Contains(err.Error(), "note not found") {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	note.Tags = u.tagsForNote(ctx, note.ID)
	return note, nil
}

// ListNotes reloads the full note collection and applies the filter state.
// Store read failures are logged and degrade to an empty collection.
func (u *noteUsecase) ListNotes(ctx context.Context, userID int, filters domain.Filters) ([]domain.Note, error) {
	if filters.DateFilter != "" && !filters.DateFilter.IsValid() {
		return nil, ErrInvalidDateFilter
	}

	notes, err := u.noteRepo.ListByUser(ctx, userID)
	if err != nil {
		u.logger.WithError(err).WithField("user_id", userID).Error("ノート一覧の取得に失敗")
		return []domain.Note{}, nil
	}

	for i := range notes {
		notes[i].Tags = u.tagsForNote(ctx, notes[i].ID)
	}

	return filter.Apply(notes, filters, time.Now())
}

// Timeline reloads notes, applies the filter state, and groups the result by day
func (u *noteUsecase) Timeline(ctx context.Context, userID int, filters domain.Filters) ([]domain.DayGroup, error) {
	notes, err := u.ListNotes(ctx, userID, filters)
	if err != nil {
		return nil, err
	}

	return timeline.GroupByDay(notes, time.Now()), nil
}

// UpdateNoteContent edits a note's content and fully replaces its tag links
func (u *noteUsecase) UpdateNoteContent(ctx context.Context, userID int, id int, content string) (*domain.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	note, err := u.noteRepo.UpdateContent(ctx, id, userID, content, time.Now())
	if err != nil {
		if strings.Contains(err.Error(), "note not found") {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	// 既存のリンクを全て削除してから再抽出・再リンク（差分更新はしない）
	if err := u.tagRepo.UnlinkNote(ctx, id); err != nil {
		u.logger.WithError(err).WithField("note_id", id).Error("タグリンクの削除に失敗")
	}
	u.syncTags(ctx, userID, id, content)

	note.Tags = u.tagsForNote(ctx, id)
	return note, nil
}

// UpdateNoteStatus sets a note's workflow status explicitly
func (u *noteUsecase) UpdateNoteStatus(ctx context.Context, userID int, id int, status domain.Status) (*domain.Note, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	note, err := u.noteRepo.UpdateStatus(ctx, id, userID, status, time.Now())
	if err != nil {
		if strings.Contains(err.Error(), "note not found") {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	note.Tags = u.tagsForNote(ctx, id)
	return note, nil
}

// CycleNoteStatus advances a note's status through the fixed 4-state cycle
func (u *noteUsecase) CycleNoteStatus(ctx context.Context, userID int, id int) (*domain.Note, error) {
	note, err := u.noteRepo.GetByID(ctx, id, userID)
	if err != nil {
		if strings.Contains(err.Error(), "note not found") {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	return u.UpdateNoteStatus(ctx, userID, id, note.Status.Next())
}

// DeleteNote removes a note's tag links and then the note itself.
// Ownership is verified before any data is touched so a foreign note id
// cannot strip another user's links.
func (u *noteUsecase) DeleteNote(ctx context.Context, userID int, id int) error {
	if _, err := u.noteRepo.GetByID(ctx, id, userID); err != nil {
		if strings.Contains(err.Error(), "note not found") {
			return ErrNoteNotFound
		}
		return err
	}

	if err := u.tagRepo.UnlinkNote(ctx, id); err != nil {
		u.logger.WithError(err).WithField("note_id", id).Error("タグリンクの削除に失敗")
	}

	err := u.noteRepo.Delete(ctx, id, userID)
	if err != nil && strings.Contains(err.Error(), "note not found") {
		return ErrNoteNotFound
	}
	return err
}

// syncTags upserts a tag for each distinct hashtag in content and links it to
// the note. Each tag is best-effort: a failed upsert or link is logged and the
// remaining tags are still processed.
func (u *noteUsecase) syncTags(ctx context.Context, userID int, noteID int, content string) {
	for _, name := range domain.ExtractHashtags(content) {
		tag, err := u.tagRepo.Upsert(ctx, userID, name, randomTagColor())
		if err != nil {
			u.logger.WithError(err).WithFields(logrus.Fields{
				"note_id": noteID,
				"tag":     name,
			}).Error("タグの作成に失敗")
			continue
		}

		if err := u.tagRepo.LinkNote(ctx, noteID, tag.ID); err != nil {
			u.logger.WithError(err).WithFields(logrus.Fields{
				"note_id": noteID,
				"tag_id":  tag.ID,
			}).Error("タグリンクの作成に失敗")
		}
	}
}

// tagsForNote fetches a note's tags; a read failure degrades to no tags
func (u *noteUsecase) tagsForNote(ctx context.Context, noteID int) []domain.Tag {
	tags, err := u.tagRepo.ListByNote(ctx, noteID)
	if err != nil {
		u.logger.WithError(err).WithField("note_id", noteID).Error("ノートのタグ取得に失敗")
		return []domain.Tag{}
	}
	return tags
}
