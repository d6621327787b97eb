package usecase

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	"thoughtstream/src/domain"

	"github.com/sirupsen/logrus"
)

var (
	ErrTagNotFound    = errors.New("tag not found")
	ErrInvalidTagName = errors.New("tag name is required")
)

// tagColors is the display color palette assigned to newly created tags
var tagColors = []string{
	"#6366f1", // indigo
	"#8b5cf6", // violet
	"#ec4899", // pink
	"#ef4444", // red
	"#f97316", // orange
	"#eab308", // yellow
	"#22c55e", // green
	"#14b8a6", // teal
	"#06b6d4", // cyan
	"#3b82f6", // blue
}

func randomTagColor() string {
	return tagColors[rand.Intn(len(tagColors))]
}

// TagUsecase defines the interface for tag business logic
type TagUsecase interface {
	ListTags(ctx context.Context, userID int) ([]domain.Tag, error)
	CreateTag(ctx context.Context, userID int, name string) (*domain.Tag, error)
	UpdateTagColor(ctx context.Context, userID int, id int, color string) error
	DeleteTag(ctx context.Context, userID int, id int) error
}

type tagUsecase struct {
	tagRepo domain.TagRepository
	logger  *logrus.Logger
}

// NewTagUsecase creates a new tag usecase
func NewTagUsecase(tagRepo domain.TagRepository, logger *logrus.Logger) TagUsecase {
	return &tagUsecase{
		tagRepo: tagRepo,
		logger:  logger,
	}
}

// ListTags retrieves all tags for a user.
// Store read failures are logged and degrade to an empty collection.
func (u *tagUsecase) ListTags(ctx context.Context, userID int) ([]domain.Tag, error) {
	tags, err := u.tagRepo.ListByUser(ctx, userID)
	if err != nil {
		u.logger.WithError(err).WithField("user_id", userID).Error("タグ一覧の取得に失敗")
		return []domain.Tag{}, nil
	}
	return tags, nil
}

// CreateTag upserts a tag by (user, name), reusing an existing row if present
func (u *tagUsecase) CreateTag(ctx context.Context, userID int, name string) (*domain.Tag, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, ErrInvalidTagName
	}

	return u.tagRepo.Upsert(ctx, userID, name, randomTagColor())
}

// UpdateTagColor changes a tag's display color
func (u *tagUsecase) UpdateTagColor(ctx context.Context, userID int, id int, color string) error {
	err := u.tagRepo.UpdateColor(ctx, id, userID, color)
	if err != nil && strings.Contains(err.Error(), "tag not found") {
		return ErrTagNotFound
	}
	return err
}

// DeleteTag removes a tag together with all of its note links
func (u *tagUsecase) DeleteTag(ctx context.Context, userID int, id int) error {
	err := u.tagRepo.Delete(ctx, id, userID)
	if err != nil && strings.Contains(err.Error(), "tag not found") {
		return ErrTagNotFound
	}
	return err
}
