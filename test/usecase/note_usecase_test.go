package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"thoughtstream/src/domain"
	"thoughtstream/src/usecase"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockNoteRepository は domain.NoteRepository のモック実装
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	args := m.Called(ctx, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *MockNoteRepository) GetByID(ctx context.Context, id int, userID int) (*domain.Note, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *MockNoteRepository) ListByUser(ctx context.Context, userID int) ([]domain.Note, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Note), args.Error(1)
}

func (m *MockNoteRepository) UpdateContent(ctx context.Context, id int, userID int, content string, updatedAt time.Time) (*domain.Note, error) {
	args := m.Called(ctx, id, userID, content, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *MockNoteRepository) UpdateStatus(ctx context.Context, id int, userID int, status domain.Status, updatedAt time.Time) (*domain.Note, error) {
	args := m.Called(ctx, id, userID, status, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *MockNoteRepository) Delete(ctx context.Context, id int, userID int) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockTagRepository は domain.TagRepository のモック実装
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) Upsert(ctx context.Context, userID int, name string, color string) (*domain.Tag, error) {
	args := m.Called(ctx, userID, name, color)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tag), args.Error(1)
}

func (m *MockTagRepository) ListByUser(ctx context.Context, userID int) ([]domain.Tag, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tag), args.Error(1)
}

func (m *MockTagRepository) ListByNote(ctx context.Context, noteID int) ([]domain.Tag, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tag), args.Error(1)
}

func (m *MockTagRepository) UpdateColor(ctx context.Context, id int, userID int, color string) error {
	args := m.Called(ctx, id, userID, color)
	return args.Error(0)
}

func (m *MockTagRepository) Delete(ctx context.Context, id int, userID int) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockTagRepository) LinkNote(ctx context.Context, noteID int, tagID int) error {
	args := m.Called(ctx, noteID, tagID)
	return args.Error(0)
}

func (m *MockTagRepository) UnlinkNote(ctx context.Context, noteID int) error {
	args := m.Called(ctx, noteID)
	return args.Error(0)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.FatalLevel) // テスト中はログを抑制
	return log
}

func TestNoteUsecase_CreateNote(t *testing.T) {
	tests := []struct {
		name          string
		request       usecase.CreateNoteRequest
		mockSetup     func(*MockNoteRepository, *MockTagRepository)
		expectedError error
	}{
		{
			name: "successful creation without hashtags",
			request: usecase.CreateNoteRequest{
				Content: "plain note",
			},
			mockSetup: func(nr *MockNoteRepository, tr *MockTagRepository) {
				nr.On("Create", mock.Anything, mock.AnythingOfType("*domain.Note")).Return(&domain.Note{
					ID:      1,
					UserID:  1,
					Content: "plain note",
					Status:  domain.StatusNone,
				}, nil)
				tr.On("ListByNote", mock.Anything, 1).Return([]domain.Tag{}, nil)
			},
		},
		{
			name: "empty content is rejected",
			request: usecase.CreateNoteRequest{
				Content: "   ",
			},
			mockSetup:     func(nr *MockNoteRepository, tr *MockTagRepository) {},
			expectedError: usecase.ErrEmptyContent,
		},
		{
			name: "invalid status is rejected",
			request: usecase.CreateNoteRequest{
				Content: "note",
				Status:  "archived",
			},
			mockSetup:     func(nr *MockNoteRepository, tr *MockTagRepository) {},
			expectedError: usecase.ErrInvalidStatus,
		},
		{
			name: "explicit status is kept",
			request: usecase.CreateNoteRequest{
				Content: "task",
				Status:  "todo",
			},
			mockSetup: func(nr *MockNoteRepository, tr *MockTagRepository) {
				nr.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Note) bool {
					return n.Status == domain.StatusTodo
				})).Return(&domain.Note{ID: 2, Content: "task", Status: domain.StatusTodo}, nil)
				tr.On("ListByNote", mock.Anything, 2).Return([]domain.Tag{}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			noteRepo := new(MockNoteRepository)
			tagRepo := new(MockTagRepository)
			tt.mockSetup(noteRepo, tagRepo)

			uc := usecase.NewNoteUsecase(noteRepo, tagRepo, testLogger())

			result, err := uc.CreateNote(context.Background(), 1, tt.request)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
			}

			noteRepo.AssertExpectations(t)
			tagRepo.AssertExpectations(t)
		})
	}
}

func TestNoteUsecase_CreateNote_LinksEachDistinctHashtagOnce(t *testing.T) {
	noteRepo := new(MockNoteRepository)
	tagRepo := new(MockTagRepository)

	content := "working on #project with #team, more #Project notes"

	noteRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Note")).Return(&domain.Note{
		ID:      5,
		UserID:  1,
		Content: content,
		Status:  domain.StatusNone,
	}, nil)

	// 重複した#projectは1回だけアップサート・リンクされる
	tagRepo.On("Upsert", mock.Anything, 1, "project", mock.AnythingOfType("string")).Return(&domain.Tag{ID: 10, Name: "project"}, nil).Once()
	tagRepo.On("Upsert", mock.Anything, 1, "team", mock.AnythingOfType("string")).Return(&domain.Tag{ID: 11, Name: "team"}, nil).Once()
	tagRepo.On("LinkNote", mock.Anything, 5, 10).Return(nil).Once()
	tagRepo.On("LinkNote", mock.Anything, 5, 11).Return(nil).Once()
	tagRepo.On("ListByNote", mock.Anything, 5).Return([]domain.Tag{
		{ID: 10, Name: "project"},
		{ID: 11, Name: "team"},
	}, nil)

	uc := usecase.NewNoteUsecase(noteRepo, tagRepo, testLogger())

	result, err := uc.CreateNote(context.Background(), 1, usecase.CreateNoteRequest{Content: content})

	assert.NoError(t, err)
	assert.Len(t, result.Tags, 2)

	noteRepo.AssertExpectations(t)
	tagRepo.AssertExpectations(t)
}

func TestNoteUsecase_CreateNote_TagFailureDoesNotFailCreation(t *testing.T) {
	noteRepo := new(MockNoteRepository)
	tagRepo := new(MockTagRepository)

	content := "#broken and #working"

	noteRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Note")).Return(&domain.Note{
		ID:      7,
		Content: content,
		Status:  domain.StatusNone,
	}, nil)

	// 最初のタグのアップサートが失敗しても残りのタグは処理される
	tagRepo.On("Upsert", mock.Anything, 1, "broken", mock.AnythingOfType("string")).Return(nil, assert.AnError).Once()
	tagRepo.On("Upsert", mock.Anything, 1, "working", mock.AnythingOfType("string")).Return(&domain.Tag{ID: 2, Name: "working"}, nil).Once()
	tagRepo.On("LinkNote", mock.Anything, 7, 2).Return(nil).Once()
	tagRepo.On("ListByNote", mock.Anything, 7).Return([]domain.Tag{{ID: 2, Name: "working"}}, nil)

	uc := usecase.NewNoteUsecase(noteRepo, tagRepo, testLogger())

	result, err := uc.CreateNote(context.Background(), 1, usecase.CreateNoteRequest{Content: content})

	assert.NoError(t, err)
	assert.NotNil(t, result)

	tagRepo.AssertExpectations(t)
}

func TestNoteUsecase_UpdateNoteContent_ReplacesAllTagLinks(t *testing.T) {
	noteRepo := new(MockNoteRepository)
	tagRepo := new(MockTagRepository)

	noteRepo.On("UpdateContent", mock.Anything, 3, 1, "now about #cooking", mock.AnythingOfType("time.Time")).Return(&domain.Note{
		ID:      3,
		Content: "now about #cooking",
		Status:  domain.StatusNone,
	}, nil)

	// 既存のリンクは差分ではなく全削除してから再リンク
	tagRepo.On("UnlinkNote", mock.Anything, 3).Return(nil).Once()
	tagRepo.On("Upsert", mock.Anything, 1, "cooking", mock.AnythingOfType("string")).Return(&domain.Tag{ID: 20, Name: "cooking"}, nil).Once()
	tagRepo.On("LinkNote", mock.Anything, 3, 20).Return(nil).Once()
	tagRepo.On("ListByNote", mock.Anything, 3).Return([]domain.Tag{{ID: 20, Name: "cooking"}}, nil)

	uc := usecase.NewNoteUsecase(noteRepo, tagRepo, testLogger())

	result, err := uc.UpdateNoteContent(context.Background(), 1, 3, "now about #cooking")

	assert.NoError(t, err)
	assert.Len(t, result.Tags, 1)

	noteRepo.AssertExpectations(t)
	tagRepo.AssertExpectations(t)
}

func TestNoteUsecase_UpdateNoteContent_NotFound(t *testing.T) {
	noteRepo := new(MockNoteRepository)
	tagRepo := new(MockTagRepository)

	noteRepo.On("UpdateContent", mock.Anything, 999, 1, "content", mock.AnythingOfType("time.Time")).Return(nil, assert.AnError)

	uc := usecase.NewNoteUsecase(noteRepo, tagRepo, testLogger())

	result, err := uc.UpdateNoteContent(context.Background(), 1, 999, "content")

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestNoteUsecase_ListNotes_StoreFailureDegradesToEmpty(t *testing.T) {
	noteRepo := new(MockNoteRepository)
	tagRepo := new(MockTagRepository)

	noteRepo.On("ListByUser", mock.Anything, 1).Return(nil, assert.AnError)

	uc := usecase.NewNoteUsecase(noteRepo, tagRepo, testLogger())

	// 読み取り失敗はエラーにせず空のコレクションに退化する
	result, err := uc.ListNotes(context.Background(), 1, domain.Filters{DateFilter: domain.DateFilterAll})

	assert.NoError(t, err)
	assert.Empty(t, result)
	assert.NotNil(t, result)
}

func TestNoteUsecase_ListNotes_InvalidDateFilter(t *testing.T) {
	uc := usecase.NewNoteUsecase(new(MockNoteRepository), new(MockTagRepository), testLogger())

	_, err := uc.ListNotes(context.Background(), 1, domain.Filters{DateFilter: "fortnight"})

	assert.ErrorIs(t, err, usecase.ErrInvalidDateFilter)
}

func TestNoteUsecase_CycleNoteStatus(t *testing.T) {
	tests := []struct {
		name     string
		current  domain.Status
		expected domain.Status
	}{
		{"none cycles to todo", domain.StatusNone, domain.StatusTodo},
		{"todo cycles to in_progress", domain.StatusTodo, domain.StatusInProgress},
		{"in_progress cycles to done", domain.StatusInProgress, domain.StatusDone},
		{"done cycles back to none", domain.StatusDone, domain.StatusNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			noteRepo := new(MockNoteRepository)
			tagRepo := new(MockTagRepository)

			noteRepo.On("GetByID", mock.Anything, 1, 1).Return(&domain.Note{
				ID:     1,
				Status: tt.current,
			}, nil)
			noteRepo.On("UpdateStatus", mock.Anything, 1, 1, tt.expected, mock.AnythingOfType("time.Time")).Return(&domain.Note{
				ID:     1,
				Status: tt.expected,
			}, nil)
			tagRepo.On("ListByNote", mock.Anything, 1).Return([]domain.Tag{}, nil)

			uc := usecase.NewNoteUsecase(noteRepo, tagRepo, testLogger())

			result, err := uc.CycleNoteStatus(context.Background(), 1, 1)

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result.Status)

			noteRepo.AssertExpectations(t)
		})
	}
}

func TestNoteUsecase_UpdateNoteStatus_InvalidStatus(t *testing.T) {
	uc := usecase.NewNoteUsecase(new(MockNoteRepository), new(MockTagRepository), testLogger())

	result, err := uc.UpdateNoteStatus(context.Background(), 1, 1, domain.Status("archived"))

	assert.ErrorIs(t, err, usecase.ErrInvalidStatus)
	assert.Nil(t, result)
}

func TestNoteUsecase_DeleteNote_RemovesLinksFirst(t *testing.T) {
	noteRepo := new(MockNoteRepository)
	tagRepo := new(MockTagRepository)

	noteRepo.On("GetByID", mock.Anything, 4, 1).Return(&domain.Note{ID: 4, UserID: 1}, nil).Once()
	tagRepo.On("UnlinkNote", mock.Anything, 4).Return(nil).Once()
	noteRepo.On("Delete", mock.Anything, 4, 1).Return(nil).Once()

	uc := usecase.NewNoteUsecase(noteRepo, tagRepo, testLogger())

	err := uc.DeleteNote(context.Background(), 1, 4)

	assert.NoError(t, err)
	noteRepo.AssertExpectations(t)
	tagRepo.AssertExpectations(t)
}

func TestNoteUsecase_DeleteNote_ForeignNoteLeavesLinksIntact(t *testing.T) {
	noteRepo := new(MockNoteRepository)
	tagRepo := new(MockTagRepository)

	// ユーザー2から見るとユーザー1のノート42は存在しない
	noteRepo.On("GetByID", mock.Anything, 42, 2).Return(nil, errors.New("note not found")).Once()

	uc := usecase.NewNoteUsecase(noteRepo, tagRepo, testLogger())

	err := uc.DeleteNote(context.Background(), 2, 42)

	assert.ErrorIs(t, err, usecase.ErrNoteNotFound)
	// 所有者確認より先にリンクを消してはいけない
	tagRepo.AssertNotCalled(t, "UnlinkNote", mock.Anything, 42)
	noteRepo.AssertNotCalled(t, "Delete", mock.Anything, 42, 2)
	noteRepo.AssertExpectations(t)
}
