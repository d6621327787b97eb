package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"thoughtstream/src/domain"
	"thoughtstream/src/filter"
	"thoughtstream/src/security"
	"thoughtstream/src/usecase"
	"thoughtstream/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NoteHandler handles HTTP requests for note operations
type NoteHandler struct {
	noteUsecase usecase.NoteUsecase
	validator   *validator.CustomValidator
	sanitizer   *security.SearchSanitizer
	logger      *logrus.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteUsecase usecase.NoteUsecase, cv *validator.CustomValidator, logger *logrus.Logger) *NoteHandler {
	return &NoteHandler{
		noteUsecase: noteUsecase,
		validator:   cv,
		sanitizer:   security.NewSearchSanitizer(),
		logger:      logger,
	}
}

// CreateNote creates a new note
func (h *NoteHandler) CreateNote(c *gin.Context) {
	var req CreateNoteRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("リクエストのバインドに失敗")
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid request format",
			Message: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid request content",
			Message: err.Error(),
		})
		return
	}

	note, err := h.noteUsecase.CreateNote(c.Request.Context(), userID(c), usecase.CreateNoteRequest{
		Content: req.Content,
		Status:  req.Status,
	})
	if err != nil {
		h.logger.WithError(err).Error("ノートの作成に失敗")

		status := http.StatusInternalServerError
		if err == usecase.ErrEmptyContent || err == usecase.ErrInvalidStatus {
			status = http.StatusBadRequest
		}

		c.JSON(status, ErrorResponseDTO{
			Error:   "Failed to create note",
			Message: err.Error(),
		})
		return
	}

	h.logger.WithField("note_id", note.ID).Info("ノートを作成しました")
	c.JSON(http.StatusCreated, toNoteResponseDTO(note))
}

// ListNotes reloads the note collection and applies the filter state
func (h *NoteHandler) ListNotes(c *gin.Context) {
	filters, ok := bindFilters(c, h.validator, h.sanitizer)
	if !ok {
		return
	}

	notes, err := h.noteUsecase.ListNotes(c.Request.Context(), userID(c), filters)
	if err != nil {
		handleFilterError(c, h.logger, err, "Failed to get notes")
		return
	}

	c.JSON(http.StatusOK, NoteListResponseDTO{
		Notes: toNoteResponseDTOs(notes),
		Total: len(notes),
	})
}

// GetNote retrieves a note by ID
func (h *NoteHandler) GetNote(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	note, err := h.noteUsecase.GetNote(c.Request.Context(), userID(c), id)
	if err != nil {
		h.logger.WithError(err).WithField("note_id", id).Error("ノートの取得に失敗")

		status := http.StatusInternalServerError
		if err == usecase.ErrNoteNotFound {
			status = http.StatusNotFound
		}

		c.JSON(status, ErrorResponseDTO{
			Error: "Failed to get note",
		})
		return
	}

	c.JSON(http.StatusOK, toNoteResponseDTO(note))
}

// UpdateNote edits a note's content and re-derives its tags
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req UpdateNoteRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("リクエストのバインドに失敗")
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid request format",
			Message: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid request content",
			Message: err.Error(),
		})
		return
	}

	note, err := h.noteUsecase.UpdateNoteContent(c.Request.Context(), userID(c), id, req.Content)
	if err != nil {
		h.logger.WithError(err).WithField("note_id", id).Error("ノートの更新に失敗")

		status := http.StatusInternalServerError
		if err == usecase.ErrNoteNotFound {
			status = http.StatusNotFound
		} else if err == usecase.ErrEmptyContent {
			status = http.StatusBadRequest
		}

		c.JSON(status, ErrorResponseDTO{
			Error:   "Failed to update note",
			Message: err.Error(),
		})
		return
	}

	h.logger.WithField("note_id", id).Info("ノートを更新しました")
	c.JSON(http.StatusOK, toNoteResponseDTO(note))
}

// UpdateNoteStatus sets a note's workflow status (drag-and-drop target)
func (h *NoteHandler) UpdateNoteStatus(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req UpdateNoteStatusRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid request format",
			Message: err.Error(),
		})
		return
	}

	note, err := h.noteUsecase.UpdateNoteStatus(c.Request.Context(), userID(c), id, domain.Status(req.Status))
	if err != nil {
		h.logger.WithError(err).WithField("note_id", id).Error("ステータスの更新に失敗")

		status := http.StatusInternalServerError
		if err == usecase.ErrNoteNotFound {
			status = http.StatusNotFound
		} else if err == usecase.ErrInvalidStatus {
			status = http.StatusBadRequest
		}

		c.JSON(status, ErrorResponseDTO{
			Error: "Failed to update note status",
		})
		return
	}

	c.JSON(http.StatusOK, toNoteResponseDTO(note))
}

// CycleNoteStatus advances a note's status through the fixed cycle
func (h *NoteHandler) CycleNoteStatus(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	note, err := h.noteUsecase.CycleNoteStatus(c.Request.Context(), userID(c), id)
	if err != nil {
		h.logger.WithError(err).WithField("note_id", id).Error("ステータスの送りに失敗")

		status := http.StatusInternalServerError
		if err == usecase.ErrNoteNotFound {
			status = http.StatusNotFound
		}

		c.JSON(status, ErrorResponseDTO{
			Error: "Failed to cycle note status",
		})
		return
	}

	c.JSON(http.StatusOK, toNoteResponseDTO(note))
}

// DeleteNote deletes a note and its tag links
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	err := h.noteUsecase.DeleteNote(c.Request.Context(), userID(c), id)
	if err != nil {
		h.logger.WithError(err).WithField("note_id", id).Error("ノートの削除に失敗")

		status := http.StatusInternalServerError
		if err == usecase.ErrNoteNotFound {
			status = http.StatusNotFound
		}

		c.JSON(status, ErrorResponseDTO{
			Error: "Failed to delete note",
		})
		return
	}

	h.logger.WithField("note_id", id).Info("ノートを削除しました")
	c.Status(http.StatusNoContent)
}

// Helper methods

func (h *NoteHandler) bindID(c *gin.Context) (int, bool) {
	id, err := h.validator.ValidateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid note ID",
			Message: err.Error(),
		})
		return 0, false
	}
	return id, true
}

// bindFilters parses and validates the filter state query parameters
func bindFilters(c *gin.Context, cv *validator.CustomValidator, sanitizer *security.SearchSanitizer) (domain.Filters, bool) {
	var dto NoteFilterDTO
	if err := c.ShouldBindQuery(&dto); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid query parameters",
			Message: err.Error(),
		})
		return domain.Filters{}, false
	}

	if err := cv.Validate(dto); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid query parameters",
			Message: err.Error(),
		})
		return domain.Filters{}, false
	}

	if err := sanitizer.ValidateSearchQuery(dto.Search); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid search query",
			Message: err.Error(),
		})
		return domain.Filters{}, false
	}

	filters, err := toDomainFilters(dto)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid query parameters",
			Message: err.Error(),
		})
		return domain.Filters{}, false
	}

	return filters, true
}

func handleFilterError(c *gin.Context, log *logrus.Logger, err error, message string) {
	log.WithError(err).Error("フィルター適用に失敗")

	status := http.StatusInternalServerError
	if errors.Is(err, filter.ErrInvalidInput) || err == usecase.ErrInvalidDateFilter {
		status = http.StatusBadRequest
	}

	c.JSON(status, ErrorResponseDTO{
		Error:   message,
		Message: err.Error(),
	})
}

func userID(c *gin.Context) int {
	return c.GetInt("user_id")
}

func toDomainFilters(dto NoteFilterDTO) (domain.Filters, error) {
	filters := domain.Filters{
		SearchQuery: dto.Search,
		DateFilter:  domain.DateFilter(dto.DateFilter),
		CustomStart: dto.Start,
		CustomEnd:   dto.End,
	}
	if dto.DateFilter == "" {
		filters.DateFilter = domain.DateFilterAll
	}

	if dto.Statuses != "" {
		for _, s := range strings.Split(dto.Statuses, ",") {
			status := domain.Status(strings.TrimSpace(s))
			if !status.IsValid() {
				return domain.Filters{}, usecase.ErrInvalidStatus
			}
			filters.Statuses = append(filters.Statuses, status)
		}
	}

	if dto.TagIDs != "" {
		for _, raw := range strings.Split(dto.TagIDs, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return domain.Filters{}, errors.New("tag_ids must be a comma-separated list of numbers")
			}
			filters.TagIDs = append(filters.TagIDs, id)
		}
	}

	return filters, nil
}

func toNoteResponseDTO(note *domain.Note) NoteResponseDTO {
	tags := make([]TagResponseDTO, len(note.Tags))
	for i, tag := range note.Tags {
		tags[i] = TagResponseDTO{
			ID:    tag.ID,
			Name:  tag.Name,
			Color: tag.Color,
		}
	}

	return NoteResponseDTO{
		ID:        note.ID,
		Content:   note.Content,
		Status:    note.Status.String(),
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
		Tags:      tags,
	}
}

func toNoteResponseDTOs(notes []domain.Note) []NoteResponseDTO {
	result := make([]NoteResponseDTO, len(notes))
	for i := range notes {
		result[i] = toNoteResponseDTO(&notes[i])
	}
	return result
}
