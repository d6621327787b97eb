package handler

import (
	"net/http"

	"thoughtstream/src/domain"
	"thoughtstream/src/usecase"
	"thoughtstream/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CreateTagRequestDTO represents HTTP request for creating a tag directly
type CreateTagRequestDTO struct {
	Name string `json:"name" binding:"required" validate:"required,min=1,max=100,safe_tag"`
}

// TagHandler handles HTTP requests for tag operations
type TagHandler struct {
	tagUsecase usecase.TagUsecase
	validator  *validator.CustomValidator
	logger     *logrus.Logger
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagUsecase usecase.TagUsecase, cv *validator.CustomValidator, logger *logrus.Logger) *TagHandler {
	return &TagHandler{
		tagUsecase: tagUsecase,
		validator:  cv,
		logger:     logger,
	}
}

// ListTags retrieves all tags belonging to the authenticated user
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.tagUsecase.ListTags(c.Request.Context(), userID(c))
	if err != nil {
		h.logger.WithError(err).Error("タグ一覧の取得に失敗")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{
			Error: "Failed to get tags",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tags":  toTagResponseDTOs(tags),
		"total": len(tags),
	})
}

// CreateTag upserts a tag by name, reusing an existing row if present
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req CreateTagRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
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

	tag, err := h.tagUsecase.CreateTag(c.Request.Context(), userID(c), req.Name)
	if err != nil {
		h.logger.WithError(err).Error("タグの作成に失敗")

		status := http.StatusInternalServerError
		if err == usecase.ErrInvalidTagName {
			status = http.StatusBadRequest
		}

		c.JSON(status, ErrorResponseDTO{
			Error:   "Failed to create tag",
			Message: err.Error(),
		})
		return
	}

	h.logger.WithField("tag_id", tag.ID).Info("タグを作成しました")
	c.JSON(http.StatusCreated, TagResponseDTO{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
	})
}

// UpdateTagColor changes a tag's display color
func (h *TagHandler) UpdateTagColor(c *gin.Context) {
	id, err := h.validator.ValidateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid tag ID",
			Message: err.Error(),
		})
		return
	}

	var req UpdateTagColorRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
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

	if err := h.tagUsecase.UpdateTagColor(c.Request.Context(), userID(c), id, req.Color); err != nil {
		h.logger.WithError(err).WithField("tag_id", id).Error("タグカラーの更新に失敗")

		status := http.StatusInternalServerError
		if err == usecase.ErrTagNotFound {
			status = http.StatusNotFound
		}

		c.JSON(status, ErrorResponseDTO{
			Error: "Failed to update tag color",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tag color updated successfully"})
}

// DeleteTag removes a tag and all of its note links
func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, err := h.validator.ValidateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid tag ID",
			Message: err.Error(),
		})
		return
	}

	if err := h.tagUsecase.DeleteTag(c.Request.Context(), userID(c), id); err != nil {
		h.logger.WithError(err).WithField("tag_id", id).Error("タグの削除に失敗")

		status := http.StatusInternalServerError
		if err == usecase.ErrTagNotFound {
			status = http.StatusNotFound
		}

		c.JSON(status, ErrorResponseDTO{
			Error: "Failed to delete tag",
		})
		return
	}

	h.logger.WithField("tag_id", id).Info("タグを削除しました")
	c.Status(http.StatusNoContent)
}

func toTagResponseDTOs(tags []domain.Tag) []TagResponseDTO {
	result := make([]TagResponseDTO, len(tags))
	for i, tag := range tags {
		result[i] = TagResponseDTO{
			ID:    tag.ID,
			Name:  tag.Name,
			Color: tag.Color,
		}
	}
	return result
}
