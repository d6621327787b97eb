package handler

import (
	"net/http"

	"thoughtstream/src/security"
	"thoughtstream/src/usecase"
	"thoughtstream/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TimelineHandler handles HTTP requests for the day-grouped timeline view
type TimelineHandler struct {
	noteUsecase usecase.NoteUsecase
	validator   *validator.CustomValidator
	sanitizer   *security.SearchSanitizer
	logger      *logrus.Logger
}

// NewTimelineHandler creates a new timeline handler
func NewTimelineHandler(noteUsecase usecase.NoteUsecase, cv *validator.CustomValidator, logger *logrus.Logger) *TimelineHandler {
	return &TimelineHandler{
		noteUsecase: noteUsecase,
		validator:   cv,
		sanitizer:   security.NewSearchSanitizer(),
		logger:      logger,
	}
}

// GetTimeline reloads notes, applies the filter state, and returns the
// notes grouped into day buckets, newest day first
func (h *TimelineHandler) GetTimeline(c *gin.Context) {
	filters, ok := bindFilters(c, h.validator, h.sanitizer)
	if !ok {
		return
	}

	groups, err := h.noteUsecase.Timeline(c.Request.Context(), userID(c), filters)
	if err != nil {
		handleFilterError(c, h.logger, err, "Failed to get timeline")
		return
	}

	total := 0
	days := make([]DayGroupResponseDTO, len(groups))
	for i, group := range groups {
		days[i] = DayGroupResponseDTO{
			Date:        group.Date,
			DisplayDate: group.DisplayDate,
			Notes:       toNoteResponseDTOs(group.Notes),
		}
		total += len(group.Notes)
	}

	c.JSON(http.StatusOK, TimelineResponseDTO{
		Days:  days,
		Total: total,
	})
}
