package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"thoughtstream/src/domain"
	"thoughtstream/src/interface/handler"
	"thoughtstream/src/usecase"
	"thoughtstream/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTimelineRouter(uc usecase.NoteUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := handler.NewTimelineHandler(uc, validator.NewCustomValidator(), testLogger())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Next()
	})
	r.GET("/api/timeline", h.GetTimeline)

	return r
}

func TestTimelineHandler_GetTimeline(t *testing.T) {
	t.Run("day groups are returned with totals", func(t *testing.T) {
		mockUC := new(MockNoteUsecase)
		mockUC.On("Timeline", mock.Anything, 1, domain.Filters{
			DateFilter: domain.DateFilterAll,
		}).Return([]domain.DayGroup{
			{
				Date:        "2024-06-15",
				DisplayDate: "Today",
				Notes: []domain.Note{
					{ID: 2, Content: "afternoon", Status: domain.StatusNone},
					{ID: 1, Content: "morning", Status: domain.StatusNone},
				},
			},
			{
				Date:        "2024-06-14",
				DisplayDate: "Yesterday",
				Notes: []domain.Note{
					{ID: 3, Content: "older", Status: domain.StatusDone},
				},
			},
		}, nil)

		r := setupTimelineRouter(mockUC)

		req := httptest.NewRequest(http.MethodGet, "/api/timeline", nil)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp handler.TimelineResponseDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Days, 2)
		assert.Equal(t, "Today", resp.Days[0].DisplayDate)
		assert.Equal(t, "Yesterday", resp.Days[1].DisplayDate)
		assert.Equal(t, 3, resp.Total)

		mockUC.AssertExpectations(t)
	})

	t.Run("malformed custom date returns 400", func(t *testing.T) {
		mockUC := new(MockNoteUsecase)
		mockUC.On("Timeline", mock.Anything, 1, mock.Anything).Return(nil, usecase.ErrInvalidDateFilter)

		r := setupTimelineRouter(mockUC)

		req := httptest.NewRequest(http.MethodGet, "/api/timeline?date_filter=custom&start=June+1st", nil)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty timeline returns empty day list", func(t *testing.T) {
		mockUC := new(MockNoteUsecase)
		mockUC.On("Timeline", mock.Anything, 1, mock.Anything).Return([]domain.DayGroup{}, nil)

		r := setupTimelineRouter(mockUC)

		req := httptest.NewRequest(http.MethodGet, "/api/timeline", nil)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp handler.TimelineResponseDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Days)
		assert.Equal(t, 0, resp.Total)
	})
}
