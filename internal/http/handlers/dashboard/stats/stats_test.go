package stats

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/event-hub/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(*models.DashboardStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestStatsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	popular := "Arte"

	tests := []struct {
		name           string
		stats          *models.DashboardStats
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "с популярной категорией",
			stats:          &models.DashboardStats{TotalEvents: 5, PublishedEvents: 3, PopularCategory: &popular},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"totalEvents":5,"publishedEvents":3,"popularCategory":"Arte"}`,
		},
		{
			name:           "без категорий",
			stats:          &models.DashboardStats{},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"totalEvents":0,"publishedEvents":0,"popularCategory":null}`,
		},
		{
			name:           "ошибка хранилища",
			err:            errors.New("db down"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Error al obtener estadísticas","details":"db down"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.err != nil {
				svc.On("Stats", mock.Anything).Return(nil, tt.err).Once()
			} else {
				svc.On("Stats", mock.Anything).Return(tt.stats, nil).Once()
			}

			w := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
