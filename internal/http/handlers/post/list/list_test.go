package list

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

func (m *MockService) Posts(ctx context.Context) ([]*models.Post, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]*models.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("список постов", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Posts", mock.Anything).Return([]*models.Post{{
			ID:     "p-1",
			Title:  "Agenda de verano",
			Author: &models.UserSummary{ID: "u-1", Name: "Admin"},
			Count:  models.PostCount{Comments: 3},
		}}, nil).Once()

		w := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"_count":{"comments":3}`)
		assert.Contains(t, w.Body.String(), `"author":{"id":"u-1","name":"Admin"}`)
	})

	t.Run("ошибка хранилища", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Posts", mock.Anything).Return(nil, errors.New("db down")).Once()

		w := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), `"error":"Error al obtener posts"`)
	})
}
