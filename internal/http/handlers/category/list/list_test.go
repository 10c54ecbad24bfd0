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

func (m *MockService) Categories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("список категорий", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Categories", mock.Anything).Return([]models.Category{{ID: "c-1", Name: "Arte"}}, nil).Once()

		w := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"categories":[{"id":"c-1","name":"Arte"}]}`, w.Body.String())
	})

	t.Run("ошибка хранилища", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Categories", mock.Anything).Return(nil, errors.New("db down")).Once()

		w := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
