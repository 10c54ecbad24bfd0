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

func (m *MockService) EventTypes(ctx context.Context) ([]models.EventType, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]models.EventType), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("список типов", func(t *testing.T) {
		svc := new(MockService)
		svc.On("EventTypes", mock.Anything).Return([]models.EventType{{ID: "cine", Name: "Cine"}}, nil).Once()

		w := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/event-types", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"eventTypes":[{"id":"cine","name":"Cine"}]}`, w.Body.String())
	})

	t.Run("ошибка хранилища", func(t *testing.T) {
		svc := new(MockService)
		svc.On("EventTypes", mock.Anything).Return(nil, errors.New("db down")).Once()

		w := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/event-types", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Error al obtener tipos de eventos","details":"db down"}`, w.Body.String())
	})
}
