package create

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/event-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/event-hub/internal/models"
	"github.com/magabrotheeeer/event-hub/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, organizerID string, req models.DummyEvent) (*models.Event, error) {
	args := m.Called(ctx, organizerID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Event), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const validBody = `{"title":"Hamlet","description":"Clásico","eventTypeId":"teatro",` +
	`"startDate":"2026-06-05","location":"Teatro Real","city":"Madrid","categoryIds":["c-1"]}`

func TestCreateHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		userID         string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "создание без токена",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "", mock.MatchedBy(func(req models.DummyEvent) bool {
					return req.Title == "Hamlet" && len(req.CategoryIDs) == 1
				})).Return(&models.Event{ID: "e-1", Title: "Hamlet"}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"event":{"id":"e-1"`,
		},
		{
			name:   "организатор из токена",
			body:   validBody,
			userID: "user-7",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user-7", mock.Anything).
					Return(&models.Event{ID: "e-2", OrganizerID: "user-7"}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"organizerId":"user-7"`,
		},
		{
			name: "нет города",
			body: `{"title":"Hamlet","description":"Clásico","eventTypeId":"teatro",` +
				`"startDate":"2026-06-05","location":"Teatro Real"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Faltan campos requeridos para crear el evento","details":"field city is a required field"}`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"title":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"Cuerpo de la solicitud no válido"`,
		},
		{
			name: "некорректная дата",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "", mock.Anything).Return(nil, models.ErrInvalidDate).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"Fecha no válida"`,
		},
		{
			name: "неизвестный тип события",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "", mock.Anything).Return(nil, storage.ErrInvalidReference).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"Referencia no válida"`,
		},
		{
			name: "ошибка хранилища",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "", mock.Anything).Return(nil, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Error al crear el evento","details":"db down"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBufferString(tt.body))
			if tt.userID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, tt.userID))
			}
			w := httptest.NewRecorder()
			New(newNoopLogger(), svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
