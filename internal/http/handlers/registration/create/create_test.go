package create

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/event-hub/internal/models"
	"github.com/magabrotheeeer/event-hub/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, eventID string, req models.DummyRegistration) (*models.Registration, error) {
	args := m.Called(ctx, eventID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Registration), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const validBody = `{"name":"Luis","email":"luis@example.com","phone":"600000000"}`

func TestCreateHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		err            error
		expectCall     bool
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "успешное создание",
			body:           validBody,
			expectCall:     true,
			expectedStatus: http.StatusCreated,
			expectedBody:   `"message":"Inscripción creada con éxito"`,
		},
		{
			name:           "нет email",
			body:           `{"name":"Luis"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field email is a required field`,
		},
		{
			name:           "статус вне перечисления",
			body:           `{"name":"Luis","email":"luis@example.com","status":"INVALID"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field status must be one of [PENDING CONFIRMED CANCELLED]`,
		},
		{
			name:           "событие не найдено",
			body:           validBody,
			err:            storage.ErrEventNotFound,
			expectCall:     true,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Evento no encontrado"}`,
		},
		{
			name:           "запись закрыта",
			body:           validBody,
			err:            storage.ErrRegistrationClosed,
			expectCall:     true,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Este evento no permite inscripciones"}`,
		},
		{
			name:           "мест нет",
			body:           validBody,
			err:            storage.ErrEventFull,
			expectCall:     true,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"El evento ha alcanzado su capacidad máxima"}`,
		},
		{
			name:           "нулевая вместимость, ошибка из репозитория",
			body:           validBody,
			err:            fmt.Errorf("storage.CreateRegistration: %w", storage.ErrEventFull),
			expectCall:     true,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"El evento ha alcanzado su capacidad máxima"}`,
		},
		{
			name:           "повторная запись",
			body:           validBody,
			err:            storage.ErrAlreadyRegistered,
			expectCall:     true,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Ya estás registrado en este evento"}`,
		},
		{
			name:           "ошибка хранилища",
			body:           validBody,
			err:            errors.New("db down"),
			expectCall:     true,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Error al procesar la inscripción","details":"db down"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.expectCall {
				if tt.err != nil {
					svc.On("Create", mock.Anything, "e-1", mock.Anything).Return(nil, tt.err).Once()
				} else {
					svc.On("Create", mock.Anything, "e-1", mock.MatchedBy(func(req models.DummyRegistration) bool {
						return req.Email == "luis@example.com" && req.Phone != nil && *req.Phone == "600000000"
					})).Return(&models.Registration{ID: "r-9", Status: models.RegistrationPending}, nil).Once()
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/api/events/e-1/registrations", bytes.NewBufferString(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "e-1")
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			New(newNoopLogger(), svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
