package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/event-hub/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(*AuthServiceMock)
		wantStatusCode int
		wantBody       string
	}{
		{
			name:        "успешный вход",
			requestBody: models.Credentials{Email: "admin@example.com", Password: "secreto"},
			setupMock: func(m *AuthServiceMock) {
				m.On("Login", mock.Anything, "admin@example.com", "secreto").Return("tok", nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantBody:       `{"token":"tok"}`,
		},
		{
			name:        "неверный пароль",
			requestBody: models.Credentials{Email: "admin@example.com", Password: "otro"},
			setupMock: func(m *AuthServiceMock) {
				m.On("Login", mock.Anything, "admin@example.com", "otro").Return("", models.ErrInvalidCredentials).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"error":"Credenciales inválidas"}`,
		},
		{
			name:           "нет пароля",
			requestBody:    map[string]string{"email": "admin@example.com"},
			setupMock:      func(_ *AuthServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantBody:       `{"error":"Credenciales inválidas","details":"field password is a required field"}`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not-an-object",
			setupMock:      func(_ *AuthServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:        "ошибка хранилища",
			requestBody: models.Credentials{Email: "admin@example.com", Password: "secreto"},
			setupMock: func(m *AuthServiceMock) {
				m.On("Login", mock.Anything, "admin@example.com", "secreto").Return("", errors.New("db down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantBody:       `{"error":"Error al iniciar sesión","details":"db down"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			tt.setupMock(svc)
			handler := New(newNoopLogger(), svc)

			body, err := json.Marshal(tt.requestBody)
			assert.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "test-req-id"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}
