package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/event-hub/internal/lib/smtp"
	"github.com/magabrotheeeer/event-hub/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect(ctx context.Context) (smtp.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const createdBody = `{"kind":"registration.created","email":"ana@example.com","name":"Ana",` +
	`"event_id":"e-1","event_title":"Noche de Jazz","start_date":"2026-06-10T20:00:00Z",` +
	`"location":"Café Central","status":"CONFIRMED"}`

func TestSenderService_Handle(t *testing.T) {
	tests := []struct {
		name          string
		body          []byte
		setupMocks    func(*MockTransport)
		expectedError bool
		errorMessage  string
	}{
		{
			name: "письмо о записи отправлено",
			body: []byte(createdBody),
			setupMocks: func(t *MockTransport) {
				mockClient := new(MockSMTPClient)
				mockWriter := new(MockSMTPWriter)

				t.On("GetSMTPUser").Return("no-reply@event-hub.local")
				t.On("Connect", mock.Anything).Return(mockClient, nil).Once()
				mockClient.On("Mail", "no-reply@event-hub.local").Return(nil).Once()
				mockClient.On("Rcpt", "ana@example.com").Return(nil).Once()
				mockClient.On("Data").Return(mockWriter, nil).Once()
				mockWriter.On("Write", mock.MatchedBy(func(p []byte) bool {
					msg := string(p)
					return strings.Contains(msg, "Subject: Inscripción recibida: Noche de Jazz") &&
						strings.Contains(msg, "10/06/2026 20:00 UTC")
				})).Return(100, nil).Once()
				mockWriter.On("Close").Return(nil).Once()
				mockClient.On("Quit").Return(nil).Once()
				mockClient.On("Close").Return(nil).Once()
			},
		},
		{
			name:          "некорректный JSON",
			body:          []byte(`invalid json`),
			setupMocks:    func(_ *MockTransport) {},
			expectedError: true,
			errorMessage:  "error unmarshalling message",
		},
		{
			name:       "неизвестный вид уведомления",
			body:       []byte(`{"kind":"registration.unknown","email":"ana@example.com"}`),
			setupMocks: func(_ *MockTransport) {},
		},
		{
			name: "ошибка подключения к SMTP",
			body: []byte(createdBody),
			setupMocks: func(t *MockTransport) {
				t.On("GetSMTPUser").Return("no-reply@event-hub.local")
				t.On("Connect", mock.Anything).Return(nil, errors.New("connection error")).Once()
			},
			expectedError: true,
			errorMessage:  "connection error",
		},
		{
			name: "получатель отклонён",
			body: []byte(createdBody),
			setupMocks: func(t *MockTransport) {
				mockClient := new(MockSMTPClient)
				t.On("GetSMTPUser").Return("no-reply@event-hub.local")
				t.On("Connect", mock.Anything).Return(mockClient, nil).Once()
				mockClient.On("Mail", "no-reply@event-hub.local").Return(nil).Once()
				mockClient.On("Rcpt", "ana@example.com").Return(errors.New("550 mailbox unavailable")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			expectedError: true,
			errorMessage:  "550",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			service := NewSenderService(newNoopLogger(), transport)

			tt.setupMocks(transport)

			err := service.Handle(context.Background(), tt.body)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMessage)
			} else {
				assert.NoError(t, err)
			}

			transport.AssertExpectations(t)
		})
	}
}

func TestRender(t *testing.T) {
	base := models.Notification{
		Name:       "Ana",
		EventTitle: "Hamlet",
		StartDate:  "2026-06-05T19:30:00Z",
		Location:   "Teatro Real",
		Status:     models.RegistrationCancelled,
	}

	tests := []struct {
		kind        string
		wantSubject string
		wantBody    string
	}{
		{models.NotificationCreated, "Inscripción recibida: Hamlet", "Estado: cancelada"},
		{models.NotificationStatus, "Tu inscripción ha cambiado: Hamlet", "es ahora: cancelada"},
		{models.NotificationReminder, "Recordatorio: Hamlet", "05/06/2026 19:30 UTC"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			n := base
			n.Kind = tt.kind
			subject, body, ok := Render(n)
			assert.True(t, ok)
			assert.Equal(t, tt.wantSubject, subject)
			assert.Contains(t, body, tt.wantBody)
			assert.Contains(t, body, "Hola, Ana")
		})
	}

	_, _, ok := Render(models.Notification{Kind: "other"})
	assert.False(t, ok)
}
