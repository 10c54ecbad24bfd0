package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/event-hub/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/event-hub/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) AdvanceEventStatuses(ctx context.Context, now time.Time) ([]string, []string, error) {
	args := m.Called(ctx, now)
	var started, completed []string
	if args.Get(0) != nil {
		started = args.Get(0).([]string)
	}
	if args.Get(1) != nil {
		completed = args.Get(1).([]string)
	}
	return started, completed, args.Error(2)
}

func (m *MockRepository) FindPendingReminders(ctx context.Context, from, to time.Time) ([]*models.Reminder, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reminder), args.Error(1)
}

func (m *MockRepository) MarkReminderSent(ctx context.Context, registrationID string, at time.Time) error {
	args := m.Called(ctx, registrationID, at)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, message any) error {
	args := m.Called(ctx, routingKey, message)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Invalidate(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSchedulerService_Tick(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	window := 24 * time.Hour
	reminder := &models.Reminder{
		RegistrationID: "reg-1",
		Notification: models.Notification{
			Kind:       models.NotificationReminder,
			Email:      "ana@example.com",
			EventTitle: "Noche de Jazz",
		},
	}

	tests := []struct {
		name       string
		setupMocks func(r *MockRepository, p *MockPublisher, c *MockCache)
	}{
		{
			name: "переход статусов и напоминание",
			setupMocks: func(r *MockRepository, p *MockPublisher, c *MockCache) {
				r.On("AdvanceEventStatuses", mock.Anything, now).Return([]string{"e-1"}, []string{"e-2", "e-3"}, nil).Once()
				c.On("Invalidate", mock.Anything, []string{
					"events:list:all", "events:list:published", "event:e-1", "event:e-2", "event:e-3",
				}).Return(nil).Once()
				r.On("FindPendingReminders", mock.Anything, now, now.Add(window)).
					Return([]*models.Reminder{reminder}, nil).Once()
				p.On("Publish", mock.Anything, rabbitmq.RemindersKey, reminder.Notification).Return(nil).Once()
				r.On("MarkReminderSent", mock.Anything, "reg-1", now).Return(nil).Once()
			},
		},
		{
			name: "сбой кэша не мешает напоминаниям",
			setupMocks: func(r *MockRepository, p *MockPublisher, c *MockCache) {
				r.On("AdvanceEventStatuses", mock.Anything, now).Return([]string{}, []string{"e-9"}, nil).Once()
				c.On("Invalidate", mock.Anything, []string{"events:list:all", "events:list:published", "event:e-9"}).
					Return(errors.New("redis down")).Once()
				r.On("FindPendingReminders", mock.Anything, now, now.Add(window)).
					Return([]*models.Reminder{reminder}, nil).Once()
				p.On("Publish", mock.Anything, rabbitmq.RemindersKey, reminder.Notification).Return(nil).Once()
				r.On("MarkReminderSent", mock.Anything, "reg-1", now).Return(nil).Once()
			},
		},
		{
			name: "без изменений кэш не сбрасывается",
			setupMocks: func(r *MockRepository, _ *MockPublisher, _ *MockCache) {
				r.On("AdvanceEventStatuses", mock.Anything, now).Return([]string{}, []string{}, nil).Once()
				r.On("FindPendingReminders", mock.Anything, now, now.Add(window)).
					Return([]*models.Reminder{}, nil).Once()
			},
		},
		{
			name: "ошибка публикации не помечает напоминание",
			setupMocks: func(r *MockRepository, p *MockPublisher, _ *MockCache) {
				r.On("AdvanceEventStatuses", mock.Anything, now).Return([]string{}, []string{}, errors.New("db down")).Once()
				r.On("FindPendingReminders", mock.Anything, now, now.Add(window)).
					Return([]*models.Reminder{reminder}, nil).Once()
				p.On("Publish", mock.Anything, rabbitmq.RemindersKey, reminder.Notification).
					Return(errors.New("channel closed")).Once()
			},
		},
		{
			name: "ошибка поиска напоминаний",
			setupMocks: func(r *MockRepository, _ *MockPublisher, _ *MockCache) {
				r.On("AdvanceEventStatuses", mock.Anything, now).Return([]string{}, []string{}, nil).Once()
				r.On("FindPendingReminders", mock.Anything, now, now.Add(window)).
					Return(nil, errors.New("db down")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, pub, c := new(MockRepository), new(MockPublisher), new(MockCache)
			tt.setupMocks(repo, pub, c)

			NewSchedulerService(repo, pub, c, newNoopLogger(), window).Tick(context.Background(), now)

			repo.AssertExpectations(t)
			pub.AssertExpectations(t)
			c.AssertExpectations(t)
			if tt.name == "ошибка публикации не помечает напоминание" {
				repo.AssertNotCalled(t, "MarkReminderSent", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestSchedulerService_RunStopsOnCancel(t *testing.T) {
	repo, pub, c := new(MockRepository), new(MockPublisher), new(MockCache)
	repo.On("AdvanceEventStatuses", mock.Anything, mock.Anything).Return([]string{}, []string{}, nil)
	repo.On("FindPendingReminders", mock.Anything, mock.Anything, mock.Anything).Return([]*models.Reminder{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewSchedulerService(repo, pub, c, newNoopLogger(), time.Hour).Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
	assert.GreaterOrEqual(t, len(repo.Calls), 2)
}
