// Package services содержит фоновые задачи: перевод событий по статусам
// и рассылку напоминаний о предстоящих событиях.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/event-hub/internal/cache"
	"github.com/magabrotheeeer/event-hub/internal/lib/metrics"
	"github.com/magabrotheeeer/event-hub/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/event-hub/internal/lib/sl"
	"github.com/magabrotheeeer/event-hub/internal/models"
)

// EventRepository методы хранилища, нужные планировщику.
type EventRepository interface {
	AdvanceEventStatuses(ctx context.Context, now time.Time) (started, completed []string, err error)
	FindPendingReminders(ctx context.Context, from, to time.Time) ([]*models.Reminder, error)
	MarkReminderSent(ctx context.Context, registrationID string, at time.Time) error
}

// Publisher публикует уведомления в брокер сообщений.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Cache сбрасывает устаревшие ключи кэша.
type Cache interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// SchedulerService периодически обновляет статусы событий и рассылает напоминания.
type SchedulerService struct {
	repo           EventRepository
	publisher      Publisher
	cache          Cache
	log            *slog.Logger
	reminderWindow time.Duration
}

// NewSchedulerService создает новый экземпляр SchedulerService. Напоминания отправляются
// по событиям, которые начнутся в течение reminderWindow.
func NewSchedulerService(repo EventRepository, publisher Publisher, cache Cache, log *slog.Logger, reminderWindow time.Duration) *SchedulerService {
	return &SchedulerService{
		repo:           repo,
		publisher:      publisher,
		cache:          cache,
		log:            log,
		reminderWindow: reminderWindow,
	}
}

// Run выполняет Tick сразу и затем каждые interval, пока не отменён ctx.
func (s *SchedulerService) Run(ctx context.Context, interval time.Duration) {
	s.Tick(ctx, time.Now().UTC())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case t := <-ticker.C:
			s.Tick(ctx, t.UTC())
		}
	}
}

// Tick выполняет один проход планировщика на момент now.
func (s *SchedulerService) Tick(ctx context.Context, now time.Time) {
	s.advanceStatuses(ctx, now)
	s.sendReminders(ctx, now)
}

func (s *SchedulerService) advanceStatuses(ctx context.Context, now time.Time) {
	started, completed, err := s.repo.AdvanceEventStatuses(ctx, now)
	if err != nil {
		s.log.Error("failed to advance event statuses", sl.Err(err))
		return
	}
	if len(started) == 0 && len(completed) == 0 {
		return
	}

	metrics.EventStatusTransitions.WithLabelValues(models.EventOngoing).Add(float64(len(started)))
	metrics.EventStatusTransitions.WithLabelValues(models.EventCompleted).Add(float64(len(completed)))
	s.log.Info("advanced event statuses", slog.Int("started", len(started)), slog.Int("completed", len(completed)))

	keys := []string{cache.EventListAllKey, cache.EventListPublishedKey}
	for _, id := range append(started, completed...) {
		keys = append(keys, cache.EventKey(id))
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("failed to invalidate cache", sl.Err(err))
	}
}

func (s *SchedulerService) sendReminders(ctx context.Context, now time.Time) {
	reminders, err := s.repo.FindPendingReminders(ctx, now, now.Add(s.reminderWindow))
	if err != nil {
		s.log.Error("failed to find reminders", sl.Err(err))
		return
	}
	if len(reminders) == 0 {
		return
	}
	s.log.Info("found pending reminders", "count", len(reminders))

	for _, r := range reminders {
		if err := s.publisher.Publish(ctx, rabbitmq.RemindersKey, r.Notification); err != nil {
			s.log.Error("failed to publish reminder", slog.String("registration_id", r.RegistrationID), sl.Err(err))
			metrics.NotificationsTotal.WithLabelValues(models.NotificationReminder, "failed").Inc()
			continue
		}
		metrics.NotificationsTotal.WithLabelValues(models.NotificationReminder, "published").Inc()

		if err := s.repo.MarkReminderSent(ctx, r.RegistrationID, now); err != nil {
			s.log.Error("failed to mark reminder sent", slog.String("registration_id", r.RegistrationID), sl.Err(err))
		}
	}
}
