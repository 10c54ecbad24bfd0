// Package services содержит бизнес-логику записей на события: регистрацию участников,
// создание записей по контактным данным и управление их статусами.
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/event-hub/internal/cache"
	"github.com/magabrotheeeer/event-hub/internal/lib/metrics"
	"github.com/magabrotheeeer/event-hub/internal/lib/password"
	"github.com/magabrotheeeer/event-hub/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/event-hub/internal/lib/sl"
	"github.com/magabrotheeeer/event-hub/internal/models"
	"github.com/magabrotheeeer/event-hub/internal/storage"
)

// Значения метки endpoint для метрики записей.
const (
	EndpointRegister      = "register"
	EndpointRegistrations = "registrations"
)

// RegistrationRepository методы хранилища, нужные сервису записей.
type RegistrationRepository interface {
	RegisterAttendee(ctx context.Context, eventID string, a models.NewAttendee) (*models.AttendeeResult, error)
	CreateRegistration(ctx context.Context, eventID string, r models.Registration) (*models.Registration, error)
	ListRegistrations(ctx context.Context, eventID string) ([]*models.Registration, error)
	UpdateRegistrationStatus(ctx context.Context, eventID, registrationID, status string) (*models.Registration, error)
	DeleteRegistration(ctx context.Context, eventID, registrationID string) error
	GetEventBrief(ctx context.Context, id string) (*models.Event, error)
}

// Publisher публикует уведомления в брокер сообщений.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Cache сбрасывает устаревшие ключи кэша.
type Cache interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// RegistrationService реализует бизнес-логику записей на события.
type RegistrationService struct {
	repo            RegistrationRepository
	publisher       Publisher
	cache           Cache
	log             *slog.Logger
	placeholderHash func() (string, error)
}

// NewRegistrationService создает новый экземпляр RegistrationService.
func NewRegistrationService(repo RegistrationRepository, publisher Publisher, cache Cache, log *slog.Logger) *RegistrationService {
	return &RegistrationService{
		repo:            repo,
		publisher:       publisher,
		cache:           cache,
		log:             log,
		placeholderHash: password.PlaceholderHash,
	}
}

// Register записывает участника на событие по userId или email. Возвращает запись и признак
// того, что была восстановлена ранее отменённая запись.
func (s *RegistrationService) Register(ctx context.Context, eventID string, req models.AttendeeRequest) (*models.AttendeeResult, error) {
	attendee := models.NewAttendee{
		UserID: strings.TrimSpace(req.UserID),
		Email:  strings.TrimSpace(req.Email),
		Name:   strings.TrimSpace(req.Name),
	}
	// Наличие userId или email проверяет репозиторий, после проверок события.
	if attendee.UserID == "" && attendee.Email != "" && attendee.Name != "" {
		hash, err := s.placeholderHash()
		if err != nil {
			metrics.RegistrationsTotal.WithLabelValues(EndpointRegister, metrics.OutcomeError).Inc()
			return nil, err
		}
		attendee.PlaceholderHash = hash
	}

	result, err := s.repo.RegisterAttendee(ctx, eventID, attendee)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(EndpointRegister, outcomeFor(err)).Inc()
		return nil, err
	}

	outcome := metrics.OutcomeCreated
	if result.Reactivated {
		outcome = metrics.OutcomeReactivated
	}
	metrics.RegistrationsTotal.WithLabelValues(EndpointRegister, outcome).Inc()
	s.log.Info("attendee registered",
		slog.String("event_id", eventID),
		slog.String("registration_id", result.Registration.ID),
		slog.Bool("reactivated", result.Reactivated))

	s.invalidate(ctx, eventID)
	s.notify(ctx, eventID, models.NotificationCreated, result.Registration)
	return result, nil
}

// Create создаёт запись по контактным данным. Статус по умолчанию PENDING.
func (s *RegistrationService) Create(ctx context.Context, eventID string, req models.DummyRegistration) (*models.Registration, error) {
	status := req.Status
	if status == "" {
		status = models.RegistrationPending
	}
	if !models.ValidRegistrationStatus(status) {
		metrics.RegistrationsTotal.WithLabelValues(EndpointRegistrations, metrics.OutcomeRejected).Inc()
		return nil, models.ErrInvalidStatus
	}

	reg, err := s.repo.CreateRegistration(ctx, eventID, models.Registration{
		UserID: req.UserID,
		Name:   strings.TrimSpace(req.Name),
		Email:  strings.TrimSpace(req.Email),
		Phone:  req.Phone,
		City:   req.City,
		Notes:  req.Notes,
		Status: status,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(EndpointRegistrations, outcomeFor(err)).Inc()
		return nil, err
	}
	metrics.RegistrationsTotal.WithLabelValues(EndpointRegistrations, metrics.OutcomeCreated).Inc()
	s.log.Info("registration created", slog.String("event_id", eventID), slog.String("registration_id", reg.ID))

	s.invalidate(ctx, eventID)
	s.notify(ctx, eventID, models.NotificationCreated, reg)
	return reg, nil
}

// List возвращает записи на событие.
func (s *RegistrationService) List(ctx context.Context, eventID string) ([]*models.Registration, error) {
	return s.repo.ListRegistrations(ctx, eventID)
}

// UpdateStatus меняет статус записи. Разрешён любой переход между допустимыми статусами.
func (s *RegistrationService) UpdateStatus(ctx context.Context, eventID, registrationID, status string) (*models.Registration, error) {
	if !models.ValidRegistrationStatus(status) {
		return nil, models.ErrInvalidStatus
	}

	reg, err := s.repo.UpdateRegistrationStatus(ctx, eventID, registrationID, status)
	if err != nil {
		return nil, err
	}
	s.log.Info("registration status changed",
		slog.String("event_id", eventID),
		slog.String("registration_id", registrationID),
		slog.String("status", status))

	s.invalidate(ctx, eventID)
	s.notify(ctx, eventID, models.NotificationStatus, reg)
	return reg, nil
}

// Remove удаляет запись, принадлежащую событию.
func (s *RegistrationService) Remove(ctx context.Context, eventID, registrationID string) error {
	if err := s.repo.DeleteRegistration(ctx, eventID, registrationID); err != nil {
		return err
	}
	s.log.Info("registration removed", slog.String("event_id", eventID), slog.String("registration_id", registrationID))

	s.invalidate(ctx, eventID)
	return nil
}

func (s *RegistrationService) invalidate(ctx context.Context, eventID string) {
	keys := append(cache.EventKeys(eventID), cache.DashboardStatsKey)
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("event_id", eventID), sl.Err(err))
	}
}

// notify публикует уведомление о записи. Ошибки только логируются.
func (s *RegistrationService) notify(ctx context.Context, eventID, kind string, reg *models.Registration) {
	event, err := s.repo.GetEventBrief(ctx, eventID)
	if err != nil {
		s.log.Warn("failed to load event for notification", slog.String("event_id", eventID), sl.Err(err))
		metrics.NotificationsTotal.WithLabelValues(kind, "failed").Inc()
		return
	}

	msg := NewNotification(kind, event, reg)
	if err := s.publisher.Publish(ctx, rabbitmq.RegistrationsKey, msg); err != nil {
		s.log.Warn("failed to publish notification", slog.String("kind", kind), sl.Err(err))
		metrics.NotificationsTotal.WithLabelValues(kind, "failed").Inc()
		return
	}
	metrics.NotificationsTotal.WithLabelValues(kind, "published").Inc()
}

// NewNotification собирает сообщение для очереди уведомлений из события и записи.
func NewNotification(kind string, event *models.Event, reg *models.Registration) models.Notification {
	return models.Notification{
		Kind:       kind,
		Email:      reg.Email,
		Name:       reg.Name,
		EventID:    event.ID,
		EventTitle: event.Title,
		StartDate:  event.StartDate.UTC().Format(time.RFC3339),
		Location:   event.Location,
		Status:     reg.Status,
	}
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, storage.ErrEventNotFound),
		errors.Is(err, storage.ErrEventCancelled),
		errors.Is(err, storage.ErrEventFull),
		errors.Is(err, storage.ErrRegistrationClosed),
		errors.Is(err, storage.ErrAlreadyRegistered),
		errors.Is(err, storage.ErrUserNotFound),
		errors.Is(err, storage.ErrNameRequired),
		errors.Is(err, storage.ErrIdentityRequired),
		errors.Is(err, storage.ErrInvalidReference):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
