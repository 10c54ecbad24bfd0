// Package services содержит бизнес-логику событий: список с фильтрами,
// создание, изменение, публикацию и удаление с кэшированием в Redis.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/event-hub/internal/cache"
	"github.com/magabrotheeeer/event-hub/internal/lib/sl"
	"github.com/magabrotheeeer/event-hub/internal/models"
)

// EventRepository методы хранилища, нужные сервису событий.
type EventRepository interface {
	ListEvents(ctx context.Context, publishedOnly bool) ([]*models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	CreateEvent(ctx context.Context, e models.Event, categoryIDs []string) (*models.Event, error)
	UpdateEvent(ctx context.Context, id string, e models.Event, flags models.EventFlags, categoryIDs []string) (*models.Event, error)
	SetPublished(ctx context.Context, id string, published bool) (*models.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// EventService реализует бизнес-логику событий.
type EventService struct {
	repo               EventRepository
	cache              Cache
	log                *slog.Logger
	defaultOrganizerID string
}

// NewEventService создает новый экземпляр EventService. defaultOrganizerID назначается
// событиям, созданным без аутентифицированного пользователя.
func NewEventService(repo EventRepository, cache Cache, log *slog.Logger, defaultOrganizerID string) *EventService {
	return &EventService{
		repo:               repo,
		cache:              cache,
		log:                log,
		defaultOrganizerID: defaultOrganizerID,
	}
}

// List возвращает события, отфильтрованные и отсортированные по filter.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
	key := cache.EventListKey(filter.PublishedOnly)

	var events []*models.Event
	found, err := s.cache.Get(ctx, key, &events)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	}
	if !found {
		events, err = s.repo.ListEvents(ctx, filter.PublishedOnly)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, events, 0); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
		}
	}

	return FilterEvents(events, filter), nil
}

// Get возвращает событие с записями, используя кэш.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	key := cache.EventKey(id)

	var event *models.Event
	found, err := s.cache.Get(ctx, key, &event)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	}
	if found && event != nil {
		return event, nil
	}

	event, err = s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, event, 0); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
	}
	return event, nil
}

// Create создаёт событие. Если organizerID пуст, организатором становится
// организатор по умолчанию.
func (s *EventService) Create(ctx context.Context, organizerID string, req models.DummyEvent) (*models.Event, error) {
	event, err := buildEvent(req)
	if err != nil {
		return nil, err
	}
	event.OrganizerID = organizerID
	if event.OrganizerID == "" {
		event.OrganizerID = s.defaultOrganizerID
	}

	created, err := s.repo.CreateEvent(ctx, event, req.CategoryIDs)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new event", slog.String("id", created.ID))

	s.invalidate(ctx, created.ID)
	return created, nil
}

// Update заменяет поля события и его категории. Published, allowRegistration и status,
// не переданные в запросе, сохраняют текущие значения.
func (s *EventService) Update(ctx context.Context, id string, req models.DummyEvent) (*models.Event, error) {
	event, err := buildEvent(req)
	if err != nil {
		return nil, err
	}
	flags := models.EventFlags{
		Published:         req.Published,
		AllowRegistration: req.AllowRegistration,
	}
	if req.Status != "" {
		flags.Status = &req.Status
	}

	updated, err := s.repo.UpdateEvent(ctx, id, event, flags, req.CategoryIDs)
	if err != nil {
		return nil, err
	}
	s.log.Info("updated event", slog.String("id", id))

	s.invalidate(ctx, id)
	return updated, nil
}

// SetPublished публикует событие или снимает его с публикации.
func (s *EventService) SetPublished(ctx context.Context, id string, published bool) (*models.Event, error) {
	event, err := s.repo.SetPublished(ctx, id, published)
	if err != nil {
		return nil, err
	}
	s.log.Info("changed event publication", slog.String("id", id), slog.Bool("published", published))

	s.invalidate(ctx, id)
	return event, nil
}

// Remove удаляет событие вместе с записями на него.
func (s *EventService) Remove(ctx context.Context, id string) error {
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.log.Info("removed event", slog.String("id", id))

	s.invalidate(ctx, id)
	return nil
}

func (s *EventService) invalidate(ctx context.Context, id string) {
	keys := append(cache.EventKeys(id), cache.DashboardStatsKey)
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("event_id", id), sl.Err(err))
	}
}

// buildEvent переводит тело запроса в модель события, подставляя значения по умолчанию.
func buildEvent(req models.DummyEvent) (models.Event, error) {
	startDate, err := ParseDate(req.StartDate)
	if err != nil {
		return models.Event{}, err
	}

	event := models.Event{
		Title:             strings.TrimSpace(req.Title),
		Description:       req.Description,
		Image:             req.Image,
		StartDate:         startDate,
		Time:              req.Time,
		Location:          req.Location,
		Address:           req.Address,
		City:              req.City,
		Price:             req.Price,
		Capacity:          req.Capacity,
		AllowRegistration: true,
		Status:            models.EventUpcoming,
		EventTypeID:       req.EventTypeID,
	}
	if req.EndDate != "" {
		endDate, err := ParseDate(req.EndDate)
		if err != nil {
			return models.Event{}, err
		}
		event.EndDate = &endDate
	}
	if req.Published != nil {
		event.Published = *req.Published
	}
	if req.AllowRegistration != nil {
		event.AllowRegistration = *req.AllowRegistration
	}
	if req.Status != "" {
		event.Status = req.Status
	}
	return event, nil
}

// ParseDate разбирает дату в формате RFC3339 или YYYY-MM-DD (полночь UTC).
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%q: %w", value, models.ErrInvalidDate)
}
