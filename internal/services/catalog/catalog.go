// Package services отдаёт справочники типов событий и категорий, а также посты блога.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/event-hub/internal/cache"
	"github.com/magabrotheeeer/event-hub/internal/lib/sl"
	"github.com/magabrotheeeer/event-hub/internal/models"
)

// CatalogRepository методы хранилища для справочников и блога.
type CatalogRepository interface {
	ListEventTypes(ctx context.Context) ([]models.EventType, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListPublishedPosts(ctx context.Context) ([]*models.Post, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// CatalogService реализует чтение справочников с кэшированием.
type CatalogService struct {
	repo  CatalogRepository
	cache Cache
	log   *slog.Logger
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo CatalogRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// EventTypes возвращает типы событий по алфавиту.
func (s *CatalogService) EventTypes(ctx context.Context) ([]models.EventType, error) {
	return cached(ctx, s, cache.EventTypesKey, s.repo.ListEventTypes)
}

// Categories возвращает категории по алфавиту.
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return cached(ctx, s, cache.CategoriesKey, s.repo.ListCategories)
}

// Posts возвращает опубликованные посты, новые первыми. Не кэшируется.
func (s *CatalogService) Posts(ctx context.Context) ([]*models.Post, error) {
	return s.repo.ListPublishedPosts(ctx)
}

func cached[T any](ctx context.Context, s *CatalogService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	var items []T
	found, err := s.cache.Get(ctx, key, &items)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return items, nil
	}

	items, err = load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, items, 0); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
	}
	return items, nil
}
