// Package services считает статистику для панели администратора.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/event-hub/internal/cache"
	"github.com/magabrotheeeer/event-hub/internal/lib/sl"
	"github.com/magabrotheeeer/event-hub/internal/models"
)

// StatsRepository источник агрегированной статистики.
type StatsRepository interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// DashboardService отдаёт статистику, кэшируя её до ближайшего изменения событий.
type DashboardService struct {
	repo  StatsRepository
	cache Cache
	log   *slog.Logger
}

// NewDashboardService создает новый экземпляр DashboardService.
func NewDashboardService(repo StatsRepository, cache Cache, log *slog.Logger) *DashboardService {
	return &DashboardService{repo: repo, cache: cache, log: log}
}

// Stats возвращает количество событий, опубликованных событий и популярную категорию.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	found, err := s.cache.Get(ctx, cache.DashboardStatsKey, &stats)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cache.DashboardStatsKey), sl.Err(err))
	}
	if found {
		return &stats, nil
	}

	res, err := s.repo.DashboardStats(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cache.DashboardStatsKey, res, 0); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cache.DashboardStatsKey), sl.Err(err))
	}
	return res, nil
}
