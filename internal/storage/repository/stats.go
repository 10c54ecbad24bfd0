package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/event-hub/internal/models"
)

// DashboardStats считает общее число событий, число опубликованных и самую
// популярную категорию. При равенстве числа событий выбирается категория,
// первая по имени.
func (s *Storage) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	const op = "storage.DashboardStats"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{}
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE published) FROM events`,
	).Scan(&stats.TotalEvents, &stats.PublishedEvents); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var name string
	err := s.DB.QueryRowContext(ctx,
		`SELECT c.name
		 FROM event_categories ec
		 JOIN categories c ON c.id = ec.category_id
		 GROUP BY c.id, c.name
		 ORDER BY COUNT(*) DESC, c.name ASC
		 LIMIT 1`).Scan(&name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	default:
		stats.PopularCategory = &name
	}
	return stats, nil
}
