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
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/event-hub/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardStats), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestDashboardService_Stats(t *testing.T) {
	popular := "Arte"
	stats := &models.DashboardStats{TotalEvents: 4, PublishedEvents: 2, PopularCategory: &popular}

	t.Run("из базы с записью в кэш", func(t *testing.T) {
		repo, c := new(RepoMock), new(CacheMock)
		c.On("Get", mock.Anything, "dashboard:stats", mock.Anything).Return(false, errors.New("redis down")).Once()
		repo.On("DashboardStats", mock.Anything).Return(stats, nil).Once()
		c.On("Set", mock.Anything, "dashboard:stats", stats, time.Duration(0)).Return(nil).Once()

		got, err := NewDashboardService(repo, c, newNoopLogger()).Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, stats, got)
		c.AssertExpectations(t)
	})

	t.Run("из кэша", func(t *testing.T) {
		repo, c := new(RepoMock), new(CacheMock)
		c.On("Get", mock.Anything, "dashboard:stats", mock.Anything).
			Run(func(args mock.Arguments) {
				*args.Get(2).(*models.DashboardStats) = models.DashboardStats{TotalEvents: 1}
			}).Return(true, nil).Once()

		got, err := NewDashboardService(repo, c, newNoopLogger()).Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, got.TotalEvents)
		assert.Nil(t, got.PopularCategory)
		repo.AssertNotCalled(t, "DashboardStats", mock.Anything)
	})

	t.Run("ошибка базы", func(t *testing.T) {
		repo, c := new(RepoMock), new(CacheMock)
		c.On("Get", mock.Anything, "dashboard:stats", mock.Anything).Return(false, nil).Once()
		repo.On("DashboardStats", mock.Anything).Return(nil, errors.New("db down")).Once()

		_, err := NewDashboardService(repo, c, newNoopLogger()).Stats(context.Background())
		require.Error(t, err)
	})
}
