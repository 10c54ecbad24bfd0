// Package eventhub собирает HTTP-сервис событий: хранилище, кэш, брокер и маршруты.
package eventhub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/event-hub/internal/cache"
	"github.com/magabrotheeeer/event-hub/internal/config"
	"github.com/magabrotheeeer/event-hub/internal/lib/jwt"
	"github.com/magabrotheeeer/event-hub/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/event-hub/internal/lib/sl"
	"github.com/magabrotheeeer/event-hub/internal/migrations"
	authservice "github.com/magabrotheeeer/event-hub/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/event-hub/internal/services/catalog"
	dashboardservice "github.com/magabrotheeeer/event-hub/internal/services/dashboard"
	eventservice "github.com/magabrotheeeer/event-hub/internal/services/event"
	registrationservice "github.com/magabrotheeeer/event-hub/internal/services/registration"
	"github.com/magabrotheeeer/event-hub/internal/storage/repository"
)

// App HTTP-приложение со всеми открытыми ресурсами.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New подключается к зависимостям, применяет миграции, создаёт организатора
// по умолчанию и собирает роутер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker)

	organizerID, err := authService.EnsureOrganizer(ctx, cfg.OrganizerName, cfg.OrganizerEmail, cfg.OrganizerPassword)
	if err != nil {
		a := &App{logger: logger, db: db, cache: cacheRedis, conn: conn, ch: ch}
		a.close()
		return nil, fmt.Errorf("failed to ensure default organizer: %w", err)
	}
	logger.Info("default organizer ready", slog.String("id", organizerID))

	services := Services{
		Events:        eventservice.NewEventService(db, cacheRedis, logger, organizerID),
		Registrations: registrationservice.NewRegistrationService(db, rabbitmq.NewPublisher(ch), cacheRedis, logger),
		Catalog:       catalogservice.NewCatalogService(db, cacheRedis, logger),
		Dashboard:     dashboardservice.NewDashboardService(db, cacheRedis, logger),
		Auth:          authService,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, services, jwtMaker, db, cacheRedis)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает сервер и завершает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
