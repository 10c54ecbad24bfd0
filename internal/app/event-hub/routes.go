package eventhub

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/event-hub/internal/config"
	"github.com/magabrotheeeer/event-hub/internal/http/handlers/auth/login"
	categorylist "github.com/magabrotheeeer/event-hub/internal/http/handlers/category/list"
	"github.com/magabrotheeeer/event-hub/internal/http/handlers/dashboard/stats"
	eventcreate "github.com/magabrotheeeer/event-hub/internal/http/handlers/event/create"
	eventlist "github.com/magabrotheeeer/event-hub/internal/http/handlers/event/list"
	"github.com/magabrotheeeer/event-hub/internal/http/handlers/event/publish"
	eventread "github.com/magabrotheeeer/event-hub/internal/http/handlers/event/read"
	eventremove "github.com/magabrotheeeer/event-hub/internal/http/handlers/event/remove"
	eventupdate "github.com/magabrotheeeer/event-hub/internal/http/handlers/event/update"
	eventtypelist "github.com/magabrotheeeer/event-hub/internal/http/handlers/eventtype/list"
	"github.com/magabrotheeeer/event-hub/internal/http/handlers/health"
	postlist "github.com/magabrotheeeer/event-hub/internal/http/handlers/post/list"
	registrationcreate "github.com/magabrotheeeer/event-hub/internal/http/handlers/registration/create"
	registrationlist "github.com/magabrotheeeer/event-hub/internal/http/handlers/registration/list"
	"github.com/magabrotheeeer/event-hub/internal/http/handlers/registration/register"
	registrationremove "github.com/magabrotheeeer/event-hub/internal/http/handlers/registration/remove"
	registrationupdate "github.com/magabrotheeeer/event-hub/internal/http/handlers/registration/update"
	"github.com/magabrotheeeer/event-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/event-hub/internal/models"
	authservice "github.com/magabrotheeeer/event-hub/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/event-hub/internal/services/catalog"
	dashboardservice "github.com/magabrotheeeer/event-hub/internal/services/dashboard"
	eventservice "github.com/magabrotheeeer/event-hub/internal/services/event"
	registrationservice "github.com/magabrotheeeer/event-hub/internal/services/registration"

	// Регистрация swagger-спецификации.
	_ "github.com/magabrotheeeer/event-hub/docs"
)

// Services бизнес-сервисы, которые обслуживают маршруты.
type Services struct {
	Events        *eventservice.EventService
	Registrations *registrationservice.RegistrationService
	Catalog       *catalogservice.CatalogService
	Dashboard     *dashboardservice.DashboardService
	Auth          *authservice.AuthService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	cfg *config.Config,
	s Services,
	tokens middlewarectx.TokenParser,
	db health.Pinger,
	cacheRedis health.Pinger,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.MetricsMiddleware,
	)

	admin := func(r chi.Router) {
		if cfg.Auth.Enabled {
			r.Use(middlewarectx.JWTMiddleware(tokens, logger))
			r.Use(middlewarectx.RequireRole(models.RoleAdmin, logger))
		}
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	limited := middlewarectx.RateLimitMiddleware(limiter, logger)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/events", eventlist.New(logger, s.Events).ServeHTTP)
		r.Get("/events/{id}", eventread.New(logger, s.Events).ServeHTTP)
		r.With(limited).Post("/events/{id}/register", register.New(logger, s.Registrations).ServeHTTP)
		r.With(limited).Post("/events/{id}/registrations", registrationcreate.New(logger, s.Registrations).ServeHTTP)
		r.Get("/event-types", eventtypelist.New(logger, s.Catalog).ServeHTTP)
		r.Get("/categories", categorylist.New(logger, s.Catalog).ServeHTTP)
		r.Get("/posts", postlist.New(logger, s.Catalog).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)

		// Административные конечные точки
		r.Group(func(r chi.Router) {
			admin(r)
			r.Post("/events", eventcreate.New(logger, s.Events).ServeHTTP)
			r.Put("/events/{id}", eventupdate.New(logger, s.Events).ServeHTTP)
			r.Patch("/events/{id}/publish", publish.New(logger, s.Events).ServeHTTP)
			r.Delete("/events/{id}", eventremove.New(logger, s.Events).ServeHTTP)
			r.Get("/events/{id}/registrations", registrationlist.New(logger, s.Registrations).ServeHTTP)
			r.Patch("/events/{id}/registrations/{registrationId}", registrationupdate.New(logger, s.Registrations).ServeHTTP)
			r.Delete("/events/{id}/registrations/{registrationId}", registrationremove.New(logger, s.Registrations).ServeHTTP)
			r.Get("/dashboard/stats", stats.New(logger, s.Dashboard).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, map[string]health.Pinger{
		"postgres": db,
		"redis":    cacheRedis,
	}).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
