// Package list реализует HTTP-обработчик списка событий с фильтрами из query-строки.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/event-hub/internal/http/response"
	"github.com/magabrotheeeer/event-hub/internal/lib/sl"
	"github.com/magabrotheeeer/event-hub/internal/models"
)

// Response тело успешного ответа.
type Response struct {
	Events []*models.Event `json:"events"`
}

// Handler обрабатывает запросы на получение списка событий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения списка событий.
type Service interface {
	List(ctx context.Context, filter models.EventFilter) ([]*models.Event, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список событий
// @Description Возвращает события с организатором, категориями, типом и числом записей.
// @Tags Events
// @Produce  json
// @Param published query bool false "Только опубликованные"
// @Param q query string false "Поиск по названию, описанию и месту"
// @Param eventType query string false "ID типа события"
// @Param category query string false "ID или название категории"
// @Param city query string false "Город (подстрока)"
// @Param free query bool false "Только бесплатные"
// @Param sort query string false "date-asc | date-desc | price-asc | price-desc | popular"
// @Success 200 {object} Response
// @Failure 500 {object} response.ErrorResponse
// @Router /events [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := ParseFilter(r)
	events, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list events", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.WithDetails("Error al obtener eventos", err))
		return
	}

	log.Info("events listed", slog.Int("count", len(events)))
	render.JSON(w, r, Response{Events: events})
}

// ParseFilter читает параметры фильтрации из query-строки. Некорректные булевы
// значения считаются false.
func ParseFilter(r *http.Request) models.EventFilter {
	q := r.URL.Query()
	published, _ := strconv.ParseBool(q.Get("published"))
	free, _ := strconv.ParseBool(q.Get("free"))
	return models.EventFilter{
		PublishedOnly: published,
		Query:         q.Get("q"),
		EventType:     q.Get("eventType"),
		Category:      q.Get("category"),
		City:          q.Get("city"),
		FreeOnly:      free,
		Sort:          q.Get("sort"),
	}
}
