// Package list реализует HTTP-обработчик справочника типов событий.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/event-hub/internal/http/response"
	"github.com/magabrotheeeer/event-hub/internal/lib/sl"
	"github.com/magabrotheeeer/event-hub/internal/models"
)

// Response тело успешного ответа.
type Response struct {
	EventTypes []models.EventType `json:"eventTypes"`
}

// Handler обрабатывает запросы на получение типов событий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения типов событий.
type Service interface {
	EventTypes(ctx context.Context) ([]models.EventType, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Типы событий
// @Tags Catalog
// @Produce  json
// @Success 200 {object} Response
// @Failure 500 {object} response.ErrorResponse
// @Router /event-types [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.eventtype.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	types, err := h.service.EventTypes(r.Context())
	if err != nil {
		log.Error("failed to list event types", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.WithDetails("Error al obtener tipos de eventos", err))
		return
	}
	render.JSON(w, r, Response{EventTypes: types})
}
