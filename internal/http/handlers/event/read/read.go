// Package read реализует HTTP-обработчик получения карточки события.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/event-hub/internal/http/response"
	"github.com/magabrotheeeer/event-hub/internal/lib/sl"
	"github.com/magabrotheeeer/event-hub/internal/models"
	"github.com/magabrotheeeer/event-hub/internal/storage"
)

// Response тело успешного ответа.
type Response struct {
	Event *models.Event `json:"event"`
}

// Handler обрабатывает запросы на чтение события.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения события.
type Service interface {
	Get(ctx context.Context, id string) (*models.Event, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить событие
// @Description Возвращает событие с организатором, категориями, типом и записями участников.
// @Tags Events
// @Produce  json
// @Param id path string true "ID события"
// @Success 200 {object} Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /events/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	event, err := h.service.Get(r.Context(), id)
	if errors.Is(err, storage.ErrEventNotFound) {
		log.Info("event not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("Evento no encontrado"))
		return
	}
	if err != nil {
		log.Error("failed to read event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.WithDetails("Error al obtener el evento", err))
		return
	}

	render.JSON(w, r, Response{Event: event})
}
