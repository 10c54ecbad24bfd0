// Package list реализует HTTP-обработчик списка записей на событие.
package list

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
	Registrations []*models.Registration `json:"registrations"`
}

// Handler обрабатывает запросы на получение записей события.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения записей.
type Service interface {
	List(ctx context.Context, eventID string) ([]*models.Registration, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Записи на событие
// @Description Сначала подтверждённые, затем ожидающие и отменённые; внутри группы новые первыми.
// @Tags Registrations
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID события"
// @Success 200 {object} Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /events/{id}/registrations [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registration.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	eventID := chi.URLParam(r, "id")
	registrations, err := h.service.List(r.Context(), eventID)
	if errors.Is(err, storage.ErrEventNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("Evento no encontrado"))
		return
	}
	if err != nil {
		log.Error("failed to list registrations", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.WithDetails("Error al obtener las inscripciones", err))
		return
	}

	render.JSON(w, r, Response{Registrations: registrations})
}
