// Package update реализует HTTP-обработчик полного обновления события,
// включая замену набора категорий.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/event-hub/internal/http/response"
	"github.com/magabrotheeeer/event-hub/internal/lib/sl"
	"github.com/magabrotheeeer/event-hub/internal/lib/validate"
	"github.com/magabrotheeeer/event-hub/internal/models"
	"github.com/magabrotheeeer/event-hub/internal/storage"
)

// Response тело успешного ответа.
type Response struct {
	Event *models.Event `json:"event"`
}

// Handler обрабатывает запросы на обновление события.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления события.
type Service interface {
	Update(ctx context.Context, id string, req models.DummyEvent) (*models.Event, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить событие
// @Description Заменяет все поля события и его категории.
// @Tags Events
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID события"
// @Param request body models.DummyEvent true "Новые данные события"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /events/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req models.DummyEvent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.WithDetails("Cuerpo de la solicitud no válido", err))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError("Faltan campos requeridos para actualizar el evento", err))
		return
	}

	event, err := h.service.Update(r.Context(), id, req)
	switch {
	case errors.Is(err, storage.ErrEventNotFound):
		log.Info("event not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("Evento no encontrado"))
		return
	case errors.Is(err, models.ErrInvalidDate):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.WithDetails("Fecha no válida", err))
		return
	case errors.Is(err, storage.ErrInvalidReference):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.WithDetails("Referencia no válida", err))
		return
	case err != nil:
		log.Error("failed to update event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.WithDetails("Error al actualizar el evento", err))
		return
	}

	log.Info("event updated", slog.String("id", id))
	render.JSON(w, r, Response{Event: event})
}
