// Package publish реализует HTTP-обработчик публикации события и снятия его с публикации.
package publish

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

// Handler обрабатывает запросы на смену флага публикации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики публикации.
type Service interface {
	SetPublished(ctx context.Context, id string, published bool) (*models.Event, error)
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
// @Summary Опубликовать событие
// @Description Устанавливает флаг публикации. Повторный вызов с тем же значением ничего не меняет.
// @Tags Events
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID события"
// @Param request body models.PublishRequest true "Флаг публикации"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /events/{id}/publish [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.publish"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req models.PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.WithDetails("Cuerpo de la solicitud no válido", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError("Cuerpo de la solicitud no válido", err))
		return
	}

	event, err := h.service.SetPublished(r.Context(), id, *req.Published)
	if errors.Is(err, storage.ErrEventNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("Evento no encontrado"))
		return
	}
	if err != nil {
		log.Error("failed to change publication", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.WithDetails("Error al actualizar el evento", err))
		return
	}

	log.Info("publication changed", slog.String("id", id), slog.Bool("published", event.Published))
	render.JSON(w, r, Response{Event: event})
}
