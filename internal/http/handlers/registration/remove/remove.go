// Package remove реализует HTTP-обработчик удаления записи на событие.
package remove

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
	"github.com/magabrotheeeer/event-hub/internal/storage"
)

// Handler обрабатывает запросы на удаление записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления записи.
type Service interface {
	Remove(ctx context.Context, eventID, registrationID string) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить запись
// @Tags Registrations
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID события"
// @Param registrationId path string true "ID записи"
// @Success 200 {object} response.MessageResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /events/{id}/registrations/{registrationId} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registration.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	eventID := chi.URLParam(r, "id")
	registrationID := chi.URLParam(r, "registrationId")

	err := h.service.Remove(r.Context(), eventID, registrationID)
	if errors.Is(err, storage.ErrRegistrationNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("Inscripción no encontrada"))
		return
	}
	if err != nil {
		log.Error("failed to remove registration", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.WithDetails("Error al eliminar la inscripción", err))
		return
	}

	log.Info("registration removed", slog.String("id", registrationID))
	render.JSON(w, r, response.Message("Inscripción eliminada con éxito"))
}
