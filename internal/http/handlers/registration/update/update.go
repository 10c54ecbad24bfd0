// Package update реализует HTTP-обработчик смены статуса записи на событие.
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

	"github.com/magabrotheeeer/event-hub/internal/http/response"
	"github.com/magabrotheeeer/event-hub/internal/lib/sl"
	"github.com/magabrotheeeer/event-hub/internal/models"
	"github.com/magabrotheeeer/event-hub/internal/storage"
)

// Response тело успешного ответа.
type Response struct {
	Registration *models.Registration `json:"registration"`
	Message      string               `json:"message"`
}

// Handler обрабатывает запросы на смену статуса записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики смены статуса.
type Service interface {
	UpdateStatus(ctx context.Context, eventID, registrationID, status string) (*models.Registration, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сменить статус записи
// @Description Разрешены любые переходы между PENDING, CONFIRMED и CANCELLED.
// @Tags Registrations
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID события"
// @Param registrationId path string true "ID записи"
// @Param request body models.StatusRequest true "Новый статус"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /events/{id}/registrations/{registrationId} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registration.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	eventID := chi.URLParam(r, "id")
	registrationID := chi.URLParam(r, "registrationId")

	var req models.StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.WithDetails("Cuerpo de la solicitud no válido", err))
		return
	}

	reg, err := h.service.UpdateStatus(r.Context(), eventID, registrationID, req.Status)
	switch {
	case errors.Is(err, models.ErrInvalidStatus):
		log.Warn("invalid status", slog.String("status", req.Status))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Estado de inscripción no válido"))
		return
	case errors.Is(err, storage.ErrRegistrationNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("Inscripción no encontrada"))
		return
	case err != nil:
		log.Error("failed to update registration", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.WithDetails("Error al actualizar la inscripción", err))
		return
	}

	log.Info("registration status changed", slog.String("id", registrationID), slog.String("status", reg.Status))
	render.JSON(w, r, Response{Registration: reg, Message: statusMessage(reg.Status)})
}

func statusMessage(status string) string {
	switch status {
	case models.RegistrationConfirmed:
		return "Inscripción confirmada con éxito"
	case models.RegistrationCancelled:
		return "Inscripción cancelada con éxito"
	default:
		return "Inscripción actualizada con éxito"
	}
}
