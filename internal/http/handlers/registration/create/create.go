// Package create реализует HTTP-обработчик создания записи по контактным данным.
package create

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
	Registration *models.Registration `json:"registration"`
	Message      string               `json:"message"`
}

// Handler обрабатывает запросы на создание записи.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания записи.
type Service interface {
	Create(ctx context.Context, eventID string, req models.DummyRegistration) (*models.Registration, error)
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
// @Summary Создать запись
// @Description Создаёт запись на событие по имени и email. Статус по умолчанию PENDING.
// @Tags Registrations
// @Accept  json
// @Produce  json
// @Param id path string true "ID события"
// @Param request body models.DummyRegistration true "Данные участника"
// @Success 201 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /events/{id}/registrations [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registration.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	eventID := chi.URLParam(r, "id")

	var req models.DummyRegistration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.WithDetails("Cuerpo de la solicitud no válido", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError("Datos de inscripción no válidos", err))
		return
	}

	reg, err := h.service.Create(r.Context(), eventID, req)
	switch {
	case errors.Is(err, storage.ErrEventNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("Evento no encontrado"))
		return
	case errors.Is(err, storage.ErrRegistrationClosed):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Este evento no permite inscripciones"))
		return
	case errors.Is(err, storage.ErrEventFull):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("El evento ha alcanzado su capacidad máxima"))
		return
	case errors.Is(err, storage.ErrAlreadyRegistered):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Ya estás registrado en este evento"))
		return
	case errors.Is(err, models.ErrInvalidStatus):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Estado de inscripción no válido"))
		return
	case errors.Is(err, storage.ErrInvalidReference):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.WithDetails("Referencia no válida", err))
		return
	case err != nil:
		log.Error("failed to create registration", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.WithDetails("Error al procesar la inscripción", err))
		return
	}

	log.Info("registration created", slog.String("event_id", eventID), slog.String("id", reg.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, Response{Registration: reg, Message: "Inscripción creada con éxito"})
}
