// Package register реализует публичный HTTP-обработчик записи участника на событие.
//
// Участник определяется по userId или по email. Если по email пользователь не найден
// и передано имя, он создаётся. Ранее отменённая запись восстанавливается (200),
// новая создаётся в статусе CONFIRMED (201).
package register

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
	Attendee *models.Registration `json:"attendee"`
}

// Handler обрабатывает запросы на запись участника.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики записи участника.
type Service interface {
	Register(ctx context.Context, eventID string, req models.AttendeeRequest) (*models.AttendeeResult, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

// errorMapping соответствие доменных ошибок HTTP-статусу и сообщению.
var errorMapping = []struct {
	err    error
	status int
	msg    string
}{
	{storage.ErrEventNotFound, http.StatusNotFound, "El evento no existe"},
	{storage.ErrEventCancelled, http.StatusBadRequest, "El evento ha sido cancelado"},
	{storage.ErrEventFull, http.StatusBadRequest, "El evento ha alcanzado su capacidad máxima"},
	{storage.ErrUserNotFound, http.StatusNotFound, "Usuario no encontrado"},
	{storage.ErrNameRequired, http.StatusBadRequest, "Se requiere el nombre para crear un nuevo usuario"},
	{storage.ErrIdentityRequired, http.StatusBadRequest, "Se requiere userId o email"},
	{storage.ErrAlreadyRegistered, http.StatusBadRequest, "Ya estás registrado en este evento"},
}

// ServeHTTP godoc
// @Summary Записаться на событие
// @Description Записывает участника по userId или email. Повторная запись после отмены восстанавливает прежнюю.
// @Tags Registrations
// @Accept  json
// @Produce  json
// @Param id path string true "ID события"
// @Param request body models.AttendeeRequest true "Участник"
// @Success 200 {object} Response "Запись восстановлена"
// @Success 201 {object} Response "Запись создана"
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /events/{id}/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registration.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	eventID := chi.URLParam(r, "id")

	var req models.AttendeeRequest
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

	result, err := h.service.Register(r.Context(), eventID, req)
	if err != nil {
		for _, m := range errorMapping {
			if errors.Is(err, m.err) {
				log.Info("registration rejected", slog.String("event_id", eventID), sl.Err(err))
				w.WriteHeader(m.status)
				render.JSON(w, r, response.Error(m.msg))
				return
			}
		}
		log.Error("failed to register attendee", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.WithDetails("Error al procesar el registro", err))
		return
	}

	status := http.StatusCreated
	if result.Reactivated {
		status = http.StatusOK
	}
	log.Info("attendee registered", slog.String("event_id", eventID), slog.Bool("reactivated", result.Reactivated))
	w.WriteHeader(status)
	render.JSON(w, r, Response{Attendee: result.Registration})
}
