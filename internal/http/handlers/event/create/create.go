// Package create реализует HTTP-обработчик для создания событий.
//
// Handler принимает JSON с данными события, проверяет обязательные поля, определяет
// организатора по токену (если он есть) и возвращает созданное событие.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/event-hub/internal/http/middlewarectx"
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

// Handler управляет HTTP-запросами на создание событий.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики событий
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания события.
type Service interface {
	Create(ctx context.Context, organizerID string, req models.DummyEvent) (*models.Event, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать событие
// @Description Создаёт событие. Организатор берётся из токена, иначе назначается организатор по умолчанию.
// @Tags Events
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyEvent true "Данные события"
// @Success 201 {object} Response
// @Failure 400 {object} response.ErrorResponse "Не заполнены обязательные поля или неверная ссылка"
// @Failure 500 {object} response.ErrorResponse
// @Router /events [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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
		render.JSON(w, r, response.ValidationError("Faltan campos requeridos para crear el evento", err))
		return
	}

	organizerID, _ := middlewarectx.UserIDFromContext(r.Context())
	event, err := h.service.Create(r.Context(), organizerID, req)
	switch {
	case errors.Is(err, models.ErrInvalidDate):
		log.Warn("invalid date", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.WithDetails("Fecha no válida", err))
		return
	case errors.Is(err, storage.ErrInvalidReference):
		log.Warn("invalid reference", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.WithDetails("Referencia no válida", err))
		return
	case err != nil:
		log.Error("failed to create event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.WithDetails("Error al crear el evento", err))
		return
	}

	log.Info("event created", slog.String("id", event.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, Response{Event: event})
}
