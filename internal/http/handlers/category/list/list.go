// Package list реализует HTTP-обработчик справочника категорий.
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
	Categories []models.Category `json:"categories"`
}

// Handler обрабатывает запросы на получение категорий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения категорий.
type Service interface {
	Categories(ctx context.Context) ([]models.Category, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Категории
// @Tags Catalog
// @Produce  json
// @Success 200 {object} Response
// @Failure 500 {object} response.ErrorResponse
// @Router /categories [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	categories, err := h.service.Categories(r.Context())
	if err != nil {
		log.Error("failed to list categories", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.WithDetails("Error al obtener categorías", err))
		return
	}
	render.JSON(w, r, Response{Categories: categories})
}
