// Package list реализует HTTP-обработчик списка опубликованных постов блога.
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
	Posts []*models.Post `json:"posts"`
}

// Handler обрабатывает запросы на получение постов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения постов.
type Service interface {
	Posts(ctx context.Context) ([]*models.Post, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Посты блога
// @Description Опубликованные посты с автором, категориями и числом комментариев, новые первыми.
// @Tags Blog
// @Produce  json
// @Success 200 {object} Response
// @Failure 500 {object} response.ErrorResponse
// @Router /posts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	posts, err := h.service.Posts(r.Context())
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.WithDetails("Error al obtener posts", err))
		return
	}
	render.JSON(w, r, Response{Posts: posts})
}
