package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qna-service/internal/service"
)

// LikeHandler exposes like/unlike on questions.
type LikeHandler struct {
	Likes *service.LikeService
}

func NewLikeHandler(likes *service.LikeService) *LikeHandler {
	return &LikeHandler{Likes: likes}
}

// Add likes a question for the caller.  Liking twice conflicts.
func (h *LikeHandler) Add(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Likes.Add(ctx, p, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

// Remove takes back the caller's like.
func (h *LikeHandler) Remove(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Likes.Remove(ctx, p, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
