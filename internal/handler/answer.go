package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qna-service/internal/model"
	"github.com/iliyamo/qna-service/internal/queue"
	"github.com/iliyamo/qna-service/internal/service"
)

// AnswerHandler exposes the admin-only answer endpoints nested under
// a question.
type AnswerHandler struct {
	Answers *service.AnswerService
}

func NewAnswerHandler(answers *service.AnswerService) *AnswerHandler {
	return &AnswerHandler{Answers: answers}
}

type answerReq struct {
	Body string `json:"body"`
}

type answerResp struct {
	ID         uint64    `json:"id"`
	QuestionID uint64    `json:"question_id"`
	UserID     uint64    `json:"user_id"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

func toAnswerResp(a model.Answer) answerResp {
	return answerResp{ID: a.ID, QuestionID: a.QuestionID, UserID: a.UserID, Body: a.Body, CreatedAt: a.CreatedAt}
}

// Create answers a question.  The question flips to ANSWERED in the
// same unit of work; a second answer attempt conflicts.
func (h *AnswerHandler) Create(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req answerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		return badRequest(c, "body required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Answers.Create(ctx, p, id, req.Body)
	if err != nil {
		return fail(c, err)
	}

	// Best effort: answering succeeds even when the broker is down.
	_ = queue.PublishQuestionAnswered(ctx, queue.QuestionAnsweredEvent{
		QuestionID: a.QuestionID, AnswerID: a.ID, AdminID: p.UserID, At: time.Now().UTC(),
	})

	return c.JSON(http.StatusCreated, toAnswerResp(a))
}

// Update replaces the answer body.
func (h *AnswerHandler) Update(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req answerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		return badRequest(c, "body required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Answers.Update(ctx, p, id, req.Body)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toAnswerResp(a))
}

// Delete removes the answer; the question reverts to REGISTERED.
func (h *AnswerHandler) Delete(c echo.Context) error {
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

	if err := h.Answers.Delete(ctx, p, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
