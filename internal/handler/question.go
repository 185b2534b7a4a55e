package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qna-service/internal/model"
	"github.com/iliyamo/qna-service/internal/repository"
	"github.com/iliyamo/qna-service/internal/service"
)

// QuestionHandler exposes the question lifecycle endpoints.
type QuestionHandler struct {
	Questions *service.QuestionService
}

func NewQuestionHandler(questions *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{Questions: questions}
}

type questionPostReq struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	Visibility string `json:"visibility"` // PUBLIC | SECRET
}

type questionPatchReq struct {
	Title      *string `json:"title"`
	Body       *string `json:"body"`
	Visibility *string `json:"visibility"`
}

type questionResp struct {
	ID         uint64      `json:"id"`
	UserID     uint64      `json:"user_id"`
	Title      string      `json:"title"`
	Body       string      `json:"body"`
	Status     string      `json:"status"`
	Visibility string      `json:"visibility"`
	ViewCount  uint64      `json:"view_count"`
	LikeCount  uint64      `json:"like_count"`
	CreatedAt  time.Time   `json:"created_at"`
	Answer     *answerResp `json:"answer,omitempty"`
}

func toQuestionResp(q model.Question) questionResp {
	return questionResp{
		ID:         q.ID,
		UserID:     q.UserID,
		Title:      q.Title,
		Body:       q.Body,
		Status:     string(q.Status),
		Visibility: string(q.Visibility),
		ViewCount:  q.ViewCount,
		LikeCount:  q.LikeCount,
		CreatedAt:  q.CreatedAt,
	}
}

// parseVisibility validates the optional visibility field; empty
// defaults to PUBLIC.
func parseVisibility(s string) (model.QuestionVisibility, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "PUBLIC":
		return model.QuestionPublic, true
	case "SECRET":
		return model.QuestionSecret, true
	}
	return "", false
}

// Create registers a question owned by the caller.
func (h *QuestionHandler) Create(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	var req questionPostReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	if req.Title == "" || req.Body == "" {
		return badRequest(c, "title/body required")
	}
	vis, ok := parseVisibility(req.Visibility)
	if !ok {
		return badRequest(c, "visibility must be PUBLIC or SECRET")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	q, err := h.Questions.Create(ctx, p, req.Title, req.Body, vis)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toQuestionResp(q))
}

// Get reads one question, with its answer when present.
func (h *QuestionHandler) Get(c echo.Context) error {
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

	detail, err := h.Questions.Get(ctx, p, id)
	if err != nil {
		return fail(c, err)
	}
	resp := toQuestionResp(detail.Question)
	if detail.Answer != nil {
		a := toAnswerResp(*detail.Answer)
		resp.Answer = &a
	}
	return c.JSON(http.StatusOK, resp)
}

// List pages through visible questions.  sort is one of newest,
// oldest, likes, likes_asc, views, views_asc.
func (h *QuestionHandler) List(c echo.Context) error {
	page := queryInt(c, "page", 1)
	size := queryInt(c, "size", 10)
	sort := repository.ListSort(c.QueryParam("sort"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	qs, err := h.Questions.List(ctx, page, size, sort)
	if err != nil {
		return fail(c, err)
	}
	out := make([]questionResp, 0, len(qs))
	for _, q := range qs {
		out = append(out, toQuestionResp(q))
	}
	return c.JSON(http.StatusOK, echo.Map{"page": page, "size": size, "questions": out})
}

// Update edits a question the caller owns.
func (h *QuestionHandler) Update(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req questionPatchReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Title == nil && req.Body == nil && req.Visibility == nil {
		return badRequest(c, "nothing to update")
	}
	patch := service.QuestionPatch{Title: req.Title, Body: req.Body}
	if req.Visibility != nil {
		vis, ok := parseVisibility(*req.Visibility)
		if !ok {
			return badRequest(c, "visibility must be PUBLIC or SECRET")
		}
		patch.Visibility = &vis
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	q, err := h.Questions.Update(ctx, p, id, patch)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toQuestionResp(q))
}

// Delete soft-deletes a question.
func (h *QuestionHandler) Delete(c echo.Context) error {
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

	if err := h.Questions.Delete(ctx, p, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
