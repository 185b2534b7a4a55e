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

// UserHandler exposes registration and account management.
type UserHandler struct {
	Users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

type registerReq struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type userPatchReq struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

type userResp struct {
	ID     uint64 `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

func toUserResp(u model.User) userResp {
	return userResp{ID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role), Status: string(u.Status)}
}

// Register creates a new account.  The role comes from the configured
// admin-email allowlist, never from the request.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Email = model.NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Name == "" || req.Password == "" {
		return badRequest(c, "email/name/password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Register(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		return fail(c, err)
	}

	// Best effort: registration succeeds even when the broker is down.
	_ = queue.PublishUserRegistered(ctx, queue.UserRegisteredEvent{
		UserID: u.ID, Email: u.Email, Role: string(u.Role), At: time.Now().UTC(),
	})

	return c.JSON(http.StatusCreated, toUserResp(u))
}

// Get returns one account (self or admin).
func (h *UserHandler) Get(c echo.Context) error {
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

	u, err := h.Users.Get(ctx, p, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// List pages through all accounts (admin only).
func (h *UserHandler) List(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	page := queryInt(c, "page", 1)
	size := queryInt(c, "size", 10)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx, p, page, size)
	if err != nil {
		return fail(c, err)
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResp(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"page": page, "size": size, "users": out})
}

// Update patches the caller's own profile.
func (h *UserHandler) Update(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req userPatchReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Name == nil && req.Password == nil {
		return badRequest(c, "nothing to update")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Update(ctx, p, id, service.UserPatch{Name: req.Name, Password: req.Password})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// Quit terminally deactivates an account and all of its questions.
func (h *UserHandler) Quit(c echo.Context) error {
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

	if err := h.Users.Quit(ctx, p, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
