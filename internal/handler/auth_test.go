package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/qna-service/internal/middleware"
	"github.com/iliyamo/qna-service/internal/model"
	"github.com/iliyamo/qna-service/internal/repository"
	"github.com/iliyamo/qna-service/internal/service"
	"github.com/iliyamo/qna-service/internal/utils"
)

// memUsers is a minimal in-memory service.UserStore for exercising the
// HTTP surface without MySQL.
type memUsers struct {
	byID   map[uint64]model.User
	nextID uint64
}

func newMemUsers() *memUsers { return &memUsers{byID: map[uint64]model.User{}} }

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) List(_ context.Context, page, size int) ([]model.User, error) {
	var out []model.User
	for _, u := range m.byID {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) Update(_ context.Context, u model.User) error {
	if _, ok := m.byID[u.ID]; !ok {
		return repository.ErrNotFound
	}
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) Quit(_ context.Context, id uint64) error {
	u, ok := m.byID[id]
	if !ok || u.Status != model.UserActive {
		return repository.ErrNotFound
	}
	u.Status = model.UserQuit
	m.byID[id] = u
	return nil
}

// newTestServer wires the auth and user endpoints exactly like the
// server binary, minus MySQL, Redis and the broker.
func newTestServer() *echo.Echo {
	users := service.NewUserService(newMemUsers(), "admin@example.com", 4)
	tok := utils.NewTokenizer("test-secret", 15, 60)
	denylist := repository.NewDenylistRepo(nil)

	authH := NewAuthHandler(users, tok, denylist)
	userH := NewUserHandler(users)

	e := echo.New()
	e.Use(middleware.JWTAuth(tok, denylist))
	e.Use(middleware.RoutePolicy([]middleware.Rule{
		middleware.Permit("POST", "/v1/auth/login"),
		middleware.Permit("POST", "/v1/auth/refresh"),
		middleware.Permit("POST", "/v1/auth/logout"),
		middleware.Permit("POST", "/v1/users"),
		middleware.Require("GET", "/v1/me", model.RoleUser, model.RoleAdmin),
		middleware.Require("GET", "/v1/users", model.RoleAdmin),
		middleware.Permit("*", "/**"),
	}))

	e.POST("/v1/auth/login", authH.Login)
	e.POST("/v1/auth/refresh", authH.Refresh)
	e.POST("/v1/auth/logout", authH.Logout)
	e.GET("/v1/me", authH.Me)
	e.POST("/v1/users", userH.Register)
	e.GET("/v1/users", userH.List)
	return e
}

func do(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthFlow(t *testing.T) {
	e := newTestServer()

	rec := do(e, http.MethodPost, "/v1/users",
		`{"email":"alice@example.com","name":"Alice","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(e, http.MethodPost, "/v1/auth/login",
		`{"email":"alice@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Authorization"), "Bearer "))
	assert.NotEmpty(t, rec.Header().Get("Refresh"))

	var login struct {
		User struct {
			ID   uint64 `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
		Access  struct{ Token string } `json:"access"`
		Refresh struct{ Token string } `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.Equal(t, "USER", login.User.Role)
	require.NotEmpty(t, login.Access.Token)
	require.NotEmpty(t, login.Refresh.Token)

	rec = do(e, http.MethodGet, "/v1/me", "", login.Access.Token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var me struct {
		Email       string   `json:"email"`
		Authorities []string `json:"authorities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "alice@example.com", me.Email)
	assert.Equal(t, []string{"ROLE_USER"}, me.Authorities)

	rec = do(e, http.MethodPost, "/v1/auth/refresh",
		`{"refresh_token":"`+login.Refresh.Token+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Without Redis, logout still answers 204.
	rec = do(e, http.MethodPost, "/v1/auth/logout", "{}", login.Access.Token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	e := newTestServer()

	rec := do(e, http.MethodPost, "/v1/users",
		`{"email":"alice@example.com","name":"Alice","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPassword := do(e, http.MethodPost, "/v1/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`, "")
	unknownEmail := do(e, http.MethodPost, "/v1/auth/login",
		`{"email":"nobody@example.com","password":"secret1"}`, "")

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	e := newTestServer()

	body := `{"email":"alice@example.com","name":"Alice","password":"secret1"}`
	require.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/v1/users", body, "").Code)
	assert.Equal(t, http.StatusConflict, do(e, http.MethodPost, "/v1/users", body, "").Code)
}

func TestRoutePolicyOnUserList(t *testing.T) {
	e := newTestServer()

	rec := do(e, http.MethodPost, "/v1/users",
		`{"email":"alice@example.com","name":"Alice","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(e, http.MethodPost, "/v1/users",
		`{"email":"admin@example.com","name":"Root","password":"secret2"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	login := func(email, password string) string {
		rec := do(e, http.MethodPost, "/v1/auth/login",
			`{"email":"`+email+`","password":"`+password+`"}`, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return strings.TrimPrefix(rec.Header().Get("Authorization"), "Bearer ")
	}

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/v1/users", "", "").Code)
	assert.Equal(t, http.StatusForbidden, do(e, http.MethodGet, "/v1/users", "", login("alice@example.com", "secret1")).Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/v1/users", "", login("admin@example.com", "secret2")).Code)
}
