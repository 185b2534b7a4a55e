package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/qna-service/internal/auth"
	"github.com/iliyamo/qna-service/internal/model"
)

func evalPolicy(t *testing.T, rules []Rule, method, path string, p *auth.Principal) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		auth.SetPrincipal(c, *p)
	}
	handler := RoutePolicy(rules)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec.Code
}

func TestRoutePolicyAdmission(t *testing.T) {
	rules := []Rule{
		Permit("POST", "/v1/auth/login"),
		Require("GET", "/v1/users", model.RoleAdmin),
		Require("GET", "/v1/users/*", model.RoleUser, model.RoleAdmin),
		Permit("*", "/**"),
	}
	user := &auth.Principal{UserID: 1, Roles: []model.Role{model.RoleUser}}
	admin := &auth.Principal{UserID: 2, Roles: []model.Role{model.RoleAdmin}}

	// Public rule admits anonymous callers.
	assert.Equal(t, http.StatusOK, evalPolicy(t, rules, http.MethodPost, "/v1/auth/login", nil))

	// Anonymous on a guarded route is 401; wrong role is 403.
	assert.Equal(t, http.StatusUnauthorized, evalPolicy(t, rules, http.MethodGet, "/v1/users", nil))
	assert.Equal(t, http.StatusForbidden, evalPolicy(t, rules, http.MethodGet, "/v1/users", user))
	assert.Equal(t, http.StatusOK, evalPolicy(t, rules, http.MethodGet, "/v1/users", admin))

	// Either role passes a multi-role rule.
	assert.Equal(t, http.StatusOK, evalPolicy(t, rules, http.MethodGet, "/v1/users/7", user))
	assert.Equal(t, http.StatusOK, evalPolicy(t, rules, http.MethodGet, "/v1/users/7", admin))

	// Unmatched requests fall through to the trailing allow.
	assert.Equal(t, http.StatusOK, evalPolicy(t, rules, http.MethodDelete, "/elsewhere", nil))
}

func TestRoutePolicyFirstMatchWins(t *testing.T) {
	rules := []Rule{
		Permit("GET", "/v1/things/special"),
		Require("GET", "/v1/things/*", model.RoleAdmin),
	}

	// The earlier permit shadows the later role rule for the same path.
	assert.Equal(t, http.StatusOK, evalPolicy(t, rules, http.MethodGet, "/v1/things/special", nil))
	assert.Equal(t, http.StatusUnauthorized, evalPolicy(t, rules, http.MethodGet, "/v1/things/other", nil))
}

func TestRuleMatching(t *testing.T) {
	cases := []struct {
		rule   Rule
		method string
		path   string
		want   bool
	}{
		{Permit("GET", "/v1/users/*"), "GET", "/v1/users/7", true},
		{Permit("GET", "/v1/users/*"), "GET", "/v1/users", false},
		{Permit("GET", "/v1/users/*"), "GET", "/v1/users/7/extra", false},
		{Permit("GET", "/v1/questions/*/answer"), "GET", "/v1/questions/3/answer", true},
		{Permit("GET", "/v1/questions/*/answer"), "GET", "/v1/questions/3/likes", false},
		{Permit("GET", "/v1/questions/**"), "GET", "/v1/questions", true},
		{Permit("GET", "/v1/questions/**"), "GET", "/v1/questions/3/answer", true},
		{Permit("*", "/**"), "PATCH", "/anything/at/all", true},
		{Permit("GET", "/v1/users"), "POST", "/v1/users", false},
		{Permit("get", "/v1/users"), "GET", "/v1/users", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.rule.matches(tc.method, tc.path),
			"%s %s against %s %s", tc.method, tc.path, tc.rule.Method, tc.rule.Pattern)
	}
}
