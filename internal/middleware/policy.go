package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qna-service/internal/auth"
	"github.com/iliyamo/qna-service/internal/model"
)

// Rule is one entry of the route admission table: an HTTP method, a
// path pattern and the roles allowed through.  A nil role list means
// the route is public.  Patterns are segment-wise: "*" matches one
// segment, a trailing "**" matches the rest of the path, and the
// method "*" matches any method.
type Rule struct {
	Method  string
	Pattern string
	Roles   []model.Role
}

// Permit builds a public rule.
func Permit(method, pattern string) Rule {
	return Rule{Method: method, Pattern: pattern}
}

// Require builds a rule that admits only the given roles.
func Require(method, pattern string, roles ...model.Role) Rule {
	return Rule{Method: method, Pattern: pattern, Roles: roles}
}

// RoutePolicy evaluates the ordered rule table top to bottom; the
// first rule matching the request decides admission and later rules
// are never consulted.  The table must end with an explicit catch-all
// (conventionally Permit("*", "/**")).  Anonymous requests failing a
// role rule get 401; authenticated requests lacking the role get 403.
// Ownership checks do not belong here; they are resource-specific
// and live in the service layer.
func RoutePolicy(rules []Rule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := c.Request().Method
			path := c.Request().URL.Path
			for _, r := range rules {
				if !r.matches(method, path) {
					continue
				}
				if len(r.Roles) == 0 {
					return next(c)
				}
				p, ok := auth.CurrentPrincipal(c)
				if !ok {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
				}
				for _, role := range r.Roles {
					if p.HasRole(role) {
						return next(c)
					}
				}
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			// No matching rule: treat as the trailing allow.
			return next(c)
		}
	}
}

func (r Rule) matches(method, path string) bool {
	if r.Method != "*" && !strings.EqualFold(r.Method, method) {
		return false
	}
	want := splitPath(r.Pattern)
	got := splitPath(path)
	for i, seg := range want {
		if seg == "**" {
			return true
		}
		if i >= len(got) {
			return false
		}
		if seg != "*" && seg != got[i] {
			return false
		}
	}
	return len(got) == len(want)
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
