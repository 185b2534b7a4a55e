package auth // auth carries the per-request authenticated identity and the checks built on it

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qna-service/internal/model"
)

// principalKey is the echo context key under which the verification
// middleware stores the principal.  The echo context lives exactly as
// long as one request, so nothing leaks across requests and no
// explicit teardown is needed.
const principalKey = "auth.principal"

// Principal is the authenticated identity of the current request,
// built entirely from verified token claims.  It is written once by
// the JWT middleware before any handler runs and is read-only
// afterwards.
type Principal struct {
	UserID uint64       // identity id from the user_id claim
	Email  string       // identity email from the token subject
	Roles  []model.Role // role set from the roles claim
}

// HasRole reports whether the principal holds the given role.
func (p Principal) HasRole(r model.Role) bool {
	return model.HasRole(p.Roles, r)
}

// IsAdmin reports whether the principal holds the ADMIN role.
func (p Principal) IsAdmin() bool {
	return p.HasRole(model.RoleAdmin)
}

// IsUser reports whether the principal is a plain user: it must hold
// USER and must not hold ADMIN.  Operations reserved for members
// (such as posting questions) use this rather than HasRole.
func (p Principal) IsUser() bool {
	return p.HasRole(model.RoleUser) && !p.HasRole(model.RoleAdmin)
}

// Authorities returns the ROLE_-prefixed authority strings for
// clients that expect the prefix convention.
func (p Principal) Authorities() []string {
	out := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		out = append(out, r.Authority())
	}
	return out
}

// SetPrincipal stores the principal in the request context.  Only the
// verification middleware may call this.
func SetPrincipal(c echo.Context, p Principal) {
	c.Set(principalKey, p)
}

// CurrentPrincipal returns the request's principal, or false when the
// request is anonymous.
func CurrentPrincipal(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}
