package middleware // middleware provides shared request processing for handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qna-service/internal/auth"
	"github.com/iliyamo/qna-service/internal/model"
	"github.com/iliyamo/qna-service/internal/repository"
	"github.com/iliyamo/qna-service/internal/utils"
)

// JWTAuth returns the token verification middleware.  Requests without
// an Authorization header, or with one that does not use the Bearer
// scheme, pass through as anonymous; the route policy decides whether
// that is acceptable.  A request that does present a bearer token is
// either fully verified or rejected with 401 before any handler runs;
// a bad token never continues as anonymous, because that would let an
// unauthenticated caller reach role-guarded code with an empty
// principal.
//
// The failure reason (signature, expiry, malformed, revoked) is
// logged, but the response is always the same uniform 401 so callers
// learn nothing about why their token was rejected.
func JWTAuth(tok *utils.Tokenizer, denylist *repository.DenylistRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				// Anonymous request; admission is the route policy's call.
				return next(c)
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := tok.Verify(raw)
			if err != nil {
				log.Printf("auth: token rejected (%v) for %s %s", err, c.Request().Method, c.Request().URL.Path)
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			// The denylist is optional: without Redis the check is skipped.
			if denylist.Enabled() {
				revoked, err := denylist.IsRevoked(c.Request().Context(), raw)
				if err != nil {
					log.Printf("auth: denylist lookup failed: %v", err)
				} else if revoked {
					log.Printf("auth: revoked token presented for %s %s", c.Request().Method, c.Request().URL.Path)
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
				}
			}

			roles := make([]model.Role, 0, len(claims.Roles))
			for _, name := range claims.Roles {
				r, err := model.ParseRole(name)
				if err != nil {
					log.Printf("auth: token carries unknown role %q", name)
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
				}
				roles = append(roles, r)
			}

			auth.SetPrincipal(c, auth.Principal{
				UserID: claims.UserID,
				Email:  claims.Email,
				Roles:  roles,
			})
			return next(c)
		}
	}
}
