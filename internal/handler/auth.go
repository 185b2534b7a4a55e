package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qna-service/internal/model"
	"github.com/iliyamo/qna-service/internal/repository"
	"github.com/iliyamo/qna-service/internal/service"
	"github.com/iliyamo/qna-service/internal/utils"
)

// AuthHandler bundles dependencies for the login, refresh and logout
// endpoints.
type AuthHandler struct {
	Users     *service.UserService
	Tokenizer *utils.Tokenizer
	Denylist  *repository.DenylistRepo
}

func NewAuthHandler(users *service.UserService, tok *utils.Tokenizer, denylist *repository.DenylistRepo) *AuthHandler {
	return &AuthHandler{Users: users, Tokenizer: tok, Denylist: denylist}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// Login exchanges credentials for a token pair.  The pair is emitted
// both in the body and via the Authorization / Refresh response
// headers.  Every failure is the same 401: the response never reveals
// whether the email exists or the password was wrong.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Email = model.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "email/password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		log.Printf("auth: login failed for %s", req.Email)
		return fail(c, err)
	}

	access, err := h.Tokenizer.AccessToken(u.ID, u.Email, model.RoleNames(u.Roles()))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := h.Tokenizer.RefreshToken(u.ID, u.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}

	log.Printf("auth: login ok for user %d", u.ID)
	c.Response().Header().Set("Authorization", "Bearer "+access.Token)
	c.Response().Header().Set("Refresh", refresh.Token)
	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role)},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Token, Expires: refresh.Exp},
	})
}

// Refresh validates a refresh token and returns a new access token.
// The refresh token is not rotated.  Roles are reloaded from storage
// rather than copied from the old token, so a re-provisioned role set
// takes effect on the next refresh.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return badRequest(c, "refresh_token required")
	}
	raw := strings.TrimSpace(req.RefreshToken)

	claims, err := h.Tokenizer.Verify(raw)
	if err != nil {
		log.Printf("auth: refresh rejected (%v)", err)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	if revoked, err := h.Denylist.IsRevoked(c.Request().Context(), raw); err == nil && revoked {
		log.Printf("auth: revoked refresh token presented for user %d", claims.UserID)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.LookupActive(ctx, claims.Email)
	if err != nil {
		return fail(c, err)
	}
	access, err := h.Tokenizer.AccessToken(u.ID, u.Email, model.RoleNames(u.Roles()))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes the presented tokens.  The access token comes from
// the Authorization header, an optional refresh token from the body;
// each is denylisted for exactly its remaining validity.  With no
// Redis configured this degrades to a no-op 204 and tokens simply
// age out.
func (h *AuthHandler) Logout(c echo.Context) error {
	if header := c.Request().Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		raw := strings.TrimPrefix(header, "Bearer ")
		if claims, err := h.Tokenizer.Verify(raw); err == nil {
			if err := h.Denylist.Revoke(c.Request().Context(), raw, time.Until(claims.ExpiresAt)); err != nil {
				log.Printf("auth: revoke access token failed: %v", err)
			}
		}
	}

	var req refreshReq
	_ = c.Bind(&req)
	if raw := strings.TrimSpace(req.RefreshToken); raw != "" {
		if claims, err := h.Tokenizer.Verify(raw); err == nil {
			if err := h.Denylist.Revoke(c.Request().Context(), raw, time.Until(claims.ExpiresAt)); err != nil {
				log.Printf("auth: revoke refresh token failed: %v", err)
			}
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated identity of the current request.
func (h *AuthHandler) Me(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":     p.UserID,
		"email":       p.Email,
		"authorities": p.Authorities(),
	})
}
