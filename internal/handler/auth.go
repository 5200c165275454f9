package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gatepass/visitor-management/internal/auth"
	"github.com/gatepass/visitor-management/internal/config"
	"github.com/gatepass/visitor-management/internal/model"
	"github.com/gatepass/visitor-management/internal/store"
)

// AuthHandler bundles dependencies for the admin auth endpoints. Admin
// identity is checked server-side against stored bcrypt hashes; the admin
// console endpoints require the resulting access token.
type AuthHandler struct {
	Cfg    config.Config
	Admins store.AdminStore
	Tokens store.TokenStore
}

func NewAuthHandler(cfg config.Config, a store.AdminStore, t store.TokenStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Admins: a, Tokens: t}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type adminPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
type authResp struct {
	Admin   adminPart `json:"admin"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// Login handles POST /api/admin/login: verifies the password and issues an
// access token plus a refresh token whose hash is persisted.
func (h *AuthHandler) Login(c echo.Context) error {
	var body loginReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	username := strings.TrimSpace(body.Username)
	if username == "" || body.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	a, err := h.Admins.GetByUsername(c.Request().Context(), username)
	if err != nil || !auth.VerifyPassword(a.PasswordHash, body.Password) {
		// same answer for unknown account and wrong password
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !a.IsActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account disabled"})
	}

	return h.issueTokens(c, a.ID, a.Username, a.Role)
}

// Register handles POST /api/admin/register: an authenticated admin creates
// another admin account. The first account comes from the startup seed, so
// this endpoint never needs to be public.
func (h *AuthHandler) Register(c echo.Context) error {
	var body loginReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	username := strings.ToLower(strings.TrimSpace(body.Username))
	if username == "" || body.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	hash, err := auth.HashPassword(body.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create account"})
	}
	id, err := h.Admins.Create(c.Request().Context(), username, hash, model.RoleAdmin)
	if err != nil {
		if errors.Is(err, store.ErrAdminExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create account"})
	}

	return c.JSON(http.StatusCreated, adminPart{ID: id, Username: username, Role: model.RoleAdmin})
}

// Refresh handles POST /api/admin/refresh: exchanges a valid refresh token
// for a new token pair, revoking the presented token (rotation). The owning
// account is re-read so a deactivated admin cannot keep a session alive by
// rotating tokens.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var body refreshReq
	if err := c.Bind(&body); err != nil || body.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}
	hash := auth.HashRefreshRaw(body.RefreshToken)
	adminID, err := h.Tokens.ValidateRefresh(c.Request().Context(), hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	a, err := h.Admins.GetByID(c.Request().Context(), adminID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	if !a.IsActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account disabled"})
	}
	if err := h.Tokens.RevokeByHash(c.Request().Context(), hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not rotate token"})
	}
	return h.issueTokens(c, a.ID, a.Username, a.Role)
}

// Logout handles POST /api/admin/logout: invalidates the presented refresh
// token. Always answers 204 for a well-formed request so logout is
// idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	var body refreshReq
	if err := c.Bind(&body); err != nil || body.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}
	_ = h.Tokens.RevokeByHash(c.Request().Context(), auth.HashRefreshRaw(body.RefreshToken))
	return c.NoContent(http.StatusNoContent)
}

// LogoutAll handles POST /api/admin/logout-all: revokes every refresh token
// belonging to the authenticated admin, ending all sessions across devices.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	adminID, ok := adminIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Tokens.RevokeAllForAdmin(c.Request().Context(), adminID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// adminIDFromContext reads the admin_id claim set by the JWT middleware.
// JWT numeric claims decode as float64.
func adminIDFromContext(c echo.Context) (uint64, bool) {
	switch v := c.Get("admin_id").(type) {
	case float64:
		return uint64(v), v > 0
	case uint64:
		return v, v > 0
	case int:
		return uint64(v), v > 0
	}
	return 0, false
}

// Me handles GET /api/admin/me and echoes the authenticated identity from
// the verified token claims.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"id":   c.Get("admin_id"),
		"role": c.Get("role"),
	})
}

func (h *AuthHandler) issueTokens(c echo.Context, adminID uint64, username, role string) error {
	access, err := auth.NewAccessToken(h.Cfg.JWTSecret, adminID, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	refresh, err := auth.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	if err := h.Tokens.StoreRefresh(c.Request().Context(), adminID, auth.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	return c.JSON(http.StatusOK, authResp{
		Admin:   adminPart{ID: adminID, Username: username, Role: role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}
