package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	middleware "github.com/shopedge/backend/internal/middleware/auth"
	"github.com/shopedge/backend/internal/service"
	"github.com/shopedge/backend/internal/transport"
	"github.com/shopedge/backend/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return serviceError(c, l, "register_error", err)
	}

	l.Info("user registered", "user_id", user.ID)
	return c.JSON(http.StatusCreated, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return serviceError(c, l, "login_error", err)
	}

	c.SetCookie(sessionCookie(res.Token, res.TokenExp))

	l.Info("login ok", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, map[string]any{
		"token":    res.Token,
		"id":       res.User.ID,
		"username": res.User.Username,
		"role":     res.User.Role,
	})
}

// Verify answers with the identity the access gate already resolved; reaching
// this handler without a valid token is impossible.
func (h *AuthHTTP) Verify(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	user, err := currentUser(c)
	if err != nil {
		l.Warn("logout_error", "status", 401)
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	h.Svc.Logout(ctx, user.ID)
	c.SetCookie(expiredSessionCookie())

	l.Info("logout ok", "user_id", user.ID)
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func sessionCookie(token string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
