// Package auth holds the access gate every request passes through: token
// extraction, identity resolution and the path-prefix role rules.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shopedge/backend/internal/models"
	"github.com/shopedge/backend/internal/repo"
	"github.com/shopedge/backend/internal/service"
	"github.com/shopedge/backend/pkg/logging"
)

const TokenCookieName = "authToken"

// PathRule maps a path prefix to the roles allowed through it. Rules are
// evaluated in order; the first matching prefix wins.
type PathRule struct {
	Prefix string
	Roles  []models.Role
}

func DefaultRules() []PathRule {
	return []PathRule{
		{Prefix: "/admin/", Roles: []models.Role{models.RoleAdmin}},
		{Prefix: "/api/", Roles: []models.Role{models.RoleCustomer, models.RoleAdmin}},
	}
}

// DefaultPublicPaths lists the exact paths reachable without a token.
func DefaultPublicPaths() []string {
	return []string{
		"/api/auth/login",
		"/api/auth/register",
		"/api/users/register",
		"/health/live",
		"/health/ready",
	}
}

type Gate struct {
	Repo           *repo.GormRepo
	Tokens         *service.TokenService
	Rules          []PathRule
	PublicPaths    map[string]struct{}
	AllowedOrigins map[string]struct{}
	FallbackOrigin string
}

type GateConfig struct {
	Repo           *repo.GormRepo
	Tokens         *service.TokenService
	Rules          []PathRule
	PublicPaths    []string
	AllowedOrigins []string
}

func NewGate(cfg GateConfig) *Gate {
	g := &Gate{
		Repo:           cfg.Repo,
		Tokens:         cfg.Tokens,
		Rules:          cfg.Rules,
		PublicPaths:    make(map[string]struct{}, len(cfg.PublicPaths)),
		AllowedOrigins: make(map[string]struct{}, len(cfg.AllowedOrigins)),
	}
	if g.Rules == nil {
		g.Rules = DefaultRules()
	}
	if cfg.PublicPaths == nil {
		cfg.PublicPaths = DefaultPublicPaths()
	}
	for _, p := range cfg.PublicPaths {
		g.PublicPaths[p] = struct{}{}
	}
	for i, o := range cfg.AllowedOrigins {
		if i == 0 {
			g.FallbackOrigin = o
		}
		g.AllowedOrigins[o] = struct{}{}
	}
	return g
}

// Middleware is the per-request state machine: allow-list, preflight, token
// validation, identity resolution, role check, then forward with the user
// attached. Any internal fault answers 500 without reaching the handler.
func (g *Gate) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		path := req.URL.Path

		g.setCORSHeaders(c)

		if req.Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}

		if _, ok := g.PublicPaths[path]; ok {
			return next(c)
		}

		rule, matched := g.matchRule(path)
		if !matched {
			return next(c)
		}

		ctx := req.Context()

		token, err := tokenFromCookie(req)
		if err != nil || !g.Tokens.Validate(ctx, token) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
		}

		username := g.Tokens.ExtractUsername(token)
		user, err := g.resolveUser(ctx, username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
			}
			logging.FromContext(ctx).Error("user resolve failed", "username", username, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}

		if !roleAllowed(rule, user.Role) {
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}

		SetUser(c, user)
		return next(c)
	}
}

func (g *Gate) matchRule(path string) (PathRule, bool) {
	for _, rule := range g.Rules {
		if strings.HasPrefix(path, rule.Prefix) {
			return rule, true
		}
	}
	return PathRule{}, false
}

func (g *Gate) resolveUser(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return g.Repo.GetUserByUsername(ctx, username)
}

func (g *Gate) setCORSHeaders(c echo.Context) {
	origin := c.Request().Header.Get(echo.HeaderOrigin)
	h := c.Response().Header()

	if _, ok := g.AllowedOrigins[origin]; ok {
		h.Set(echo.HeaderAccessControlAllowOrigin, origin)
	} else if g.FallbackOrigin != "" {
		h.Set(echo.HeaderAccessControlAllowOrigin, g.FallbackOrigin)
	}
	h.Set(echo.HeaderAccessControlAllowMethods, "GET, POST, PUT, DELETE, OPTIONS")
	h.Set(echo.HeaderAccessControlAllowHeaders, "Content-Type, Authorization, X-Timestamp, X-Requested-With")
	h.Set(echo.HeaderAccessControlAllowCredentials, "true")
}

func roleAllowed(rule PathRule, role models.Role) bool {
	for _, r := range rule.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func tokenFromCookie(req *http.Request) (string, error) {
	ck, err := req.Cookie(TokenCookieName)
	if err != nil || ck.Value == "" {
		return "", errors.New("token cookie missing")
	}
	return ck.Value, nil
}

// SetUser attaches the resolved identity for downstream handlers.
func SetUser(c echo.Context, user *models.User) {
	c.Set("user", user)
	c.Set("user_id", user.ID)
	c.Set("role", string(user.Role))
}

// UserFromContext returns the identity the gate attached, or nil on public
// paths.
func UserFromContext(c echo.Context) *models.User {
	if v, ok := c.Get("user").(*models.User); ok {
		return v
	}
	return nil
}
