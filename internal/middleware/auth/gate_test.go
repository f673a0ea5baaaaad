package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shopedge/backend/internal/models"
	"github.com/shopedge/backend/internal/repo"
	"github.com/shopedge/backend/internal/service"
)

type gateEnv struct {
	E      *echo.Echo
	Repo   *repo.GormRepo
	Tokens *service.TokenService
}

func newGateEnv(t *testing.T) *gateEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repo.AutoMigrate(db))

	r := repo.New(db)
	tokens := &service.TokenService{Repo: r, Secret: []byte("test-secret"), Lifetime: time.Hour}

	gate := NewGate(GateConfig{
		Repo:           r,
		Tokens:         tokens,
		AllowedOrigins: []string{"http://localhost:3000"},
	})

	e := echo.New()
	e.Use(gate.Middleware)

	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	e.POST("/api/auth/login", ok)
	e.GET("/api/cart/items", ok)
	e.GET("/admin/business/overall", ok)
	e.GET("/health/live", ok)
	e.GET("/api/whoami", func(c echo.Context) error {
		user := UserFromContext(c)
		require.NotNil(t, user)
		return c.String(http.StatusOK, user.Username)
	})

	return &gateEnv{E: e, Repo: r, Tokens: tokens}
}

func (env *gateEnv) createUser(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()

	user := models.User{Username: username, Email: username + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, env.Repo.DB.Create(&user).Error)
	return &user
}

func (env *gateEnv) tokenFor(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()

	token, _, err := env.Tokens.Issue(context.Background(), user)
	require.NoError(t, err)
	return &http.Cookie{Name: TokenCookieName, Value: token, Path: "/"}
}

func (env *gateEnv) do(method, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func TestGate_PublicPathsPassWithoutToken(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)

	assert.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/auth/login").Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/health/live").Code)
}

func TestGate_ProtectedPathWithoutToken(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/cart/items").Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/admin/business/overall").Code)
}

func TestGate_InvalidToken(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)
	ck := &http.Cookie{Name: TokenCookieName, Value: "garbage", Path: "/"}

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/cart/items", ck).Code)
}

func TestGate_CustomerAccess(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)
	customer := env.createUser(t, "alice", models.RoleCustomer)
	ck := env.tokenFor(t, customer)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/cart/items", ck).Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, "/admin/business/overall", ck).Code,
		"customer role must not reach admin paths")
}

func TestGate_AdminAccess(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)
	admin := env.createUser(t, "root", models.RoleAdmin)
	ck := env.tokenFor(t, admin)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/admin/business/overall", ck).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/cart/items", ck).Code,
		"admin role is allowed on customer paths")
}

func TestGate_AttachesUserToContext(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)
	customer := env.createUser(t, "alice", models.RoleCustomer)
	ck := env.tokenFor(t, customer)

	rec := env.do(http.MethodGet, "/api/whoami", ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestGate_InvalidatedTokenRejected(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)
	customer := env.createUser(t, "alice", models.RoleCustomer)
	ck := env.tokenFor(t, customer)

	require.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/cart/items", ck).Code)

	env.Tokens.Invalidate(context.Background(), customer.ID)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/cart/items", ck).Code)
}

func TestGate_PreflightShortCircuits(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/cart/items", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "preflight needs no token")
	assert.Equal(t, "http://localhost:3000", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
}

func TestGate_TokenForDeletedUser(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)
	customer := env.createUser(t, "alice", models.RoleCustomer)
	ck := env.tokenFor(t, customer)

	require.NoError(t, env.Repo.DB.Delete(&models.User{}, customer.ID).Error)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/cart/items", ck).Code)
}
