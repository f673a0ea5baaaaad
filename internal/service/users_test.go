package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopedge/backend/internal/models"
)

func newUserEnv(t *testing.T) (*UserService, *models.User) {
	t.Helper()

	r := newTestRepo(t)
	user := seedUser(t, r, "alice", models.RoleCustomer)
	tokens := &TokenService{Repo: r, Secret: []byte("test-secret"), Lifetime: time.Hour}
	return &UserService{Repo: r, Tokens: tokens}, user
}

func TestUserService_ModifyUser_PromotesToAdmin(t *testing.T) {
	t.Parallel()

	svc, user := newUserEnv(t)

	updated, err := svc.ModifyUser(context.Background(), ModifyUserRequest{
		UserID: user.ID,
		Role:   "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	assert.Equal(t, "alice", updated.Username, "untouched fields survive")
}

func TestUserService_ModifyUser_InvalidRole(t *testing.T) {
	t.Parallel()

	svc, user := newUserEnv(t)

	_, err := svc.ModifyUser(context.Background(), ModifyUserRequest{
		UserID: user.ID,
		Role:   "superuser",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserService_ModifyUser_UsernameConflict(t *testing.T) {
	t.Parallel()

	svc, user := newUserEnv(t)
	seedUser(t, svc.Repo, "bob", models.RoleCustomer)

	_, err := svc.ModifyUser(context.Background(), ModifyUserRequest{
		UserID:   user.ID,
		Username: "bob",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserService_ModifyUser_SameValuesAllowed(t *testing.T) {
	t.Parallel()

	svc, user := newUserEnv(t)

	updated, err := svc.ModifyUser(context.Background(), ModifyUserRequest{
		UserID:   user.ID,
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Username)
}

func TestUserService_ModifyUser_InvalidatesSessions(t *testing.T) {
	t.Parallel()

	svc, user := newUserEnv(t)
	ctx := context.Background()

	token, _, err := svc.Tokens.Issue(ctx, user)
	require.NoError(t, err)
	require.True(t, svc.Tokens.Validate(ctx, token))

	_, err = svc.ModifyUser(ctx, ModifyUserRequest{UserID: user.ID, Role: "ADMIN"})
	require.NoError(t, err)

	assert.False(t, svc.Tokens.Validate(ctx, token),
		"role change must force a fresh login")
}

func TestUserService_ModifyUser_NotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newUserEnv(t)

	_, err := svc.ModifyUser(context.Background(), ModifyUserRequest{UserID: 9999})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_GetUserByID(t *testing.T) {
	t.Parallel()

	svc, user := newUserEnv(t)

	found, err := svc.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, found.Username)

	_, err = svc.GetUserByID(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
