package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shopedge/backend/internal/events"
	"github.com/shopedge/backend/internal/metrics"
	"github.com/shopedge/backend/internal/models"
	"github.com/shopedge/backend/internal/repo"
	"github.com/shopedge/backend/pkg/hash"
	"github.com/shopedge/backend/pkg/logging"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *TokenService
	Events *events.Producer
}

type LoginResult struct {
	User     *models.User
	Token    string
	TokenExp time.Time
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", ErrValidation)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email required", ErrValidation)
	}

	if _, err := s.Repo.GetUserByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username already taken", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.Repo.GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("password hash failed", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleCustomer,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}

	metrics.UsersRegisteredTotal.Inc()
	event := map[string]any{"type": "user_registered", "user_id": user.ID, "username": user.Username}
	if err := s.Events.PublishEvent(ctx, "user_events", user.Username, event); err != nil {
		l.Error("event publish failed", "type", "user_registered", "error", err)
	}

	l.Info("user registered", "user_id", user.ID, "username", user.Username)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", ErrValidation)
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "reason", "bad password")
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.Tokens.Issue(ctx, user)
	if err != nil {
		l.Error("token issue failed", "error", err)
		return nil, err
	}

	l.Info("login ok", "user_id", user.ID)
	return &LoginResult{User: user, Token: token, TokenExp: exp}, nil
}

// Logout invalidates every stored token for the user; cleanup failure is
// already swallowed inside Invalidate.
func (s *AuthService) Logout(ctx context.Context, userID uint) {
	s.Tokens.Invalidate(ctx, userID)
}
