package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shopedge/backend/internal/models"
	"github.com/shopedge/backend/internal/repo"
	"github.com/shopedge/backend/pkg/logging"
)

// UserService covers the admin-side user management.
type UserService struct {
	Repo   *repo.GormRepo
	Tokens *TokenService
}

type ModifyUserRequest struct {
	UserID   uint
	Username string
	Email    string
	Role     string
}

// ModifyUser updates username/email/role, each optional. Any change deletes
// the user's session tokens so the user has to log in again; that cleanup is
// best-effort and never fails the modification.
func (s *UserService) ModifyUser(ctx context.Context, req ModifyUserRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.modify", "user_id", req.UserID)

	user, err := s.Repo.GetUserByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, req.UserID)
		}
		return nil, err
	}

	if username := strings.TrimSpace(req.Username); username != "" {
		existing, err := s.Repo.GetUserByUsername(ctx, username)
		if err == nil && existing.ID != user.ID {
			return nil, fmt.Errorf("%w: username already exists", ErrConflict)
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = username
	}

	if email := strings.TrimSpace(req.Email); email != "" {
		if !strings.Contains(email, "@") {
			return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
		}
		existing, err := s.Repo.GetUserByEmail(ctx, email)
		if err == nil && existing.ID != user.ID {
			return nil, fmt.Errorf("%w: email already exists", ErrConflict)
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = email
	}

	if roleStr := strings.TrimSpace(req.Role); roleStr != "" {
		role, ok := models.ParseRole(strings.ToUpper(roleStr))
		if !ok {
			return nil, fmt.Errorf("%w: invalid role %q, valid roles are ADMIN, CUSTOMER", ErrValidation, req.Role)
		}
		user.Role = role
	}

	user.UpdatedAt = time.Now().UTC()

	s.Tokens.Invalidate(ctx, user.ID)

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	l.Info("user modified", "username", user.Username, "role", user.Role)
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}
