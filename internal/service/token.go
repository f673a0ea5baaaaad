package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shopedge/backend/internal/models"
	"github.com/shopedge/backend/internal/repo"
	"github.com/shopedge/backend/pkg/logging"
)

// TokenService issues and validates the signed session tokens carried in the
// authToken cookie. Tokens are bound to a username, expire after a fixed
// window and are additionally persisted so that deleting the stored rows
// (logout, admin user modification) invalidates them before expiry.
type TokenService struct {
	Repo     *repo.GormRepo
	Secret   []byte
	Lifetime time.Duration
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

func (t *TokenService) lifetime() time.Duration {
	if t.Lifetime > 0 {
		return t.Lifetime
	}
	return time.Hour
}

func (t *TokenService) Issue(ctx context.Context, user *models.User) (string, time.Time, error) {
	exp := time.Now().UTC().Add(t.lifetime())
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
	if err != nil {
		return "", time.Time{}, err
	}

	stored := models.SessionToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: exp,
	}
	if err := t.Repo.CreateSessionToken(ctx, &stored); err != nil {
		return "", time.Time{}, err
	}

	return token, exp, nil
}

func (t *TokenService) parse(token string) (*sessionClaims, error) {
	var claims sessionClaims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(tk *jwt.Token) (any, error) {
		if tk.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return t.Secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid session token")
	}
	return &claims, nil
}

// Validate fails closed: any parse, signature, expiry or storage error yields
// false, never an error to the caller.
func (t *TokenService) Validate(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	if _, err := t.parse(token); err != nil {
		return false
	}

	stored, err := t.Repo.SessionTokenValid(ctx, token)
	if err != nil {
		logging.FromContext(ctx).Error("session token lookup failed", "error", err)
		return false
	}
	return stored
}

// ExtractUsername assumes Validate already accepted the token; it returns the
// empty string otherwise.
func (t *TokenService) ExtractUsername(token string) string {
	claims, err := t.parse(token)
	if err != nil {
		return ""
	}
	return claims.Subject
}

// Invalidate is best-effort: a failed cleanup is logged and swallowed so the
// calling operation (logout, profile update) still succeeds.
func (t *TokenService) Invalidate(ctx context.Context, userID uint) {
	if err := t.Repo.DeleteSessionTokensForUser(ctx, userID); err != nil {
		logging.FromContext(ctx).Error("session token cleanup failed",
			"user_id", userID, "error", err)
	}
}
