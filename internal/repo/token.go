package repo

import (
	"context"
	"time"

	"github.com/shopedge/backend/internal/models"
)

func (r *GormRepo) CreateSessionToken(ctx context.Context, t *models.SessionToken) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

// SessionTokenValid reports whether the exact token string is still stored
// and unexpired. Deleting rows is how tokens get invalidated.
func (r *GormRepo) SessionTokenValid(ctx context.Context, token string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.SessionToken{}).
		Where("token = ? AND expires_at > ?", token, time.Now().UTC()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) DeleteSessionTokensForUser(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.SessionToken{}).Error
}
