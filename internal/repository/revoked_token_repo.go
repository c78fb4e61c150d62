package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kindremind/internal/domain"
)

// RevokedTokenRepository provides DB access for the refresh token denylist.
type RevokedTokenRepository struct {
	db *gorm.DB
}

func NewRevokedTokenRepository(db *gorm.DB) *RevokedTokenRepository {
	return &RevokedTokenRepository{db: db}
}

// Revoke records hash until expiresAt. Revoking the same token twice is a no-op.
func (r *RevokedTokenRepository) Revoke(ctx context.Context, hash string, userID int64, expiresAt time.Time) error {
	row := domain.RevokedToken{
		TokenHash: hash,
		UserID:    userID,
		ExpiresAt: expiresAt.UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
}

func (r *RevokedTokenRepository) IsRevoked(ctx context.Context, hash string) (bool, error) {
	var row domain.RevokedToken
	err := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !row.IsExpired(time.Now().UTC()), nil
}

// DeleteExpired removes entries whose token could no longer verify anyway.
func (r *RevokedTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&domain.RevokedToken{})
	return tx.RowsAffected, tx.Error
}
