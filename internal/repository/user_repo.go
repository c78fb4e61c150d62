package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"kindremind/internal/domain"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicate       = errors.New("duplicate key")
	ErrAlreadyVerified = errors.New("user already verified")
	ErrStale           = errors.New("user changed since it was read")
)

// UserRepository is the credential store. Every mutation is a single
// statement, so callers never need a transaction.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	u.Username = strings.TrimSpace(u.Username)
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("username = ?", strings.TrimSpace(username)).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// SetVerified flips an unverified account to verified. Of two concurrent
// callers exactly one succeeds; the other gets ErrAlreadyVerified.
func (r *UserRepository) SetVerified(ctx context.Context, id int64) error {
	return r.update(ctx, id, "verified = ?", false, ErrAlreadyVerified, map[string]any{
		"verified": true,
	})
}

// UpdateEmail moves the account from oldEmail to newEmail and clears the
// verified flag so the new address has to be confirmed again. ErrStale means
// the address was no longer oldEmail.
func (r *UserRepository) UpdateEmail(ctx context.Context, id int64, oldEmail, newEmail string) error {
	return r.update(ctx, id, "email = ?", normalizeEmail(oldEmail), ErrStale, map[string]any{
		"email":    normalizeEmail(newEmail),
		"verified": false,
	})
}

// UpdatePassword replaces oldHash with newHash, or returns ErrStale when the
// stored hash is no longer oldHash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, oldHash, newHash string) error {
	return r.update(ctx, id, "password_hash = ?", oldHash, ErrStale, map[string]any{
		"password_hash": newHash,
	})
}

// update writes fields to row id in one statement, and only while guard
// still holds. A miss is ErrUserNotFound when the row is gone, else conflict.
func (r *UserRepository) update(ctx context.Context, id int64, guard string, guardArg any, conflict error, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	tx := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ? AND "+guard, id, guardArg).
		Updates(fields)
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return translate(err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return conflict
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// translate maps driver and gorm errors onto the repository's sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}

	// modernc sqlite errors are not translated by the gorm dialector
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
