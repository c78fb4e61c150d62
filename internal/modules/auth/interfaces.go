package auth

import (
	"context"
	"time"

	"kindremind/internal/domain"
	"kindremind/internal/pkg/jwt"
)

// UserStore is the part of the credential store the auth service uses.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetVerified(ctx context.Context, id int64) error
	UpdateEmail(ctx context.Context, id int64, oldEmail, newEmail string) error
	UpdatePassword(ctx context.Context, id int64, oldHash, newHash string) error
}

type TokenCodec interface {
	Issue(class jwt.Class, userID int64) (string, error)
	IssueEmailAction(userID int64, purpose jwt.Purpose, stamp string) (string, error)
	Verify(class jwt.Class, token string) (*jwt.Claims, error)
	VerifyEmailAction(token string, purpose jwt.Purpose) (*jwt.Claims, error)
	TTL(class jwt.Class) time.Duration
}

type Mailer interface {
	SendVerification(ctx context.Context, email, token string) error
	SendEmailChangeConfirmation(ctx context.Context, email, token string) error
	SendPasswordChange(ctx context.Context, email, token string) error
}

// Revoker puts a refresh token hash on the denylist until expiresAt.
type Revoker interface {
	Revoke(ctx context.Context, hash string, userID int64, expiresAt time.Time) error
}
