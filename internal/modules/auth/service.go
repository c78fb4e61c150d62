package auth

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"kindremind/internal/domain"
	"kindremind/internal/pkg/jwt"
	"kindremind/internal/pkg/validator"
	"kindremind/internal/repository"
)

// Service contains all business logic for authentication
type Service struct {
	users    UserStore
	tokens   TokenCodec
	mailer   Mailer
	revoker  Revoker
	log      *zap.Logger
	hashCost int
}

type Option func(*Service)

// WithHashCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Service) {
		s.hashCost = cost
	}
}

// NewService wires the auth flows. revoker may be nil, in which case logout
// only clears the cookie.
func NewService(users UserStore, tokens TokenCodec, mailer Mailer, revoker Revoker, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		users:    users,
		tokens:   tokens,
		mailer:   mailer,
		revoker:  revoker,
		log:      log.Named("auth"),
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (int64, error) {
	if err := validateRequest(req, ErrSignupFieldsRequired); err != nil {
		return 0, err
	}
	if req.ConfirmPassword != "" && req.Password != req.ConfirmPassword {
		return 0, ErrPasswordMismatch
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return 0, ErrEmailExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return 0, fmt.Errorf("lookup email: %w", err)
	}

	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return 0, ErrUsernameExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return 0, fmt.Errorf("lookup username: %w", err)
	}

	hash, err := hashPassword(req.Password, s.hashCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		ProfilePic:   strings.TrimSpace(req.ProfilePic),
		Verified:     false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with a concurrent signup
			return 0, ErrEmailExists
		}
		return 0, fmt.Errorf("create user: %w", err)
	}

	if err := s.sendVerification(ctx, user); err != nil {
		return 0, err
	}

	s.log.Info("user signed up", zap.Int64("user_id", user.ID))
	return user.ID, nil
}

// Login checks existence, then verification, then the password. An
// unverified account gets a fresh verification mail on every attempt.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := validateRequest(req, ErrLoginFieldsRequired); err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserDoesNotExist
		}
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	if !user.Verified {
		if err := s.sendVerification(ctx, user); err != nil {
			return nil, err
		}
		return nil, ErrNotVerified
	}

	if !checkPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(jwt.Access, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.Issue(jwt.Refresh, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &LoginResult{
		UserID:       user.ID,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// Logout denylists refreshToken until it would expire anyway. Tokens that
// no longer verify are ignored.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" || s.revoker == nil {
		return nil
	}

	claims, err := s.tokens.Verify(jwt.Refresh, refreshToken)
	if err != nil {
		return nil
	}

	if err := s.revoker.Revoke(ctx, jwt.HashToken(refreshToken), claims.UserID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (s *Service) VerifyEmail(ctx context.Context, token string) (int64, error) {
	if strings.TrimSpace(token) == "" {
		return 0, ErrTokenMissing
	}

	claims, err := s.tokens.VerifyEmailAction(token, jwt.PurposeVerifyEmail)
	if err != nil {
		return 0, ErrInvalidToken
	}

	user, err := s.getUser(ctx, claims.UserID)
	if err != nil {
		return 0, err
	}
	if user.Verified {
		return 0, ErrAlreadyVerified
	}
	if claims.Stamp != actionStamp(jwt.PurposeVerifyEmail, user) {
		// issued for an address the account no longer has
		return 0, ErrInvalidToken
	}

	if err := s.users.SetVerified(ctx, user.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyVerified):
			return 0, ErrAlreadyVerified
		case errors.Is(err, repository.ErrUserNotFound):
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("set verified: %w", err)
	}
	return user.ID, nil
}

// ResendVerification mails a new link to an unverified account. Unknown and
// already verified addresses succeed silently.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	if err := validateRequest(EmailRequest{Email: email}, ErrEmailRequired); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("lookup email: %w", err)
	}
	if user.Verified {
		return nil
	}
	return s.sendVerification(ctx, user)
}

// RequestEmailChange mails a change_email link to the account's current address.
func (s *Service) RequestEmailChange(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	token, err := s.issueAction(user, jwt.PurposeChangeEmail)
	if err != nil {
		return nil, err
	}
	if err := s.mailer.SendEmailChangeConfirmation(ctx, user.Email, token); err != nil {
		return nil, fmt.Errorf("send email change mail: %w", err)
	}
	return user, nil
}

// ConfirmEmailChange moves the account to req.NewEmail and marks it
// unverified until the new address is confirmed.
func (s *Service) ConfirmEmailChange(ctx context.Context, req ConfirmEmailChangeRequest) (*domain.User, error) {
	if err := validateRequest(req, ErrChangeFieldsRequired); err != nil {
		return nil, err
	}

	claims, err := s.tokens.VerifyEmailAction(req.Token, jwt.PurposeChangeEmail)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.getUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if claims.Stamp != actionStamp(jwt.PurposeChangeEmail, user) {
		return nil, ErrInvalidToken
	}

	newEmail := strings.ToLower(strings.TrimSpace(req.NewEmail))
	if newEmail == user.Email {
		return nil, ErrNoOpChange
	}

	if _, err := s.users.GetByEmail(ctx, newEmail); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	if err := s.users.UpdateEmail(ctx, user.ID, user.Email, newEmail); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrEmailInUse
		case errors.Is(err, repository.ErrStale):
			// a concurrent redemption of the same token won
			return nil, ErrInvalidToken
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update email: %w", err)
	}
	user.Email = newEmail
	user.Verified = false

	if err := s.sendVerification(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("email changed", zap.Int64("user_id", user.ID))
	return user, nil
}

func (s *Service) RequestPasswordChange(ctx context.Context, email string) (*domain.User, error) {
	if err := validateRequest(EmailRequest{Email: email}, ErrEmailRequired); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNoAccountByEmail
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	token, err := s.issueAction(user, jwt.PurposeChangePassword)
	if err != nil {
		return nil, err
	}
	if err := s.mailer.SendPasswordChange(ctx, user.Email, token); err != nil {
		return nil, fmt.Errorf("send password change mail: %w", err)
	}
	return user, nil
}

func (s *Service) ConfirmPasswordChange(ctx context.Context, req ConfirmPasswordChangeRequest) error {
	if err := validateRequest(req, ErrPasswordFieldsRequired); err != nil {
		return err
	}
	if req.Password != req.ConfirmPassword {
		return ErrPasswordMismatch
	}

	claims, err := s.tokens.VerifyEmailAction(req.Token, jwt.PurposeChangePassword)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.getUser(ctx, claims.UserID)
	if err != nil {
		return err
	}
	if claims.Stamp != actionStamp(jwt.PurposeChangePassword, user) {
		return ErrInvalidToken
	}

	hash, err := hashPassword(req.Password, s.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, user.PasswordHash, hash); err != nil {
		switch {
		case errors.Is(err, repository.ErrStale):
			return ErrInvalidToken
		case errors.Is(err, repository.ErrUserNotFound):
			return ErrUserNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}

	s.log.Info("password changed", zap.Int64("user_id", user.ID))
	return nil
}

func (s *Service) getUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

func (s *Service) sendVerification(ctx context.Context, user *domain.User) error {
	token, err := s.issueAction(user, jwt.PurposeVerifyEmail)
	if err != nil {
		return err
	}
	if err := s.mailer.SendVerification(ctx, user.Email, token); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}
	return nil
}

func (s *Service) issueAction(user *domain.User, purpose jwt.Purpose) (string, error) {
	token, err := s.tokens.IssueEmailAction(user.ID, purpose, actionStamp(purpose, user))
	if err != nil {
		return "", fmt.Errorf("issue email token: %w", err)
	}
	return token, nil
}

// actionStamp fingerprints the state an email action changes: the address
// for verify and change-email, the password hash for change-password. Once
// the action is applied the stamp no longer matches, so the token is spent.
func actionStamp(purpose jwt.Purpose, user *domain.User) string {
	state := strings.ToLower(strings.TrimSpace(user.Email))
	if purpose == jwt.PurposeChangePassword {
		state = user.PasswordHash
	}
	return jwt.HashToken(string(purpose) + ":" + state)[:32]
}

// validateRequest reports missing when a required field is absent, else
// names the first invalid field.
func validateRequest(req any, missing *AppError) error {
	errs := validator.Validate(req)
	if len(errs) == 0 {
		return nil
	}

	fields := make([]string, 0, len(errs))
	for field, tag := range errs {
		if tag == "required" {
			return missing
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)
	if fields[0] == "_" {
		return fmt.Errorf("validate request: %s", errs["_"])
	}
	return &AppError{Kind: KindValidation, Message: "Invalid " + fields[0]}
}
