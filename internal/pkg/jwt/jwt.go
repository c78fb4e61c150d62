package jwt

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Class selects which secret and lifetime a token is issued and verified with.
type Class int

const (
	Access Class = iota
	Refresh
	EmailAction
)

func (c Class) String() string {
	switch c {
	case Access:
		return "access"
	case Refresh:
		return "refresh"
	case EmailAction:
		return "email_action"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Purpose binds an email-action token to the flow it was issued for.
type Purpose string

const (
	PurposeVerifyEmail    Purpose = "verify_email"
	PurposeChangeEmail    Purpose = "change_email"
	PurposeChangePassword Purpose = "change_password"
)

// Verification failures. Callers branch on these with errors.Is.
var (
	ErrMalformed    = errors.New("token malformed")
	ErrBadSignature = errors.New("token signature invalid")
	ErrExpired      = errors.New("token expired")
)

var ErrUnknownClass = errors.New("unknown token class")

// Stamp on an email-action token fingerprints the account state the action
// will change. Callers compare it against current state on redemption.
type Claims struct {
	UserID  int64   `json:"userId"`
	Purpose Purpose `json:"purpose,omitempty"`
	Stamp   string  `json:"stamp,omitempty"`
	jwtlib.RegisteredClaims
}

// Config holds the signing material for all three classes.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	EmailSecret   string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	EmailTTL      time.Duration
}

type key struct {
	secret []byte
	ttl    time.Duration
}

type Service struct {
	keys map[Class]key
	now  func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for iat/exp and for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(cfg Config, opts ...Option) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Service{
		keys: map[Class]key{
			Access:      {secret: []byte(cfg.AccessSecret), ttl: cfg.AccessTTL},
			Refresh:     {secret: []byte(cfg.RefreshSecret), ttl: cfg.RefreshTTL},
			EmailAction: {secret: []byte(cfg.EmailSecret), ttl: cfg.EmailTTL},
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (cfg Config) validate() error {
	secrets := map[string]string{
		"access":       cfg.AccessSecret,
		"refresh":      cfg.RefreshSecret,
		"email action": cfg.EmailSecret,
	}
	for name, secret := range secrets {
		if secret == "" {
			return fmt.Errorf("jwt: %s secret is empty", name)
		}
	}
	if cfg.AccessSecret == cfg.RefreshSecret || cfg.AccessSecret == cfg.EmailSecret || cfg.RefreshSecret == cfg.EmailSecret {
		return errors.New("jwt: access, refresh and email action secrets must be distinct")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 || cfg.EmailTTL <= 0 {
		return errors.New("jwt: token lifetimes must be > 0")
	}
	if cfg.AccessTTL >= cfg.RefreshTTL {
		return fmt.Errorf("jwt: access ttl %s must be shorter than refresh ttl %s", cfg.AccessTTL, cfg.RefreshTTL)
	}
	return nil
}

// TTL reports the configured lifetime of a class.
func (s *Service) TTL(class Class) time.Duration {
	return s.keys[class].ttl
}

// Issue signs a token of the given class for userID.
func (s *Service) Issue(class Class, userID int64) (string, error) {
	return s.issue(class, userID, "", "")
}

// IssueEmailAction signs an email-action token bound to purpose and stamp.
func (s *Service) IssueEmailAction(userID int64, purpose Purpose, stamp string) (string, error) {
	return s.issue(EmailAction, userID, purpose, stamp)
}

func (s *Service) issue(class Class, userID int64, purpose Purpose, stamp string) (string, error) {
	k, ok := s.keys[class]
	if !ok {
		return "", ErrUnknownClass
	}

	now := s.now()
	claims := Claims{
		UserID:  userID,
		Purpose: purpose,
		Stamp:   stamp,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(k.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(k.secret)
}

// Verify checks the token against the secret of class and returns its claims.
// Failures are always one of ErrMalformed, ErrBadSignature or ErrExpired.
func (s *Service) Verify(class Class, tokenStr string) (*Claims, error) {
	k, ok := s.keys[class]
	if !ok {
		return nil, ErrUnknownClass
	}

	claims := &Claims{}
	_, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (any, error) {
		return k.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, classify(err)
	}
	if claims.UserID <= 0 {
		return nil, ErrMalformed
	}

	return claims, nil
}

// VerifyEmailAction verifies an email-action token and requires its purpose to match.
func (s *Service) VerifyEmailAction(tokenStr string, purpose Purpose) (*Claims, error) {
	claims, err := s.Verify(EmailAction, tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, ErrBadSignature
	}
	return claims, nil
}

// classify folds the library's error tree into the three verification failures.
// Signature checks run before claim validation, so ErrExpired implies a valid signature.
func classify(err error) error {
	switch {
	case errors.Is(err, jwtlib.ErrTokenSignatureInvalid), errors.Is(err, jwtlib.ErrTokenUnverifiable):
		return ErrBadSignature
	case errors.Is(err, jwtlib.ErrTokenExpired):
		return ErrExpired
	default:
		return ErrMalformed
	}
}

// HashToken returns the hex sha256 of a raw token. Revocation lists key on
// this instead of storing the token itself.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
