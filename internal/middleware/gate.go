package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kindremind/internal/pkg/jwt"
	"kindremind/internal/pkg/response"
)

const (
	ctxUserID         = "user_id"
	ctxAccessToken    = "access_token"
	ctxOldAccessToken = "old_access_token"

	// RefreshCookie is the cookie login sets and the gate reads on expiry.
	RefreshCookie = "refreshToken"
)

const (
	msgAccessMissing  = "Access token missing"
	msgAccessInvalid  = "Invalid or expired token"
	msgRefreshMissing = "Refresh token missing"
	msgRefreshInvalid = "Invalid refresh token"
	msgServerError    = "Server error"
)

type TokenCodec interface {
	Issue(class jwt.Class, userID int64) (string, error)
	Verify(class jwt.Class, token string) (*jwt.Claims, error)
}

// Denylist reports refresh tokens revoked by logout, keyed by jwt.HashToken.
type Denylist interface {
	IsRevoked(ctx context.Context, hash string) (bool, error)
}

// RequireAuth admits requests carrying a valid access token. An expired
// access token is replaced once per request using the refresh cookie; the
// replacement is returned in the Authorization response header.
func RequireAuth(codec TokenCodec, denylist Denylist, log *zap.Logger) gin.HandlerFunc {
	log = log.Named("gate")

	return func(c *gin.Context) {
		accessToken := bearerToken(c.GetHeader("Authorization"))
		if accessToken == "" {
			response.Abort(c, http.StatusUnauthorized, msgAccessMissing)
			return
		}

		claims, err := codec.Verify(jwt.Access, accessToken)
		switch {
		case err == nil:
			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxAccessToken, accessToken)
			c.Next()
			return
		case !errors.Is(err, jwt.ErrExpired):
			response.Abort(c, http.StatusForbidden, msgAccessInvalid)
			return
		}

		refreshToken, err := c.Cookie(RefreshCookie)
		if err != nil || refreshToken == "" {
			response.Abort(c, http.StatusUnauthorized, msgRefreshMissing)
			return
		}

		refreshClaims, err := codec.Verify(jwt.Refresh, refreshToken)
		if err != nil {
			response.Abort(c, http.StatusForbidden, msgRefreshInvalid)
			return
		}

		if denylist != nil {
			revoked, err := denylist.IsRevoked(c.Request.Context(), jwt.HashToken(refreshToken))
			if err != nil {
				log.Error("denylist lookup failed", zap.Error(err))
				response.Abort(c, http.StatusInternalServerError, msgServerError)
				return
			}
			if revoked {
				response.Abort(c, http.StatusForbidden, msgRefreshInvalid)
				return
			}
		}

		newToken, err := codec.Issue(jwt.Access, refreshClaims.UserID)
		if err != nil {
			log.Error("issue access token", zap.Error(err))
			response.Abort(c, http.StatusInternalServerError, msgServerError)
			return
		}

		log.Debug("access token rotated", zap.Int64("user_id", refreshClaims.UserID))

		c.Header("Authorization", "Bearer "+newToken)
		c.Set(ctxUserID, refreshClaims.UserID)
		c.Set(ctxAccessToken, newToken)
		c.Set(ctxOldAccessToken, accessToken)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// UserID returns the identity the gate attached, or 0 outside a gated route.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}

// AccessToken returns the token the client should use next.
func AccessToken(c *gin.Context) string {
	return c.GetString(ctxAccessToken)
}

// RotatedFrom returns the expired token replaced on this request, if any.
func RotatedFrom(c *gin.Context) (string, bool) {
	old := c.GetString(ctxOldAccessToken)
	return old, old != ""
}

// Authentication builds the envelope block gated handlers return.
func Authentication(c *gin.Context) *response.Authentication {
	auth := &response.Authentication{NewAccessToken: AccessToken(c)}
	if old, ok := RotatedFrom(c); ok {
		auth.OldAccessToken = &old
	}
	return auth
}
