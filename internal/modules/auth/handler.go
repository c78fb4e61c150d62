package auth

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kindremind/internal/middleware"
	"kindremind/internal/pkg/response"
)

// CookieConfig controls the refresh token cookie.
type CookieConfig struct {
	Secure bool
	Path   string
	MaxAge time.Duration
}

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
	cookie  CookieConfig
}

func NewHandler(service *Service, cookie CookieConfig) *Handler {
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	return &Handler{service: service, cookie: cookie}
}

type userRef struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email,omitempty"`
}

// Signup creates an unverified account and mails the verification link.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "User created successfully. Please verify your email.", response.Data{
		User: userRef{UserID: userID},
	})
}

// Login returns the access token in the body and the refresh token as a cookie.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, int(h.cookie.MaxAge.Seconds()))

	response.Success(c, http.StatusOK, "Login successful", response.Data{
		Authentication: &response.Authentication{
			OldAccessToken: nil,
			NewAccessToken: result.AccessToken,
		},
		User: userRef{UserID: result.UserID},
	})
}

// Logout clears the cookie on every path, then revokes the refresh token if
// one was sent. A failed revoke is a 500 so the client knows the token may
// still be live, but the cookie is gone either way.
func (h *Handler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(middleware.RefreshCookie)
	h.setRefreshCookie(c, "", -1)

	if err := h.service.Logout(c.Request.Context(), refreshToken); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Logout successful", response.Data{})
}

// VerifyEmail accepts the token as ?token= or as a JSON body.
func (h *Handler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" && c.Request.Method == http.MethodPost {
		var req VerifyRequest
		if !bindJSON(c, &req) {
			return
		}
		token = req.Token
	}

	userID, err := h.service.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Email verified successfully", response.Data{
		User: userRef{UserID: userID},
	})
}

func (h *Handler) ResendVerification(c *gin.Context) {
	var req EmailRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.ResendVerification(c.Request.Context(), req.Email); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "If the account exists and is not verified, a new verification link has been sent.", response.Data{})
}

// RequestEmailChange is gated; the link goes to the current address.
func (h *Handler) RequestEmailChange(c *gin.Context) {
	user, err := h.service.RequestEmailChange(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Email update link sent to current email address.", response.Data{
		Authentication: middleware.Authentication(c),
		User:           userRef{UserID: user.ID, Email: user.Email},
	})
}

func (h *Handler) ConfirmEmailChange(c *gin.Context) {
	var req ConfirmEmailChangeRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.ConfirmEmailChange(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Email updated successfully", response.Data{
		User: userRef{UserID: user.ID, Email: user.Email},
	})
}

func (h *Handler) RequestPasswordChange(c *gin.Context) {
	var req EmailRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.RequestPasswordChange(c.Request.Context(), req.Email)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Password update link sent to current email address.", response.Data{
		User: userRef{UserID: user.ID, Email: user.Email},
	})
}

func (h *Handler) ConfirmPasswordChange(c *gin.Context) {
	var req ConfirmPasswordChangeRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.ConfirmPasswordChange(c.Request.Context(), req); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Password updated successfully", response.Data{})
}

func (h *Handler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.RefreshCookie, value, maxAge, h.cookie.Path, "", h.cookie.Secure, true)
}

// bindJSON decodes the body into req. An empty body leaves req zero-valued
// so the service reports the missing fields.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// fail writes err as an error envelope. Errors that are not an AppError are
// attached to the context for the request logger and shown as "Server error".
func fail(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		_ = c.Error(err)
	}
	response.Error(c, appErr.HTTPStatus(), appErr.Message)
}
