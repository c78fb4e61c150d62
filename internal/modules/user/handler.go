package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"kindremind/internal/domain"
	"kindremind/internal/middleware"
	"kindremind/internal/pkg/response"
	"kindremind/internal/repository"
)

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Handler serves the pages behind the request gate.
type Handler struct {
	users UserReader
}

func NewHandler(users UserReader) *Handler {
	return &Handler{users: users}
}

type pagePayload struct {
	UserID int64  `json:"userId"`
	Page   string `json:"page"`
}

func (h *Handler) Dashboard(c *gin.Context) {
	h.page(c, "dashboard")
}

func (h *Handler) page(c *gin.Context, name string) {
	userID := middleware.UserID(c)
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "User ID not found in token")
		return
	}

	response.Success(c, http.StatusOK, fmt.Sprintf("Welcome to your %s page, %d", name, userID), response.Data{
		Authentication: middleware.Authentication(c),
		Payload:        pagePayload{UserID: userID, Page: name},
	})
}

// Profile returns the caller's own record.
func (h *Handler) Profile(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "User not found")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved successfully", response.Data{
		Authentication: middleware.Authentication(c),
		User:           user.Public(),
	})
}
