package user

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/dashboard", h.Dashboard)
	protected.GET("/profile", h.Profile)
}
