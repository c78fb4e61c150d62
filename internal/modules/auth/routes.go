package auth

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.POST("/signup", h.Signup)
	v1.POST("/login", h.Login)
	v1.POST("/logout", h.Logout)

	v1.POST("/verify", h.VerifyEmail)
	v1.GET("/verify", h.VerifyEmail)
	v1.POST("/verify/resend", h.ResendVerification)

	v1.POST("/email/confirm", h.ConfirmEmailChange)

	passwordGroup := v1.Group("/password")
	{
		passwordGroup.POST("/change", h.RequestPasswordChange)
		passwordGroup.POST("/confirm", h.ConfirmPasswordChange)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.POST("/email/change", h.RequestEmailChange)
}
