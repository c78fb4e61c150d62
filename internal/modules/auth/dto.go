package auth

type SignupRequest struct {
	Username        string `json:"username" validate:"required,max=64"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,max=72"`
	ConfirmPassword string `json:"confirmPassword"`
	ProfilePic      string `json:"profile_pic" validate:"omitempty,max=512"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ConfirmEmailChangeRequest struct {
	Token    string `json:"token" validate:"required"`
	NewEmail string `json:"newEmail" validate:"required,email,max=255"`
}

type ConfirmPasswordChangeRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type VerifyRequest struct {
	Token string `json:"token" form:"token"`
}

// LoginResult carries both tokens; the refresh token only ever leaves in a cookie.
type LoginResult struct {
	UserID       int64
	AccessToken  string
	RefreshToken string
}
