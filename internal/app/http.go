package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kindremind/internal/config"
	"kindremind/internal/database"
	"kindremind/internal/mailer"
	"kindremind/internal/middleware"
	"kindremind/internal/modules/auth"
	"kindremind/internal/modules/user"
	jwtsvc "kindremind/internal/pkg/jwt"
	"kindremind/internal/pkg/response"
	"kindremind/internal/repository"
)

func setupHTTP(cfg *config.Config, inf *infra, log *zap.Logger) (*gin.Engine, error) {
	codec, err := jwtsvc.New(cfg.JWT)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(inf.db)

	authService := auth.NewService(userRepo, codec, newMailer(cfg, log), inf.denylist, log)
	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Secure: cfg.CookieSecure,
		Path:   cfg.CookiePath,
		MaxAge: cfg.JWT.RefreshTTL,
	})
	userHandler := user.NewHandler(userRepo)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(log),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	r.GET("/health", health(inf.db))

	v1 := r.Group("/kind-remind")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.RequireAuth(codec, inf.denylist, log))
		{
			authHandler.RegisterProtectedRoutes(protected)
			userHandler.RegisterProtectedRoutes(protected)
		}
	}

	return r, nil
}

func newMailer(cfg *config.Config, log *zap.Logger) auth.Mailer {
	links := mailer.Links{FrontendURL: cfg.FrontendURL, TTL: cfg.JWT.EmailTTL}
	if !cfg.SMTP.Enabled() {
		log.Warn("SMTP_HOST not set, emails are written to the log")
		return mailer.NewConsoleMailer(log, links)
	}
	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:        cfg.SMTP.Host,
		Port:        cfg.SMTP.Port,
		Username:    cfg.SMTP.Username,
		Password:    cfg.SMTP.Password,
		FromName:    cfg.SMTP.FromName,
		FromAddress: cfg.SMTP.FromAddress,
	}, links)
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.Ping(ctx, db); err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		response.Success(c, http.StatusOK, "ok", response.Data{})
	}
}
