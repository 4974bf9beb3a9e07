package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"course-sales-backend/controllers/authentication"
	"course-sales-backend/controllers/contact"
	"course-sales-backend/controllers/content"
	"course-sales-backend/controllers/middleware"
	"course-sales-backend/controllers/payments"
	"course-sales-backend/controllers/progress"
	"course-sales-backend/logger"
	"course-sales-backend/services"
	"course-sales-backend/storage"
)

type ConfigResponse struct {
	PublishableKey string `json:"publishableKey"`
	Variant        string `json:"variant"`
}

// Deps is everything the router needs. Users and Tokens are only set for the
// course variant; Identity and Sessions only when Google sign-in is on.
type Deps struct {
	Log            *logger.Logger
	Variant        string
	PublishableKey string

	Modules  storage.ModuleRepository
	Progress storage.ProgressRepository
	Auth     services.Authenticator

	Users  storage.UserRepository
	Tokens services.TokenIssuer

	Identity services.IdentityProvider
	Sessions sessions.Store

	Payments payments.Deps
}

func NewRouter(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = logger.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(log), gin.Recovery())

	r.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/config", func(c *gin.Context) {
		c.JSON(http.StatusOK, ConfigResponse{PublishableKey: d.PublishableKey, Variant: d.Variant})
	})

	modules := content.NewHandler(d.Modules)
	api.GET("/modules", modules.ListModules)
	api.GET("/content/modules", modules.ListModules)

	prog := progress.NewHandler(d.Auth, d.Progress, d.Modules)
	api.GET("/user/progress", prog.GetProgress)
	api.POST("/user/progress", prog.CompleteLesson)

	pd := d.Payments
	if pd.Log == nil {
		pd.Log = log
	}
	if pd.Auth == nil {
		pd.Auth = d.Auth
	}
	pay := payments.NewHandler(pd)
	api.POST("/checkout", pay.CreateCheckoutSession)
	api.POST("/payments/create-checkout-session", pay.CreateCheckoutSession)
	api.POST("/payments/webhook", pay.Webhook)

	api.POST("/contact", contact.NewHandler(log).SubmitMessage)

	if d.Users != nil && d.Tokens != nil {
		auth := authentication.NewHandler(log, d.Users, d.Auth, d.Tokens)
		g := api.Group("/auth")
		g.POST("/register", auth.Register)
		g.POST("/login", auth.Login)
		g.GET("/me", auth.Me)
		g.POST("/logout", auth.Logout)
		g.POST("/password", auth.ChangePassword)

		if d.Identity != nil && d.Sessions != nil {
			google := authentication.NewGoogleHandler(log, d.Identity, d.Sessions, d.Users, d.Tokens)
			g.GET("/google/login", google.HandleGoogleLogin)
			g.GET("/google/callback", google.HandleGoogleCallback)
		}
	}

	return r
}
