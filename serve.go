package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"course-sales-backend/config"
	"course-sales-backend/controllers"
	"course-sales-backend/controllers/httpCors"
	"course-sales-backend/controllers/payments"
	"course-sales-backend/logger"
	"course-sales-backend/services"
	"course-sales-backend/storage"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	Long: `Run the HTTP API.

APP_VARIANT selects the deployment:
  course  database-backed modules, accounts and JWT-guarded progress
  meme    built-in modules, no accounts, read-only sample progress`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogMode, logger.WithHashSalt(cfg.LogHashSalt))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	deps, closeFn, err := buildDeps(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer closeFn()

	engine := controllers.NewRouter(deps)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpCors.CorsSettings([]string{cfg.ClientURL}, false).Handler(engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		log.Info("server listening", "port", cfg.Port, "variant", cfg.Variant)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	})
	return g.Wait()
}

// buildDeps wires the stores and capabilities for the configured variant.
// The returned func releases whatever was opened.
func buildDeps(ctx context.Context, cfg *config.Config, log *logger.Logger) (controllers.Deps, func(), error) {
	d := controllers.Deps{
		Log:            log,
		Variant:        cfg.Variant,
		PublishableKey: cfg.Stripe.PublishableKey,
		Payments: payments.Deps{
			Provider: services.NewStripeCheckout(cfg.Stripe.SecretKey),
			Verifier: services.NewStripeWebhookVerifier(cfg.Stripe.WebhookSecret),
			Item: services.LineItem{
				Name:       cfg.Checkout.ProductName,
				Currency:   cfg.Checkout.Currency,
				UnitAmount: cfg.Checkout.UnitAmount,
				Quantity:   1,
			},
			ClientURL: cfg.ClientURL,
		},
	}
	if cfg.Stripe.SecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY is not set, checkout will fail")
	}
	if cfg.Stripe.WebhookSecret == "" {
		log.Warn("STRIPE_WEBHOOK_SECRET is not set, every webhook will be rejected")
	}

	if cfg.Variant == config.VariantMeme {
		modules, err := storage.DefaultModules()
		if err != nil {
			return d, nil, fmt.Errorf("load built-in modules: %w", err)
		}
		d.Modules = storage.NewStaticModuleStore(modules)
		d.Progress = storage.NewMockProgressStore()
		d.Auth = services.OpenAuthenticator{}
		return d, func() {}, nil
	}

	db, err := config.OpenDB(cfg.DatabaseURL)
	if err != nil {
		return d, nil, err
	}
	closeFn := func() { closeDB(db) }
	if err := storage.Migrate(db); err != nil {
		closeFn()
		return d, nil, fmt.Errorf("migrate: %w", err)
	}

	modules := storage.NewGormModuleStore(db)
	if list, err := modules.List(ctx); err == nil && len(list) == 0 {
		log.Warn("no modules in the database, run the seed command")
	}
	usersStore := storage.NewGormUserStore(db)
	jwtAuth := services.NewJWTAuthenticator(cfg.JWTSecret)

	d.Modules = modules
	d.Progress = usersStore
	d.Users = usersStore
	d.Auth = jwtAuth
	d.Tokens = jwtAuth

	if cfg.Google.Enabled() {
		d.Identity = services.NewGoogleOAuth(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.APIURL+"/api/auth/google/callback")
		d.Sessions = config.NewSessionStore(cfg.Google.SessionSecret, strings.HasPrefix(cfg.APIURL, "https://"))
		log.Info("google sign-in enabled")
	}
	return d, closeFn, nil
}
