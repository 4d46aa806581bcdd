// main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-events/controllers"
	"campus-events/middleware"
	"campus-events/models"
	"campus-events/routes"
	"campus-events/store"
	"campus-events/utils"

	"github.com/gorilla/mux"
)

func main() {
	cfg, err := utils.LoadConfig()
	logger := utils.NewLogger("info")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger = utils.NewLogger(cfg.LogLevel)
	log := &logger

	// Connect to MongoDB
	client, err := utils.ConnectDB(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from database")
		}
	}()

	db := store.NewMongoStore(client, cfg.DatabaseName)
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(indexCtx); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}
	cancelIndex()

	// Email is optional; without a token no notification is sent
	var notifier controllers.Notifier
	if cfg.PostmarkToken != "" {
		notifier = utils.NewEmailService(cfg.PostmarkToken, cfg.EmailSender)
	} else {
		log.Warn().Msg("POSTMARK_API_TOKEN not set, status notifications disabled")
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	posters := utils.NewPosterStorage(cfg.UploadDir, cfg.PublicBaseURL, cfg.PosterMaxWidth)

	// Initialize controllers
	ctrls := routes.Controllers{
		Events:      controllers.NewEventController(db, log),
		Review:      controllers.NewReviewController(db, notifier, log),
		Upload:      controllers.NewUploadController(posters, cfg.MaxUploadBytes, log),
		Enrollments: controllers.NewEnrollmentController(db, db, log),
		Health:      controllers.NewHealthController(db, log),
		Accounts: []*controllers.AccountController{
			controllers.NewAccountController(models.RoleOrganizer, db, tokens, log),
			controllers.NewAccountController(models.RoleStudent, db, tokens, log),
			controllers.NewAccountController(models.RoleAdmin, db, tokens, log),
		},
	}

	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(log), middleware.Recovery(log))
	routes.RegisterRoutes(router, middleware.NewAuth(tokens), ctrls, routes.Options{
		UploadDir:              cfg.UploadDir,
		RequireAdminModeration: cfg.RequireAdminModeration,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("publicBaseUrl", cfg.PublicBaseURL).Msg("server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signals:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		log.Error().Err(err).Msg("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("shutdown complete")
}
