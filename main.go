package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andklim/contacts-be/internal/api"
	"github.com/andklim/contacts-be/internal/auth"
	"github.com/andklim/contacts-be/internal/cache"
	"github.com/andklim/contacts-be/internal/config"
	"github.com/andklim/contacts-be/internal/database"
	"github.com/andklim/contacts-be/internal/logger"
	"github.com/andklim/contacts-be/internal/mail"
	"github.com/andklim/contacts-be/internal/monitoring"
	"github.com/andklim/contacts-be/internal/services"
	"github.com/andklim/contacts-be/internal/upload"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Optional response cache; a noop stands in when no servers are set.
	var responseCache cache.Cache = cache.Noop{}
	if len(cfg.CacheServers) > 0 {
		client, err := cache.New(cfg.CacheServers)
		if err != nil {
			log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		} else {
			responseCache = client
			defer client.Close(context.Background())
		}
	}

	// Set up token signing
	tokens, err := auth.NewTokenService(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token service")
	}

	// Set up services
	userService := services.NewUserService(db)
	contactService := services.NewContactService(db)
	eventService := services.NewEventService(db)

	authn := auth.NewAuthenticator(tokens, userService, responseCache,
		time.Duration(cfg.CacheTTLSeconds)*time.Second)

	mailer := mail.NewSMTPMailer(cfg)

	avatarStore, err := upload.NewAvatarStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize avatar store")
	}

	// Set up and run the birthday digest scheduler
	scheduler := monitoring.NewScheduler(userService, contactService, mailer)
	scheduler.Run()

	// Set up router
	router := api.NewRouter(cfg, authn, tokens, userService, contactService, eventService, avatarStore, mailer)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
