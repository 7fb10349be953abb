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
	"github.com/scriberly/scriberly-be/internal/api"
	"github.com/scriberly/scriberly-be/internal/config"
	"github.com/scriberly/scriberly-be/internal/database"
	"github.com/scriberly/scriberly-be/internal/logger"
	"github.com/scriberly/scriberly-be/internal/maintenance"
	"github.com/scriberly/scriberly-be/internal/services"
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

	// Set up the article image store
	fileStore, err := services.NewFileStore(cfg.UploadPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize upload store")
	}

	// Set up services
	articleService := services.NewArticleService(db)
	userService := services.NewUserService(db)
	activityService := services.NewActivityService(db)
	contentService := services.NewContentService(cfg.ContentProviderURL)

	// Set up and run the background upload sweeper
	sweeper, err := maintenance.NewSweeper(articleService, fileStore, cfg.SweepSchedule)
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.SweepSchedule).Msg("Invalid sweep schedule")
	}
	go sweeper.Run()

	// Set up router
	router := api.NewRouter(articleService, userService, contentService, fileStore, activityService, cfg.Locale, cfg.CORSOrigin)

	// Set up server
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

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
