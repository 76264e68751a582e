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

	"github.com/avasquez/recordshelf-be/internal/api"
	"github.com/avasquez/recordshelf-be/internal/auth"
	"github.com/avasquez/recordshelf-be/internal/config"
	"github.com/avasquez/recordshelf-be/internal/database"
	"github.com/avasquez/recordshelf-be/internal/logger"
	"github.com/avasquez/recordshelf-be/internal/monitoring"
	"github.com/avasquez/recordshelf-be/internal/musicsearch"
	"github.com/avasquez/recordshelf-be/internal/services"
	"github.com/avasquez/recordshelf-be/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	sessions := auth.NewManager(cfg.JWTSecret)
	userService := services.NewUserService(db)
	collectionService := services.NewCollectionService(db)
	searchCache := musicsearch.NewCache(musicsearch.NewClient(cfg.SearchBaseURL))

	// Set up and run the background cache janitor
	janitor, err := monitoring.NewCacheJanitor(searchCache, "* * * * *")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cache janitor")
	}
	go janitor.Run()

	// Set up router
	router := api.NewRouter(hub, sessions, userService, collectionService, searchCache, cfg.CORSOrigin)

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

	janitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
