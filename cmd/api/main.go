package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/patlanio/whispeer/pkg/api"
	"github.com/patlanio/whispeer/pkg/ble"
	"github.com/patlanio/whispeer/pkg/broadlink"
	"github.com/patlanio/whispeer/pkg/db"
	"github.com/patlanio/whispeer/pkg/learning"
	"github.com/patlanio/whispeer/pkg/schema"

	_ "github.com/patlanio/whispeer/docs"
)

// @title           Whispeer API
// @version         1.0
// @description     REST API for learning and sending IR/RF/BLE remote-control codes

// @host      localhost:8080
// @BasePath  /api/whispeer
// @schemes   http https

func main() {
	// Configure logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Parse flags
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/whispeer/whispeer.db)")
	addr := flag.String("addr", "", "Listen address (default: from settings)")
	flag.Parse()

	ctx := context.Background()

	// Open database
	database, err := db.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	log.Info().Str("path", database.Path()).Msg("Database opened")

	// Run migrations
	if err := database.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Bootstrap if needed (first run)
	needsBootstrap, err := database.NeedsBootstrap(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check bootstrap status")
	}
	if needsBootstrap {
		log.Info().Msg("First run detected, bootstrapping database...")
		if err := database.Bootstrap(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to bootstrap database")
		}
		log.Info().Msg("Database bootstrapped successfully")
	}

	// Load settings
	settings, err := database.GetSettings(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load settings")
	}

	// Backends
	bleBackend := ble.NewAdvertiser()
	if !bleBackend.Available() {
		log.Warn().Msg("BlueZ tools not found, BLE emission will be simulated")
	}
	broadlinkBackend := broadlink.NewBackend()

	// Learning session registry; the Broadlink backend is the connector
	// for ir/rf sessions.
	registry := learning.NewRegistry(broadlinkBackend, learning.DefaultConfig())
	defer registry.Close()

	validator := schema.NewValidator()

	// Create and start API router
	router := api.NewRouter(registry, database, validator, bleBackend, broadlinkBackend)

	// Handle shutdown gracefully
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down...")
		registry.Close()
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
		os.Exit(0)
	}()

	// Start server
	listenAddr := *addr
	if listenAddr == "" {
		listenAddr = settings.APIAddress()
	}
	log.Info().Str("address", listenAddr).Msg("Starting API server")

	if err := router.Run(listenAddr); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
