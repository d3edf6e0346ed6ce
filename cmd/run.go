package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"hangman/config"
	"hangman/database"
	"hangman/events"
	"hangman/mail"
	"hangman/repository"
	"hangman/service"
	"hangman/web"
	"hangman/words"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting hangman server...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Load the word catalog
	catalog, err := words.Load(cfg.WordListFile)
	if err != nil {
		return fmt.Errorf("failed to load word catalog: %w", err)
	}

	// Initialize event bus and unit of work factory
	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	userService := service.NewUserService(uowFactory)
	gameService := service.NewGameService(uowFactory, catalog)
	rankingService := service.NewRankingService(uowFactory)
	statsService := service.NewStatsService(uowFactory)

	var mailer service.Mailer
	if cfg.SMTPAddr != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom)
	} else {
		mailer = mail.NewDiscardMailer()
	}
	reminderService := service.NewReminderService(uowFactory, mailer)

	// Refresh the stats cache when games are created and keep the game
	// counters in the process metrics
	service.SubscribeStats(eventBus, statsService)
	subscribeMetrics(eventBus)

	// Warm the cache so the average endpoint has a value before the first
	// game of this process
	if err := statsService.RecomputeAverageMissesRemaining(ctx); err != nil {
		log.WithError(err).Warn("Failed to warm average misses cache")
	}

	server := web.New(userService, gameService, rankingService, statsService, reminderService)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Router(),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"port":        cfg.Port,
			"environment": cfg.Environment,
		}).Info("HTTP server listening")
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	// Drain in-flight requests before closing the database
	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown failed")
	}

	log.Info("Shutdown completed")
	return nil
}

// subscribeMetrics forwards committed game events to the process metrics
func subscribeMetrics(bus *events.Bus) {
	bus.Subscribe(events.EventTypeGameCreated, func(ctx context.Context, event events.Event) {
		web.ObserveGameCreated()
	})
	bus.Subscribe(events.EventTypeGameFinished, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.GameFinishedEvent); ok {
			web.ObserveGameFinished(e.Won)
		}
	})
}
