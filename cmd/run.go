package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"tradesim/config"
	"tradesim/database"
	"tradesim/events"
	"tradesim/quotes"
	"tradesim/repository"
	"tradesim/service"
	"tradesim/web"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()

	if cfg.Environment == "production" {
		log.SetLevel(log.InfoLevel)
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetLevel(log.DebugLevel)
	}

	log.Info("Starting tradesim...")

	// Initialize database connection
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")

	// Initialize event bus with an audit subscriber
	eventBus := events.NewBus()
	subscribeAuditLog(eventBus)

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize quote provider; Redis caching is optional
	var quoteProvider service.QuoteProvider = quotes.NewAPIClient(cfg.QuoteAPIURL, cfg.QuoteAPIKey, cfg.QuoteTimeout)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		quoteProvider = quotes.NewCachedProvider(quoteProvider, rdb, cfg.QuoteCacheTTL)
		log.WithField("addr", cfg.RedisAddr).Info("Quote cache enabled")
	}

	// Initialize services
	userService := service.NewUserService(uowFactory)
	tradingService := service.NewTradingService(uowFactory, quoteProvider)

	// Initialize HTTP server
	server := web.NewServer(cfg, userService, tradingService, quoteProvider)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr":        cfg.ListenAddr,
			"environment": cfg.Environment,
		}).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or server failure
	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown failed")
	}

	db.Close()
	log.Info("Shutdown completed")

	return nil
}

// subscribeAuditLog logs every committed balance change and trade
func subscribeAuditLog(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		e := event.(events.BalanceChangeEvent)
		log.WithFields(log.Fields{
			"userID":     e.UserID,
			"oldBalance": e.OldBalance,
			"newBalance": e.NewBalance,
			"change":     e.ChangeAmount,
			"type":       e.TransactionType,
		}).Info("Balance changed")
	})

	bus.Subscribe(events.EventTypeTradeExecuted, func(ctx context.Context, event events.Event) {
		e := event.(events.TradeExecutedEvent)
		log.WithFields(log.Fields{
			"userID": e.UserID,
			"symbol": e.Symbol,
			"shares": e.Shares,
			"price":  e.Price,
			"total":  e.Total,
			"type":   e.TransactionType,
		}).Info("Trade executed")
	})

	bus.Subscribe(events.EventTypeUserRegistered, func(ctx context.Context, event events.Event) {
		e := event.(events.UserRegisteredEvent)
		log.WithFields(log.Fields{
			"userID":   e.UserID,
			"username": e.Username,
			"cash":     e.StartingCash,
		}).Info("User registered")
	})
}
