package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/plantops/plantops/pkg/app"
	"github.com/plantops/plantops/pkg/cache"
	"github.com/plantops/plantops/pkg/config"
	"github.com/plantops/plantops/pkg/database"
	"github.com/plantops/plantops/pkg/events"
	"github.com/plantops/plantops/pkg/logger"
	"github.com/plantops/plantops/pkg/telemetry"
	transferEvents "github.com/plantops/plantops/services/transfer/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	appConfig := &app.Application{
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
	}

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	// EventBus.Close() (via defer) waits for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all transfer event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	subscriptions := map[string]func(context.Context, *message.Message) error{
		transferEvents.TopicTransferCompleted: handleTransferCompleted(a),
		transferEvents.TopicTransferApproved:  handleTransferTransitioned(a),
		transferEvents.TopicTransferRejected:  handleTransferTransitioned(a),
		transferEvents.TopicTransferCancelled: handleTransferTransitioned(a),
	}

	topics := make([]string, 0, len(subscriptions))
	for topic, handler := range subscriptions {
		errCh, err := a.EventBus.Subscribe(ctx, topic, handler)
		if err != nil {
			return err
		}
		topics = append(topics, topic)

		// Drain subscriber errors in background so the channel never blocks.
		go func(topic string) {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}(topic)
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}

// handleTransferCompleted invalidates the cached group read model after a
// completed transfer moves balances. Handlers must be idempotent; the
// EventBus retries up to 3 times on failure.
func handleTransferCompleted(a *app.Application) func(context.Context, *message.Message) error {
	groupCache := cache.NewGroupCache(a.Redis)
	return func(ctx context.Context, msg *message.Message) error {
		var evt transferEvents.TransferTransitionedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		if err := groupCache.Delete(ctx, evt.SharedGroupID); err != nil {
			// Invalidation is best-effort; the TTL bounds staleness anyway.
			a.Logger.WarnContext(ctx, "cache invalidation failed for transfer.completed",
				"group_id", evt.SharedGroupID, "error", err)
		} else {
			a.Logger.InfoContext(ctx, "group cache invalidated",
				"group_id", evt.SharedGroupID, "reference", evt.ReferenceNumber)
		}

		return nil
	}
}

// handleTransferTransitioned writes an audit log line for non-completion
// lifecycle transitions.
func handleTransferTransitioned(a *app.Application) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt transferEvents.TransferTransitionedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		a.Logger.InfoContext(ctx, "transfer transitioned",
			"reference", evt.ReferenceNumber,
			"from", evt.FromStatus,
			"to", evt.ToStatus,
			"actor", evt.Actor,
			"occurred_at", evt.OccurredAt,
		)
		return nil
	}
}
