package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/plantops/plantops/pkg/config"
	"github.com/plantops/plantops/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

func TestRetryWithBackoff_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	handler := func(ctx context.Context, msg *message.Message) error {
		calls++
		return nil
	}

	msg := message.NewMessage(watermill.NewUUID(), nil)
	if err := retryWithBackoff(context.Background(), msg, handler, 3, time.Millisecond, testLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetryWithBackoff_SucceedsAfterRetry(t *testing.T) {
	calls := 0
	handler := func(ctx context.Context, msg *message.Message) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}

	msg := message.NewMessage(watermill.NewUUID(), nil)
	if err := retryWithBackoff(context.Background(), msg, handler, 3, time.Millisecond, testLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryWithBackoff_ExhaustsRetries(t *testing.T) {
	sentinel := errors.New("permanent")
	calls := 0
	handler := func(ctx context.Context, msg *message.Message) error {
		calls++
		return sentinel
	}

	msg := message.NewMessage(watermill.NewUUID(), nil)
	err := retryWithBackoff(context.Background(), msg, handler, 3, time.Millisecond, testLogger())
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	handler := func(ctx context.Context, msg *message.Message) error {
		cancel() // fail and cancel so the backoff wait aborts
		return errors.New("failing")
	}

	msg := message.NewMessage(watermill.NewUUID(), nil)
	err := retryWithBackoff(ctx, msg, handler, 3, time.Hour, testLogger())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFieldsToArgs(t *testing.T) {
	args := fieldsToArgs(watermill.LogFields{"topic": "transfer.completed"})
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
	if args[0] != "topic" || args[1] != "transfer.completed" {
		t.Fatalf("unexpected args: %v", args)
	}
}
