package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type sweepMessage struct{}

func (sweepMessage) Type() string { return "translations.test.sweep" }

func (sweepMessage) Validate() error { return nil }

type rejectedMessage struct{}

func (rejectedMessage) Type() string { return "translations.test.rejected" }

func (rejectedMessage) Validate() error { return errors.New("locales required") }

func TestHandlerExecute(t *testing.T) {
	t.Run("runs the wrapped function", func(t *testing.T) {
		called := false
		h := NewHandler[sweepMessage](func(ctx context.Context, msg sweepMessage) error {
			called = true
			return nil
		})
		if err := h.Execute(context.Background(), sweepMessage{}); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if !called {
			t.Fatal("wrapped function never ran")
		}
	})

	t.Run("validation short-circuits with the module register", func(t *testing.T) {
		called := false
		h := NewHandler[rejectedMessage](func(ctx context.Context, msg rejectedMessage) error {
			called = true
			return nil
		})
		err := h.Execute(context.Background(), rejectedMessage{})
		if err == nil {
			t.Fatal("Execute() should reject an invalid message")
		}
		if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
			t.Fatalf("error category = %v, want validation", err)
		}
		if !strings.Contains(err.Error(), "translations: message failed validation") {
			t.Errorf("error = %q, want the module's validation message", err)
		}
		if called {
			t.Fatal("wrapped function ran despite failed validation")
		}
	})

	t.Run("canceled context never executes", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		h := NewHandler[sweepMessage](func(ctx context.Context, msg sweepMessage) error {
			t.Fatal("wrapped function ran on a dead context")
			return nil
		})
		err := h.Execute(ctx, sweepMessage{})
		if err == nil {
			t.Fatal("Execute() should surface the cancellation")
		}
		if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
			t.Fatalf("error category = %v, want command", err)
		}
		if !strings.Contains(err.Error(), "translations: command canceled") {
			t.Errorf("error = %q, want the module's cancellation message", err)
		}
	})

	t.Run("execution failure is classified once", func(t *testing.T) {
		h := NewHandler[sweepMessage](func(ctx context.Context, msg sweepMessage) error {
			return errors.New("store unavailable")
		})
		err := h.Execute(context.Background(), sweepMessage{})
		if err == nil {
			t.Fatal("Execute() should surface the failure")
		}
		if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
			t.Fatalf("error category = %v, want command", err)
		}
		if !strings.Contains(err.Error(), "translations: command failed") {
			t.Errorf("error = %q, want the module's failure message", err)
		}
	})

	t.Run("timeout option bounds slow commands", func(t *testing.T) {
		h := NewHandler[sweepMessage](func(ctx context.Context, msg sweepMessage) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(50 * time.Millisecond):
				return nil
			}
		}, WithTimeout[sweepMessage](5*time.Millisecond))
		err := h.Execute(context.Background(), sweepMessage{})
		if err == nil {
			t.Fatal("Execute() should time out")
		}
		if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
			t.Fatalf("error category = %v, want command", err)
		}
	})
}
