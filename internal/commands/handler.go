// Package commands provides the shared execution wrapper for the module's
// command messages: validation, context management, logging, and error
// categorization applied uniformly before the wrapped function runs.
package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

const defaultHandlerTimeout = 5 * time.Minute

// Text codes carried on wrapped failures so hosts can branch on the
// module's command outcomes without string matching.
const (
	msgInvalidCode  = "TRANSLATIONS_MESSAGE_INVALID"
	cmdCanceledCode = "TRANSLATIONS_CMD_CANCELED"
	cmdTimeoutCode  = "TRANSLATIONS_CMD_TIMEOUT"
	cmdContextCode  = "TRANSLATIONS_CMD_CONTEXT"
	cmdFailedCode   = "TRANSLATIONS_CMD_FAILED"
)

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler wraps command execution with shared concerns. Bulk catalog
// operations can be slow, so the default timeout is generous.
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	fields    func(T) map[string]any
}

// NewHandler creates a handler that satisfies go-command's Commander
// interface.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:    fn,
		logger:  logging.NoOp(),
		timeout: defaultHandlerTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute conforms to command.Commander[T].Execute, applying validation,
// context management, logging, and error categorization before delegating
// to the wrapped function.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		if goerrors.IsWrapped(err) {
			return err
		}
		return goerrors.Wrap(err, goerrors.CategoryValidation, "translations: message failed validation").
			WithTextCode(msgInvalidCode)
	}

	ctx = ensureContext(ctx)
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return wrapContextDone(err)
	}

	fields := map[string]any{
		"command": command.GetMessageType(msg),
	}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if h.fields != nil {
		for key, value := range h.fields(msg) {
			fields[key] = value
		}
	}
	logger := logging.WithFields(h.logger, fields)
	logger.Debug("command.execute.start")

	if err := h.exec(ctx, msg); err != nil {
		logger.Error("command.execute.failed", "error", err)
		return wrapCommandError(err, cmdFailedCode, "translations: command failed")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("command.execute.context_error", "error", err)
		return wrapContextDone(err)
	}

	logger.Info("command.execute.success")
	return nil
}

// WithTimeout overrides the default execution timeout. Zero or negative
// disables the timeout.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		if timeout <= 0 {
			h.timeout = 0
			return
		}
		h.timeout = timeout
	}
}

// WithLogger injects the logger used during execution. Defaults to a no-op
// logger.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		if logger == nil {
			h.logger = logging.NoOp()
			return
		}
		h.logger = logger
	}
}

// WithOperation sets a human-friendly operation name emitted with every
// log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields derives extra log fields from the message being
// executed.
func WithMessageFields[T command.Message](fn func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.fields = fn
	}
}

func (h *Handler[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.timeout)
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// wrapCommandError classifies a raw failure under the command category.
// Already-wrapped errors pass through so the innermost classification
// wins.
func wrapCommandError(err error, code, message string) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).WithTextCode(code)
}

// wrapContextDone distinguishes a caller's cancellation from a blown
// deadline; anything else on the context is a plumbing failure.
func wrapContextDone(err error) error {
	switch err {
	case context.Canceled:
		return wrapCommandError(err, cmdCanceledCode, "translations: command canceled")
	case context.DeadlineExceeded:
		return wrapCommandError(err, cmdTimeoutCode, "translations: command timed out")
	default:
		return wrapCommandError(err, cmdContextCode, "translations: command context failed")
	}
}
