package telegram

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/anipixel/anipixel/core/logger"

	tele "gopkg.in/telebot.v4"
)

const reqContextKey = "reqctx"

// RequestContext returns the per-update context built by LoggerMiddleware,
// carrying the correlation id and update metadata for downstream logging.
func RequestContext(c tele.Context) context.Context {
	if v := c.Get(reqContextKey); v != nil {
		if ctx, ok := v.(context.Context); ok {
			return ctx
		}
	}
	return context.Background()
}

// RecoverMiddleware catches panics in handlers and prevents the bot from
// crashing on a single bad update.
func RecoverMiddleware(log *slog.Logger, next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					slog.String("event", "tg.panic"),
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()
		return next(c)
	}
}

// LoggerMiddleware builds the request context (rid, update metadata, handler
// name) and logs one summary line per handled update.
func LoggerMiddleware(log *slog.Logger, name string, next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		start := time.Now()
		upd := c.Update()

		var chatID, userID int64
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}
		if user := c.Sender(); user != nil {
			userID = user.ID
		}

		rid := logger.BuildRID(upd.ID, chatID, userID)
		ctx := logger.WithRID(context.Background(), rid)
		ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
		ctx = logger.WithHandler(ctx, name)
		c.Set(reqContextKey, ctx)

		err := next(c)

		status := "ok"
		level := slog.LevelInfo
		attrs := []slog.Attr{
			slog.String("handler", name),
			slog.Duration("duration", logger.RoundMS(time.Since(start))),
		}
		if payload := updatePayload(c); payload != "" {
			attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(payload, 256)))
		}
		if err != nil {
			status = "fail"
			level = slog.LevelError
			attrs = append(attrs, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
		}
		attrs = append([]slog.Attr{slog.String("status", status)}, attrs...)
		log.LogAttrs(ctx, level, "handler.handled", attrs...)

		return err
	}
}

func updatePayload(c tele.Context) string {
	if cb := c.Callback(); cb != nil {
		return cb.Data
	}
	return c.Text()
}
