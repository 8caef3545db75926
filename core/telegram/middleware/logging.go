package middleware

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/dkotenko/budgetbot/core/logger"
)

// ContextStore saves the request context built for an update so the
// handler layer can pick it up from tele.Context.
const ContextStoreKey = "request_ctx"

// recentUpdates keeps a short-lived set of processed update IDs to
// avoid double logging when middleware runs on multiple branches.
var (
	recentMu     sync.Mutex
	recentUpdate = make(map[int]time.Time)
	keepFor      = 10 * time.Second
)

func alreadyLogged(updateID int) bool {
	now := time.Now()
	recentMu.Lock()
	defer recentMu.Unlock()
	for id, ts := range recentUpdate {
		if now.Sub(ts) > keepFor {
			delete(recentUpdate, id)
		}
	}
	if _, ok := recentUpdate[updateID]; ok {
		return true
	}
	recentUpdate[updateID] = now
	return false
}

// Logging logs a single receipt line per update and stores a request
// context carrying the rid and update metadata.
func Logging(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		chatID, userID := int64(0), int64(0)
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}
		if sender := c.Sender(); sender != nil {
			userID = sender.ID
		}

		rid := logger.BuildRID(upd.ID, chatID, userID)
		ctx := logger.WithRID(context.Background(), rid)
		ctx = logger.WithUpdateMeta(ctx, userID, chatID)
		ctx = logger.WithLogger(ctx, logger.Component("tg"))
		c.Set(ContextStoreKey, ctx)

		if !alreadyLogged(upd.ID) {
			attrs := []slog.Attr{
				slog.Int("update_id", upd.ID),
			}
			switch {
			case upd.Callback != nil:
				attrs = append(attrs, slog.String("kind", "callback"),
					slog.String("payload", logger.SanitizeLimit(callbackData(upd.Callback), 256)))
			case upd.Message != nil:
				attrs = append(attrs, slog.String("kind", "message"),
					slog.String("payload", logger.SanitizeLimit(c.Text(), 256)))
			}
			logger.Debug(ctx, "tg", "update.received", attrs...)
		}

		return next(c)
	}
}

// RequestContext extracts the context stored by Logging, falling back
// to a fresh background context.
func RequestContext(c tele.Context) context.Context {
	if ctx, ok := c.Get(ContextStoreKey).(context.Context); ok {
		return ctx
	}
	return context.Background()
}

func callbackData(cb *tele.Callback) string {
	return strings.TrimPrefix(cb.Data, "\f")
}
