package middleware

import (
	"context"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/dkotenko/budgetbot/core/logger"
)

// AccessOptions defines the account allow list and the optional
// rejection response.
type AccessOptions struct {
	AllowedUsers []int64
	OnReject     tele.HandlerFunc
}

// AllowList rejects every update whose sender is not on the list. The
// rejection is logged once per update and never reaches the handlers.
func AllowList(opts AccessOptions) tele.MiddlewareFunc {
	allowed := make(map[int64]struct{}, len(opts.AllowedUsers))
	for _, id := range opts.AllowedUsers {
		allowed[id] = struct{}{}
	}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return nil
			}
			if _, ok := allowed[sender.ID]; !ok {
				logger.Warn(context.Background(), "tg", "tg.access_denied",
					slog.Int64("user_id", sender.ID),
					slog.String("username", logger.SanitizeLimit(sender.Username, 64)),
				)
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
