package telegram

import (
	"context"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/dkotenko/budgetbot/core/config"
	coretelegram "github.com/dkotenko/budgetbot/core/telegram"
	"github.com/dkotenko/budgetbot/core/telegram/middleware"
	"github.com/dkotenko/budgetbot/internal/bot"
	"github.com/dkotenko/budgetbot/internal/errs"
	"github.com/dkotenko/budgetbot/internal/handlers"
	"github.com/dkotenko/budgetbot/internal/ledger"
	"github.com/dkotenko/budgetbot/internal/session"
)

// Options wires the application around the transport.
type Options struct {
	Config   *coreconfig.Config
	Store    ledger.Store
	Sessions *session.Store
}

// Run assembles the dispatcher, binds it to Telebot and serves updates
// until ctx is done.
func Run(ctx context.Context, opts Options) error {
	gw := NewGateway()
	dispatcher := bot.NewDispatcher(handlers.NewConfig(
		opts.Sessions, opts.Store, gw, opts.Config.Budget.MessageMaxLen,
	))
	gw.SetEpoch(dispatcher.Epoch())

	exclude := make(map[string]struct{}, len(opts.Config.RateLimit.ExcludeUpdates))
	for _, kind := range opts.Config.RateLimit.ExcludeUpdates {
		exclude[kind] = struct{}{}
	}

	middlewares := []coretelegram.Middleware{
		{Name: "recover", Use: middleware.Recover},
		{Name: "access", Use: middleware.AllowList(middleware.AccessOptions{
			AllowedUsers: opts.Config.Budget.AllowedUsers,
			OnReject:     accessDenied,
		})},
		{Name: "logging", Use: middleware.Logging},
		{Name: "rate_limit", Use: middleware.RateLimit(middleware.RateLimitOptions{
			Interval: time.Duration(opts.Config.RateLimit.IntervalMS) * time.Millisecond,
			Exclude:  exclude,
		})},
	}

	return coretelegram.Run(ctx, coretelegram.RunOptions{
		Config:      opts.Config,
		Middlewares: middlewares,
		BuildRoutes: func(rt coretelegram.Runtime) []coretelegram.Route {
			gw.Bind(rt.Bot, rt.Sender)
			return []coretelegram.Route{
				{Endpoint: "/start", Handler: onText(dispatcher)},
				{Endpoint: tele.OnText, Handler: onText(dispatcher)},
				{Endpoint: tele.OnCallback, Handler: onCallback(dispatcher)},
			}
		},
	})
}

// accessDenied answers senders outside the allow list with the access
// error once; the update never reaches the dispatcher.
func accessDenied(c tele.Context) error {
	return c.Send((&errs.AccessForbidden{}).Error())
}

func meta(c tele.Context) bot.Meta {
	m := bot.Meta{}
	if sender := c.Sender(); sender != nil {
		m.UserID = sender.ID
	}
	if chat := c.Chat(); chat != nil {
		m.ChatID = chat.ID
	}
	if msg := c.Message(); msg != nil {
		m.MessageID = msg.ID
	}
	return m
}

func onText(d *bot.Dispatcher) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := middleware.RequestContext(c)
		d.HandleText(ctx, meta(c), strings.TrimSpace(c.Text()))
		return nil
	}
}

// Callback data arrives as "\f<unique>|<payload>". The unique part is
// the operation, the payload carries the epoch and argument.
func onCallback(d *bot.Dispatcher) tele.HandlerFunc {
	return func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}
		data := strings.TrimPrefix(cb.Data, "\f")
		op, payload, _ := strings.Cut(data, "|")

		m := meta(c)
		if cb.Message != nil {
			m.MessageID = cb.Message.ID
		}

		ctx := middleware.RequestContext(c)
		d.HandleCallback(ctx, m, op, payload)
		return c.Respond()
	}
}
