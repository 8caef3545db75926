// Package telegram adapts the conversational engine to the Telebot
// transport: outbound message delivery and inbound update routing.
package telegram

import (
	"context"
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/dkotenko/budgetbot/core/telegram/keyboard"
	tgsender "github.com/dkotenko/budgetbot/core/telegram/sender"
	"github.com/dkotenko/budgetbot/internal/bot"
)

// Gateway delivers flow output through a live Telebot instance. Sends
// run synchronously because flows need the resulting message ids;
// deletions are best-effort and go through the outbound worker pool.
type Gateway struct {
	bot    *tele.Bot
	sender *tgsender.Dispatcher
	epoch  string
}

// NewGateway returns an unbound gateway. Bind must run before use.
func NewGateway() *Gateway {
	return &Gateway{}
}

// SetEpoch installs the callback token encoded into inline buttons.
func (g *Gateway) SetEpoch(epoch string) {
	g.epoch = epoch
}

// Bind attaches the live transport once the bot is constructed.
func (g *Gateway) Bind(b *tele.Bot, sender *tgsender.Dispatcher) {
	g.bot = b
	g.sender = sender
}

func (g *Gateway) markup(kb *bot.Keyboard) *tele.ReplyMarkup {
	if kb == nil {
		return nil
	}
	if kb.Remove {
		return keyboard.RemoveKeyboard()
	}
	if len(kb.Reply) > 0 {
		return keyboard.ReplyButtons(kb.Reply...)
	}
	rows := make([][]keyboard.InlineBtn, 0, len(kb.Inline))
	for _, row := range kb.Inline {
		btns := make([]keyboard.InlineBtn, 0, len(row))
		for _, b := range row {
			btns = append(btns, keyboard.InlineBtn{
				Text:   b.Text,
				Unique: b.Op,
				Data:   bot.EncodePayload(g.epoch, b.Arg),
			})
		}
		rows = append(rows, btns)
	}
	return keyboard.InlineRows(rows...)
}

func recipient(chatID int64) tele.Recipient {
	return &tele.Chat{ID: chatID}
}

// Send delivers one message and returns its id.
func (g *Gateway) Send(_ context.Context, chatID int64, text string, kb *bot.Keyboard) (int, error) {
	opts := []any{}
	if markup := g.markup(kb); markup != nil {
		opts = append(opts, markup)
	}
	msg, err := g.bot.Send(recipient(chatID), text, opts...)
	if err != nil {
		return 0, fmt.Errorf("telegram send: %w", err)
	}
	return msg.ID, nil
}

// Edit rewrites an already delivered message.
func (g *Gateway) Edit(_ context.Context, chatID int64, messageID int, text string, kb *bot.Keyboard) error {
	editable := tele.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    chatID,
	}
	opts := []any{}
	if markup := g.markup(kb); markup != nil {
		opts = append(opts, markup)
	}
	if _, err := g.bot.Edit(editable, text, opts...); err != nil {
		return fmt.Errorf("telegram edit: %w", err)
	}
	return nil
}

// Delete removes messages asynchronously. Failures are logged by the
// sender pool and never fail the flow.
func (g *Gateway) Delete(ctx context.Context, chatID int64, messageIDs ...int) {
	for _, id := range messageIDs {
		editable := tele.StoredMessage{
			MessageID: strconv.Itoa(id),
			ChatID:    chatID,
		}
		_ = g.sender.Enqueue(ctx, "delete_message", func() error {
			return g.bot.Delete(editable)
		})
	}
}
