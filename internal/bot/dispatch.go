package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dkotenko/budgetbot/core/logger"
	"github.com/dkotenko/budgetbot/internal/errs"
	"github.com/dkotenko/budgetbot/internal/ledger"
	"github.com/dkotenko/budgetbot/internal/session"
)

const logComponent = "bot"

// genericFailure is what the user sees for any error without a
// user-safe message.
const genericFailure = "😔 Something went wrong. Please try again"

// Config wires the dispatcher. Everything is injected; the dispatcher
// holds no package state.
type Config struct {
	Sessions *session.Store
	Ledger   ledger.Store
	Gateway  Gateway

	// Steps is the full step registry, continuations included.
	Steps Steps
	// Menu maps reply keyboard labels to entry steps.
	Menu map[string]session.Step
	// Ops maps callback operations to their handling steps.
	Ops map[string]session.Step

	// Start handles the /start command.
	Start session.Step
	// Fallback handles text that matches neither a menu label nor a
	// pending continuation.
	Fallback session.Step

	MaxMessageLen int
}

// Meta identifies the origin of one update.
type Meta struct {
	UserID    int64
	ChatID    int64
	MessageID int
}

// Dispatcher routes chat events through the middleware chain: resolve
// user, serialize the session, pick the step, run it behind the error
// boundary.
type Dispatcher struct {
	cfg   Config
	epoch string
}

// NewDispatcher builds a dispatcher with a fresh callback epoch.
func NewDispatcher(cfg Config) *Dispatcher {
	return &Dispatcher{cfg: cfg, epoch: uuid.NewString()[:8]}
}

// Epoch returns the process callback token encoded into inline buttons.
func (d *Dispatcher) Epoch() string {
	return d.epoch
}

// HandleText processes a plain chat message.
func (d *Dispatcher) HandleText(ctx context.Context, m Meta, text string) {
	d.dispatch(ctx, m, func(f *Flow) (session.Step, Event, error) {
		ev := Event{Kind: EventText, Text: text, MessageID: m.MessageID}

		if text == "/start" {
			return d.cfg.Start, ev, nil
		}
		if f.User.ID == 0 {
			return session.StepNone, ev, errs.NewUser("Press /start to get started")
		}
		if step, ok := d.cfg.Menu[text]; ok {
			// A menu press abandons whatever flow was in progress.
			f.Session.TakeNext()
			f.Session.Clear()
			return step, ev, nil
		}
		if next := f.Session.TakeNext(); next != session.StepNone {
			return next, ev, nil
		}
		return d.cfg.Fallback, ev, nil
	})
}

// HandleCallback processes an inline button press already split into
// operation and raw payload.
func (d *Dispatcher) HandleCallback(ctx context.Context, m Meta, op, payload string) {
	d.dispatch(ctx, m, func(f *Flow) (session.Step, Event, error) {
		epoch, arg := DecodePayload(payload)
		ev := Event{Kind: EventChoice, Op: op, Arg: arg, MessageID: m.MessageID}

		if f.User.ID == 0 {
			return session.StepNone, ev, errs.NewUser("Press /start to get started")
		}
		if epoch != d.epoch {
			return session.StepNone, ev, errs.NewStaleFlow("epoch")
		}
		step, ok := d.cfg.Ops[op]
		if !ok {
			return session.StepNone, ev, errs.NewStaleFlow("operation")
		}
		// Only the operations offered by the latest prompt may fire;
		// a button from an abandoned flow must not advance this one.
		if !f.Session.AllowsOp(op) {
			return session.StepNone, ev, errs.NewStaleFlow("operation")
		}
		return step, ev, nil
	})
}

// route picks the step and event for an update once the flow context
// exists.
type route func(f *Flow) (session.Step, Event, error)

func (d *Dispatcher) dispatch(ctx context.Context, m Meta, pick route) {
	start := time.Now()

	sess := d.cfg.Sessions.Get(m.UserID)
	sess.Acquire()
	defer sess.Release()

	f := &Flow{
		Ctx:           ctx,
		Session:       sess,
		Store:         d.cfg.Ledger,
		Gateway:       d.cfg.Gateway,
		ChatID:        m.ChatID,
		MaxMessageLen: d.cfg.MaxMessageLen,
	}

	err := d.resolveUser(ctx, m.UserID, f)
	var step session.Step
	var ev Event
	if err == nil {
		step, ev, err = pick(f)
	}
	if err == nil && step != session.StepNone {
		handler, ok := d.cfg.Steps[step]
		if !ok {
			err = fmt.Errorf("no handler registered for step %q", step)
		} else {
			f.Ctx = logger.WithHandler(ctx, string(step))
			err = handler(f, ev)
		}
	}

	d.report(f, step, err, start)
}

// resolveUser loads the ledger user. A missing record is not an error
// here: /start is allowed to run for unknown users and creates them.
func (d *Dispatcher) resolveUser(ctx context.Context, userID int64, f *Flow) error {
	user, err := d.cfg.Ledger.Users().Get(ctx, userID)
	if err != nil {
		var nf *errs.NotFound
		if errors.As(err, &nf) {
			f.User = ledger.User{}
			return nil
		}
		return err
	}
	f.User = user
	return nil
}

// report closes the error boundary: user-safe messages are rendered
// verbatim, everything else is masked and logged in full.
func (d *Dispatcher) report(f *Flow, step session.Step, err error, start time.Time) {
	attrs := []slog.Attr{
		slog.String("step", string(step)),
		slog.String("status", logger.Status(err)),
		slog.Duration("duration", logger.Took(start)),
	}
	if err == nil {
		logger.Debug(f.Ctx, logComponent, "step.handled", attrs...)
		return
	}

	if msg, ok := errs.UserMessage(err); ok {
		logger.Warn(f.Ctx, logComponent, "step.rejected",
			append(attrs, slog.String("err", errs.Describe(err)))...)
		// A business-rule rejection ends the interaction, so its
		// transient prompts go too. Stale and validation rejections
		// keep them: the flow is still live and may be retried.
		var userErr *errs.UserError
		if errors.As(err, &userErr) {
			f.Cleanup()
		}
		d.reply(f, msg)
		return
	}

	logger.Error(f.Ctx, logComponent, "step.failed",
		append(attrs, slog.String("err", errs.Describe(err)))...)
	f.Cleanup()
	d.reply(f, genericFailure)
}

// reply sends a boundary notice straight through the gateway so it does
// not disturb the expected-operations set of the live prompt.
func (d *Dispatcher) reply(f *Flow, text string) {
	if _, err := f.Gateway.Send(f.Ctx, f.ChatID, text, nil); err != nil {
		logger.Error(f.Ctx, logComponent, "reply.failed",
			slog.String("err", err.Error()))
	}
}
