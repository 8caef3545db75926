package bot

import (
	"context"
	"errors"

	"github.com/dkotenko/budgetbot/internal/errs"
	"github.com/dkotenko/budgetbot/internal/ledger"
	"github.com/dkotenko/budgetbot/internal/session"
)

// EventKind distinguishes typed text from inline button presses.
type EventKind int

const (
	// EventText is a plain chat message.
	EventText EventKind = iota
	// EventChoice is an inline button press decoded into op and arg.
	EventChoice
)

// Event is one user action delivered to a step.
type Event struct {
	Kind EventKind
	Text string
	Op   string
	Arg  string
	// MessageID is the message that produced the event: the typed
	// message for text, the prompt carrying the button for choices.
	MessageID int
}

// Flow is the per-event context handed to every step: the resolved
// user, their session, storage and the outbound gateway.
type Flow struct {
	Ctx     context.Context
	User    ledger.User
	Session *session.Session
	Store   ledger.Store
	Gateway Gateway
	ChatID  int64
	// MaxMessageLen caps one outgoing message; longer reports are
	// split into frames upstream.
	MaxMessageLen int
}

// StepFunc handles one flow step.
type StepFunc func(f *Flow, ev Event) error

// Steps maps step tags to their handlers.
type Steps map[session.Step]StepFunc

// Send delivers a message to the flow's chat and narrows the routable
// callback operations to the ones the new keyboard offers. Buttons on
// earlier prompts become stale once the flow moves on.
func (f *Flow) Send(text string, kb *Keyboard) (int, error) {
	id, err := f.Gateway.Send(f.Ctx, f.ChatID, text, kb)
	if err == nil {
		f.Session.ExpectOps(kb.InlineOps())
	}
	return id, err
}

// SendTracked sends a transient prompt and records it for deletion when
// the flow concludes.
func (f *Flow) SendTracked(text string, kb *Keyboard) error {
	id, err := f.Send(text, kb)
	if err != nil {
		return err
	}
	f.Session.MarkDelete(id)
	return nil
}

// Track records an incoming message id for end-of-flow cleanup.
func (f *Flow) Track(messageID int) {
	f.Session.MarkDelete(messageID)
}

// Edit rewrites an already sent message.
func (f *Flow) Edit(messageID int, text string, kb *Keyboard) error {
	return f.Gateway.Edit(f.Ctx, f.ChatID, messageID, text, kb)
}

// Cleanup removes every tracked transient message best-effort.
func (f *Flow) Cleanup() {
	ids := f.Session.TakeDeletions()
	if len(ids) > 0 {
		f.Gateway.Delete(f.Ctx, f.ChatID, ids...)
	}
}

// Finish clears the collected flow data and removes its transient
// prompts. Called when a flow commits or is discarded.
func (f *Flow) Finish() {
	f.Cleanup()
	f.Session.Clear()
}

// RunMutation executes fn inside one storage transaction. A database
// failure additionally tears down the flow's transient messages so the
// chat is not left pointing at a half-finished operation.
func (f *Flow) RunMutation(fn func(tx ledger.Store) error) error {
	err := f.Store.WithinTx(f.Ctx, fn)
	if err == nil {
		return nil
	}
	var dbErr *errs.DatabaseError
	if errors.As(err, &dbErr) {
		f.Cleanup()
	}
	return err
}
