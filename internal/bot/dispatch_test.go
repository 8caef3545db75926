package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotenko/budgetbot/internal/errs"
	"github.com/dkotenko/budgetbot/internal/ledger"
	"github.com/dkotenko/budgetbot/internal/ledger/ledgertest"
	"github.com/dkotenko/budgetbot/internal/session"
)

type sentMessage struct {
	ID   int
	Text string
	KB   *Keyboard
}

type fakeGateway struct {
	mu      sync.Mutex
	nextID  int
	sent    []sentMessage
	deleted []int
}

func (g *fakeGateway) Send(_ context.Context, _ int64, text string, kb *Keyboard) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	g.sent = append(g.sent, sentMessage{ID: g.nextID, Text: text, KB: kb})
	return g.nextID, nil
}

func (g *fakeGateway) Edit(_ context.Context, _ int64, _ int, _ string, _ *Keyboard) error {
	return nil
}

func (g *fakeGateway) Delete(_ context.Context, _ int64, messageIDs ...int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, messageIDs...)
}

func (g *fakeGateway) lastText(t *testing.T) string {
	t.Helper()
	g.mu.Lock()
	defer g.mu.Unlock()
	require.NotEmpty(t, g.sent)
	return g.sent[len(g.sent)-1].Text
}

const (
	testStart    session.Step = "start"
	testFallback session.Step = "fallback"
	testMenuA    session.Step = "flow-a"
	testFollowup session.Step = "flow-a:followup"
	testChoice   session.Step = "flow-a:choice"
)

type fixture struct {
	store      *ledgertest.Memory
	gw         *fakeGateway
	dispatcher *Dispatcher
	calls      map[session.Step]int
	lastEvent  Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fx := &fixture{
		store: ledgertest.NewMemory(),
		gw:    &fakeGateway{},
		calls: make(map[session.Step]int),
	}
	fx.store.SeedCurrency("USD", "$", 0)

	record := func(step session.Step, fn StepFunc) StepFunc {
		return func(f *Flow, ev Event) error {
			fx.calls[step]++
			fx.lastEvent = ev
			if fn != nil {
				return fn(f, ev)
			}
			return nil
		}
	}

	steps := Steps{
		testStart: record(testStart, func(f *Flow, _ Event) error {
			if f.User.ID == 0 {
				user, err := f.Store.Users().Create(f.Ctx, f.Session.UserID())
				if err != nil {
					return err
				}
				f.User = user
			}
			_, err := f.Send("hello", nil)
			return err
		}),
		testFallback: record(testFallback, func(f *Flow, _ Event) error {
			_, err := f.Send("use the menu", nil)
			return err
		}),
		testMenuA: record(testMenuA, func(f *Flow, _ Event) error {
			f.Session.SetNext(testFollowup)
			return f.SendTracked("enter value", InlineKeyboard([]Button{
				{Text: "pick", Op: "op_a", Arg: "7"},
			}))
		}),
		testFollowup: record(testFollowup, nil),
		testChoice:   record(testChoice, nil),
	}

	fx.dispatcher = NewDispatcher(Config{
		Sessions: session.NewStore(time.Hour),
		Ledger:   fx.store,
		Gateway:  fx.gw,
		Steps:    steps,
		Menu:     map[string]session.Step{"Menu A": testMenuA},
		Ops:      map[string]session.Step{"op_a": testChoice},
		Start:    testStart,
		Fallback: testFallback,
	})
	return fx
}

func meta(userID int64) Meta {
	return Meta{UserID: userID, ChatID: userID, MessageID: 100}
}

func TestStartCreatesUnknownUser(t *testing.T) {
	fx := newFixture(t)

	fx.dispatcher.HandleText(context.Background(), meta(42), "/start")

	assert.Equal(t, 1, fx.calls[testStart])
	assert.Equal(t, "hello", fx.gw.lastText(t))
	_, err := fx.store.Users().Get(context.Background(), 42)
	require.NoError(t, err)
}

func TestUnknownUserIsToldToStart(t *testing.T) {
	fx := newFixture(t)

	fx.dispatcher.HandleText(context.Background(), meta(42), "anything")

	assert.Zero(t, fx.calls[testFallback])
	assert.Equal(t, "Press /start to get started", fx.gw.lastText(t))
}

func TestMenuLabelRoutesToEntryStep(t *testing.T) {
	fx := newFixture(t)
	fx.store.SeedUser(42, ledger.Configuration{NumberOfDates: 7, DefaultCurrency: 1})

	fx.dispatcher.HandleText(context.Background(), meta(42), "Menu A")

	assert.Equal(t, 1, fx.calls[testMenuA])
	assert.Equal(t, "enter value", fx.gw.lastText(t))
}

func TestContinuationConsumedOnce(t *testing.T) {
	fx := newFixture(t)
	fx.store.SeedUser(42, ledger.Configuration{NumberOfDates: 7, DefaultCurrency: 1})

	fx.dispatcher.HandleText(context.Background(), meta(42), "Menu A")
	fx.dispatcher.HandleText(context.Background(), meta(42), "12.50")

	assert.Equal(t, 1, fx.calls[testFollowup])
	assert.Equal(t, "12.50", fx.lastEvent.Text)

	// The continuation is gone, the same text now falls through.
	fx.dispatcher.HandleText(context.Background(), meta(42), "12.50")
	assert.Equal(t, 1, fx.calls[testFollowup])
	assert.Equal(t, 1, fx.calls[testFallback])
}

func TestMenuPressAbandonsPendingFlow(t *testing.T) {
	fx := newFixture(t)
	fx.store.SeedUser(42, ledger.Configuration{NumberOfDates: 7, DefaultCurrency: 1})

	fx.dispatcher.HandleText(context.Background(), meta(42), "Menu A")
	fx.dispatcher.HandleText(context.Background(), meta(42), "Menu A")

	// The first flow's continuation was discarded, not executed.
	assert.Equal(t, 2, fx.calls[testMenuA])
	assert.Zero(t, fx.calls[testFollowup])
}

func TestStaleEpochCallbackRejected(t *testing.T) {
	fx := newFixture(t)
	fx.store.SeedUser(42, ledger.Configuration{NumberOfDates: 7, DefaultCurrency: 1})

	fx.dispatcher.HandleCallback(context.Background(), meta(42), "op_a", EncodePayload("old00000", "1"))

	assert.Zero(t, fx.calls[testChoice])
	assert.Equal(t, "⚠️ This message is out of date", fx.gw.lastText(t))
}

func TestUnknownOperationRejected(t *testing.T) {
	fx := newFixture(t)
	fx.store.SeedUser(42, ledger.Configuration{NumberOfDates: 7, DefaultCurrency: 1})

	payload := EncodePayload(fx.dispatcher.Epoch(), "1")
	fx.dispatcher.HandleCallback(context.Background(), meta(42), "op_gone", payload)

	assert.Equal(t, "⚠️ This message is out of date", fx.gw.lastText(t))
}

func TestCurrentEpochCallbackDelivered(t *testing.T) {
	fx := newFixture(t)
	fx.store.SeedUser(42, ledger.Configuration{NumberOfDates: 7, DefaultCurrency: 1})

	fx.dispatcher.HandleText(context.Background(), meta(42), "Menu A")
	payload := EncodePayload(fx.dispatcher.Epoch(), "7")
	fx.dispatcher.HandleCallback(context.Background(), meta(42), "op_a", payload)

	assert.Equal(t, 1, fx.calls[testChoice])
	assert.Equal(t, "op_a", fx.lastEvent.Op)
	assert.Equal(t, "7", fx.lastEvent.Arg)
}

func TestCallbackFromForeignPromptRejected(t *testing.T) {
	fx := newFixture(t)
	fx.store.SeedUser(42, ledger.Configuration{NumberOfDates: 7, DefaultCurrency: 1})

	// No prompt offered op_a, so a lingering button must not route.
	payload := EncodePayload(fx.dispatcher.Epoch(), "7")
	fx.dispatcher.HandleCallback(context.Background(), meta(42), "op_a", payload)

	assert.Zero(t, fx.calls[testChoice])
	assert.Equal(t, "⚠️ This message is out of date", fx.gw.lastText(t))
}

func TestCallbackRejectionKeepsPendingContinuation(t *testing.T) {
	fx := newFixture(t)
	fx.store.SeedUser(42, ledger.Configuration{NumberOfDates: 7, DefaultCurrency: 1})

	fx.dispatcher.HandleText(context.Background(), meta(42), "Menu A")
	fx.dispatcher.HandleCallback(context.Background(), meta(42), "op_gone",
		EncodePayload(fx.dispatcher.Epoch(), "1"))

	// The text continuation armed by the flow still fires.
	fx.dispatcher.HandleText(context.Background(), meta(42), "12.50")
	assert.Equal(t, 1, fx.calls[testFollowup])
}

func TestInternalErrorIsMaskedAndCleansUp(t *testing.T) {
	fx := newFixture(t)
	fx.store.SeedUser(42, ledger.Configuration{NumberOfDates: 7, DefaultCurrency: 1})

	// Start a flow so a tracked prompt exists, then fail the followup.
	fx.dispatcher.HandleText(context.Background(), meta(42), "Menu A")
	boom := errors.New("boom")
	fx.dispatcher.cfg.Steps[testFollowup] = func(*Flow, Event) error {
		return &errs.DatabaseError{Err: boom}
	}

	fx.dispatcher.HandleText(context.Background(), meta(42), "value")

	assert.Equal(t, "😔 Something went wrong. Please try again", fx.gw.lastText(t))
	assert.NotEmpty(t, fx.gw.deleted)
}

func TestUserErrorRenderedVerbatim(t *testing.T) {
	fx := newFixture(t)
	fx.store.SeedUser(42, ledger.Configuration{NumberOfDates: 7, DefaultCurrency: 1})
	fx.dispatcher.cfg.Steps[testMenuA] = func(*Flow, Event) error {
		return errs.NewUser("❌ Costs not found")
	}

	fx.dispatcher.HandleText(context.Background(), meta(42), "Menu A")

	assert.Equal(t, "❌ Costs not found", fx.gw.lastText(t))
}

func TestUserErrorCleansTransientMessages(t *testing.T) {
	fx := newFixture(t)
	fx.store.SeedUser(42, ledger.Configuration{NumberOfDates: 7, DefaultCurrency: 1})

	fx.dispatcher.HandleText(context.Background(), meta(42), "Menu A")
	fx.dispatcher.cfg.Steps[testFollowup] = func(*Flow, Event) error {
		return errs.NewUser("😢 There are no costs in 2024-01")
	}

	fx.dispatcher.HandleText(context.Background(), meta(42), "2024-01")

	assert.Equal(t, "😢 There are no costs in 2024-01", fx.gw.lastText(t))
	assert.NotEmpty(t, fx.gw.deleted)
}

func TestValidationErrorKeepsTransientMessages(t *testing.T) {
	fx := newFixture(t)
	fx.store.SeedUser(42, ledger.Configuration{NumberOfDates: 7, DefaultCurrency: 1})

	fx.dispatcher.HandleText(context.Background(), meta(42), "Menu A")
	fx.dispatcher.cfg.Steps[testFollowup] = func(f *Flow, _ Event) error {
		f.Session.SetNext(testFollowup)
		return errs.NewValidation("the value is not a number")
	}

	fx.dispatcher.HandleText(context.Background(), meta(42), "oops")

	assert.Empty(t, fx.gw.deleted)

	// The prompt survived and the user can retry in place.
	fx.dispatcher.HandleText(context.Background(), meta(42), "retry")
	assert.Empty(t, fx.gw.deleted)
}

func TestRunMutationRollsBackOnFailure(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	sess := session.NewStore(time.Hour).Get(42)
	f := &Flow{
		Ctx:     ctx,
		Session: sess,
		Store:   fx.store,
		Gateway: fx.gw,
		ChatID:  42,
	}

	fx.store.FailNext = errors.New("connection reset")
	err := f.RunMutation(func(tx ledger.Store) error {
		if _, err := tx.Costs().Create(ctx, ledger.CostDraft{UserID: 42, CurrencyID: 1, Value: 100}); err != nil {
			return err
		}
		return tx.Currencies().DecreaseEquity(ctx, 1, 100)
	})

	var dbErr *errs.DatabaseError
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, int64(0), fx.store.Equity(1))
	costs, lerr := fx.store.Costs().InMonth(ctx, time.Now(), ledger.RangeFilter{UserID: 42})
	require.NoError(t, lerr)
	assert.Empty(t, costs)
}
