package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotenko/budgetbot/internal/bot"
	"github.com/dkotenko/budgetbot/internal/ledger"
	"github.com/dkotenko/budgetbot/internal/ledger/ledgertest"
	"github.com/dkotenko/budgetbot/internal/session"
)

const testUserID int64 = 42

type sentMessage struct {
	Text string
	KB   *bot.Keyboard
}

type fakeGateway struct {
	mu      sync.Mutex
	nextID  int
	sent    []sentMessage
	deleted []int
}

func (g *fakeGateway) Send(_ context.Context, _ int64, text string, kb *bot.Keyboard) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	g.sent = append(g.sent, sentMessage{Text: text, KB: kb})
	return g.nextID, nil
}

func (g *fakeGateway) Edit(_ context.Context, _ int64, _ int, _ string, _ *bot.Keyboard) error {
	return nil
}

func (g *fakeGateway) Delete(_ context.Context, _ int64, messageIDs ...int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, messageIDs...)
}

func (g *fakeGateway) last(t *testing.T) sentMessage {
	t.Helper()
	g.mu.Lock()
	defer g.mu.Unlock()
	require.NotEmpty(t, g.sent)
	return g.sent[len(g.sent)-1]
}

func (g *fakeGateway) texts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.sent))
	for i, m := range g.sent {
		out[i] = m.Text
	}
	return out
}

type env struct {
	store      *ledgertest.Memory
	gw         *fakeGateway
	dispatcher *bot.Dispatcher

	usd  ledger.Currency
	eur  ledger.Currency
	food ledger.Category
	taxi ledger.Category
}

var today = time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)

func newEnv(t *testing.T) *env {
	return newEnvWithLimit(t, 4096)
}

func newEnvWithLimit(t *testing.T, maxMessageLen int) *env {
	t.Helper()
	prev := now
	now = func() time.Time { return today }
	t.Cleanup(func() { now = prev })

	e := &env{store: ledgertest.NewMemory(), gw: &fakeGateway{}}
	e.usd = e.store.SeedCurrency("USD", "$", 100_00)
	e.eur = e.store.SeedCurrency("EUR", "€", 50_00)
	e.food = e.store.SeedCategory("food")
	e.taxi = e.store.SeedCategory("taxi")
	e.store.SeedUser(testUserID, ledger.Configuration{
		NumberOfDates:   3,
		DefaultCurrency: e.usd.ID,
	})

	cfg := NewConfig(session.NewStore(time.Hour), e.store, e.gw, maxMessageLen)
	e.dispatcher = bot.NewDispatcher(cfg)
	return e
}

func (e *env) text(t *testing.T, text string) {
	t.Helper()
	e.dispatcher.HandleText(context.Background(), bot.Meta{UserID: testUserID, ChatID: testUserID, MessageID: 1}, text)
}

func (e *env) press(t *testing.T, op, arg string) {
	t.Helper()
	payload := bot.EncodePayload(e.dispatcher.Epoch(), arg)
	e.dispatcher.HandleCallback(context.Background(), bot.Meta{UserID: testUserID, ChatID: testUserID, MessageID: 2}, op, payload)
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func TestStartRegistersNewUser(t *testing.T) {
	e := newEnv(t)
	const newcomer int64 = 77

	e.dispatcher.HandleText(context.Background(), bot.Meta{UserID: newcomer, ChatID: newcomer, MessageID: 1}, "/start")

	assert.Contains(t, e.gw.last(t).Text, "👋 Hi!")
	user, err := e.store.Users().Get(context.Background(), newcomer)
	require.NoError(t, err)
	assert.Equal(t, newcomer, user.ID)
	assert.Equal(t, e.usd.ID, user.Configuration.DefaultCurrency)
}

func TestStartForExistingUser(t *testing.T) {
	e := newEnv(t)

	e.text(t, "/start")

	assert.Contains(t, e.gw.last(t).Text, "already registered")
}

func TestAddCostAsksValueFirst(t *testing.T) {
	e := newEnv(t)

	e.text(t, LabelAddCost)

	assert.Equal(t, "💵 Enter the value", e.gw.last(t).Text)
}

func TestAddCostFullFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.text(t, LabelAddCost)
	assert.Equal(t, "💵 Enter the value", e.gw.last(t).Text)

	e.text(t, "12.50")
	assert.Equal(t, "✍️ Enter the cost name", e.gw.last(t).Text)

	e.text(t, "coffee")
	assert.Equal(t, "🔢 Choose the category", e.gw.last(t).Text)

	e.press(t, opAddCostCategory, id(e.food.ID))
	assert.Equal(t, "📅 Choose the date", e.gw.last(t).Text)

	e.press(t, opAddCostDate, "2024-05-14")
	assert.Contains(t, e.gw.last(t).Text, "Add this cost?")
	assert.Contains(t, e.gw.last(t).Text, "coffee")
	assert.Contains(t, e.gw.last(t).Text, "food")

	e.press(t, opAddCostConfirm, "yes")
	assert.Contains(t, e.gw.last(t).Text, "✅ Cost added")

	costs, err := e.store.Costs().InMonth(ctx, today, ledger.RangeFilter{UserID: testUserID})
	require.NoError(t, err)
	require.Len(t, costs, 1)
	assert.Equal(t, "coffee", costs[0].Name)
	assert.Equal(t, int64(12_50), costs[0].Value)
	assert.Equal(t, e.usd.ID, costs[0].CurrencyID)

	// Equity moved down by the cost value.
	assert.Equal(t, int64(100_00-12_50), e.store.Equity(e.usd.ID))

	// Flow prompts were removed.
	assert.NotEmpty(t, e.gw.deleted)
}

func TestAddCostCancelLeavesNoTrace(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.text(t, LabelAddCost)
	e.text(t, "12.50")
	e.text(t, "coffee")
	e.press(t, opAddCostCategory, id(e.food.ID))
	e.press(t, opAddCostDate, "2024-05-14")
	e.press(t, opAddCostConfirm, "no")

	assert.Equal(t, "❌ Canceled", e.gw.last(t).Text)
	costs, err := e.store.Costs().InMonth(ctx, today, ledger.RangeFilter{UserID: testUserID})
	require.NoError(t, err)
	assert.Empty(t, costs)
	assert.Equal(t, int64(100_00), e.store.Equity(e.usd.ID))
}

func TestAddCostCommitIsAtomic(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.text(t, LabelAddCost)
	e.text(t, "12.50")
	e.text(t, "coffee")
	e.press(t, opAddCostCategory, id(e.food.ID))
	e.press(t, opAddCostDate, "2024-05-14")

	// The insert succeeds, the equity update fails: nothing must stick.
	e.store.FailNext = errors.New("connection reset")
	e.store.FailSkip = 1
	e.press(t, opAddCostConfirm, "yes")

	assert.Equal(t, "😔 Something went wrong. Please try again", e.gw.last(t).Text)
	costs, err := e.store.Costs().InMonth(ctx, today, ledger.RangeFilter{UserID: testUserID})
	require.NoError(t, err)
	assert.Empty(t, costs)
	assert.Equal(t, int64(100_00), e.store.Equity(e.usd.ID))
}

func TestAddCostBadValueAllowsRetry(t *testing.T) {
	e := newEnv(t)

	e.text(t, LabelAddCost)

	e.text(t, "not a number")
	assert.Contains(t, e.gw.last(t).Text, "Validation error")

	e.text(t, "8.00")
	assert.Equal(t, "✍️ Enter the cost name", e.gw.last(t).Text)
}

func TestAddIncomeFullFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.text(t, LabelIncomes)
	e.press(t, opIncomeAdd, "")
	assert.Equal(t, "💵 Enter the value", e.gw.last(t).Text)

	e.text(t, "1000")
	assert.Equal(t, "💱 Choose the currency", e.gw.last(t).Text)

	e.press(t, opAddIncomeCurrency, id(e.eur.ID))
	assert.Equal(t, "✍️ Enter the income name", e.gw.last(t).Text)

	e.text(t, "salary")
	assert.Equal(t, "🚌 Choose the source", e.gw.last(t).Text)

	e.press(t, opAddIncomeSource, "revenue")
	assert.Equal(t, "📅 Choose the date", e.gw.last(t).Text)

	e.press(t, opAddIncomeDate, "2024-05-15")
	assert.Contains(t, e.gw.last(t).Text, "Add this income?")

	e.press(t, opAddIncomeConfirm, "yes")
	assert.Contains(t, e.gw.last(t).Text, "✅ Income added")

	incomes, err := e.store.Incomes().InMonth(ctx, testUserID, today)
	require.NoError(t, err)
	require.Len(t, incomes, 1)
	assert.Equal(t, ledger.SourceRevenue, incomes[0].Source)
	assert.Equal(t, e.eur.ID, incomes[0].CurrencyID)
	assert.Equal(t, int64(50_00+1000_00), e.store.Equity(e.eur.ID))
}

func TestExchangeExcludesSourceCurrency(t *testing.T) {
	e := newEnv(t)

	e.text(t, LabelExchange)
	e.press(t, opExchangeSource, id(e.usd.ID))
	assert.Equal(t, "💵 Enter the source value", e.gw.last(t).Text)

	e.text(t, "100")
	assert.Equal(t, "💱 Choose the destination currency", e.gw.last(t).Text)

	kb := e.gw.last(t).KB
	require.NotNil(t, kb)
	for _, row := range kb.Inline {
		for _, b := range row {
			assert.NotEqual(t, id(e.usd.ID), b.Arg)
		}
	}
}

func TestExchangeMovesEquityBetweenCurrencies(t *testing.T) {
	e := newEnv(t)

	e.text(t, LabelExchange)
	e.press(t, opExchangeSource, id(e.usd.ID))
	e.text(t, "100")
	e.press(t, opExchangeDest, id(e.eur.ID))
	assert.Equal(t, "💵 Enter the destination value", e.gw.last(t).Text)

	e.text(t, "91.50")
	assert.Equal(t, "📅 Choose the date", e.gw.last(t).Text)

	e.press(t, opExchangeDate, "2024-05-15")
	assert.Contains(t, e.gw.last(t).Text, "Commit this exchange?")

	e.press(t, opExchangeConfirm, "yes")
	assert.Contains(t, e.gw.last(t).Text, "✅ Exchange committed")
	assert.Equal(t, int64(100_00-100_00), e.store.Equity(e.usd.ID))
	assert.Equal(t, int64(50_00+91_50), e.store.Equity(e.eur.ID))
}

func TestDeleteCostRestoresEquity(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	cost, err := e.store.Costs().Create(ctx, ledger.CostDraft{
		UserID:     testUserID,
		CategoryID: e.food.ID,
		CurrencyID: e.usd.ID,
		Name:       "coffee",
		Value:      12_50,
		Date:       today,
	})
	require.NoError(t, err)
	require.NoError(t, e.store.Currencies().DecreaseEquity(ctx, e.usd.ID, 12_50))

	e.text(t, LabelDeleteCost)
	assert.Equal(t, "📅 Choose the month", e.gw.last(t).Text)

	e.press(t, opDeleteCostMonth, "2024-05")
	assert.Equal(t, "🔢 Choose the category", e.gw.last(t).Text)

	e.press(t, opDeleteCostCategory, id(e.food.ID))
	assert.Equal(t, "🗑 Choose the cost to delete", e.gw.last(t).Text)

	e.press(t, opDeleteCostPick, id(cost.ID))
	e.press(t, opDeleteCostConfirm, "yes")

	assert.Equal(t, "✅ Cost deleted", e.gw.last(t).Text)
	costs, err := e.store.Costs().InMonth(ctx, today, ledger.RangeFilter{UserID: testUserID})
	require.NoError(t, err)
	assert.Empty(t, costs)
	assert.Equal(t, int64(100_00), e.store.Equity(e.usd.ID))
}

func TestDeleteCostListsOnlyChosenCategory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for _, c := range []struct {
		name     string
		category int64
	}{
		{"coffee", e.food.ID},
		{"airport ride", e.taxi.ID},
	} {
		_, err := e.store.Costs().Create(ctx, ledger.CostDraft{
			UserID:     testUserID,
			CategoryID: c.category,
			CurrencyID: e.usd.ID,
			Name:       c.name,
			Value:      10_00,
			Date:       today,
		})
		require.NoError(t, err)
	}

	e.text(t, LabelDeleteCost)
	e.press(t, opDeleteCostMonth, "2024-05")
	e.press(t, opDeleteCostCategory, id(e.taxi.ID))

	kb := e.gw.last(t).KB
	require.NotNil(t, kb)
	var labels []string
	for _, row := range kb.Inline {
		for _, b := range row {
			labels = append(labels, b.Text)
		}
	}
	require.Len(t, labels, 1)
	assert.Contains(t, labels[0], "airport ride")
}

func TestDeleteCostEmptyCategorySelection(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.store.Costs().Create(ctx, ledger.CostDraft{
		UserID:     testUserID,
		CategoryID: e.food.ID,
		CurrencyID: e.usd.ID,
		Name:       "coffee",
		Value:      10_00,
		Date:       today,
	})
	require.NoError(t, err)

	e.text(t, LabelDeleteCost)
	e.press(t, opDeleteCostMonth, "2024-05")
	e.press(t, opDeleteCostCategory, id(e.taxi.ID))

	assert.Contains(t, e.gw.last(t).Text, "😢 There are no taxi costs in 2024-05")
	// The rejection removed the flow's prompts.
	assert.NotEmpty(t, e.gw.deleted)
}

func TestDeleteCostWithoutRecords(t *testing.T) {
	e := newEnv(t)

	e.text(t, LabelDeleteCost)

	assert.Equal(t, "❌ Costs not found", e.gw.last(t).Text)
	assert.NotEmpty(t, e.gw.deleted)
}

func TestDeleteIncomeReducesEquity(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	income, err := e.store.Incomes().Create(ctx, ledger.IncomeDraft{
		UserID:     testUserID,
		CurrencyID: e.usd.ID,
		Name:       "salary",
		Value:      1000_00,
		Source:     ledger.SourceRevenue,
		Date:       today,
	})
	require.NoError(t, err)
	require.NoError(t, e.store.Currencies().IncreaseEquity(ctx, e.usd.ID, 1000_00))

	e.text(t, LabelIncomes)
	e.press(t, opIncomeDelete, "")
	e.press(t, opDeleteIncomeMonth, "2024-05")
	e.press(t, opDeleteIncomePick, id(income.ID))
	e.press(t, opDeleteIncomeConfirm, "yes")

	assert.Equal(t, "✅ Income deleted", e.gw.last(t).Text)
	assert.Equal(t, int64(100_00), e.store.Equity(e.usd.ID))
}

func TestAnalyticsPatternRetryAfterBadInput(t *testing.T) {
	e := newEnv(t)
	seedReportRecords(t, e)

	e.text(t, LabelAnalytics)
	e.press(t, opAnalyticsChoice, "pattern")
	assert.Equal(t, "✍️ Enter the dates range", e.gw.last(t).Text)

	e.text(t, "whenever")
	assert.Contains(t, e.gw.last(t).Text, "2022: a whole year")

	// The prompt is re-armed, a correct pattern still works.
	e.text(t, "2024-5")
	assert.Equal(t, "Choose the level of detail", e.gw.last(t).Text)
}

func TestAnalyticsOffersScopeBeforeReport(t *testing.T) {
	e := newEnv(t)
	seedReportRecords(t, e)

	e.text(t, LabelAnalytics)
	e.press(t, opAnalyticsChoice, "this")
	assert.Equal(t, "Choose the level of detail", e.gw.last(t).Text)

	e.press(t, opAnalyticsLevel, "basic")
	assert.Equal(t, "Choose the scope", e.gw.last(t).Text)

	// Basic reports offer personal and shared scope only.
	kb := e.gw.last(t).KB
	require.NotNil(t, kb)
	var args []string
	for _, row := range kb.Inline {
		for _, b := range row {
			args = append(args, b.Arg)
		}
	}
	assert.ElementsMatch(t, []string{argMine, argEveryone}, args)

	e.press(t, opAnalyticsScope, argMine)
	joined := strings.Join(e.gw.texts(), "\n")
	assert.Contains(t, joined, "📊 Analytics for")
}

func TestAnalyticsEveryoneScopeSpansUsers(t *testing.T) {
	e := newEnv(t)
	seedReportRecords(t, e)
	ctx := context.Background()

	e.store.SeedUser(43, ledger.Configuration{NumberOfDates: 3, DefaultCurrency: e.usd.ID})
	_, err := e.store.Costs().Create(ctx, ledger.CostDraft{
		UserID:     43,
		CategoryID: e.taxi.ID,
		CurrencyID: e.usd.ID,
		Name:       "night ride",
		Value:      30_00,
		Date:       today,
	})
	require.NoError(t, err)

	e.text(t, LabelAnalytics)
	e.press(t, opAnalyticsChoice, "this")
	e.press(t, opAnalyticsLevel, "detailed")
	e.press(t, opAnalyticsScope, argEveryone)

	joined := strings.Join(e.gw.texts(), "\n")
	assert.Contains(t, joined, "coffee")
	assert.Contains(t, joined, "night ride")
}

func TestAnalyticsIncomesOnlyScope(t *testing.T) {
	e := newEnv(t)
	seedReportRecords(t, e)

	e.text(t, LabelAnalytics)
	e.press(t, opAnalyticsChoice, "this")
	e.press(t, opAnalyticsLevel, "detailed")
	e.press(t, opAnalyticsScope, argIncomesOnly)

	joined := strings.Join(e.gw.texts(), "\n")
	assert.Contains(t, joined, "salary")
	assert.NotContains(t, joined, "coffee")
}

func TestAnalyticsByCategoryScope(t *testing.T) {
	e := newEnv(t)
	seedReportRecords(t, e)

	e.text(t, LabelAnalytics)
	e.press(t, opAnalyticsChoice, "this")
	e.press(t, opAnalyticsLevel, "detailed")
	e.press(t, opAnalyticsScope, argByCategory)
	assert.Equal(t, "🔢 Choose the category", e.gw.last(t).Text)

	e.press(t, opAnalyticsCategory, id(e.food.ID))

	joined := strings.Join(e.gw.texts(), "\n")
	assert.Contains(t, joined, "coffee")
	assert.NotContains(t, joined, "salary")
}

func TestAnalyticsLongRangeForcesBasic(t *testing.T) {
	e := newEnv(t)
	seedReportRecords(t, e)

	e.text(t, LabelAnalytics)
	e.press(t, opAnalyticsChoice, "pattern")
	e.text(t, "2024")

	for _, text := range e.gw.texts() {
		assert.NotEqual(t, "Choose the level of detail", text)
	}
	assert.Equal(t, "Choose the scope", e.gw.last(t).Text)

	e.press(t, opAnalyticsScope, argMine)
	joined := strings.Join(e.gw.texts(), "\n")
	assert.Contains(t, joined, "📊 Analytics for")
}

func TestAnalyticsDetailedListsRecords(t *testing.T) {
	e := newEnv(t)
	seedReportRecords(t, e)

	e.text(t, LabelAnalytics)
	e.press(t, opAnalyticsChoice, "this")
	assert.Equal(t, "Choose the level of detail", e.gw.last(t).Text)

	e.press(t, opAnalyticsLevel, "detailed")
	e.press(t, opAnalyticsScope, argMine)
	joined := strings.Join(e.gw.texts(), "\n")
	assert.Contains(t, joined, "coffee")
	assert.Contains(t, joined, "salary")
}

func TestAnalyticsEmptyRange(t *testing.T) {
	e := newEnv(t)

	e.text(t, LabelAnalytics)
	e.press(t, opAnalyticsChoice, "this")
	e.press(t, opAnalyticsLevel, "basic")
	e.press(t, opAnalyticsScope, argMine)

	assert.Equal(t, "😢 There are no records in the chosen range", e.gw.last(t).Text)
}

func TestAnalyticsFramesRespectMessageLimit(t *testing.T) {
	const limit = 220
	e := newEnvWithLimit(t, limit)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := e.store.Costs().Create(ctx, ledger.CostDraft{
			UserID:     testUserID,
			CategoryID: e.food.ID,
			CurrencyID: e.usd.ID,
			Name:       "groceries run number " + strconv.Itoa(i),
			Value:      15_00,
			Date:       today,
		})
		require.NoError(t, err)
	}

	e.text(t, LabelAnalytics)
	e.press(t, opAnalyticsChoice, "this")
	e.press(t, opAnalyticsLevel, "detailed")
	e.press(t, opAnalyticsScope, argMine)

	var frames []string
	for _, text := range e.gw.texts() {
		if strings.Contains(text, "groceries run") {
			frames = append(frames, text)
		}
	}
	require.Greater(t, len(frames), 1)
	for _, frame := range frames {
		assert.LessOrEqual(t, len(frame), limit)
	}
}

func TestRestartAbandonsFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.text(t, LabelAddCost)
	e.text(t, "12.50")
	e.text(t, LabelRestart)

	assert.Equal(t, "🔄 The bot has been restarted", e.gw.last(t).Text)
	assert.NotEmpty(t, e.gw.deleted)

	// The pending continuation is gone, plain text falls through.
	e.text(t, "coffee")
	assert.Equal(t, "Please use the keyboard below 👇", e.gw.last(t).Text)

	costs, err := e.store.Costs().InMonth(ctx, today, ledger.RangeFilter{UserID: testUserID})
	require.NoError(t, err)
	assert.Empty(t, costs)
}

func TestRootKeyboardOffersRestart(t *testing.T) {
	var labels []string
	for _, row := range RootKeyboard().Reply {
		labels = append(labels, row...)
	}

	assert.Contains(t, labels, LabelRestart)
}

func TestConfigNumberOfDatesValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.text(t, LabelConfigurations)
	assert.Contains(t, e.gw.last(t).Text, "⚙️ Configurations")

	e.press(t, opConfigEdit, "number_of_dates")
	e.text(t, "forty")
	assert.Contains(t, e.gw.last(t).Text, "between 1 and 31")

	e.text(t, "5")
	assert.Contains(t, e.gw.last(t).Text, "✅ Configuration updated")

	cfg, err := e.store.Configurations().Get(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.NumberOfDates)
}

func TestConfigDefaultCurrencyPickedFromList(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.text(t, LabelConfigurations)
	e.press(t, opConfigEdit, "default_currency")
	assert.Equal(t, "💱 Choose the default currency", e.gw.last(t).Text)

	e.press(t, opConfigCurrency, id(e.eur.ID))
	assert.Contains(t, e.gw.last(t).Text, "✅ Configuration updated")

	cfg, err := e.store.Configurations().Get(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, e.eur.ID, cfg.DefaultCurrency)
}

func TestEquityShowsEveryCurrency(t *testing.T) {
	e := newEnv(t)

	e.text(t, LabelEquity)

	text := e.gw.last(t).Text
	assert.Contains(t, text, "💰 Equity")
	assert.Contains(t, text, "USD: 100.00 $")
	assert.Contains(t, text, "EUR: 50.00 €")
}

func seedReportRecords(t *testing.T, e *env) {
	t.Helper()
	ctx := context.Background()
	_, err := e.store.Costs().Create(ctx, ledger.CostDraft{
		UserID:     testUserID,
		CategoryID: e.food.ID,
		CurrencyID: e.usd.ID,
		Name:       "coffee",
		Value:      12_50,
		Date:       today,
	})
	require.NoError(t, err)
	_, err = e.store.Incomes().Create(ctx, ledger.IncomeDraft{
		UserID:     testUserID,
		CurrencyID: e.usd.ID,
		Name:       "salary",
		Value:      1000_00,
		Source:     ledger.SourceRevenue,
		Date:       today,
	})
	require.NoError(t, err)
}
