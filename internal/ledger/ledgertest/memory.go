// Package ledgertest provides an in-memory ledger.Store for tests.
package ledgertest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dkotenko/budgetbot/internal/errs"
	"github.com/dkotenko/budgetbot/internal/ledger"
)

// Memory implements ledger.Store over plain maps. WithinTx snapshots
// the state and restores it when fn fails, so atomicity tests behave
// like the real transactional store.
type Memory struct {
	mu sync.Mutex

	users      map[int64]ledger.User
	configs    map[int64]ledger.Configuration
	currencies map[int64]ledger.Currency
	categories map[int64]ledger.Category
	costs      map[int64]ledger.Cost
	incomes    map[int64]ledger.Income
	exchanges  map[int64]ledger.Exchange
	nextID     int64

	// FailNext makes a mutating call return a database error. FailSkip
	// lets that many mutating calls succeed first, so a multi-step
	// transaction can be failed halfway through.
	FailNext error
	FailSkip int
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		users:      make(map[int64]ledger.User),
		configs:    make(map[int64]ledger.Configuration),
		currencies: make(map[int64]ledger.Currency),
		categories: make(map[int64]ledger.Category),
		costs:      make(map[int64]ledger.Cost),
		incomes:    make(map[int64]ledger.Income),
		exchanges:  make(map[int64]ledger.Exchange),
	}
}

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *Memory) failing() error {
	if m.FailNext == nil {
		return nil
	}
	if m.FailSkip > 0 {
		m.FailSkip--
		return nil
	}
	err := m.FailNext
	m.FailNext = nil
	return &errs.DatabaseError{Err: err}
}

// SeedCurrency registers a currency and returns it.
func (m *Memory) SeedCurrency(name, sign string, equity int64) ledger.Currency {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := ledger.Currency{ID: m.id(), Name: name, Sign: sign, Equity: equity}
	m.currencies[c.ID] = c
	return c
}

// SeedCategory registers a category and returns it.
func (m *Memory) SeedCategory(name string) ledger.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := ledger.Category{ID: m.id(), Name: name}
	m.categories[c.ID] = c
	return c
}

// SeedUser registers a user with the given configuration.
func (m *Memory) SeedUser(id int64, cfg ledger.Configuration) ledger.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg.UserID = id
	u := ledger.User{ID: id, CreatedAt: time.Now(), Configuration: cfg}
	m.users[id] = u
	m.configs[id] = cfg
	return u
}

// Equity reports the current balance of a currency.
func (m *Memory) Equity(currencyID int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currencies[currencyID].Equity
}

func (m *Memory) Users() ledger.UserStore                   { return memUsers{m} }
func (m *Memory) Configurations() ledger.ConfigurationStore { return memConfigs{m} }
func (m *Memory) Currencies() ledger.CurrencyStore          { return memCurrencies{m} }
func (m *Memory) Categories() ledger.CategoryStore          { return memCategories{m} }
func (m *Memory) Costs() ledger.CostStore                   { return memCosts{m} }
func (m *Memory) Incomes() ledger.IncomeStore               { return memIncomes{m} }
func (m *Memory) Exchanges() ledger.ExchangeStore           { return memExchanges{m} }

// WithinTx runs fn against the store, restoring the previous state if
// fn fails.
func (m *Memory) WithinTx(_ context.Context, fn func(tx ledger.Store) error) error {
	snapshot := m.clone()
	if err := fn(m); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

type state struct {
	users      map[int64]ledger.User
	configs    map[int64]ledger.Configuration
	currencies map[int64]ledger.Currency
	categories map[int64]ledger.Category
	costs      map[int64]ledger.Cost
	incomes    map[int64]ledger.Income
	exchanges  map[int64]ledger.Exchange
	nextID     int64
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (m *Memory) clone() state {
	m.mu.Lock()
	defer m.mu.Unlock()
	return state{
		users:      copyMap(m.users),
		configs:    copyMap(m.configs),
		currencies: copyMap(m.currencies),
		categories: copyMap(m.categories),
		costs:      copyMap(m.costs),
		incomes:    copyMap(m.incomes),
		exchanges:  copyMap(m.exchanges),
		nextID:     m.nextID,
	}
}

func (m *Memory) restore(s state) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = s.users
	m.configs = s.configs
	m.currencies = s.currencies
	m.categories = s.categories
	m.costs = s.costs
	m.incomes = s.incomes
	m.exchanges = s.exchanges
	m.nextID = s.nextID
}

type memUsers struct{ m *Memory }

func (r memUsers) Get(_ context.Context, id int64) (ledger.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return ledger.User{}, errs.NewNotFound("user")
	}
	u.Configuration = r.m.configs[id]
	return u, nil
}

func (r memUsers) Create(_ context.Context, id int64) (ledger.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failing(); err != nil {
		return ledger.User{}, err
	}
	if u, ok := r.m.users[id]; ok {
		u.Configuration = r.m.configs[id]
		return u, nil
	}
	var first ledger.Currency
	for _, c := range r.m.currencies {
		if first.ID == 0 || c.ID < first.ID {
			first = c
		}
	}
	if first.ID == 0 {
		return ledger.User{}, errs.NewNotFound("currency")
	}
	cfg := ledger.Configuration{UserID: id, NumberOfDates: 7, DefaultCurrency: first.ID}
	u := ledger.User{ID: id, CreatedAt: time.Now(), Configuration: cfg}
	r.m.users[id] = u
	r.m.configs[id] = cfg
	return u, nil
}

type memConfigs struct{ m *Memory }

func (r memConfigs) Get(_ context.Context, userID int64) (ledger.Configuration, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cfg, ok := r.m.configs[userID]
	if !ok {
		return ledger.Configuration{}, errs.NewNotFound("configuration")
	}
	return cfg, nil
}

func (r memConfigs) set(userID int64, mutate func(*ledger.Configuration)) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failing(); err != nil {
		return err
	}
	cfg, ok := r.m.configs[userID]
	if !ok {
		return errs.NewNotFound("configuration")
	}
	mutate(&cfg)
	r.m.configs[userID] = cfg
	return nil
}

func (r memConfigs) SetNumberOfDates(_ context.Context, userID int64, n int) error {
	return r.set(userID, func(c *ledger.Configuration) { c.NumberOfDates = n })
}

func (r memConfigs) SetCostsSources(_ context.Context, userID int64, items string) error {
	return r.set(userID, func(c *ledger.Configuration) { c.CostsSources = items })
}

func (r memConfigs) SetIncomesSources(_ context.Context, userID int64, items string) error {
	return r.set(userID, func(c *ledger.Configuration) { c.IncomesSources = items })
}

func (r memConfigs) SetIgnoreCategories(_ context.Context, userID int64, items string) error {
	return r.set(userID, func(c *ledger.Configuration) { c.IgnoreCategories = items })
}

func (r memConfigs) SetDefaultCurrency(_ context.Context, userID int64, currencyID int64) error {
	return r.set(userID, func(c *ledger.Configuration) { c.DefaultCurrency = currencyID })
}

type memCurrencies struct{ m *Memory }

func (r memCurrencies) Get(_ context.Context, id int64) (ledger.Currency, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.currencies[id]
	if !ok {
		return ledger.Currency{}, errs.NewNotFound("currency")
	}
	return c, nil
}

func (r memCurrencies) All(_ context.Context) ([]ledger.Currency, error) {
	return r.Exclude(context.Background(), 0)
}

func (r memCurrencies) Exclude(_ context.Context, id int64) ([]ledger.Currency, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []ledger.Currency
	for _, c := range r.m.currencies {
		if c.ID != id {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memCurrencies) First(ctx context.Context) (ledger.Currency, error) {
	all, err := r.All(ctx)
	if err != nil {
		return ledger.Currency{}, err
	}
	if len(all) == 0 {
		return ledger.Currency{}, errs.NewNotFound("currency")
	}
	return all[0], nil
}

func (r memCurrencies) adjust(id int64, delta int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failing(); err != nil {
		return err
	}
	c, ok := r.m.currencies[id]
	if !ok {
		return errs.NewNotFound("currency")
	}
	c.Equity += delta
	r.m.currencies[id] = c
	return nil
}

func (r memCurrencies) IncreaseEquity(_ context.Context, id int64, cents int64) error {
	return r.adjust(id, cents)
}

func (r memCurrencies) DecreaseEquity(_ context.Context, id int64, cents int64) error {
	return r.adjust(id, -cents)
}

type memCategories struct{ m *Memory }

func (r memCategories) Get(_ context.Context, id int64) (ledger.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.categories[id]
	if !ok {
		return ledger.Category{}, errs.NewNotFound("category")
	}
	return c, nil
}

func (r memCategories) All(_ context.Context) ([]ledger.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []ledger.Category
	for _, c := range r.m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func matchesFilter(userID, categoryID int64, f ledger.RangeFilter) bool {
	if f.UserID != 0 && userID != f.UserID {
		return false
	}
	return f.CategoryID == 0 || categoryID == f.CategoryID
}

func inRange(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}

func sameMonth(date, month time.Time) bool {
	return date.Year() == month.Year() && date.Month() == month.Month()
}

type memCosts struct{ m *Memory }

func (r memCosts) join(c ledger.Cost) ledger.Cost {
	c.CategoryName = r.m.categories[c.CategoryID].Name
	c.CurrencySign = r.m.currencies[c.CurrencyID].Sign
	return c
}

func (r memCosts) Get(_ context.Context, id int64) (ledger.Cost, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.costs[id]
	if !ok {
		return ledger.Cost{}, errs.NewNotFound("cost")
	}
	return r.join(c), nil
}

func (r memCosts) Create(_ context.Context, draft ledger.CostDraft) (ledger.Cost, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failing(); err != nil {
		return ledger.Cost{}, err
	}
	c := ledger.Cost{
		ID:         r.m.id(),
		UserID:     draft.UserID,
		CategoryID: draft.CategoryID,
		CurrencyID: draft.CurrencyID,
		Name:       draft.Name,
		Value:      draft.Value,
		Date:       draft.Date,
		CreatedAt:  time.Now(),
	}
	r.m.costs[c.ID] = c
	return r.join(c), nil
}

func (r memCosts) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failing(); err != nil {
		return err
	}
	if _, ok := r.m.costs[id]; !ok {
		return errs.NewNotFound("cost")
	}
	delete(r.m.costs, id)
	return nil
}

func (r memCosts) list(keep func(ledger.Cost) bool) []ledger.Cost {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []ledger.Cost
	for _, c := range r.m.costs {
		if keep(c) {
			out = append(out, r.join(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r memCosts) InDateRange(_ context.Context, start, end time.Time, f ledger.RangeFilter) ([]ledger.Cost, error) {
	return r.list(func(c ledger.Cost) bool {
		return matchesFilter(c.UserID, c.CategoryID, f) && inRange(c.Date, start, end)
	}), nil
}

func (r memCosts) InMonth(_ context.Context, month time.Time, f ledger.RangeFilter) ([]ledger.Cost, error) {
	return r.list(func(c ledger.Cost) bool {
		return matchesFilter(c.UserID, c.CategoryID, f) && sameMonth(c.Date, month)
	}), nil
}

func (r memCosts) FirstDate(_ context.Context, userID int64) (time.Time, error) {
	all := r.list(func(c ledger.Cost) bool { return c.UserID == userID })
	if len(all) == 0 {
		return time.Time{}, errs.NewNotFound("cost")
	}
	return all[0].Date, nil
}

func (r memCosts) LastDate(_ context.Context, userID int64) (time.Time, error) {
	all := r.list(func(c ledger.Cost) bool { return c.UserID == userID })
	if len(all) == 0 {
		return time.Time{}, errs.NewNotFound("cost")
	}
	return all[len(all)-1].Date, nil
}

type memIncomes struct{ m *Memory }

func (r memIncomes) join(in ledger.Income) ledger.Income {
	in.CurrencySign = r.m.currencies[in.CurrencyID].Sign
	return in
}

func (r memIncomes) Get(_ context.Context, id int64) (ledger.Income, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	in, ok := r.m.incomes[id]
	if !ok {
		return ledger.Income{}, errs.NewNotFound("income")
	}
	return r.join(in), nil
}

func (r memIncomes) Create(_ context.Context, draft ledger.IncomeDraft) (ledger.Income, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failing(); err != nil {
		return ledger.Income{}, err
	}
	in := ledger.Income{
		ID:         r.m.id(),
		UserID:     draft.UserID,
		CurrencyID: draft.CurrencyID,
		Name:       draft.Name,
		Value:      draft.Value,
		Source:     draft.Source,
		Date:       draft.Date,
		CreatedAt:  time.Now(),
	}
	r.m.incomes[in.ID] = in
	return r.join(in), nil
}

func (r memIncomes) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failing(); err != nil {
		return err
	}
	if _, ok := r.m.incomes[id]; !ok {
		return errs.NewNotFound("income")
	}
	delete(r.m.incomes, id)
	return nil
}

func (r memIncomes) list(keep func(ledger.Income) bool) []ledger.Income {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []ledger.Income
	for _, in := range r.m.incomes {
		if keep(in) {
			out = append(out, r.join(in))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r memIncomes) InDateRange(_ context.Context, start, end time.Time, f ledger.RangeFilter) ([]ledger.Income, error) {
	return r.list(func(in ledger.Income) bool {
		return (f.UserID == 0 || in.UserID == f.UserID) && inRange(in.Date, start, end)
	}), nil
}

func (r memIncomes) InMonth(_ context.Context, userID int64, month time.Time) ([]ledger.Income, error) {
	return r.list(func(in ledger.Income) bool {
		return in.UserID == userID && sameMonth(in.Date, month)
	}), nil
}

func (r memIncomes) FirstDate(_ context.Context, userID int64) (time.Time, error) {
	all := r.list(func(in ledger.Income) bool { return in.UserID == userID })
	if len(all) == 0 {
		return time.Time{}, errs.NewNotFound("income")
	}
	return all[0].Date, nil
}

func (r memIncomes) LastDate(_ context.Context, userID int64) (time.Time, error) {
	all := r.list(func(in ledger.Income) bool { return in.UserID == userID })
	if len(all) == 0 {
		return time.Time{}, errs.NewNotFound("income")
	}
	return all[len(all)-1].Date, nil
}

type memExchanges struct{ m *Memory }

func (r memExchanges) join(e ledger.Exchange) ledger.Exchange {
	e.SourceSign = r.m.currencies[e.SourceCurrencyID].Sign
	e.DestSign = r.m.currencies[e.DestCurrencyID].Sign
	return e
}

func (r memExchanges) Get(_ context.Context, id int64) (ledger.Exchange, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e, ok := r.m.exchanges[id]
	if !ok {
		return ledger.Exchange{}, errs.NewNotFound("exchange")
	}
	return r.join(e), nil
}

func (r memExchanges) Create(_ context.Context, draft ledger.ExchangeDraft) (ledger.Exchange, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failing(); err != nil {
		return ledger.Exchange{}, err
	}
	e := ledger.Exchange{
		ID:               r.m.id(),
		UserID:           draft.UserID,
		SourceCurrencyID: draft.SourceCurrencyID,
		DestCurrencyID:   draft.DestCurrencyID,
		SourceValue:      draft.SourceValue,
		DestValue:        draft.DestValue,
		Date:             draft.Date,
		CreatedAt:        time.Now(),
	}
	r.m.exchanges[e.ID] = e
	return r.join(e), nil
}

func (r memExchanges) InDateRange(_ context.Context, start, end time.Time, f ledger.RangeFilter) ([]ledger.Exchange, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []ledger.Exchange
	for _, e := range r.m.exchanges {
		if (f.UserID == 0 || e.UserID == f.UserID) && inRange(e.Date, start, end) {
			out = append(out, r.join(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
