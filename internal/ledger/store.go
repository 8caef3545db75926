package ledger

import (
	"context"
	"time"
)

// RangeFilter narrows date-range queries. A zero UserID matches every
// user, a zero CategoryID every category.
type RangeFilter struct {
	UserID     int64
	CategoryID int64
}

// UserStore reads and creates allowed users.
type UserStore interface {
	Get(ctx context.Context, id int64) (User, error)
	Create(ctx context.Context, id int64) (User, error)
}

// ConfigurationStore reads and updates per-user settings.
type ConfigurationStore interface {
	Get(ctx context.Context, userID int64) (Configuration, error)
	SetNumberOfDates(ctx context.Context, userID int64, n int) error
	SetCostsSources(ctx context.Context, userID int64, items string) error
	SetIncomesSources(ctx context.Context, userID int64, items string) error
	SetIgnoreCategories(ctx context.Context, userID int64, items string) error
	SetDefaultCurrency(ctx context.Context, userID int64, currencyID int64) error
}

// CurrencyStore reads currencies and moves equity.
type CurrencyStore interface {
	Get(ctx context.Context, id int64) (Currency, error)
	All(ctx context.Context) ([]Currency, error)
	Exclude(ctx context.Context, id int64) ([]Currency, error)
	First(ctx context.Context) (Currency, error)
	IncreaseEquity(ctx context.Context, id int64, cents int64) error
	DecreaseEquity(ctx context.Context, id int64, cents int64) error
}

// CategoryStore reads cost categories.
type CategoryStore interface {
	Get(ctx context.Context, id int64) (Category, error)
	All(ctx context.Context) ([]Category, error)
}

// CostStore reads and mutates expenses.
type CostStore interface {
	Get(ctx context.Context, id int64) (Cost, error)
	Create(ctx context.Context, draft CostDraft) (Cost, error)
	Delete(ctx context.Context, id int64) error
	InDateRange(ctx context.Context, start, end time.Time, f RangeFilter) ([]Cost, error)
	InMonth(ctx context.Context, month time.Time, f RangeFilter) ([]Cost, error)
	FirstDate(ctx context.Context, userID int64) (time.Time, error)
	LastDate(ctx context.Context, userID int64) (time.Time, error)
}

// IncomeStore reads and mutates incomes.
type IncomeStore interface {
	Get(ctx context.Context, id int64) (Income, error)
	Create(ctx context.Context, draft IncomeDraft) (Income, error)
	Delete(ctx context.Context, id int64) error
	InDateRange(ctx context.Context, start, end time.Time, f RangeFilter) ([]Income, error)
	InMonth(ctx context.Context, userID int64, month time.Time) ([]Income, error)
	FirstDate(ctx context.Context, userID int64) (time.Time, error)
	LastDate(ctx context.Context, userID int64) (time.Time, error)
}

// ExchangeStore reads and mutates currency exchanges.
type ExchangeStore interface {
	Get(ctx context.Context, id int64) (Exchange, error)
	Create(ctx context.Context, draft ExchangeDraft) (Exchange, error)
	InDateRange(ctx context.Context, start, end time.Time, f RangeFilter) ([]Exchange, error)
}

// Store bundles every repository behind one handle. WithinTx runs fn
// against a Store bound to a single transaction; all financial
// mutations go through it so record writes and equity updates commit or
// roll back together.
type Store interface {
	Users() UserStore
	Configurations() ConfigurationStore
	Currencies() CurrencyStore
	Categories() CategoryStore
	Costs() CostStore
	Incomes() IncomeStore
	Exchanges() ExchangeStore

	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
