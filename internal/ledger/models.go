// Package ledger defines the financial records of the bot and the
// storage contract for reading and mutating them.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/dkotenko/budgetbot/internal/money"
)

// User is an allowed Telegram account with its per-user settings.
type User struct {
	ID            int64     `db:"id"`
	CreatedAt     time.Time `db:"created_at"`
	Configuration Configuration
}

// Configuration keeps the user-tunable behavior knobs. Item lists are
// stored as comma-separated text and split on demand.
type Configuration struct {
	UserID           int64  `db:"user_id"`
	NumberOfDates    int    `db:"number_of_dates"`
	CostsSources     string `db:"costs_sources"`
	IncomesSources   string `db:"incomes_sources"`
	IgnoreCategories string `db:"ignore_categories"`
	DefaultCurrency  int64  `db:"default_currency"`
}

// CostsSourceItems splits the cost name shortcuts.
func (c Configuration) CostsSourceItems() []string { return splitItems(c.CostsSources) }

// IncomesSourceItems splits the income name shortcuts.
func (c Configuration) IncomesSourceItems() []string { return splitItems(c.IncomesSources) }

// IgnoredCategoryItems splits the category names hidden from reports.
func (c Configuration) IgnoredCategoryItems() []string { return splitItems(c.IgnoreCategories) }

// Render formats the configuration for display in chat.
func (c Configuration) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "number_of_dates: %d\n", c.NumberOfDates)
	fmt.Fprintf(&b, "costs_sources: %s\n", orDash(c.CostsSources))
	fmt.Fprintf(&b, "incomes_sources: %s\n", orDash(c.IncomesSources))
	fmt.Fprintf(&b, "ignore_categories: %s\n", orDash(c.IgnoreCategories))
	fmt.Fprintf(&b, "default_currency: %d", c.DefaultCurrency)
	return b.String()
}

func splitItems(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// Currency is a money denomination. Equity is the running balance in
// cents: every cost decreases it, every income increases it, and an
// exchange moves value between two currencies.
type Currency struct {
	ID     int64  `db:"id"`
	Name   string `db:"name"`
	Sign   string `db:"sign"`
	Equity int64  `db:"equity"`
}

// Render formats one equity line, e.g. "USD: 1 234.56 $".
func (c Currency) Render() string {
	return fmt.Sprintf("%s: %s %s", c.Name, money.Format(c.Equity), c.Sign)
}

// Category groups costs for reporting.
type Category struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// Source classifies an income record.
type Source string

// Income sources. Gifts and debts are excluded from real revenue.
const (
	SourceRevenue Source = "revenue"
	SourceOther   Source = "other"
	SourceGift    Source = "gift"
	SourceDebt    Source = "debt"
)

// Sources lists every income source in menu order.
func Sources() []Source {
	return []Source{SourceRevenue, SourceOther, SourceGift, SourceDebt}
}

// Real reports whether the source counts toward earned revenue.
func (s Source) Real() bool { return s != SourceGift && s != SourceDebt }

// Cost is a single expense. CategoryName and CurrencySign are joined in
// for rendering.
type Cost struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	CategoryID   int64     `db:"category_id"`
	CurrencyID   int64     `db:"currency_id"`
	Name         string    `db:"name"`
	Value        int64     `db:"value"`
	Date         time.Time `db:"date"`
	CreatedAt    time.Time `db:"created_at"`
	CategoryName string    `db:"category_name"`
	CurrencySign string    `db:"currency_sign"`
}

// Render formats one cost line for lists and confirmations.
func (c Cost) Render() string {
	return fmt.Sprintf("%s: %s %s", c.Name, money.Format(c.Value), c.CurrencySign)
}

// CostDraft is the input for creating a cost.
type CostDraft struct {
	UserID     int64
	CategoryID int64
	CurrencyID int64
	Name       string
	Value      int64
	Date       time.Time
}

// Income is a single inflow of money.
type Income struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	CurrencyID   int64     `db:"currency_id"`
	Name         string    `db:"name"`
	Value        int64     `db:"value"`
	Source       Source    `db:"source"`
	Date         time.Time `db:"date"`
	CreatedAt    time.Time `db:"created_at"`
	CurrencySign string    `db:"currency_sign"`
}

// Render formats one income line for lists and confirmations.
func (i Income) Render() string {
	return fmt.Sprintf("%s: %s %s", i.Name, money.Format(i.Value), i.CurrencySign)
}

// IncomeDraft is the input for creating an income.
type IncomeDraft struct {
	UserID     int64
	CurrencyID int64
	Name       string
	Value      int64
	Source     Source
	Date       time.Time
}

// Exchange converts value from one currency into another.
type Exchange struct {
	ID               int64     `db:"id"`
	UserID           int64     `db:"user_id"`
	SourceCurrencyID int64     `db:"source_currency_id"`
	DestCurrencyID   int64     `db:"dest_currency_id"`
	SourceValue      int64     `db:"source_value"`
	DestValue        int64     `db:"dest_value"`
	Date             time.Time `db:"date"`
	CreatedAt        time.Time `db:"created_at"`
	SourceSign       string    `db:"source_sign"`
	DestSign         string    `db:"dest_sign"`
}

// Render formats one exchange line, e.g. "100.00 $ -> 91.50 €".
func (e Exchange) Render() string {
	return fmt.Sprintf("%s %s -> %s %s",
		money.Format(e.SourceValue), e.SourceSign,
		money.Format(e.DestValue), e.DestSign,
	)
}

// ExchangeDraft is the input for creating an exchange.
type ExchangeDraft struct {
	UserID           int64
	SourceCurrencyID int64
	DestCurrencyID   int64
	SourceValue      int64
	DestValue        int64
	Date             time.Time
}
