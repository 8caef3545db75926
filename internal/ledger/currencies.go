package ledger

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/dkotenko/budgetbot/internal/errs"
)

var errNegativeDelta = errors.New("negative equity delta")

type pgCurrencies struct {
	q sqlx.ExtContext
}

const currencyColumns = `id, name, sign, equity`

func (r pgCurrencies) Get(ctx context.Context, id int64) (Currency, error) {
	var c Currency
	err := getRow(ctx, r.q, &c, "currency",
		`SELECT `+currencyColumns+` FROM currencies WHERE id = $1`, id)
	return c, err
}

func (r pgCurrencies) All(ctx context.Context) ([]Currency, error) {
	var out []Currency
	err := selectRows(ctx, r.q, &out,
		`SELECT `+currencyColumns+` FROM currencies ORDER BY id`)
	return out, err
}

func (r pgCurrencies) Exclude(ctx context.Context, id int64) ([]Currency, error) {
	var out []Currency
	err := selectRows(ctx, r.q, &out,
		`SELECT `+currencyColumns+` FROM currencies WHERE id <> $1 ORDER BY id`, id)
	return out, err
}

func (r pgCurrencies) First(ctx context.Context) (Currency, error) {
	var c Currency
	err := getRow(ctx, r.q, &c, "currency",
		`SELECT `+currencyColumns+` FROM currencies ORDER BY id LIMIT 1`)
	return c, err
}

// IncreaseEquity adds cents to the currency balance.
func (r pgCurrencies) IncreaseEquity(ctx context.Context, id int64, cents int64) error {
	if cents < 0 {
		return errs.WrapDB(errNegativeDelta)
	}
	return exec(ctx, r.q, "currency",
		`UPDATE currencies SET equity = equity + $2 WHERE id = $1`, id, cents)
}

// DecreaseEquity subtracts cents from the currency balance. Balances
// may go negative: spending tracked in a currency can precede the
// matching income.
func (r pgCurrencies) DecreaseEquity(ctx context.Context, id int64, cents int64) error {
	if cents < 0 {
		return errs.WrapDB(errNegativeDelta)
	}
	return exec(ctx, r.q, "currency",
		`UPDATE currencies SET equity = equity - $2 WHERE id = $1`, id, cents)
}
