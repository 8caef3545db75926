package ledger

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/dkotenko/budgetbot/internal/errs"
)

type pgUsers struct {
	q sqlx.ExtContext
}

func (r pgUsers) Get(ctx context.Context, id int64) (User, error) {
	var u User
	err := getRow(ctx, r.q, &u, "user",
		`SELECT id, created_at FROM users WHERE id = $1`, id)
	if err != nil {
		return User{}, err
	}

	cfg, err := pgConfigurations{r.q}.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	u.Configuration = cfg
	return u, nil
}

// Create inserts a user together with a default configuration. The
// default currency is the first one known to the system.
func (r pgUsers) Create(ctx context.Context, id int64) (User, error) {
	first, err := pgCurrencies{r.q}.First(ctx)
	if err != nil {
		return User{}, err
	}

	var u User
	err = getRow(ctx, r.q, &u, "user",
		`INSERT INTO users (id) VALUES ($1)
		 ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
		 RETURNING id, created_at`, id)
	if err != nil {
		return User{}, err
	}

	_, execErr := r.q.ExecContext(ctx,
		`INSERT INTO configurations (user_id, default_currency)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO NOTHING`, id, first.ID)
	if execErr != nil {
		return User{}, errs.WrapDB(execErr)
	}

	cfg, err := pgConfigurations{r.q}.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	u.Configuration = cfg
	return u, nil
}
