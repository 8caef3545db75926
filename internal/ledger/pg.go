package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dkotenko/budgetbot/internal/errs"
)

// PG implements Store on top of PostgreSQL. The zero handle is bound to
// the pool; WithinTx produces a handle bound to one transaction.
type PG struct {
	db *sqlx.DB
	q  sqlx.ExtContext
}

// NewPG wraps an open connection pool.
func NewPG(db *sqlx.DB) *PG {
	return &PG{db: db, q: db}
}

func (p *PG) Users() UserStore                   { return pgUsers{p.q} }
func (p *PG) Configurations() ConfigurationStore { return pgConfigurations{p.q} }
func (p *PG) Currencies() CurrencyStore          { return pgCurrencies{p.q} }
func (p *PG) Categories() CategoryStore          { return pgCategories{p.q} }
func (p *PG) Costs() CostStore                   { return pgCosts{p.q} }
func (p *PG) Incomes() IncomeStore               { return pgIncomes{p.q} }
func (p *PG) Exchanges() ExchangeStore           { return pgExchanges{p.q} }

// WithinTx runs fn against a transaction-bound Store. Any error rolls
// the transaction back; nested calls reuse the open transaction.
func (p *PG) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	if p.db == nil {
		// Already inside a transaction.
		return fn(p)
	}

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return errs.WrapDB(fmt.Errorf("begin tx: %w", err))
	}

	bound := &PG{q: tx}
	if err := fn(bound); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errs.WrapDB(fmt.Errorf("rollback after %w: %v", err, rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return errs.WrapDB(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

// getRow scans a single row into dest, mapping an empty result to
// NotFound and everything else to DatabaseError.
func getRow(ctx context.Context, q sqlx.ExtContext, dest any, what, query string, args ...any) error {
	if err := sqlx.GetContext(ctx, q, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errs.NewNotFound(what)
		}
		return errs.WrapDB(err)
	}
	return nil
}

// selectRows scans a multi-row result into dest.
func selectRows(ctx context.Context, q sqlx.ExtContext, dest any, query string, args ...any) error {
	if err := sqlx.SelectContext(ctx, q, dest, query, args...); err != nil {
		return errs.WrapDB(err)
	}
	return nil
}

// exec runs a statement and requires at least one affected row,
// reporting NotFound otherwise.
func exec(ctx context.Context, q sqlx.ExtContext, what, query string, args ...any) error {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return errs.WrapDB(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errs.WrapDB(err)
	}
	if n == 0 {
		return errs.NewNotFound(what)
	}
	return nil
}
