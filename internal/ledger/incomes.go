package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type pgIncomes struct {
	q sqlx.ExtContext
}

const incomeSelect = `
SELECT i.id, i.user_id, i.currency_id, i.name, i.value, i.source,
       i.date, i.created_at,
       cur.sign AS currency_sign
FROM incomes i
JOIN currencies cur ON cur.id = i.currency_id`

func (r pgIncomes) Get(ctx context.Context, id int64) (Income, error) {
	var inc Income
	err := getRow(ctx, r.q, &inc, "income", incomeSelect+` WHERE i.id = $1`, id)
	return inc, err
}

func (r pgIncomes) Create(ctx context.Context, draft IncomeDraft) (Income, error) {
	var id int64
	err := getRow(ctx, r.q, &id, "income",
		`INSERT INTO incomes (user_id, currency_id, name, value, source, date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		draft.UserID, draft.CurrencyID, draft.Name,
		draft.Value, draft.Source, draft.Date)
	if err != nil {
		return Income{}, err
	}
	return r.Get(ctx, id)
}

func (r pgIncomes) Delete(ctx context.Context, id int64) error {
	return exec(ctx, r.q, "income", `DELETE FROM incomes WHERE id = $1`, id)
}

func (r pgIncomes) InDateRange(ctx context.Context, start, end time.Time, f RangeFilter) ([]Income, error) {
	query := incomeSelect + ` WHERE i.date >= $1 AND i.date <= $2`
	args := []any{start, end}
	if f.UserID != 0 {
		args = append(args, f.UserID)
		query += fmt.Sprintf(` AND i.user_id = $%d`, len(args))
	}
	query += ` ORDER BY i.date, i.id`

	var out []Income
	err := selectRows(ctx, r.q, &out, query, args...)
	return out, err
}

func (r pgIncomes) InMonth(ctx context.Context, userID int64, month time.Time) ([]Income, error) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return r.InDateRange(ctx, start, end, RangeFilter{UserID: userID})
}

func (r pgIncomes) FirstDate(ctx context.Context, userID int64) (time.Time, error) {
	var d time.Time
	err := getRow(ctx, r.q, &d, "income",
		`SELECT date FROM incomes WHERE user_id = $1 ORDER BY date ASC LIMIT 1`, userID)
	return d, err
}

func (r pgIncomes) LastDate(ctx context.Context, userID int64) (time.Time, error) {
	var d time.Time
	err := getRow(ctx, r.q, &d, "income",
		`SELECT date FROM incomes WHERE user_id = $1 ORDER BY date DESC LIMIT 1`, userID)
	return d, err
}
