package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type pgCosts struct {
	q sqlx.ExtContext
}

const costSelect = `
SELECT c.id, c.user_id, c.category_id, c.currency_id, c.name, c.value,
       c.date, c.created_at,
       cat.name AS category_name, cur.sign AS currency_sign
FROM costs c
JOIN categories cat ON cat.id = c.category_id
JOIN currencies cur ON cur.id = c.currency_id`

func (r pgCosts) Get(ctx context.Context, id int64) (Cost, error) {
	var c Cost
	err := getRow(ctx, r.q, &c, "cost", costSelect+` WHERE c.id = $1`, id)
	return c, err
}

func (r pgCosts) Create(ctx context.Context, draft CostDraft) (Cost, error) {
	var id int64
	err := getRow(ctx, r.q, &id, "cost",
		`INSERT INTO costs (user_id, category_id, currency_id, name, value, date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		draft.UserID, draft.CategoryID, draft.CurrencyID,
		draft.Name, draft.Value, draft.Date)
	if err != nil {
		return Cost{}, err
	}
	return r.Get(ctx, id)
}

func (r pgCosts) Delete(ctx context.Context, id int64) error {
	return exec(ctx, r.q, "cost", `DELETE FROM costs WHERE id = $1`, id)
}

func (r pgCosts) InDateRange(ctx context.Context, start, end time.Time, f RangeFilter) ([]Cost, error) {
	query := costSelect + ` WHERE c.date >= $1 AND c.date <= $2`
	args := []any{start, end}
	if f.UserID != 0 {
		args = append(args, f.UserID)
		query += fmt.Sprintf(` AND c.user_id = $%d`, len(args))
	}
	if f.CategoryID != 0 {
		args = append(args, f.CategoryID)
		query += fmt.Sprintf(` AND c.category_id = $%d`, len(args))
	}
	query += ` ORDER BY c.date, c.id`

	var out []Cost
	err := selectRows(ctx, r.q, &out, query, args...)
	return out, err
}

func (r pgCosts) InMonth(ctx context.Context, month time.Time, f RangeFilter) ([]Cost, error) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return r.InDateRange(ctx, start, end, f)
}

func (r pgCosts) FirstDate(ctx context.Context, userID int64) (time.Time, error) {
	var d time.Time
	err := getRow(ctx, r.q, &d, "cost",
		`SELECT date FROM costs WHERE user_id = $1 ORDER BY date ASC LIMIT 1`, userID)
	return d, err
}

func (r pgCosts) LastDate(ctx context.Context, userID int64) (time.Time, error) {
	var d time.Time
	err := getRow(ctx, r.q, &d, "cost",
		`SELECT date FROM costs WHERE user_id = $1 ORDER BY date DESC LIMIT 1`, userID)
	return d, err
}
