package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type pgExchanges struct {
	q sqlx.ExtContext
}

const exchangeSelect = `
SELECT e.id, e.user_id, e.source_currency_id, e.dest_currency_id,
       e.source_value, e.dest_value, e.date, e.created_at,
       src.sign AS source_sign, dst.sign AS dest_sign
FROM exchanges e
JOIN currencies src ON src.id = e.source_currency_id
JOIN currencies dst ON dst.id = e.dest_currency_id`

func (r pgExchanges) Get(ctx context.Context, id int64) (Exchange, error) {
	var ex Exchange
	err := getRow(ctx, r.q, &ex, "exchange", exchangeSelect+` WHERE e.id = $1`, id)
	return ex, err
}

func (r pgExchanges) Create(ctx context.Context, draft ExchangeDraft) (Exchange, error) {
	var id int64
	err := getRow(ctx, r.q, &id, "exchange",
		`INSERT INTO exchanges (user_id, source_currency_id, dest_currency_id,
		                        source_value, dest_value, date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		draft.UserID, draft.SourceCurrencyID, draft.DestCurrencyID,
		draft.SourceValue, draft.DestValue, draft.Date)
	if err != nil {
		return Exchange{}, err
	}
	return r.Get(ctx, id)
}

func (r pgExchanges) InDateRange(ctx context.Context, start, end time.Time, f RangeFilter) ([]Exchange, error) {
	query := exchangeSelect + ` WHERE e.date >= $1 AND e.date <= $2`
	args := []any{start, end}
	if f.UserID != 0 {
		args = append(args, f.UserID)
		query += fmt.Sprintf(` AND e.user_id = $%d`, len(args))
	}
	query += ` ORDER BY e.date, e.id`

	var out []Exchange
	err := selectRows(ctx, r.q, &out, query, args...)
	return out, err
}
