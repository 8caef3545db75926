package ledger

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type pgConfigurations struct {
	q sqlx.ExtContext
}

func (r pgConfigurations) Get(ctx context.Context, userID int64) (Configuration, error) {
	var c Configuration
	err := getRow(ctx, r.q, &c, "configuration",
		`SELECT user_id, number_of_dates, costs_sources, incomes_sources,
		        ignore_categories, default_currency
		 FROM configurations WHERE user_id = $1`, userID)
	return c, err
}

func (r pgConfigurations) SetNumberOfDates(ctx context.Context, userID int64, n int) error {
	return exec(ctx, r.q, "configuration",
		`UPDATE configurations SET number_of_dates = $2 WHERE user_id = $1`, userID, n)
}

func (r pgConfigurations) SetCostsSources(ctx context.Context, userID int64, items string) error {
	return exec(ctx, r.q, "configuration",
		`UPDATE configurations SET costs_sources = $2 WHERE user_id = $1`, userID, items)
}

func (r pgConfigurations) SetIncomesSources(ctx context.Context, userID int64, items string) error {
	return exec(ctx, r.q, "configuration",
		`UPDATE configurations SET incomes_sources = $2 WHERE user_id = $1`, userID, items)
}

func (r pgConfigurations) SetIgnoreCategories(ctx context.Context, userID int64, items string) error {
	return exec(ctx, r.q, "configuration",
		`UPDATE configurations SET ignore_categories = $2 WHERE user_id = $1`, userID, items)
}

func (r pgConfigurations) SetDefaultCurrency(ctx context.Context, userID int64, currencyID int64) error {
	return exec(ctx, r.q, "configuration",
		`UPDATE configurations SET default_currency = $2 WHERE user_id = $1`, userID, currencyID)
}
