package ledger

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type pgCategories struct {
	q sqlx.ExtContext
}

func (r pgCategories) Get(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := getRow(ctx, r.q, &c, "category",
		`SELECT id, name FROM categories WHERE id = $1`, id)
	return c, err
}

func (r pgCategories) All(ctx context.Context) ([]Category, error) {
	var out []Category
	err := selectRows(ctx, r.q, &out,
		`SELECT id, name FROM categories ORDER BY id`)
	return out, err
}
