package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationItems(t *testing.T) {
	c := Configuration{
		CostsSources:     "coffee, taxi ,food",
		IncomesSources:   "",
		IgnoreCategories: " rent ",
	}
	assert.Equal(t, []string{"coffee", "taxi", "food"}, c.CostsSourceItems())
	assert.Nil(t, c.IncomesSourceItems())
	assert.Equal(t, []string{"rent"}, c.IgnoredCategoryItems())
}

func TestConfigurationRender(t *testing.T) {
	c := Configuration{
		NumberOfDates:   7,
		CostsSources:    "coffee",
		DefaultCurrency: 1,
	}
	got := c.Render()
	assert.Contains(t, got, "number_of_dates: 7")
	assert.Contains(t, got, "costs_sources: coffee")
	assert.Contains(t, got, "incomes_sources: -")
	assert.Contains(t, got, "default_currency: 1")
}

func TestSourceReal(t *testing.T) {
	assert.True(t, SourceRevenue.Real())
	assert.True(t, SourceOther.Real())
	assert.False(t, SourceGift.Real())
	assert.False(t, SourceDebt.Real())
}

func TestRenderLines(t *testing.T) {
	cost := Cost{Name: "coffee", Value: 250, CurrencySign: "$"}
	assert.Equal(t, "coffee: 2.50 $", cost.Render())

	inc := Income{Name: "salary", Value: 123456, CurrencySign: "€"}
	assert.Equal(t, "salary: 1 234.56 €", inc.Render())

	ex := Exchange{SourceValue: 10000, SourceSign: "$", DestValue: 9150, DestSign: "€"}
	assert.Equal(t, "100.00 $ -> 91.50 €", ex.Render())

	cur := Currency{Name: "USD", Sign: "$", Equity: -500}
	assert.Equal(t, "USD: -5.00 $", cur.Render())
}
