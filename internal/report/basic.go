package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dkotenko/budgetbot/internal/ledger"
	"github.com/dkotenko/budgetbot/internal/money"
)

// BasicFrames renders one totals frame per currency: costs grouped by
// category with their share of real costs, debt and gift inflows,
// exchange movements and the overall cost-to-revenue ratios.
func (r Result) BasicFrames(currencies []ledger.Currency) []string {
	frames := make([]string, 0, len(currencies))
	for _, cur := range currencies {
		frames = append(frames, r.basicFrame(cur))
	}
	return frames
}

func (r Result) basicFrame(cur ledger.Currency) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Analytics for %s %s %s\n", cur.Sign, cur.Name, cur.Sign)

	var costs []ledger.Cost
	for _, c := range r.Costs {
		if c.CurrencyID == cur.ID {
			costs = append(costs, c)
		}
	}
	var incomes []ledger.Income
	for _, i := range r.Incomes {
		if i.CurrencyID == cur.ID {
			incomes = append(incomes, i)
		}
	}

	var costsTotal, realCostsTotal int64
	for _, c := range costs {
		costsTotal += c.Value
		if !r.ignored(c.CategoryName) {
			realCostsTotal += c.Value
		}
	}

	if len(costs) > 0 {
		b.WriteString("\n🔥 Costs\n")
		for _, g := range costCategoryTotals(costs) {
			fmt.Fprintf(&b, "\n%s 👉 %s", g.name, money.Format(g.total))
			if !r.ignored(g.name) {
				fmt.Fprintf(&b, " (%.2f%%)", percent(g.total, realCostsTotal))
			}
		}
	}

	var debtsTotal, giftsTotal int64
	for _, i := range incomes {
		switch i.Source {
		case ledger.SourceDebt:
			debtsTotal += i.Value
		case ledger.SourceGift:
			giftsTotal += i.Value
		}
	}
	if debtsTotal > 0 || giftsTotal > 0 {
		b.WriteString("\n\n🚌 OTHER INCOMES:\n")
		if debtsTotal > 0 {
			fmt.Fprintf(&b, "\n🪙 Debts 👉 %s", money.Format(debtsTotal))
		}
		if giftsTotal > 0 {
			fmt.Fprintf(&b, "\n🎁 Gifts 👉 %s", money.Format(giftsTotal))
		}
	}

	var exchangedFrom, exchangedInto int64
	for _, ex := range r.Exchanges {
		if ex.SourceCurrencyID == cur.ID {
			exchangedFrom += ex.SourceValue
		}
		if ex.DestCurrencyID == cur.ID {
			exchangedInto += ex.DestValue
		}
	}
	if exchangedFrom > 0 || exchangedInto > 0 {
		b.WriteString("\n\n🚌 CURRENCY EXCHANGE:\n")
		if exchangedInto > 0 {
			fmt.Fprintf(&b, "\n💱 Converted into this currency 👉 %s", money.Format(exchangedInto))
		}
		if exchangedFrom > 0 {
			fmt.Fprintf(&b, "\n💱 Converted from this currency 👉 %s", money.Format(exchangedFrom))
		}
	}

	var incomesTotal, realRevenueTotal int64
	for _, i := range incomes {
		incomesTotal += i.Value
		if i.Source.Real() {
			realRevenueTotal += i.Value
		}
	}

	if len(costs) > 0 || len(incomes) > 0 || exchangedFrom > 0 || exchangedInto > 0 {
		b.WriteString("\n\n🚌 TOTALS:\n")
		if incomesTotal > 0 {
			fmt.Fprintf(&b, "\n💹 All incomes 👉 %s", money.Format(incomesTotal))
		}
		if costsTotal > 0 {
			fmt.Fprintf(&b, "\n🔥 All costs 👉 %s", money.Format(costsTotal))
		}
		if realRevenueTotal > 0 {
			fmt.Fprintf(&b, "\n💹 Real revenue 👉 %s", money.Format(realRevenueTotal))
		}
		if realCostsTotal > 0 {
			fmt.Fprintf(&b, "\n🔥 Real costs 👉 %s", money.Format(realCostsTotal))
		}
	}

	b.WriteString("\n\n🚌 RATIOS:\n")
	fmt.Fprintf(&b, "\nReal costs to real revenue 👉 %.2f%%",
		percent(realCostsTotal, realRevenueTotal+exchangedInto-exchangedFrom))
	fmt.Fprintf(&b, "\nAll costs to all incomes 👉 %.2f%%",
		percent(costsTotal, incomesTotal+exchangedInto-exchangedFrom))

	return b.String()
}

type categoryTotal struct {
	name  string
	total int64
}

func costCategoryTotals(costs []ledger.Cost) []categoryTotal {
	byName := map[string]int64{}
	for _, c := range costs {
		byName[c.CategoryName] += c.Value
	}
	out := make([]categoryTotal, 0, len(byName))
	for name, total := range byName {
		out = append(out, categoryTotal{name: name, total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// percent divides value by base as a percentage, treating a zero or
// negative base as zero instead of failing.
func percent(value, base int64) float64 {
	if base <= 0 {
		return 0
	}
	return float64(value) / float64(base) * 100
}
