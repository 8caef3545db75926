package report

import (
	"fmt"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkotenko/budgetbot/internal/dates"
	"github.com/dkotenko/budgetbot/internal/ledger"
	"github.com/dkotenko/budgetbot/internal/money"
)

var titleCaser = cases.Title(language.English)

// Result aggregates the records of one analytics request. Ignored lists
// category names excluded from the real-costs totals.
type Result struct {
	Costs     []ledger.Cost
	Incomes   []ledger.Income
	Exchanges []ledger.Exchange
	Ignored   []string
}

func (r Result) ignored(category string) bool {
	for _, name := range r.Ignored {
		if name == category {
			return true
		}
	}
	return false
}

// Empty reports whether the range holds no records at all.
func (r Result) Empty() bool {
	return len(r.Costs) == 0 && len(r.Incomes) == 0 && len(r.Exchanges) == 0
}

// DetailedFrames renders every record grouped by category, income
// source and exchange order. Output is split into frames of at most
// limit runes, always breaking at record boundaries.
func (r Result) DetailedFrames(layout string, limit int) []string {
	if layout == "" {
		layout = dates.LayoutFull
	}
	var frames []string

	frames = appendGroupedFrames(frames, "🔥 Costs", limit,
		groupCosts(r.Costs), func(c ledger.Cost) string {
			return fmt.Sprintf("\n👉 %s  %s  %s%s",
				c.Date.Format(layout), c.Name, money.Format(c.Value), c.CurrencySign)
		})

	frames = appendGroupedFrames(frames, "💹 Incomes", limit,
		groupIncomes(r.Incomes), func(i ledger.Income) string {
			return fmt.Sprintf("\n👉 %s  %s  %s%s",
				i.Date.Format(layout), i.Name, money.Format(i.Value), i.CurrencySign)
		})

	title := "💱 Currency exchange\n"
	frame := title
	for _, ex := range r.Exchanges {
		line := fmt.Sprintf("\n👉 %s  %s%s  🔀  %s%s",
			ex.Date.Format(layout),
			money.Format(ex.SourceValue), ex.SourceSign,
			money.Format(ex.DestValue), ex.DestSign)
		if len(frame)+len(line) > limit {
			frames = append(frames, frame)
			frame = ""
		}
		frame += line
	}
	if frame != "" && frame != title {
		frames = append(frames, frame)
	}

	return frames
}

type group[T any] struct {
	title   string
	records []T
}

func groupCosts(costs []ledger.Cost) []group[ledger.Cost] {
	byName := map[string][]ledger.Cost{}
	for _, c := range costs {
		byName[c.CategoryName] = append(byName[c.CategoryName], c)
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]group[ledger.Cost], 0, len(names))
	for _, name := range names {
		out = append(out, group[ledger.Cost]{title: name, records: byName[name]})
	}
	return out
}

func groupIncomes(incomes []ledger.Income) []group[ledger.Income] {
	bySource := map[ledger.Source][]ledger.Income{}
	for _, i := range incomes {
		bySource[i.Source] = append(bySource[i.Source], i)
	}

	var out []group[ledger.Income]
	for _, source := range ledger.Sources() {
		records, ok := bySource[source]
		if !ok {
			continue
		}
		out = append(out, group[ledger.Income]{
			title:   titleCaser.String(string(source)) + "s",
			records: records,
		})
	}
	return out
}

func appendGroupedFrames[T any](frames []string, title string, limit int, groups []group[T], render func(T) string) []string {
	title += "\n"
	frame := title
	for _, g := range groups {
		frame += "\n\n" + g.title
		for _, rec := range g.records {
			line := render(rec)
			if len(frame)+len(line) > limit {
				frames = append(frames, frame)
				frame = ""
			}
			frame += line
		}
	}
	if frame != "" && frame != title {
		frames = append(frames, frame)
	}
	return frames
}
