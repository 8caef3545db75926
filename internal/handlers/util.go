package handlers

import (
	"strconv"
	"time"

	"github.com/dkotenko/budgetbot/internal/bot"
	"github.com/dkotenko/budgetbot/internal/dates"
	"github.com/dkotenko/budgetbot/internal/errs"
	"github.com/dkotenko/budgetbot/internal/ledger"
)

// Session bag keys shared between steps of a flow.
const (
	keyName           = "name"
	keyValue          = "value"
	keyCategoryID     = "category_id"
	keyCategoryName   = "category_name"
	keyDate           = "date"
	keySource         = "source"
	keyCurrencyID     = "currency_id"
	keySourceCurrency = "source_currency_id"
	keyDestCurrency   = "dest_currency_id"
	keySourceValue    = "source_value"
	keyDestValue      = "dest_value"
	keyCostID         = "cost_id"
	keyIncomeID       = "income_id"
	keyMonth          = "month"
	keyStart          = "start_date"
	keyEnd            = "end_date"
	keyLevel          = "level"
	keyScope          = "scope"
	keyConfigKey      = "config_key"
)

const (
	argYes = "yes"
	argNo  = "no"
)

// argID parses an identifier carried in callback data. A broken value
// means the button belongs to a message the flow no longer recognizes.
func argID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewStaleFlow("identifier")
	}
	return id, nil
}

func argDate(arg string) (time.Time, error) {
	t, err := time.Parse(dates.LayoutFull, arg)
	if err != nil {
		return time.Time{}, errs.NewStaleFlow("date")
	}
	return t, nil
}

func confirmKeyboard(op string) *bot.Keyboard {
	return bot.InlineKeyboard([]bot.Button{
		{Text: "✅ Confirm", Op: op, Arg: argYes},
		{Text: "❌ Cancel", Op: op, Arg: argNo},
	})
}

func dateKeyboard(op string, n int) *bot.Keyboard {
	var buttons []bot.Button
	for _, d := range dates.LastDates(now(), n) {
		buttons = append(buttons, bot.Button{Text: d, Op: op, Arg: d})
	}
	return bot.InlineChunk(buttons, 3)
}

func currencyKeyboard(op string, currencies []ledger.Currency) *bot.Keyboard {
	var buttons []bot.Button
	for _, c := range currencies {
		buttons = append(buttons, bot.Button{
			Text: c.Name + " " + c.Sign,
			Op:   op,
			Arg:  strconv.FormatInt(c.ID, 10),
		})
	}
	return bot.InlineChunk(buttons, 2)
}

// restartKeyboard builds a reply keyboard for free-text prompts: the
// given shortcut rows, if any, plus the restart button so a flow can be
// abandoned from anywhere.
func restartKeyboard(rows ...[]string) *bot.Keyboard {
	rows = append(rows, []string{LabelRestart})
	return bot.ReplyKeyboard(rows...)
}

// rowsOf splits labels into reply keyboard rows of the given width.
func rowsOf(items []string, width int) [][]string {
	var rows [][]string
	for len(items) > 0 {
		n := width
		if n > len(items) {
			n = len(items)
		}
		rows = append(rows, items[:n])
		items = items[n:]
	}
	return rows
}
