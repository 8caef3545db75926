package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dkotenko/budgetbot/internal/bot"
	"github.com/dkotenko/budgetbot/internal/dates"
	"github.com/dkotenko/budgetbot/internal/errs"
	"github.com/dkotenko/budgetbot/internal/ledger"
)

// monthKeyboard lists the months that hold at least one record, newest
// first, bounded by the user's number_of_dates setting.
func monthKeyboard(f *bot.Flow, op string, firstDate, lastDate func() (time.Time, error)) (*bot.Keyboard, error) {
	first, err := firstDate()
	if err != nil {
		return nil, err
	}
	last, err := lastDate()
	if err != nil {
		return nil, err
	}
	months := dates.MonthsBetween(first, last, f.User.Configuration.NumberOfDates)
	var buttons []bot.Button
	for _, m := range months {
		buttons = append(buttons, bot.Button{Text: m, Op: op, Arg: m})
	}
	return bot.InlineChunk(buttons, 3), nil
}

func deleteCostStep(f *bot.Flow, ev bot.Event) error {
	f.Track(ev.MessageID)
	kb, err := monthKeyboard(f, opDeleteCostMonth,
		func() (time.Time, error) { return f.Store.Costs().FirstDate(f.Ctx, f.User.ID) },
		func() (time.Time, error) { return f.Store.Costs().LastDate(f.Ctx, f.User.ID) },
	)
	if err != nil {
		var nf *errs.NotFound
		if errors.As(err, &nf) {
			return errs.NewUser("❌ Costs not found")
		}
		return err
	}
	return f.SendTracked("📅 Choose the month", kb)
}

func deleteCostMonthStep(f *bot.Flow, ev bot.Event) error {
	month, err := time.Parse(dates.LayoutMonthly, ev.Arg)
	if err != nil {
		return errs.NewStaleFlow("month")
	}
	f.Session.Set(keyMonth, month)

	categories, err := f.Store.Categories().All(f.Ctx)
	if err != nil {
		return err
	}
	var buttons []bot.Button
	for _, c := range categories {
		buttons = append(buttons, bot.Button{
			Text: c.Name,
			Op:   opDeleteCostCategory,
			Arg:  strconv.FormatInt(c.ID, 10),
		})
	}
	return f.SendTracked("🔢 Choose the category", bot.InlineChunk(buttons, 2))
}

func deleteCostCategoryStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keyMonth); err != nil {
		return err
	}
	id, err := argID(ev.Arg)
	if err != nil {
		return err
	}
	category, err := f.Store.Categories().Get(f.Ctx, id)
	if err != nil {
		return err
	}

	month := f.Session.Time(keyMonth)
	costs, err := f.Store.Costs().InMonth(f.Ctx, month, ledger.RangeFilter{
		UserID:     f.User.ID,
		CategoryID: category.ID,
	})
	if err != nil {
		return err
	}
	if len(costs) == 0 {
		return errs.NewUser("😢 There are no %s costs in %s", category.Name, month.Format(dates.LayoutMonthly))
	}
	var buttons []bot.Button
	for _, c := range costs {
		buttons = append(buttons, bot.Button{
			Text: fmt.Sprintf("%s %s", c.Date.Format(dates.LayoutFull), c.Render()),
			Op:   opDeleteCostPick,
			Arg:  strconv.FormatInt(c.ID, 10),
		})
	}
	return f.SendTracked("🗑 Choose the cost to delete", bot.InlineChunk(buttons, 1))
}

func deleteCostPickStep(f *bot.Flow, ev bot.Event) error {
	id, err := argID(ev.Arg)
	if err != nil {
		return err
	}
	cost, err := f.Store.Costs().Get(f.Ctx, id)
	if err != nil {
		var nf *errs.NotFound
		if errors.As(err, &nf) {
			return errs.NewUser("⚠️ This cost no longer exists")
		}
		return err
	}
	f.Session.Set(keyCostID, cost.ID)
	text := fmt.Sprintf("Delete this cost?\n%s on %s", cost.Render(), cost.Date.Format(dates.LayoutFull))
	return f.SendTracked(text, confirmKeyboard(opDeleteCostConfirm))
}

func deleteCostConfirmStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keyCostID); err != nil {
		return err
	}
	if ev.Arg != argYes {
		f.Finish()
		_, err := f.Send("❌ Canceled", RootKeyboard())
		return err
	}

	id := f.Session.Int64(keyCostID)
	err := f.RunMutation(func(tx ledger.Store) error {
		cost, err := tx.Costs().Get(f.Ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Costs().Delete(f.Ctx, cost.ID); err != nil {
			return err
		}
		return tx.Currencies().IncreaseEquity(f.Ctx, cost.CurrencyID, cost.Value)
	})
	if err != nil {
		var nf *errs.NotFound
		if errors.As(err, &nf) {
			return errs.NewUser("⚠️ This cost no longer exists")
		}
		return err
	}

	f.Finish()
	_, err = f.Send("✅ Cost deleted", RootKeyboard())
	return err
}
