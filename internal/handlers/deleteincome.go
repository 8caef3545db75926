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

func deleteIncomeStep(f *bot.Flow, ev bot.Event) error {
	f.Track(ev.MessageID)
	kb, err := monthKeyboard(f, opDeleteIncomeMonth,
		func() (time.Time, error) { return f.Store.Incomes().FirstDate(f.Ctx, f.User.ID) },
		func() (time.Time, error) { return f.Store.Incomes().LastDate(f.Ctx, f.User.ID) },
	)
	if err != nil {
		var nf *errs.NotFound
		if errors.As(err, &nf) {
			return errs.NewUser("❌ Incomes not found")
		}
		return err
	}
	return f.SendTracked("📅 Choose the month", kb)
}

func deleteIncomeMonthStep(f *bot.Flow, ev bot.Event) error {
	month, err := time.Parse(dates.LayoutMonthly, ev.Arg)
	if err != nil {
		return errs.NewStaleFlow("month")
	}
	incomes, err := f.Store.Incomes().InMonth(f.Ctx, f.User.ID, month)
	if err != nil {
		return err
	}
	if len(incomes) == 0 {
		return errs.NewUser("😢 There are no incomes in %s", ev.Arg)
	}
	var buttons []bot.Button
	for _, in := range incomes {
		buttons = append(buttons, bot.Button{
			Text: fmt.Sprintf("%s %s", in.Date.Format(dates.LayoutFull), in.Render()),
			Op:   opDeleteIncomePick,
			Arg:  strconv.FormatInt(in.ID, 10),
		})
	}
	return f.SendTracked("🗑 Choose the income to delete", bot.InlineChunk(buttons, 1))
}

func deleteIncomePickStep(f *bot.Flow, ev bot.Event) error {
	id, err := argID(ev.Arg)
	if err != nil {
		return err
	}
	income, err := f.Store.Incomes().Get(f.Ctx, id)
	if err != nil {
		var nf *errs.NotFound
		if errors.As(err, &nf) {
			return errs.NewUser("⚠️ This income no longer exists")
		}
		return err
	}
	f.Session.Set(keyIncomeID, income.ID)
	text := fmt.Sprintf("Delete this income?\n%s on %s", income.Render(), income.Date.Format(dates.LayoutFull))
	return f.SendTracked(text, confirmKeyboard(opDeleteIncomeConfirm))
}

func deleteIncomeConfirmStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keyIncomeID); err != nil {
		return err
	}
	if ev.Arg != argYes {
		f.Finish()
		_, err := f.Send("❌ Canceled", RootKeyboard())
		return err
	}

	id := f.Session.Int64(keyIncomeID)
	err := f.RunMutation(func(tx ledger.Store) error {
		income, err := tx.Incomes().Get(f.Ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Incomes().Delete(f.Ctx, income.ID); err != nil {
			return err
		}
		return tx.Currencies().DecreaseEquity(f.Ctx, income.CurrencyID, income.Value)
	})
	if err != nil {
		var nf *errs.NotFound
		if errors.As(err, &nf) {
			return errs.NewUser("⚠️ This income no longer exists")
		}
		return err
	}

	f.Finish()
	_, err = f.Send("✅ Income deleted", RootKeyboard())
	return err
}
