package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dkotenko/budgetbot/internal/bot"
	"github.com/dkotenko/budgetbot/internal/dates"
	"github.com/dkotenko/budgetbot/internal/errs"
	"github.com/dkotenko/budgetbot/internal/ledger"
	"github.com/dkotenko/budgetbot/internal/money"
)

func addCostStep(f *bot.Flow, ev bot.Event) error {
	f.Track(ev.MessageID)
	f.Session.SetNext(StepAddCostValue)
	return f.SendTracked("💵 Enter the value", restartKeyboard())
}

func addCostValueStep(f *bot.Flow, ev bot.Event) error {
	cents, err := money.Parse(ev.Text)
	if err != nil {
		f.Session.SetNext(StepAddCostValue)
		return err
	}
	f.Track(ev.MessageID)
	f.Session.Set(keyValue, cents)
	f.Session.SetNext(StepAddCostName)

	kb := restartKeyboard(rowsOf(f.User.Configuration.CostsSourceItems(), 2)...)
	return f.SendTracked("✍️ Enter the cost name", kb)
}

func addCostNameStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keyValue); err != nil {
		return err
	}
	name := strings.TrimSpace(ev.Text)
	if name == "" {
		f.Session.SetNext(StepAddCostName)
		return errs.NewValidation("the name should not be empty")
	}
	f.Track(ev.MessageID)
	f.Session.Set(keyName, name)

	categories, err := f.Store.Categories().All(f.Ctx)
	if err != nil {
		return err
	}
	var buttons []bot.Button
	for _, c := range categories {
		buttons = append(buttons, bot.Button{
			Text: c.Name,
			Op:   opAddCostCategory,
			Arg:  strconv.FormatInt(c.ID, 10),
		})
	}
	return f.SendTracked("🔢 Choose the category", bot.InlineChunk(buttons, 2))
}

func addCostCategoryStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keyValue, keyName); err != nil {
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
	f.Session.Populate(map[string]any{
		keyCategoryID:   category.ID,
		keyCategoryName: category.Name,
	})
	return f.SendTracked("📅 Choose the date", dateKeyboard(opAddCostDate, f.User.Configuration.NumberOfDates))
}

func addCostDateStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keyValue, keyName, keyCategoryID); err != nil {
		return err
	}
	date, err := argDate(ev.Arg)
	if err != nil {
		return err
	}
	f.Session.Set(keyDate, date)

	summary := fmt.Sprintf("💸 %s\n🔢 %s\n📅 %s\n💵 %s\n\nAdd this cost?",
		f.Session.String(keyName),
		f.Session.String(keyCategoryName),
		date.Format(dates.LayoutFull),
		money.Format(f.Session.Int64(keyValue)),
	)
	return f.SendTracked(summary, confirmKeyboard(opAddCostConfirm))
}

func addCostConfirmStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keyValue, keyName, keyCategoryID, keyDate); err != nil {
		return err
	}
	if ev.Arg != argYes {
		f.Finish()
		_, err := f.Send("❌ Canceled", RootKeyboard())
		return err
	}

	draft := ledger.CostDraft{
		UserID:     f.User.ID,
		CategoryID: f.Session.Int64(keyCategoryID),
		CurrencyID: f.User.Configuration.DefaultCurrency,
		Name:       f.Session.String(keyName),
		Value:      f.Session.Int64(keyValue),
		Date:       f.Session.Time(keyDate),
	}
	var created ledger.Cost
	err := f.RunMutation(func(tx ledger.Store) error {
		cost, err := tx.Costs().Create(f.Ctx, draft)
		if err != nil {
			return err
		}
		if err := tx.Currencies().DecreaseEquity(f.Ctx, draft.CurrencyID, draft.Value); err != nil {
			return err
		}
		created = cost
		return nil
	})
	if err != nil {
		return err
	}

	f.Finish()
	text := fmt.Sprintf("✅ Cost added\n%s on %s", created.Render(), created.Date.Format(dates.LayoutFull))
	_, err = f.Send(text, RootKeyboard())
	return err
}
