package handlers

import (
	"fmt"
	"strings"

	"github.com/dkotenko/budgetbot/internal/bot"
	"github.com/dkotenko/budgetbot/internal/dates"
	"github.com/dkotenko/budgetbot/internal/errs"
	"github.com/dkotenko/budgetbot/internal/ledger"
	"github.com/dkotenko/budgetbot/internal/money"
)

func incomesStep(f *bot.Flow, ev bot.Event) error {
	f.Track(ev.MessageID)
	kb := bot.InlineKeyboard([]bot.Button{
		{Text: "➕ Add income", Op: opIncomeAdd},
		{Text: "➖ Delete income", Op: opIncomeDelete},
	})
	return f.SendTracked("📈 Incomes: choose the operation", kb)
}

func addIncomeStep(f *bot.Flow, _ bot.Event) error {
	f.Session.SetNext(StepAddIncomeValue)
	return f.SendTracked("💵 Enter the value", restartKeyboard())
}

func addIncomeValueStep(f *bot.Flow, ev bot.Event) error {
	cents, err := money.Parse(ev.Text)
	if err != nil {
		f.Session.SetNext(StepAddIncomeValue)
		return err
	}
	f.Track(ev.MessageID)
	f.Session.Set(keyValue, cents)

	currencies, err := f.Store.Currencies().All(f.Ctx)
	if err != nil {
		return err
	}
	return f.SendTracked("💱 Choose the currency", currencyKeyboard(opAddIncomeCurrency, currencies))
}

func addIncomeCurrencyStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keyValue); err != nil {
		return err
	}
	id, err := argID(ev.Arg)
	if err != nil {
		return err
	}
	currency, err := f.Store.Currencies().Get(f.Ctx, id)
	if err != nil {
		return err
	}
	f.Session.Set(keyCurrencyID, currency.ID)
	f.Session.SetNext(StepAddIncomeName)

	kb := restartKeyboard(rowsOf(f.User.Configuration.IncomesSourceItems(), 2)...)
	return f.SendTracked("✍️ Enter the income name", kb)
}

func addIncomeNameStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keyValue, keyCurrencyID); err != nil {
		return err
	}
	name := strings.TrimSpace(ev.Text)
	if name == "" {
		f.Session.SetNext(StepAddIncomeName)
		return errs.NewValidation("the name should not be empty")
	}
	f.Track(ev.MessageID)
	f.Session.Set(keyName, name)

	var buttons []bot.Button
	for _, s := range ledger.Sources() {
		buttons = append(buttons, bot.Button{
			Text: string(s),
			Op:   opAddIncomeSource,
			Arg:  string(s),
		})
	}
	return f.SendTracked("🚌 Choose the source", bot.InlineChunk(buttons, 2))
}

func addIncomeSourceStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keyValue, keyCurrencyID, keyName); err != nil {
		return err
	}
	source := ledger.Source(ev.Arg)
	known := false
	for _, s := range ledger.Sources() {
		if s == source {
			known = true
			break
		}
	}
	if !known {
		return errs.NewStaleFlow("source")
	}
	f.Session.Set(keySource, string(source))
	return f.SendTracked("📅 Choose the date", dateKeyboard(opAddIncomeDate, f.User.Configuration.NumberOfDates))
}

func addIncomeDateStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keyValue, keyCurrencyID, keyName, keySource); err != nil {
		return err
	}
	date, err := argDate(ev.Arg)
	if err != nil {
		return err
	}
	f.Session.Set(keyDate, date)

	summary := fmt.Sprintf("📈 %s\n🚌 %s\n📅 %s\n💵 %s\n\nAdd this income?",
		f.Session.String(keyName),
		f.Session.String(keySource),
		date.Format(dates.LayoutFull),
		money.Format(f.Session.Int64(keyValue)),
	)
	return f.SendTracked(summary, confirmKeyboard(opAddIncomeConfirm))
}

func addIncomeConfirmStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keyValue, keyCurrencyID, keyName, keySource, keyDate); err != nil {
		return err
	}
	if ev.Arg != argYes {
		f.Finish()
		_, err := f.Send("❌ Canceled", RootKeyboard())
		return err
	}

	draft := ledger.IncomeDraft{
		UserID:     f.User.ID,
		CurrencyID: f.Session.Int64(keyCurrencyID),
		Name:       f.Session.String(keyName),
		Value:      f.Session.Int64(keyValue),
		Source:     ledger.Source(f.Session.String(keySource)),
		Date:       f.Session.Time(keyDate),
	}
	var created ledger.Income
	err := f.RunMutation(func(tx ledger.Store) error {
		income, err := tx.Incomes().Create(f.Ctx, draft)
		if err != nil {
			return err
		}
		if err := tx.Currencies().IncreaseEquity(f.Ctx, draft.CurrencyID, draft.Value); err != nil {
			return err
		}
		created = income
		return nil
	})
	if err != nil {
		return err
	}

	f.Finish()
	text := fmt.Sprintf("✅ Income added\n%s on %s", created.Render(), created.Date.Format(dates.LayoutFull))
	_, err = f.Send(text, RootKeyboard())
	return err
}
