package handlers

import (
	"fmt"

	"github.com/dkotenko/budgetbot/internal/bot"
	"github.com/dkotenko/budgetbot/internal/dates"
	"github.com/dkotenko/budgetbot/internal/ledger"
	"github.com/dkotenko/budgetbot/internal/money"
)

func exchangeStep(f *bot.Flow, ev bot.Event) error {
	f.Track(ev.MessageID)
	currencies, err := f.Store.Currencies().All(f.Ctx)
	if err != nil {
		return err
	}
	return f.SendTracked("💱 Choose the source currency", currencyKeyboard(opExchangeSource, currencies))
}

func exchangeSourceStep(f *bot.Flow, ev bot.Event) error {
	id, err := argID(ev.Arg)
	if err != nil {
		return err
	}
	source, err := f.Store.Currencies().Get(f.Ctx, id)
	if err != nil {
		return err
	}
	f.Session.Set(keySourceCurrency, source.ID)
	f.Session.SetNext(StepExchangeSourceValue)
	return f.SendTracked("💵 Enter the source value", restartKeyboard())
}

func exchangeSourceValueStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keySourceCurrency); err != nil {
		return err
	}
	cents, err := money.Parse(ev.Text)
	if err != nil {
		f.Session.SetNext(StepExchangeSourceValue)
		return err
	}
	f.Track(ev.MessageID)
	f.Session.Set(keySourceValue, cents)

	rest, err := f.Store.Currencies().Exclude(f.Ctx, f.Session.Int64(keySourceCurrency))
	if err != nil {
		return err
	}
	return f.SendTracked("💱 Choose the destination currency", currencyKeyboard(opExchangeDest, rest))
}

func exchangeDestStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keySourceCurrency, keySourceValue); err != nil {
		return err
	}
	id, err := argID(ev.Arg)
	if err != nil {
		return err
	}
	dest, err := f.Store.Currencies().Get(f.Ctx, id)
	if err != nil {
		return err
	}
	f.Session.Set(keyDestCurrency, dest.ID)
	f.Session.SetNext(StepExchangeDestValue)
	return f.SendTracked("💵 Enter the destination value", nil)
}

func exchangeDestValueStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keySourceCurrency, keySourceValue, keyDestCurrency); err != nil {
		return err
	}
	cents, err := money.Parse(ev.Text)
	if err != nil {
		f.Session.SetNext(StepExchangeDestValue)
		return err
	}
	f.Track(ev.MessageID)
	f.Session.Set(keyDestValue, cents)
	return f.SendTracked("📅 Choose the date", dateKeyboard(opExchangeDate, f.User.Configuration.NumberOfDates))
}

func exchangeDateStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keySourceCurrency, keySourceValue, keyDestCurrency, keyDestValue); err != nil {
		return err
	}
	date, err := argDate(ev.Arg)
	if err != nil {
		return err
	}
	f.Session.Set(keyDate, date)

	summary := fmt.Sprintf("💱 %s -> %s\n📅 %s\n\nCommit this exchange?",
		money.Format(f.Session.Int64(keySourceValue)),
		money.Format(f.Session.Int64(keyDestValue)),
		date.Format(dates.LayoutFull),
	)
	return f.SendTracked(summary, confirmKeyboard(opExchangeConfirm))
}

func exchangeConfirmStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keySourceCurrency, keySourceValue, keyDestCurrency, keyDestValue, keyDate); err != nil {
		return err
	}
	if ev.Arg != argYes {
		f.Finish()
		_, err := f.Send("❌ Canceled", RootKeyboard())
		return err
	}

	draft := ledger.ExchangeDraft{
		UserID:           f.User.ID,
		SourceCurrencyID: f.Session.Int64(keySourceCurrency),
		DestCurrencyID:   f.Session.Int64(keyDestCurrency),
		SourceValue:      f.Session.Int64(keySourceValue),
		DestValue:        f.Session.Int64(keyDestValue),
		Date:             f.Session.Time(keyDate),
	}
	var created ledger.Exchange
	err := f.RunMutation(func(tx ledger.Store) error {
		exchange, err := tx.Exchanges().Create(f.Ctx, draft)
		if err != nil {
			return err
		}
		if err := tx.Currencies().DecreaseEquity(f.Ctx, draft.SourceCurrencyID, draft.SourceValue); err != nil {
			return err
		}
		if err := tx.Currencies().IncreaseEquity(f.Ctx, draft.DestCurrencyID, draft.DestValue); err != nil {
			return err
		}
		created = exchange
		return nil
	})
	if err != nil {
		return err
	}

	f.Finish()
	text := fmt.Sprintf("✅ Exchange committed\n%s on %s", created.Render(), created.Date.Format(dates.LayoutFull))
	_, err = f.Send(text, RootKeyboard())
	return err
}
