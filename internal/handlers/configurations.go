package handlers

import (
	"strconv"
	"strings"

	"github.com/dkotenko/budgetbot/internal/bot"
	"github.com/dkotenko/budgetbot/internal/errs"
	"github.com/dkotenko/budgetbot/internal/ledger"
)

// Editable configuration keys.
const (
	cfgNumberOfDates    = "number_of_dates"
	cfgCostsSources     = "costs_sources"
	cfgIncomesSources   = "incomes_sources"
	cfgIgnoreCategories = "ignore_categories"
	cfgDefaultCurrency  = "default_currency"
)

func configKeys() []string {
	return []string{
		cfgNumberOfDates,
		cfgCostsSources,
		cfgIncomesSources,
		cfgIgnoreCategories,
		cfgDefaultCurrency,
	}
}

func configStep(f *bot.Flow, ev bot.Event) error {
	f.Track(ev.MessageID)
	var buttons []bot.Button
	for _, key := range configKeys() {
		buttons = append(buttons, bot.Button{Text: "✏️ " + key, Op: opConfigEdit, Arg: key})
	}
	text := "⚙️ Configurations\n\n" + f.User.Configuration.Render()
	return f.SendTracked(text, bot.InlineChunk(buttons, 1))
}

func configEditStep(f *bot.Flow, ev bot.Event) error {
	key := ev.Arg
	known := false
	for _, k := range configKeys() {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return errs.NewStaleFlow("configuration key")
	}

	if key == cfgDefaultCurrency {
		currencies, err := f.Store.Currencies().All(f.Ctx)
		if err != nil {
			return err
		}
		return f.SendTracked("💱 Choose the default currency", currencyKeyboard(opConfigCurrency, currencies))
	}

	f.Session.Set(keyConfigKey, key)
	f.Session.SetNext(StepConfigValue)
	return f.SendTracked("✍️ Enter the new value for "+key, nil)
}

func configValueStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keyConfigKey); err != nil {
		return err
	}
	key := f.Session.String(keyConfigKey)
	value := strings.TrimSpace(ev.Text)

	var numberOfDates int
	if key == cfgNumberOfDates {
		n, convErr := strconv.Atoi(value)
		if convErr != nil || n < 1 || n > 31 {
			f.Session.SetNext(StepConfigValue)
			return errs.NewValidation("%s should be a number between 1 and 31", key)
		}
		numberOfDates = n
	}
	f.Track(ev.MessageID)

	err := f.RunMutation(func(tx ledger.Store) error {
		cfgs := tx.Configurations()
		switch key {
		case cfgNumberOfDates:
			return cfgs.SetNumberOfDates(f.Ctx, f.User.ID, numberOfDates)
		case cfgCostsSources:
			return cfgs.SetCostsSources(f.Ctx, f.User.ID, value)
		case cfgIncomesSources:
			return cfgs.SetIncomesSources(f.Ctx, f.User.ID, value)
		case cfgIgnoreCategories:
			return cfgs.SetIgnoreCategories(f.Ctx, f.User.ID, value)
		default:
			return errs.NewStaleFlow("configuration key")
		}
	})
	if err != nil {
		return err
	}

	return showUpdatedConfig(f)
}

func configCurrencyStep(f *bot.Flow, ev bot.Event) error {
	id, err := argID(ev.Arg)
	if err != nil {
		return err
	}
	currency, err := f.Store.Currencies().Get(f.Ctx, id)
	if err != nil {
		return err
	}
	err = f.RunMutation(func(tx ledger.Store) error {
		return tx.Configurations().SetDefaultCurrency(f.Ctx, f.User.ID, currency.ID)
	})
	if err != nil {
		return err
	}
	return showUpdatedConfig(f)
}

func showUpdatedConfig(f *bot.Flow) error {
	cfg, err := f.Store.Configurations().Get(f.Ctx, f.User.ID)
	if err != nil {
		return err
	}
	f.Finish()
	_, err = f.Send("✅ Configuration updated\n\n"+cfg.Render(), RootKeyboard())
	return err
}
