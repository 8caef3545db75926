package handlers

import (
	"github.com/dkotenko/budgetbot/internal/bot"
	"github.com/dkotenko/budgetbot/internal/ledger"
)

// RootKeyboard is the persistent reply keyboard with every flow entry.
func RootKeyboard() *bot.Keyboard {
	return bot.ReplyKeyboard(
		[]string{LabelDeleteCost, LabelAddCost},
		[]string{LabelAnalytics, LabelEquity},
		[]string{LabelIncomes, LabelExchange},
		[]string{LabelConfigurations, LabelRestart},
	)
}

func fallbackStep(f *bot.Flow, ev bot.Event) error {
	f.Track(ev.MessageID)
	_, err := f.Send("Please use the keyboard below 👇", RootKeyboard())
	return err
}

func restartStep(f *bot.Flow, ev bot.Event) error {
	f.Track(ev.MessageID)
	f.Finish()
	_, err := f.Send("🔄 The bot has been restarted", RootKeyboard())
	return err
}

func startStep(f *bot.Flow, _ bot.Event) error {
	if f.User.ID != 0 {
		_, err := f.Send("👋 You are already registered. Pick an action below", RootKeyboard())
		return err
	}
	err := f.RunMutation(func(tx ledger.Store) error {
		user, err := tx.Users().Create(f.Ctx, f.Session.UserID())
		if err != nil {
			return err
		}
		f.User = user
		return nil
	})
	if err != nil {
		return err
	}
	_, err = f.Send("👋 Hi! Track your costs, incomes and currency exchanges here.", RootKeyboard())
	return err
}

func equityStep(f *bot.Flow, ev bot.Event) error {
	f.Track(ev.MessageID)
	currencies, err := f.Store.Currencies().All(f.Ctx)
	if err != nil {
		return err
	}
	text := "💰 Equity\n"
	for _, c := range currencies {
		text += "\n" + c.Render()
	}
	_, err = f.Send(text, RootKeyboard())
	return err
}
