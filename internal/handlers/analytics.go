package handlers

import (
	"strconv"
	"time"

	"github.com/dkotenko/budgetbot/internal/bot"
	"github.com/dkotenko/budgetbot/internal/dates"
	"github.com/dkotenko/budgetbot/internal/errs"
	"github.com/dkotenko/budgetbot/internal/ledger"
	"github.com/dkotenko/budgetbot/internal/report"
)

// Ranges longer than this are reported in basic form only, the detailed
// listing would not fit a readable number of messages.
const detailedRangeLimit = 31 * 24 * time.Hour

const (
	argPrevMonth = "prev"
	argThisMonth = "this"
	argPattern   = "pattern"

	argBasic    = "basic"
	argDetailed = "detailed"

	argMine          = "mine"
	argEveryone      = "all"
	argIncomesOnly   = "incomes"
	argExchangesOnly = "exchanges"
	argByCategory    = "category"
)

func analyticsStep(f *bot.Flow, ev bot.Event) error {
	f.Track(ev.MessageID)
	kb := bot.InlineKeyboard(
		[]bot.Button{
			{Text: "📅 Previous month", Op: opAnalyticsChoice, Arg: argPrevMonth},
			{Text: "📅 This month", Op: opAnalyticsChoice, Arg: argThisMonth},
		},
		[]bot.Button{
			{Text: "✍️ Custom range", Op: opAnalyticsChoice, Arg: argPattern},
		},
	)
	return f.SendTracked("📊 Choose the dates range", kb)
}

func analyticsChoiceStep(f *bot.Flow, ev bot.Event) error {
	switch ev.Arg {
	case argPrevMonth:
		start, end := dates.PreviousMonth(now())
		return offerLevels(f, start, end)
	case argThisMonth:
		start, end := dates.ThisMonth(now())
		return offerLevels(f, start, end)
	case argPattern:
		f.Session.SetNext(StepAnalyticsPattern)
		return f.SendTracked("✍️ Enter the dates range", nil)
	default:
		return errs.NewStaleFlow("range choice")
	}
}

func analyticsPatternStep(f *bot.Flow, ev bot.Event) error {
	start, end, err := report.ParseRange(ev.Text)
	if err != nil {
		f.Session.SetNext(StepAnalyticsPattern)
		return err
	}
	f.Track(ev.MessageID)
	return offerLevels(f, start, end)
}

// offerLevels stores the resolved range and asks for the detail level.
// Long ranges skip the question, only the basic report stays readable.
func offerLevels(f *bot.Flow, start, end time.Time) error {
	f.Session.Populate(map[string]any{keyStart: start, keyEnd: end})
	if end.Sub(start) > detailedRangeLimit {
		f.Session.Set(keyLevel, argBasic)
		return offerScopes(f)
	}
	kb := bot.InlineKeyboard([]bot.Button{
		{Text: "📋 Basic", Op: opAnalyticsLevel, Arg: argBasic},
		{Text: "🧾 Detailed", Op: opAnalyticsLevel, Arg: argDetailed},
	})
	return f.SendTracked("Choose the level of detail", kb)
}

func analyticsLevelStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keyStart, keyEnd); err != nil {
		return err
	}
	switch ev.Arg {
	case argBasic, argDetailed:
		f.Session.Set(keyLevel, ev.Arg)
		return offerScopes(f)
	default:
		return errs.NewStaleFlow("level choice")
	}
}

func offerScopes(f *bot.Flow) error {
	rows := [][]bot.Button{{
		{Text: "👤 Mine", Op: opAnalyticsScope, Arg: argMine},
		{Text: "👥 Everyone", Op: opAnalyticsScope, Arg: argEveryone},
	}}
	if f.Session.String(keyLevel) == argDetailed {
		rows = append(rows,
			[]bot.Button{
				{Text: "📈 Incomes only", Op: opAnalyticsScope, Arg: argIncomesOnly},
				{Text: "💱 Exchanges only", Op: opAnalyticsScope, Arg: argExchangesOnly},
			},
			[]bot.Button{
				{Text: "🔢 One category", Op: opAnalyticsScope, Arg: argByCategory},
			},
		)
	}
	return f.SendTracked("Choose the scope", bot.InlineKeyboard(rows...))
}

func analyticsScopeStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keyStart, keyEnd, keyLevel); err != nil {
		return err
	}
	detailed := f.Session.String(keyLevel) == argDetailed
	switch ev.Arg {
	case argMine, argEveryone:
		f.Session.Set(keyScope, ev.Arg)
		return runReport(f)
	case argIncomesOnly, argExchangesOnly:
		if !detailed {
			return errs.NewStaleFlow("scope choice")
		}
		f.Session.Set(keyScope, ev.Arg)
		return runReport(f)
	case argByCategory:
		if !detailed {
			return errs.NewStaleFlow("scope choice")
		}
		f.Session.Set(keyScope, ev.Arg)
		categories, err := f.Store.Categories().All(f.Ctx)
		if err != nil {
			return err
		}
		var buttons []bot.Button
		for _, c := range categories {
			buttons = append(buttons, bot.Button{
				Text: c.Name,
				Op:   opAnalyticsCategory,
				Arg:  strconv.FormatInt(c.ID, 10),
			})
		}
		return f.SendTracked("🔢 Choose the category", bot.InlineChunk(buttons, 2))
	default:
		return errs.NewStaleFlow("scope choice")
	}
}

func analyticsCategoryStep(f *bot.Flow, ev bot.Event) error {
	if err := f.Session.Require(keyStart, keyEnd, keyLevel, keyScope); err != nil {
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
	f.Session.Set(keyCategoryID, category.ID)
	return runReport(f)
}

func gather(f *bot.Flow, start, end time.Time, scope string) (report.Result, error) {
	filter := ledger.RangeFilter{UserID: f.User.ID}
	if scope == argEveryone {
		filter.UserID = 0
	}
	result := report.Result{Ignored: f.User.Configuration.IgnoredCategoryItems()}

	if scope != argExchangesOnly && scope != argIncomesOnly {
		costFilter := filter
		if scope == argByCategory {
			costFilter.CategoryID = f.Session.Int64(keyCategoryID)
		}
		costs, err := f.Store.Costs().InDateRange(f.Ctx, start, end, costFilter)
		if err != nil {
			return report.Result{}, err
		}
		result.Costs = costs
	}
	if scope != argExchangesOnly && scope != argByCategory {
		incomes, err := f.Store.Incomes().InDateRange(f.Ctx, start, end, filter)
		if err != nil {
			return report.Result{}, err
		}
		result.Incomes = incomes
	}
	if scope != argIncomesOnly && scope != argByCategory {
		exchanges, err := f.Store.Exchanges().InDateRange(f.Ctx, start, end, filter)
		if err != nil {
			return report.Result{}, err
		}
		result.Exchanges = exchanges
	}
	return result, nil
}

func runReport(f *bot.Flow) error {
	if err := f.Session.Require(keyStart, keyEnd, keyLevel, keyScope); err != nil {
		return err
	}
	detailed := f.Session.String(keyLevel) == argDetailed
	scope := f.Session.String(keyScope)

	result, err := gather(f, f.Session.Time(keyStart), f.Session.Time(keyEnd), scope)
	if err != nil {
		return err
	}
	if result.Empty() {
		return errs.NewUser("😢 There are no records in the chosen range")
	}
	var frames []string
	if detailed {
		frames = result.DetailedFrames(dates.LayoutFull, f.MaxMessageLen)
	} else {
		currencies, err := f.Store.Currencies().All(f.Ctx)
		if err != nil {
			return err
		}
		frames = result.BasicFrames(currencies)
	}
	f.Finish()
	for i, frame := range frames {
		var kb *bot.Keyboard
		if i == len(frames)-1 {
			kb = RootKeyboard()
		}
		if _, err := f.Send(frame, kb); err != nil {
			return err
		}
	}
	return nil
}
