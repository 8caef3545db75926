// Package handlers implements the conversational flows: adding and
// deleting financial records, currency exchange, analytics, equity and
// configuration management.
package handlers

import (
	"time"

	"github.com/dkotenko/budgetbot/internal/bot"
	"github.com/dkotenko/budgetbot/internal/ledger"
	"github.com/dkotenko/budgetbot/internal/session"
)

// now is replaceable in tests.
var now = time.Now

// Step tags. The flow name comes first, then the step within it.
const (
	StepStart    session.Step = "start"
	StepFallback session.Step = "menu:fallback"
	StepRestart  session.Step = "menu:restart"
	StepEquity   session.Step = "equity:show"

	StepAddCost         session.Step = "cost:add"
	StepAddCostName     session.Step = "cost:add:name"
	StepAddCostCategory session.Step = "cost:add:category"
	StepAddCostDate     session.Step = "cost:add:date"
	StepAddCostValue    session.Step = "cost:add:value"
	StepAddCostConfirm  session.Step = "cost:add:confirm"

	StepDeleteCost         session.Step = "cost:delete"
	StepDeleteCostMonth    session.Step = "cost:delete:month"
	StepDeleteCostCategory session.Step = "cost:delete:category"
	StepDeleteCostPick     session.Step = "cost:delete:pick"
	StepDeleteCostConfirm  session.Step = "cost:delete:confirm"

	StepIncomes           session.Step = "income:menu"
	StepAddIncome         session.Step = "income:add"
	StepAddIncomeName     session.Step = "income:add:name"
	StepAddIncomeSource   session.Step = "income:add:source"
	StepAddIncomeCurrency session.Step = "income:add:currency"
	StepAddIncomeDate     session.Step = "income:add:date"
	StepAddIncomeValue    session.Step = "income:add:value"
	StepAddIncomeConfirm  session.Step = "income:add:confirm"

	StepDeleteIncome        session.Step = "income:delete"
	StepDeleteIncomeMonth   session.Step = "income:delete:month"
	StepDeleteIncomePick    session.Step = "income:delete:pick"
	StepDeleteIncomeConfirm session.Step = "income:delete:confirm"

	StepExchange            session.Step = "exchange:start"
	StepExchangeSource      session.Step = "exchange:source"
	StepExchangeDest        session.Step = "exchange:dest"
	StepExchangeDate        session.Step = "exchange:date"
	StepExchangeSourceValue session.Step = "exchange:value:source"
	StepExchangeDestValue   session.Step = "exchange:value:dest"
	StepExchangeConfirm     session.Step = "exchange:confirm"

	StepAnalytics         session.Step = "analytics:menu"
	StepAnalyticsChoice   session.Step = "analytics:choice"
	StepAnalyticsPattern  session.Step = "analytics:pattern"
	StepAnalyticsLevel    session.Step = "analytics:level"
	StepAnalyticsScope    session.Step = "analytics:scope"
	StepAnalyticsCategory session.Step = "analytics:category"

	StepConfig         session.Step = "config:show"
	StepConfigEdit     session.Step = "config:edit"
	StepConfigValue    session.Step = "config:value"
	StepConfigCurrency session.Step = "config:currency"
)

// Callback operations. Short strings keep callback data small.
const (
	opAddCostCategory = "ac_cat"
	opAddCostDate     = "ac_date"
	opAddCostConfirm  = "ac_ok"

	opDeleteCostMonth    = "dc_month"
	opDeleteCostCategory = "dc_cat"
	opDeleteCostPick     = "dc_pick"
	opDeleteCostConfirm  = "dc_ok"

	opIncomeAdd    = "in_add"
	opIncomeDelete = "in_del"

	opAddIncomeSource   = "ai_src"
	opAddIncomeCurrency = "ai_cur"
	opAddIncomeDate     = "ai_date"
	opAddIncomeConfirm  = "ai_ok"

	opDeleteIncomeMonth   = "di_month"
	opDeleteIncomePick    = "di_pick"
	opDeleteIncomeConfirm = "di_ok"

	opExchangeSource  = "ex_src"
	opExchangeDest    = "ex_dst"
	opExchangeDate    = "ex_date"
	opExchangeConfirm = "ex_ok"

	opAnalyticsChoice   = "an_opt"
	opAnalyticsLevel    = "an_lvl"
	opAnalyticsScope    = "an_scope"
	opAnalyticsCategory = "an_cat"

	opConfigEdit     = "cfg_key"
	opConfigCurrency = "cfg_cur"
)

// Root menu labels.
const (
	LabelDeleteCost     = "❌ Delete cost"
	LabelAddCost        = "💸 Add cost"
	LabelAnalytics      = "📊 Analytics"
	LabelEquity         = "💰 Equity"
	LabelIncomes        = "📈 Incomes"
	LabelExchange       = "💱 Exchange"
	LabelConfigurations = "⚙️ Configurations"
	LabelRestart        = "🔄 Restart"
)

// NewConfig wires every flow into a dispatcher configuration.
func NewConfig(sessions *session.Store, store ledger.Store, gw bot.Gateway, maxMessageLen int) bot.Config {
	steps := bot.Steps{
		StepStart:    startStep,
		StepFallback: fallbackStep,
		StepRestart:  restartStep,
		StepEquity:   equityStep,

		StepAddCost:         addCostStep,
		StepAddCostName:     addCostNameStep,
		StepAddCostCategory: addCostCategoryStep,
		StepAddCostDate:     addCostDateStep,
		StepAddCostValue:    addCostValueStep,
		StepAddCostConfirm:  addCostConfirmStep,

		StepDeleteCost:         deleteCostStep,
		StepDeleteCostMonth:    deleteCostMonthStep,
		StepDeleteCostCategory: deleteCostCategoryStep,
		StepDeleteCostPick:     deleteCostPickStep,
		StepDeleteCostConfirm:  deleteCostConfirmStep,

		StepIncomes:           incomesStep,
		StepAddIncome:         addIncomeStep,
		StepAddIncomeName:     addIncomeNameStep,
		StepAddIncomeSource:   addIncomeSourceStep,
		StepAddIncomeCurrency: addIncomeCurrencyStep,
		StepAddIncomeDate:     addIncomeDateStep,
		StepAddIncomeValue:    addIncomeValueStep,
		StepAddIncomeConfirm:  addIncomeConfirmStep,

		StepDeleteIncome:        deleteIncomeStep,
		StepDeleteIncomeMonth:   deleteIncomeMonthStep,
		StepDeleteIncomePick:    deleteIncomePickStep,
		StepDeleteIncomeConfirm: deleteIncomeConfirmStep,

		StepExchange:            exchangeStep,
		StepExchangeSource:      exchangeSourceStep,
		StepExchangeDest:        exchangeDestStep,
		StepExchangeDate:        exchangeDateStep,
		StepExchangeSourceValue: exchangeSourceValueStep,
		StepExchangeDestValue:   exchangeDestValueStep,
		StepExchangeConfirm:     exchangeConfirmStep,

		StepAnalytics:         analyticsStep,
		StepAnalyticsChoice:   analyticsChoiceStep,
		StepAnalyticsPattern:  analyticsPatternStep,
		StepAnalyticsLevel:    analyticsLevelStep,
		StepAnalyticsScope:    analyticsScopeStep,
		StepAnalyticsCategory: analyticsCategoryStep,

		StepConfig:         configStep,
		StepConfigEdit:     configEditStep,
		StepConfigValue:    configValueStep,
		StepConfigCurrency: configCurrencyStep,
	}

	menu := map[string]session.Step{
		LabelAddCost:        StepAddCost,
		LabelDeleteCost:     StepDeleteCost,
		LabelAnalytics:      StepAnalytics,
		LabelEquity:         StepEquity,
		LabelIncomes:        StepIncomes,
		LabelExchange:       StepExchange,
		LabelConfigurations: StepConfig,
		LabelRestart:        StepRestart,
	}

	ops := map[string]session.Step{
		opAddCostCategory: StepAddCostCategory,
		opAddCostDate:     StepAddCostDate,
		opAddCostConfirm:  StepAddCostConfirm,

		opDeleteCostMonth:    StepDeleteCostMonth,
		opDeleteCostCategory: StepDeleteCostCategory,
		opDeleteCostPick:     StepDeleteCostPick,
		opDeleteCostConfirm:  StepDeleteCostConfirm,

		opIncomeAdd:    StepAddIncome,
		opIncomeDelete: StepDeleteIncome,

		opAddIncomeSource:   StepAddIncomeSource,
		opAddIncomeCurrency: StepAddIncomeCurrency,
		opAddIncomeDate:     StepAddIncomeDate,
		opAddIncomeConfirm:  StepAddIncomeConfirm,

		opDeleteIncomeMonth:   StepDeleteIncomeMonth,
		opDeleteIncomePick:    StepDeleteIncomePick,
		opDeleteIncomeConfirm: StepDeleteIncomeConfirm,

		opExchangeSource:  StepExchangeSource,
		opExchangeDest:    StepExchangeDest,
		opExchangeDate:    StepExchangeDate,
		opExchangeConfirm: StepExchangeConfirm,

		opAnalyticsChoice:   StepAnalyticsChoice,
		opAnalyticsLevel:    StepAnalyticsLevel,
		opAnalyticsScope:    StepAnalyticsScope,
		opAnalyticsCategory: StepAnalyticsCategory,

		opConfigEdit:     StepConfigEdit,
		opConfigCurrency: StepConfigCurrency,
	}

	return bot.Config{
		Sessions:      sessions,
		Ledger:        store,
		Gateway:       gw,
		Steps:         steps,
		Menu:          menu,
		Ops:           ops,
		Start:         StepStart,
		Fallback:      StepFallback,
		MaxMessageLen: maxMessageLen,
	}
}
