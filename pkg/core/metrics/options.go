// Package metrics composes the analyzers into the dashboard, aggregate and
// highlights views. It is pure: callers load the records and inject the
// as-of instant and currency rates.
package metrics

import (
	"time"

	"github.com/rs/zerolog"

	"tenderflow/pkg/core/cashflow"
	"tenderflow/pkg/core/currency"
	"tenderflow/pkg/core/projectcost"
	"tenderflow/pkg/core/tender"
	"tenderflow/pkg/models"
)

// ProjectAnalyzer computes cost variance across projects.
type ProjectAnalyzer interface {
	Summarize(projects []models.Project) (projectcost.Summary, error)
}

// TenderService computes win-rate analytics.
type TenderService interface {
	Summarize(tenders []models.Tender) (tender.Summary, error)
	Monthly(tenders []models.Tender) ([]tender.MonthlyStat, error)
}

// CashflowService projects a ledger into balances, burn rate and runway.
type CashflowService interface {
	Summarize(entries []cashflow.Entry, opts cashflow.Options) (cashflow.Summary, error)
}

// Options configure one computation. Nil services fall back to the default
// implementations.
type Options struct {
	AsOf                    *time.Time
	StartingBalanceFallback float64
	BaseCurrency            string
	CurrencyRates           map[string]float64
	CurrencyTimestamp       *string
	// StrictCurrency fails the computation on a missing rate instead of
	// converting at 1 and recording the currency.
	StrictCurrency bool

	ProjectAnalyzer ProjectAnalyzer
	TenderService   TenderService
	CashflowService CashflowService
	Logger          *zerolog.Logger
}

func (o Options) projectAnalyzer() ProjectAnalyzer {
	if o.ProjectAnalyzer != nil {
		return o.ProjectAnalyzer
	}
	return projectcost.NewAnalyzer()
}

func (o Options) tenderService() TenderService {
	if o.TenderService != nil {
		return o.TenderService
	}
	return tender.NewSummarizer()
}

func (o Options) cashflowService() CashflowService {
	if o.CashflowService != nil {
		return o.CashflowService
	}
	return cashflow.NewProjector()
}

func (o Options) logger() zerolog.Logger {
	if o.Logger != nil {
		return *o.Logger
	}
	return zerolog.Nop()
}

func (o Options) normalizer() *currency.Normalizer {
	return currency.New(o.BaseCurrency, o.CurrencyRates, o.CurrencyTimestamp)
}

// converter applies the currency policy selected by StrictCurrency.
func (o Options) converter(n *currency.Normalizer) cashflow.Converter {
	if o.StrictCurrency {
		return n.Convert
	}
	return func(amount float64, code string) (float64, error) {
		return n.Normalize(amount, code), nil
	}
}

func warnMissingRates(log zerolog.Logger, n *currency.Normalizer, view string) {
	if missing := n.MissingRates(); len(missing) > 0 {
		log.Warn().
			Str("view", view).
			Str("base", n.Base()).
			Strs("currencies", missing).
			Msg("converted at identity rate, no rate configured")
	}
}
