package metrics

import (
	"fmt"
	"time"

	"tenderflow/pkg/core/calc"
	"tenderflow/pkg/core/cashflow"
	"tenderflow/pkg/core/currency"
	"tenderflow/pkg/core/projectcost"
	"tenderflow/pkg/core/tender"
	"tenderflow/pkg/models"
)

// DaysPerMonth scales the daily burn rate into MonthlyBurn.
const DaysPerMonth = 30

// DashboardInput holds the collections the dashboard is computed from.
type DashboardInput struct {
	Projects     []models.Project
	Tenders      []models.Tender
	Invoices     []models.Invoice
	Expenses     []models.Expense
	BankAccounts []models.BankAccount
}

// Totals are the headline figures of the dashboard.
type Totals struct {
	CashOnHand     float64 `json:"cashOnHand"`
	MonthlyBurn    float64 `json:"monthlyBurn"`
	ActiveProjects int     `json:"activeProjects"`
	OpenTenders    int     `json:"openTenders"`
}

// DashboardMetrics is the dashboard view.
type DashboardMetrics struct {
	AsOf          *time.Time           `json:"asOf"`
	Totals        Totals               `json:"totals"`
	ProjectCosts  projectcost.Summary  `json:"projectCosts"`
	Tenders       tender.Summary       `json:"tenders"`
	TenderMonthly []tender.MonthlyStat `json:"tenderMonthly"`
	Cashflow      cashflow.Summary     `json:"cashflow"`
	Currency      currency.Info        `json:"currency"`
}

// SelectDashboardMetrics computes the dashboard. Each service is called once
// and its output is embedded unchanged. The starting balance is the sum of the
// normalized bank balances; StartingBalanceFallback applies only when there
// are no bank accounts at all. CashOnHand is always the bank balance sum.
func SelectDashboardMetrics(in DashboardInput, opts Options) (*DashboardMetrics, error) {
	log := opts.logger()
	n := opts.normalizer()
	convert := opts.converter(n)

	var cashOnHand float64
	for _, acc := range in.BankAccounts {
		balance, err := convert(acc.CurrentBalance, acc.Currency)
		if err != nil {
			return nil, fmt.Errorf("bank account %s balance: %w", acc.ID, err)
		}
		cashOnHand += balance
	}
	cashOnHand = calc.Round2(cashOnHand)
	starting := cashOnHand
	if len(in.BankAccounts) == 0 {
		starting = opts.StartingBalanceFallback
	}

	ledger, err := cashflow.BuildLedger(cashflow.LedgerInput{
		BankAccounts: in.BankAccounts,
		Invoices:     in.Invoices,
		Expenses:     in.Expenses,
		AsOf:         opts.AsOf,
	}, convert)
	if err != nil {
		return nil, fmt.Errorf("build ledger: %w", err)
	}

	projectCosts, err := opts.projectAnalyzer().Summarize(in.Projects)
	if err != nil {
		return nil, fmt.Errorf("project costs: %w", err)
	}
	tenderService := opts.tenderService()
	tenders, err := tenderService.Summarize(in.Tenders)
	if err != nil {
		return nil, fmt.Errorf("tender summary: %w", err)
	}
	monthly, err := tenderService.Monthly(in.Tenders)
	if err != nil {
		return nil, fmt.Errorf("tender monthly: %w", err)
	}
	cash, err := opts.cashflowService().Summarize(ledger, cashflow.Options{
		StartingBalance: starting,
		AsOf:            opts.AsOf,
	})
	if err != nil {
		return nil, fmt.Errorf("cashflow: %w", err)
	}

	totals := Totals{
		CashOnHand:  cashOnHand,
		MonthlyBurn: calc.Round2(cash.BurnRate * DaysPerMonth),
	}
	for _, p := range in.Projects {
		if p.IsActive() {
			totals.ActiveProjects++
		}
	}
	for _, t := range in.Tenders {
		if t.IsOpen() {
			totals.OpenTenders++
		}
	}

	warnMissingRates(log, n, "dashboard")
	log.Debug().
		Int("ledgerEntries", len(ledger)).
		Float64("cashOnHand", totals.CashOnHand).
		Float64("burnRate", cash.BurnRate).
		Msg("dashboard computed")

	if monthly == nil {
		monthly = []tender.MonthlyStat{}
	}
	return &DashboardMetrics{
		AsOf:          opts.AsOf,
		Totals:        totals,
		ProjectCosts:  projectCosts,
		Tenders:       tenders,
		TenderMonthly: monthly,
		Cashflow:      cash,
		Currency:      n.Info(),
	}, nil
}
