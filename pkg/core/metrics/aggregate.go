package metrics

import (
	"fmt"

	"tenderflow/pkg/core/calc"
	"tenderflow/pkg/core/currency"
	"tenderflow/pkg/core/highlights"
	"tenderflow/pkg/core/projectcost"
	"tenderflow/pkg/core/tender"
	"tenderflow/pkg/models"
)

// AggregateInput holds the collections the aggregate view is computed from.
type AggregateInput struct {
	Projects []models.Project
	Tenders  []models.Tender
	Invoices []models.Invoice
	Budgets  []models.Budget
	Reports  []models.Report
	Clients  []models.Client
}

// InvoiceTotals are amounts in the base currency. Invoiced excludes cancelled invoices.
type InvoiceTotals struct {
	Count            int     `json:"count"`
	Invoiced         float64 `json:"invoiced"`
	Paid             float64 `json:"paid"`
	PaidCount        int     `json:"paidCount"`
	Outstanding      float64 `json:"outstanding"`
	OutstandingCount int     `json:"outstandingCount"`
	Overdue          float64 `json:"overdue"`
	OverdueCount     int     `json:"overdueCount"`
}

// BudgetTotals sum every budget allocation.
type BudgetTotals struct {
	Count       int     `json:"count"`
	Total       float64 `json:"total"`
	Spent       float64 `json:"spent"`
	Utilization float64 `json:"utilization"`
	AtRiskCount int     `json:"atRiskCount"`
}

// ReportStats count reports by status.
type ReportStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}

// ClientStats summarize the client base.
type ClientStats struct {
	Total                    int     `json:"total"`
	AverageCompletedProjects float64 `json:"averageCompletedProjects"`
	TopRatedClients          int     `json:"topRatedClients"`
}

// FinancialSummary is the cross-collection roll-up.
type FinancialSummary struct {
	AvailableBudget float64 `json:"availableBudget"`
	CollectionRate  float64 `json:"collectionRate"`
	NetPosition     float64 `json:"netPosition"`
}

// AggregatedMetrics is the flat report view.
type AggregatedMetrics struct {
	Invoices      InvoiceTotals        `json:"invoices"`
	Budgets       BudgetTotals         `json:"budgets"`
	Reports       ReportStats          `json:"reports"`
	ProjectCosts  projectcost.Summary  `json:"projectCosts"`
	Tenders       tender.Summary       `json:"tenders"`
	TenderMonthly []tender.MonthlyStat `json:"tenderMonthly"`
	Clients       ClientStats          `json:"clients"`
	Summary       FinancialSummary     `json:"summary"`
	Currency      currency.Info        `json:"currency"`
}

// SelectAggregatedFinancialMetrics composes invoice, budget, report and client
// statistics with the project cost and tender analytics. Every collection may
// be empty.
func SelectAggregatedFinancialMetrics(in AggregateInput, opts Options) (*AggregatedMetrics, error) {
	log := opts.logger()
	n := opts.normalizer()
	convert := opts.converter(n)

	out := &AggregatedMetrics{
		Reports: ReportStats{ByStatus: map[string]int{}},
	}

	for _, inv := range in.Invoices {
		out.Invoices.Count++
		if inv.Status == models.InvoiceCancelled {
			continue
		}
		amount, err := convert(inv.Total, inv.Currency)
		if err != nil {
			return nil, fmt.Errorf("invoice %s: %w", inv.ID, err)
		}
		switch inv.Status {
		case models.InvoicePaid:
			out.Invoices.Paid += amount
			out.Invoices.PaidCount++
		case models.InvoiceOverdue:
			out.Invoices.Overdue += amount
			out.Invoices.OverdueCount++
		}
		if inv.IsOutstanding() {
			out.Invoices.Outstanding += amount
			out.Invoices.OutstandingCount++
		}
		out.Invoices.Invoiced += amount
	}
	out.Invoices.Invoiced = calc.Round2(out.Invoices.Invoiced)
	out.Invoices.Paid = calc.Round2(out.Invoices.Paid)
	out.Invoices.Outstanding = calc.Round2(out.Invoices.Outstanding)
	out.Invoices.Overdue = calc.Round2(out.Invoices.Overdue)

	for _, b := range in.Budgets {
		out.Budgets.Count++
		out.Budgets.Total += b.TotalAmount
		out.Budgets.Spent += b.SpentAmount
		if b.Utilization() >= highlights.BudgetRiskThreshold {
			out.Budgets.AtRiskCount++
		}
	}
	out.Budgets.Utilization = calc.Round2(calc.Percent(out.Budgets.Spent, out.Budgets.Total))

	for _, r := range in.Reports {
		out.Reports.Total++
		out.Reports.ByStatus[r.Status]++
	}

	completed := make([]float64, 0, len(in.Clients))
	for _, c := range in.Clients {
		out.Clients.Total++
		completed = append(completed, float64(c.CompletedProjects))
		if c.PaymentRating == models.PaymentRatingExcellent {
			out.Clients.TopRatedClients++
		}
	}
	out.Clients.AverageCompletedProjects = calc.Round2(calc.Mean(completed))

	var err error
	if out.ProjectCosts, err = opts.projectAnalyzer().Summarize(in.Projects); err != nil {
		return nil, fmt.Errorf("project costs: %w", err)
	}
	tenderService := opts.tenderService()
	if out.Tenders, err = tenderService.Summarize(in.Tenders); err != nil {
		return nil, fmt.Errorf("tender summary: %w", err)
	}
	if out.TenderMonthly, err = tenderService.Monthly(in.Tenders); err != nil {
		return nil, fmt.Errorf("tender monthly: %w", err)
	}
	if out.TenderMonthly == nil {
		out.TenderMonthly = []tender.MonthlyStat{}
	}

	out.Summary = FinancialSummary{
		AvailableBudget: calc.Round2(out.Budgets.Total - out.Budgets.Spent),
		CollectionRate:  calc.Round2(calc.Percent(out.Invoices.Paid, out.Invoices.Invoiced)),
		NetPosition:     calc.Round2(out.Invoices.Paid - out.Budgets.Spent),
	}

	warnMissingRates(log, n, "aggregate")
	out.Currency = n.Info()
	return out, nil
}

// HighlightInput holds the collections highlights are selected from.
type HighlightInput = highlights.Input

// SelectFinancialHighlights returns the bounded attention lists.
func SelectFinancialHighlights(in HighlightInput) highlights.Highlights {
	return highlights.Select(in)
}
