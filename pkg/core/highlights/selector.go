// Package highlights picks the small, sorted lists of records that need attention.
package highlights

import (
	"sort"
	"time"

	"tenderflow/pkg/core/tender"
	"tenderflow/pkg/models"
)

// Limit caps every highlight list.
const Limit = 5

// BudgetRiskThreshold is the utilization percentage at which a budget is at risk.
const BudgetRiskThreshold = 100.0

// Input holds the collections highlights are selected from.
type Input struct {
	Invoices []models.Invoice
	Budgets  []models.Budget
	Reports  []models.Report
	Projects []models.Project
	Tenders  []models.Tender
}

// Highlights are five independent lists, each at most Limit long.
type Highlights struct {
	OutstandingInvoices []models.Invoice `json:"outstandingInvoices"`
	BudgetsAtRisk       []models.Budget  `json:"budgetsAtRisk"`
	ProjectsAtRisk      []models.Project `json:"projectsAtRisk"`
	TendersClosingSoon  []models.Tender  `json:"tendersClosingSoon"`
	RecentReports       []models.Report  `json:"recentReports"`
}

// Select filters, sorts and truncates each collection. Ties fall back to the
// record id so the output never depends on input order.
func Select(in Input) Highlights {
	return Highlights{
		OutstandingInvoices: OutstandingInvoices(in.Invoices),
		BudgetsAtRisk:       BudgetsAtRisk(in.Budgets),
		ProjectsAtRisk:      ProjectsAtRisk(in.Projects),
		TendersClosingSoon:  TendersClosingSoon(in.Tenders),
		RecentReports:       RecentReports(in.Reports),
	}
}

// OutstandingInvoices returns draft, sent and overdue invoices, soonest due first.
func OutstandingInvoices(invoices []models.Invoice) []models.Invoice {
	out := make([]models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.IsOutstanding() {
			out = append(out, inv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := compareAsc(out[i].DueDate, out[j].DueDate); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return truncate(out)
}

// BudgetsAtRisk returns budgets at or over their allocation, most utilized first.
func BudgetsAtRisk(budgets []models.Budget) []models.Budget {
	out := make([]models.Budget, 0, len(budgets))
	for _, b := range budgets {
		if b.Utilization() >= BudgetRiskThreshold {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ui, uj := out[i].Utilization(), out[j].Utilization()
		if ui != uj {
			return ui > uj
		}
		return out[i].ID < out[j].ID
	})
	return truncate(out)
}

// ProjectsAtRisk returns red or high-risk projects, most recently updated first.
func ProjectsAtRisk(projects []models.Project) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if p.IsAtRisk() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := compareDesc(out[i].LastUpdate, out[j].LastUpdate); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return truncate(out)
}

// TendersClosingSoon returns open tenders within the closing threshold, fewest days left first.
func TendersClosingSoon(tenders []models.Tender) []models.Tender {
	out := make([]models.Tender, 0, len(tenders))
	for _, t := range tenders {
		if tender.IsClosingSoon(t, tender.ClosingSoonThreshold) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := *out[i].DaysLeft, *out[j].DaysLeft
		if di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	return truncate(out)
}

// RecentReports returns the latest reports by completion (or creation) time.
func RecentReports(reports []models.Report) []models.Report {
	out := make([]models.Report, len(reports))
	copy(out, reports)
	sort.SliceStable(out, func(i, j int) bool {
		if c := compareDesc(out[i].Timestamp(), out[j].Timestamp()); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return truncate(out)
}

func truncate[T any](items []T) []T {
	if len(items) > Limit {
		return items[:Limit]
	}
	return items
}

// compareAsc orders earlier times first; nil sorts last.
func compareAsc(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}

// compareDesc orders later times first; nil sorts last.
func compareDesc(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return b.Compare(*a)
}
