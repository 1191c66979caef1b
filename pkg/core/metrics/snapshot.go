package metrics

import "tenderflow/pkg/models"

// DashboardInputFrom selects the collections the dashboard reads.
func DashboardInputFrom(s *models.Snapshot) DashboardInput {
	return DashboardInput{
		Projects:     s.Projects,
		Tenders:      s.Tenders,
		Invoices:     s.Invoices,
		Expenses:     s.Expenses,
		BankAccounts: s.BankAccounts,
	}
}

// AggregateInputFrom selects the collections the aggregate view reads.
func AggregateInputFrom(s *models.Snapshot) AggregateInput {
	return AggregateInput{
		Projects: s.Projects,
		Tenders:  s.Tenders,
		Invoices: s.Invoices,
		Budgets:  s.Budgets,
		Reports:  s.Reports,
		Clients:  s.Clients,
	}
}

// HighlightInputFrom selects the collections highlights are picked from.
func HighlightInputFrom(s *models.Snapshot) HighlightInput {
	return HighlightInput{
		Invoices: s.Invoices,
		Budgets:  s.Budgets,
		Reports:  s.Reports,
		Projects: s.Projects,
		Tenders:  s.Tenders,
	}
}
