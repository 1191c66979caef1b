package metrics

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"tenderflow/pkg/core/cashflow"
	"tenderflow/pkg/core/currency"
	"tenderflow/pkg/core/projectcost"
	"tenderflow/pkg/core/tender"
	"tenderflow/pkg/models"
)

// --- Mocks ---

type MockProjectAnalyzer struct {
	SummarizeFunc func(projects []models.Project) (projectcost.Summary, error)
	Calls         int
	LastProjects  []models.Project
}

func (m *MockProjectAnalyzer) Summarize(projects []models.Project) (projectcost.Summary, error) {
	m.Calls++
	m.LastProjects = projects
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(projects)
	}
	return projectcost.Summary{}, nil
}

type MockTenderService struct {
	SummarizeFunc  func(tenders []models.Tender) (tender.Summary, error)
	MonthlyFunc    func(tenders []models.Tender) ([]tender.MonthlyStat, error)
	SummarizeCalls int
	MonthlyCalls   int
}

func (m *MockTenderService) Summarize(tenders []models.Tender) (tender.Summary, error) {
	m.SummarizeCalls++
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(tenders)
	}
	return tender.Summary{}, nil
}

func (m *MockTenderService) Monthly(tenders []models.Tender) ([]tender.MonthlyStat, error) {
	m.MonthlyCalls++
	if m.MonthlyFunc != nil {
		return m.MonthlyFunc(tenders)
	}
	return []tender.MonthlyStat{}, nil
}

type MockCashflowService struct {
	SummarizeFunc func(entries []cashflow.Entry, opts cashflow.Options) (cashflow.Summary, error)
	Calls         int
	LastEntries   []cashflow.Entry
	LastOpts      cashflow.Options
}

func (m *MockCashflowService) Summarize(entries []cashflow.Entry, opts cashflow.Options) (cashflow.Summary, error) {
	m.Calls++
	m.LastEntries = entries
	m.LastOpts = opts
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(entries, opts)
	}
	return cashflow.Summary{}, nil
}

// --- Helpers ---

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func approx(a, b float64) bool { return math.Abs(a-b) < 0.01 }

// --- Dashboard ---

func TestSelectDashboardMetrics_TenderMix(t *testing.T) {
	// Setup
	in := DashboardInput{Tenders: []models.Tender{
		{ID: "t1", Status: models.TenderNew, TotalValue: 500000},
		{ID: "t2", Status: models.TenderUnderAction, TotalValue: 750000},
		{ID: "t3", Status: models.TenderLost, TotalValue: 400000},
	}}

	// Execute
	got, err := SelectDashboardMetrics(in, Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Verify
	tenders := got.Tenders
	if tenders.Total != 3 {
		t.Errorf("Expected 3 tenders, got %d", tenders.Total)
	}
	if tenders.Submitted != 1 || tenders.SubmittedValue != 400000 {
		t.Errorf("Expected only the lost tender as submitted (1, 400000), got (%d, %f)", tenders.Submitted, tenders.SubmittedValue)
	}
	if tenders.Won != 0 || tenders.WinRate != 0 {
		t.Errorf("Expected no wins and 0%% win rate, got %d and %f", tenders.Won, tenders.WinRate)
	}
	if tenders.Lost != 1 || tenders.LostValue != 400000 {
		t.Errorf("Expected 1 lost worth 400000, got %d worth %f", tenders.Lost, tenders.LostValue)
	}
	if tenders.OpenValue != 1250000 {
		t.Errorf("Expected open pipeline 1250000, got %f", tenders.OpenValue)
	}
	if tenders.Buckets.Waiting != 1 || tenders.Buckets.UnderReview != 1 || tenders.Buckets.Lost != 1 {
		t.Errorf("Unexpected buckets %+v", tenders.Buckets)
	}
	if got.Totals.OpenTenders != 2 {
		t.Errorf("Expected 2 open tenders, got %d", got.Totals.OpenTenders)
	}
}

func TestSelectDashboardMetrics_CurrencyNormalization(t *testing.T) {
	// Setup
	ts := "2024-05-01T00:00:00Z"
	rates := map[string]float64{"usd": 3.75}
	in := DashboardInput{BankAccounts: []models.BankAccount{
		{ID: "usd-acc", Currency: "USD", CurrentBalance: 10000},
	}}

	// Execute
	got, err := SelectDashboardMetrics(in, Options{CurrencyRates: rates, CurrencyTimestamp: &ts})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Verify
	if got.Totals.CashOnHand != 2666.67 {
		t.Errorf("Expected cash on hand 2666.67, got %f", got.Totals.CashOnHand)
	}
	if got.Currency.Base != currency.DefaultBase {
		t.Errorf("Expected base %s, got %s", currency.DefaultBase, got.Currency.Base)
	}
	if len(got.Currency.Rates) != 1 || got.Currency.Rates["usd"] != 3.75 {
		t.Errorf("Expected the injected rate table echoed as given, got %v", got.Currency.Rates)
	}
	if got.Currency.Timestamp == nil || *got.Currency.Timestamp != ts {
		t.Errorf("Expected timestamp %s echoed", ts)
	}
	if len(got.Currency.MissingRates) != 0 {
		t.Errorf("Expected no missing rates, got %v", got.Currency.MissingRates)
	}
	if len(rates) != 1 || rates["usd"] != 3.75 {
		t.Errorf("Caller's rate table was modified: %v", rates)
	}
}

func TestSelectDashboardMetrics_MissingRateDegradesToIdentity(t *testing.T) {
	in := DashboardInput{BankAccounts: []models.BankAccount{
		{ID: "eur", Currency: "EUR", CurrentBalance: 1000},
		{ID: "sar", Currency: "SAR", CurrentBalance: 500},
	}}

	got, err := SelectDashboardMetrics(in, Options{CurrencyRates: map[string]float64{"USD": 3.75}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Totals.CashOnHand != 1500 {
		t.Errorf("Expected identity conversion for EUR (1500), got %f", got.Totals.CashOnHand)
	}
	if len(got.Currency.MissingRates) != 1 || got.Currency.MissingRates[0] != "EUR" {
		t.Errorf("Expected EUR recorded as missing, got %v", got.Currency.MissingRates)
	}
}

func TestSelectDashboardMetrics_StrictCurrency(t *testing.T) {
	in := DashboardInput{BankAccounts: []models.BankAccount{
		{ID: "eur", Currency: "EUR", CurrentBalance: 1000},
	}}

	_, err := SelectDashboardMetrics(in, Options{StrictCurrency: true})
	if !errors.Is(err, currency.ErrMissingRate) {
		t.Errorf("Expected ErrMissingRate, got %v", err)
	}
}

func TestSelectDashboardMetrics_Runway(t *testing.T) {
	// Setup
	in := DashboardInput{
		BankAccounts: []models.BankAccount{
			{ID: "acc", Currency: "SAR", CurrentBalance: 60000, MonthlyInflow: 20000, MonthlyOutflow: 40000},
		},
		Invoices: []models.Invoice{
			{ID: "inv", Status: models.InvoiceSent, Total: 17000, DueDate: date(2024, time.January, 1)},
		},
		Expenses: []models.Expense{
			{ID: "exp", Amount: 30000, CreatedAt: date(2024, time.January, 15)},
		},
	}

	// Execute
	got, err := SelectDashboardMetrics(in, Options{AsOf: date(2024, time.February, 1)})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Verify
	cash := got.Cashflow
	if cash.Inflow != 37000 || cash.Outflow != 70000 {
		t.Errorf("Expected inflow 37000 and outflow 70000, got %f and %f", cash.Inflow, cash.Outflow)
	}
	if cash.EndingBalance != 27000 {
		t.Errorf("Expected ending balance 27000, got %f", cash.EndingBalance)
	}
	if cash.PeriodDays != 31 {
		t.Errorf("Expected a 31 day period, got %f", cash.PeriodDays)
	}
	if cash.RunwayDays == nil || !approx(*cash.RunwayDays, 25.36) {
		t.Errorf("Expected runway ~25.36 days, got %v", cash.RunwayDays)
	}
	if got.Totals.CashOnHand != 60000 {
		t.Errorf("Expected cash on hand 60000, got %f", got.Totals.CashOnHand)
	}
	if got.Totals.MonthlyBurn != 31935.48 {
		t.Errorf("Expected monthly burn 31935.48, got %f", got.Totals.MonthlyBurn)
	}
}

func TestSelectDashboardMetrics_StartingBalanceFallback(t *testing.T) {
	tests := []struct {
		name             string
		accounts         []models.BankAccount
		expectedCash     float64
		expectedStarting float64
	}{
		{"no accounts uses fallback for starting balance only", nil, 0, 5000},
		{"zero balance account wins over fallback", []models.BankAccount{{ID: "a", CurrentBalance: 0}}, 0, 0},
		{"balances summed", []models.BankAccount{{ID: "a", CurrentBalance: 100}, {ID: "b", CurrentBalance: 250}}, 350, 350},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectDashboardMetrics(DashboardInput{BankAccounts: tt.accounts}, Options{StartingBalanceFallback: 5000})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got.Totals.CashOnHand != tt.expectedCash {
				t.Errorf("Expected cash on hand %f, got %f", tt.expectedCash, got.Totals.CashOnHand)
			}
			if got.Cashflow.StartingBalance != tt.expectedStarting {
				t.Errorf("Expected starting balance %f, got %f", tt.expectedStarting, got.Cashflow.StartingBalance)
			}
		})
	}
}

func TestSelectDashboardMetrics_InjectedServices(t *testing.T) {
	// Setup
	projects := &MockProjectAnalyzer{SummarizeFunc: func(p []models.Project) (projectcost.Summary, error) {
		return projectcost.Summary{Count: 42}, nil
	}}
	tenders := &MockTenderService{
		SummarizeFunc: func(ts []models.Tender) (tender.Summary, error) { return tender.Summary{Total: 7, WinRate: 99}, nil },
		MonthlyFunc: func(ts []models.Tender) ([]tender.MonthlyStat, error) {
			return []tender.MonthlyStat{{Month: "2030-01"}}, nil
		},
	}
	runway := 12.5
	cash := &MockCashflowService{SummarizeFunc: func(e []cashflow.Entry, o cashflow.Options) (cashflow.Summary, error) {
		return cashflow.Summary{BurnRate: 10, RunwayDays: &runway}, nil
	}}
	in := DashboardInput{
		Projects:     []models.Project{{ID: "p1"}, {ID: "p2", Status: "completed"}},
		BankAccounts: []models.BankAccount{{ID: "acc", CurrentBalance: 900, MonthlyInflow: 1, MonthlyOutflow: 2}},
	}

	// Execute
	got, err := SelectDashboardMetrics(in, Options{
		AsOf:            date(2024, time.March, 1),
		ProjectAnalyzer: projects,
		TenderService:   tenders,
		CashflowService: cash,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Verify calls
	if projects.Calls != 1 || tenders.SummarizeCalls != 1 || tenders.MonthlyCalls != 1 || cash.Calls != 1 {
		t.Errorf("Expected each service called once, got project=%d tender=%d monthly=%d cashflow=%d",
			projects.Calls, tenders.SummarizeCalls, tenders.MonthlyCalls, cash.Calls)
	}
	if len(projects.LastProjects) != 2 {
		t.Errorf("Expected analyzer to receive 2 projects, got %d", len(projects.LastProjects))
	}
	if len(cash.LastEntries) != 2 || cash.LastEntries[0].ID != "acc-expected-inflow" || cash.LastEntries[1].ID != "acc-expected-outflow" {
		t.Errorf("Unexpected ledger passed to cashflow service: %+v", cash.LastEntries)
	}
	if cash.LastOpts.StartingBalance != 900 || cash.LastOpts.AsOf == nil {
		t.Errorf("Unexpected cashflow options: %+v", cash.LastOpts)
	}

	// Verify outputs embedded verbatim
	if got.ProjectCosts.Count != 42 {
		t.Errorf("Expected injected project summary, got count %d", got.ProjectCosts.Count)
	}
	if got.Tenders.Total != 7 || got.Tenders.WinRate != 99 {
		t.Errorf("Expected injected tender summary, got %+v", got.Tenders)
	}
	if len(got.TenderMonthly) != 1 || got.TenderMonthly[0].Month != "2030-01" {
		t.Errorf("Expected injected monthly stats, got %+v", got.TenderMonthly)
	}
	if got.Cashflow.RunwayDays == nil || *got.Cashflow.RunwayDays != 12.5 {
		t.Errorf("Expected injected cashflow summary, got %+v", got.Cashflow)
	}
	if got.Totals.MonthlyBurn != 300 {
		t.Errorf("Expected monthly burn 300 from injected burn rate, got %f", got.Totals.MonthlyBurn)
	}
	if got.Totals.ActiveProjects != 1 {
		t.Errorf("Expected 1 active project, got %d", got.Totals.ActiveProjects)
	}
}

func TestSelectDashboardMetrics_PropagatesServiceErrors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name string
		opts Options
	}{
		{"project analyzer", Options{ProjectAnalyzer: &MockProjectAnalyzer{
			SummarizeFunc: func([]models.Project) (projectcost.Summary, error) { return projectcost.Summary{}, boom },
		}}},
		{"tender summary", Options{TenderService: &MockTenderService{
			SummarizeFunc: func([]models.Tender) (tender.Summary, error) { return tender.Summary{}, boom },
		}}},
		{"tender monthly", Options{TenderService: &MockTenderService{
			MonthlyFunc: func([]models.Tender) ([]tender.MonthlyStat, error) { return nil, boom },
		}}},
		{"cashflow", Options{CashflowService: &MockCashflowService{
			SummarizeFunc: func([]cashflow.Entry, cashflow.Options) (cashflow.Summary, error) { return cashflow.Summary{}, boom },
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectDashboardMetrics(DashboardInput{}, tt.opts)
			if !errors.Is(err, boom) {
				t.Errorf("Expected wrapped service error, got %v", err)
			}
			if got != nil {
				t.Errorf("Expected no metrics on error")
			}
		})
	}
}

func TestSelectDashboardMetrics_MissingSourceID(t *testing.T) {
	in := DashboardInput{Expenses: []models.Expense{{Amount: 10}}}
	_, err := SelectDashboardMetrics(in, Options{})
	if !errors.Is(err, cashflow.ErrMissingID) {
		t.Errorf("Expected ErrMissingID, got %v", err)
	}
}

func TestSelectDashboardMetrics_Empty(t *testing.T) {
	got, err := SelectDashboardMetrics(DashboardInput{}, Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Totals != (Totals{}) {
		t.Errorf("Expected zero totals, got %+v", got.Totals)
	}
	if got.Cashflow.RunwayDays != nil || got.Cashflow.EndingBalance != 0 {
		t.Errorf("Expected no runway and zero balance, got %+v", got.Cashflow)
	}
	if got.TenderMonthly == nil || got.ProjectCosts.Items == nil {
		t.Errorf("Expected empty, non-nil slices")
	}
	if got.Currency.Base != "SAR" {
		t.Errorf("Expected default base SAR, got %s", got.Currency.Base)
	}
}

// --- Aggregate ---

func TestSelectAggregatedFinancialMetrics(t *testing.T) {
	// Setup
	full := 100.0
	in := AggregateInput{
		Invoices: []models.Invoice{
			{ID: "i1", Status: models.InvoicePaid, Total: 1000},
			{ID: "i2", Status: models.InvoiceSent, Total: 2000},
			{ID: "i3", Status: models.InvoiceOverdue, Total: 500},
			{ID: "i4", Status: models.InvoiceCancelled, Total: 9999, Currency: "JPY"},
			{ID: "i5", Status: models.InvoiceDraft, Total: 300, Currency: "USD"},
		},
		Budgets: []models.Budget{
			{ID: "b1", TotalAmount: 1000, SpentAmount: 1200},
			{ID: "b2", TotalAmount: 3000, SpentAmount: 300},
			{ID: "b3", UtilizationPercentage: &full},
		},
		Reports: []models.Report{
			{ID: "r1", Status: "completed"},
			{ID: "r2", Status: "completed"},
			{ID: "r3", Status: "pending"},
		},
		Clients: []models.Client{
			{ID: "c1", CompletedProjects: 2, PaymentRating: models.PaymentRatingExcellent},
			{ID: "c2", CompletedProjects: 3, PaymentRating: "good"},
			{ID: "c3", CompletedProjects: 5, PaymentRating: models.PaymentRatingExcellent},
		},
	}

	// Execute
	got, err := SelectAggregatedFinancialMetrics(in, Options{
		CurrencyRates:  map[string]float64{"USD": 3.75},
		StrictCurrency: true,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Verify invoices (cancelled JPY never converted)
	inv := got.Invoices
	if inv.Count != 5 || inv.Invoiced != 3580 {
		t.Errorf("Expected 5 invoices totalling 3580, got %d totalling %f", inv.Count, inv.Invoiced)
	}
	if inv.Paid != 1000 || inv.PaidCount != 1 {
		t.Errorf("Expected paid 1000 (1), got %f (%d)", inv.Paid, inv.PaidCount)
	}
	if inv.Outstanding != 2580 || inv.OutstandingCount != 3 {
		t.Errorf("Expected outstanding 2580 (3), got %f (%d)", inv.Outstanding, inv.OutstandingCount)
	}
	if inv.Overdue != 500 || inv.OverdueCount != 1 {
		t.Errorf("Expected overdue 500 (1), got %f (%d)", inv.Overdue, inv.OverdueCount)
	}

	// Verify budgets
	if got.Budgets.Total != 4000 || got.Budgets.Spent != 1500 {
		t.Errorf("Expected budget 4000/1500, got %f/%f", got.Budgets.Total, got.Budgets.Spent)
	}
	if got.Budgets.Utilization != 37.5 {
		t.Errorf("Expected utilization 37.5, got %f", got.Budgets.Utilization)
	}
	if got.Budgets.AtRiskCount != 2 {
		t.Errorf("Expected 2 budgets at risk, got %d", got.Budgets.AtRiskCount)
	}

	// Verify reports and clients
	if got.Reports.Total != 3 || got.Reports.ByStatus["completed"] != 2 || got.Reports.ByStatus["pending"] != 1 {
		t.Errorf("Unexpected report stats %+v", got.Reports)
	}
	if got.Clients.Total != 3 || got.Clients.AverageCompletedProjects != 3.33 || got.Clients.TopRatedClients != 2 {
		t.Errorf("Unexpected client stats %+v", got.Clients)
	}

	// Verify summary
	if got.Summary.AvailableBudget != 2500 {
		t.Errorf("Expected available budget 2500, got %f", got.Summary.AvailableBudget)
	}
	if got.Summary.CollectionRate != 27.93 {
		t.Errorf("Expected collection rate 27.93, got %f", got.Summary.CollectionRate)
	}
	if got.Summary.NetPosition != -500 {
		t.Errorf("Expected net position -500, got %f", got.Summary.NetPosition)
	}
}

func TestSelectAggregatedFinancialMetrics_Empty(t *testing.T) {
	got, err := SelectAggregatedFinancialMetrics(AggregateInput{}, Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Invoices != (InvoiceTotals{}) || got.Budgets != (BudgetTotals{}) || got.Clients != (ClientStats{}) {
		t.Errorf("Expected zero totals, got %+v", got)
	}
	if got.Summary != (FinancialSummary{}) {
		t.Errorf("Expected zero summary, got %+v", got.Summary)
	}
	if got.Reports.ByStatus == nil || got.TenderMonthly == nil || got.ProjectCosts.Categories == nil {
		t.Errorf("Expected empty, non-nil collections")
	}
}

func TestSelectAggregatedFinancialMetrics_PropagatesServiceErrors(t *testing.T) {
	boom := errors.New("boom")
	analyzer := &MockProjectAnalyzer{SummarizeFunc: func([]models.Project) (projectcost.Summary, error) {
		return projectcost.Summary{}, boom
	}}

	_, err := SelectAggregatedFinancialMetrics(AggregateInput{}, Options{ProjectAnalyzer: analyzer})
	if !errors.Is(err, boom) {
		t.Errorf("Expected wrapped analyzer error, got %v", err)
	}
	if analyzer.Calls != 1 {
		t.Errorf("Expected analyzer called once, got %d", analyzer.Calls)
	}
}

func TestSelectFinancialHighlights_Empty(t *testing.T) {
	h := SelectFinancialHighlights(HighlightInput{})
	if h.OutstandingInvoices == nil || h.BudgetsAtRisk == nil || h.ProjectsAtRisk == nil ||
		h.TendersClosingSoon == nil || h.RecentReports == nil {
		t.Errorf("Expected empty, non-nil highlight lists")
	}
}

func TestSelectors_AreIdempotent(t *testing.T) {
	// Setup
	tenders := []models.Tender{
		{ID: "t1", Status: models.TenderWon, TotalValue: 500, SubmissionDate: date(2024, time.March, 3)},
		{ID: "t2", Status: models.TenderUnderAction, TotalValue: 750},
		{ID: "t3", Status: models.TenderLost, TotalValue: 400, SubmissionDate: date(2024, time.April, 9)},
	}
	projects := []models.Project{{ID: "p1"}, {ID: "p2", Status: "completed"}}
	invoices := []models.Invoice{
		{ID: "i1", Status: models.InvoiceSent, Total: 2000, Currency: "USD", DueDate: date(2024, time.January, 10)},
		{ID: "i2", Status: models.InvoicePaid, Total: 800, Currency: "EUR"},
	}
	dashIn := DashboardInput{
		Projects:     projects,
		Tenders:      tenders,
		Invoices:     invoices,
		BankAccounts: []models.BankAccount{{ID: "acc", Currency: "USD", CurrentBalance: 7500, MonthlyInflow: 100, MonthlyOutflow: 900}},
		Expenses:     []models.Expense{{ID: "exp", Amount: 300, CreatedAt: date(2024, time.January, 20)}},
	}
	aggIn := AggregateInput{
		Projects: projects,
		Tenders:  tenders,
		Invoices: invoices,
		Budgets:  []models.Budget{{ID: "b1", TotalAmount: 1000, SpentAmount: 1200}},
		Reports:  []models.Report{{ID: "r1", Status: "completed"}},
		Clients:  []models.Client{{ID: "c1", CompletedProjects: 2}},
	}
	opts := Options{
		AsOf:          date(2024, time.February, 1),
		CurrencyRates: map[string]float64{"usd": 3.75, "USD": 3.75},
	}

	// Execute
	dash1, err := SelectDashboardMetrics(dashIn, opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	dash2, err := SelectDashboardMetrics(dashIn, opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	agg1, err := SelectAggregatedFinancialMetrics(aggIn, opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	agg2, err := SelectAggregatedFinancialMetrics(aggIn, opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Verify
	if !reflect.DeepEqual(dash1, dash2) {
		t.Errorf("Expected identical dashboards, got\n%+v\n%+v", dash1, dash2)
	}
	if !reflect.DeepEqual(agg1, agg2) {
		t.Errorf("Expected identical aggregates, got\n%+v\n%+v", agg1, agg2)
	}
	if len(agg1.Currency.MissingRates) != 1 || agg1.Currency.MissingRates[0] != "EUR" {
		t.Errorf("Expected EUR recorded as missing, got %v", agg1.Currency.MissingRates)
	}
}
