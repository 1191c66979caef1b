package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"tenderflow/pkg/core/metrics"
)

// Sheet names of the exported workbook, in order.
const (
	SheetSummary  = "Summary"
	SheetProjects = "Projects"
	SheetTenders  = "Tenders"
	SheetCashflow = "Cashflow"
)

// Workbook exports the dashboard and aggregate views to an Excel workbook.
// agg may be nil, in which case the summary sheet carries dashboard totals only.
func Workbook(dash *metrics.DashboardMetrics, agg *metrics.AggregatedMetrics) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetProjects, SheetTenders, SheetCashflow} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	w := &sheetWriter{f: f, header: bold}
	w.summary(dash, agg)
	w.projects(dash)
	w.tenders(dash)
	w.cashflow(dash)
	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	f.SetActiveSheet(0)
	return f, nil
}

// sheetWriter appends rows and keeps the first error.
type sheetWriter struct {
	f      *excelize.File
	header int
	sheet  string
	row    int
	err    error
}

func (w *sheetWriter) start(sheet string, header ...interface{}) {
	w.sheet, w.row = sheet, 0
	w.append(header...)
	if w.err == nil {
		w.err = w.f.SetRowStyle(sheet, 1, 1, w.header)
	}
}

func (w *sheetWriter) append(values ...interface{}) {
	if w.err != nil {
		return
	}
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("write %s row %d: %w", w.sheet, w.row, err)
	}
}

func (w *sheetWriter) summary(dash *metrics.DashboardMetrics, agg *metrics.AggregatedMetrics) {
	w.start(SheetSummary, "Metric", "Value")
	w.append("Base currency", dash.Currency.Base)
	if dash.AsOf != nil {
		w.append("As of", dash.AsOf.Format(dateLayout))
	}
	w.append("Cash on hand", dash.Totals.CashOnHand)
	w.append("Monthly burn", dash.Totals.MonthlyBurn)
	if dash.Cashflow.RunwayDays != nil {
		w.append("Runway (days)", *dash.Cashflow.RunwayDays)
	}
	w.append("Active projects", dash.Totals.ActiveProjects)
	w.append("Open tenders", dash.Totals.OpenTenders)
	if agg == nil {
		return
	}
	w.append("Invoiced", agg.Invoices.Invoiced)
	w.append("Paid", agg.Invoices.Paid)
	w.append("Outstanding", agg.Invoices.Outstanding)
	w.append("Overdue", agg.Invoices.Overdue)
	w.append("Budget total", agg.Budgets.Total)
	w.append("Budget spent", agg.Budgets.Spent)
	w.append("Available budget", agg.Summary.AvailableBudget)
	w.append("Collection rate (%)", agg.Summary.CollectionRate)
	w.append("Net position", agg.Summary.NetPosition)
}

func (w *sheetWriter) projects(dash *metrics.DashboardMetrics) {
	w.start(SheetProjects, "Project", "Name", "Estimated", "Actual", "Variance", "Variance %", "Status")
	for _, it := range dash.ProjectCosts.Items {
		w.append(it.ProjectID, it.Name, it.EstimatedCost, it.ActualCost, it.Variance, it.VariancePercent, it.Status)
	}
}

func (w *sheetWriter) tenders(dash *metrics.DashboardMetrics) {
	w.start(SheetTenders, "Month", "Submitted", "Submitted value", "Won", "Won value", "Win rate %")
	for _, m := range dash.TenderMonthly {
		w.append(m.Month, m.Submitted, m.SubmittedValue, m.Won, m.WonValue, m.WinRate)
	}
}

func (w *sheetWriter) cashflow(dash *metrics.DashboardMetrics) {
	w.start(SheetCashflow, "Month", "Inflow", "Outflow", "Net")
	for _, m := range dash.Cashflow.Monthly {
		w.append(m.Month, m.Inflow, m.Outflow, m.Net)
	}
}
