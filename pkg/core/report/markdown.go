// Package report renders engine output as Markdown, HTML and Excel.
package report

import (
	"fmt"
	"strings"
	"time"

	"tenderflow/pkg/core/highlights"
	"tenderflow/pkg/core/metrics"
)

const dateLayout = "2006-01-02"

// Markdown renders the dashboard and highlights as a Markdown document with
// GFM tables.
func Markdown(title string, dash *metrics.DashboardMetrics, h highlights.Highlights) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	if dash.AsOf != nil {
		fmt.Fprintf(&b, "As of %s. ", dash.AsOf.Format(dateLayout))
	}
	fmt.Fprintf(&b, "Amounts in %s.\n\n", dash.Currency.Base)
	if len(dash.Currency.MissingRates) > 0 {
		fmt.Fprintf(&b, "> Converted at 1:1, no rate configured: %s\n\n", strings.Join(dash.Currency.MissingRates, ", "))
	}

	b.WriteString("## Totals\n\n")
	table(&b, []string{"Metric", "Value"}, [][]string{
		{"Cash on hand", money(dash.Totals.CashOnHand)},
		{"Monthly burn", money(dash.Totals.MonthlyBurn)},
		{"Runway (days)", optional(dash.Cashflow.RunwayDays)},
		{"Active projects", fmt.Sprint(dash.Totals.ActiveProjects)},
		{"Open tenders", fmt.Sprint(dash.Totals.OpenTenders)},
	})

	b.WriteString("## Project costs\n\n")
	pc := dash.ProjectCosts
	fmt.Fprintf(&b, "%d projects: %d over budget, %d under, %d on track. Gross margin %s (%.1f%%).\n\n",
		pc.Count, pc.OverBudgetCount, pc.UnderBudgetCount, pc.OnTrackCount,
		money(pc.Totals.GrossMargin), pc.Totals.GrossMarginPercent)
	if len(pc.Categories) > 0 {
		rows := make([][]string, 0, len(pc.Categories))
		for _, c := range pc.Categories {
			rows = append(rows, []string{c.Category, money(c.EstimatedCost), money(c.ActualCost), money(c.Variance), c.Status})
		}
		table(&b, []string{"Category", "Estimated", "Actual", "Variance", "Status"}, rows)
	}

	b.WriteString("## Tenders\n\n")
	ts := dash.Tenders
	table(&b, []string{"Total", "Submitted", "Won", "Lost", "Win rate", "Pipeline"}, [][]string{{
		fmt.Sprint(ts.Total), fmt.Sprint(ts.Submitted), fmt.Sprint(ts.Won), fmt.Sprint(ts.Lost),
		fmt.Sprintf("%.0f%%", ts.WinRate), money(ts.OpenValue),
	}})

	b.WriteString("## Cashflow\n\n")
	cf := dash.Cashflow
	if len(cf.Monthly) == 0 {
		b.WriteString("No dated cash movements.\n\n")
	} else {
		rows := make([][]string, 0, len(cf.Monthly))
		for _, m := range cf.Monthly {
			rows = append(rows, []string{m.Month, money(m.Inflow), money(m.Outflow), money(m.Net)})
		}
		table(&b, []string{"Month", "Inflow", "Outflow", "Net"}, rows)
	}

	b.WriteString("## Needs attention\n\n")
	section(&b, "Outstanding invoices", len(h.OutstandingInvoices), func(i int) string {
		inv := h.OutstandingInvoices[i]
		return fmt.Sprintf("%s: %s, %s, due %s", label(inv.Number, inv.ID), amount(inv.Total, inv.Currency), inv.Status, date(inv.DueDate))
	})
	section(&b, "Budgets at risk", len(h.BudgetsAtRisk), func(i int) string {
		bud := h.BudgetsAtRisk[i]
		return fmt.Sprintf("%s: %.1f%% used", label(bud.Name, bud.ID), bud.Utilization())
	})
	section(&b, "Projects at risk", len(h.ProjectsAtRisk), func(i int) string {
		p := h.ProjectsAtRisk[i]
		return fmt.Sprintf("%s: health %s, risk %s", label(p.Name, p.ID), p.Health, p.RiskLevel)
	})
	section(&b, "Tenders closing soon", len(h.TendersClosingSoon), func(i int) string {
		t := h.TendersClosingSoon[i]
		return fmt.Sprintf("%s: %d days left", label(t.Title, t.ID), *t.DaysLeft)
	})
	section(&b, "Recent reports", len(h.RecentReports), func(i int) string {
		r := h.RecentReports[i]
		return fmt.Sprintf("%s: %s, %s", label(r.Name, r.ID), r.Status, date(r.Timestamp()))
	})

	return b.String()
}

func table(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(header, " | ") + " |\n|")
	for range header {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")
}

func section(b *strings.Builder, heading string, n int, line func(int) string) {
	fmt.Fprintf(b, "### %s\n\n", heading)
	if n == 0 {
		b.WriteString("None.\n\n")
		return
	}
	for i := 0; i < n; i++ {
		fmt.Fprintf(b, "- %s\n", line(i))
	}
	b.WriteString("\n")
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func amount(v float64, code string) string {
	if code == "" {
		return money(v)
	}
	return money(v) + " " + code
}

func optional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *v)
}

func date(t *time.Time) string {
	if t == nil {
		return "n/a"
	}
	return t.Format(dateLayout)
}

func label(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
