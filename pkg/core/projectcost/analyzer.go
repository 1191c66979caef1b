// Package projectcost computes estimated-vs-actual cost variance and margin
// for single projects and for the whole portfolio.
package projectcost

import (
	"sort"

	"tenderflow/pkg/core/calc"
	"tenderflow/pkg/models"
)

// Variance statuses.
const (
	StatusOver    = "over"
	StatusUnder   = "under"
	StatusOnTrack = "on-track"
)

// Item is the variance of one project.
type Item struct {
	ProjectID       string  `json:"projectId"`
	Name            string  `json:"name"`
	Category        string  `json:"category,omitempty"`
	EstimatedCost   float64 `json:"estimatedCost"`
	ActualCost      float64 `json:"actualCost"`
	ContractValue   float64 `json:"contractValue"`
	Variance        float64 `json:"variance"`
	VariancePercent float64 `json:"variancePercent"`
	Status          string  `json:"status"`
}

// CategoryVariance aggregates cost items sharing a category.
type CategoryVariance struct {
	Category        string  `json:"category"`
	ItemCount       int     `json:"itemCount"`
	EstimatedCost   float64 `json:"estimatedCost"`
	ActualCost      float64 `json:"actualCost"`
	Variance        float64 `json:"variance"`
	VariancePercent float64 `json:"variancePercent"`
	Status          string  `json:"status"`
}

// Totals are the portfolio sums.
type Totals struct {
	EstimatedCost      float64 `json:"estimatedCost"`
	ActualCost         float64 `json:"actualCost"`
	ContractValue      float64 `json:"contractValue"`
	Variance           float64 `json:"variance"`
	VariancePercent    float64 `json:"variancePercent"`
	GrossMargin        float64 `json:"grossMargin"`
	GrossMarginPercent float64 `json:"grossMarginPercent"`
}

// Summary is the output of Analyzer.Summarize.
type Summary struct {
	Items                  []Item             `json:"items"`
	Totals                 Totals             `json:"totals"`
	Count                  int                `json:"count"`
	OverBudgetCount        int                `json:"overBudgetCount"`
	UnderBudgetCount       int                `json:"underBudgetCount"`
	OnTrackCount           int                `json:"onTrackCount"`
	AverageVariancePercent float64            `json:"averageVariancePercent"`
	Categories             []CategoryVariance `json:"categories"`
}

// Analyzer is the default project cost analyzer. It holds no state.
type Analyzer struct{}

// NewAnalyzer creates a new analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Summarize computes per-project and portfolio variance. It never fails; the
// error return lets substitutes that do I/O share the interface.
func (a *Analyzer) Summarize(projects []models.Project) (Summary, error) {
	summary := Summary{
		Items:      make([]Item, 0, len(projects)),
		Categories: []CategoryVariance{},
	}
	percents := make([]float64, 0, len(projects))

	for _, p := range projects {
		item := itemFor(p)
		summary.Items = append(summary.Items, item)
		percents = append(percents, item.VariancePercent)

		summary.Totals.EstimatedCost += item.EstimatedCost
		summary.Totals.ActualCost += item.ActualCost
		summary.Totals.ContractValue += item.ContractValue

		switch item.Status {
		case StatusOver:
			summary.OverBudgetCount++
		case StatusUnder:
			summary.UnderBudgetCount++
		default:
			summary.OnTrackCount++
		}
	}

	t := &summary.Totals
	t.Variance = t.EstimatedCost - t.ActualCost
	t.VariancePercent = calc.Percent(t.Variance, t.EstimatedCost)
	t.GrossMargin = t.ContractValue - t.ActualCost
	t.GrossMarginPercent = calc.Percent(t.GrossMargin, t.ContractValue)

	summary.Count = len(summary.Items)
	summary.AverageVariancePercent = calc.Mean(percents)
	summary.Categories = categoryBreakdown(projects)

	return summary, nil
}

func itemFor(p models.Project) Item {
	estimated := p.EstimatedCost
	actual := p.ActualAmount()
	variance := estimated - actual
	return Item{
		ProjectID:       p.ID,
		Name:            p.Name,
		Category:        p.Category,
		EstimatedCost:   estimated,
		ActualCost:      actual,
		ContractValue:   p.ContractAmount(),
		Variance:        variance,
		VariancePercent: calc.Percent(variance, estimated),
		Status:          varianceStatus(estimated, actual),
	}
}

func varianceStatus(estimated, actual float64) string {
	switch {
	case actual > estimated:
		return StatusOver
	case actual < estimated:
		return StatusUnder
	}
	return StatusOnTrack
}

// categoryBreakdown groups cost items by category. A project without cost
// items but with a category counts as a single item of that category.
func categoryBreakdown(projects []models.Project) []CategoryVariance {
	groups := make(map[string]*CategoryVariance)
	add := func(category string, estimated, actual float64) {
		if category == "" {
			return
		}
		g, ok := groups[category]
		if !ok {
			g = &CategoryVariance{Category: category}
			groups[category] = g
		}
		g.ItemCount++
		g.EstimatedCost += estimated
		g.ActualCost += actual
	}

	for _, p := range projects {
		if len(p.CostItems) == 0 {
			add(p.Category, p.EstimatedCost, p.ActualAmount())
			continue
		}
		for _, ci := range p.CostItems {
			add(ci.Category, ci.EstimatedCost, ci.ActualCost)
		}
	}

	out := make([]CategoryVariance, 0, len(groups))
	for _, g := range groups {
		g.Variance = g.EstimatedCost - g.ActualCost
		g.VariancePercent = calc.Percent(g.Variance, g.EstimatedCost)
		g.Status = varianceStatus(g.EstimatedCost, g.ActualCost)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
