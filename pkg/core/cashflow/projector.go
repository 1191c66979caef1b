package cashflow

import (
	"fmt"
	"sort"
	"time"

	"tenderflow/pkg/core/calc"
)

// DefaultPeriodDays is the observation window used when the ledger spans less than a day.
const DefaultPeriodDays = 30

const uncategorized = "uncategorized"

// Options configure a projection.
type Options struct {
	StartingBalance float64
	AsOf            *time.Time
}

// CategoryTotal is the flow of one ledger category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Inflow   float64 `json:"inflow"`
	Outflow  float64 `json:"outflow"`
	Net      float64 `json:"net"`
}

// MonthlyFlow is the flow of one calendar month.
type MonthlyFlow struct {
	Month   string  `json:"month"`
	Inflow  float64 `json:"inflow"`
	Outflow float64 `json:"outflow"`
	Net     float64 `json:"net"`
}

// Summary is the output of Projector.Summarize.
type Summary struct {
	EntryCount      int             `json:"entryCount"`
	Inflow          float64         `json:"inflow"`
	Outflow         float64         `json:"outflow"`
	Net             float64         `json:"net"`
	StartingBalance float64         `json:"startingBalance"`
	EndingBalance   float64         `json:"endingBalance"`
	BurnRate        float64         `json:"burnRate"`
	RunwayDays      *float64        `json:"runwayDays"`
	PeriodDays      float64         `json:"periodDays"`
	PeriodStart     *time.Time      `json:"periodStart"`
	PeriodEnd       *time.Time      `json:"periodEnd"`
	Categories      []CategoryTotal `json:"categories"`
	Monthly         []MonthlyFlow   `json:"monthly"`
}

// Projector is the default cashflow service. It holds no state.
type Projector struct{}

// NewProjector creates a new projector.
func NewProjector() *Projector {
	return &Projector{}
}

// Summarize totals the ledger and derives burn rate and runway.
//
// BurnRate is the average daily net outflow over the observed period and is 0
// when the ledger is cash-positive. RunwayDays is EndingBalance/BurnRate and
// nil when nothing burns.
func (p *Projector) Summarize(entries []Entry, opts Options) (Summary, error) {
	summary := Summary{
		EntryCount:      len(entries),
		StartingBalance: opts.StartingBalance,
		Categories:      []CategoryTotal{},
		Monthly:         []MonthlyFlow{},
	}

	categories := make(map[string]*CategoryTotal)
	months := make(map[string]*MonthlyFlow)
	var first, last time.Time

	for _, e := range entries {
		var in, out float64
		switch e.Type {
		case Inflow:
			in = e.Amount
		case Outflow:
			out = e.Amount
		default:
			return Summary{}, fmt.Errorf("entry %s: %w %q", e.ID, ErrUnknownEntryType, e.Type)
		}
		summary.Inflow += in
		summary.Outflow += out

		category := e.Category
		if category == "" {
			category = uncategorized
		}
		ct, ok := categories[category]
		if !ok {
			ct = &CategoryTotal{Category: category}
			categories[category] = ct
		}
		ct.Inflow += in
		ct.Outflow += out

		date := e.Date
		if date.IsZero() {
			if opts.AsOf == nil {
				continue
			}
			date = *opts.AsOf
		} else {
			if first.IsZero() || date.Before(first) {
				first = date
			}
			if last.IsZero() || date.After(last) {
				last = date
			}
		}
		key := calc.MonthKey(date)
		mf, ok := months[key]
		if !ok {
			mf = &MonthlyFlow{Month: key}
			months[key] = mf
		}
		mf.Inflow += in
		mf.Outflow += out
	}

	summary.Net = summary.Inflow - summary.Outflow
	summary.EndingBalance = summary.StartingBalance + summary.Net

	summary.PeriodDays = DefaultPeriodDays
	if !first.IsZero() {
		start, end := first, last
		summary.PeriodStart, summary.PeriodEnd = &start, &end
		if span := calc.DaysBetween(first, last); span >= 1 {
			summary.PeriodDays = span
		}
	} else if opts.AsOf != nil {
		asOf := *opts.AsOf
		summary.PeriodStart, summary.PeriodEnd = &asOf, &asOf
	}

	if summary.Net < 0 {
		summary.BurnRate = -summary.Net / summary.PeriodDays
	}
	if summary.BurnRate > 0 {
		runway := summary.EndingBalance / summary.BurnRate
		summary.RunwayDays = &runway
	}

	for _, ct := range categories {
		ct.Net = ct.Inflow - ct.Outflow
		summary.Categories = append(summary.Categories, *ct)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		return summary.Categories[i].Category < summary.Categories[j].Category
	})
	for _, mf := range months {
		mf.Net = mf.Inflow - mf.Outflow
		summary.Monthly = append(summary.Monthly, *mf)
	}
	sort.Slice(summary.Monthly, func(i, j int) bool { return summary.Monthly[i].Month < summary.Monthly[j].Month })

	return summary, nil
}
