// Package tender summarizes tender pipelines: outcome counts, values, win
// rate, cycle time and monthly submission trends.
package tender

import (
	"sort"

	"tenderflow/pkg/core/calc"
	"tenderflow/pkg/models"
)

// ClosingSoonThreshold is the default number of days left under which an
// open tender is closing soon.
const ClosingSoonThreshold = 14

// Buckets are mutually exclusive counts by status.
type Buckets struct {
	Submitted   int `json:"submitted"`
	Won         int `json:"won"`
	Lost        int `json:"lost"`
	Waiting     int `json:"waiting"`
	UnderReview int `json:"underReview"`
	Cancelled   int `json:"cancelled"`
}

// Summary is the output of Summarizer.Summarize.
//
// Submitted and SubmittedValue count every tender that has passed submission
// (submitted, under_review, awaiting_results, won, lost). WinRate is won over
// that population.
type Summary struct {
	Total            int      `json:"total"`
	Submitted        int      `json:"submitted"`
	SubmittedValue   float64  `json:"submittedValue"`
	Won              int      `json:"won"`
	WonValue         float64  `json:"wonValue"`
	Lost             int      `json:"lost"`
	LostValue        float64  `json:"lostValue"`
	Open             int      `json:"open"`
	OpenValue        float64  `json:"openValue"`
	ClosingSoon      int      `json:"closingSoon"`
	WinRate          float64  `json:"winRate"`
	AverageCycleDays *float64 `json:"averageCycleDays"`
	Buckets          Buckets  `json:"buckets"`
}

// MonthlyStat is one (year, month) bucket of submissions.
type MonthlyStat struct {
	Month          string  `json:"month"`
	Year           int     `json:"year"`
	MonthNumber    int     `json:"monthNumber"`
	Submitted      int     `json:"submitted"`
	SubmittedValue float64 `json:"submittedValue"`
	Won            int     `json:"won"`
	WonValue       float64 `json:"wonValue"`
	WinRate        float64 `json:"winRate"`
}

// HasPassedSubmission reports whether the tender counts as submitted for win-rate purposes.
func HasPassedSubmission(status models.TenderStatus) bool {
	switch status {
	case models.TenderSubmitted, models.TenderUnderReview, models.TenderAwaitingResults,
		models.TenderWon, models.TenderLost:
		return true
	}
	return false
}

// IsClosingSoon reports an open tender whose deadline is within threshold days.
func IsClosingSoon(t models.Tender, threshold int) bool {
	return t.IsOpen() && t.DaysLeft != nil && *t.DaysLeft <= threshold
}

// Summarizer is the default tender service. It holds no state.
type Summarizer struct{}

// NewSummarizer creates a new summarizer.
func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

// Summarize computes counts, values, win rate and average cycle time.
func (s *Summarizer) Summarize(tenders []models.Tender) (Summary, error) {
	summary := Summary{Total: len(tenders)}
	var cycles []float64

	for _, t := range tenders {
		value := t.Amount()
		classify(&summary.Buckets, t.Status)

		if HasPassedSubmission(t.Status) {
			summary.Submitted++
			summary.SubmittedValue += value
		}
		switch t.Status {
		case models.TenderWon:
			summary.Won++
			summary.WonValue += value
		case models.TenderLost:
			summary.Lost++
			summary.LostValue += value
		}
		if t.IsOpen() {
			summary.Open++
			summary.OpenValue += value
		}
		if IsClosingSoon(t, ClosingSoonThreshold) {
			summary.ClosingSoon++
		}

		if resolved := t.ResolutionDate(); resolved != nil && t.SubmissionDate != nil {
			cycles = append(cycles, calc.DaysBetween(*t.SubmissionDate, *resolved))
		}
	}

	summary.WinRate = calc.RoundPercent(float64(summary.Won), float64(summary.Submitted))
	if len(cycles) > 0 {
		avg := calc.Mean(cycles)
		summary.AverageCycleDays = &avg
	}
	return summary, nil
}

func classify(b *Buckets, status models.TenderStatus) {
	switch status {
	case models.TenderSubmitted:
		b.Submitted++
	case models.TenderWon:
		b.Won++
	case models.TenderLost:
		b.Lost++
	case models.TenderNew, models.TenderReadyToSubmit:
		b.Waiting++
	case models.TenderUnderReview, models.TenderUnderAction, models.TenderAwaitingResults:
		b.UnderReview++
	case models.TenderCancelled:
		b.Cancelled++
	}
}

// Monthly buckets submitted tenders by the UTC month of their submission
// date, using the same submission rule as Summarize. Tenders without a
// submission date are skipped. Buckets are sorted chronologically.
func (s *Summarizer) Monthly(tenders []models.Tender) ([]MonthlyStat, error) {
	byMonth := make(map[string]*MonthlyStat)
	for _, t := range tenders {
		if t.SubmissionDate == nil || !HasPassedSubmission(t.Status) {
			continue
		}
		submitted := t.SubmissionDate.UTC()
		key := calc.MonthKey(submitted)
		stat, ok := byMonth[key]
		if !ok {
			stat = &MonthlyStat{Month: key, Year: submitted.Year(), MonthNumber: int(submitted.Month())}
			byMonth[key] = stat
		}
		value := t.Amount()
		stat.Submitted++
		stat.SubmittedValue += value
		if t.Status == models.TenderWon {
			stat.Won++
			stat.WonValue += value
		}
	}

	out := make([]MonthlyStat, 0, len(byMonth))
	for _, stat := range byMonth {
		stat.WinRate = calc.RoundPercent(float64(stat.Won), float64(stat.Submitted))
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}
