package models

import "time"

// TenderStatus is the lifecycle state of a tender.
type TenderStatus string

const (
	TenderNew             TenderStatus = "new"
	TenderSubmitted       TenderStatus = "submitted"
	TenderUnderReview     TenderStatus = "under_review"
	TenderUnderAction     TenderStatus = "under_action"
	TenderReadyToSubmit   TenderStatus = "ready_to_submit"
	TenderAwaitingResults TenderStatus = "awaiting_results"
	TenderWon             TenderStatus = "won"
	TenderLost            TenderStatus = "lost"
	TenderCancelled       TenderStatus = "cancelled"
)

// Tender is a bid for a contract. DaysLeft is negative once the deadline passed.
type Tender struct {
	ID             string       `json:"id"`
	Title          string       `json:"title,omitempty"`
	Status         TenderStatus `json:"status"`
	TotalValue     float64      `json:"totalValue"`
	Value          float64      `json:"value"`
	DaysLeft       *int         `json:"daysLeft,omitempty"`
	SubmissionDate *time.Time   `json:"submissionDate,omitempty"`
	WinDate        *time.Time   `json:"winDate,omitempty"`
	LostDate       *time.Time   `json:"lostDate,omitempty"`
}

// Amount returns TotalValue, or Value when no total was recorded.
func (t Tender) Amount() float64 {
	if t.TotalValue != 0 {
		return t.TotalValue
	}
	return t.Value
}

// IsOpen is true until the tender is won, lost or cancelled.
func (t Tender) IsOpen() bool {
	switch t.Status {
	case TenderWon, TenderLost, TenderCancelled:
		return false
	}
	return true
}

// ResolutionDate is the win date of a won tender or the lost date of a lost one.
func (t Tender) ResolutionDate() *time.Time {
	switch t.Status {
	case TenderWon:
		return t.WinDate
	case TenderLost:
		return t.LostDate
	}
	return nil
}
