package models

import "time"

// Invoice statuses.
const (
	InvoiceDraft     = "draft"
	InvoiceSent      = "sent"
	InvoiceOverdue   = "overdue"
	InvoicePaid      = "paid"
	InvoiceCancelled = "cancelled"
)

// Invoice is a receivable issued to a client.
type Invoice struct {
	ID        string     `json:"id"`
	Number    string     `json:"number,omitempty"`
	ClientID  string     `json:"clientId,omitempty"`
	Status    string     `json:"status"`
	Currency  string     `json:"currency,omitempty"`
	Total     float64    `json:"total"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
	IssueDate *time.Time `json:"issueDate,omitempty"`
	PaidAt    *time.Time `json:"paidAt,omitempty"`
}

// IsOutstanding is true for drafts and for invoices sent but not yet settled.
func (i Invoice) IsOutstanding() bool {
	switch i.Status {
	case InvoiceDraft, InvoiceSent, InvoiceOverdue:
		return true
	}
	return false
}

// Budget is an allocation with its consumption so far.
type Budget struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name,omitempty"`
	TotalAmount           float64  `json:"totalAmount"`
	SpentAmount           float64  `json:"spentAmount"`
	UtilizationPercentage *float64 `json:"utilizationPercentage,omitempty"`
}

// Utilization returns the stored percentage, or spent/total*100 when none was stored.
func (b Budget) Utilization() float64 {
	if b.UtilizationPercentage != nil {
		return *b.UtilizationPercentage
	}
	if b.TotalAmount == 0 {
		return 0
	}
	return b.SpentAmount / b.TotalAmount * 100
}

// Expense is a booked cost.
type Expense struct {
	ID        string     `json:"id"`
	Amount    float64    `json:"amount"`
	Currency  string     `json:"currency,omitempty"`
	Category  string     `json:"category,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// BankAccount carries the current balance and the expected monthly movements.
type BankAccount struct {
	ID             string  `json:"id"`
	Name           string  `json:"name,omitempty"`
	Currency       string  `json:"currency,omitempty"`
	CurrentBalance float64 `json:"currentBalance"`
	MonthlyInflow  float64 `json:"monthlyInflow"`
	MonthlyOutflow float64 `json:"monthlyOutflow"`
}
