package models

import "time"

// Report is a generated report document.
type Report struct {
	ID          string     `json:"id"`
	Name        string     `json:"name,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Timestamp is the completion time, or the creation time for unfinished reports.
func (r Report) Timestamp() *time.Time {
	if r.CompletedAt != nil {
		return r.CompletedAt
	}
	return r.CreatedAt
}

// PaymentRatingExcellent is the top payment rating tier.
const PaymentRatingExcellent = "excellent"

// Client is a customer account.
type Client struct {
	ID                string `json:"id"`
	Name              string `json:"name,omitempty"`
	CompletedProjects int    `json:"completedProjects"`
	PaymentRating     string `json:"paymentRating,omitempty"`
}

// Snapshot is every collection of one workspace, loaded at a single point in time.
type Snapshot struct {
	Workspace    string        `json:"workspace,omitempty"`
	Projects     []Project     `json:"projects"`
	Tenders      []Tender      `json:"tenders"`
	Invoices     []Invoice     `json:"invoices"`
	Budgets      []Budget      `json:"budgets"`
	Expenses     []Expense     `json:"expenses"`
	BankAccounts []BankAccount `json:"bankAccounts"`
	Reports      []Report      `json:"reports"`
	Clients      []Client      `json:"clients"`
}
