// Package cashflow synthesizes a cash ledger from invoices, expenses and bank
// account projections, and derives balances, burn rate and runway from it.
package cashflow

import (
	"errors"
	"fmt"
	"time"

	"tenderflow/pkg/models"
)

// EntryType is the direction of a ledger entry.
type EntryType string

const (
	Inflow  EntryType = "inflow"
	Outflow EntryType = "outflow"
)

// Ledger categories for synthesized entries.
const (
	CategoryProjectedInflow  = "projected-inflow"
	CategoryProjectedOutflow = "projected-outflow"
	CategoryReceivables      = "receivables"
	CategoryExpenses         = "expenses"
)

var (
	// ErrMissingID marks a source record that cannot yield a traceable entry id.
	ErrMissingID = errors.New("source record has no id")
	// ErrUnknownEntryType marks an entry that is neither inflow nor outflow.
	ErrUnknownEntryType = errors.New("unknown cashflow entry type")
)

// Entry is one movement of cash in the base currency. A zero Date means the
// entry is undated.
type Entry struct {
	ID       string    `json:"id"`
	Type     EntryType `json:"type"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
	SourceID string    `json:"sourceId"`
}

// Converter turns an amount in a currency code into the base currency.
type Converter func(amount float64, code string) (float64, error)

// LedgerInput holds the records a ledger is derived from. AsOf dates the
// expected monthly movements of bank accounts.
type LedgerInput struct {
	BankAccounts []models.BankAccount
	Invoices     []models.Invoice
	Expenses     []models.Expense
	AsOf         *time.Time
}

// BuildLedger derives the ledger. Entry ids are "<sourceId>-<role>", so the
// same records always produce the same entries. A nil converter keeps amounts as given.
func BuildLedger(in LedgerInput, convert Converter) ([]Entry, error) {
	if convert == nil {
		convert = func(amount float64, _ string) (float64, error) { return amount, nil }
	}
	var asOf time.Time
	if in.AsOf != nil {
		asOf = *in.AsOf
	}

	entries := make([]Entry, 0, 2*len(in.BankAccounts)+len(in.Invoices)+len(in.Expenses))

	for _, acc := range in.BankAccounts {
		if acc.ID == "" {
			return nil, fmt.Errorf("bank account %q: %w", acc.Name, ErrMissingID)
		}
		inflow, err := convert(acc.MonthlyInflow, acc.Currency)
		if err != nil {
			return nil, fmt.Errorf("bank account %s inflow: %w", acc.ID, err)
		}
		outflow, err := convert(acc.MonthlyOutflow, acc.Currency)
		if err != nil {
			return nil, fmt.Errorf("bank account %s outflow: %w", acc.ID, err)
		}
		entries = append(entries,
			Entry{ID: acc.ID + "-expected-inflow", Type: Inflow, Amount: inflow, Date: asOf, Category: CategoryProjectedInflow, SourceID: acc.ID},
			Entry{ID: acc.ID + "-expected-outflow", Type: Outflow, Amount: outflow, Date: asOf, Category: CategoryProjectedOutflow, SourceID: acc.ID},
		)
	}

	for _, inv := range in.Invoices {
		if inv.Status == models.InvoicePaid || inv.Status == models.InvoiceCancelled {
			continue
		}
		if inv.ID == "" {
			return nil, fmt.Errorf("invoice %q: %w", inv.Number, ErrMissingID)
		}
		amount, err := convert(inv.Total, inv.Currency)
		if err != nil {
			return nil, fmt.Errorf("invoice %s: %w", inv.ID, err)
		}
		entries = append(entries, Entry{
			ID:       inv.ID + "-receivable",
			Type:     Inflow,
			Amount:   amount,
			Date:     firstDate(inv.DueDate, inv.IssueDate),
			Category: CategoryReceivables,
			SourceID: inv.ID,
		})
	}

	for _, exp := range in.Expenses {
		if exp.ID == "" {
			return nil, fmt.Errorf("expense: %w", ErrMissingID)
		}
		amount, err := convert(exp.Amount, exp.Currency)
		if err != nil {
			return nil, fmt.Errorf("expense %s: %w", exp.ID, err)
		}
		category := exp.Category
		if category == "" {
			category = CategoryExpenses
		}
		entries = append(entries, Entry{
			ID:       exp.ID + "-expense",
			Type:     Outflow,
			Amount:   amount,
			Date:     firstDate(exp.CreatedAt),
			Category: category,
			SourceID: exp.ID,
		})
	}

	return entries, nil
}

func firstDate(candidates ...*time.Time) time.Time {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return time.Time{}
}
