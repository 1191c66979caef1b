// Package models holds the read-only record shapes consumed by the metrics engine.
// The writer side of the system owns these documents; nothing here validates them.
package models

import (
	"time"
)

// Project health values.
const (
	HealthGreen  = "green"
	HealthYellow = "yellow"
	HealthRed    = "red"
)

// RiskHigh is the risk level that flags a project regardless of health.
const RiskHigh = "high"

// CostItem is one estimated-vs-actual line of a project budget.
type CostItem struct {
	ID            string  `json:"id"`
	Category      string  `json:"category"`
	Label         string  `json:"label,omitempty"`
	EstimatedCost float64 `json:"estimatedCost"`
	ActualCost    float64 `json:"actualCost"`
}

// Project is a delivery project. ContractValue, Budget and Value are aliases
// populated inconsistently by different editors.
type Project struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	ClientID      string     `json:"clientId,omitempty"`
	Status        string     `json:"status"`
	Health        string     `json:"health"`
	RiskLevel     string     `json:"riskLevel"`
	Category      string     `json:"category,omitempty"`
	ContractValue float64    `json:"contractValue"`
	Budget        float64    `json:"budget"`
	Value         float64    `json:"value"`
	EstimatedCost float64    `json:"estimatedCost"`
	ActualCost    float64    `json:"actualCost"`
	Spent         float64    `json:"spent"`
	Progress      float64    `json:"progress"`
	LastUpdate    *time.Time `json:"lastUpdate,omitempty"`
	CostItems     []CostItem `json:"costItems,omitempty"`
}

// ContractAmount returns the first non-zero of ContractValue, Budget and Value.
func (p Project) ContractAmount() float64 {
	switch {
	case p.ContractValue != 0:
		return p.ContractValue
	case p.Budget != 0:
		return p.Budget
	default:
		return p.Value
	}
}

// ActualAmount returns ActualCost, falling back to Spent when no actual cost was booked.
func (p Project) ActualAmount() float64 {
	if p.ActualCost != 0 {
		return p.ActualCost
	}
	return p.Spent
}

// IsAtRisk reports a red health flag or a high risk level.
func (p Project) IsAtRisk() bool {
	return p.Health == HealthRed || p.RiskLevel == RiskHigh
}

var inactiveProjectStatuses = map[string]bool{
	"completed": true,
	"cancelled": true,
	"closed":    true,
	"archived":  true,
}

// IsActive reports whether the project still consumes delivery capacity.
func (p Project) IsActive() bool {
	return !inactiveProjectStatuses[p.Status]
}
