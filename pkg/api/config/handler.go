package config

import (
	"encoding/json"
	"net/http"
	"sort"

	coreconfig "tenderflow/pkg/core/config"
)

type Response struct {
	BaseCurrency      string             `json:"baseCurrency"`
	Currencies        []string           `json:"currencies"`
	CurrencyRates     map[string]float64 `json:"currencyRates"`
	CurrencyTimestamp *string            `json:"currencyTimestamp"`
	StrictCurrency    bool               `json:"strictCurrency"`
	Workspaces        []string           `json:"digestWorkspaces"`
}

// Handler exposes the effective currency configuration to clients.
type Handler struct {
	Config *coreconfig.Config
}

// NewHandler creates a new config handler
func NewHandler(cfg *coreconfig.Config) *Handler {
	return &Handler{
		Config: cfg,
	}
}

func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	cur := h.Config.Currency
	codes := make([]string, 0, len(cur.Rates)+1)
	codes = append(codes, cur.Base)
	for code := range cur.Rates {
		codes = append(codes, code)
	}
	sort.Strings(codes[1:])

	workspaces := h.Config.Digest.Workspaces
	if workspaces == nil {
		workspaces = []string{}
	}
	rates := cur.Rates
	if rates == nil {
		rates = map[string]float64{}
	}

	resp := Response{
		BaseCurrency:      cur.Base,
		Currencies:        codes,
		CurrencyRates:     rates,
		CurrencyTimestamp: cur.TimestampPtr(),
		StrictCurrency:    cur.Strict,
		Workspaces:        workspaces,
	}
	json.NewEncoder(w).Encode(resp)
}
