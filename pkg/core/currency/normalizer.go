// Package currency converts monetary amounts into a single base currency.
//
// Rate convention: the table holds units of the foreign currency per one unit
// of the base currency, so base = foreign / rate. With SAR as base and
// USD = 3.75, 10,000 USD normalizes to 2,666.67 SAR.
package currency

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"tenderflow/pkg/core/calc"
)

// DefaultBase is used when no base currency is configured.
const DefaultBase = "SAR"

// ErrMissingRate is returned by Convert when a non-base currency has no usable rate.
var ErrMissingRate = errors.New("missing currency rate")

// Info is the audit echo of the currency configuration used for a computation.
type Info struct {
	Base         string             `json:"base"`
	Rates        map[string]float64 `json:"rates"`
	Timestamp    *string            `json:"timestamp"`
	MissingRates []string           `json:"missingRates"`
}

// Normalizer converts amounts with a fixed rate table. It records every
// currency that had to fall back to the identity rate, so one Normalizer
// belongs to one computation and is not safe for concurrent use.
type Normalizer struct {
	base      string
	rates     map[string]float64
	lookup    map[string]float64
	timestamp *string
	missing   map[string]bool
}

// New builds a normalizer. The rate table is copied; the copy returned by Info
// keeps the caller's keys untouched.
func New(base string, rates map[string]float64, timestamp *string) *Normalizer {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		base = DefaultBase
	}
	n := &Normalizer{
		base:      base,
		rates:     make(map[string]float64, len(rates)),
		lookup:    make(map[string]float64, len(rates)),
		timestamp: timestamp,
		missing:   make(map[string]bool),
	}
	codes := make([]string, 0, len(rates))
	for code, rate := range rates {
		n.rates[code] = rate
		codes = append(codes, code)
	}
	// Keys that collide after upper-casing resolve in sorted order, and an
	// exact upper-case key always wins.
	sort.Strings(codes)
	exact := make(map[string]bool, len(codes))
	for _, code := range codes {
		key := strings.ToUpper(strings.TrimSpace(code))
		if exact[key] {
			continue
		}
		n.lookup[key] = rates[code]
		exact[key] = code == key
	}
	return n
}

// Base returns the base currency code.
func (n *Normalizer) Base() string { return n.base }

// Convert returns amount expressed in the base currency, rounded to cents.
// The base currency (or an empty code) is returned unchanged without a lookup.
func (n *Normalizer) Convert(amount float64, code string) (float64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || code == n.base {
		return amount, nil
	}
	rate, ok := n.lookup[code]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrMissingRate, code)
	}
	return calc.Round2(amount / rate), nil
}

// Normalize is Convert with the degraded policy: a missing rate is treated as
// 1 and the currency is recorded in MissingRates.
func (n *Normalizer) Normalize(amount float64, code string) float64 {
	v, err := n.Convert(amount, code)
	if err != nil {
		n.missing[strings.ToUpper(strings.TrimSpace(code))] = true
		return amount
	}
	return v
}

// MissingRates lists the currencies normalized with the identity fallback, sorted.
func (n *Normalizer) MissingRates() []string {
	out := make([]string, 0, len(n.missing))
	for code := range n.missing {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Info returns the configuration echo. Rates is the injected table as given.
func (n *Normalizer) Info() Info {
	rates := make(map[string]float64, len(n.rates))
	for code, rate := range n.rates {
		rates[code] = rate
	}
	return Info{
		Base:         n.base,
		Rates:        rates,
		Timestamp:    n.timestamp,
		MissingRates: n.MissingRates(),
	}
}
