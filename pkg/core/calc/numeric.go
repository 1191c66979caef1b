package calc

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Round2 rounds to cents, half away from zero. Float arithmetic alone turns
// 2666.665 into 2666.66, so the rounding goes through a decimal.
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

// SafeDiv returns a/b, or 0 when b is zero.
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Percent returns part as a percentage of whole (0 when whole is zero).
func Percent(part, whole float64) float64 {
	return SafeDiv(part, whole) * 100
}

// RoundPercent is Percent rounded to the nearest whole percent.
func RoundPercent(part, whole float64) float64 {
	return math.Round(Percent(part, whole))
}

// Mean is the simple arithmetic mean; 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// DaysBetween returns the fractional number of days from a to b.
func DaysBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24
}

// MonthKey formats the UTC year and month of t as "YYYY-MM".
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}
