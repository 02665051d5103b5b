// Package numeric provides safe floating-point helpers for attribution
// math. Non-finite values (NaN, ±Inf) are coerced locally so a single
// corrupt observation never invalidates a whole period.
package numeric

import (
	"math"
	"time"

	"github.com/rs/zerolog"
)

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CoerceFinite returns v when finite, otherwise 0. The second result
// reports whether v was already finite.
func CoerceFinite(v float64) (float64, bool) {
	if IsFinite(v) {
		return v, true
	}
	return 0, false
}

// SafeDivide returns num/den, or fallback when den is zero or the
// quotient is non-finite.
func SafeDivide(num, den, fallback float64) float64 {
	if den == 0 {
		return fallback
	}
	q := num / den
	if !IsFinite(q) {
		return fallback
	}
	return q
}

// Compound geometrically links periodic returns: Π(1+r_i) - 1.
func Compound(returns []float64) float64 {
	product := 1.0
	for _, r := range returns {
		product *= 1 + r
	}
	return product - 1
}

// AnomalyLog counts per-value numeric anomalies within a single engine
// run and logs each occurrence, so coercions are observable rather than
// silently dropped. One instance is created per computation; it is not
// safe for concurrent use.
type AnomalyLog struct {
	log   zerolog.Logger
	count int
}

// NewAnomalyLog creates an anomaly log for one computation run.
func NewAnomalyLog(log zerolog.Logger) *AnomalyLog {
	return &AnomalyLog{log: log}
}

// Coerce returns v when finite, otherwise 0, recording the anomaly with
// the asset, date, and field it affected.
func (a *AnomalyLog) Coerce(v float64, asset string, date time.Time, field string) float64 {
	coerced, ok := CoerceFinite(v)
	if !ok {
		a.count++
		a.log.Debug().
			Str("asset", asset).
			Time("date", date).
			Str("field", field).
			Msg("Non-finite value coerced to zero")
	}
	return coerced
}

// Count returns the number of anomalies recorded so far.
func (a *AnomalyLog) Count() int {
	return a.count
}
