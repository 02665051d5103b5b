// Package domain provides the core value types of the attribution engine.
package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Granularity represents a reporting period length.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// Valid reports whether g is one of the known granularities.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
		return true
	}
	return false
}

// NewDay normalizes a timestamp to its calendar date (midnight UTC).
// All date axes are normalized through this before alignment, so series
// recorded with different intraday timestamps or zones still intersect.
func NewDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Point is a single dated observation in a return or weight series.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is an ordered sequence of dated observations.
// Dates must be unique and ascending; Validate enforces this.
type Series []Point

// Validate checks that dates are unique and strictly ascending.
// The name identifies the offending series in the returned error.
func (s Series) Validate(name string) error {
	for i := 1; i < len(s); i++ {
		prev := NewDay(s[i-1].Date)
		curr := NewDay(s[i].Date)
		if !curr.After(prev) {
			return &MalformedInputError{
				Input:  name,
				Reason: fmt.Sprintf("dates not strictly ascending at index %d (%s)", i, curr.Format("2006-01-02")),
			}
		}
	}
	return nil
}

// ReturnSeries maps an asset identifier to its periodic return series.
type ReturnSeries map[string]Series

// WeightSeries maps an asset identifier to its portfolio weight series.
// The weight recorded at date d is the weight held going into the return
// realized at the next date (beginning-of-period convention).
type WeightSeries map[string]Series

// Assets returns the sorted asset identifiers present in the series map.
func (r ReturnSeries) Assets() []string {
	return sortedKeys(map[string]Series(r))
}

// Assets returns the sorted asset identifiers present in the series map.
func (w WeightSeries) Assets() []string {
	return sortedKeys(map[string]Series(w))
}

func sortedKeys(m map[string]Series) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PortfolioPoint is a dated portfolio valuation. Return is the periodic
// return supplied by the producer, or NaN when none was supplied (the
// engine then derives it from consecutive values).
type PortfolioPoint struct {
	Date   time.Time `json:"date"`
	Value  float64   `json:"value"`
	Return float64   `json:"return"`
}

// PortfolioSeries is an ordered sequence of portfolio valuations.
type PortfolioSeries []PortfolioPoint

// NewPortfolioPoint builds a valuation point without a supplied return.
func NewPortfolioPoint(date time.Time, value float64) PortfolioPoint {
	return PortfolioPoint{Date: date, Value: value, Return: math.NaN()}
}

// SectorOther is the bucket for assets without a sector mapping, so
// sector totals stay complete.
const SectorOther = "Other"

// SectorMap maps asset identifiers to sector names (many-to-one).
type SectorMap map[string]string

// SectorOf returns the sector for an asset, or SectorOther when unmapped.
func (m SectorMap) SectorOf(asset string) string {
	if s, ok := m[asset]; ok && s != "" {
		return s
	}
	return SectorOther
}

// BenchmarkWeights maps sector names to benchmark weight fractions.
// These are exogenous configuration, never derived from the portfolio
// and never mutated by the engine.
type BenchmarkWeights map[string]float64

// Clone returns an independent copy so callers' configuration cannot be
// aliased by engine outputs.
func (b BenchmarkWeights) Clone() BenchmarkWeights {
	out := make(BenchmarkWeights, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// AlignedTable is the strongly-typed result of time-series alignment:
// one row per common date, one column per common asset. Returns and
// Weights slices are indexed by date position, parallel to Dates.
// PortfolioValues/PortfolioReturns are nil when alignment ran without a
// portfolio series (the sector attribution path).
type AlignedTable struct {
	Dates            []time.Time          `json:"dates"`
	Assets           []string             `json:"assets"`
	PortfolioValues  []float64            `json:"portfolio_values,omitempty"`
	PortfolioReturns []float64            `json:"portfolio_returns,omitempty"`
	Returns          map[string][]float64 `json:"returns"`
	Weights          map[string][]float64 `json:"weights"`
}

// NumDates returns the number of aligned dates.
func (t *AlignedTable) NumDates() int {
	return len(t.Dates)
}
