package brinson

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/attribution/domain"
)

func day(n int) time.Time {
	return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
}

// techTable builds a single-period table whose Tech sector has
// wp=0.5, rp=0.05 and equal-weighted constituent return rb=0.02.
func techTable() *domain.AlignedTable {
	return &domain.AlignedTable{
		Dates:  []time.Time{day(1), day(2)},
		Assets: []string{"AAPL", "MSFT"},
		Returns: map[string][]float64{
			"AAPL": {math.NaN(), 0.17},
			"MSFT": {math.NaN(), -0.13},
		},
		Weights: map[string][]float64{
			"AAPL": {0.3, 0.3},
			"MSFT": {0.2, 0.2},
		},
	}
}

func TestComputeBrinsonEffects(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	records, anomalies := engine.Compute(
		techTable(),
		domain.SectorMap{"AAPL": "Tech", "MSFT": "Tech"},
		domain.BenchmarkWeights{"Tech": 0.3},
	)
	require.Len(t, records, 1)
	assert.Equal(t, 0, anomalies)

	rec := records[0]
	assert.True(t, rec.Date.Equal(day(2)))
	assert.Equal(t, "Tech", rec.Sector)
	assert.InDelta(t, 0.5, rec.PortfolioWeight, 1e-12)
	assert.InDelta(t, 0.3, rec.BenchmarkWeight, 1e-12)
	assert.InDelta(t, 0.05, rec.PortfolioReturn, 1e-12)
	assert.InDelta(t, 0.02, rec.BenchmarkReturn, 1e-12)

	assert.InDelta(t, 0.004, rec.AllocationEffect, 1e-12)
	assert.InDelta(t, 0.009, rec.SelectionEffect, 1e-12)
	assert.InDelta(t, 0.006, rec.InteractionEffect, 1e-12)
	assert.InDelta(t, 0.019, rec.TotalEffect, 1e-12)

	// Brinson identity: total == wp*rp - wb*rb.
	assert.InDelta(t, 0.5*0.05-0.3*0.02, rec.TotalEffect, 1e-12)
}

// For every sector and period the three effects must sum to the active
// contribution wp*rp - wb*rb.
func TestComputeBrinsonIdentity(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	table := &domain.AlignedTable{
		Dates:  []time.Time{day(1), day(2), day(3), day(4)},
		Assets: []string{"AAPL", "JPM", "MSFT", "XOM"},
		Returns: map[string][]float64{
			"AAPL": {0, 0.02, -0.01, 0.015},
			"JPM":  {0, 0.005, 0.01, -0.02},
			"MSFT": {0, -0.03, 0.02, 0.004},
			"XOM":  {0, 0.01, 0.012, -0.007},
		},
		Weights: map[string][]float64{
			"AAPL": {0.3, 0.25, 0.3, 0.3},
			"JPM":  {0.2, 0.25, 0.2, 0.15},
			"MSFT": {0.25, 0.25, 0.3, 0.35},
			"XOM":  {0.25, 0.25, 0.2, 0.2},
		},
	}
	sectorMap := domain.SectorMap{"AAPL": "Tech", "MSFT": "Tech", "JPM": "Financials", "XOM": "Energy"}
	benchmark := domain.BenchmarkWeights{"Tech": 0.4, "Financials": 0.3, "Energy": 0.3}

	records, _ := engine.Compute(table, sectorMap, benchmark)
	require.Len(t, records, 9, "three periods, three sectors")

	for _, rec := range records {
		active := rec.PortfolioWeight*rec.PortfolioReturn - rec.BenchmarkWeight*rec.BenchmarkReturn
		assert.InDelta(t, active, rec.TotalEffect, 1e-12, "sector %s at %s", rec.Sector, rec.Date)
	}
}

func TestComputeUnmappedAssetsFallIntoOther(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	records, _ := engine.Compute(
		techTable(),
		domain.SectorMap{"AAPL": "Tech"},
		domain.BenchmarkWeights{"Tech": 0.3},
	)
	require.Len(t, records, 2)

	// Sectors are emitted in sorted order.
	other := records[0]
	require.Equal(t, domain.SectorOther, other.Sector)
	assert.InDelta(t, 0.2, other.PortfolioWeight, 1e-12)
	assert.InDelta(t, -0.13, other.PortfolioReturn, 1e-12)
	assert.InDelta(t, 0.0, other.BenchmarkWeight, 1e-12)

	assert.Equal(t, "Tech", records[1].Sector)
	assert.InDelta(t, 0.3, records[1].PortfolioWeight, 1e-12)
}

func TestComputeBenchmarkOnlySector(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	// The portfolio holds nothing in Utilities; the underweight still
	// produces a record, with zero effects under the zero proxy return.
	records, _ := engine.Compute(
		techTable(),
		domain.SectorMap{"AAPL": "Tech", "MSFT": "Tech"},
		domain.BenchmarkWeights{"Tech": 0.3, "Utilities": 0.1},
	)
	require.Len(t, records, 2)

	var utilities *domain.SectorAttributionRecord
	for i := range records {
		if records[i].Sector == "Utilities" {
			utilities = &records[i]
		}
	}
	require.NotNil(t, utilities)
	assert.InDelta(t, 0, utilities.PortfolioWeight, 1e-12)
	assert.InDelta(t, 0.1, utilities.BenchmarkWeight, 1e-12)
	assert.InDelta(t, 0, utilities.TotalEffect, 1e-12)
}

func TestComputeZeroSectorWeight(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	// Held assets with zero prior weight: the weighted sector return has
	// a zero denominator and must come out 0, not NaN.
	table := techTable()
	table.Weights["AAPL"] = []float64{0, 0.3}
	table.Weights["MSFT"] = []float64{0, 0.2}

	records, _ := engine.Compute(
		table,
		domain.SectorMap{"AAPL": "Tech", "MSFT": "Tech"},
		domain.BenchmarkWeights{"Tech": 0.3},
	)
	require.Len(t, records, 1)
	assert.InDelta(t, 0, records[0].PortfolioReturn, 1e-12)
	assert.InDelta(t, 0.02, records[0].BenchmarkReturn, 1e-12)
	assert.InDelta(t, 0, records[0].PortfolioWeight, 1e-12)
}

func TestComputeCoercesCorruptValues(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	table := techTable()
	table.Returns["AAPL"][1] = math.NaN()

	records, anomalies := engine.Compute(
		table,
		domain.SectorMap{"AAPL": "Tech", "MSFT": "Tech"},
		domain.BenchmarkWeights{"Tech": 0.3},
	)
	require.Len(t, records, 1)
	assert.Equal(t, 1, anomalies)

	// AAPL's return is coerced to 0: rp = 0.2*(-0.13)/0.5, rb = -0.13/2.
	assert.InDelta(t, -0.052, records[0].PortfolioReturn, 1e-12)
	assert.InDelta(t, -0.065, records[0].BenchmarkReturn, 1e-12)
}
