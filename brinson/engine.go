// Package brinson decomposes portfolio performance against a benchmark
// into per-sector allocation, selection, and interaction effects, with
// aggregation to weekly/monthly granularity and summary statistics.
package brinson

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/aristath/attribution/domain"
	"github.com/aristath/attribution/numeric"
)

// Engine computes the per-period Brinson decomposition. Stateless; every
// call constructs fresh outputs from immutable inputs.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates a sector attribution engine.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log.With().Str("module", "brinson").Logger()}
}

// Compute walks consecutive date pairs and emits one record per sector
// and period. Sector weights and weighted returns use prior (period
// start) weights; the benchmark sector return is the equal-weighted
// average of the sector's constituent returns, a proxy for an external
// index feed. Assets without a sector mapping fall into the Other bucket
// so totals stay complete. Returns the records and the count of coerced
// numeric anomalies.
func (e *Engine) Compute(
	table *domain.AlignedTable,
	sectorMap domain.SectorMap,
	benchmark domain.BenchmarkWeights,
) ([]domain.SectorAttributionRecord, int) {
	anomalies := numeric.NewAnomalyLog(e.log)

	membership := groupBySector(table.Assets, sectorMap)
	sectors := sectorUniverse(membership, benchmark)

	var records []domain.SectorAttributionRecord
	if periods := table.NumDates() - 1; periods > 0 {
		records = make([]domain.SectorAttributionRecord, 0, periods*len(sectors))
	}
	for i := 1; i < table.NumDates(); i++ {
		date := table.Dates[i]

		for _, sector := range sectors {
			members := membership[sector]

			sumWeight := 0.0
			sumWeightedReturn := 0.0
			sumReturn := 0.0
			for _, asset := range members {
				weight := anomalies.Coerce(table.Weights[asset][i-1], asset, date, "weight")
				assetReturn := anomalies.Coerce(table.Returns[asset][i], asset, date, "return")
				sumWeight += weight
				sumWeightedReturn += weight * assetReturn
				sumReturn += assetReturn
			}

			portfolioWeight := sumWeight
			portfolioReturn := numeric.SafeDivide(sumWeightedReturn, sumWeight, 0)
			benchmarkWeight := benchmark[sector]
			benchmarkReturn := 0.0
			if len(members) > 0 {
				benchmarkReturn = sumReturn / float64(len(members))
			}

			allocation := (portfolioWeight - benchmarkWeight) * benchmarkReturn
			selection := benchmarkWeight * (portfolioReturn - benchmarkReturn)
			interaction := (portfolioWeight - benchmarkWeight) * (portfolioReturn - benchmarkReturn)

			records = append(records, domain.SectorAttributionRecord{
				Date:              date,
				Sector:            sector,
				PortfolioWeight:   portfolioWeight,
				BenchmarkWeight:   benchmarkWeight,
				PortfolioReturn:   portfolioReturn,
				BenchmarkReturn:   benchmarkReturn,
				AllocationEffect:  allocation,
				SelectionEffect:   selection,
				InteractionEffect: interaction,
				TotalEffect:       allocation + selection + interaction,
				Granularity:       domain.GranularityDaily,
			})
		}
	}

	e.log.Debug().
		Int("periods", table.NumDates()-1).
		Int("sectors", len(sectors)).
		Int("anomalies", anomalies.Count()).
		Msg("Computed sector attribution")

	return records, anomalies.Count()
}

// groupBySector buckets aligned assets by sector, unmapped assets into
// Other. Assets keep their sorted order inside each bucket.
func groupBySector(assets []string, sectorMap domain.SectorMap) map[string][]string {
	membership := make(map[string][]string)
	for _, asset := range assets {
		sector := sectorMap.SectorOf(asset)
		membership[sector] = append(membership[sector], asset)
	}
	return membership
}

// sectorUniverse returns the sorted union of sectors holding assets and
// sectors carrying a benchmark weight; under/over-weights against
// sectors the portfolio does not hold still produce records.
func sectorUniverse(membership map[string][]string, benchmark domain.BenchmarkWeights) []string {
	seen := make(map[string]bool, len(membership)+len(benchmark))
	for sector := range membership {
		seen[sector] = true
	}
	for sector := range benchmark {
		seen[sector] = true
	}
	sectors := make([]string, 0, len(seen))
	for sector := range seen {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)
	return sectors
}
