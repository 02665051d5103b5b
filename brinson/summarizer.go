package brinson

import (
	"sort"

	"github.com/aristath/attribution/domain"
)

// topN is the number of top/bottom sectors reported in a summary.
const topN = 5

// Summarize computes window-level effect totals and per-sector rollups
// over sector attribution records. Empty input returns
// domain.ErrNoRecords.
func Summarize(records []domain.SectorAttributionRecord) (*domain.SectorAttributionSummary, error) {
	if len(records) == 0 {
		return nil, domain.ErrNoRecords
	}

	bySector := make(map[string][]domain.SectorAttributionRecord)
	for _, rec := range records {
		bySector[rec.Sector] = append(bySector[rec.Sector], rec)
	}

	sectors := make([]string, 0, len(bySector))
	for sector := range bySector {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)

	summary := &domain.SectorAttributionSummary{
		Granularity: records[0].Granularity,
		SectorStats: make(map[string]domain.SectorStats, len(sectors)),
	}

	ranked := make([]domain.SectorStats, 0, len(sectors))
	periods := 0
	for _, sector := range sectors {
		sectorRecords := bySector[sector]
		if len(sectorRecords) > periods {
			periods = len(sectorRecords)
		}

		stats := domain.SectorStats{Sector: sector}
		for _, rec := range sectorRecords {
			stats.AvgPortfolioWeight += rec.PortfolioWeight
			stats.AvgBenchmarkWeight += rec.BenchmarkWeight
			stats.TotalAllocationEffect += rec.AllocationEffect
			stats.TotalSelectionEffect += rec.SelectionEffect
			stats.TotalInteractionEffect += rec.InteractionEffect
			stats.TotalEffect += rec.TotalEffect
		}
		n := float64(len(sectorRecords))
		stats.AvgPortfolioWeight /= n
		stats.AvgBenchmarkWeight /= n

		summary.TotalAllocationEffect += stats.TotalAllocationEffect
		summary.TotalSelectionEffect += stats.TotalSelectionEffect
		summary.TotalInteractionEffect += stats.TotalInteractionEffect
		summary.TotalActiveReturn += stats.TotalEffect
		summary.SectorStats[sector] = stats
		ranked = append(ranked, stats)
	}
	summary.Periods = periods

	// Rank by total effect, ties broken by sector name for determinism.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalEffect != ranked[j].TotalEffect {
			return ranked[i].TotalEffect > ranked[j].TotalEffect
		}
		return ranked[i].Sector < ranked[j].Sector
	})

	summary.TopSectors = head(ranked, topN)
	summary.BottomSectors = tail(ranked, topN)

	return summary, nil
}

func head(ranked []domain.SectorStats, n int) []domain.SectorStats {
	if len(ranked) < n {
		n = len(ranked)
	}
	out := make([]domain.SectorStats, n)
	copy(out, ranked[:n])
	return out
}

// tail returns the n lowest-ranked entries, worst first.
func tail(ranked []domain.SectorStats, n int) []domain.SectorStats {
	if len(ranked) < n {
		n = len(ranked)
	}
	out := make([]domain.SectorStats, 0, n)
	for i := len(ranked) - 1; i >= len(ranked)-n; i-- {
		out = append(out, ranked[i])
	}
	return out
}
