package attribution

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/attribution/domain"
)

// topN is the number of top/bottom contributors reported in a summary.
const topN = 5

// Summarize computes window-level totals, the reconciliation diagnostic,
// and per-asset rollups over attribution records. The total portfolio
// return is an additive sum over records, not compounded, so that
// AttributionAccuracy measures the gap between the reported return and
// the explained components. Empty input returns domain.ErrNoRecords.
func Summarize(records []domain.AttributionRecord) (*domain.AttributionSummary, error) {
	if len(records) == 0 {
		return nil, domain.ErrNoRecords
	}

	totalReturn := 0.0
	contributionsByAsset := make(map[string][]float64)
	impactsByAsset := make(map[string][]float64)
	for _, rec := range records {
		totalReturn += rec.TotalReturn
		for asset, c := range rec.AssetContributions {
			contributionsByAsset[asset] = append(contributionsByAsset[asset], c)
		}
		for asset, r := range rec.RebalancingImpact {
			impactsByAsset[asset] = append(impactsByAsset[asset], r)
		}
	}

	assets := make([]string, 0, len(contributionsByAsset))
	for asset := range contributionsByAsset {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	totalContribution := 0.0
	totalRebalancing := 0.0
	assetStats := make(map[string]domain.AssetStats, len(assets))
	ranked := make([]domain.AssetStats, 0, len(assets))
	for _, asset := range assets {
		contributions := contributionsByAsset[asset]
		impacts := impactsByAsset[asset]

		stats := domain.AssetStats{
			Asset:                  asset,
			TotalContribution:      sum(contributions),
			AvgContribution:        stat.Mean(contributions, nil),
			ContributionVolatility: sampleStdDev(contributions),
			TotalRebalancingImpact: sum(impacts),
		}
		if len(impacts) > 0 {
			stats.AvgRebalancingImpact = stat.Mean(impacts, nil)
			stats.ImpactVolatility = sampleStdDev(impacts)
		}
		stats.NetImpact = stats.TotalContribution + stats.TotalRebalancingImpact

		totalContribution += stats.TotalContribution
		totalRebalancing += stats.TotalRebalancingImpact
		assetStats[asset] = stats
		ranked = append(ranked, stats)
	}

	// Rank by net impact, ties broken by asset id for determinism.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].NetImpact != ranked[j].NetImpact {
			return ranked[i].NetImpact > ranked[j].NetImpact
		}
		return ranked[i].Asset < ranked[j].Asset
	})

	return &domain.AttributionSummary{
		Granularity:            records[0].Granularity,
		Periods:                len(records),
		TotalPortfolioReturn:   totalReturn,
		TotalAssetContribution: totalContribution,
		TotalRebalancingImpact: totalRebalancing,
		AttributionAccuracy:    math.Abs(totalReturn - (totalContribution + totalRebalancing)),
		AssetStats:             assetStats,
		TopContributors:        head(ranked, topN),
		BottomContributors:     tail(ranked, topN),
	}, nil
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// sampleStdDev guards gonum's StdDev against the single-observation case,
// where the sample estimator is undefined.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

func head(ranked []domain.AssetStats, n int) []domain.AssetStats {
	if len(ranked) < n {
		n = len(ranked)
	}
	out := make([]domain.AssetStats, n)
	copy(out, ranked[:n])
	return out
}

// tail returns the n lowest-ranked entries, worst first.
func tail(ranked []domain.AssetStats, n int) []domain.AssetStats {
	if len(ranked) < n {
		n = len(ranked)
	}
	out := make([]domain.AssetStats, 0, n)
	for i := len(ranked) - 1; i >= len(ranked)-n; i-- {
		out = append(out, ranked[i])
	}
	return out
}
