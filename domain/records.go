package domain

import "time"

// AttributionRecord is the per-period decomposition of portfolio return
// into asset price contributions and rebalancing impact.
type AttributionRecord struct {
	Date               time.Time          `json:"date"`
	TotalReturn        float64            `json:"total_return"`
	AssetContributions map[string]float64 `json:"asset_contributions"`
	RebalancingImpact  map[string]float64 `json:"rebalancing_impact"`
	WeightChangeImpact float64            `json:"weight_change_impact"`
	Granularity        Granularity        `json:"granularity"`
}

// SectorAttributionRecord is the per-period Brinson decomposition for a
// single sector versus the benchmark.
type SectorAttributionRecord struct {
	Date              time.Time   `json:"date"`
	Sector            string      `json:"sector"`
	PortfolioWeight   float64     `json:"portfolio_weight"`
	BenchmarkWeight   float64     `json:"benchmark_weight"`
	PortfolioReturn   float64     `json:"portfolio_return"`
	BenchmarkReturn   float64     `json:"benchmark_return"`
	AllocationEffect  float64     `json:"allocation_effect"`
	SelectionEffect   float64     `json:"selection_effect"`
	InteractionEffect float64     `json:"interaction_effect"`
	TotalEffect       float64     `json:"total_effect"`
	Granularity       Granularity `json:"granularity"`
}

// AssetStats is the per-asset rollup inside an attribution summary.
type AssetStats struct {
	Asset                  string  `json:"asset"`
	TotalContribution      float64 `json:"total_contribution"`
	AvgContribution        float64 `json:"avg_contribution"`
	ContributionVolatility float64 `json:"contribution_volatility"`
	TotalRebalancingImpact float64 `json:"total_rebalancing_impact"`
	AvgRebalancingImpact   float64 `json:"avg_rebalancing_impact"`
	ImpactVolatility       float64 `json:"impact_volatility"`
	NetImpact              float64 `json:"net_impact"`
}

// AttributionSummary aggregates attribution records over a window.
// TotalPortfolioReturn is an additive sum over records, not compounded;
// AttributionAccuracy is the absolute reconciliation gap between it and
// the explained components (ideally near zero).
type AttributionSummary struct {
	Granularity            Granularity           `json:"granularity"`
	Periods                int                   `json:"periods"`
	TotalPortfolioReturn   float64               `json:"total_portfolio_return"`
	TotalAssetContribution float64               `json:"total_asset_contribution"`
	TotalRebalancingImpact float64               `json:"total_rebalancing_impact"`
	AttributionAccuracy    float64               `json:"attribution_accuracy"`
	AssetStats             map[string]AssetStats `json:"asset_stats"`
	TopContributors        []AssetStats          `json:"top_contributors"`
	BottomContributors     []AssetStats          `json:"bottom_contributors"`
}

// SectorStats is the per-sector rollup inside a sector attribution summary.
type SectorStats struct {
	Sector                 string  `json:"sector"`
	AvgPortfolioWeight     float64 `json:"avg_portfolio_weight"`
	AvgBenchmarkWeight     float64 `json:"avg_benchmark_weight"`
	TotalAllocationEffect  float64 `json:"total_allocation_effect"`
	TotalSelectionEffect   float64 `json:"total_selection_effect"`
	TotalInteractionEffect float64 `json:"total_interaction_effect"`
	TotalEffect            float64 `json:"total_effect"`
}

// SectorAttributionSummary aggregates sector attribution records over a
// window, mirroring AttributionSummary at sector granularity.
type SectorAttributionSummary struct {
	Granularity            Granularity            `json:"granularity"`
	Periods                int                    `json:"periods"`
	TotalAllocationEffect  float64                `json:"total_allocation_effect"`
	TotalSelectionEffect   float64                `json:"total_selection_effect"`
	TotalInteractionEffect float64                `json:"total_interaction_effect"`
	TotalActiveReturn      float64                `json:"total_active_return"`
	SectorStats            map[string]SectorStats `json:"sector_stats"`
	TopSectors             []SectorStats          `json:"top_sectors"`
	BottomSectors          []SectorStats          `json:"bottom_sectors"`
}
