// Package attribution decomposes portfolio returns into per-asset price
// contributions and rebalancing (weight-change) impact, with aggregation
// to weekly/monthly granularity and summary statistics.
package attribution

import (
	"github.com/rs/zerolog"

	"github.com/aristath/attribution/domain"
	"github.com/aristath/attribution/numeric"
)

// Engine computes the per-period asset-level decomposition. It is a
// stateless, pure function of its inputs; outputs are freshly constructed
// on every call.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates an attribution engine.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log.With().Str("module", "attribution").Logger()}
}

// ComputeDaily walks consecutive date pairs of an aligned table and
// decomposes each period's portfolio return. Weights are taken at the
// period start (beginning-of-period convention, no look-ahead), returns
// at the period end. Periods without a usable total return are skipped;
// per-asset non-finite values are coerced to zero and counted. Returns
// the records and the number of coerced anomalies.
func (e *Engine) ComputeDaily(table *domain.AlignedTable) ([]domain.AttributionRecord, int) {
	anomalies := numeric.NewAnomalyLog(e.log)
	records := make([]domain.AttributionRecord, 0, table.NumDates())

	for i := 1; i < table.NumDates(); i++ {
		date := table.Dates[i]

		totalReturn, ok := periodReturn(table, i)
		if !ok {
			e.log.Debug().
				Time("date", date).
				Msg("Skipping period without usable portfolio return")
			continue
		}

		contributions := make(map[string]float64, len(table.Assets))
		rebalancing := make(map[string]float64, len(table.Assets))
		weightChangeImpact := 0.0

		for _, asset := range table.Assets {
			weightPrev := anomalies.Coerce(table.Weights[asset][i-1], asset, date, "weight")
			weightCurr := anomalies.Coerce(table.Weights[asset][i], asset, date, "weight")
			assetReturn := anomalies.Coerce(table.Returns[asset][i], asset, date, "return")

			contributions[asset] = weightPrev * assetReturn
			impact := (weightCurr - weightPrev) * assetReturn
			rebalancing[asset] = impact
			weightChangeImpact += impact
		}

		records = append(records, domain.AttributionRecord{
			Date:               date,
			TotalReturn:        totalReturn,
			AssetContributions: contributions,
			RebalancingImpact:  rebalancing,
			WeightChangeImpact: weightChangeImpact,
			Granularity:        domain.GranularityDaily,
		})
	}

	e.log.Debug().
		Int("periods", len(records)).
		Int("anomalies", anomalies.Count()).
		Msg("Computed daily attribution")

	return records, anomalies.Count()
}

// periodReturn resolves the portfolio return for period i: the supplied
// return when finite, otherwise derived from consecutive values. Reports
// false when neither is usable.
func periodReturn(table *domain.AlignedTable, i int) (float64, bool) {
	if i < len(table.PortfolioReturns) {
		if r := table.PortfolioReturns[i]; numeric.IsFinite(r) {
			return r, true
		}
	}
	if i < len(table.PortfolioValues) {
		prev := table.PortfolioValues[i-1]
		curr := table.PortfolioValues[i]
		if numeric.IsFinite(prev) && numeric.IsFinite(curr) && prev != 0 {
			return curr/prev - 1, true
		}
	}
	return 0, false
}
