package attribution

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/attribution/alignment"
	"github.com/aristath/attribution/domain"
)

// reconciliationWarnThreshold is the AttributionAccuracy level above
// which a summary is logged as poorly reconciled. Aggregated buckets
// carry a small expected drift from the geometric-vs-linear convention.
const reconciliationWarnThreshold = 1e-4

// Service is the public entry point for asset-level attribution. It
// wires alignment, the daily engine, period aggregation, and the
// summarizer into a single call.
type Service struct {
	aligner *alignment.Aligner
	engine  *Engine
	log     zerolog.Logger
}

// NewService creates an asset attribution service.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		aligner: alignment.New(log),
		engine:  NewEngine(log),
		log:     log.With().Str("module", "attribution").Logger(),
	}
}

// Result holds attribution output per requested granularity, plus the
// count of numeric anomalies coerced during computation. Granularities
// whose windows produced no records have an entry in Records but none
// in Summaries.
type Result struct {
	Records   map[domain.Granularity][]domain.AttributionRecord
	Summaries map[domain.Granularity]*domain.AttributionSummary
	Anomalies int
}

// ComputeAssetAttribution aligns the inputs, computes daily attribution,
// and rolls it up to each requested granularity. When granularities is
// empty, daily is computed. Alignment failures surface as
// domain.InsufficientDataError or domain.MalformedInputError.
func (s *Service) ComputeAssetAttribution(
	portfolio domain.PortfolioSeries,
	returns domain.ReturnSeries,
	weights domain.WeightSeries,
	granularities []domain.Granularity,
) (*Result, error) {
	if len(granularities) == 0 {
		granularities = []domain.Granularity{domain.GranularityDaily}
	}
	for _, g := range granularities {
		if !g.Valid() {
			return nil, fmt.Errorf("unknown granularity %q", g)
		}
	}

	table, err := s.aligner.Align(portfolio, returns, weights)
	if err != nil {
		return nil, err
	}

	daily, anomalies := s.engine.ComputeDaily(table)

	result := &Result{
		Records:   make(map[domain.Granularity][]domain.AttributionRecord, len(granularities)),
		Summaries: make(map[domain.Granularity]*domain.AttributionSummary, len(granularities)),
		Anomalies: anomalies,
	}

	for _, g := range granularities {
		records := Aggregate(daily, g)
		result.Records[g] = records

		summary, err := Summarize(records)
		if err != nil {
			s.log.Warn().
				Str("granularity", string(g)).
				Msg("No records to summarize")
			continue
		}
		result.Summaries[g] = summary

		event := s.log.Info()
		if summary.AttributionAccuracy > reconciliationWarnThreshold {
			event = s.log.Warn()
		}
		event.
			Str("granularity", string(g)).
			Int("periods", summary.Periods).
			Float64("total_return", summary.TotalPortfolioReturn).
			Float64("attribution_accuracy", summary.AttributionAccuracy).
			Msg("Computed asset attribution")
	}

	return result, nil
}
