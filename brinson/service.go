package brinson

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/attribution/alignment"
	"github.com/aristath/attribution/domain"
	"github.com/aristath/attribution/numeric"
)

// Service is the public entry point for sector-level Brinson attribution.
type Service struct {
	aligner *alignment.Aligner
	engine  *Engine
	log     zerolog.Logger
}

// NewService creates a sector attribution service.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		aligner: alignment.New(log),
		engine:  NewEngine(log),
		log:     log.With().Str("module", "brinson").Logger(),
	}
}

// Result holds sector attribution records at the requested granularity,
// their summary, and the count of numeric anomalies coerced during
// computation.
type Result struct {
	Records   []domain.SectorAttributionRecord
	Summary   *domain.SectorAttributionSummary
	Anomalies int
}

// ComputeSectorAttribution aligns weights and returns, decomposes each
// period per sector against the benchmark, and aggregates to the
// requested granularity. The benchmark weights are configuration: they
// are copied before use and must all be finite and non-negative.
func (s *Service) ComputeSectorAttribution(
	weights domain.WeightSeries,
	returns domain.ReturnSeries,
	sectorMap domain.SectorMap,
	benchmark domain.BenchmarkWeights,
	granularity domain.Granularity,
) (*Result, error) {
	if !granularity.Valid() {
		return nil, fmt.Errorf("unknown granularity %q", granularity)
	}
	for sector, weight := range benchmark {
		if !numeric.IsFinite(weight) || weight < 0 {
			return nil, &domain.MalformedInputError{
				Input:  "benchmark_weights",
				Reason: fmt.Sprintf("sector %q has invalid weight", sector),
			}
		}
	}

	table, err := s.aligner.AlignPair(returns, weights)
	if err != nil {
		return nil, err
	}

	daily, anomalies := s.engine.Compute(table, sectorMap, benchmark.Clone())
	records := Aggregate(daily, granularity)

	summary, err := Summarize(records)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("granularity", string(granularity)).
		Int("records", len(records)).
		Int("sectors", len(summary.SectorStats)).
		Float64("total_active_return", summary.TotalActiveReturn).
		Msg("Computed sector attribution")

	return &Result{Records: records, Summary: summary, Anomalies: anomalies}, nil
}
