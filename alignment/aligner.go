// Package alignment intersects time-indexed portfolio, return, and
// weight inputs onto their common dates and asset universe, producing
// the strongly-typed table the attribution engines compute from.
package alignment

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/attribution/domain"
	"github.com/aristath/attribution/numeric"
)

// MinAlignedDates is the minimum number of common dates required for
// attribution; fewer yields an InsufficientDataError.
const MinAlignedDates = 5

// Aligner normalizes date axes to calendar days, intersects them, and
// filters the asset universe. It holds no state between calls.
type Aligner struct {
	log zerolog.Logger
}

// New creates an aligner.
func New(log zerolog.Logger) *Aligner {
	return &Aligner{log: log.With().Str("module", "alignment").Logger()}
}

// Align restricts portfolio, returns, and weights to their common
// calendar dates and common asset universe. Values are carried over
// unchanged (including NaN); coercion is the engines' concern.
func (a *Aligner) Align(
	portfolio domain.PortfolioSeries,
	returns domain.ReturnSeries,
	weights domain.WeightSeries,
) (*domain.AlignedTable, error) {
	if len(portfolio) == 0 {
		return nil, &domain.MalformedInputError{Input: "portfolio", Reason: "date axis is empty"}
	}
	return a.align(portfolio, returns, weights)
}

// AlignPair aligns returns and weights without a portfolio series; used
// by the sector attribution path, which needs no portfolio valuations.
func (a *Aligner) AlignPair(
	returns domain.ReturnSeries,
	weights domain.WeightSeries,
) (*domain.AlignedTable, error) {
	return a.align(nil, returns, weights)
}

func (a *Aligner) align(
	portfolio domain.PortfolioSeries,
	returns domain.ReturnSeries,
	weights domain.WeightSeries,
) (*domain.AlignedTable, error) {
	if len(returns) == 0 {
		return nil, &domain.MalformedInputError{Input: "returns", Reason: "no asset series"}
	}
	if len(weights) == 0 {
		return nil, &domain.MalformedInputError{Input: "weights", Reason: "no asset series"}
	}

	for asset, series := range returns {
		if err := series.Validate("returns/" + asset); err != nil {
			return nil, err
		}
	}
	for asset, series := range weights {
		if err := series.Validate("weights/" + asset); err != nil {
			return nil, err
		}
	}

	returnCells, returnDates := indexSeries(returns)
	weightCells, weightDates := indexSeries(weights)

	var portfolioPoints map[time.Time]domain.PortfolioPoint
	axes := []map[time.Time]bool{returnDates, weightDates}
	if portfolio != nil {
		portfolioPoints = make(map[time.Time]domain.PortfolioPoint, len(portfolio))
		portfolioAxis := make(map[time.Time]bool, len(portfolio))
		for _, p := range portfolio {
			day := domain.NewDay(p.Date)
			if _, dup := portfolioPoints[day]; dup {
				return nil, &domain.MalformedInputError{
					Input:  "portfolio",
					Reason: "duplicate date " + day.Format("2006-01-02"),
				}
			}
			portfolioPoints[day] = p
			portfolioAxis[day] = true
		}
		axes = append(axes, portfolioAxis)
	}

	dates := intersectDates(axes)
	if len(dates) < MinAlignedDates {
		a.log.Debug().
			Int("common_dates", len(dates)).
			Int("minimum", MinAlignedDates).
			Msg("Insufficient common dates after alignment")
		return nil, &domain.InsufficientDataError{Dates: len(dates), Minimum: MinAlignedDates}
	}

	assets := commonAssets(returns, weights, weightCells, dates)
	if len(assets) == 0 {
		return nil, &domain.MalformedInputError{
			Input:  "returns/weights",
			Reason: "no common asset universe",
		}
	}

	table := &domain.AlignedTable{
		Dates:   dates,
		Assets:  assets,
		Returns: make(map[string][]float64, len(assets)),
		Weights: make(map[string][]float64, len(assets)),
	}
	for _, asset := range assets {
		table.Returns[asset] = extractColumn(returnCells[asset], dates)
		table.Weights[asset] = extractColumn(weightCells[asset], dates)
	}
	if portfolio != nil {
		table.PortfolioValues = make([]float64, len(dates))
		table.PortfolioReturns = make([]float64, len(dates))
		for i, d := range dates {
			p := portfolioPoints[d]
			table.PortfolioValues[i] = p.Value
			table.PortfolioReturns[i] = p.Return
		}
	}

	a.log.Debug().
		Int("dates", len(dates)).
		Int("assets", len(assets)).
		Msg("Aligned input series")

	return table, nil
}

// indexSeries builds per-asset day-keyed value maps and the union of
// observed days across all assets (the input's date axis).
func indexSeries(series map[string]domain.Series) (map[string]map[time.Time]float64, map[time.Time]bool) {
	cells := make(map[string]map[time.Time]float64, len(series))
	axis := make(map[time.Time]bool)
	for asset, points := range series {
		byDay := make(map[time.Time]float64, len(points))
		for _, p := range points {
			day := domain.NewDay(p.Date)
			byDay[day] = p.Value
			axis[day] = true
		}
		cells[asset] = byDay
	}
	return cells, axis
}

// intersectDates returns the sorted intersection of the given date axes.
func intersectDates(axes []map[time.Time]bool) []time.Time {
	var dates []time.Time
	for d := range axes[0] {
		inAll := true
		for _, axis := range axes[1:] {
			if !axis[d] {
				inAll = false
				break
			}
		}
		if inAll {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// commonAssets filters the asset universe to string-labeled identifiers
// present in both inputs whose weight is not all zero/NaN over the window.
func commonAssets(
	returns domain.ReturnSeries,
	weights domain.WeightSeries,
	weightCells map[string]map[time.Time]float64,
	dates []time.Time,
) []string {
	var assets []string
	for asset := range weights {
		if asset == "" {
			continue
		}
		if _, ok := returns[asset]; !ok {
			continue
		}
		if !hasUsableWeight(weightCells[asset], dates) {
			continue
		}
		assets = append(assets, asset)
	}
	sort.Strings(assets)
	return assets
}

func hasUsableWeight(byDay map[time.Time]float64, dates []time.Time) bool {
	for _, d := range dates {
		if v, ok := byDay[d]; ok && numeric.IsFinite(v) && v != 0 {
			return true
		}
	}
	return false
}

// extractColumn reads one asset's values at the aligned dates, NaN where
// the asset has no observation for a date.
func extractColumn(byDay map[time.Time]float64, dates []time.Time) []float64 {
	col := make([]float64, len(dates))
	for i, d := range dates {
		if v, ok := byDay[d]; ok {
			col[i] = v
		} else {
			col[i] = math.NaN()
		}
	}
	return col
}
