package attribution

import (
	"time"

	"github.com/aristath/attribution/domain"
	"github.com/aristath/attribution/numeric"
)

// bucketKey identifies an ISO week or a calendar month.
type bucketKey struct {
	year int
	sub  int
}

func keyFor(date time.Time, granularity domain.Granularity) bucketKey {
	if granularity == domain.GranularityWeekly {
		y, w := date.ISOWeek()
		return bucketKey{year: y, sub: w}
	}
	return bucketKey{year: date.Year(), sub: int(date.Month())}
}

// Aggregate rolls daily attribution records into weekly or monthly
// records. Within a bucket the total return compounds geometrically while
// per-asset contributions and rebalancing impacts sum linearly; the two
// conventions diverge slightly over multi-day buckets, which the
// summary's AttributionAccuracy surfaces. The aggregated record carries
// the bucket's last date. Daily granularity returns the input unchanged.
func Aggregate(records []domain.AttributionRecord, granularity domain.Granularity) []domain.AttributionRecord {
	if granularity == domain.GranularityDaily {
		return records
	}

	var order []bucketKey
	buckets := make(map[bucketKey][]domain.AttributionRecord)
	for _, rec := range records {
		key := keyFor(rec.Date, granularity)
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], rec)
	}

	aggregated := make([]domain.AttributionRecord, 0, len(order))
	for _, key := range order {
		bucket := buckets[key]

		returns := make([]float64, len(bucket))
		contributions := make(map[string]float64)
		rebalancing := make(map[string]float64)
		weightChangeImpact := 0.0
		for i, rec := range bucket {
			returns[i] = rec.TotalReturn
			for asset, c := range rec.AssetContributions {
				contributions[asset] += c
			}
			for asset, r := range rec.RebalancingImpact {
				rebalancing[asset] += r
			}
			weightChangeImpact += rec.WeightChangeImpact
		}

		aggregated = append(aggregated, domain.AttributionRecord{
			Date:               bucket[len(bucket)-1].Date,
			TotalReturn:        numeric.Compound(returns),
			AssetContributions: contributions,
			RebalancingImpact:  rebalancing,
			WeightChangeImpact: weightChangeImpact,
			Granularity:        granularity,
		})
	}

	return aggregated
}
