package brinson

import (
	"time"

	"github.com/aristath/attribution/domain"
	"github.com/aristath/attribution/numeric"
)

// bucketKey identifies one sector within an ISO week or calendar month.
type bucketKey struct {
	year   int
	sub    int
	sector string
}

func keyFor(date time.Time, sector string, granularity domain.Granularity) bucketKey {
	if granularity == domain.GranularityWeekly {
		y, w := date.ISOWeek()
		return bucketKey{year: y, sub: w, sector: sector}
	}
	return bucketKey{year: date.Year(), sub: int(date.Month()), sector: sector}
}

// Aggregate rolls daily sector records into weekly or monthly records.
// Within a bucket, weights average, returns compound, and effects sum
// linearly (the same additive convention as asset-level aggregation, so
// the Brinson identity holds only approximately on aggregated records).
// The aggregated record carries the bucket's last date. Daily
// granularity returns the input unchanged.
func Aggregate(records []domain.SectorAttributionRecord, granularity domain.Granularity) []domain.SectorAttributionRecord {
	if granularity == domain.GranularityDaily {
		return records
	}

	var order []bucketKey
	buckets := make(map[bucketKey][]domain.SectorAttributionRecord)
	for _, rec := range records {
		key := keyFor(rec.Date, rec.Sector, granularity)
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], rec)
	}

	aggregated := make([]domain.SectorAttributionRecord, 0, len(order))
	for _, key := range order {
		bucket := buckets[key]
		n := float64(len(bucket))

		out := domain.SectorAttributionRecord{
			Date:        bucket[len(bucket)-1].Date,
			Sector:      key.sector,
			Granularity: granularity,
		}
		portfolioReturns := make([]float64, len(bucket))
		benchmarkReturns := make([]float64, len(bucket))
		for i, rec := range bucket {
			out.PortfolioWeight += rec.PortfolioWeight
			out.BenchmarkWeight += rec.BenchmarkWeight
			portfolioReturns[i] = rec.PortfolioReturn
			benchmarkReturns[i] = rec.BenchmarkReturn
			out.AllocationEffect += rec.AllocationEffect
			out.SelectionEffect += rec.SelectionEffect
			out.InteractionEffect += rec.InteractionEffect
			out.TotalEffect += rec.TotalEffect
		}
		out.PortfolioWeight /= n
		out.BenchmarkWeight /= n
		out.PortfolioReturn = numeric.Compound(portfolioReturns)
		out.BenchmarkReturn = numeric.Compound(benchmarkReturns)

		aggregated = append(aggregated, out)
	}

	return aggregated
}
