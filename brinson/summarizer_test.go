package brinson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/attribution/domain"
)

func TestSummarizeEmptyInput(t *testing.T) {
	_, err := Summarize(nil)
	assert.ErrorIs(t, err, domain.ErrNoRecords)
}

func TestSummarizeSectorRollups(t *testing.T) {
	records := []domain.SectorAttributionRecord{
		sectorRecord(day(2), "Tech", 0.5, 0.01),
		sectorRecord(day(3), "Tech", 0.4, 0.02),
		sectorRecord(day(2), "Energy", 0.2, -0.004),
		sectorRecord(day(3), "Energy", 0.3, 0.006),
	}

	summary, err := Summarize(records)
	require.NoError(t, err)

	assert.Equal(t, domain.GranularityDaily, summary.Granularity)
	assert.Equal(t, 2, summary.Periods)
	require.Len(t, summary.SectorStats, 2)

	tech := summary.SectorStats["Tech"]
	assert.InDelta(t, 0.45, tech.AvgPortfolioWeight, 1e-12)
	assert.InDelta(t, 0.3, tech.AvgBenchmarkWeight, 1e-12)
	wantTechTotal := records[0].TotalEffect + records[1].TotalEffect
	assert.InDelta(t, wantTechTotal, tech.TotalEffect, 1e-12)

	wantAllocation := 0.0
	wantActive := 0.0
	for _, rec := range records {
		wantAllocation += rec.AllocationEffect
		wantActive += rec.TotalEffect
	}
	assert.InDelta(t, wantAllocation, summary.TotalAllocationEffect, 1e-12)
	assert.InDelta(t, wantActive, summary.TotalActiveReturn, 1e-12)

	require.NotEmpty(t, summary.TopSectors)
	assert.Equal(t, "Tech", summary.TopSectors[0].Sector)
	require.NotEmpty(t, summary.BottomSectors)
	assert.Equal(t, "Energy", summary.BottomSectors[0].Sector, "worst sector first")
}

func TestSummarizeRankingTieBreak(t *testing.T) {
	// Identical effects: sector name decides the order deterministically.
	records := []domain.SectorAttributionRecord{
		sectorRecord(day(2), "Utilities", 0.5, 0.01),
		sectorRecord(day(2), "Energy", 0.5, 0.01),
		sectorRecord(day(2), "Tech", 0.5, 0.01),
	}

	summary, err := Summarize(records)
	require.NoError(t, err)

	require.Len(t, summary.TopSectors, 3)
	assert.Equal(t, "Energy", summary.TopSectors[0].Sector)
	assert.Equal(t, "Tech", summary.TopSectors[1].Sector)
	assert.Equal(t, "Utilities", summary.TopSectors[2].Sector)
}
