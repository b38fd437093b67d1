package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profitscout/profitscout/internal/bundle"
)

func strongBundle(ticker string) *bundle.Bundle {
	return &bundle.Bundle{
		Ticker: ticker,
		Financials: bundle.FinancialStatements{
			Revenue:          130000,
			RevenuePriorYear: 100000,
			OperatingMargin:  0.28,
			EPS:              2.6,
			EPSPriorYear:     2.0,
		},
		Ratios: bundle.Ratios{
			PERatio:      18,
			PriceToSales: 3,
			DebtToEquity: 0.4,
			CurrentRatio: 2.1,
		},
		Technicals: bundle.Technicals{
			RSI14:       56,
			SMA50:       95,
			SMA200:      90,
			LatestClose: 100,
		},
	}
}

func weakBundle(ticker string) *bundle.Bundle {
	return &bundle.Bundle{
		Ticker: ticker,
		Financials: bundle.FinancialStatements{
			Revenue:          90000,
			RevenuePriorYear: 100000,
			OperatingMargin:  0.04,
			EPS:              0.4,
			EPSPriorYear:     0.9,
		},
		Ratios: bundle.Ratios{
			PERatio:      52,
			PriceToSales: 11,
			DebtToEquity: 2.8,
			CurrentRatio: 0.7,
		},
		Technicals: bundle.Technicals{
			RSI14:       24,
			SMA50:       48,
			SMA200:      60,
			LatestClose: 40,
		},
	}
}

func TestRankCandidates_StrongBeatsWeak(t *testing.T) {
	ranked := RankCandidates([]*bundle.Bundle{
		weakBundle("WEAK"),
		strongBundle("STRG"),
		weakBundle("MEH"),
	})

	require.Len(t, ranked, 3)
	assert.Equal(t, "STRG", ranked[0].Bundle.Ticker)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Greater(t, ranked[0].Composite, ranked[1].Composite)
}

func TestRankCandidates_TieBreaksOnLeverage(t *testing.T) {
	a := strongBundle("AAA")
	b := strongBundle("BBB")
	// Identical fundamentals except leverage.
	a.Ratios.DebtToEquity = 0.4
	b.Ratios.DebtToEquity = 0.4

	// Equalize the risk sub-score so only the tie-break differs: leverage
	// past the clamp ceiling scores the same but still breaks ties.
	a.Ratios.DebtToEquity = 3.5
	b.Ratios.DebtToEquity = 4.0

	ranked := RankCandidates([]*bundle.Bundle{b, a})
	assert.Equal(t, "AAA", ranked[0].Bundle.Ticker)
	assert.Equal(t, "BBB", ranked[1].Bundle.Ticker)
}

func TestRankCandidates_TieBreaksOnRevenueGrowthThenTicker(t *testing.T) {
	a := strongBundle("AAA")
	b := strongBundle("BBB")
	c := strongBundle("CCC")

	// Same composite and leverage; b grows faster but growth is clamped at
	// the same sub-score ceiling, so composite stays equal.
	a.Financials.Revenue = 140000
	b.Financials.Revenue = 150000
	c.Financials.Revenue = 140000

	ranked := RankCandidates([]*bundle.Bundle{c, a, b})
	require.Len(t, ranked, 3)
	assert.Equal(t, "BBB", ranked[0].Bundle.Ticker)
	// a and c are fully identical, so ticker order decides.
	assert.Equal(t, "AAA", ranked[1].Bundle.Ticker)
	assert.Equal(t, "CCC", ranked[2].Bundle.Ticker)
}

func TestRankCandidates_Deterministic(t *testing.T) {
	input := []*bundle.Bundle{weakBundle("BBB"), strongBundle("AAA"), weakBundle("CCC")}

	first := RankCandidates(input)
	second := RankCandidates(input)

	for i := range first {
		assert.Equal(t, first[i].Bundle.Ticker, second[i].Bundle.Ticker)
		assert.Equal(t, first[i].Composite, second[i].Composite)
	}
}
