package advisor

import (
	"sort"

	"github.com/profitscout/profitscout/internal/bundle"
)

// Sub-score weights for the multi-stock composite. Together they sum to 1.
const (
	weightEarnings  = 0.35
	weightTechnical = 0.25
	weightValuation = 0.25
	weightRisk      = 0.15
)

// Candidate is one scored entrant in a multi-stock ranking.
type Candidate struct {
	Bundle *bundle.Bundle

	EarningsScore  float64
	TechnicalScore float64
	ValuationScore float64
	RiskScore      float64
	Composite      float64

	Rank int // 1-based, assigned after sorting
}

// RankCandidates computes a composite score for every bundle and returns the
// candidates in ranked order, best first. The ranking is fully deterministic:
// ties on composite score break to the lowest leverage (debt-to-equity), then
// the highest year-over-year revenue growth, then ticker order.
func RankCandidates(bundles []*bundle.Bundle) []Candidate {
	candidates := make([]Candidate, len(bundles))
	for i, b := range bundles {
		c := Candidate{
			Bundle:         b,
			EarningsScore:  earningsScore(b),
			TechnicalScore: technicalScore(b),
			ValuationScore: valuationScore(b),
			RiskScore:      riskScore(b),
		}
		c.Composite = weightEarnings*c.EarningsScore +
			weightTechnical*c.TechnicalScore +
			weightValuation*c.ValuationScore +
			weightRisk*c.RiskScore
		candidates[i] = c
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Composite != b.Composite {
			return a.Composite > b.Composite
		}
		if a.Bundle.Ratios.DebtToEquity != b.Bundle.Ratios.DebtToEquity {
			return a.Bundle.Ratios.DebtToEquity < b.Bundle.Ratios.DebtToEquity
		}
		if a.Bundle.RevenueGrowthYoY() != b.Bundle.RevenueGrowthYoY() {
			return a.Bundle.RevenueGrowthYoY() > b.Bundle.RevenueGrowthYoY()
		}
		return a.Bundle.Ticker < b.Bundle.Ticker
	})

	for i := range candidates {
		candidates[i].Rank = i + 1
	}
	return candidates
}

// earningsScore rewards revenue growth, EPS growth, and operating margin.
func earningsScore(b *bundle.Bundle) float64 {
	growth := clamp(b.RevenueGrowthYoY()/0.30, -1, 1)

	epsGrowth := 0.0
	if b.Financials.EPSPriorYear != 0 {
		epsGrowth = (b.Financials.EPS - b.Financials.EPSPriorYear) / b.Financials.EPSPriorYear
	}
	eps := clamp(epsGrowth/0.30, -1, 1)

	margin := clamp(b.Financials.OperatingMargin/0.30, 0, 1)

	return 0.4*growth + 0.3*eps + 0.3*margin
}

// technicalScore rewards a healthy RSI band and price trading above its
// moving averages.
func technicalScore(b *bundle.Bundle) float64 {
	t := b.Technicals

	// Peak at RSI 55, falling off toward overbought (>70) and oversold (<30).
	rsi := 1 - clamp(abs(t.RSI14-55)/25, 0, 1)

	trend := 0.0
	if t.SMA50 > 0 && t.LatestClose > t.SMA50 {
		trend += 0.5
	}
	if t.SMA200 > 0 && t.LatestClose > t.SMA200 {
		trend += 0.5
	}

	return 0.5*rsi + 0.5*trend
}

// valuationScore rewards cheaper multiples. A P/E of 15 or below scores full
// marks; 45 or above scores zero. Negative earnings score zero.
func valuationScore(b *bundle.Bundle) float64 {
	r := b.Ratios

	pe := 0.0
	if r.PERatio > 0 {
		pe = 1 - clamp((r.PERatio-15)/30, 0, 1)
	}

	ps := 0.0
	if r.PriceToSales > 0 {
		ps = 1 - clamp((r.PriceToSales-2)/10, 0, 1)
	}

	return 0.6*pe + 0.4*ps
}

// riskScore penalizes leverage and rewards short-term liquidity.
func riskScore(b *bundle.Bundle) float64 {
	r := b.Ratios

	leverage := 1 - clamp(r.DebtToEquity/3, 0, 1)
	liquidity := clamp(r.CurrentRatio/2, 0, 1)

	return 0.6*leverage + 0.4*liquidity
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
