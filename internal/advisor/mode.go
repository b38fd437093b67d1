// Package advisor implements the recommendation request router: it classifies
// an analysis request into one of five modes, resolves the referenced data
// bundles, assembles the matching prompt, calls the AI provider, and validates
// the structured output.
package advisor

import "github.com/profitscout/profitscout/internal/domain"

// AnalysisMode identifies one of the five recommendation-generation
// strategies. Exactly one mode applies to any valid request.
type AnalysisMode string

const (
	// ModeSectorOrIndustry asks for the best pick within a named sector.
	ModeSectorOrIndustry AnalysisMode = "sector_or_industry"

	// ModeAITopPickSingle lets the model pick a well-known issuer with no
	// grounding data supplied.
	ModeAITopPickSingle AnalysisMode = "ai_top_pick"

	// ModeSingleStock analyzes one stock from its data bundle.
	ModeSingleStock AnalysisMode = "single_stock"

	// ModeCompareTwoStocks compares two stocks head to head.
	ModeCompareTwoStocks AnalysisMode = "compare_two_stocks"

	// ModeMultiStockTopPick ranks three or more candidates by composite
	// score and recommends the winner.
	ModeMultiStockTopPick AnalysisMode = "multi_stock_top_pick"
)

// SelectMode classifies a request into its analysis mode. The predicates are
// evaluated in fixed priority order; the first match wins. A sector filter
// always takes precedence, so an empty bundle list with a sector is a sector
// request, not an AI pick.
//
// The request must already be validated: SelectMode assumes
// len(BundleRefs) <= domain.MaxBundleRefs.
func SelectMode(req *domain.AnalysisRequest) AnalysisMode {
	switch {
	case req.Sector != "":
		return ModeSectorOrIndustry
	case len(req.BundleRefs) == 0:
		return ModeAITopPickSingle
	case len(req.BundleRefs) == 1:
		return ModeSingleStock
	case len(req.BundleRefs) == 2:
		return ModeCompareTwoStocks
	default:
		return ModeMultiStockTopPick
	}
}
