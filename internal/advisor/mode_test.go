package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/profitscout/profitscout/internal/domain"
)

func TestSelectMode(t *testing.T) {
	refs := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = "bundles/stock.json"
		}
		return out
	}

	tests := []struct {
		name string
		req  domain.AnalysisRequest
		want AnalysisMode
	}{
		{"sector only", domain.AnalysisRequest{Sector: "Technology"}, ModeSectorOrIndustry},
		{"sector wins over bundles", domain.AnalysisRequest{Sector: "Energy", BundleRefs: refs(2)}, ModeSectorOrIndustry},
		{"sector wins over empty bundles", domain.AnalysisRequest{Sector: "tech", BundleRefs: nil}, ModeSectorOrIndustry},
		{"no input is ai pick", domain.AnalysisRequest{}, ModeAITopPickSingle},
		{"one bundle", domain.AnalysisRequest{BundleRefs: refs(1)}, ModeSingleStock},
		{"two bundles", domain.AnalysisRequest{BundleRefs: refs(2)}, ModeCompareTwoStocks},
		{"three bundles", domain.AnalysisRequest{BundleRefs: refs(3)}, ModeMultiStockTopPick},
		{"ten bundles", domain.AnalysisRequest{BundleRefs: refs(10)}, ModeMultiStockTopPick},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectMode(&tt.req))
		})
	}
}

func TestValidateRejectsOversizedRequests(t *testing.T) {
	refs := make([]string, domain.MaxBundleRefs+1)
	for i := range refs {
		refs[i] = "bundles/stock.json"
	}
	req := domain.AnalysisRequest{BundleRefs: refs}

	err := req.Validate()
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}
