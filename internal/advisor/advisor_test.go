package advisor

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profitscout/profitscout/internal/ai"
	"github.com/profitscout/profitscout/internal/ai/mock"
	"github.com/profitscout/profitscout/internal/bundle"
	"github.com/profitscout/profitscout/internal/domain"
	"github.com/profitscout/profitscout/internal/storage"
)

func newTestService(t *testing.T) (*Service, *mock.Provider, storage.Storage) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	store, err := storage.NewLocalStorage(storage.LocalConfig{BasePath: t.TempDir()})
	require.NoError(t, err)

	provider := mock.New(logger)
	svc := New(provider, bundle.NewResolver(store, logger), logger)
	return svc, provider, store
}

func seedBundle(t *testing.T, store storage.Storage, ticker string) string {
	t.Helper()
	doc := map[string]any{
		"ticker":       ticker,
		"company_name": ticker + " Corp",
		"financial_statements": map[string]any{
			"revenue":            110000,
			"revenue_prior_year": 100000,
			"operating_margin":   0.2,
		},
		"ratios":     map[string]any{"pe_ratio": 20, "debt_to_equity": 0.8, "current_ratio": 1.5},
		"technicals": map[string]any{"rsi_14": 55, "sma_50": 90, "sma_200": 85, "latest_close": 95},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	key := "bundles/" + ticker + ".json"
	err = store.Put(context.Background(), key, strings.NewReader(string(raw)), storage.PutOptions{})
	require.NoError(t, err)
	return key
}

func TestRecommend_SingleStock(t *testing.T) {
	svc, provider, store := newTestService(t)
	key := seedBundle(t, store, "AAPL")

	result, mode, err := svc.Recommend(context.Background(), &domain.AnalysisRequest{
		BundleRefs: []string{key},
	})
	require.NoError(t, err)

	assert.Equal(t, ModeSingleStock, mode)
	assert.NotEmpty(t, result.Recommendation)
	assert.GreaterOrEqual(t, len(result.Reasoning), 3)
	assert.Equal(t, 1, provider.CompleteCalls)
	assert.Contains(t, provider.LastPrompt, "AAPL Corp (AAPL)")
}

func TestRecommend_SectorIgnoresBundles(t *testing.T) {
	svc, provider, store := newTestService(t)
	key := seedBundle(t, store, "XOM")

	_, mode, err := svc.Recommend(context.Background(), &domain.AnalysisRequest{
		Sector:     "Energy",
		BundleRefs: []string{key},
	})
	require.NoError(t, err)

	assert.Equal(t, ModeSectorOrIndustry, mode)
	assert.Contains(t, provider.LastPrompt, "Energy")
	assert.NotContains(t, provider.LastPrompt, "XOM")
}

func TestRecommend_AITopPickNeedsNoData(t *testing.T) {
	svc, provider, _ := newTestService(t)

	_, mode, err := svc.Recommend(context.Background(), &domain.AnalysisRequest{})
	require.NoError(t, err)

	assert.Equal(t, ModeAITopPickSingle, mode)
	assert.Equal(t, 1, provider.CompleteCalls)
}

func TestRecommend_MultiStockRanksBeforePrompting(t *testing.T) {
	svc, provider, store := newTestService(t)
	refs := []string{
		seedBundle(t, store, "AAA"),
		seedBundle(t, store, "BBB"),
		seedBundle(t, store, "CCC"),
	}

	_, mode, err := svc.Recommend(context.Background(), &domain.AnalysisRequest{BundleRefs: refs})
	require.NoError(t, err)

	assert.Equal(t, ModeMultiStockTopPick, mode)
	assert.Contains(t, provider.LastPrompt, "Ranked candidates")
	assert.Contains(t, provider.LastPrompt, "\n1. AAA Corp (AAA)")
}

func TestRecommend_MissingBundleFailsWholeRequest(t *testing.T) {
	svc, provider, store := newTestService(t)
	refs := []string{
		seedBundle(t, store, "AAA"),
		"bundles/MISSING.json",
		seedBundle(t, store, "CCC"),
	}

	_, _, err := svc.Recommend(context.Background(), &domain.AnalysisRequest{BundleRefs: refs})
	require.Error(t, err)
	assert.Equal(t, domain.EDATAFETCH, domain.ErrorCode(err))
	assert.Zero(t, provider.CompleteCalls)
}

func TestRecommend_InvalidModelOutput(t *testing.T) {
	svc, provider, store := newTestService(t)
	provider.CompleteResponse = &ai.CompleteResult{Text: "not json at all"}
	key := seedBundle(t, store, "AAPL")

	_, _, err := svc.Recommend(context.Background(), &domain.AnalysisRequest{BundleRefs: []string{key}})
	require.Error(t, err)
	assert.Equal(t, domain.EAIOUTPUT, domain.ErrorCode(err))
	// No retry: a single model call was made.
	assert.Equal(t, 1, provider.CompleteCalls)
}

func TestRecommend_RejectsOversizedRequest(t *testing.T) {
	svc, provider, _ := newTestService(t)

	refs := make([]string, domain.MaxBundleRefs+1)
	for i := range refs {
		refs[i] = "bundles/x.json"
	}

	_, _, err := svc.Recommend(context.Background(), &domain.AnalysisRequest{BundleRefs: refs})
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.Zero(t, provider.CompleteCalls)
}

func TestFollowUp(t *testing.T) {
	svc, provider, store := newTestService(t)
	provider.CompleteResponse = &ai.CompleteResult{Text: "Their debt load is manageable."}
	key := seedBundle(t, store, "AAPL")

	answer, err := svc.FollowUp(context.Background(), &domain.FollowUpRequest{
		Question:              "How risky is their debt load?",
		Tickers:               []string{"AAPL"},
		InitialRecommendation: "BUY - solid growth.",
	}, []string{key})
	require.NoError(t, err)

	assert.Equal(t, "Their debt load is manageable.", answer)
	assert.Contains(t, provider.LastPrompt, "How risky is their debt load?")
}

func TestFollowUp_ValidatesInput(t *testing.T) {
	svc, provider, _ := newTestService(t)

	_, err := svc.FollowUp(context.Background(), &domain.FollowUpRequest{
		Question: "What about margins?",
	}, nil)
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.Zero(t, provider.CompleteCalls)
}
