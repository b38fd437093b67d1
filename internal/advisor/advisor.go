package advisor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/profitscout/profitscout/internal/ai"
	"github.com/profitscout/profitscout/internal/bundle"
	"github.com/profitscout/profitscout/internal/domain"
	"github.com/profitscout/profitscout/internal/metrics"
)

// Generation settings. Recommendations run cool for consistency; follow-up
// chat runs slightly warmer.
const (
	recommendTemperature = 0.2
	followUpTemperature  = 0.5
	followUpMaxTokens    = 1024
)

// Service routes analysis requests through the mode-specific pipelines.
type Service struct {
	provider ai.Provider
	resolver *bundle.Resolver
	logger   *slog.Logger
}

// New creates an advisor service.
func New(provider ai.Provider, resolver *bundle.Resolver, logger *slog.Logger) *Service {
	return &Service{
		provider: provider,
		resolver: resolver,
		logger:   logger,
	}
}

// Recommend runs one analysis request end to end: select the mode, resolve
// the referenced bundles, assemble the prompt, call the model once, and
// validate the structured output. Any failure surfaces immediately; nothing
// on this path retries.
func (s *Service) Recommend(ctx context.Context, req *domain.AnalysisRequest) (*domain.RecommendationResult, AnalysisMode, error) {
	const op = "advisor.recommend"

	if err := req.Validate(); err != nil {
		return nil, "", err
	}

	mode := SelectMode(req)
	log := s.logger.With(slog.String("mode", string(mode)))

	prompt, err := s.assemblePrompt(ctx, mode, req)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues(string(mode), "error").Inc()
		return nil, mode, err
	}

	resp, err := s.complete(ctx, ai.CompleteParams{
		Prompt:      prompt,
		Temperature: recommendTemperature,
	})
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues(string(mode), "error").Inc()
		return nil, mode, domain.Internal(err, op, "AI analysis failed")
	}

	result, err := ParseResult(resp.Text)
	if err != nil {
		log.Warn("model output failed validation", slog.String("error", err.Error()))
		metrics.RecommendationsTotal.WithLabelValues(string(mode), "invalid_output").Inc()
		return nil, mode, err
	}

	log.Info("recommendation produced",
		slog.Int("bundles", len(req.BundleRefs)),
		slog.Int("input_tokens", resp.Usage.InputTokens),
		slog.Int("output_tokens", resp.Usage.OutputTokens),
		slog.Duration("ai_duration", resp.Usage.Duration),
	)
	metrics.RecommendationsTotal.WithLabelValues(string(mode), "ok").Inc()

	return result, mode, nil
}

// FollowUp answers a question about a prior recommendation. The caller has
// already resolved the question's tickers into bundle references. The answer
// is free prose, not schema-validated.
func (s *Service) FollowUp(ctx context.Context, req *domain.FollowUpRequest, bundleRefs []string) (string, error) {
	const op = "advisor.followup"

	if err := req.Validate(); err != nil {
		return "", err
	}

	bundles, err := s.resolver.ResolveAll(ctx, bundleRefs)
	if err != nil {
		metrics.FollowUpsTotal.WithLabelValues("error").Inc()
		return "", err
	}

	resp, err := s.complete(ctx, ai.CompleteParams{
		Prompt:      BuildFollowUpPrompt(req, bundles),
		MaxTokens:   followUpMaxTokens,
		Temperature: followUpTemperature,
	})
	if err != nil {
		metrics.FollowUpsTotal.WithLabelValues("error").Inc()
		return "", domain.Internal(err, op, "AI follow-up failed")
	}

	metrics.FollowUpsTotal.WithLabelValues("ok").Inc()
	return resp.Text, nil
}

// assemblePrompt resolves the bundles a mode needs and builds its prompt.
// The returned prompt references only the fields relevant to the mode.
func (s *Service) assemblePrompt(ctx context.Context, mode AnalysisMode, req *domain.AnalysisRequest) (string, error) {
	switch mode {
	case ModeSectorOrIndustry:
		return buildSectorPrompt(req.Sector), nil

	case ModeAITopPickSingle:
		return buildAITopPickPrompt(), nil

	case ModeSingleStock:
		b, err := s.resolver.Resolve(ctx, req.BundleRefs[0])
		if err != nil {
			return "", err
		}
		return buildSingleStockPrompt(b), nil

	case ModeCompareTwoStocks:
		bundles, err := s.resolver.ResolveAll(ctx, req.BundleRefs)
		if err != nil {
			return "", err
		}
		return buildComparePrompt(bundles[0], bundles[1]), nil

	case ModeMultiStockTopPick:
		bundles, err := s.resolver.ResolveAll(ctx, req.BundleRefs)
		if err != nil {
			return "", err
		}
		return buildMultiPickPrompt(RankCandidates(bundles)), nil

	default:
		return "", domain.Internal(fmt.Errorf("unhandled mode %q", mode), "advisor.assemble_prompt", "unknown analysis mode")
	}
}

// complete executes one model call and records usage metrics.
func (s *Service) complete(ctx context.Context, params ai.CompleteParams) (*ai.CompleteResult, error) {
	resp, err := s.provider.Complete(ctx, params)
	if err != nil {
		metrics.AIAPICalls.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.AIAPICalls.WithLabelValues("success").Inc()
	metrics.RecordAIUsage(resp.Usage.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	return resp, nil
}
