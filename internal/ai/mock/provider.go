package mock

import (
	"context"
	"log/slog"
	"time"

	"github.com/profitscout/profitscout/internal/ai"
)

// Provider is a mock AI provider for testing and development
type Provider struct {
	logger *slog.Logger

	// Configurable responses for testing
	CompleteResponse *ai.CompleteResult
	CompleteError    error

	// Call tracking for testing
	CompleteCalls int
	LastPrompt    string
}

// New creates a new mock AI provider
func New(logger *slog.Logger) *Provider {
	return &Provider{
		logger: logger,
	}
}

// Complete returns the configured response, or a canned recommendation that
// satisfies the shared output schema so development mode works end to end.
func (p *Provider) Complete(ctx context.Context, params ai.CompleteParams) (*ai.CompleteResult, error) {
	p.CompleteCalls++
	p.LastPrompt = params.Prompt

	if p.CompleteError != nil {
		return nil, p.CompleteError
	}
	if p.CompleteResponse != nil {
		return p.CompleteResponse, nil
	}

	return &ai.CompleteResult{
		Text: `{
  "recommendation": "HOLD - Steady revenue with a balanced risk profile suggests waiting for a clearer entry point.",
  "reasoning": [
    "Revenue grew 6% year-over-year while operating margin held at 21%.",
    "The stock trades at a P/E of 19, in line with its five-year average.",
    "RSI of 54 and price near the 50-day moving average indicate no strong momentum either way."
  ],
  "sectionsOverview": [
    "Business Profile: diversified product lines with moderate competitive moat.",
    "Earnings Summary: stable quarter with guidance unchanged.",
    "Technicals: consolidating range, no breakout signal.",
    "Valuation: fairly valued against peers."
  ]
}`,
		Usage: ai.UsageInfo{
			Model:        "mock-ai-v1",
			InputTokens:  1250,
			OutputTokens: 320,
			Duration:     250 * time.Millisecond,
		},
	}, nil
}
