// Package domain holds the core types shared across the ProfitScout
// application: analysis requests, user records, the stock catalog, and the
// structured error model.
package domain

// MaxBundleRefs is the upper bound on data bundle references in a single
// analysis request. Requests above the cap are rejected before mode
// selection.
const MaxBundleRefs = 10

// AnalysisRequest describes one recommendation request. The analysis mode is
// a pure function of (len(BundleRefs), Sector != ""); Ticker and CompanyName
// are display hints only and never influence branching.
type AnalysisRequest struct {
	BundleRefs  []string `json:"bundleRefs"`
	Sector      string   `json:"sector,omitempty"`
	Ticker      string   `json:"ticker,omitempty"`
	CompanyName string   `json:"companyName,omitempty"`
}

// Validate checks the declared input domain. It does not select a mode.
func (r *AnalysisRequest) Validate() error {
	const op = "analysis.validate"
	if len(r.BundleRefs) > MaxBundleRefs {
		return Invalid(op, "at most 10 bundle references are allowed")
	}
	for _, ref := range r.BundleRefs {
		if ref == "" {
			return Invalid(op, "bundle references must be non-empty")
		}
	}
	return nil
}

// RecommendationResult is the structured output contract every analysis mode
// must satisfy. It is validated against the output schema before being
// returned to the caller.
type RecommendationResult struct {
	// Recommendation is BUY, HOLD, or SELL plus a one-sentence summary.
	Recommendation string `json:"recommendation"`
	// Reasoning holds 3-5 bullet points supporting the recommendation.
	Reasoning []string `json:"reasoning"`
	// SectionsOverview optionally lists the major analysis sections the
	// user can drill into with follow-up questions.
	SectionsOverview []string `json:"sectionsOverview,omitempty"`
}

// ChatMessage is one turn of a follow-up conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// FollowUpRequest asks a question grounded in a prior recommendation.
type FollowUpRequest struct {
	Question              string        `json:"question"`
	Tickers               []string      `json:"tickers"` // at most two
	InitialRecommendation string        `json:"initialRecommendation"`
	ChatHistory           []ChatMessage `json:"chatHistory,omitempty"`
}

// Validate checks the follow-up input shape.
func (r *FollowUpRequest) Validate() error {
	const op = "followup.validate"
	if r.Question == "" {
		return Invalid(op, "question is required")
	}
	if len(r.Tickers) == 0 || r.Tickers[0] == "" {
		return Invalid(op, "at least one ticker is required")
	}
	if len(r.Tickers) > 2 {
		return Invalid(op, "at most two tickers are allowed")
	}
	if r.InitialRecommendation == "" {
		return Invalid(op, "initialRecommendation is required")
	}
	for _, m := range r.ChatHistory {
		if m.Role != "user" && m.Role != "assistant" {
			return Invalid(op, "chat history roles must be 'user' or 'assistant'")
		}
	}
	return nil
}
