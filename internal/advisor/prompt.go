package advisor

import (
	"fmt"
	"strings"

	"github.com/profitscout/profitscout/internal/bundle"
	"github.com/profitscout/profitscout/internal/domain"
)

// promptPreamble sets the analyst persona shared by every analysis mode.
const promptPreamble = `You are ProfitScout, an experienced equity research analyst. You produce clear, grounded buy/hold/sell recommendations for retail investors. You never give personalized financial advice; you analyze the data you are given and explain your reasoning in plain language.`

// outputFormatInstructions is appended to every recommendation prompt. Each
// mode fills the same output contract so the response can be validated
// against one schema.
const outputFormatInstructions = `
**Response Format:**
Return your analysis as a JSON object with this exact structure:

{
  "recommendation": "BUY, HOLD, or SELL, followed by a one-sentence summary of your call",
  "reasoning": [
    "Between 3 and 5 bullet points supporting the recommendation, each grounded in the data above"
  ],
  "sectionsOverview": [
    "Optional: short titles of the analysis sections the user can ask follow-up questions about"
  ]
}

**Important:** Return ONLY the JSON object, no additional text or explanation.`

// buildSectorPrompt asks for the single best pick within a named sector or
// industry. No grounding bundles are supplied in this mode.
func buildSectorPrompt(sector string) string {
	var sb strings.Builder
	sb.WriteString(promptPreamble)
	sb.WriteString(fmt.Sprintf(`

A user wants your single best stock pick in the following sector or industry: %q.

Choose one well-known, publicly traded company in that sector. Base your call on what you know about the sector's current dynamics, the company's competitive position, and its general financial reputation. Name the company and its ticker in your recommendation.`, sector))
	sb.WriteString(outputFormatInstructions)
	return sb.String()
}

// buildAITopPickPrompt asks the model for an unconstrained top pick. The user
// supplied no tickers and no sector, so the model chooses freely among
// well-known issuers.
func buildAITopPickPrompt() string {
	var sb strings.Builder
	sb.WriteString(promptPreamble)
	sb.WriteString(`

A user wants your single best stock idea right now, with no constraints. Pick one well-known, publicly traded company you consider the most attractive opportunity. Name the company and its ticker in your recommendation, and be explicit that this pick is based on your general knowledge rather than supplied data.`)
	sb.WriteString(outputFormatInstructions)
	return sb.String()
}

// buildSingleStockPrompt analyzes one stock from its full data bundle.
func buildSingleStockPrompt(b *bundle.Bundle) string {
	var sb strings.Builder
	sb.WriteString(promptPreamble)
	sb.WriteString(fmt.Sprintf(`

Analyze the following company and decide whether it is a BUY, HOLD, or SELL: %s.

Here is the company's data bundle, containing its business profile, latest earnings call summary, management discussion and analysis, financial statements, ratios, technicals, and recent price history:

%s

Weigh the fundamentals (growth, margins, leverage), the valuation, and the technical picture. Call out the most important risk.`, b.Label(), b.Raw))
	sb.WriteString(outputFormatInstructions)
	return sb.String()
}

// buildComparePrompt compares two stocks head to head and recommends at most
// one of them.
func buildComparePrompt(first, second *bundle.Bundle) string {
	var sb strings.Builder
	sb.WriteString(promptPreamble)
	sb.WriteString(fmt.Sprintf(`

Compare the following two companies head to head and recommend which one, if either, is the better investment right now: %s versus %s.

Data bundle for %s:

%s

Data bundle for %s:

%s

Compare their growth, profitability, balance sheets, valuations, and technicals. Your recommendation must name the winner (or state that neither is attractive) and your reasoning must reference both companies.`,
		first.Label(), second.Label(),
		first.Label(), first.Raw,
		second.Label(), second.Raw))
	sb.WriteString(outputFormatInstructions)
	return sb.String()
}

// buildMultiPickPrompt presents a pre-ranked candidate list. The ranking is
// computed deterministically before the model is called; the model explains
// the winner rather than re-ranking.
func buildMultiPickPrompt(ranked []Candidate) string {
	var sb strings.Builder
	sb.WriteString(promptPreamble)
	sb.WriteString(fmt.Sprintf(`

A user asked you to pick the single best investment among %d candidates. The candidates have already been ranked by a composite score combining earnings strength, technical momentum, valuation, and balance-sheet risk. The ranking below is final: your recommendation must be the rank 1 company, and your reasoning must explain why it beat the runner-ups.

Ranked candidates (best first):
`, len(ranked)))

	for _, c := range ranked {
		sb.WriteString(fmt.Sprintf("\n%d. %s: composite %.3f (earnings %.2f, technicals %.2f, valuation %.2f, risk %.2f)\n",
			c.Rank, c.Bundle.Label(), c.Composite,
			c.EarningsScore, c.TechnicalScore, c.ValuationScore, c.RiskScore))
	}

	sb.WriteString("\nData bundles:\n")
	for _, c := range ranked {
		sb.WriteString(fmt.Sprintf("\n--- %s ---\n%s\n", c.Bundle.Label(), c.Bundle.Raw))
	}

	sb.WriteString(`
In sectionsOverview, list the runner-ups in rank order so the user can ask about them.`)
	sb.WriteString(outputFormatInstructions)
	return sb.String()
}

// BuildFollowUpPrompt assembles a follow-up question prompt grounded in a
// prior recommendation and the bundles for up to two tickers.
func BuildFollowUpPrompt(req *domain.FollowUpRequest, bundles []*bundle.Bundle) string {
	var sb strings.Builder
	sb.WriteString(promptPreamble)
	sb.WriteString(fmt.Sprintf(`

You previously gave a user this recommendation:

%s

The user now has a follow-up question. Answer it using the recommendation above and the data bundles below. Stay consistent with your original call unless the user's question surfaces something that genuinely changes it. Answer in plain prose, not JSON.`, req.InitialRecommendation))

	for _, b := range bundles {
		sb.WriteString(fmt.Sprintf("\n\nData bundle for %s:\n\n%s", b.Label(), b.Raw))
	}

	if len(req.ChatHistory) > 0 {
		sb.WriteString("\n\nConversation so far:\n")
		for _, m := range req.ChatHistory {
			sb.WriteString(fmt.Sprintf("\n%s: %s", m.Role, m.Content))
		}
	}

	sb.WriteString(fmt.Sprintf("\n\nUser's question: %s", req.Question))
	return sb.String()
}

// BuildFeedbackSummaryPrompt condenses free-form user feedback into a short
// actionable summary for the product team.
func BuildFeedbackSummaryPrompt(feedback string) string {
	return fmt.Sprintf(`Summarize the following user feedback about a stock recommendation app in one or two sentences. Capture the core sentiment and any concrete feature request or complaint. Respond with the summary only, no preamble.

Feedback:
%s`, feedback)
}
