package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profitscout/profitscout/internal/domain"
)

const validResultJSON = `{
	"recommendation": "BUY - Strong growth at a reasonable valuation.",
	"reasoning": [
		"Revenue grew 30% year-over-year.",
		"Operating margin expanded to 28%.",
		"Price is above both the 50-day and 200-day moving averages."
	],
	"sectionsOverview": [
		"Business Profile",
		"Valuation"
	]
}`

func TestParseResult_Valid(t *testing.T) {
	result, err := ParseResult(validResultJSON)
	require.NoError(t, err)
	assert.Contains(t, result.Recommendation, "BUY")
	assert.Len(t, result.Reasoning, 3)
	assert.Len(t, result.SectionsOverview, 2)
}

func TestParseResult_StripsCodeFence(t *testing.T) {
	fenced := "```json\n" + validResultJSON + "\n```"
	result, err := ParseResult(fenced)
	require.NoError(t, err)
	assert.Contains(t, result.Recommendation, "BUY")
}

func TestParseResult_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty output", ""},
		{"not json", "I recommend buying this stock."},
		{"missing recommendation", `{"reasoning": ["a", "b", "c"]}`},
		{"too few reasoning bullets", `{"recommendation": "HOLD", "reasoning": ["only one"]}`},
		{"too many reasoning bullets", `{"recommendation": "HOLD", "reasoning": ["1","2","3","4","5","6"]}`},
		{"empty recommendation", `{"recommendation": "", "reasoning": ["a","b","c"]}`},
		{"unexpected field", `{"recommendation": "HOLD", "reasoning": ["a","b","c"], "confidence": 0.9}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResult(tt.text)
			require.Error(t, err)
			assert.Equal(t, domain.EAIOUTPUT, domain.ErrorCode(err))
		})
	}
}
