package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/profitscout/profitscout/internal/domain"
)

// resultSchema is the shared output contract every analysis mode must satisfy.
// Model output failing validation surfaces as an output-validation error with
// no retry.
const resultSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["recommendation", "reasoning"],
	"additionalProperties": false,
	"properties": {
		"recommendation": {
			"type": "string",
			"minLength": 1
		},
		"reasoning": {
			"type": "array",
			"minItems": 3,
			"maxItems": 5,
			"items": {"type": "string", "minLength": 1}
		},
		"sectionsOverview": {
			"type": "array",
			"items": {"type": "string", "minLength": 1}
		}
	}
}`

var resultSchemaLoader = gojsonschema.NewStringLoader(resultSchema)

// ParseResult extracts and validates a RecommendationResult from raw model
// output. Models sometimes wrap the JSON object in a markdown code fence, so
// the fence is stripped before parsing.
func ParseResult(text string) (*domain.RecommendationResult, error) {
	const op = "advisor.parse_result"

	raw := stripCodeFence(text)
	if raw == "" {
		return nil, domain.OutputValidation(nil, op, "model returned empty output")
	}

	docLoader := gojsonschema.NewStringLoader(raw)
	validation, err := gojsonschema.Validate(resultSchemaLoader, docLoader)
	if err != nil {
		return nil, domain.OutputValidation(err, op, "model output is not valid JSON")
	}
	if !validation.Valid() {
		details := make([]string, 0, len(validation.Errors()))
		for _, desc := range validation.Errors() {
			details = append(details, desc.String())
		}
		return nil, domain.OutputValidation(
			fmt.Errorf("schema violations: %s", strings.Join(details, "; ")),
			op,
			"model output failed schema validation",
		)
	}

	var result domain.RecommendationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, domain.OutputValidation(err, op, "model output could not be decoded")
	}
	return &result, nil
}

// stripCodeFence removes a surrounding ```json ... ``` fence if present.
func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
