package llm

// BuildTenderJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We pass this to the model as a structured output constraint and
// also use it locally to validate what comes back.
func BuildTenderJSONSchema() map[string]any {
	countProp := func() map[string]any {
		return map[string]any{"type": []string{"integer", "null"}, "minimum": 0}
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"personnel_count":  countProp(),
			"meals_per_day":    countProp(),
			"days_count":       countProp(),
			"estimated_budget": map[string]any{"type": []string{"number", "null"}, "minimum": 0},
			"evidence": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string"},
			},
			"confidence": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type": "number", "minimum": 0.0, "maximum": 1.0,
				},
			},
		},
	}
}
