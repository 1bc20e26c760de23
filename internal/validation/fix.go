package validation

import "github.com/tenderdesk/tender-extract/internal/llm"

// ApplyAutoFixes builds a fixed copy from the warnings marked AutoFixed. The
// original is never mutated; when nothing is fixable the function returns nil
// rather than a spurious clone.
func ApplyAutoFixes(data *llm.TenderFields, warnings []Warning) *llm.TenderFields {
	var fixed *llm.TenderFields
	ensure := func() *llm.TenderFields {
		if fixed == nil {
			fixed = data.Clone()
		}
		return fixed
	}

	for _, w := range warnings {
		if !w.AutoFixed {
			continue
		}
		switch w.Field {
		case llm.FieldPersonnelCount:
			// clause-number misdetection: the only deterministic fix is null
			ensure().PersonnelCount = nil
		case llm.FieldMealsPerDay:
			if v, ok := asInt(w.SuggestedValue); ok {
				ensure().MealsPerDay = &v
			}
		case llm.FieldDaysCount:
			if v, ok := asInt(w.SuggestedValue); ok {
				ensure().DaysCount = &v
			}
		case llm.FieldEstimatedBudget:
			if v, ok := asFloat(w.SuggestedValue); ok {
				ensure().EstimatedBudget = &v
			}
		}
	}
	return fixed
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case float64:
		return int(t), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	}
	return 0, false
}
