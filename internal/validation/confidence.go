package validation

import "github.com/tenderdesk/tender-extract/internal/llm"

type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"   // >= 0.8
	ConfidenceMedium ConfidenceLevel = "medium" // >= 0.5
	ConfidenceLow    ConfidenceLevel = "low"
)

const (
	errorPenalty   = 0.3
	warningPenalty = 0.15
)

type FieldConfidence struct {
	Score float64
	Level ConfidenceLevel
}

// ConfidenceReport scores every tracked field plus an overall mean.
type ConfidenceReport struct {
	Fields  map[string]FieldConfidence
	Overall FieldConfidence
}

func levelFor(score float64) ConfidenceLevel {
	switch {
	case score >= 0.8:
		return ConfidenceHigh
	case score >= 0.5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ComputeConfidence starts every tracked field at 1.0, subtracts per detected
// error and warning, averages with the model-reported confidence when one
// exists, then clamps to [0,1].
func ComputeConfidence(warnings []Warning, aiConfidence map[string]float64) ConfidenceReport {
	rep := ConfidenceReport{Fields: make(map[string]FieldConfidence, len(llm.TrackedFields))}

	var sum float64
	for _, field := range llm.TrackedFields {
		score := 1.0
		for _, w := range warnings {
			if w.Field != field {
				continue
			}
			switch w.Severity {
			case SeverityError:
				score -= errorPenalty
			case SeverityWarning:
				score -= warningPenalty
			}
		}
		if ai, ok := aiConfidence[field]; ok {
			score = (score + ai) / 2
		}
		score = clamp01(score)
		rep.Fields[field] = FieldConfidence{Score: score, Level: levelFor(score)}
		sum += score
	}

	overall := sum / float64(len(llm.TrackedFields))
	rep.Overall = FieldConfidence{Score: overall, Level: levelFor(overall)}
	return rep
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
