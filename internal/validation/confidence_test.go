package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tenderdesk/tender-extract/internal/llm"
)

func TestConfidenceStartsAtOne(t *testing.T) {
	rep := ComputeConfidence(nil, nil)
	for _, field := range llm.TrackedFields {
		assert.Equal(t, 1.0, rep.Fields[field].Score, field)
		assert.Equal(t, ConfidenceHigh, rep.Fields[field].Level, field)
	}
	assert.Equal(t, 1.0, rep.Overall.Score)
}

func TestConfidencePenalties(t *testing.T) {
	warnings := []Warning{
		{Field: llm.FieldPersonnelCount, Severity: SeverityError},
		{Field: llm.FieldDaysCount, Severity: SeverityWarning},
		{Field: llm.FieldDaysCount, Severity: SeverityWarning},
	}
	rep := ComputeConfidence(warnings, nil)

	assert.InDelta(t, 0.7, rep.Fields[llm.FieldPersonnelCount].Score, 1e-9)
	assert.InDelta(t, 0.7, rep.Fields[llm.FieldDaysCount].Score, 1e-9)
	assert.Equal(t, 1.0, rep.Fields[llm.FieldMealsPerDay].Score)
	assert.InDelta(t, (0.7+0.7+1+1)/4, rep.Overall.Score, 1e-9)
}

func TestConfidenceStrictlyDecreasesWithAddedError(t *testing.T) {
	base := []Warning{{Field: llm.FieldPersonnelCount, Severity: SeverityWarning}}
	more := append(base, Warning{Field: llm.FieldPersonnelCount, Severity: SeverityError})

	before := ComputeConfidence(base, nil)
	after := ComputeConfidence(more, nil)

	assert.Less(t, after.Fields[llm.FieldPersonnelCount].Score, before.Fields[llm.FieldPersonnelCount].Score)
	assert.Less(t, after.Overall.Score, before.Overall.Score)
}

func TestConfidenceBlendsModelSelfReport(t *testing.T) {
	rep := ComputeConfidence(nil, map[string]float64{llm.FieldPersonnelCount: 0.6})
	assert.InDelta(t, 0.8, rep.Fields[llm.FieldPersonnelCount].Score, 1e-9)
	assert.Equal(t, 1.0, rep.Fields[llm.FieldMealsPerDay].Score)
}

func TestConfidenceClampedAtZero(t *testing.T) {
	warnings := []Warning{
		{Field: llm.FieldDaysCount, Severity: SeverityError},
		{Field: llm.FieldDaysCount, Severity: SeverityError},
		{Field: llm.FieldDaysCount, Severity: SeverityError},
		{Field: llm.FieldDaysCount, Severity: SeverityError},
	}
	rep := ComputeConfidence(warnings, nil)
	assert.Equal(t, 0.0, rep.Fields[llm.FieldDaysCount].Score)
	assert.Equal(t, ConfidenceLow, rep.Fields[llm.FieldDaysCount].Level)
}

func TestConfidenceLevels(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, levelFor(0.8))
	assert.Equal(t, ConfidenceMedium, levelFor(0.79))
	assert.Equal(t, ConfidenceMedium, levelFor(0.5))
	assert.Equal(t, ConfidenceLow, levelFor(0.49))
}
