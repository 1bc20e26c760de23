package llm

import "context"

// Canonical field names, shared with the validator and the confidence report.
const (
	FieldPersonnelCount  = "personnel_count"
	FieldMealsPerDay     = "meals_per_day"
	FieldDaysCount       = "days_count"
	FieldEstimatedBudget = "estimated_budget"
)

// TrackedFields are the fields the confidence report scores.
var TrackedFields = []string{
	FieldPersonnelCount,
	FieldMealsPerDay,
	FieldDaysCount,
	FieldEstimatedBudget,
}

// TenderFields is the structured record an external model extracts from a
// tender document. Nil pointers mean the field was not found. Evidence maps a
// field to the source sentence the model cited; AIConfidence is the model's
// own per-field confidence, both optional.
type TenderFields struct {
	PersonnelCount  *int     `json:"personnel_count,omitempty"`
	MealsPerDay     *int     `json:"meals_per_day,omitempty"`
	DaysCount       *int     `json:"days_count,omitempty"`
	EstimatedBudget *float64 `json:"estimated_budget,omitempty"`

	Evidence     map[string]string  `json:"evidence,omitempty"`
	AIConfidence map[string]float64 `json:"confidence,omitempty"`
}

// Clone returns a deep copy; the validator's auto-fix path must never touch
// the original.
func (f *TenderFields) Clone() *TenderFields {
	if f == nil {
		return nil
	}
	c := &TenderFields{}
	if f.PersonnelCount != nil {
		v := *f.PersonnelCount
		c.PersonnelCount = &v
	}
	if f.MealsPerDay != nil {
		v := *f.MealsPerDay
		c.MealsPerDay = &v
	}
	if f.DaysCount != nil {
		v := *f.DaysCount
		c.DaysCount = &v
	}
	if f.EstimatedBudget != nil {
		v := *f.EstimatedBudget
		c.EstimatedBudget = &v
	}
	if f.Evidence != nil {
		c.Evidence = make(map[string]string, len(f.Evidence))
		for k, v := range f.Evidence {
			c.Evidence[k] = v
		}
	}
	if f.AIConfidence != nil {
		c.AIConfidence = make(map[string]float64, len(f.AIConfidence))
		for k, v := range f.AIConfidence {
			c.AIConfidence[k] = v
		}
	}
	return c
}

// FieldExtractor is Stage 2: text -> structured fields. The implementation
// (an LLM provider, its prompts, its caching) is an external collaborator.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text string, hints map[string]string) (FieldsResult, error)
}

// FieldsResult is the raw collaborator output before schema validation.
type FieldsResult struct {
	JSON        string
	ModelName   string
	ModelParams map[string]any
}
