// Package validation checks AI-extracted tender fields for plausibility,
// scores per-field confidence and applies deterministic auto-fixes on an
// immutable copy. Data-quality problems never surface as errors; they become
// severity-leveled warnings and a summary.
package validation

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/tenderdesk/tender-extract/internal/llm"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Status string

const (
	StatusValid   Status = "valid"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Warning is one validation finding. SuggestedValue is set only when the fix
// is deterministic; AutoFixed marks it as applied in the fixed copy.
type Warning struct {
	Field          string
	Severity       Severity
	Message        string
	OriginalValue  any
	SuggestedValue any
	AutoFixed      bool
}

// Summary aggregates counts, the derived status, and the confidence report.
type Summary struct {
	Errors         int
	Warnings       int
	Infos          int
	AutoFixedCount int
	Status         Status
	Confidence     ConfidenceReport
}

// Result is the complete validation outcome. FixedData is nil when no
// auto-fix applied; the input is never mutated.
type Result struct {
	IsValid   bool
	Warnings  []Warning
	FixedData *llm.TenderFields
	Summary   Summary
}

type Validator struct {
	cfg    Config
	logger *slog.Logger
}

func NewValidator(cfg Config, logger *slog.Logger) *Validator {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{cfg: cfg, logger: logger}
}

// Validate runs every per-field and cross-field check. It is a pure function
// of the input and the configuration, safe for concurrent use.
func (v *Validator) Validate(data *llm.TenderFields) Result {
	var warnings []Warning

	warnings = append(warnings, v.checkPersonnel(data)...)
	warnings = append(warnings, v.checkMeals(data)...)
	warnings = append(warnings, v.checkDays(data)...)
	warnings = append(warnings, v.checkBudget(data)...)
	warnings = append(warnings, v.deriveBudget(data)...)

	fixed := ApplyAutoFixes(data, warnings)

	summary := summarize(warnings)
	summary.Confidence = ComputeConfidence(warnings, data.AIConfidence)

	res := Result{
		IsValid:   summary.Errors == 0,
		Warnings:  warnings,
		FixedData: fixed,
		Summary:   summary,
	}
	v.logger.Debug("validation complete",
		"status", summary.Status,
		"errors", summary.Errors,
		"warnings", summary.Warnings,
		"auto_fixed", summary.AutoFixedCount,
		"overall_confidence", summary.Confidence.Overall.Score,
	)
	return res
}

func summarize(warnings []Warning) Summary {
	s := Summary{Status: StatusValid}
	for _, w := range warnings {
		switch w.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		default:
			s.Infos++
		}
		if w.AutoFixed {
			s.AutoFixedCount++
		}
	}
	switch {
	case s.Errors > 0:
		s.Status = StatusError
	case s.Warnings > 0:
		s.Status = StatusWarning
	}
	return s
}

// checkPersonnel covers the clause-number false positive: a small headcount
// whose cited evidence reads like a clause reference is a misdetection and is
// auto-fixed to null. A small headcount without that language only earns a
// manual-review warning, because small legitimate counts exist.
func (v *Validator) checkPersonnel(data *llm.TenderFields) []Warning {
	if data.PersonnelCount == nil {
		return nil
	}
	n := *data.PersonnelCount
	var out []Warning

	switch {
	case n <= 0:
		out = append(out, Warning{
			Field:         llm.FieldPersonnelCount,
			Severity:      SeverityError,
			Message:       fmt.Sprintf("personnel count %d is not a valid headcount", n),
			OriginalValue: n,
		})
	case n >= v.cfg.SmallPersonnelMin && n <= v.cfg.SmallPersonnelMax:
		evidence := data.Evidence[llm.FieldPersonnelCount]
		if matched, pat := v.matchesClauseRef(evidence, n); matched {
			out = append(out, Warning{
				Field:    llm.FieldPersonnelCount,
				Severity: SeverityError,
				Message: fmt.Sprintf("headcount %d looks like a clause reference (%s) in evidence %q",
					n, pat, truncate(evidence, 80)),
				OriginalValue:  n,
				SuggestedValue: nil,
				AutoFixed:      true,
			})
		} else {
			out = append(out, Warning{
				Field:         llm.FieldPersonnelCount,
				Severity:      SeverityWarning,
				Message:       fmt.Sprintf("headcount %d is unusually small; verify against the source document", n),
				OriginalValue: n,
			})
		}
	case n > v.cfg.CriticalPersonnel:
		out = append(out, Warning{
			Field:         llm.FieldPersonnelCount,
			Severity:      SeverityError,
			Message:       fmt.Sprintf("headcount %d exceeds the critical threshold %d", n, v.cfg.CriticalPersonnel),
			OriginalValue: n,
		})
	case n > v.cfg.AnomalousPersonnel:
		out = append(out, Warning{
			Field:         llm.FieldPersonnelCount,
			Severity:      SeverityWarning,
			Message:       fmt.Sprintf("headcount %d is anomalously large", n),
			OriginalValue: n,
		})
	}
	return out
}

// matchesClauseRef checks the cited evidence, not the number alone, against
// the configured clause-reference patterns.
func (v *Validator) matchesClauseRef(evidence string, n int) (bool, string) {
	if strings.TrimSpace(evidence) == "" {
		return false, ""
	}
	num := strconv.Itoa(n)
	for _, tmpl := range v.cfg.ClauseRefPatterns {
		re, err := regexp.Compile(strings.ReplaceAll(tmpl, "{n}", num))
		if err != nil {
			v.logger.Warn("bad clause-reference pattern", "pattern", tmpl, "error", err)
			continue
		}
		if re.MatchString(evidence) {
			return true, tmpl
		}
	}
	return false, ""
}

func (v *Validator) checkMeals(data *llm.TenderFields) []Warning {
	if data.MealsPerDay == nil {
		return nil
	}
	n := *data.MealsPerDay
	switch {
	case n < v.cfg.MinDailyMeals:
		return []Warning{{
			Field:          llm.FieldMealsPerDay,
			Severity:       SeverityError,
			Message:        fmt.Sprintf("meals per day %d is below the minimum %d", n, v.cfg.MinDailyMeals),
			OriginalValue:  n,
			SuggestedValue: v.cfg.StandardDailyMeals,
		}}
	case n > v.cfg.MaxDailyMeals:
		return []Warning{{
			Field:         llm.FieldMealsPerDay,
			Severity:      SeverityWarning,
			Message:       fmt.Sprintf("meals per day %d exceeds the usual maximum %d", n, v.cfg.MaxDailyMeals),
			OriginalValue: n,
		}}
	}
	return nil
}

func (v *Validator) checkDays(data *llm.TenderFields) []Warning {
	if data.DaysCount == nil {
		return nil
	}
	n := *data.DaysCount
	switch {
	case n <= 0:
		return []Warning{{
			Field:         llm.FieldDaysCount,
			Severity:      SeverityError,
			Message:       fmt.Sprintf("day count %d is not a valid duration", n),
			OriginalValue: n,
		}}
	case n > v.cfg.CriticalDays:
		return []Warning{{
			Field:         llm.FieldDaysCount,
			Severity:      SeverityError,
			Message:       fmt.Sprintf("day count %d exceeds the critical threshold %d", n, v.cfg.CriticalDays),
			OriginalValue: n,
		}}
	case n < v.cfg.MinDays:
		return []Warning{{
			Field:         llm.FieldDaysCount,
			Severity:      SeverityWarning,
			Message:       fmt.Sprintf("day count %d is below the usual minimum %d", n, v.cfg.MinDays),
			OriginalValue: n,
		}}
	case n > v.cfg.MaxDays:
		return []Warning{{
			Field:         llm.FieldDaysCount,
			Severity:      SeverityWarning,
			Message:       fmt.Sprintf("day count %d exceeds the usual maximum %d", n, v.cfg.MaxDays),
			OriginalValue: n,
		}}
	}
	return nil
}

// checkBudget runs the cross-field plausibility bounds: cost per meal and
// budget per person per day, both attributed to the budget field.
func (v *Validator) checkBudget(data *llm.TenderFields) []Warning {
	if data.EstimatedBudget == nil {
		return nil
	}
	budget := *data.EstimatedBudget
	var out []Warning

	if budget <= 0 {
		return []Warning{{
			Field:         llm.FieldEstimatedBudget,
			Severity:      SeverityError,
			Message:       fmt.Sprintf("budget %.2f is not a valid amount", budget),
			OriginalValue: budget,
		}}
	}

	if data.PersonnelCount != nil && data.MealsPerDay != nil && data.DaysCount != nil &&
		*data.PersonnelCount > 0 && *data.MealsPerDay > 0 && *data.DaysCount > 0 {
		totalMeals := float64(*data.PersonnelCount) * float64(*data.MealsPerDay) * float64(*data.DaysCount)
		costPerMeal := budget / totalMeals
		switch {
		case costPerMeal < v.cfg.MinMealCost:
			out = append(out, Warning{
				Field:         llm.FieldEstimatedBudget,
				Severity:      SeverityError,
				Message:       fmt.Sprintf("implied cost per meal %.2f is below the minimum %.2f", costPerMeal, v.cfg.MinMealCost),
				OriginalValue: budget,
			})
		case costPerMeal > v.cfg.MaxMealCost:
			out = append(out, Warning{
				Field:         llm.FieldEstimatedBudget,
				Severity:      SeverityError,
				Message:       fmt.Sprintf("implied cost per meal %.2f exceeds the maximum %.2f", costPerMeal, v.cfg.MaxMealCost),
				OriginalValue: budget,
			})
		}
	}

	if data.PersonnelCount != nil && data.DaysCount != nil &&
		*data.PersonnelCount > 0 && *data.DaysCount > 0 {
		perPersonDay := budget / (float64(*data.PersonnelCount) * float64(*data.DaysCount))
		if perPersonDay > v.cfg.MaxBudgetPerPersonDay {
			out = append(out, Warning{
				Field:         llm.FieldEstimatedBudget,
				Severity:      SeverityWarning,
				Message:       fmt.Sprintf("budget per person per day %.2f exceeds the limit %.2f", perPersonDay, v.cfg.MaxBudgetPerPersonDay),
				OriginalValue: budget,
			})
		}
	}

	return out
}

// deriveBudget fills a missing budget from headcount, meal count and duration
// using the configured average meal cost. The suggestion is a placeholder for
// downstream consumers, not ground truth, hence warning severity.
func (v *Validator) deriveBudget(data *llm.TenderFields) []Warning {
	if data.EstimatedBudget != nil {
		return nil
	}
	if data.PersonnelCount == nil || data.MealsPerDay == nil || data.DaysCount == nil {
		return nil
	}
	if *data.PersonnelCount <= 0 || *data.MealsPerDay <= 0 || *data.DaysCount <= 0 {
		return nil
	}

	derived := float64(*data.PersonnelCount) * float64(*data.MealsPerDay) * float64(*data.DaysCount) * v.cfg.AvgMealCost
	return []Warning{{
		Field:    llm.FieldEstimatedBudget,
		Severity: SeverityWarning,
		Message: fmt.Sprintf("budget missing; derived %.2f from %d people x %d meals x %d days x %.2f avg meal cost",
			derived, *data.PersonnelCount, *data.MealsPerDay, *data.DaysCount, v.cfg.AvgMealCost),
		OriginalValue:  nil,
		SuggestedValue: derived,
		AutoFixed:      true,
	}}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
