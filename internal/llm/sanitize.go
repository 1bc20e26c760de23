package llm

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"
)

// SanitizeJSON makes a lenient pass over raw model output before strict
// schema validation:
//   - renames known synonyms (staff_count -> personnel_count, ...)
//   - coerces numeric strings ("730", "1.250,50") to numbers
//   - drops nulls and unknown keys (additionalProperties=false friendliness)
func SanitizeJSON(raw []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)
	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			// don't overwrite existing value if already present
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	// 1) rename synonyms to our schema
	renamed("staff_count", FieldPersonnelCount)
	renamed("personel_sayisi", FieldPersonnelCount)
	renamed("meal_count", FieldMealsPerDay)
	renamed("ogun_sayisi", FieldMealsPerDay)
	renamed("day_count", FieldDaysCount)
	renamed("gun_sayisi", FieldDaysCount)
	renamed("budget", FieldEstimatedBudget)
	renamed("tahmini_butce", FieldEstimatedBudget)

	// 2) coerce count fields to integers, budget to a number; drop nulls
	for _, k := range []string{FieldPersonnelCount, FieldMealsPerDay, FieldDaysCount} {
		coerceInt(m, k, &dropped)
	}
	coerceNumber(m, FieldEstimatedBudget, &dropped)

	// 3) remove unknown keys
	allowed := map[string]struct{}{
		FieldPersonnelCount: {}, FieldMealsPerDay: {}, FieldDaysCount: {},
		FieldEstimatedBudget: {}, "evidence": {}, "confidence": {},
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, nil, err
	}
	return out, dropped, nil
}

func coerceInt(m map[string]any, k string, dropped *[]string) {
	v, ok := m[k]
	if !ok {
		return
	}
	switch t := v.(type) {
	case nil:
		delete(m, k)
		*dropped = append(*dropped, k+"(null)")
	case float64:
		if t != math.Trunc(t) {
			m[k] = math.Round(t)
			*dropped = append(*dropped, k+"(rounded)")
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			m[k] = n
			*dropped = append(*dropped, k+"(coerced)")
		} else {
			delete(m, k)
			*dropped = append(*dropped, k+"(unparseable)")
		}
	default:
		delete(m, k)
		*dropped = append(*dropped, k+"(type)")
	}
}

func coerceNumber(m map[string]any, k string, dropped *[]string) {
	v, ok := m[k]
	if !ok {
		return
	}
	switch t := v.(type) {
	case nil:
		delete(m, k)
		*dropped = append(*dropped, k+"(null)")
	case float64:
		// already fine
	case string:
		s := strings.TrimSpace(t)
		// Turkish formatting: "1.250,50" -> "1250.50"
		if strings.Contains(s, ",") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			m[k] = f
			*dropped = append(*dropped, k+"(coerced)")
		} else {
			delete(m, k)
			*dropped = append(*dropped, k+"(unparseable)")
		}
	default:
		delete(m, k)
		*dropped = append(*dropped, k+"(type)")
	}
}
