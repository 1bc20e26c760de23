// Package disambig decides whether a numeric mention in Turkish tender prose
// refers to staff employed or to people served. Two weighted pattern scorers
// run over every segment; the strictly higher score wins, ties stay ambiguous.
//
// It is a pure function of its input and safe to call concurrently.
package disambig

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type Category string

const (
	Staff     Category = "staff"
	Recipient Category = "recipient"
	Ambiguous Category = "ambiguous"
)

// AcceptThreshold is the paragraph-level confidence gate: results at or below
// it land in the ambiguous bucket.
const AcceptThreshold = 0.6

// SegmentResult is the verdict for one sentence or line.
type SegmentResult struct {
	Category   Category
	Confidence float64
	Reasoning  string
	Number     *int
}

// ParagraphAnalysis aggregates segment verdicts. A number appears in at most
// one of the three sets; the last-scored category wins per occurrence.
type ParagraphAnalysis struct {
	StaffNumbers     []int
	RecipientNumbers []int
	AmbiguousNumbers []int
}

type sideScore struct {
	score   float64
	number  *int
	numberW float64
	matched []string
}

// scoreSide folds the pattern table over the segment. The number reported for
// the side comes from the highest-weight capturing pattern that matched.
func scoreSide(segment string, patterns []pattern) sideScore {
	var s sideScore
	for _, p := range patterns {
		if p.capture {
			m := p.re.FindStringSubmatch(segment)
			if m == nil {
				continue
			}
			s.score += p.weight
			s.matched = append(s.matched, p.name)
			if n, err := strconv.Atoi(m[1]); err == nil && p.weight > s.numberW {
				s.number = &n
				s.numberW = p.weight
			}
			continue
		}
		if p.re.MatchString(segment) {
			s.score += p.weight
			s.matched = append(s.matched, p.name)
		}
	}
	return s
}

// itemizedRoles reports the distinct role+count mentions and their sum.
func itemizedRoles(segment string) (distinct int, sum int) {
	seen := map[string]struct{}{}
	for _, m := range roleCountRe.FindAllStringSubmatch(segment, -1) {
		role := strings.ToLower(strings.Join(strings.Fields(strings.TrimSpace(trimLeadingNumber(m[0]))), " "))
		seen[role] = struct{}{}
		if n, err := strconv.Atoi(m[1]); err == nil {
			sum += n
		}
	}
	return len(seen), sum
}

var reLeadingNumber = regexp.MustCompile(`^\d+\s*`)

func trimLeadingNumber(s string) string {
	return reLeadingNumber.ReplaceAllString(s, "")
}

// AnalyzeSegment scores one sentence or line against both interpretations.
func AnalyzeSegment(segment string) SegmentResult {
	staff := scoreSide(segment, staffPatterns)
	recip := scoreSide(segment, recipientPatterns)

	// Itemized role lists strengthen the staff reading. The summed counts beat
	// a number taken from a single role mention, but never a direct headcount.
	distinct, sum := itemizedRoles(segment)
	if distinct >= 2 {
		staff.score += itemizedListWeight
		staff.matched = append(staff.matched, "itemized-roles")
		if sum > 0 && staff.numberW <= roleCountWeight {
			staff.number = &sum
		}
	}

	candidate := staff.number
	if candidate == nil {
		candidate = recip.number
	}
	if candidate == nil {
		if m := reAnyNumber.FindString(segment); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				candidate = &n
			}
		}
	}

	if candidate != nil {
		if *candidate >= smallCountMin && *candidate <= smallCountMax {
			staff.score += smallCountWeight
			staff.matched = append(staff.matched, "small-count")
		}
		if *candidate >= largeCountMin {
			recip.score += largeCountWeight
			recip.matched = append(recip.matched, "large-count")
		}
	}

	staff.score = min(staff.score, 1.0)
	recip.score = min(recip.score, 1.0)

	reasoning := fmt.Sprintf("staff=%.2f [%s] recipient=%.2f [%s]",
		staff.score, strings.Join(staff.matched, ","),
		recip.score, strings.Join(recip.matched, ","))

	switch {
	case staff.score > recip.score:
		num := staff.number
		if num == nil {
			num = candidate
		}
		return SegmentResult{Category: Staff, Confidence: staff.score, Reasoning: reasoning, Number: num}
	case recip.score > staff.score:
		num := recip.number
		if num == nil {
			num = candidate
		}
		return SegmentResult{Category: Recipient, Confidence: recip.score, Reasoning: reasoning, Number: num}
	default:
		conf := 0.5
		if staff.score == 0 && candidate == nil {
			conf = 0
		}
		return SegmentResult{Category: Ambiguous, Confidence: conf, Reasoning: reasoning, Number: candidate}
	}
}

var reSentenceEnd = regexp.MustCompile(`[.!?]+`)

// segments splits twice: by sentence terminators and independently by line
// breaks. Tabular content carries no sentence punctuation, so both views run;
// the same mention can therefore be scored twice with different context.
func segments(text string) []string {
	var out []string
	for _, s := range reSentenceEnd.Split(text, -1) {
		if s = strings.TrimSpace(s); len(s) > 1 {
			out = append(out, s)
		}
	}
	for _, s := range strings.Split(text, "\n") {
		if s = strings.TrimSpace(s); len(s) > 1 {
			out = append(out, s)
		}
	}
	return out
}

// AnalyzeParagraph runs AnalyzeSegment over both segmentations and buckets
// every extracted number. Verdicts at or below AcceptThreshold go to the
// ambiguous set. Output sets are deduplicated and sorted.
func AnalyzeParagraph(text string) ParagraphAnalysis {
	assigned := map[int]Category{}
	for _, seg := range segments(text) {
		r := AnalyzeSegment(seg)
		if r.Number == nil {
			continue
		}
		cat := r.Category
		if r.Confidence <= AcceptThreshold {
			cat = Ambiguous
		}
		assigned[*r.Number] = cat
	}

	var pa ParagraphAnalysis
	for n, cat := range assigned {
		switch cat {
		case Staff:
			pa.StaffNumbers = append(pa.StaffNumbers, n)
		case Recipient:
			pa.RecipientNumbers = append(pa.RecipientNumbers, n)
		default:
			pa.AmbiguousNumbers = append(pa.AmbiguousNumbers, n)
		}
	}
	sort.Ints(pa.StaffNumbers)
	sort.Ints(pa.RecipientNumbers)
	sort.Ints(pa.AmbiguousNumbers)
	return pa
}
