package disambig

import "regexp"

// pattern is one weighted evidence family. Scoring is a fold over the table,
// capped at 1.0, so each family stays independently testable.
type pattern struct {
	name    string
	re      *regexp.Regexp
	weight  float64
	capture bool // group 1 holds the numeric mention
}

// Staff evidence: grammatical markers of people doing the work.
var staffPatterns = []pattern{
	{
		// "8 personel", "12 adet personel"
		name:    "personel-count",
		re:      regexp.MustCompile(`(?i)(\d+)\s*(?:adet\s+)?personel\b`),
		weight:  0.40,
		capture: true,
	},
	{
		// kitchen role nouns with a leading count
		name:    "role-count",
		re:      roleCountRe,
		weight:  roleCountWeight,
		capture: true,
	},
	{
		// passive employment verbs: çalıştırılacak, istihdam edilecek, görevlendirilen
		name:   "passive-employment",
		re:     regexp.MustCompile(`(?i)çalıştırıl\p{L}*|istihdam\s+edil\p{L}*|görevlendiril\p{L}*`),
		weight: 0.35,
	},
	{
		// agentive marker: "... tarafından" (by <agent>)
		name:   "agentive",
		re:     regexp.MustCompile(`(?i)\btarafından\b`),
		weight: 0.30,
	},
}

// roleCountRe also feeds itemized-role-list detection. Longer role names come
// first so "aşçı yardımcısı" is not swallowed by "aşçı".
var roleCountRe = regexp.MustCompile(`(?i)(\d+)\s*(?:aşçı\s+yardımcısı|kebap\s+ustası|temizlik\s+görevlisi|aşçıbaşı|aşçı|garson|şef|usta|işçi|şoför|bulaşıkçı)`)

// Recipient evidence: markers of people being served.
var recipientPatterns = []pattern{
	{
		// capacity suffix: "700 kişilik"
		name:    "capacity",
		re:      regexp.MustCompile(`(?i)(\d+)\s*kişilik`),
		weight:  0.45,
		capture: true,
	},
	{
		// dative person nouns: "1200 öğrenciye", "350 kişiye"
		name:    "dative-recipient",
		re:      regexp.MustCompile(`(?i)(\d+)\s*(?:öğrenciye|öğrencilere|öğrenciler|öğrenci|kişiye|kursiyere|kursiyerlere|hastaya|hastalara|personele|çalışanlara|misafire)`),
		weight:  0.40,
		capture: true,
	},
	{
		// "400 kapasiteli"
		name:    "capacity-noun",
		re:      regexp.MustCompile(`(?i)(\d+)\s*kapasiteli`),
		weight:  0.35,
		capture: true,
	},
	{
		// service delivery phrasing
		name:   "service-delivery",
		re:     regexp.MustCompile(`(?i)hizmet\p{L}*\s+verilecek\p{L}*|yemek\s+verilecek\p{L}*|servis\s+edilecek\p{L}*|dağıtılacak\p{L}*|yemek\s+hizmeti`),
		weight: 0.30,
	},
	{
		// table totals
		name:   "table-total",
		re:     regexp.MustCompile(`(?i)\btoplam\b`),
		weight: 0.20,
	},
}

// Magnitude heuristics over the candidate number.
const (
	smallCountMin    = 3
	smallCountMax    = 50
	largeCountMin    = 100
	smallCountWeight = 0.15
	largeCountWeight = 0.20
)

const roleCountWeight = 0.35

// Weight added when a segment itemizes two or more distinct roles with counts.
const itemizedListWeight = 0.30

var reAnyNumber = regexp.MustCompile(`\d+`)
