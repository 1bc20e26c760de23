package disambig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaffWithItemizedRoles(t *testing.T) {
	seg := "Yüklenici tarafından çalıştırılacak 8 personel (1 aşçıbaşı, 3 aşçı, 2 kebap ustası, 2 aşçı yardımcısı) ile hizmet verilecektir"
	r := AnalyzeSegment(seg)

	assert.Equal(t, Staff, r.Category)
	assert.InDelta(t, 1.0, r.Confidence, 0.001)
	require.NotNil(t, r.Number)
	assert.Equal(t, 8, *r.Number) // the direct personel match, not the role sum
}

func TestRecipientDativeWithServiceDelivery(t *testing.T) {
	r := AnalyzeSegment("1200 öğrenciye günde 3 öğün yemek hizmeti verilecektir")

	assert.Equal(t, Recipient, r.Category)
	assert.InDelta(t, 0.90, r.Confidence, 0.001)
	require.NotNil(t, r.Number)
	assert.Equal(t, 1200, *r.Number)
}

func TestRecipientCapacitySuffix(t *testing.T) {
	r := AnalyzeSegment("700 kişilik yemek servisi kurulacaktır")

	assert.Equal(t, Recipient, r.Category)
	assert.InDelta(t, 0.65, r.Confidence, 0.001) // capacity + large-count
	require.NotNil(t, r.Number)
	assert.Equal(t, 700, *r.Number)
}

func TestItemizedRoleSumIsOnlyAFallback(t *testing.T) {
	// no direct "N personel"; the summed role counts become the number
	r := AnalyzeSegment("1 aşçıbaşı, 3 aşçı ve 2 garson görevlendirilecektir")

	assert.Equal(t, Staff, r.Category)
	require.NotNil(t, r.Number)
	assert.Equal(t, 6, *r.Number)
}

func TestRoleNamesAreNotSwallowedByShorterOnes(t *testing.T) {
	distinct, sum := itemizedRoles("2 aşçı yardımcısı ve 3 aşçı")
	assert.Equal(t, 2, distinct)
	assert.Equal(t, 5, sum)
}

func TestTieStaysAmbiguous(t *testing.T) {
	// a number outside both magnitude bands, no grammatical evidence either way
	r := AnalyzeSegment("60 adet masa temin edilecektir")

	assert.Equal(t, Ambiguous, r.Category)
	assert.InDelta(t, 0.5, r.Confidence, 0.001)
	require.NotNil(t, r.Number)
	assert.Equal(t, 60, *r.Number)
}

func TestNoSignalNoNumber(t *testing.T) {
	r := AnalyzeSegment("Sözleşme hükümleri saklıdır")
	assert.Equal(t, Ambiguous, r.Category)
	assert.Equal(t, 0.0, r.Confidence)
	assert.Nil(t, r.Number)
}

func TestDativePersonelFormIsRecipientEvidence(t *testing.T) {
	// "personele" (to the personnel) marks who receives meals, not who works
	r := AnalyzeSegment("350 personele öğle yemeği verilecektir")
	assert.Equal(t, Recipient, r.Category)
	require.NotNil(t, r.Number)
	assert.Equal(t, 350, *r.Number)
}

func TestParagraphBucketsDoNotOverlap(t *testing.T) {
	text := "İşyerinde çalıştırılacak 8 personel tarafından hizmet yürütülecektir. " +
		"Günlük 1200 öğrenciye yemek hizmeti verilecektir. " +
		"Depoda 60 adet masa bulunmaktadır."

	pa := AnalyzeParagraph(text)

	assert.Equal(t, []int{8}, pa.StaffNumbers)
	assert.Equal(t, []int{1200}, pa.RecipientNumbers)
	assert.Equal(t, []int{60}, pa.AmbiguousNumbers)

	seen := map[int]int{}
	for _, n := range pa.StaffNumbers {
		seen[n]++
	}
	for _, n := range pa.RecipientNumbers {
		seen[n]++
	}
	for _, n := range pa.AmbiguousNumbers {
		seen[n]++
	}
	for n, c := range seen {
		assert.Equal(t, 1, c, "number %d landed in more than one bucket", n)
	}
}

func TestParagraphLowConfidenceLandsInAmbiguous(t *testing.T) {
	// weak one-sided evidence: small-count alone never clears the gate
	pa := AnalyzeParagraph("Listede 12 kalem bulunmaktadır.")
	assert.Empty(t, pa.StaffNumbers)
	assert.Empty(t, pa.RecipientNumbers)
	assert.Equal(t, []int{12}, pa.AmbiguousNumbers)
}

func TestParagraphTabularLinesAreSegmented(t *testing.T) {
	// no sentence punctuation at all; the line-based pass must still fire
	text := "Pozisyon Sayı\n5 aşçı çalıştırılacaktır\n400 kişilik kapasite"
	pa := AnalyzeParagraph(text)

	assert.Contains(t, pa.StaffNumbers, 5)
	assert.Contains(t, pa.RecipientNumbers, 400)
}

func TestAnalyzeParagraphIsDeterministic(t *testing.T) {
	text := "Yemekhanede 8 personel çalıştırılacaktır. Toplam 500 kişiye hizmet verilecektir."
	first := AnalyzeParagraph(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, AnalyzeParagraph(text))
	}
}
