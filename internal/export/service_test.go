package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tenderdesk/tender-extract/internal/llm"
	"github.com/tenderdesk/tender-extract/internal/validation"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestWorkbookXLSX(t *testing.T) {
	fixedBudget := floatp(16425000)
	records := []Record{
		{
			SourcePath: "/inbox/sartname.pdf",
			Fields: &llm.TenderFields{
				PersonnelCount: intp(100),
				MealsPerDay:    intp(3),
				DaysCount:      intp(365),
			},
			Result: validation.Result{
				IsValid: true,
				Warnings: []validation.Warning{{
					Field:          llm.FieldEstimatedBudget,
					Severity:       validation.SeverityWarning,
					Message:        "budget missing; derived",
					SuggestedValue: *fixedBudget,
					AutoFixed:      true,
				}},
				FixedData: &llm.TenderFields{
					PersonnelCount:  intp(100),
					MealsPerDay:     intp(3),
					DaysCount:       intp(365),
					EstimatedBudget: fixedBudget,
				},
				Summary: validation.Summary{
					Warnings:       1,
					AutoFixedCount: 1,
					Status:         validation.StatusWarning,
					Confidence: validation.ConfidenceReport{
						Overall: validation.FieldConfidence{Score: 0.96, Level: validation.ConfidenceHigh},
					},
				},
			},
		},
	}

	buf, err := NewService(nil).WorkbookXLSX(records)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf))
	require.NoError(t, err)
	defer f.Close()

	// results row uses the fixed copy, so the derived budget appears
	get := func(sheet, cell string) string {
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Source Document", get("Results", "A1"))
	assert.Equal(t, "/inbox/sartname.pdf", get("Results", "A2"))
	assert.Equal(t, "100", get("Results", "B2"))
	assert.Equal(t, "16425000.00", get("Results", "E2"))
	assert.Equal(t, "warning", get("Results", "F2"))
	assert.Equal(t, "0.96", get("Results", "G2"))

	assert.Equal(t, "estimated_budget", get("Warnings", "B2"))
	assert.Equal(t, "budget missing; derived", get("Warnings", "D2"))
}

func TestWorkbookXLSXEmpty(t *testing.T) {
	buf, err := NewService(nil).WorkbookXLSX(nil)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(buf))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Results")
	assert.Contains(t, f.GetSheetList(), "Warnings")
}
