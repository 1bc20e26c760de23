// Package export renders validated tender records as an XLSX workbook.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tenderdesk/tender-extract/internal/llm"
	"github.com/tenderdesk/tender-extract/internal/validation"
)

// Record pairs one document with its validation outcome.
type Record struct {
	SourcePath string
	Fields     *llm.TenderFields
	Result     validation.Result
}

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// WorkbookXLSX returns an XLSX workbook (as bytes) with one row per record on
// a results sheet and every warning on a second sheet.
func (s *Service) WorkbookXLSX(records []Record) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const resultsSheet = "Results"
	const warningsSheet = "Warnings"

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(warningsSheet); err != nil {
		return nil, err
	}

	headers := []string{
		"Source Document",
		"Personnel",
		"Meals/Day",
		"Days",
		"Budget",
		"Status",
		"Confidence",
		"Auto-Fixed",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(resultsSheet, cell, h)
	}

	warnHeaders := []string{"Source Document", "Field", "Severity", "Message", "Auto-Fixed"}
	for i, h := range warnHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(warningsSheet, cell, h)
	}

	row := 2
	warnRow := 2
	for _, r := range records {
		// Export the fixed copy when one exists; that is what downstream reads.
		fields := r.Fields
		if r.Result.FixedData != nil {
			fields = r.Result.FixedData
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(resultsSheet, cell, v)
		}

		write(1, r.SourcePath)
		write(2, intOrEmpty(fields.PersonnelCount))
		write(3, intOrEmpty(fields.MealsPerDay))
		write(4, intOrEmpty(fields.DaysCount))
		if fields.EstimatedBudget != nil {
			write(5, fmt.Sprintf("%.2f", *fields.EstimatedBudget))
		} else {
			write(5, "")
		}
		write(6, string(r.Result.Summary.Status))
		write(7, fmt.Sprintf("%.2f", r.Result.Summary.Confidence.Overall.Score))
		write(8, r.Result.Summary.AutoFixedCount)
		row++

		for _, w := range r.Result.Warnings {
			writeWarn := func(col int, v any) {
				cell, _ := excelize.CoordinatesToCellName(col, warnRow)
				_ = f.SetCellValue(warningsSheet, cell, v)
			}
			writeWarn(1, r.SourcePath)
			writeWarn(2, w.Field)
			writeWarn(3, string(w.Severity))
			writeWarn(4, w.Message)
			writeWarn(5, w.AutoFixed)
			warnRow++
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(resultsSheet, "A", "A", 48) // path
	_ = f.SetColWidth(resultsSheet, "B", "E", 12)
	_ = f.SetColWidth(warningsSheet, "A", "A", 48)
	_ = f.SetColWidth(warningsSheet, "D", "D", 80) // message

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"records", len(records),
		"warnings", warnRow-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func intOrEmpty(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
