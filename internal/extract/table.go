package extract

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tenderdesk/tender-extract/constants"
	"github.com/tenderdesk/tender-extract/internal/ocr"
)

// extractCSV renders rows as tab-joined lines. Turkish exports often use ';'
// as the delimiter, so the first line decides.
func (e *Extractor) extractCSV(_ context.Context, doc SourceDocument, _ string, _ ocr.ProgressFunc) (string, string, int, []string, error) {
	text, warns := decodeBytes(doc.Data)

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	if firstLine, _, ok := strings.Cut(text, "\n"); ok || firstLine != "" {
		if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
			r.Comma = ';'
		}
	}

	records, err := r.ReadAll()
	if err != nil {
		return "", constants.MethodCSV, 0, warns, fmt.Errorf("parse csv: %w", err)
	}

	var b strings.Builder
	for _, rec := range records {
		line := strings.TrimSpace(strings.Join(rec, "\t"))
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String(), constants.MethodCSV, 0, warns, nil
}

// extractXLSX renders every sheet's rows as tab-joined lines, sheets separated
// by a blank line with the sheet name as a header.
func (e *Extractor) extractXLSX(_ context.Context, doc SourceDocument, _ string, _ ocr.ProgressFunc) (string, string, int, []string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(doc.Data))
	if err != nil {
		return "", constants.MethodXLSX, 0, nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	var warns []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			warns = append(warns, fmt.Sprintf("sheet %q: %v", sheet, err))
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(sheet)
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, "\t"))
			if line == "" {
				continue
			}
			b.WriteByte('\n')
			b.WriteString(line)
		}
	}
	return b.String(), constants.MethodXLSX, 0, warns, nil
}
