// Package pipeline wires the stages together: bytes -> text -> context hints
// -> structured fields -> validated result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tenderdesk/tender-extract/constants"
	"github.com/tenderdesk/tender-extract/internal/disambig"
	"github.com/tenderdesk/tender-extract/internal/extract"
	"github.com/tenderdesk/tender-extract/internal/joblog"
	"github.com/tenderdesk/tender-extract/internal/llm"
	"github.com/tenderdesk/tender-extract/internal/ocr"
	"github.com/tenderdesk/tender-extract/internal/validation"
)

type Processor struct {
	Extractor extract.TextExtractor
	Fields    llm.FieldExtractor // nil skips the structured-field stage
	Validator *validation.Validator
	Jobs      *joblog.Store // nil disables the job log
	Log       *slog.Logger
}

func NewProcessor(ex extract.TextExtractor, fe llm.FieldExtractor, v *validation.Validator, jobs *joblog.Store, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{Extractor: ex, Fields: fe, Validator: v, Jobs: jobs, Log: log}
}

// Outcome carries everything a caller may want from one document.
type Outcome struct {
	JobID      uuid.UUID
	Extraction extract.ExtractionResult
	Hints      disambig.ParagraphAnalysis
	Fields     *llm.TenderFields
	Validation *validation.Result
}

// ProcessFile runs the full chain for one document on disk. Extraction
// failures are terminal for the document; validation findings never are.
func (p *Processor) ProcessFile(ctx context.Context, path string, onProgress ocr.ProgressFunc) (Outcome, error) {
	start := time.Now()
	out := Outcome{}

	data, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("read %s: %w", path, err)
	}
	doc := extract.SourceDocument{Data: data, FileName: filepath.Base(path)}

	if p.Jobs != nil {
		format, _ := extract.DetectFormat(doc)
		id, err := p.Jobs.Start(ctx, path, format)
		if err != nil {
			p.Log.Warn("job log unavailable", "error", err)
		} else {
			out.JobID = id
		}
	}

	out.Extraction = p.Extractor.DetectAndExtract(ctx, doc, onProgress)
	if !out.Extraction.Success {
		p.finishFailure(ctx, out.JobID, out.Extraction.Err, start)
		return out, out.Extraction.Err
	}

	out.Hints = disambig.AnalyzeParagraph(out.Extraction.Text)

	status := constants.JobStatusExtractOK
	if p.Fields != nil {
		fields, warns, err := p.extractFields(ctx, out.Extraction.Text, out.Hints)
		if err != nil {
			p.finishFailure(ctx, out.JobID, err, start)
			return out, err
		}
		out.Extraction.Warnings = append(out.Extraction.Warnings, warns...)
		out.Fields = fields

		if p.Validator != nil {
			res := p.Validator.Validate(fields)
			out.Validation = &res
			status = constants.JobStatusValidateOK
		}
	}

	p.finishSuccess(ctx, out.JobID, status, out.Extraction, start)
	p.Log.Info("document processed",
		"path", path,
		"format", out.Extraction.FileKind,
		"method", out.Extraction.Method,
		"chars", len(out.Extraction.Text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// extractFields calls the external collaborator with disambiguation hints and
// decodes its JSON through sanitation and schema validation.
func (p *Processor) extractFields(ctx context.Context, text string, hints disambig.ParagraphAnalysis) (*llm.TenderFields, []string, error) {
	hintMap := map[string]string{}
	if len(hints.StaffNumbers) > 0 {
		hintMap["staff_candidates"] = joinInts(hints.StaffNumbers)
	}
	if len(hints.RecipientNumbers) > 0 {
		hintMap["recipient_candidates"] = joinInts(hints.RecipientNumbers)
	}
	if len(hints.AmbiguousNumbers) > 0 {
		hintMap["ambiguous_candidates"] = joinInts(hints.AmbiguousNumbers)
	}

	raw, err := p.Fields.ExtractFields(ctx, text, hintMap)
	if err != nil {
		return nil, nil, fmt.Errorf("field extraction: %w", err)
	}

	fields, dropped, err := llm.DecodeFields([]byte(raw.JSON))
	if err != nil {
		return nil, dropped, fmt.Errorf("decode model output: %w", err)
	}

	var warns []string
	if len(dropped) > 0 {
		warns = append(warns, "model output sanitized: "+strings.Join(dropped, ", "))
	}
	return fields, warns, nil
}

func (p *Processor) finishSuccess(ctx context.Context, id uuid.UUID, status constants.JobStatus, res extract.ExtractionResult, start time.Time) {
	if p.Jobs == nil || id == uuid.Nil {
		return
	}
	if err := p.Jobs.FinishSuccess(ctx, id, status, res.Method, len(res.Warnings), time.Since(start)); err != nil {
		p.Log.Warn("job log update failed", "job_id", id, "error", err)
	}
}

func (p *Processor) finishFailure(ctx context.Context, id uuid.UUID, cause error, start time.Time) {
	if p.Jobs == nil || id == uuid.Nil {
		return
	}
	msg := "unknown"
	if cause != nil {
		msg = cause.Error()
	}
	if err := p.Jobs.FinishFailure(ctx, id, msg, time.Since(start)); err != nil {
		p.Log.Warn("job log update failed", "job_id", id, "error", err)
	}
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ",")
}
