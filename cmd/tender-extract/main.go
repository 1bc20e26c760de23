// Command tender-extract runs the document pipeline: extraction, context
// analysis and validation for a single file or a watched inbox directory.
//
// The structured-field extraction itself is an external collaborator; pass
// its JSON response via -fields to run validation over it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tenderdesk/tender-extract/internal/common"
	"github.com/tenderdesk/tender-extract/internal/export"
	"github.com/tenderdesk/tender-extract/internal/extract"
	"github.com/tenderdesk/tender-extract/internal/ingest"
	"github.com/tenderdesk/tender-extract/internal/joblog"
	"github.com/tenderdesk/tender-extract/internal/llm"
	"github.com/tenderdesk/tender-extract/internal/ocr"
	"github.com/tenderdesk/tender-extract/internal/pipeline"
	"github.com/tenderdesk/tender-extract/internal/validation"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		filePath   = flag.String("file", "", "document to process")
		fieldsPath = flag.String("fields", "", "JSON file with the collaborator's extracted fields")
		watchDir   = flag.String("watch", "", "inbox directory to watch instead of -file")
		exportPath = flag.String("export", "", "write results workbook to this .xlsx path")
		progress   = flag.Bool("progress", false, "log OCR progress events")
	)
	flag.Parse()

	if *filePath == "" && *watchDir == "" {
		logger.Error("usage", "cmd", "tender-extract -file <doc> [-fields <json>] | -watch <dir>")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	jobs, err := joblog.Open(ctx, cfg.JobLog.Path, logger)
	if err != nil {
		logger.Error("open job log", "error", err)
		os.Exit(1)
	}
	defer jobs.Close()

	extractor := extract.NewExtractor(extract.Config{
		OCR: ocr.Config{
			Pdftoppm:      cfg.OCR.Pdftoppm,
			Tesseract:     cfg.OCR.Tesseract,
			TesseractLang: cfg.OCR.TesseractLang,
			DPI:           cfg.OCR.DPI,
			MaxPages:      cfg.OCR.MaxPages,
			Workers:       cfg.OCR.Workers,
			TmpDir:        cfg.OCR.TmpDir,
		},
		Pdftotext: cfg.OCR.Pdftotext,
	}, nil, logger)

	validator := validation.NewValidator(validation.Config{}, logger)

	var fields llm.FieldExtractor
	if *fieldsPath != "" {
		fields = fileFields{path: *fieldsPath}
	}

	proc := pipeline.NewProcessor(extractor, fields, validator, jobs, logger)

	var onProgress ocr.ProgressFunc
	if *progress {
		onProgress = func(ev ocr.ProgressEvent) {
			logger.Info("progress", "stage", ev.Stage, "percent", ev.ProgressPercent, "detail", ev.Detail)
		}
	}

	var records []export.Record

	process := func(path string) {
		out, err := proc.ProcessFile(ctx, path, onProgress)
		if err != nil {
			logger.Error("processing failed", "path", path, "error", err)
			return
		}
		printOutcome(out)
		if out.Validation != nil {
			records = append(records, export.Record{
				SourcePath: path,
				Fields:     out.Fields,
				Result:     *out.Validation,
			})
		}
	}

	if *filePath != "" {
		process(*filePath)
	} else {
		evCh, errCh, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       []string{*watchDir},
			InitialScan: true,
			Debounce:    cfg.Ingest.Debounce,
		})
		if err != nil {
			logger.Error("start watcher", "error", err)
			os.Exit(1)
		}
		logger.Info("watching inbox", "dir", *watchDir)
	loop:
		for {
			select {
			case <-ctx.Done():
				break loop
			case path, ok := <-evCh:
				if !ok {
					break loop
				}
				process(path)
			case werr := <-errCh:
				if werr != nil {
					logger.Error("watcher", "error", werr)
				}
			}
		}
	}

	if *exportPath != "" && len(records) > 0 {
		buf, err := export.NewService(logger).WorkbookXLSX(records)
		if err != nil {
			logger.Error("export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*exportPath, buf, 0o644); err != nil {
			logger.Error("write workbook", "error", err)
			os.Exit(1)
		}
		logger.Info("workbook written", "path", *exportPath, "records", len(records))
	}
}

func printOutcome(out pipeline.Outcome) {
	view := map[string]any{
		"method":   out.Extraction.Method,
		"format":   out.Extraction.FileKind,
		"chars":    len(out.Extraction.Text),
		"warnings": out.Extraction.Warnings,
		"hints": map[string]any{
			"staff":     out.Hints.StaffNumbers,
			"recipient": out.Hints.RecipientNumbers,
			"ambiguous": out.Hints.AmbiguousNumbers,
		},
	}
	if out.Validation != nil {
		fixed := out.Fields
		if out.Validation.FixedData != nil {
			fixed = out.Validation.FixedData
		}
		view["fields"] = fixed
		view["validation"] = map[string]any{
			"is_valid":   out.Validation.IsValid,
			"status":     out.Validation.Summary.Status,
			"errors":     out.Validation.Summary.Errors,
			"warnings":   out.Validation.Summary.Warnings,
			"auto_fixed": out.Validation.Summary.AutoFixedCount,
			"confidence": out.Validation.Summary.Confidence.Overall.Score,
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(view); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

// fileFields satisfies llm.FieldExtractor by replaying a saved collaborator
// response, which keeps the provider itself out of this binary.
type fileFields struct {
	path string
}

func (f fileFields) ExtractFields(_ context.Context, _ string, _ map[string]string) (llm.FieldsResult, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		return llm.FieldsResult{}, fmt.Errorf("read fields file: %w", err)
	}
	return llm.FieldsResult{JSON: string(b), ModelName: "replay"}, nil
}
