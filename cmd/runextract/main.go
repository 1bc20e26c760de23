// Command runextract extracts plain text from a single document and prints it
// to stdout. Useful for checking what the strategy chain produces for a file
// without running the rest of the pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/tenderdesk/tender-extract/internal/common"
	"github.com/tenderdesk/tender-extract/internal/extract"
	"github.com/tenderdesk/tender-extract/internal/ocr"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		verbose = flag.Bool("v", false, "log OCR progress events")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: runextract [-v] <document>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read input", "path", path, "error", err)
		os.Exit(1)
	}

	extractor := extract.NewExtractor(extract.Config{
		Pdftotext: cfg.OCR.Pdftotext,
		TmpDir:    cfg.OCR.TmpDir,
		OCR: ocr.Config{
			Pdftoppm:      cfg.OCR.Pdftoppm,
			Tesseract:     cfg.OCR.Tesseract,
			TesseractLang: cfg.OCR.TesseractLang,
			DPI:           cfg.OCR.DPI,
			MaxPages:      cfg.OCR.MaxPages,
			Workers:       cfg.OCR.Workers,
			TmpDir:        cfg.OCR.TmpDir,
		},
	}, nil, logger)

	var onProgress ocr.ProgressFunc
	if *verbose {
		onProgress = func(ev ocr.ProgressEvent) {
			logger.Info("progress", "stage", ev.Stage, "percent", ev.ProgressPercent, "detail", ev.Detail)
		}
	}

	res := extractor.DetectAndExtract(ctx, extract.SourceDocument{
		Data:     data,
		FileName: filepath.Base(path),
	}, onProgress)

	for _, w := range res.Warnings {
		logger.Warn("extraction warning", "warning", w)
	}
	if !res.Success {
		logger.Error("extraction failed", "path", path, "error", res.Err)
		os.Exit(1)
	}

	logger.Info("extraction ok",
		"method", res.Method,
		"format", res.FileKind,
		"pages", res.Pages,
		"chars", len(res.Text),
		"elapsed_ms", res.ProcessingTimeMs,
	)
	fmt.Println(res.Text)
}
