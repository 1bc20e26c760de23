// Package extract turns heterogeneous tender documents into plain text.
//
// Detection picks one format; each format owns a fixed, ordered list of
// strategies tried until one yields non-trivial text. Failed attempts become
// warnings, never errors, unless the whole chain is exhausted. PDF falls back
// to the OCR pipeline when the text layer is missing or too thin.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tenderdesk/tender-extract/constants"
	"github.com/tenderdesk/tender-extract/internal/common"
	"github.com/tenderdesk/tender-extract/internal/ocr"
)

type Config struct {
	Antiword  string // binary name or absolute path; if empty -> "antiword"
	Catdoc    string // binary name or absolute path; if empty -> "catdoc"
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"

	// Below this many characters a parsed PDF counts as having no text layer.
	MinTextLayerChars int // default 100
	// Below this many characters a markup-stripped result falls back to the raw text.
	MinMarkupStripChars int // default 100

	TmpDir string // "" -> os.TempDir()

	OCR ocr.Config
}

func (c *Config) defaults() {
	if c.Antiword == "" {
		c.Antiword = "antiword"
	}
	if c.Catdoc == "" {
		c.Catdoc = "catdoc"
	}
	if c.Pdftotext == "" {
		c.Pdftotext = "pdftotext"
	}
	if c.MinTextLayerChars <= 0 {
		c.MinTextLayerChars = 100
	}
	if c.MinMarkupStripChars <= 0 {
		c.MinMarkupStripChars = 100
	}
	if c.TmpDir == "" {
		c.TmpDir = os.TempDir()
	}
}

type Extractor struct {
	cfg    Config
	runner ocr.Runner
	ocrp   *ocr.Pipeline
	logger *slog.Logger
}

func NewExtractor(cfg Config, runner ocr.Runner, logger *slog.Logger) *Extractor {
	cfg.defaults()
	if runner == nil {
		runner = ocr.ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		cfg:    cfg,
		runner: runner,
		ocrp:   ocr.NewPipeline(cfg.OCR, runner, logger),
		logger: logger,
	}
}

// strategy attempts one extraction approach. filePath is "" until a strategy
// in the chain needs the bytes materialized on disk.
type strategy func(ctx context.Context, doc SourceDocument, filePath string, onProgress ocr.ProgressFunc) (text, method string, pages int, warnings []string, err error)

// needsFile marks formats whose strategies shell out to external tools.
func needsFile(f constants.Format) bool {
	switch f {
	case constants.DOC, constants.PDF, constants.IMAGE:
		return true
	}
	return false
}

func (e *Extractor) chain(f constants.Format, ext string) []strategy {
	switch f {
	case constants.DOCX:
		return []strategy{e.extractDocx}
	case constants.DOC:
		return []strategy{e.extractAntiword, e.extractCatdoc, e.extractSalvage}
	case constants.PDF:
		return []strategy{e.extractPDFText, e.extractPDFOCR}
	case constants.TEXT:
		return []strategy{e.extractText}
	case constants.TABLE:
		if ext == "xlsx" {
			return []strategy{e.extractXLSX}
		}
		return []strategy{e.extractCSV}
	case constants.JSON:
		return []strategy{e.extractJSON, e.extractText}
	case constants.IMAGE:
		return []strategy{e.extractImage}
	}
	return nil
}

// DetectAndExtract runs detection and the matching strategy chain. It always
// returns a complete result; data-quality failures land in Err, never panic.
// Calling it twice on identical bytes yields identical Text and Method.
func (e *Extractor) DetectAndExtract(ctx context.Context, doc SourceDocument, onProgress ocr.ProgressFunc) ExtractionResult {
	start := time.Now()
	res := ExtractionResult{Method: constants.MethodUnsupported}

	format, err := DetectFormat(doc)
	if err != nil {
		res.Err = err
		res.ProcessingTimeMs = time.Since(start).Milliseconds()
		return res
	}
	res.FileKind = format

	// Distinct failure mode: supported kind, nothing inside. No strategy runs.
	if len(bytes.TrimSpace(doc.Data)) == 0 {
		res.Err = common.NewAppError("EMPTY_INPUT", fmt.Sprintf("file %q is empty", doc.FileName), common.ErrEmptyInput)
		res.ProcessingTimeMs = time.Since(start).Milliseconds()
		return res
	}

	ext := constants.NormalizeExt(filepath.Ext(doc.FileName))
	e.logger.Debug("extracting document", "file", doc.FileName, "format", format)

	filePath := ""
	if needsFile(format) {
		p, cleanup, err := e.materialize(doc, ext)
		if err != nil {
			res.Err = fmt.Errorf("materialize input: %w", err)
			res.ProcessingTimeMs = time.Since(start).Milliseconds()
			return res
		}
		defer cleanup()
		filePath = p
	}

	var lastErr error
	for _, s := range e.chain(format, ext) {
		text, method, pages, warns, err := s(ctx, doc, filePath, onProgress)
		res.Warnings = append(res.Warnings, warns...)
		if err != nil {
			lastErr = err
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s failed: %v", method, err))
			continue
		}
		text = Normalize(text)
		if strings.TrimSpace(text) == "" {
			lastErr = fmt.Errorf("%s yielded no text", method)
			res.Warnings = append(res.Warnings, lastErr.Error())
			continue
		}
		res.Success = true
		res.Text = text
		res.Method = method
		res.Pages = pages
		res.ProcessingTimeMs = time.Since(start).Milliseconds()
		return res
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no strategy available for format %s", format)
	}
	res.Err = common.WrapError(lastErr, fmt.Sprintf("extract %s (%s)", doc.FileName, format))
	res.ProcessingTimeMs = time.Since(start).Milliseconds()
	return res
}

// materialize writes the document bytes to a uniquely named temp file for
// strategies that shell out. The caller must invoke cleanup.
func (e *Extractor) materialize(doc SourceDocument, ext string) (string, func(), error) {
	name := uuid.NewString()
	if ext != "" {
		name += "." + ext
	}
	path := filepath.Join(e.cfg.TmpDir, "tender-"+name)
	if err := os.WriteFile(path, doc.Data, 0o600); err != nil {
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil {
			e.logger.Warn("temp file cleanup failed", "path", path, "error", err)
		}
	}
	return path, cleanup, nil
}
