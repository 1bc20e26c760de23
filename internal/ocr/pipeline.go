// Package ocr rasterizes scanned PDFs and runs an external OCR engine over
// the pages. It is the fallback for PDFs without a usable text layer and the
// primary path for image inputs.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"

	"github.com/tenderdesk/tender-extract/internal/common"
)

// Size above which the optimize pass runs before rasterization.
const defaultOptimizeThreshold = 10 << 20 // 10 MB

// Horizontal rules and box-drawing noise tesseract tends to hallucinate.
var reBoxNoise = regexp.MustCompile(`(?m)^\s*[_\-]{3,}\s*$`)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "tur"
	DPI           int    // rasterization DPI, default 300
	MaxPages      int    // 0 = no limit
	Workers       int    // parallel page OCR, default 4

	OptimizeThreshold int64  // bytes; 0 -> defaultOptimizeThreshold
	TmpDir            string // "" -> os.TempDir()
}

func (c *Config) defaults() {
	if c.Pdftoppm == "" {
		c.Pdftoppm = "pdftoppm"
	}
	if c.Tesseract == "" {
		c.Tesseract = "tesseract"
	}
	if c.TesseractLang == "" {
		c.TesseractLang = "tur"
	}
	if c.DPI <= 0 {
		c.DPI = 300
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.OptimizeThreshold <= 0 {
		c.OptimizeThreshold = defaultOptimizeThreshold
	}
	if c.TmpDir == "" {
		c.TmpDir = os.TempDir()
	}
}

// Result carries the merged OCR text plus diagnostics.
type Result struct {
	Text     string
	Pages    int
	Warnings []string
}

type Pipeline struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewPipeline(cfg Config, runner Runner, logger *slog.Logger) *Pipeline {
	cfg.defaults()
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{cfg: cfg, runner: runner, logger: logger}
}

// ExtractPDF runs the full scanned-PDF pipeline: optimize (best effort),
// rasterize, OCR per page, merge in page order. Every temporary artifact is
// keyed by an invocation id and removed before return, on every path.
// Returns common.ErrOCRFailure when the engine yields no text at all, so empty
// OCR output stays distinguishable from "OCR wasn't needed".
func (p *Pipeline) ExtractPDF(ctx context.Context, path string, onProgress ProgressFunc) (Result, error) {
	em := newEmitter(onProgress)
	res := Result{}

	workDir := filepath.Join(p.cfg.TmpDir, "ocr-"+uuid.NewString())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return res, fmt.Errorf("create ocr workdir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			p.logger.Warn("ocr cleanup failed", "dir", workDir, "error", err)
		}
	}()

	// Page count up front so progress has a denominator.
	pageCount, err := api.PageCountFile(path)
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("page count: %v", err))
		pageCount = 0
	}
	em.emit(StageDetect, 5, fmt.Sprintf("%d pages discovered", pageCount))

	input := path
	if fi, err := os.Stat(path); err == nil && fi.Size() > p.cfg.OptimizeThreshold {
		optimized := filepath.Join(workDir, "optimized.pdf")
		if err := api.OptimizeFile(path, optimized, nil); err != nil {
			// Best effort only: a failed shrink never aborts the pipeline.
			res.Warnings = append(res.Warnings, fmt.Sprintf("pdf optimize: %v", err))
		} else {
			input = optimized
		}
		em.emit(StageOptimize, 10, "oversized input optimized")
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	prefix := filepath.Join(workDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <workdir/page>
	if _, errb, err := p.runner.Run(ctx, p.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", p.cfg.DPI), "-png", input, prefix); err != nil {
		res.Warnings = append(res.Warnings, string(errb))
		return res, common.NewAppError("OCR_FAILURE", "pdftoppm failed", common.ErrOCRFailure)
	}

	pages, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(pages)
	if p.cfg.MaxPages > 0 && len(pages) > p.cfg.MaxPages {
		res.Warnings = append(res.Warnings, fmt.Sprintf("page cap applied: %d of %d pages", p.cfg.MaxPages, len(pages)))
		pages = pages[:p.cfg.MaxPages]
	}
	if len(pages) == 0 {
		return res, common.NewAppError("OCR_FAILURE", "pdftoppm produced no images", common.ErrOCRFailure)
	}
	em.emit(StageRasterize, 30, fmt.Sprintf("%d pages rasterized", len(pages)))

	texts := make([]string, len(pages))
	var (
		mu    sync.Mutex
		done  int
		warns []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	for i, img := range pages {
		g.Go(func() error {
			txt, w, err := p.OCRImage(gctx, img)
			mu.Lock()
			warns = append(warns, w...)
			if err != nil {
				// A single bad page is a warning, not a pipeline failure.
				warns = append(warns, fmt.Sprintf("page %d: %v", i+1, err))
			} else {
				texts[i] = txt
			}
			done++
			pct := 30 + 60*float64(done)/float64(len(pages))
			mu.Unlock()
			em.emit(StageOCRRunning, pct, fmt.Sprintf("page %d/%d", done, len(pages)))
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		// Cancellation or timeout: never hand back a partial result as success.
		res.Warnings = append(res.Warnings, warns...)
		return res, err
	}
	res.Warnings = append(res.Warnings, warns...)

	em.emit(StageMerge, 95, "merging page text")
	var b strings.Builder
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n") // keep a clear page break marker
		}
		b.WriteString(t)
	}

	res.Text = b.String()
	res.Pages = len(pages)
	if strings.TrimSpace(res.Text) == "" {
		em.emit(StageFailed, 95, "ocr produced no text")
		return res, common.NewAppError("OCR_FAILURE", "all pages empty", common.ErrOCRFailure)
	}

	em.emit(StageDone, 100, fmt.Sprintf("%d chars from %d pages", len(res.Text), res.Pages))
	return res, nil
}

// OCRImage runs the OCR engine over a single raster image.
func (p *Pipeline) OCRImage(ctx context.Context, path string) (string, []string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := p.runner.Run(ctx, p.cfg.Tesseract, path, "stdout", "-l", p.cfg.TesseractLang)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	// minor cleanup of obvious line noise
	txt := reBoxNoise.ReplaceAllString(string(out), "")
	return txt, nil, nil
}
