package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/tenderdesk/tender-extract/constants"
	"github.com/tenderdesk/tender-extract/internal/common"
	"github.com/tenderdesk/tender-extract/internal/ocr"
)

// extractPDFText pulls the embedded text layer. Parsing successfully but
// recovering almost nothing means a scanned PDF; that is ErrNoTextLayer so the
// chain falls through to OCR.
func (e *Extractor) extractPDFText(ctx context.Context, _ SourceDocument, filePath string, _ ocr.ProgressFunc) (string, string, int, []string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", filePath, "-")
	if err != nil {
		return "", constants.MethodPDFText, 0, []string{string(errb)}, err
	}

	text := string(out)
	// A form-feed \f is used as page separator by default
	pages := 1 + strings.Count(text, "\f")

	if len(strings.TrimSpace(text)) < e.cfg.MinTextLayerChars {
		return "", constants.MethodPDFText, pages, nil,
			common.NewAppError("NO_TEXT_LAYER",
				fmt.Sprintf("%d chars recovered from %d pages", len(strings.TrimSpace(text)), pages),
				common.ErrNoTextLayer)
	}
	return text, constants.MethodPDFText, pages, nil, nil
}

func (e *Extractor) extractPDFOCR(ctx context.Context, _ SourceDocument, filePath string, onProgress ocr.ProgressFunc) (string, string, int, []string, error) {
	res, err := e.ocrp.ExtractPDF(ctx, filePath, onProgress)
	if err != nil {
		return "", constants.MethodPDFOCR, res.Pages, res.Warnings, err
	}
	return res.Text, constants.MethodPDFOCR, res.Pages, res.Warnings, nil
}

// extractImage OCRs a single scanned page image directly.
func (e *Extractor) extractImage(ctx context.Context, _ SourceDocument, filePath string, _ ocr.ProgressFunc) (string, string, int, []string, error) {
	text, warns, err := e.ocrp.OCRImage(ctx, filePath)
	if err != nil {
		return "", constants.MethodImageOCR, 0, warns, err
	}
	if strings.TrimSpace(text) == "" {
		return "", constants.MethodImageOCR, 0, warns,
			common.NewAppError("OCR_FAILURE", "image ocr produced no text", common.ErrOCRFailure)
	}
	return text, constants.MethodImageOCR, 1, warns, nil
}
