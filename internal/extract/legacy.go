package extract

import (
	"context"
	"strings"
	"unicode"

	"github.com/tenderdesk/tender-extract/constants"
	"github.com/tenderdesk/tender-extract/internal/ocr"
)

// Legacy .doc chain: antiword, then catdoc, then a raw-byte salvage pass.
// Converter absence is a local failure; the chain keeps going.

func (e *Extractor) extractAntiword(ctx context.Context, _ SourceDocument, filePath string, _ ocr.ProgressFunc) (string, string, int, []string, error) {
	// antiword -m UTF-8.txt <file>
	out, errb, err := e.runner.Run(ctx, e.cfg.Antiword, "-m", "UTF-8.txt", filePath)
	if err != nil {
		return "", constants.MethodAntiword, 0, []string{string(errb)}, err
	}
	return string(out), constants.MethodAntiword, 0, nil, nil
}

func (e *Extractor) extractCatdoc(ctx context.Context, _ SourceDocument, filePath string, _ ocr.ProgressFunc) (string, string, int, []string, error) {
	// catdoc -d utf-8 <file>
	out, errb, err := e.runner.Run(ctx, e.cfg.Catdoc, "-d", "utf-8", filePath)
	if err != nil {
		return "", constants.MethodCatdoc, 0, []string{string(errb)}, err
	}
	return string(out), constants.MethodCatdoc, 0, nil, nil
}

// extractSalvage strips control bytes straight out of the OLE container and
// collapses whitespace. Output quality is poor; the warning says so.
func (e *Extractor) extractSalvage(_ context.Context, doc SourceDocument, _ string, _ ocr.ProgressFunc) (string, string, int, []string, error) {
	var b strings.Builder
	for _, r := range string(doc.Data) {
		switch {
		case r == unicode.ReplacementChar:
			// skip undecodable bytes
		case unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsPunct(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		default:
			// drop control and formatting bytes
		}
	}

	text := strings.Join(strings.Fields(b.String()), " ")
	warns := []string{"legacy converter unavailable; raw-byte salvage used, text quality is low"}
	return text, constants.MethodSalvage, 0, warns, nil
}
