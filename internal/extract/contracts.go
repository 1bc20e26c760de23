package extract

import (
	"context"

	"github.com/tenderdesk/tender-extract/constants"
	"github.com/tenderdesk/tender-extract/internal/ocr"
)

// SourceDocument is the immutable input: raw bytes plus the two detection
// signals. The file name is used only for extension sniffing.
type SourceDocument struct {
	Data      []byte
	MediaType string // may be empty or generic
	FileName  string
}

// ExtractionResult is the outcome of Stage 1: file -> text.
//
// Invariant: Success=false implies Text=="" and Err!=nil; Success=true implies
// Text is non-empty after trimming.
type ExtractionResult struct {
	Success          bool
	Text             string
	Method           string // diagnostic tag; downstream logic never branches on it
	FileKind         constants.Format
	Pages            int
	ProcessingTimeMs int64
	Warnings         []string
	Err              error
}

// TextExtractor is Stage 1 seen from the orchestrator.
type TextExtractor interface {
	DetectAndExtract(ctx context.Context, doc SourceDocument, onProgress ocr.ProgressFunc) ExtractionResult
}
