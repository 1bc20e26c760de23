package ocr

import (
	"sync"
	"time"
)

// ProgressEvent is one milestone of a long-running extraction.
type ProgressEvent struct {
	Stage           string    `json:"stage"`
	ProgressPercent float64   `json:"progress_percent"`
	Detail          string    `json:"detail,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// ProgressFunc receives progress events. It is called synchronously from the
// pipeline and must return quickly; buffering and backpressure are the
// consumer's concern.
type ProgressFunc func(ProgressEvent)

// Pipeline stage labels.
const (
	StageDetect     = "detect"
	StageOptimize   = "optimize"
	StageRasterize  = "rasterize"
	StageOCRRunning = "ocr"
	StageMerge      = "merge"
	StageDone       = "done"
	StageFailed     = "failed"
)

// emitter guarantees monotonically non-decreasing percentages within one
// invocation even when per-page completions race.
type emitter struct {
	mu   sync.Mutex
	fn   ProgressFunc
	last float64
}

func newEmitter(fn ProgressFunc) *emitter {
	return &emitter{fn: fn}
}

func (e *emitter) emit(stage string, pct float64, detail string) {
	if e == nil || e.fn == nil {
		return
	}
	// The lock is held through the callback so delivery order matches the
	// monotonic percentages.
	e.mu.Lock()
	defer e.mu.Unlock()
	if pct < e.last {
		pct = e.last
	}
	if pct > 100 {
		pct = 100
	}
	e.last = pct
	e.fn(ProgressEvent{
		Stage:           stage,
		ProgressPercent: pct,
		Detail:          detail,
		Timestamp:       time.Now(),
	})
}
