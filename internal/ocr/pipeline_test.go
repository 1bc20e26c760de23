package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderdesk/tender-extract/internal/common"
)

// scriptedRunner fakes pdftoppm by materializing page images and tesseract by
// returning per-page text keyed on the image path.
type scriptedRunner struct {
	pages    int
	pageText func(img string) (string, error)

	mu    sync.Mutex
	calls []string
}

func (s *scriptedRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.mu.Lock()
	s.calls = append(s.calls, name)
	s.mu.Unlock()

	switch name {
	case "pdftoppm":
		prefix := args[len(args)-1]
		for i := 1; i <= s.pages; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o600); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		txt, err := s.pageText(args[0])
		if err != nil {
			return nil, []byte(err.Error()), err
		}
		return []byte(txt), nil, nil
	}
	return nil, nil, errors.New("unexpected call: " + name)
}

func writeFakePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o600))
	return path
}

func TestExtractPDFMergesPagesInOrder(t *testing.T) {
	tmp := t.TempDir()
	runner := &scriptedRunner{
		pages: 3,
		pageText: func(img string) (string, error) {
			return "sayfa " + img[len(img)-5:len(img)-4], nil
		},
	}
	p := NewPipeline(Config{TmpDir: tmp, Workers: 3}, runner, nil)

	res, err := p.ExtractPDF(context.Background(), writeFakePDF(t), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, []string{"sayfa 1", "sayfa 2", "sayfa 3"}, strings.Split(res.Text, "\n\f\n"))
}

func TestExtractPDFProgressIsMonotonic(t *testing.T) {
	tmp := t.TempDir()
	runner := &scriptedRunner{
		pages:    8,
		pageText: func(string) (string, error) { return "metin", nil },
	}
	p := NewPipeline(Config{TmpDir: tmp, Workers: 4}, runner, nil)

	var events []ProgressEvent
	_, err := p.ExtractPDF(context.Background(), writeFakePDF(t), func(ev ProgressEvent) {
		events = append(events, ev)
	})
	require.NoError(t, err)
	require.NotEmpty(t, events)

	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].ProgressPercent, events[i-1].ProgressPercent,
			"event %d went backwards", i)
	}
	last := events[len(events)-1]
	assert.Equal(t, StageDone, last.Stage)
	assert.Equal(t, 100.0, last.ProgressPercent)
}

func TestExtractPDFPageCap(t *testing.T) {
	tmp := t.TempDir()
	runner := &scriptedRunner{
		pages:    5,
		pageText: func(string) (string, error) { return "metin", nil },
	}
	p := NewPipeline(Config{TmpDir: tmp, Workers: 2, MaxPages: 2}, runner, nil)

	res, err := p.ExtractPDF(context.Background(), writeFakePDF(t), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pages)
	assert.Contains(t, strings.Join(res.Warnings, " "), "page cap")
}

func TestExtractPDFSingleBadPageIsAWarning(t *testing.T) {
	tmp := t.TempDir()
	runner := &scriptedRunner{
		pages: 3,
		pageText: func(img string) (string, error) {
			if strings.HasSuffix(img, "-2.png") {
				return "", errors.New("engine crashed")
			}
			return "metin", nil
		},
	}
	p := NewPipeline(Config{TmpDir: tmp, Workers: 2}, runner, nil)

	res, err := p.ExtractPDF(context.Background(), writeFakePDF(t), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Pages)
	assert.Contains(t, strings.Join(res.Warnings, " "), "page 2")
	assert.Equal(t, 2, strings.Count(res.Text, "metin"))
}

func TestExtractPDFAllPagesEmptyIsFailure(t *testing.T) {
	tmp := t.TempDir()
	runner := &scriptedRunner{
		pages:    2,
		pageText: func(string) (string, error) { return "  \n", nil },
	}
	p := NewPipeline(Config{TmpDir: tmp, Workers: 2}, runner, nil)

	_, err := p.ExtractPDF(context.Background(), writeFakePDF(t), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrOCRFailure))

	assertNoLeftovers(t, tmp)
}

func TestExtractPDFCleansUpOnSuccess(t *testing.T) {
	tmp := t.TempDir()
	runner := &scriptedRunner{
		pages:    2,
		pageText: func(string) (string, error) { return "metin", nil },
	}
	p := NewPipeline(Config{TmpDir: tmp, Workers: 2}, runner, nil)

	_, err := p.ExtractPDF(context.Background(), writeFakePDF(t), nil)
	require.NoError(t, err)
	assertNoLeftovers(t, tmp)
}

func TestExtractPDFCleansUpOnRasterizeFailure(t *testing.T) {
	tmp := t.TempDir()
	runner := &scriptedRunner{
		pages:    0, // pdftoppm "succeeds" but produces nothing
		pageText: func(string) (string, error) { return "", nil },
	}
	p := NewPipeline(Config{TmpDir: tmp, Workers: 2}, runner, nil)

	_, err := p.ExtractPDF(context.Background(), writeFakePDF(t), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrOCRFailure))
	assertNoLeftovers(t, tmp)
}

func TestExtractPDFCancellation(t *testing.T) {
	tmp := t.TempDir()
	runner := &scriptedRunner{
		pages:    2,
		pageText: func(string) (string, error) { return "metin", nil },
	}
	p := NewPipeline(Config{TmpDir: tmp, Workers: 2}, runner, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ExtractPDF(ctx, writeFakePDF(t), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assertNoLeftovers(t, tmp)
}

func assertNoLeftovers(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, en := range entries {
		t.Errorf("leftover temp entry: %s", filepath.Join(dir, en.Name()))
	}
}

func TestEmitterClampsAndOrders(t *testing.T) {
	var pcts []float64
	em := newEmitter(func(ev ProgressEvent) { pcts = append(pcts, ev.ProgressPercent) })

	em.emit(StageDetect, 5, "")
	em.emit(StageRasterize, 30, "")
	em.emit(StageOCRRunning, 20, "") // late, must not go backwards
	em.emit(StageDone, 120, "")      // never above 100

	assert.Equal(t, []float64{5, 30, 30, 100}, pcts)
}

func TestEmitterNilCallback(t *testing.T) {
	em := newEmitter(nil)
	assert.NotPanics(t, func() { em.emit(StageDetect, 5, "") })
}
