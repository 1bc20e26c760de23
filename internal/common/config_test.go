package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "pdftotext", cfg.OCR.Pdftotext)
	assert.Equal(t, "tur", cfg.OCR.TesseractLang)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, 0, cfg.OCR.MaxPages) // 0 = no page cap
	assert.Equal(t, 4, cfg.OCR.Workers)
	assert.Equal(t, 500*time.Millisecond, cfg.Ingest.Debounce)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("TESSERACT_LANG", "tur+eng")
	t.Setenv("OCR_MAX_PAGES", "50")
	t.Setenv("OCR_WORKERS", "bogus") // unparseable falls back to the default

	cfg := LoadConfig()
	assert.Equal(t, "tur+eng", cfg.OCR.TesseractLang)
	assert.Equal(t, 50, cfg.OCR.MaxPages)
	assert.Equal(t, 4, cfg.OCR.Workers)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := LoadConfig()
	cfg.OCR.DPI = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestAppErrorUnwraps(t *testing.T) {
	err := NewAppError("NO_TEXT_LAYER", "2 chars recovered", ErrNoTextLayer)
	assert.True(t, errors.Is(err, ErrNoTextLayer))
	assert.Contains(t, err.Error(), "NO_TEXT_LAYER")

	wrapped := WrapError(err, "extract doc.pdf")
	assert.True(t, errors.Is(wrapped, ErrNoTextLayer))
	assert.Nil(t, WrapError(nil, "noop"))
}
