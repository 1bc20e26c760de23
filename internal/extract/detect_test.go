package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderdesk/tender-extract/constants"
	"github.com/tenderdesk/tender-extract/internal/common"
)

func TestDetectFormatByExtension(t *testing.T) {
	cases := map[string]constants.Format{
		"sartname.docx": constants.DOCX,
		"sartname.DOC":  constants.DOC,
		"ihale.pdf":     constants.PDF,
		"notlar.txt":    constants.TEXT,
		"eski.rtf":      constants.TEXT,
		"ilan.html":     constants.TEXT,
		"ilan.htm":      constants.TEXT,
		"liste.csv":     constants.TABLE,
		"liste.xlsx":    constants.TABLE,
		"veri.json":     constants.JSON,
		"tarama.png":    constants.IMAGE,
		"tarama.jpg":    constants.IMAGE,
		"tarama.jpeg":   constants.IMAGE,
	}
	for name, want := range cases {
		got, err := DetectFormat(SourceDocument{FileName: name})
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestDetectFormatExtensionBeatsMediaType(t *testing.T) {
	got, err := DetectFormat(SourceDocument{FileName: "doc.pdf", MediaType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, constants.PDF, got)
}

func TestDetectFormatFallsBackToMediaType(t *testing.T) {
	got, err := DetectFormat(SourceDocument{FileName: "upload.bin", MediaType: "application/pdf"})
	require.NoError(t, err)
	assert.Equal(t, constants.PDF, got)

	// parameters are stripped before lookup
	got, err = DetectFormat(SourceDocument{FileName: "upload", MediaType: "text/plain; charset=utf-8"})
	require.NoError(t, err)
	assert.Equal(t, constants.TEXT, got)
}

func TestDetectFormatUnsupported(t *testing.T) {
	_, err := DetectFormat(SourceDocument{FileName: "setup.exe"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnsupportedFormat))
	// generic media types never rescue an unknown extension
	_, err = DetectFormat(SourceDocument{FileName: "setup.exe", MediaType: "application/octet-stream"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnsupportedFormat))

	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "UNSUPPORTED_FORMAT", appErr.Code)
	assert.Contains(t, appErr.Message, "docx")
}
