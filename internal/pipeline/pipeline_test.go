package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderdesk/tender-extract/constants"
	"github.com/tenderdesk/tender-extract/internal/extract"
	"github.com/tenderdesk/tender-extract/internal/joblog"
	"github.com/tenderdesk/tender-extract/internal/llm"
	"github.com/tenderdesk/tender-extract/internal/ocr"
	"github.com/tenderdesk/tender-extract/internal/validation"
)

type stubExtractor struct {
	res extract.ExtractionResult
}

func (s stubExtractor) DetectAndExtract(context.Context, extract.SourceDocument, ocr.ProgressFunc) extract.ExtractionResult {
	return s.res
}

type stubFields struct {
	json      string
	err       error
	gotHints  map[string]string
	gotCalled bool
}

func (s *stubFields) ExtractFields(_ context.Context, _ string, hints map[string]string) (llm.FieldsResult, error) {
	s.gotCalled = true
	s.gotHints = hints
	if s.err != nil {
		return llm.FieldsResult{}, s.err
	}
	return llm.FieldsResult{JSON: s.json, ModelName: "stub"}, nil
}

func writeTempDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestProcessFileFullChain(t *testing.T) {
	text := "İşyerinde çalıştırılacak 8 personel tarafından hizmet yürütülecektir. " +
		"Günlük 1200 öğrenciye yemek hizmeti verilecektir."
	fields := &stubFields{json: `{"personnel_count": 8, "meals_per_day": 3, "days_count": 365}`}

	jobs, err := joblog.Open(context.Background(), filepath.Join(t.TempDir(), "jobs.db"), nil)
	require.NoError(t, err)
	defer jobs.Close()

	p := NewProcessor(
		stubExtractor{res: extract.ExtractionResult{Success: true, Text: text, Method: constants.MethodPlainText, FileKind: constants.TEXT}},
		fields,
		validation.NewValidator(validation.Config{}, nil),
		jobs,
		nil,
	)

	out, err := p.ProcessFile(context.Background(), writeTempDoc(t, "sartname.txt", text), nil)
	require.NoError(t, err)

	// disambiguation hints reached the collaborator
	require.True(t, fields.gotCalled)
	assert.Equal(t, "8", fields.gotHints["staff_candidates"])
	assert.Equal(t, "1200", fields.gotHints["recipient_candidates"])

	require.NotNil(t, out.Fields)
	assert.Equal(t, 8, *out.Fields.PersonnelCount)

	// the missing budget was derived and auto-fixed on the immutable copy
	require.NotNil(t, out.Validation)
	require.NotNil(t, out.Validation.FixedData)
	assert.NotNil(t, out.Validation.FixedData.EstimatedBudget)
	assert.Nil(t, out.Fields.EstimatedBudget)

	j, err := jobs.GetByID(context.Background(), out.JobID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusValidateOK, j.Status)
}

func TestProcessFileExtractionOnly(t *testing.T) {
	p := NewProcessor(
		stubExtractor{res: extract.ExtractionResult{Success: true, Text: "metin", Method: constants.MethodPlainText}},
		nil, // no collaborator configured
		validation.NewValidator(validation.Config{}, nil),
		nil,
		nil,
	)

	out, err := p.ProcessFile(context.Background(), writeTempDoc(t, "not.txt", "metin"), nil)
	require.NoError(t, err)
	assert.Nil(t, out.Fields)
	assert.Nil(t, out.Validation)
}

func TestProcessFileExtractionFailureIsTerminal(t *testing.T) {
	jobs, err := joblog.Open(context.Background(), filepath.Join(t.TempDir(), "jobs.db"), nil)
	require.NoError(t, err)
	defer jobs.Close()

	extractErr := errors.New("extract bozuk.doc (DOC): no strategy produced text")
	fields := &stubFields{json: `{}`}
	p := NewProcessor(
		stubExtractor{res: extract.ExtractionResult{Success: false, Err: extractErr}},
		fields,
		validation.NewValidator(validation.Config{}, nil),
		jobs,
		nil,
	)

	out, err := p.ProcessFile(context.Background(), writeTempDoc(t, "bozuk.doc", "x"), nil)
	require.Error(t, err)
	assert.False(t, fields.gotCalled)

	j, jerr := jobs.GetByID(context.Background(), out.JobID)
	require.NoError(t, jerr)
	assert.Equal(t, constants.JobStatusFailed, j.Status)
	assert.Contains(t, j.Error, "no strategy")
}

func TestProcessFileBadModelOutputFails(t *testing.T) {
	p := NewProcessor(
		stubExtractor{res: extract.ExtractionResult{Success: true, Text: "metin"}},
		&stubFields{json: `{"evidence": {"personnel_count": 5}}`}, // schema violation
		validation.NewValidator(validation.Config{}, nil),
		nil,
		nil,
	)

	_, err := p.ProcessFile(context.Background(), writeTempDoc(t, "d.txt", "metin"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode model output")
}

func TestProcessFileMissingInput(t *testing.T) {
	p := NewProcessor(stubExtractor{}, nil, nil, nil, nil)
	_, err := p.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "yok.txt"), nil)
	require.Error(t, err)
}
