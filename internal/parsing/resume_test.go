package parsing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/bestintern/internal/extraction"
	"github.com/jonathan/bestintern/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeParser_ParseResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ada.pdf")
	require.NoError(t, os.WriteFile(path, buildPDF("Ada Lovelace", "Skills Go and SQL"), 0644))

	model := &fakeModel{responses: []string{"```json\n" + validResume + "\n```"}}
	parser := &ResumeParser{Model: model}

	result, err := parser.ParseResume(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", result.Data.Name)
	assert.Equal(t, []string{"Go", "SQL"}, result.Data.Skills)
	assert.Contains(t, result.Missing, "experience")
	assert.Len(t, result.Attempts, 1)
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "Lovelace")
	assert.Contains(t, model.prompts[0], "SQL")
}

func TestResumeParser_ParseResumeObject(t *testing.T) {
	store := mapObjects{"resumes/ada.pdf": buildPDF("Ada Lovelace")}
	parser := &ResumeParser{Model: &fakeModel{responses: []string{validResume}}, Store: store}

	result, err := parser.ParseResumeObject(context.Background(), "resumes/ada.pdf")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", result.Data.Email)

	_, err = parser.ParseResumeObject(context.Background(), "resumes/missing.pdf")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "failed to download resumes/missing.pdf")
}

func TestResumeParser_InputErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		run   func(*ResumeParser) error
		field string
	}{
		{
			name: "empty path",
			run: func(p *ResumeParser) error {
				_, err := p.ParseResume(ctx, " ")
				return err
			},
			field: "path",
		},
		{
			name: "no store",
			run: func(p *ResumeParser) error {
				_, err := p.ParseResumeObject(ctx, "key")
				return err
			},
			field: "store",
		},
		{
			name: "no model",
			run: func(p *ResumeParser) error {
				_, err := (&ResumeParser{}).ParseResumeBytes(ctx, buildPDF("Ada"))
				return err
			},
			field: "model",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(&ResumeParser{Model: &fakeModel{}})
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestResumeParser_NotAPDF(t *testing.T) {
	model := &fakeModel{}
	_, err := (&ResumeParser{Model: model}).ParseResumeBytes(context.Background(), []byte("plain text"))

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Empty(t, model.prompts)
}

func TestResumeParser_ExtractionFailure(t *testing.T) {
	model := &fakeModel{responses: []string{"no json", "still none", "nope"}}
	parser := &ResumeParser{Model: model, MaxAttempts: 3}

	_, err := parser.ParseResumeBytes(context.Background(), buildPDF("Ada Lovelace"))

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.ErrorIs(t, err, extraction.ErrExtractionFailed)
	assert.ErrorIs(t, err, extraction.ErrNoJSONFound)

	var failed *extraction.FailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 3, failed.Attempts)
	assert.Len(t, model.prompts, 3)
}

func TestResumeParser_TransportFailure(t *testing.T) {
	cause := errors.New("503 unavailable")
	model := &fakeModel{err: &llm.TransportError{Model: llm.ModelGeminiFlash, Cause: cause}}

	_, err := (&ResumeParser{Model: model}).ParseResumeBytes(context.Background(), buildPDF("Ada Lovelace"))

	var apiErr *APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.ErrorIs(t, err, cause)
	assert.Len(t, model.prompts, 1)
}
