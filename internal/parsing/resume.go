// Package parsing turns resumes and job postings into structured metadata.
package parsing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/bestintern/internal/extraction"
	"github.com/jonathan/bestintern/internal/llm"
	"github.com/jonathan/bestintern/internal/logger"
	"github.com/jonathan/bestintern/internal/pdf"
	"github.com/jonathan/bestintern/internal/types"
)

// ResumeResult is a validated resume extraction.
type ResumeResult = extraction.Result[types.ResumeMetadata]

// ObjectGetter reads stored documents by key.
type ObjectGetter interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// ResumeParser extracts ResumeMetadata from PDF resumes.
type ResumeParser struct {
	Model llm.Client
	// Store is only needed by ParseResumeObject.
	Store       ObjectGetter
	MaxAttempts int
}

// ParseResume reads the PDF at path and extracts its metadata.
func (p *ResumeParser) ParseResume(ctx context.Context, path string) (*ResumeResult, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &ValidationError{Message: "path is required", Field: "path"}
	}
	reader, err := pdf.Open(path)
	if err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("failed to read %s", path), Cause: err}
	}
	return p.parse(ctx, path, reader)
}

// ParseResumeBytes extracts metadata from an in-memory PDF.
func (p *ResumeParser) ParseResumeBytes(ctx context.Context, data []byte) (*ResumeResult, error) {
	reader, err := pdf.FromBytes(data)
	if err != nil {
		return nil, &ParseError{Message: "failed to read resume", Cause: err}
	}
	return p.parse(ctx, "resume", reader)
}

// ParseResumeObject downloads the PDF stored under key and extracts its metadata.
func (p *ResumeParser) ParseResumeObject(ctx context.Context, key string) (*ResumeResult, error) {
	if p.Store == nil {
		return nil, &ValidationError{Message: "no object store configured", Field: "store"}
	}
	if strings.TrimSpace(key) == "" {
		return nil, &ValidationError{Message: "key is required", Field: "key"}
	}
	data, err := p.Store.Get(ctx, key)
	if err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("failed to download %s", key), Cause: err}
	}
	reader, err := pdf.FromBytes(data)
	if err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("failed to read %s", key), Cause: err}
	}
	return p.parse(ctx, key, reader)
}

func (p *ResumeParser) parse(ctx context.Context, source string, reader *pdf.Reader) (*ResumeResult, error) {
	if p.Model == nil {
		return nil, &ValidationError{Message: "no model configured", Field: "model"}
	}
	log := logger.Component("parsing")

	text := reader.FullText()
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Message: fmt.Sprintf("%s has no extractable text", source)}
	}
	log.Debug().Str("source", source).Int("pages", reader.TotalPages()).Int("chars", len(text)).Msg("parsing resume")

	result, err := extraction.ExtractType[types.ResumeMetadata](ctx, text, p.Model, attemptOptions(p.MaxAttempts)...)
	if err != nil {
		return nil, classify(source, err)
	}
	log.Info().
		Str("source", source).
		Int("attempts", len(result.Attempts)).
		Strs("missing", result.Missing).
		Msg("parsed resume")
	return result, nil
}

func attemptOptions(maxAttempts int) []extraction.Option {
	if maxAttempts <= 0 {
		return nil
	}
	return []extraction.Option{extraction.WithMaxAttempts(maxAttempts)}
}
