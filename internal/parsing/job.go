package parsing

import (
	"context"
	"strings"

	"github.com/jonathan/bestintern/internal/extraction"
	"github.com/jonathan/bestintern/internal/fetch"
	"github.com/jonathan/bestintern/internal/ingestion"
	"github.com/jonathan/bestintern/internal/llm"
	"github.com/jonathan/bestintern/internal/logger"
	"github.com/jonathan/bestintern/internal/types"
)

// PageTags are the tags whose text is reported alongside a parsed job.
var PageTags = []string{"meta", "h1", "h2", "p"}

// JobResult is a validated job extraction plus what was read from the page.
type JobResult struct {
	URL string `json:"url"`
	*extraction.Result[types.JobMetadata]
	// Tags maps each of PageTags to its joined text, nil when absent.
	Tags map[string]*string  `json:"tags"`
	Page *ingestion.Metadata `json:"page"`
}

// JobParser extracts JobMetadata from job posting pages.
type JobParser struct {
	Model llm.Client
	// Fetcher serves static reads. Nil uses an uncached fetcher.
	Fetcher *fetch.CachedFetcher
	// Render replaces the headless browser. Nil uses chromedp.
	Render      ingestion.Renderer
	UseBrowser bool
	// AutoBrowser re-reads a statically fetched page in the browser when
	// its text is too short to be the rendered posting.
	AutoBrowser bool
	Wait        *fetch.WaitOptions
	MaxAttempts int
}

func (p *JobParser) reader(url string) *ingestion.WebpageReader {
	var opts []ingestion.ReaderOption
	if p.Fetcher != nil {
		opts = append(opts, ingestion.WithFetcher(p.Fetcher))
	}
	if p.Render != nil {
		opts = append(opts, ingestion.WithRenderer(p.Render))
	}
	return ingestion.NewWebpageReader(url, opts...)
}

// ParseJob reads the posting at url and extracts its metadata.
func (p *JobParser) ParseJob(ctx context.Context, url string) (*JobResult, error) {
	if strings.TrimSpace(url) == "" {
		return nil, &ValidationError{Message: "url is required", Field: "url"}
	}
	if p.Model == nil {
		return nil, &ValidationError{Message: "no model configured", Field: "model"}
	}
	log := logger.Component("parsing")

	reader := p.reader(url)
	if err := reader.Read(ctx, p.UseBrowser, p.Wait); err != nil {
		return nil, &ParseError{Message: "failed to read job posting", Cause: err}
	}
	text, err := reader.Text(ctx, true)
	if err != nil {
		return nil, &ParseError{Message: "failed to read job posting", Cause: err}
	}
	if !p.UseBrowser && p.AutoBrowser && fetch.ShouldUseBrowser(text) {
		log.Debug().Str("url", url).Int("chars", len(text)).Msg("static text too short, rendering in browser")
		if err := reader.Read(ctx, true, p.Wait); err != nil {
			return nil, &ParseError{Message: "failed to render job posting", Cause: err}
		}
		if text, err = reader.Text(ctx, true); err != nil {
			return nil, &ParseError{Message: "failed to render job posting", Cause: err}
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Message: url + " has no text content"}
	}
	tags, err := reader.ExtractMetadata(ctx, PageTags, ingestion.DefaultDelimiter)
	if err != nil {
		return nil, &ParseError{Message: "failed to extract page metadata", Cause: err}
	}

	log.Debug().Str("url", url).Bool("rendered", reader.Metadata().Rendered).Int("chars", len(text)).Msg("parsing job posting")
	result, err := extraction.ExtractType[types.JobMetadata](ctx, text, p.Model, attemptOptions(p.MaxAttempts)...)
	if err != nil {
		return nil, classify(url, err)
	}
	log.Info().
		Str("url", url).
		Int("attempts", len(result.Attempts)).
		Strs("missing", result.Missing).
		Msg("parsed job posting")

	return &JobResult{URL: url, Result: result, Tags: tags, Page: reader.Metadata()}, nil
}
