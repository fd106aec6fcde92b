// Package ingestion reads webpages into plain text and tag metadata.
package ingestion

import (
	"context"
	"fmt"

	"github.com/jonathan/bestintern/internal/fetch"
	"github.com/jonathan/bestintern/internal/logger"
)

// DefaultDelimiter joins the text of repeated tags.
const DefaultDelimiter = ","

// Renderer returns the HTML of a page after browser rendering.
type Renderer func(ctx context.Context, url string, wait fetch.WaitOptions) (string, error)

// WebpageReader fetches one URL and exposes its text and tag metadata.
// The page is read on first use if Read was not called.
type WebpageReader struct {
	url      string
	fetcher  *fetch.CachedFetcher
	render   Renderer
	html     string
	text     string
	metadata *Metadata
}

// ReaderOption configures a WebpageReader.
type ReaderOption func(*WebpageReader)

// WithFetcher routes static reads through a (possibly cached) fetcher.
func WithFetcher(f *fetch.CachedFetcher) ReaderOption {
	return func(r *WebpageReader) { r.fetcher = f }
}

// WithRenderer replaces the headless browser used for rendered reads.
func WithRenderer(render Renderer) ReaderOption {
	return func(r *WebpageReader) { r.render = render }
}

// NewWebpageReader creates a reader for url.
func NewWebpageReader(url string, opts ...ReaderOption) *WebpageReader {
	r := &WebpageReader{
		url:     url,
		fetcher: fetch.NewCachedFetcher(nil, nil),
		render:  fetch.WithBrowser,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// URL returns the page address.
func (r *WebpageReader) URL() string {
	return r.url
}

// Read fetches the page, statically or through a headless browser, and
// replaces any previously read content. A nil wait uses the default
// WaitOptions (sleep for the default timeout).
func (r *WebpageReader) Read(ctx context.Context, useBrowser bool, wait *fetch.WaitOptions) error {
	log := logger.Component("ingestion")
	if err := fetch.ValidateURL(r.url); err != nil {
		return err
	}

	var (
		html string
		meta = &Metadata{}
	)
	if useBrowser {
		opts := fetch.WaitOptions{}
		if wait != nil {
			opts = *wait
		}
		rendered, err := r.render(ctx, r.url, opts)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", r.url, err)
		}
		html = rendered
		meta.Rendered = true
	} else {
		result, err := r.fetcher.Fetch(ctx, r.url)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", r.url, err)
		}
		html = result.HTML
		meta.StatusCode = result.StatusCode
		meta.FromCache = result.FromCache
	}

	text, err := fetch.PageText(html)
	if err != nil {
		return fmt.Errorf("failed to extract text from %s: %w", r.url, err)
	}

	stamped := NewMetadata(html, r.url)
	meta.URL, meta.Timestamp, meta.Hash = stamped.URL, stamped.Timestamp, stamped.Hash
	meta.Platform = string(fetch.DetectPlatform(r.url))

	r.html, r.text, r.metadata = html, text, meta
	log.Debug().
		Str("url", r.url).
		Bool("rendered", meta.Rendered).
		Bool("from_cache", meta.FromCache).
		Int("html_bytes", len(html)).
		Int("text_chars", len(text)).
		Msg("read webpage")
	return nil
}

func (r *WebpageReader) ensureRead(ctx context.Context) error {
	if r.metadata != nil {
		return nil
	}
	return r.Read(ctx, false, nil)
}

// Text returns the page text, one text node per line. With
// removeMultipleNewlines, runs of blank lines collapse to a single newline.
func (r *WebpageReader) Text(ctx context.Context, removeMultipleNewlines bool) (string, error) {
	if err := r.ensureRead(ctx); err != nil {
		return "", err
	}
	if removeMultipleNewlines {
		return RemoveMultipleNewlines(r.text), nil
	}
	return r.text, nil
}

// MainText returns the cleaned posting body selected with the host platform's selectors.
func (r *WebpageReader) MainText(ctx context.Context) (string, error) {
	if err := r.ensureRead(ctx); err != nil {
		return "", err
	}
	text, err := fetch.MainText(r.url, r.html)
	if err != nil {
		return "", err
	}
	return CleanText(text), nil
}

// ExtractMetadata maps each tag to the trimmed text of its elements joined
// by delimiter, or nil when the page has no such element.
func (r *WebpageReader) ExtractMetadata(ctx context.Context, tags []string, delimiter string) (map[string]*string, error) {
	if err := r.ensureRead(ctx); err != nil {
		return nil, err
	}
	return fetch.ExtractTags(r.html, tags, delimiter)
}

// Metadata describes the last read, or nil before the first read.
func (r *WebpageReader) Metadata() *Metadata {
	return r.metadata
}
