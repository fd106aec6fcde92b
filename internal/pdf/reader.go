// Package pdf reads text out of PDF documents and runs lightweight pattern
// extractors (emails, phone numbers, dates) over it.
package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	pdftext "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// contextLength is the number of characters kept on each side of a search hit.
const contextLength = 100

// Error is returned when a document cannot be opened or decoded.
type Error struct {
	Source  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pdf %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("pdf %s: %s", e.Source, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Reader holds the extracted text of every page of a document.
type Reader struct {
	pages []string
	text  string
}

// SearchResult is one page containing a search term.
type SearchResult struct {
	Page    int    `json:"page"`
	Context string `json:"context"`
}

// Statistics summarizes the document text.
type Statistics struct {
	TotalWords      int `json:"total_words"`
	UniqueWords     int `json:"unique_words"`
	TotalCharacters int `json:"total_characters"`
	TotalPages      int `json:"total_pages"`
}

// Open reads the PDF at path.
func Open(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Source: path, Message: "failed to read file", Cause: err}
	}
	r, err := FromBytes(data)
	if err != nil {
		if pe, ok := err.(*Error); ok {
			pe.Source = path
		}
		return nil, err
	}
	return r, nil
}

// FromBytes decodes an in-memory PDF. The document is structurally checked
// with pdfcpu before text is extracted page by page.
func FromBytes(data []byte) (*Reader, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	pageCount, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, &Error{Source: "(bytes)", Message: "not a valid PDF document", Cause: err}
	}

	doc, err := pdftext.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &Error{Source: "(bytes)", Message: "failed to initialize PDF reader", Cause: err}
	}

	n := doc.NumPage()
	if n != pageCount {
		return nil, &Error{Source: "(bytes)", Message: fmt.Sprintf("page count mismatch: %d vs %d", n, pageCount)}
	}

	fonts := make(map[string]*pdftext.Font)
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			return nil, &Error{Source: "(bytes)", Message: fmt.Sprintf("failed to extract text from page %d", i), Cause: err}
		}
		pages = append(pages, text)
	}
	return newReader(pages), nil
}

func newReader(pages []string) *Reader {
	var sb strings.Builder
	for _, p := range pages {
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	return &Reader{pages: pages, text: sb.String()}
}

// FullText returns the text of all pages, trimmed.
func (r *Reader) FullText() string {
	return strings.TrimSpace(r.text)
}

// TextByPage returns the trimmed text of a zero-based page.
func (r *Reader) TextByPage(page int) (string, error) {
	if page < 0 || page >= len(r.pages) {
		return "", fmt.Errorf("invalid page number %d: total pages %d", page, len(r.pages))
	}
	return strings.TrimSpace(r.pages[page]), nil
}

// TotalPages returns the number of pages.
func (r *Reader) TotalPages() int {
	return len(r.pages)
}

// SearchText finds pages containing term, case-insensitively. Page numbers
// are 1-based; the context surrounds the first hit on each page.
func (r *Reader) SearchText(term string) []SearchResult {
	results := []SearchResult{}
	if term == "" {
		return results
	}
	for i, page := range r.pages {
		if ctx, ok := searchContext(page, term); ok {
			results = append(results, SearchResult{Page: i + 1, Context: ctx})
		}
	}
	return results
}

func searchContext(text, term string) (string, bool) {
	runes := []rune(text)
	lower := []rune(strings.ToLower(text))
	needle := []rune(strings.ToLower(term))

	idx := indexRunes(lower, needle)
	if idx < 0 {
		return "", false
	}
	start := max(0, idx-contextLength)
	end := min(len(runes), idx+len(needle)+contextLength)
	return strings.TrimSpace(string(runes[start:end])), true
}

func indexRunes(haystack, needle []rune) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// Statistics returns word, character and page counts.
func (r *Reader) Statistics() Statistics {
	words := strings.Fields(r.text)
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	return Statistics{
		TotalWords:      len(words),
		UniqueWords:     len(unique),
		TotalCharacters: utf8.RuneCountInString(r.text),
		TotalPages:      r.TotalPages(),
	}
}

func (r *Reader) String() string {
	return fmt.Sprintf("pdf.Reader: %d pages", r.TotalPages())
}
