package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/jonathan/bestintern/internal/logger"
)

// MinContentLength is the minimum extracted text length to consider HTTP fetch successful.
// If content is shorter, we should fall back to browser rendering.
const MinContentLength = 500

// DefaultWaitTimeout bounds how long the browser waits for a page condition.
const DefaultWaitTimeout = 5 * time.Second

// ShouldUseBrowser returns true if the extracted text is too short,
// indicating the page is likely a JavaScript-rendered SPA.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// WaitKind names the condition the browser waits for before capturing HTML.
type WaitKind string

const (
	WaitElementID WaitKind = "element_id"
	WaitClassName WaitKind = "class_name"
	WaitText      WaitKind = "text_content"
	WaitTag       WaitKind = "html_tag"
	WaitSleep     WaitKind = "sleep"
)

// WaitOptions selects the condition awaited after navigation. The first
// non-empty field in declaration order wins; with none set the browser
// simply sleeps for Timeout. HTMLAttribute only applies together with HTMLTag.
type WaitOptions struct {
	ElementID     string        `json:"element_id,omitempty"`
	ClassName     string        `json:"class_name,omitempty"`
	TextContent   string        `json:"text_content,omitempty"`
	HTMLTag       string        `json:"html_tag,omitempty"`
	HTMLAttribute string        `json:"html_attribute,omitempty"`
	Timeout       time.Duration `json:"timeout,omitempty"`
}

// Kind reports which condition these options select.
func (w WaitOptions) Kind() WaitKind {
	switch {
	case w.ElementID != "":
		return WaitElementID
	case w.ClassName != "":
		return WaitClassName
	case w.TextContent != "":
		return WaitText
	case w.HTMLTag != "":
		return WaitTag
	default:
		return WaitSleep
	}
}

func (w WaitOptions) timeout() time.Duration {
	if w.Timeout <= 0 {
		return DefaultWaitTimeout
	}
	return w.Timeout
}

// Script returns the JavaScript predicate polled for text and tag waits.
func (w WaitOptions) Script() string {
	switch w.Kind() {
	case WaitText:
		needle, _ := json.Marshal(w.TextContent)
		return fmt.Sprintf("document.body !== null && document.body.innerText.includes(%s)", needle)
	case WaitTag:
		selector := w.HTMLTag
		if w.HTMLAttribute != "" {
			selector += "[" + w.HTMLAttribute + "]"
		}
		quoted, _ := json.Marshal(selector)
		return fmt.Sprintf("document.querySelector(%s) !== null", quoted)
	default:
		return ""
	}
}

func (w WaitOptions) action() chromedp.Action {
	switch w.Kind() {
	case WaitElementID:
		return chromedp.WaitReady(w.ElementID, chromedp.ByID)
	case WaitClassName:
		return chromedp.WaitReady("."+w.ClassName, chromedp.ByQuery)
	case WaitText, WaitTag:
		var ok bool
		return chromedp.Poll(w.Script(), &ok, chromedp.WithPollingInterval(100*time.Millisecond))
	default:
		return chromedp.Sleep(w.timeout())
	}
}

// WithBrowser renders a page in a headless browser, waits for the condition
// described by wait, and returns the rendered HTML. Requires Chrome/Chromium.
func WithBrowser(ctx context.Context, url string, wait WaitOptions) (string, error) {
	log := logger.Component("browser")
	log.Debug().Str("url", url).Str("wait", string(wait.Kind())).Msg("starting headless browser")

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if wait.Kind() == WaitSleep {
				return wait.action().Do(ctx)
			}
			waitCtx, cancel := context.WithTimeout(ctx, wait.timeout())
			defer cancel()
			if err := wait.action().Do(waitCtx); err != nil {
				return fmt.Errorf("waiting for %s: %w", wait.Kind(), err)
			}
			return nil
		}),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}

	log.Debug().Str("url", url).Int("bytes", len(html)).Msg("rendered page")
	return html, nil
}
