package summarize

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// browserUserAgent is used by the hardened fallback fetch for sites
// that refuse requests without browser-like headers.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// WebScraper fetches a page and extracts its visible text. A plain
// fetch is tried first; if it fails or is rejected, a second attempt
// goes out with browser-like headers.
type WebScraper struct {
	HTTP *http.Client
}

// NewWebScraper creates a scraper with a sane request timeout.
func NewWebScraper() *WebScraper {
	return &WebScraper{HTTP: &http.Client{Timeout: 30 * time.Second}}
}

// Scrape returns the whitespace-joined visible text of the page.
func (s *WebScraper) Scrape(url string) (string, error) {
	body, err := s.fetch(url, false)
	if err != nil {
		body, err = s.fetch(url, true)
		if err != nil {
			return "", fmt.Errorf("error scraping %s: %w", url, err)
		}
	}
	defer body.Close()

	text := visibleText(body)
	if text == "" {
		return "", fmt.Errorf("no visible text extracted from %s", url)
	}
	return text, nil
}

func (s *WebScraper) fetch(url string, hardened bool) (io.ReadCloser, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if hardened {
		req.Header.Set("User-Agent", browserUserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	}

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// visibleText tokenizes HTML and joins the text nodes outside script,
// style and similar non-content elements with single spaces.
func visibleText(r io.Reader) string {
	tokenizer := html.NewTokenizer(r)
	var parts []string
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(parts, " ")
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if skipTag(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if skipTag(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			if text := strings.TrimSpace(string(tokenizer.Text())); text != "" {
				parts = append(parts, strings.Join(strings.Fields(text), " "))
			}
		}
	}
}

func skipTag(name string) bool {
	switch name {
	case "script", "style", "noscript", "iframe", "svg":
		return true
	}
	return false
}
