// Package summarize provides the content collaborators the pipeline
// consumes: page scraping and LLM text/video summarization. All three
// are best-effort; a failure is reported as an error the pipeline turns
// into a per-URL skip, never a crash.
package summarize

// Scraper extracts the visible text of a web page.
type Scraper interface {
	Scrape(url string) (string, error)
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(prompt string) (string, error)
}

// VideoSummarizer summarizes a video given only its URL.
type VideoSummarizer interface {
	SummarizeVideo(url string) (string, error)
}

var (
	_ Scraper         = (*WebScraper)(nil)
	_ Generator       = (*GeminiClient)(nil)
	_ VideoSummarizer = (*GeminiClient)(nil)
)
