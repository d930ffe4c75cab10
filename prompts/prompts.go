// Package prompts holds the summarization prompt texts and the rule
// that selects one for a URL.
package prompts

import "strings"

// DefaultPrompt is used for generic web pages.
const DefaultPrompt = `Without any explanation, just summarize this in English point form with minimal losing in information and ignore useless information for news consumer:`

// RedditPrompt is used for discussion-forum pages, where navigation
// boilerplate would otherwise dominate the scraped text.
const RedditPrompt = `Summarize the key points and main discussion from the following Reddit post content within 1500 characters. Focus on the post's topic, user opinions, and any conclusions drawn. Ignore site navigation elements and generic Reddit boilerplate. Use English point form:`

// VideoPrompt is sent alongside a video URL to a multimodal model.
const VideoPrompt = `Analyze the following YouTube video content. Provide a concise summary covering:

1.  **Main Thesis/Claim:** What is the central point the creator is making?
2.  **Key Topics:** List the main subjects discussed, referencing specific examples or technologies mentioned (e.g., AI models, programming languages, projects).
3.  **Call to Action:** Identify any explicit requests made to the viewer.
4.  **Summary:** Provide a concise summary of the video content.

Use the provided title, chapter timestamps/descriptions, and description text for your analysis. Please answer without explanation`

// ForURL builds the full prompt for scraped page text. Selection is a
// substring match on the URL, nothing smarter.
func ForURL(url, text string) string {
	if strings.Contains(url, "reddit.com") {
		return RedditPrompt + "\n\n" + text
	}
	return DefaultPrompt + "\n\n" + text
}

// IsVideoURL reports whether the URL should be routed to the video
// summarizer instead of the scrape-then-summarize path.
func IsVideoURL(url string) bool {
	return strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be")
}
