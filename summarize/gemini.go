package summarize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"summary-bot/prompts"
)

// DefaultGeminiBaseURL is the generative language API endpoint.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient calls the Gemini generateContent REST API for both text
// and video summaries.
type GeminiClient struct {
	APIKey     string
	Model      string // text summaries
	VideoModel string // video summaries (multimodal)
	BaseURL    string
	HTTP       *http.Client
}

// NewGeminiClient creates a client with the given key and models.
func NewGeminiClient(apiKey, model, videoModel string) *GeminiClient {
	return &GeminiClient{
		APIKey:     apiKey,
		Model:      model,
		VideoModel: videoModel,
		BaseURL:    DefaultGeminiBaseURL,
		HTTP:       &http.Client{Timeout: 120 * time.Second},
	}
}

type geminiPart struct {
	Text     string          `json:"text,omitempty"`
	FileData *geminiFileData `json:"file_data,omitempty"`
}

type geminiFileData struct {
	FileURI string `json:"file_uri"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate runs a single-shot text generation call.
func (c *GeminiClient) Generate(prompt string) (string, error) {
	return c.generate(c.Model, []geminiPart{{Text: prompt}})
}

// SummarizeVideo asks the multimodal model to summarize a video URL.
func (c *GeminiClient) SummarizeVideo(url string) (string, error) {
	parts := []geminiPart{
		{Text: prompts.VideoPrompt},
		{FileData: &geminiFileData{FileURI: url}},
	}
	return c.generate(c.VideoModel, parts)
}

func (c *GeminiClient) generate(model string, parts []geminiPart) (string, error) {
	payload := geminiRequest{Contents: []geminiContent{{Parts: parts}}}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.BaseURL, model, c.APIKey)
	resp, err := c.HTTP.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("request to Gemini API failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read Gemini response: %w", err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode Gemini response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("Gemini API error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("Gemini response contained no candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
