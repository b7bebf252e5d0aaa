package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/foxseedlab/raidtracker/internal/vision"
	"golang.org/x/time/rate"
)

const (
	maxTokens        = 10000
	structuredOutput = "structured-outputs-2025-11-13"
)

type HTTPAnalyzer struct {
	apiURL  string
	apiKey  string
	model   string
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPAnalyzer calls a messages-style API at apiURL. At most
// requestsPerMinute requests are started per minute; callers wait for a slot
// until their context ends.
func NewHTTPAnalyzer(apiURL, apiKey, model string, requestsPerMinute int) *HTTPAnalyzer {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 1
	}
	return &HTTPAnalyzer{
		apiURL:  apiURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 90 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
	}
}

type imageSource struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type contentBlock struct {
	Type   string      `json:"type"`
	Source imageSource `json:"source"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type outputFormat struct {
	Type   string         `json:"type"`
	Schema map[string]any `json:"schema"`
}

type request struct {
	Model        string       `json:"model"`
	MaxTokens    int          `json:"max_tokens"`
	System       string       `json:"system"`
	Messages     []message    `json:"messages"`
	OutputFormat outputFormat `json:"output_format"`
}

type response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type detectionResult struct {
	DetectedCharacter []string `json:"detectedCharacter"`
	DetectedDate      *string  `json:"detectedDate"`
}

var detectionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"detectedCharacter": map[string]any{
			"type":        "array",
			"description": "Every whitelisted character name detected in the images. Empty when none is found.",
			"items":       map[string]any{"type": "string"},
		},
		"detectedDate": map[string]any{
			"type":        []string{"string", "null"},
			"format":      "date-time",
			"description": "The date string shown in the images, or null. When several are shown, use the one written in yellow text.",
		},
	},
	"required":             []string{"detectedCharacter"},
	"additionalProperties": false,
}

func (a *HTTPAnalyzer) DetectCharacters(ctx context.Context, imageURLs []string, whitelist []string) (*vision.Detection, error) {
	if len(imageURLs) == 0 || len(whitelist) == 0 {
		return &vision.Detection{}, nil
	}

	blocks := make([]contentBlock, 0, len(imageURLs))
	for _, u := range imageURLs {
		blocks = append(blocks, contentBlock{Type: "image", Source: imageSource{Type: "url", URL: u}})
	}
	body := request{
		Model:     a.model,
		MaxTokens: maxTokens,
		System: "Detect every date string and character name in the images. Only output the following whitelisted character names if they appear:\n" +
			strings.Join(whitelist, "\n"),
		Messages:     []message{{Role: "user", Content: blocks}},
		OutputFormat: outputFormat{Type: "json_schema", Schema: detectionSchema},
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", a.apiKey)
	req.Header.Set("anthropic-beta", structuredOutput)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return nil, fmt.Errorf("image analysis returned status %d", resp.StatusCode)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode image analysis response: %w", err)
	}
	if len(out.Content) == 0 || out.Content[0].Text == "" {
		return nil, fmt.Errorf("image analysis response has no text content")
	}
	var result detectionResult
	if err := json.Unmarshal([]byte(out.Content[0].Text), &result); err != nil {
		return nil, fmt.Errorf("failed to decode detection result: %w", err)
	}

	d := &vision.Detection{Characters: vision.FilterWhitelist(result.DetectedCharacter, whitelist)}
	if result.DetectedDate != nil {
		d.Date = *result.DetectedDate
	}
	return d, nil
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
