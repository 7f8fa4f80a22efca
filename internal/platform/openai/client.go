package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"pantrychef/internal/platform"
)

const (
	// DefaultBaseURL is the public OpenAI API.
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"
)

// Client represents a client for an OpenAI-compatible chat completions API.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	model      string
	log        *zap.Logger
}

// NewClient creates a new client. Empty baseURL and model fall back to the defaults.
// An empty apiKey is allowed; every call then fails with platform.ErrUnauthorized.
func NewClient(baseURL, apiKey, model string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		httpClient: &http.Client{},
		apiURL:     strings.TrimRight(baseURL, "/") + "/chat/completions",
		apiKey:     apiKey,
		model:      model,
		log:        log,
	}
}

// Request represents the request body for the chat completions endpoint.
type Request struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ResponseFormat constrains the shape of the reply.
type ResponseFormat struct {
	Type string `json:"type"`
}

// Message represents a message in the request.
type Message struct {
	Role    string    `json:"role"`
	Content []Content `json:"content"`
}

// Content represents the content of a message.
type Content struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL represents the image URL in the content.
type ImageURL struct {
	URL string `json:"url"`
}

// Response represents the response from the chat completions endpoint.
type Response struct {
	Choices []Choice `json:"choices"`
}

// Choice represents a choice in the response.
type Choice struct {
	Message ResponseMessage `json:"message"`
}

// ResponseMessage represents a message in the response.
type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func textContent(text string) []Content {
	return []Content{{Type: "text", Text: text}}
}

// GenerateContent sends a request and returns the text of the first choice.
// A reply without choices yields an empty string.
func (c *Client) GenerateContent(ctx context.Context, reqBody Request) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("openai: no API key configured: %w", platform.ErrUnauthorized)
	}
	if reqBody.Model == "" {
		reqBody.Model = c.model
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.log.Debug("openai request", zap.String("model", reqBody.Model), zap.Int("bytes", len(reqBytes)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("openai: status %d: %w", resp.StatusCode, platform.ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("received non-OK status code: %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var llmResp Response
	if err := json.NewDecoder(resp.Body).Decode(&llmResp); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(llmResp.Choices) == 0 {
		c.log.Warn("openai reply has no choices")
		return "", nil
	}
	content := llmResp.Choices[0].Message.Content
	c.log.Debug("openai reply", zap.Int("chars", len(content)))
	return content, nil
}

// DescribeImage sends an instruction together with an image given as a data URI.
func (c *Client) DescribeImage(ctx context.Context, instruction, image string, maxTokens int) (string, error) {
	return c.GenerateContent(ctx, Request{
		Messages: []Message{
			{
				Role: "user",
				Content: []Content{
					{Type: "text", Text: instruction},
					{Type: "image_url", ImageURL: &ImageURL{URL: image}},
				},
			},
		},
		MaxTokens: maxTokens,
	})
}

// CompleteJSON asks for a reply constrained to a single JSON object.
func (c *Client) CompleteJSON(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	return c.GenerateContent(ctx, Request{
		Messages: []Message{
			{Role: "system", Content: textContent(system)},
			{Role: "user", Content: textContent(prompt)},
		},
		MaxTokens:      maxTokens,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})
}
