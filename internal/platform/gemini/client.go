package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"pantrychef/internal/imagedata"
	"pantrychef/internal/platform"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

// Client is a client for the Gemini API.
type Client struct {
	client    *genai.Client
	modelName string
	log       *zap.Logger
}

// NewClient creates a new Gemini client. With an empty apiKey no SDK client is
// created and every call fails with platform.ErrUnauthorized.
func NewClient(ctx context.Context, apiKey, modelName string, log *zap.Logger) (*Client, error) {
	if modelName == "" {
		modelName = DefaultModel
	}
	c := &Client{modelName: modelName, log: log}
	if apiKey == "" {
		return c, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	c.client = client
	return c, nil
}

// Close releases the SDK client.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) model(maxTokens int) (*genai.GenerativeModel, error) {
	if c.client == nil {
		return nil, fmt.Errorf("gemini: no API key configured: %w", platform.ErrUnauthorized)
	}
	model := c.client.GenerativeModel(c.modelName)
	model.SetMaxOutputTokens(int32(maxTokens))
	return model, nil
}

// DescribeImage sends an instruction together with an image given as a data URI.
func (c *Client) DescribeImage(ctx context.Context, instruction, image string, maxTokens int) (string, error) {
	model, err := c.model(maxTokens)
	if err != nil {
		return "", err
	}

	data, mime, err := imagedata.Decode(image)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	prompt := []genai.Part{
		genai.ImageData(strings.TrimPrefix(mime, "image/"), data),
		genai.Text(instruction),
	}

	c.log.Debug("gemini image request", zap.String("model", c.modelName), zap.Int("image_bytes", len(data)))
	resp, err := model.GenerateContent(ctx, prompt...)
	if err != nil {
		return "", classify(err)
	}
	return responseText(resp), nil
}

// CompleteJSON asks for a reply constrained to a single JSON object.
func (c *Client) CompleteJSON(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	model, err := c.model(maxTokens)
	if err != nil {
		return "", err
	}
	model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	model.ResponseMIMEType = "application/json"

	c.log.Debug("gemini json request", zap.String("model", c.modelName), zap.Int("prompt_chars", len(prompt)))
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classify(err)
	}
	return responseText(resp), nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

// classify marks credential failures with platform.ErrUnauthorized. Gemini answers
// an invalid key with 400 "API key not valid", a missing one with 401 or 403.
func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized, apiErr.Code == http.StatusForbidden:
			return fmt.Errorf("gemini: %s: %w", apiErr.Message, platform.ErrUnauthorized)
		case apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "API key"):
			return fmt.Errorf("gemini: %s: %w", apiErr.Message, platform.ErrUnauthorized)
		}
	}
	return fmt.Errorf("gemini: %w", err)
}
