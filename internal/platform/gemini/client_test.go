package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"

	"pantrychef/internal/platform"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		unauthorized bool
	}{
		{name: "invalid key", err: &googleapi.Error{Code: 400, Message: "API key not valid. Please pass a valid API key."}, unauthorized: true},
		{name: "unauthenticated", err: &googleapi.Error{Code: 401, Message: "unauthenticated"}, unauthorized: true},
		{name: "forbidden wrapped", err: fmt.Errorf("rpc: %w", &googleapi.Error{Code: 403, Message: "denied"}), unauthorized: true},
		{name: "bad request", err: &googleapi.Error{Code: 400, Message: "image too large"}},
		{name: "quota", err: &googleapi.Error{Code: 429, Message: "quota exceeded"}},
		{name: "network", err: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.err)
			assert.Equal(t, tt.unauthorized, errors.Is(err, platform.ErrUnauthorized))
			assert.ErrorContains(t, err, "gemini")
		})
	}
}

func TestResponseText(t *testing.T) {
	assert.Empty(t, responseText(nil))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{}))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("- tomato\n"), genai.Text("- basil")}},
		}},
	}
	assert.Equal(t, "- tomato\n- basil", responseText(resp))
}

func TestClient_MissingKey(t *testing.T) {
	c, err := NewClient(context.Background(), "", "", zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.DescribeImage(context.Background(), "list", "data:image/png;base64,AAAA", 500)
	assert.ErrorIs(t, err, platform.ErrUnauthorized)

	_, err = c.CompleteJSON(context.Background(), "system", "prompt", 2000)
	assert.ErrorIs(t, err, platform.ErrUnauthorized)
}
