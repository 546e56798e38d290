package gemini

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/genai"

	"github.com/vbonduro/snapback/internal/vision"
)

// GeminiAnalyzer uses Google's Gemini API for image questions.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalyzer creates the shared Gemini client. An empty baseURL
// selects the public endpoint.
func NewGeminiAnalyzer(ctx context.Context, apiKey, model, baseURL string) (*GeminiAnalyzer, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiAnalyzer{client: client, model: model}, nil
}

func (g *GeminiAnalyzer) Query(ctx context.Context, r io.Reader, mimeType, prompt string) (string, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		{InlineData: &genai.Blob{Data: imageData, MIMEType: vision.NormaliseMIME(mimeType)}},
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", vision.ErrEmptyAnswer
	}
	text := result.Text()
	if text == "" {
		return "", vision.ErrEmptyAnswer
	}
	return text, nil
}
