package ollama

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/go-resty/resty/v2"

	"github.com/vbonduro/snapback/internal/vision"
)

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Stream bool     `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// OllamaAnalyzer queries a vision model served by a local Ollama instance.
type OllamaAnalyzer struct {
	model  string
	client *resty.Client
}

func NewOllamaAnalyzer(host, model string) *OllamaAnalyzer {
	return &OllamaAnalyzer{
		model:  model,
		client: resty.New().SetDebug(false).SetBaseURL(host),
	}
}

func (a *OllamaAnalyzer) Query(ctx context.Context, r io.Reader, _ string, prompt string) (string, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	result := &generateResponse{}
	res, err := a.client.R().
		SetContext(ctx).
		SetBody(generateRequest{
			Model:  a.model,
			Prompt: prompt,
			Images: []string{base64.StdEncoding.EncodeToString(imageData)},
			Stream: false,
		}).
		SetResult(result).
		Post("/api/generate")
	if err != nil {
		return "", fmt.Errorf("failed to call ollama: %w", err)
	}
	if res.IsError() {
		return "", fmt.Errorf("ollama returned status %d", res.StatusCode())
	}
	if result.Response == "" {
		return "", vision.ErrEmptyAnswer
	}
	return result.Response, nil
}
