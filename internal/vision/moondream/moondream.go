package moondream

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/go-resty/resty/v2"

	"github.com/vbonduro/snapback/internal/vision"
)

const DefaultBaseURL = "https://api.moondream.ai"

type queryRequest struct {
	ImageURL string `json:"image_url"`
	Question string `json:"question"`
	Stream   bool   `json:"stream"`
}

type queryResponse struct {
	Answer    string `json:"answer"`
	RequestID string `json:"request_id"`
}

// MoondreamAnalyzer queries the hosted Moondream vision-language model.
type MoondreamAnalyzer struct {
	client *resty.Client
}

func NewMoondreamAnalyzer(baseURL, apiKey string) *MoondreamAnalyzer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New().
		SetDebug(false).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	// Without a key the client is unauthenticated and the API rejects calls.
	if apiKey != "" {
		client.SetHeader("X-Moondream-Auth", apiKey)
	}
	return &MoondreamAnalyzer{client: client}
}

func (a *MoondreamAnalyzer) Query(ctx context.Context, r io.Reader, mimeType, prompt string) (string, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	result := &queryResponse{}
	res, err := a.client.R().
		SetContext(ctx).
		SetBody(queryRequest{
			ImageURL: encodeImage(imageData, mimeType),
			Question: prompt,
		}).
		SetResult(result).
		Post("/v1/query")
	if err != nil {
		return "", fmt.Errorf("failed to call moondream: %w", err)
	}
	if res.IsError() {
		return "", fmt.Errorf("moondream returned status %d: %s", res.StatusCode(), res.String())
	}
	if result.Answer == "" {
		return "", vision.ErrEmptyAnswer
	}
	return result.Answer, nil
}

// encodeImage renders the image as a base64 data URI, the form the query
// endpoint accepts in image_url.
func encodeImage(data []byte, mimeType string) string {
	return "data:" + vision.NormaliseMIME(mimeType) + ";base64," + base64.StdEncoding.EncodeToString(data)
}
