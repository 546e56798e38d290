package claude

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/snapback/internal/vision"
)

// maxTokens leaves room for the six-field JSON answer or a few short
// paragraphs of free text.
const maxTokens = 1024

type ClaudeAnalyzer struct {
	client *anthropic.Client
	model  string
}

// NewClaudeAnalyzer builds a client for the Anthropic Messages API. An empty
// baseURL selects the public endpoint.
func NewClaudeAnalyzer(apiKey, model, baseURL string) *ClaudeAnalyzer {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &ClaudeAnalyzer{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

// buildMessages constructs the single user turn carrying the image and prompt.
func buildMessages(imageData []byte, mimeType, prompt string) []anthropic.Message {
	return []anthropic.Message{{
		Role: anthropic.RoleUser,
		Content: []anthropic.MessageContent{
			anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
				anthropic.MessagesContentSourceTypeBase64,
				vision.NormaliseMIME(mimeType),
				base64.StdEncoding.EncodeToString(imageData),
			)),
			anthropic.NewTextMessageContent(prompt),
		},
	}}
}

func (a *ClaudeAnalyzer) Query(ctx context.Context, r io.Reader, mimeType, prompt string) (string, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(a.model),
		MaxTokens: maxTokens,
		Messages:  buildMessages(imageData, mimeType, prompt),
	})
	if err != nil {
		return "", fmt.Errorf("failed to call claude: %w", err)
	}

	for _, blk := range resp.Content {
		if blk.Type == anthropic.MessagesContentTypeText && blk.Text != nil && *blk.Text != "" {
			return *blk.Text, nil
		}
	}
	return "", vision.ErrEmptyAnswer
}
