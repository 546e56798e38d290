package vision

import (
	"context"
	"errors"
	"io"
)

// ErrEmptyAnswer is returned when a backend responds successfully but without
// any answer text.
var ErrEmptyAnswer = errors.New("empty answer from vision model")

// VisionAnalyzer sends one image and one prompt to a hosted vision-language
// model and returns its text answer.
type VisionAnalyzer interface {
	Query(ctx context.Context, r io.Reader, mimeType, prompt string) (string, error)
}

// Unavailable is a VisionAnalyzer whose client could not be built. Every
// query fails with Err, so the failure surfaces per request instead of at
// startup.
type Unavailable struct {
	Err error
}

func (u Unavailable) Query(context.Context, io.Reader, string, string) (string, error) {
	return "", u.Err
}

// NormaliseMIME maps a sniffed MIME type to one every backend accepts.
// Unknown types fall back to jpeg.
func NormaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
