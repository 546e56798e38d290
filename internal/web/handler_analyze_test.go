package web

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodedImage(t *testing.T, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	switch format {
	case "png":
		require.NoError(t, png.Encode(&buf, img))
	case "jpeg":
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	}
	return buf.Bytes()
}

func TestAllowedImageMIME(t *testing.T) {
	tests := []struct {
		name         string
		data         []byte
		wantMIME     string
		wantDetected bool
	}{
		{
			name:         "JPEG",
			data:         encodedImage(t, "jpeg"),
			wantMIME:     "image/jpeg",
			wantDetected: true,
		},
		{
			name:         "PNG",
			data:         encodedImage(t, "png"),
			wantMIME:     "image/png",
			wantDetected: true,
		},
		{
			name:         "JPEG magic bytes but undecodable",
			data:         append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 60)...),
			wantMIME:     "",
			wantDetected: false,
		},
		{
			name:         "GIF not accepted",
			data:         []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00"),
			wantMIME:     "",
			wantDetected: false,
		},
		{
			name:         "WebP not accepted",
			data:         append([]byte("RIFF\x00\x00\x00\x00WEBPVP8 "), make([]byte, 10)...),
			wantMIME:     "",
			wantDetected: false,
		},
		{
			name:         "PDF disguised as image",
			data:         []byte("%PDF-1.4 malicious content"),
			wantMIME:     "",
			wantDetected: false,
		},
		{
			name:         "empty",
			data:         []byte{},
			wantMIME:     "",
			wantDetected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMIME, gotDetected := allowedImageMIME(tt.data)
			if gotDetected != tt.wantDetected {
				t.Errorf("allowedImageMIME() detected = %v, want %v", gotDetected, tt.wantDetected)
			}
			if gotMIME != tt.wantMIME {
				t.Errorf("allowedImageMIME() mimeType = %q, want %q", gotMIME, tt.wantMIME)
			}
		})
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "just now", timeAgo(now))
	assert.Equal(t, "5m ago", timeAgo(now.Add(-5*time.Minute-time.Second)))
	assert.Equal(t, "1h ago", timeAgo(now.Add(-61*time.Minute)))
	old := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Jan 7", timeAgo(old))
}
