// Package card renders a suggested post as a PNG share card.
package card

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/fogleman/gg"
)

const (
	width       = 1000
	padding     = 48
	headerSize  = 30
	bodySize    = 24
	lineSpacing = 1.5
	maxRunes    = 2000
)

var (
	bgColor     = color.RGBA{R: 21, G: 32, B: 43, A: 255}
	cardColor   = color.RGBA{R: 30, G: 39, B: 50, A: 255}
	handleColor = color.RGBA{R: 29, G: 155, B: 240, A: 255}
	textColor   = color.RGBA{R: 231, G: 233, B: 234, A: 255}
	mutedColor  = color.RGBA{R: 139, G: 152, B: 165, A: 255}
)

var fontCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
}

// findFont returns the first installed font from fontCandidates, or "" to
// use gg's built-in bitmap face.
func findFont() string {
	for _, path := range fontCandidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Render draws the post under an author header and returns PNG bytes.
func Render(author, post string) ([]byte, error) {
	post = strings.TrimSpace(post)
	if post == "" {
		return nil, fmt.Errorf("no post to render")
	}
	if r := []rune(post); len(r) > maxRunes {
		post = string(r[:maxRunes])
	}

	fontPath := findFont()
	loadFace := func(dc *gg.Context, size float64) error {
		if fontPath == "" {
			return nil
		}
		return dc.LoadFontFace(fontPath, size)
	}

	// Measure wrapped lines before sizing the canvas.
	measure := gg.NewContext(1, 1)
	if err := loadFace(measure, bodySize); err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	textWidth := float64(width - 4*padding)
	var lines []string
	for _, para := range strings.Split(post, "\n") {
		if strings.TrimSpace(para) == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, measure.WordWrap(para, textWidth)...)
	}
	lineHeight := measure.FontHeight() * lineSpacing

	height := int(float64(4*padding) + headerSize*2 + lineHeight*float64(len(lines)))

	dc := gg.NewContext(width, height)
	dc.SetColor(bgColor)
	dc.Clear()

	dc.SetColor(cardColor)
	dc.DrawRoundedRectangle(padding, padding, float64(width-2*padding), float64(height-2*padding), 16)
	dc.Fill()

	y := float64(2 * padding)
	if err := loadFace(dc, headerSize); err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	dc.SetColor(handleColor)
	dc.DrawStringAnchored(author, 2*padding, y, 0, 1)
	y += headerSize * 2

	if err := loadFace(dc, bodySize); err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	for _, line := range lines {
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "🔁") {
			dc.SetColor(mutedColor)
		} else {
			dc.SetColor(textColor)
		}
		dc.DrawStringAnchored(line, 2*padding, y, 0, 1)
		y += lineHeight
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode card: %w", err)
	}
	return buf.Bytes(), nil
}
