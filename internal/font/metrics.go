// Package font resolves pixel line metrics from the bundled editor
// typeface. Configuration may pin an explicit line height; when it
// doesn't, the baseline style derives one from real font metrics here.
package font

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ErrInvalidSize indicates a non-positive font size was requested.
var ErrInvalidSize = errors.New("font size must be positive")

// Metrics measures the bundled monospace typeface. Faces are built per
// size and cached; the cache is safe for concurrent use.
type Metrics struct {
	mu    sync.Mutex
	sfnt  *sfnt.Font
	faces map[float64]font.Face
}

// NewMetrics parses the bundled typeface.
func NewMetrics() (*Metrics, error) {
	parsed, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bundled face: %w", err)
	}
	return &Metrics{
		sfnt:  parsed,
		faces: make(map[float64]font.Face),
	}, nil
}

// LineHeight returns the natural line height in pixels for the given font
// size in pixels. The taller of ascent+descent and the face's reported
// height wins, so adjacent lines never overlap.
func (m *Metrics) LineHeight(sizePx float64) (float64, error) {
	face, err := m.face(sizePx)
	if err != nil {
		return 0, err
	}

	fm := face.Metrics()
	height := fm.Height
	if sum := fm.Ascent + fm.Descent; sum > height {
		height = sum
	}
	return fixedToFloat(height), nil
}

// Ascent returns the distance in pixels from the baseline to the top of
// the tallest glyph at the given font size.
func (m *Metrics) Ascent(sizePx float64) (float64, error) {
	face, err := m.face(sizePx)
	if err != nil {
		return 0, err
	}
	return fixedToFloat(face.Metrics().Ascent), nil
}

// face returns a cached face for the given pixel size. At 72 DPI the
// point size handed to the rasterizer equals the pixel size.
func (m *Metrics) face(sizePx float64) (font.Face, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidSize, sizePx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if f, ok := m.faces[sizePx]; ok {
		return f, nil
	}

	f, err := opentype.NewFace(m.sfnt, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build face at %gpx: %w", sizePx, err)
	}
	m.faces[sizePx] = f
	return f, nil
}

// fixedToFloat converts a 26.6 fixed-point length to pixels.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
