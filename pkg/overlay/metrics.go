package overlay

import (
	"fmt"
	"math"
	"sync"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// DefaultCharWidthFactor is the assumed advance of one display cell
// as a fraction of the font size.
const DefaultCharWidthFactor = 0.6

// WidthEstimator estimates the rendered width of text at a font size
type WidthEstimator interface {
	WidthOf(text string, fontSize float64) float64
}

// HeuristicEstimator multiplies the display cell count by a fraction
// of the font size. East Asian wide characters count as two cells.
type HeuristicEstimator struct {
	CharWidthFactor float64
}

// WidthOf implements WidthEstimator
func (h HeuristicEstimator) WidthOf(text string, fontSize float64) float64 {
	factor := h.CharWidthFactor
	if factor <= 0 {
		factor = DefaultCharWidthFactor
	}
	return float64(runewidth.StringWidth(text)) * factor * fontSize
}

// MetricsEstimator measures text with the advance widths of a real
// TrueType/OpenType face. Unless Exact is set the result is never
// below the heuristic estimate.
type MetricsEstimator struct {
	Exact bool

	mu       sync.Mutex
	font     *sfnt.Font
	buf      sfnt.Buffer
	fallback HeuristicEstimator
}

// NewMetricsEstimator parses a TrueType or OpenType font
func NewMetricsEstimator(data []byte) (*MetricsEstimator, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &MetricsEstimator{font: f}, nil
}

// NewDefaultMetricsEstimator uses the Go Regular face
func NewDefaultMetricsEstimator() (*MetricsEstimator, error) {
	return NewMetricsEstimator(goregular.TTF)
}

// WidthOf implements WidthEstimator
func (m *MetricsEstimator) WidthOf(text string, fontSize float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	unitsPerEm := m.font.UnitsPerEm()
	// at ppem == unitsPerEm advances come back in font units
	ppem := fixed.Int26_6(unitsPerEm) << 6

	var total fixed.Int26_6
	for _, r := range text {
		idx, err := m.font.GlyphIndex(&m.buf, r)
		if err != nil {
			continue
		}
		adv, err := m.font.GlyphAdvance(&m.buf, idx, ppem, font.HintingNone)
		if err != nil {
			continue
		}
		total += adv
	}

	width := float64(total) / 64 / float64(unitsPerEm) * fontSize
	if m.Exact {
		return width
	}
	return math.Max(width, m.fallback.WidthOf(text, fontSize))
}
