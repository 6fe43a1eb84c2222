// Package overlay plans the cover rectangle and replacement text drawn
// over a placeholder run.
package overlay

import (
	"math"

	"github.com/pyhub-apps/pdffill-golang/pkg/content"
)

// Planner defaults. Without real glyph metrics the cover must
// over-estimate, never under-estimate, the drawn width.
const (
	DefaultMinWidth      = 40.0
	DefaultWidthPadding  = 6.0
	DefaultHeightPadding = 4.0
	DefaultInset         = 2.0
)

// Rect is an axis-aligned rectangle in page space
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// ClampTo shrinks the rectangle so it stays inside a page of the given
// size. Non-positive page dimensions leave it unchanged.
func (r Rect) ClampTo(pageWidth, pageHeight float64) Rect {
	if pageWidth <= 0 || pageHeight <= 0 {
		return r
	}
	x0, y0 := math.Max(r.X, 0), math.Max(r.Y, 0)
	x1, y1 := math.Min(r.X+r.Width, pageWidth), math.Min(r.Y+r.Height, pageHeight)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Overlay is what gets drawn for one run: the cover first, then Text
// at (X, Y).
type Overlay struct {
	Cover    Rect
	Text     string
	X        float64
	Y        float64
	FontSize float64
}

// Option configures a Planner
type Option func(*Planner)

// WithEstimator sets the width estimator
func WithEstimator(e WidthEstimator) Option {
	return func(p *Planner) {
		p.estimator = e
	}
}

// WithMinWidth sets the minimum cover width before padding
func WithMinWidth(w float64) Option {
	return func(p *Planner) {
		p.minWidth = w
	}
}

// WithPadding sets the width and height padding added to the cover
func WithPadding(width, height float64) Option {
	return func(p *Planner) {
		p.widthPadding = width
		p.heightPadding = height
	}
}

// WithInset sets how far the cover origin sits left of and below the run
func WithInset(inset float64) Option {
	return func(p *Planner) {
		p.inset = inset
	}
}

// Planner computes overlays for matched runs
type Planner struct {
	estimator     WidthEstimator
	minWidth      float64
	widthPadding  float64
	heightPadding float64
	inset         float64
}

// NewPlanner creates a planner using the heuristic estimator by default
func NewPlanner(opts ...Option) *Planner {
	p := &Planner{
		estimator:     HeuristicEstimator{},
		minWidth:      DefaultMinWidth,
		widthPadding:  DefaultWidthPadding,
		heightPadding: DefaultHeightPadding,
		inset:         DefaultInset,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Estimator returns the width estimator in use
func (p *Planner) Estimator() WidthEstimator {
	return p.estimator
}

// Plan computes the overlay for a run and its resolved replacement
func (p *Planner) Plan(run content.Run, replacement string) Overlay {
	width := math.Max(
		math.Max(p.estimator.WidthOf(run.Text, run.FontSize), p.estimator.WidthOf(replacement, run.FontSize)),
		p.minWidth,
	)

	return Overlay{
		Cover: Rect{
			X:      run.X - p.inset,
			Y:      run.Y - p.inset,
			Width:  width + p.widthPadding,
			Height: run.FontSize + p.heightPadding,
		},
		Text:     replacement,
		X:        run.X,
		Y:        run.Y,
		FontSize: run.FontSize,
	}
}
