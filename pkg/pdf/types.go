package pdf

import (
	"fmt"
	"math"
)

// DefaultFont is the standard 14 font used for drawn text
const DefaultFont = "Helvetica"

// standardFonts are the base fonts every reader provides without embedding
var standardFonts = map[string]bool{
	"Courier":               true,
	"Courier-Bold":          true,
	"Courier-BoldOblique":   true,
	"Courier-Oblique":       true,
	"Helvetica":             true,
	"Helvetica-Bold":        true,
	"Helvetica-BoldOblique": true,
	"Helvetica-Oblique":     true,
	"Times-Roman":           true,
	"Times-Bold":            true,
	"Times-BoldItalic":      true,
	"Times-Italic":          true,
	"Symbol":                true,
	"ZapfDingbats":          true,
}

// IsStandardFont reports whether name is one of the standard 14 fonts
func IsStandardFont(name string) bool {
	return standardFonts[name]
}

// Color represents an RGB color with components in [0, 1]
type Color struct {
	R, G, B float64
}

// Predefined colors
var (
	White = Color{R: 1, G: 1, B: 1}
	Black = Color{R: 0, G: 0, B: 0}
)

func (c Color) validate() error {
	for _, v := range []float64{c.R, c.G, c.B} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("color component %v out of range [0, 1]", v)
		}
	}
	return nil
}

// BoundingBox represents a rectangular area
type BoundingBox struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the width of the bounding box
func (b BoundingBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the height of the bounding box
func (b BoundingBox) Height() float64 {
	return b.Y1 - b.Y0
}

// RectOptions describes a filled rectangle
type RectOptions struct {
	X, Y          float64
	Width, Height float64
	FillColor     Color
}

func (o RectOptions) validate() error {
	if !finite(o.X, o.Y, o.Width, o.Height) {
		return fmt.Errorf("rectangle has non-finite geometry")
	}
	if o.Width < 0 || o.Height < 0 {
		return fmt.Errorf("rectangle has negative size %vx%v", o.Width, o.Height)
	}
	return o.FillColor.validate()
}

// TextOptions describes a single line of text
type TextOptions struct {
	Text     string
	X, Y     float64
	FontSize float64
	// Font is a standard 14 base font name; empty means DefaultFont
	Font  string
	Color Color
	// MaxWidth compresses the text horizontally when it would be wider;
	// zero disables the limit
	MaxWidth float64
}

func (o TextOptions) validate() error {
	if !finite(o.X, o.Y, o.FontSize, o.MaxWidth) {
		return fmt.Errorf("text has non-finite geometry")
	}
	if o.FontSize <= 0 {
		return fmt.Errorf("font size must be positive, got %v", o.FontSize)
	}
	if o.MaxWidth < 0 {
		return fmt.Errorf("max width must not be negative, got %v", o.MaxWidth)
	}
	if o.Font != "" && !IsStandardFont(o.Font) {
		return fmt.Errorf("font %q is not a standard 14 font", o.Font)
	}
	return o.Color.validate()
}

// PageText is the text layer of one page as read back from a document
type PageText struct {
	PageNumber int
	Fragments  []TextFragment
}

// TextFragment is a piece of text with its position and size
type TextFragment struct {
	Text     string
	X, Y     float64
	FontSize float64
}

// String returns the fragments joined in reading order of the stream
func (p PageText) String() string {
	var s string
	for _, f := range p.Fragments {
		s += f.Text
	}
	return s
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
