package content

// DefaultFontSize is used for shows in a text block that has no
// preceding Tf instruction.
const DefaultFontSize = 12.0

// TextState is the positional state tracked inside a text block.
//
// AbsoluteX/Y keep the origin set by the last Tm even while relative
// moves are being accumulated, since Td moves are relative to the last
// text line origin.
type TextState struct {
	AbsoluteX   float64
	AbsoluteY   float64
	LineOffsetX float64
	LineOffsetY float64
	FontSize    float64
	// FontName is the resource name selected by the last Tf
	FontName    string

	UsingAbsoluteFrame bool
	InsideTextBlock    bool
}

// NewTextState creates a fresh state with the given fallback font size
func NewTextState(fontSize float64) TextState {
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	return TextState{FontSize: fontSize}
}

// SetAbsolute switches to the absolute frame at (x, y) and clears the
// accumulated line offsets.
func (s *TextState) SetAbsolute(x, y float64) {
	s.AbsoluteX = x
	s.AbsoluteY = y
	s.LineOffsetX = 0
	s.LineOffsetY = 0
	s.UsingAbsoluteFrame = true
}

// MoveRelative accumulates a line move and switches to the relative frame
func (s *TextState) MoveRelative(dx, dy float64) {
	s.LineOffsetX += dx
	s.LineOffsetY += dy
	s.UsingAbsoluteFrame = false
}

// Position returns the effective text position in the active frame
func (s TextState) Position() (x, y float64) {
	if s.UsingAbsoluteFrame {
		return s.AbsoluteX, s.AbsoluteY
	}
	return s.AbsoluteX + s.LineOffsetX, s.AbsoluteY + s.LineOffsetY
}
