package fill

import (
	"github.com/pkg/errors"
	"github.com/pyhub-apps/pdffill-golang/pkg/overlay"
	"github.com/pyhub-apps/pdffill-golang/pkg/pdf"
)

// Renderer draws overlays onto a page
type Renderer struct {
	Font string
}

// Render issues exactly two draw calls: the white cover, then the
// replacement text in black. The cover is clamped to the page box.
func (r Renderer) Render(page pdf.Page, ov overlay.Overlay) error {
	cover := ov.Cover.ClampTo(page.GetWidth(), page.GetHeight())

	err := page.DrawRectangle(pdf.RectOptions{
		X:         cover.X,
		Y:         cover.Y,
		Width:     cover.Width,
		Height:    cover.Height,
		FillColor: pdf.White,
	})
	if err != nil {
		return errors.Wrap(err, "failed to draw cover")
	}

	err = page.DrawText(pdf.TextOptions{
		Text:     ov.Text,
		X:        ov.X,
		Y:        ov.Y,
		FontSize: ov.FontSize,
		Font:     r.Font,
		Color:    pdf.Black,
		MaxWidth: ov.Cover.Width,
	})
	if err != nil {
		return errors.Wrap(err, "failed to draw replacement text")
	}
	return nil
}
