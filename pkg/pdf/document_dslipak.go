package pdf

import (
	"bytes"

	gopdf "github.com/dslipak/pdf"
	"github.com/pkg/errors"
)

// ReadTextLayerWithDslipak reads the drawn text of every page using the
// dslipak/pdf library
func ReadTextLayerWithDslipak(data []byte) (pages []PageText, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, errors.Errorf("dslipak: %v", r)
		}
	}()

	r, err := gopdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF with dslipak")
	}

	pageCount := r.NumPage()
	pages = make([]PageText, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		page := r.Page(i)
		pt := PageText{PageNumber: i}
		if !page.V.IsNull() {
			for _, text := range page.Content().Text {
				pt.Fragments = append(pt.Fragments, TextFragment{
					Text:     text.S,
					X:        text.X,
					Y:        text.Y,
					FontSize: text.FontSize,
				})
			}
		}
		pages = append(pages, pt)
	}

	return pages, nil
}

// ReadTextLayer reads the drawn text of every page. It tries
// ledongthuc/pdf first and falls back to dslipak/pdf.
func ReadTextLayer(data []byte) ([]PageText, error) {
	pages, err := ReadTextLayerWithLedongthuc(data)
	if err == nil {
		return pages, nil
	}

	pages, fallbackErr := ReadTextLayerWithDslipak(data)
	if fallbackErr == nil {
		return pages, nil
	}

	return nil, errors.Wrapf(fallbackErr, "text layer unreadable (ledongthuc: %v)", err)
}
