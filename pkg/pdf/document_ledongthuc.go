package pdf

import (
	"bytes"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

// ReadTextLayerWithLedongthuc reads the drawn text of every page using
// the ledongthuc/pdf library
func ReadTextLayerWithLedongthuc(data []byte) (pages []PageText, err error) {
	// the library reports malformed input by panicking
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, errors.Errorf("ledongthuc: %v", r)
		}
	}()

	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF with ledongthuc")
	}

	pageCount := r.NumPage()
	pages = make([]PageText, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		page := r.Page(i)
		pt := PageText{PageNumber: i}
		if page.V.IsNull() {
			pages = append(pages, pt)
			continue
		}
		for _, text := range page.Content().Text {
			pt.Fragments = append(pt.Fragments, TextFragment{
				Text:     text.S,
				X:        text.X,
				Y:        text.Y,
				FontSize: text.FontSize,
			})
		}
		pages = append(pages, pt)
	}

	return pages, nil
}
