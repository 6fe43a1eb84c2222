package fill

import (
	"errors"

	"github.com/pyhub-apps/pdffill-golang/pkg/pdf"
)

// call records one draw call in the order it was issued
type call struct {
	page int
	rect *pdf.RectOptions
	text *pdf.TextOptions
}

type fakeToolkit struct {
	doc     *fakeDocument
	loadErr error
}

func (t *fakeToolkit) Load(data []byte) (pdf.Document, error) {
	if t.loadErr != nil {
		return nil, t.loadErr
	}
	return t.doc, nil
}

type fakeDocument struct {
	pages   []*fakePage
	calls   []call
	saveErr error
	saved   bool
	closed  bool
}

func newFakeDocument(streams ...string) *fakeDocument {
	doc := &fakeDocument{}
	for i, s := range streams {
		doc.pages = append(doc.pages, &fakePage{doc: doc, number: i + 1, raw: []byte(s)})
	}
	return doc
}

func (d *fakeDocument) GetPages() []pdf.Page {
	pages := make([]pdf.Page, len(d.pages))
	for i, p := range d.pages {
		pages[i] = p
	}
	return pages
}

func (d *fakeDocument) PageCount() int { return len(d.pages) }

func (d *fakeDocument) Save() ([]byte, error) {
	if d.saveErr != nil {
		return nil, d.saveErr
	}
	d.saved = true
	return []byte("%PDF-filled"), nil
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

type fakePage struct {
	doc     *fakeDocument
	number  int
	raw     []byte
	rawErr  error
	drawErr error
	cmaps   pdf.FontCMaps
	cmapErr error
}

func (p *fakePage) GetPageNumber() int { return p.number }
func (p *fakePage) GetWidth() float64 { return 612 }
func (p *fakePage) GetHeight() float64 { return 792 }

func (p *fakePage) GetRawContent() ([]byte, error) {
	if p.rawErr != nil {
		return nil, p.rawErr
	}
	return p.raw, nil
}

func (p *fakePage) FontCMaps() (pdf.FontCMaps, error) {
	return p.cmaps, p.cmapErr
}

func (p *fakePage) DrawRectangle(opts pdf.RectOptions) error {
	if p.drawErr != nil {
		return p.drawErr
	}
	p.doc.calls = append(p.doc.calls, call{page: p.number, rect: &opts})
	return nil
}

func (p *fakePage) DrawText(opts pdf.TextOptions) error {
	if p.drawErr != nil {
		return p.drawErr
	}
	p.doc.calls = append(p.doc.calls, call{page: p.number, text: &opts})
	return nil
}

var errBoom = errors.New("boom")
