package pdf

import (
	"bytes"
	"log"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/pkg/errors"
)

// TextMeasure returns the width of text drawn at fontSize
type TextMeasure func(text string, fontSize float64) float64

// PDFCPU implements Toolkit using pdfcpu
type PDFCPU struct {
	// Password opens encrypted templates
	Password string
	// Measure is used to honor TextOptions.MaxWidth; nil disables it
	Measure TextMeasure
	// Logger receives validation warnings; nil discards them
	Logger *log.Logger
}

// Load parses a PDF with relaxed validation
func (t PDFCPU) Load(data []byte) (Document, error) {
	doc, err := Load(data, t)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// PDFDocument implements the Document interface using pdfcpu
type PDFDocument struct {
	ctx      *model.Context
	pages    []Page
	measure  TextMeasure
	fontRefs map[string]types.IndirectRef
	saved    bool
}

// Load parses a PDF from memory
func Load(data []byte, opts PDFCPU) (*PDFDocument, error) {
	if len(data) == 0 {
		return nil, errors.New("empty document")
	}

	// Create pdfcpu configuration
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if opts.Password != "" {
		conf.UserPW = opts.Password
		conf.OwnerPW = opts.Password
	}

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read PDF context")
	}

	// A document that reads but fails validation is still processed
	if err := api.ValidateContext(ctx); err != nil {
		if opts.Logger != nil {
			opts.Logger.Printf("Warning: PDF failed validation: %v", err)
		}
		if err := ctx.EnsurePageCount(); err != nil {
			return nil, errors.Wrap(err, "failed to count pages")
		}
	}

	doc := &PDFDocument{
		ctx:      ctx,
		measure:  opts.Measure,
		fontRefs: map[string]types.IndirectRef{},
	}

	if err := doc.initializePages(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize pages")
	}

	return doc, nil
}

// initializePages initializes all pages in the document
func (d *PDFDocument) initializePages() error {
	pageCount := d.ctx.PageCount
	d.pages = make([]Page, pageCount)

	for i := 1; i <= pageCount; i++ {
		page, err := newPDFCPUPage(d.ctx, i, d.measure, d.fontRefs)
		if err != nil {
			return errors.Wrapf(err, "failed to create page %d", i)
		}
		d.pages[i-1] = page
	}

	return nil
}

// GetPages returns all pages in the document
func (d *PDFDocument) GetPages() []Page {
	return d.pages
}

// PageCount returns the total number of pages
func (d *PDFDocument) PageCount() int {
	return len(d.pages)
}

// Save attaches everything drawn on each page and writes the document
func (d *PDFDocument) Save() ([]byte, error) {
	if d.ctx == nil {
		return nil, errors.New("document is closed")
	}
	if d.saved {
		return nil, errors.New("document already saved")
	}

	for _, p := range d.pages {
		page, ok := p.(*PDFCPUPage)
		if !ok {
			continue
		}
		if err := page.flush(); err != nil {
			return nil, errors.Wrapf(err, "failed to attach overlay to page %d", page.pageNumber)
		}
	}

	var buf bytes.Buffer
	if err := api.WriteContext(d.ctx, &buf); err != nil {
		return nil, errors.Wrap(err, "failed to write PDF")
	}
	d.saved = true

	return buf.Bytes(), nil
}

// Close releases resources associated with the document
func (d *PDFDocument) Close() error {
	d.ctx = nil
	d.pages = nil
	return nil
}
