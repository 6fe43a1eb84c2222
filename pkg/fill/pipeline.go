// Package fill runs the placeholder filling pipeline over every page of
// a document: extract, lex, interpret, match, plan and render.
package fill

import (
	"log"

	"github.com/pkg/errors"
	"github.com/pyhub-apps/pdffill-golang/pkg/content"
	"github.com/pyhub-apps/pdffill-golang/pkg/overlay"
	"github.com/pyhub-apps/pdffill-golang/pkg/parser"
	"github.com/pyhub-apps/pdffill-golang/pkg/pdf"
	"github.com/pyhub-apps/pdffill-golang/pkg/placeholder"
)

// State is the stage a page has reached
type State int

const (
	Idle State = iota
	Extracting
	Tokenizing
	Matching
	Planning
	Rendering
	Done
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Extracting:
		return "extracting"
	case Tokenizing:
		return "tokenizing"
	case Matching:
		return "matching"
	case Planning:
		return "planning"
	case Rendering:
		return "rendering"
	case Done:
		return "done"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// PageReport is the outcome of one page
type PageReport struct {
	Number int
	State  State
	// Overlays holds what was drawn, in draw order
	Overlays []overlay.Overlay
	// Err is set when State is Aborted
	Err error
}

// Report collects the outcome of every processed page in document order
type Report struct {
	Pages []PageReport
}

// OverlayCount returns the number of overlays drawn on all pages
func (r *Report) OverlayCount() int {
	n := 0
	for _, p := range r.Pages {
		n += len(p.Overlays)
	}
	return n
}

// Skipped returns the pages that aborted without failing the fill
func (r *Report) Skipped() []PageReport {
	var skipped []PageReport
	for _, p := range r.Pages {
		if p.State == Aborted {
			skipped = append(skipped, p)
		}
	}
	return skipped
}

// Filler fills placeholders in documents loaded through a toolkit. A
// Filler holds no per-document state and may be reused.
type Filler struct {
	toolkit   pdf.Toolkit
	config    *Config
	extractor *Extractor
	planner   *overlay.Planner
	renderer  Renderer
	log       *log.Logger
}

// New creates a Filler from the default configuration and opts
func New(toolkit pdf.Toolkit, opts ...Option) (*Filler, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	return NewWithConfig(toolkit, config)
}

// NewWithConfig creates a Filler from config
func NewWithConfig(toolkit pdf.Toolkit, config *Config) (*Filler, error) {
	if toolkit == nil {
		return nil, errors.New("toolkit is nil")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.Syntax == nil {
		config.Syntax = placeholder.Default
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	extractor, err := NewExtractor(config.StreamEncoding)
	if err != nil {
		return nil, err
	}
	estimator, err := config.estimator()
	if err != nil {
		return nil, err
	}

	return &Filler{
		toolkit:   toolkit,
		config:    config,
		extractor: extractor,
		planner:   overlay.NewPlanner(overlay.WithEstimator(estimator)),
		renderer:  Renderer{Font: config.Font},
		log:       config.logger(),
	}, nil
}

// Config returns the configuration in use
func (f *Filler) Config() *Config {
	return f.config
}

// Estimator returns the width estimator the planner uses
func (f *Filler) Estimator() overlay.WidthEstimator {
	return f.planner.Estimator()
}

// Fill loads template, fills every page from table and returns the
// saved document. On a fatal error no output is returned; the report
// still describes the pages processed so far.
func (f *Filler) Fill(template []byte, table placeholder.Table) ([]byte, *Report, error) {
	doc, err := f.toolkit.Load(template)
	if err != nil {
		return nil, &Report{}, newError(LoadFailure, 0, err)
	}
	defer doc.Close()

	report, err := f.FillDocument(doc, table)
	if err != nil {
		return nil, report, err
	}

	out, err := doc.Save()
	if err != nil {
		return nil, report, newError(SaveFailure, 0, err)
	}

	f.log.Printf("filled %d pages, %d overlays, %d pages skipped",
		len(report.Pages), report.OverlayCount(), len(report.Skipped()))
	return out, report, nil
}

// FillDocument draws overlays on every page of an already loaded
// document without saving it. Pages are processed in order and the
// first fatal error stops the walk.
func (f *Filler) FillDocument(doc pdf.Document, table placeholder.Table) (*Report, error) {
	report := &Report{}
	for _, page := range doc.GetPages() {
		pr, err := f.FillPage(page, table)
		report.Pages = append(report.Pages, pr)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// FillPage runs the pipeline on one page. The returned error is
// non-nil only for failures that must stop the whole fill.
func (f *Filler) FillPage(page pdf.Page, table placeholder.Table) (PageReport, error) {
	pr := PageReport{Number: page.GetPageNumber(), State: Idle}

	pr.State = Extracting
	stream, err := f.extractor.Extract(page)
	if err != nil {
		pr.State = Aborted
		pr.Err = newError(DecodeFailure, pr.Number, err)
		switch f.config.DecodePolicy {
		case DecodeStrict:
			return pr, pr.Err
		case DecodeWarn:
			f.log.Printf("Warning: skipping page %d: %v", pr.Number, err)
		}
		return pr, nil
	}

	pr.State = Tokenizing
	runs := f.runs(page, stream)

	pr.State = Matching
	matches := f.config.Syntax.MatchAll(runs, table)

	pr.State = Planning
	overlays := make([]overlay.Overlay, 0, len(matches))
	for _, m := range matches {
		overlays = append(overlays, f.planner.Plan(m.Run, m.Replacement))
	}

	pr.State = Rendering
	for _, ov := range overlays {
		if err := f.renderer.Render(page, ov); err != nil {
			pr.State = Aborted
			pr.Err = newError(RenderFailure, pr.Number, err)
			return pr, pr.Err
		}
		pr.Overlays = append(pr.Overlays, ov)
	}

	pr.State = Done
	if f.config.Verbose {
		f.log.Printf("page %d: %d placeholder runs, %d overlays", pr.Number, len(matches), len(pr.Overlays))
	}
	return pr, nil
}

// runs lexes and interprets a decoded stream, keeping only runs that
// hold a placeholder. Strings shown with a font that has a ToUnicode
// map are decoded through it.
func (f *Filler) runs(page pdf.Page, stream string) []content.Run {
	opts := []content.Option{
		content.WithDefaultFontSize(f.config.DefaultFontSize),
		content.WithRunFilter(f.config.Syntax.Contains),
	}

	if mapper, ok := page.(pdf.FontMapper); ok {
		cmaps, err := mapper.FontCMaps()
		if err != nil {
			f.log.Printf("Warning: page %d: ignoring font maps: %v", page.GetPageNumber(), err)
		} else if len(cmaps) > 0 {
			opts = append(opts, content.WithCodeDecoder(cmaps.Decode))
		}
	}

	return content.Interpret(parser.Lex(stream), opts...)
}

// PageMatches lists the placeholder runs found on one page
type PageMatches struct {
	Number  int
	Matches []placeholder.Match
	Err     error
}

// Inspect finds placeholder runs on every page without drawing. table
// may be nil, in which case every replacement resolves to empty values.
// Decode failures are recorded per page and never stop the walk.
func (f *Filler) Inspect(template []byte, table placeholder.Table) ([]PageMatches, error) {
	doc, err := f.toolkit.Load(template)
	if err != nil {
		return nil, newError(LoadFailure, 0, err)
	}
	defer doc.Close()

	var pages []PageMatches
	for _, page := range doc.GetPages() {
		pm := PageMatches{Number: page.GetPageNumber()}
		stream, err := f.extractor.Extract(page)
		if err != nil {
			pm.Err = newError(DecodeFailure, pm.Number, err)
		} else {
			pm.Matches = f.config.Syntax.MatchAll(f.runs(page, stream), table)
		}
		pages = append(pages, pm)
	}
	return pages, nil
}
