// Package pdffill fills ${identifier} placeholders drawn in PDF pages by
// covering each placeholder run and drawing the resolved text on top.
package pdffill

import (
	"os"

	"github.com/pkg/errors"
	"github.com/pyhub-apps/pdffill-golang/pkg/fill"
	"github.com/pyhub-apps/pdffill-golang/pkg/pdf"
	"github.com/pyhub-apps/pdffill-golang/pkg/placeholder"
)

// Re-export types for the public API
type (
	Table        = placeholder.Table
	Syntax       = placeholder.Syntax
	Config       = fill.Config
	Option       = fill.Option
	Report       = fill.Report
	PageReport   = fill.PageReport
	PageMatches  = fill.PageMatches
	Error        = fill.Error
	ErrorKind    = fill.Kind
	DecodePolicy = fill.DecodePolicy
	PageText     = pdf.PageText
)

// Error kinds
const (
	TemplateUnavailable = fill.TemplateUnavailable
	LoadFailure         = fill.LoadFailure
	DecodeFailure       = fill.DecodeFailure
	RenderFailure       = fill.RenderFailure
	SaveFailure         = fill.SaveFailure
)

// Decode policies
const (
	DecodeSkip   = fill.DecodeSkip
	DecodeWarn   = fill.DecodeWarn
	DecodeStrict = fill.DecodeStrict
)

// DefaultLineTolerance groups text layer fragments into lines
const DefaultLineTolerance = pdf.DefaultLineTolerance

// Re-export option functions
var (
	WithLogger          = fill.WithLogger
	WithVerbose         = fill.WithVerbose
	WithDecodePolicy    = fill.WithDecodePolicy
	WithDefaultFontSize = fill.WithDefaultFontSize
	WithFont            = fill.WithFont
	WithEstimator       = fill.WithEstimator
	WithMetrics         = fill.WithMetrics
	WithStreamEncoding  = fill.WithStreamEncoding
	WithSyntax          = fill.WithSyntax
	NewSyntax           = placeholder.NewSyntax
	IsKind              = fill.IsKind
	ReadTextLayer       = pdf.ReadTextLayer
)

// NewFiller creates a Filler backed by pdfcpu. The configuration starts
// from the PDFFILL_* environment variables and opts are applied on top.
func NewFiller(opts ...Option) (*fill.Filler, error) {
	config := fill.ConfigFromEnvironment()
	for _, opt := range opts {
		opt(config)
	}

	toolkit := &pdf.PDFCPU{Logger: config.Logger}
	f, err := fill.NewWithConfig(toolkit, config)
	if err != nil {
		return nil, err
	}
	// drawn text is compressed with the same metrics the cover was planned with
	toolkit.Measure = f.Estimator().WidthOf

	return f, nil
}

// Fill fills template with the values in table and returns the new
// document together with a per-page report
func Fill(template []byte, table Table, opts ...Option) ([]byte, *Report, error) {
	if len(template) == 0 {
		return nil, &Report{}, &Error{Kind: TemplateUnavailable, Err: errors.New("template is empty")}
	}

	f, err := NewFiller(opts...)
	if err != nil {
		return nil, &Report{}, err
	}
	return f.Fill(template, table)
}

// FillFile reads the template from path and fills it
func FillFile(path string, table Table, opts ...Option) ([]byte, *Report, error) {
	template, err := os.ReadFile(path)
	if err != nil {
		return nil, &Report{}, &Error{Kind: TemplateUnavailable, Err: errors.Wrapf(err, "failed to read %s", path)}
	}
	return Fill(template, table, opts...)
}

// Inspect lists the placeholder runs on every page without drawing.
// table may be nil.
func Inspect(template []byte, table Table, opts ...Option) ([]PageMatches, error) {
	if len(template) == 0 {
		return nil, &Error{Kind: TemplateUnavailable, Err: errors.New("template is empty")}
	}

	f, err := NewFiller(opts...)
	if err != nil {
		return nil, err
	}
	return f.Inspect(template, table)
}
