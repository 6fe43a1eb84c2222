package fill

import (
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/pyhub-apps/pdffill-golang/pkg/content"
	"github.com/pyhub-apps/pdffill-golang/pkg/overlay"
	"github.com/pyhub-apps/pdffill-golang/pkg/pdf"
	"github.com/pyhub-apps/pdffill-golang/pkg/placeholder"
)

// DecodePolicy decides what a page decode failure does to the fill
type DecodePolicy int

const (
	// DecodeSkip records the failure in the report and leaves the page untouched
	DecodeSkip DecodePolicy = iota
	// DecodeWarn is DecodeSkip plus a log line
	DecodeWarn
	// DecodeStrict aborts the fill
	DecodeStrict
)

func (p DecodePolicy) String() string {
	switch p {
	case DecodeWarn:
		return "warn"
	case DecodeStrict:
		return "strict"
	default:
		return "skip"
	}
}

// ParseDecodePolicy parses skip, warn or strict
func ParseDecodePolicy(s string) (DecodePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "skip", "":
		return DecodeSkip, nil
	case "warn":
		return DecodeWarn, nil
	case "strict":
		return DecodeStrict, nil
	}
	return DecodeSkip, errors.Errorf("unknown decode policy %q", s)
}

// Width metrics choices
const (
	MetricsHeuristic = "heuristic"
	MetricsSFNT      = "sfnt"
)

// Config contains all options of a Filler
type Config struct {
	// Logger receives warnings and, when Verbose is set, per-page lines.
	// Nil discards everything.
	Logger  *log.Logger
	Verbose bool

	// DefaultFontSize applies to shows in a block without Tf
	DefaultFontSize float64
	// Font is the standard 14 font replacement text is drawn in
	Font         string
	DecodePolicy DecodePolicy
	// Metrics selects the width estimator when Estimator is nil
	Metrics   string
	Estimator overlay.WidthEstimator
	// StreamEncoding is how raw content bytes are decoded to text
	StreamEncoding string
	Syntax         *placeholder.Syntax
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultFontSize: content.DefaultFontSize,
		Font:            pdf.DefaultFont,
		DecodePolicy:    DecodeSkip,
		Metrics:         MetricsHeuristic,
		StreamEncoding:  EncodingWindows1252,
		Syntax:          placeholder.Default,
	}
}

// ConfigFromEnvironment creates a configuration from environment
// variables. Unparseable values keep their defaults.
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// PDFFILL_DEFAULT_FONT_SIZE
	if val := os.Getenv("PDFFILL_DEFAULT_FONT_SIZE"); val != "" {
		if size, err := strconv.ParseFloat(val, 64); err == nil && size > 0 {
			config.DefaultFontSize = size
		}
	}

	// PDFFILL_FONT
	if val := os.Getenv("PDFFILL_FONT"); val != "" {
		config.Font = val
	}

	// PDFFILL_DECODE_POLICY
	if val := os.Getenv("PDFFILL_DECODE_POLICY"); val != "" {
		if policy, err := ParseDecodePolicy(val); err == nil {
			config.DecodePolicy = policy
		}
	}

	// PDFFILL_METRICS
	if val := os.Getenv("PDFFILL_METRICS"); val != "" {
		config.Metrics = strings.ToLower(val)
	}

	// PDFFILL_STREAM_ENCODING
	if val := os.Getenv("PDFFILL_STREAM_ENCODING"); val != "" {
		config.StreamEncoding = strings.ToLower(val)
	}

	return config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !(c.DefaultFontSize > 0) {
		return errors.Errorf("default font size must be positive, got %v", c.DefaultFontSize)
	}
	if c.Font != "" && !pdf.IsStandardFont(c.Font) {
		return errors.Errorf("font %q is not a standard 14 font", c.Font)
	}
	if c.DecodePolicy < DecodeSkip || c.DecodePolicy > DecodeStrict {
		return errors.Errorf("invalid decode policy %d", c.DecodePolicy)
	}
	if c.Estimator == nil && c.Metrics != MetricsHeuristic && c.Metrics != MetricsSFNT {
		return errors.Errorf("invalid metrics %q", c.Metrics)
	}
	if _, err := NewExtractor(c.StreamEncoding); err != nil {
		return err
	}
	return nil
}

// estimator returns the configured width estimator
func (c *Config) estimator() (overlay.WidthEstimator, error) {
	if c.Estimator != nil {
		return c.Estimator, nil
	}
	if c.Metrics == MetricsSFNT {
		m, err := overlay.NewDefaultMetricsEstimator()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load font metrics")
		}
		return m, nil
	}
	return overlay.HeuristicEstimator{}, nil
}

func (c *Config) logger() *log.Logger {
	if c.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return c.Logger
}

// Option modifies a Config
type Option func(*Config)

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithVerbose enables per-page log lines
func WithVerbose(v bool) Option {
	return func(c *Config) {
		c.Verbose = v
	}
}

// WithDecodePolicy sets how decode failures are surfaced
func WithDecodePolicy(p DecodePolicy) Option {
	return func(c *Config) {
		c.DecodePolicy = p
	}
}

// WithDefaultFontSize sets the font size used when a block has no Tf
func WithDefaultFontSize(size float64) Option {
	return func(c *Config) {
		c.DefaultFontSize = size
	}
}

// WithFont sets the font replacement text is drawn in
func WithFont(font string) Option {
	return func(c *Config) {
		c.Font = font
	}
}

// WithEstimator sets the width estimator used by the planner
func WithEstimator(e overlay.WidthEstimator) Option {
	return func(c *Config) {
		c.Estimator = e
	}
}

// WithMetrics selects heuristic or sfnt width estimation
func WithMetrics(m string) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// WithStreamEncoding sets how content stream bytes are decoded
func WithStreamEncoding(enc string) Option {
	return func(c *Config) {
		c.StreamEncoding = enc
	}
}

// WithSyntax sets the placeholder delimiters
func WithSyntax(s *placeholder.Syntax) Option {
	return func(c *Config) {
		c.Syntax = s
	}
}
