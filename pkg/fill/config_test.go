package fill

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.DefaultFontSize != 12 || c.Font != "Helvetica" || c.DecodePolicy != DecodeSkip {
		t.Errorf("unexpected defaults %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("PDFFILL_DEFAULT_FONT_SIZE", "9.5")
	t.Setenv("PDFFILL_FONT", "Courier")
	t.Setenv("PDFFILL_DECODE_POLICY", "Strict")
	t.Setenv("PDFFILL_METRICS", "SFNT")
	t.Setenv("PDFFILL_STREAM_ENCODING", "UTF-8")

	c := ConfigFromEnvironment()
	if c.DefaultFontSize != 9.5 {
		t.Errorf("DefaultFontSize = %v", c.DefaultFontSize)
	}
	if c.Font != "Courier" {
		t.Errorf("Font = %q", c.Font)
	}
	if c.DecodePolicy != DecodeStrict {
		t.Errorf("DecodePolicy = %v", c.DecodePolicy)
	}
	if c.Metrics != MetricsSFNT {
		t.Errorf("Metrics = %q", c.Metrics)
	}
	if c.StreamEncoding != EncodingUTF8 {
		t.Errorf("StreamEncoding = %q", c.StreamEncoding)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfigFromEnvironmentIgnoresBadValues(t *testing.T) {
	t.Setenv("PDFFILL_DEFAULT_FONT_SIZE", "big")
	t.Setenv("PDFFILL_DECODE_POLICY", "sometimes")

	c := ConfigFromEnvironment()
	if c.DefaultFontSize != 12 {
		t.Errorf("DefaultFontSize = %v, want default", c.DefaultFontSize)
	}
	if c.DecodePolicy != DecodeSkip {
		t.Errorf("DecodePolicy = %v, want default", c.DecodePolicy)
	}
}

func TestParseDecodePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    DecodePolicy
		wantErr bool
	}{
		{"", DecodeSkip, false},
		{"skip", DecodeSkip, false},
		{" WARN ", DecodeWarn, false},
		{"strict", DecodeStrict, false},
		{"loud", DecodeSkip, true},
	}
	for _, tt := range tests {
		got, err := ParseDecodePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDecodePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDecodePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, p := range []DecodePolicy{DecodeSkip, DecodeWarn, DecodeStrict} {
		if got, _ := ParseDecodePolicy(p.String()); got != p {
			t.Errorf("round trip of %v gave %v", p, got)
		}
	}
}

func TestExtractorDecode(t *testing.T) {
	win, err := NewExtractor(EncodingWindows1252)
	if err != nil {
		t.Fatalf("NewExtractor() error = %v", err)
	}
	got, err := win.Decode([]byte("(caf\xe9 \x80) Tj"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != "(café €) Tj" {
		t.Errorf("Decode() = %q", got)
	}

	utf, err := NewExtractor(EncodingUTF8)
	if err != nil {
		t.Fatalf("NewExtractor() error = %v", err)
	}
	if _, err := utf.Decode([]byte("\xff")); err == nil {
		t.Error("expected error for invalid utf-8")
	}
	if got, _ := utf.Decode([]byte("(café) Tj")); got != "(café) Tj" {
		t.Errorf("Decode() = %q", got)
	}

	if _, err := NewExtractor("latin-9"); err == nil {
		t.Error("expected error for unsupported encoding")
	}
}

func TestErrorFormatting(t *testing.T) {
	err := newError(RenderFailure, 3, errBoom)
	if err.Error() != "render failure on page 3: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	if KindOf(err) != RenderFailure {
		t.Errorf("KindOf() = %v", KindOf(err))
	}
	if newError(SaveFailure, 0, errBoom).Error() != "save failure: boom" {
		t.Error("unexpected message without page")
	}
	if IsKind(errBoom, RenderFailure) || KindOf(errBoom) != 0 {
		t.Error("plain errors have no kind")
	}
}
