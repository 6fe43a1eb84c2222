package fill

import (
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/pyhub-apps/pdffill-golang/pkg/pdf"
	"golang.org/x/text/encoding/charmap"
)

// Stream encodings
const (
	EncodingWindows1252 = "windows-1252"
	EncodingUTF8        = "utf-8"
)

// Extractor turns a page's raw content stream into text the lexer can
// read. It holds no per-page state.
type Extractor struct {
	encoding string
}

// NewExtractor creates an extractor for windows-1252 or utf-8 streams
func NewExtractor(encoding string) (*Extractor, error) {
	switch encoding {
	case EncodingWindows1252, "":
		return &Extractor{encoding: EncodingWindows1252}, nil
	case EncodingUTF8:
		return &Extractor{encoding: EncodingUTF8}, nil
	}
	return nil, errors.Errorf("unsupported stream encoding %q", encoding)
}

// Encoding returns the encoding in use
func (e *Extractor) Encoding() string {
	return e.encoding
}

// Extract reads and decodes the content of one page
func (e *Extractor) Extract(page pdf.Page) (string, error) {
	raw, err := page.GetRawContent()
	if err != nil {
		return "", errors.Wrap(err, "failed to read content stream")
	}
	return e.Decode(raw)
}

// Decode converts raw stream bytes to text. With utf-8 any invalid
// sequence is an error.
func (e *Extractor) Decode(raw []byte) (string, error) {
	if e.encoding == EncodingUTF8 {
		if !utf8.Valid(raw) {
			return "", errors.New("content stream is not valid utf-8")
		}
		return string(raw), nil
	}

	text, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode content stream")
	}
	return string(text), nil
}
