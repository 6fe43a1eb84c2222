package pdf

// Toolkit loads documents from bytes
type Toolkit interface {
	// Load parses a document, tolerating minor structural irregularities
	Load(data []byte) (Document, error)
}

// Document represents a loaded PDF that can be drawn on and saved
type Document interface {
	// GetPages returns all pages in document order
	GetPages() []Page

	// PageCount returns the total number of pages
	PageCount() int

	// Save serializes the document including everything drawn so far
	Save() ([]byte, error)

	// Close releases resources associated with the document
	Close() error
}

// Page represents a single page that can be read and drawn on
type Page interface {
	// GetPageNumber returns the page number (1-based)
	GetPageNumber() int

	// GetWidth returns the page width
	GetWidth() float64

	// GetHeight returns the page height
	GetHeight() float64

	// GetRawContent returns the undecoded drawing program of the page,
	// all content streams joined by newlines
	GetRawContent() ([]byte, error)

	// DrawRectangle draws a filled rectangle over the page
	DrawRectangle(opts RectOptions) error

	// DrawText draws a single line of text over the page
	DrawText(opts TextOptions) error
}

// FontMapper is implemented by pages that can map the character codes
// shown with their fonts to Unicode text
type FontMapper interface {
	// FontCMaps returns the ToUnicode maps keyed by font resource name
	FontCMaps() (FontCMaps, error)
}
