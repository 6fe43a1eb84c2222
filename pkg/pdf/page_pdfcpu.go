package pdf

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// fontResourcePrefix names the font resources added for drawn text
const fontResourcePrefix = "FillF"

// PDFCPUPage implements the Page interface using pdfcpu. Draw calls are
// buffered as content stream operators and attached when the document
// is saved.
type PDFCPUPage struct {
	ctx        *model.Context
	pageNumber int
	pageDict   types.Dict
	inherited  types.Dict
	width      float64
	height     float64
	measure    TextMeasure

	// font objects shared by all pages of the document, keyed by base font
	fontRefs map[string]types.IndirectRef
	// resource name per base font on this page
	fontNames map[string]string

	ops bytes.Buffer
}

// NewPDFCPUPage creates a new page using pdfcpu context
func NewPDFCPUPage(ctx *model.Context, pageNumber int, measure TextMeasure) (*PDFCPUPage, error) {
	return newPDFCPUPage(ctx, pageNumber, measure, map[string]types.IndirectRef{})
}

func newPDFCPUPage(ctx *model.Context, pageNumber int, measure TextMeasure, fontRefs map[string]types.IndirectRef) (*PDFCPUPage, error) {
	if ctx == nil {
		return nil, errors.New("context is nil")
	}

	if pageNumber < 1 || pageNumber > ctx.PageCount {
		return nil, errors.Errorf("page number %d out of range [1, %d]", pageNumber, ctx.PageCount)
	}

	// Get page dictionary and inherited attributes
	pageDict, _, attrs, err := ctx.PageDict(pageNumber, true)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page dict")
	}
	if pageDict == nil {
		return nil, errors.Errorf("page %d has no page dict", pageNumber)
	}

	// Get page dimensions from MediaBox, default US Letter
	width, height := 612.0, 792.0
	var inherited types.Dict
	if attrs != nil {
		if attrs.MediaBox != nil {
			width = attrs.MediaBox.Width()
			height = attrs.MediaBox.Height()
		}
		inherited = attrs.Resources
	}

	return &PDFCPUPage{
		ctx:        ctx,
		pageNumber: pageNumber,
		pageDict:   pageDict,
		inherited:  inherited,
		width:      width,
		height:     height,
		measure:    measure,
		fontRefs:   fontRefs,
		fontNames:  map[string]string{},
	}, nil
}

// GetPageNumber returns the page number (1-based)
func (p *PDFCPUPage) GetPageNumber() int {
	return p.pageNumber
}

// GetWidth returns the page width
func (p *PDFCPUPage) GetWidth() float64 {
	return p.width
}

// GetHeight returns the page height
func (p *PDFCPUPage) GetHeight() float64 {
	return p.height
}

// GetRawContent returns the decoded content streams of the page joined
// by newlines. A stream that fails to decode fails the whole page.
func (p *PDFCPUPage) GetRawContent() ([]byte, error) {
	contents, found := p.pageDict.Find("Contents")
	if !found || contents == nil {
		return nil, nil
	}

	refs, err := p.contentRefs(contents)
	if err != nil {
		return nil, err
	}

	var streams [][]byte
	for _, ref := range refs {
		streamDict, _, err := p.ctx.DereferenceStreamDict(ref)
		if err != nil {
			return nil, errors.Wrap(err, "failed to dereference content stream")
		}
		if streamDict == nil {
			continue
		}
		decoded, err := decodeStream(streamDict)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode content stream %v", ref)
		}
		streams = append(streams, decoded)
	}

	return combineContentStreams(streams), nil
}

// contentRefs flattens the Contents entry into stream references
func (p *PDFCPUPage) contentRefs(contents types.Object) ([]types.IndirectRef, error) {
	switch v := contents.(type) {
	case types.IndirectRef:
		obj, err := p.ctx.Dereference(v)
		if err != nil {
			return nil, errors.Wrap(err, "failed to dereference contents")
		}
		if arr, ok := obj.(types.Array); ok {
			return p.contentRefs(arr)
		}
		return []types.IndirectRef{v}, nil
	case *types.IndirectRef:
		return p.contentRefs(*v)
	case types.Array:
		var refs []types.IndirectRef
		for _, item := range v {
			switch ref := item.(type) {
			case types.IndirectRef:
				refs = append(refs, ref)
			case *types.IndirectRef:
				refs = append(refs, *ref)
			}
		}
		return refs, nil
	default:
		return nil, errors.Errorf("unexpected contents type %T", contents)
	}
}

// decodeStream decodes a stream dictionary
func decodeStream(stream *types.StreamDict) ([]byte, error) {
	// If content is already available, return it
	if len(stream.Content) > 0 {
		return stream.Content, nil
	}

	if err := stream.Decode(); err != nil {
		return nil, err
	}

	return stream.Content, nil
}

// combineContentStreams combines multiple content streams
func combineContentStreams(streams [][]byte) []byte {
	var combined []byte
	for _, stream := range streams {
		combined = append(combined, stream...)
		combined = append(combined, '\n')
	}
	return combined
}

// FontCMaps parses the ToUnicode maps of the page's fonts. Fonts
// without one are left out.
func (p *PDFCPUPage) FontCMaps() (FontCMaps, error) {
	cmaps := FontCMaps{}

	res := p.inherited
	if obj, found := p.pageDict.Find("Resources"); found && obj != nil {
		d, err := p.ctx.DereferenceDict(obj)
		if err != nil {
			return nil, errors.Wrap(err, "failed to dereference resources")
		}
		if d != nil {
			res = d
		}
	}
	if res == nil {
		return cmaps, nil
	}

	fontsObj, found := res.Find("Font")
	if !found || fontsObj == nil {
		return cmaps, nil
	}
	fonts, err := p.ctx.DereferenceDict(fontsObj)
	if err != nil {
		return nil, errors.Wrap(err, "failed to dereference font resources")
	}

	for name, obj := range fonts {
		fontDict, err := p.ctx.DereferenceDict(obj)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to dereference font %s", name)
		}
		if fontDict == nil {
			continue
		}
		toUnicode, found := fontDict.Find("ToUnicode")
		if !found || toUnicode == nil {
			continue
		}
		sd, _, err := p.ctx.DereferenceStreamDict(toUnicode)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to dereference ToUnicode of font %s", name)
		}
		if sd == nil {
			continue
		}
		data, err := decodeStream(sd)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode ToUnicode of font %s", name)
		}
		cmap, err := ParseToUnicodeCMap(data)
		if err != nil {
			return nil, errors.Wrapf(err, "font %s", name)
		}
		cmaps[name] = cmap
	}

	return cmaps, nil
}

// DrawRectangle buffers a filled rectangle
func (p *PDFCPUPage) DrawRectangle(opts RectOptions) error {
	if err := opts.validate(); err != nil {
		return errors.Wrapf(err, "page %d: invalid rectangle", p.pageNumber)
	}

	fmt.Fprintf(&p.ops, "q\n%s %s %s rg\n%s %s %s %s re\nf\nQ\n",
		num(opts.FillColor.R), num(opts.FillColor.G), num(opts.FillColor.B),
		num(opts.X), num(opts.Y), num(opts.Width), num(opts.Height))
	return nil
}

// DrawText buffers a single line of text
func (p *PDFCPUPage) DrawText(opts TextOptions) error {
	if err := opts.validate(); err != nil {
		return errors.Wrapf(err, "page %d: invalid text", p.pageNumber)
	}

	baseFont := opts.Font
	if baseFont == "" {
		baseFont = DefaultFont
	}
	name, err := p.ensureFont(baseFont)
	if err != nil {
		return errors.Wrapf(err, "page %d: failed to add font %s", p.pageNumber, baseFont)
	}

	encoded, err := encodeWinAnsi(opts.Text)
	if err != nil {
		return errors.Wrapf(err, "page %d: failed to encode text", p.pageNumber)
	}

	fmt.Fprintf(&p.ops, "q\n%s %s %s rg\nBT\n/%s %s Tf\n",
		num(opts.Color.R), num(opts.Color.G), num(opts.Color.B), name, num(opts.FontSize))
	if scale := p.horizontalScale(opts); scale < 100 {
		fmt.Fprintf(&p.ops, "%s Tz\n", num(scale))
	}
	fmt.Fprintf(&p.ops, "%s %s Td\n(%s) Tj\nET\nQ\n", num(opts.X), num(opts.Y), escapeString(encoded))
	return nil
}

// horizontalScale returns the Tz percentage that fits the text in MaxWidth
func (p *PDFCPUPage) horizontalScale(opts TextOptions) float64 {
	if opts.MaxWidth <= 0 || p.measure == nil {
		return 100
	}
	width := p.measure(opts.Text, opts.FontSize)
	if width <= opts.MaxWidth {
		return 100
	}
	return opts.MaxWidth / width * 100
}

// ensureFont returns the resource name of baseFont on this page,
// adding a Type1 font resource when needed
func (p *PDFCPUPage) ensureFont(baseFont string) (string, error) {
	if name, ok := p.fontNames[baseFont]; ok {
		return name, nil
	}

	ref, ok := p.fontRefs[baseFont]
	if !ok {
		fontDict := types.Dict(map[string]types.Object{
			"Type":     types.Name("Font"),
			"Subtype":  types.Name("Type1"),
			"BaseFont": types.Name(baseFont),
			"Encoding": types.Name("WinAnsiEncoding"),
		})
		ir, err := p.ctx.IndRefForNewObject(fontDict)
		if err != nil {
			return "", err
		}
		ref = *ir
		p.fontRefs[baseFont] = ref
	}

	resources, err := p.resources()
	if err != nil {
		return "", err
	}
	fonts, err := p.subDict(resources, "Font")
	if err != nil {
		return "", err
	}

	name := fontResourcePrefix
	for i := 1; ; i++ {
		if _, taken := fonts[name]; !taken {
			break
		}
		name = fontResourcePrefix + strconv.Itoa(i)
	}
	fonts[name] = ref
	p.fontNames[baseFont] = name

	return name, nil
}

// resources returns the page's own resource dict, creating it from the
// inherited resources when the page has none
func (p *PDFCPUPage) resources() (types.Dict, error) {
	if obj, found := p.pageDict.Find("Resources"); found && obj != nil {
		d, err := p.ctx.DereferenceDict(obj)
		if err != nil {
			return nil, errors.Wrap(err, "failed to dereference resources")
		}
		if d != nil {
			return d, nil
		}
	}

	d := types.NewDict()
	for k, v := range p.inherited {
		d[k] = v
	}
	p.pageDict["Resources"] = d
	return d, nil
}

// subDict returns the named sub dictionary of parent as a dict owned by
// parent, so entries added to it are written out with the page
func (p *PDFCPUPage) subDict(parent types.Dict, key string) (types.Dict, error) {
	obj, found := parent.Find(key)
	if !found || obj == nil {
		d := types.NewDict()
		parent[key] = d
		return d, nil
	}

	d, err := p.ctx.DereferenceDict(obj)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dereference %s", key)
	}
	if d == nil {
		d = types.NewDict()
		parent[key] = d
	}
	return d, nil
}

// flush attaches buffered operators as a new content stream. The
// original content is wrapped in q/Q so its graphics state cannot leak
// into the overlay.
func (p *PDFCPUPage) flush() error {
	if p.ops.Len() == 0 {
		return nil
	}

	var existing []types.IndirectRef
	if contents, found := p.pageDict.Find("Contents"); found && contents != nil {
		refs, err := p.contentRefs(contents)
		if err != nil {
			return err
		}
		existing = refs
	}

	open, err := p.newStream([]byte("q\n"))
	if err != nil {
		return err
	}
	overlay, err := p.newStream(append([]byte("Q\n"), p.ops.Bytes()...))
	if err != nil {
		return err
	}

	arr := types.Array{open}
	for _, ref := range existing {
		arr = append(arr, ref)
	}
	arr = append(arr, overlay)
	p.pageDict["Contents"] = arr

	p.ops.Reset()
	return nil
}

func (p *PDFCPUPage) newStream(buf []byte) (types.IndirectRef, error) {
	sd, err := p.ctx.NewStreamDictForBuf(buf)
	if err != nil {
		return types.IndirectRef{}, errors.Wrap(err, "failed to create stream")
	}
	if err := sd.Encode(); err != nil {
		return types.IndirectRef{}, errors.Wrap(err, "failed to encode stream")
	}
	ir, err := p.ctx.IndRefForNewObject(*sd)
	if err != nil {
		return types.IndirectRef{}, errors.Wrap(err, "failed to register stream")
	}
	return *ir, nil
}

// encodeWinAnsi converts text to the byte encoding of the drawn font.
// Characters WinAnsi cannot represent are replaced.
func encodeWinAnsi(text string) (string, error) {
	return encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()).String(text)
}

// escapeString escapes a byte string for a literal string operand
func escapeString(s string) string {
	var buf bytes.Buffer
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '(' || c == ')' || c == '\\':
			buf.WriteByte('\\')
			buf.WriteByte(c)
		case c < 0x20 || c > 0x7e:
			fmt.Fprintf(&buf, "\\%03o", c)
		default:
			buf.WriteByte(c)
		}
	}
	return buf.String()
}

// num formats a coordinate without exponent notation
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
}
