// Package testpdf builds small uncompressed PDF documents for tests.
package testpdf

import (
	"bytes"
	"fmt"
)

// Build assembles a PDF with one US Letter page per content stream.
// Every page references a Helvetica font resource named F1. Xref
// offsets are computed as the objects are written.
func Build(pageStreams ...string) []byte {
	return build("", pageStreams)
}

// BuildWithToUnicode is Build with cmap attached to F1 as its
// ToUnicode stream
func BuildWithToUnicode(cmap string, pageStreams ...string) []byte {
	return build(cmap, pageStreams)
}

func build(cmap string, pageStreams []string) []byte {
	font := "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"
	extra := "null"
	if cmap != "" {
		font = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /ToUnicode 4 0 R >>"
		extra = stream(cmap)
	}

	// 1 catalog, 2 page tree, 3 font, 4 cmap, then page and content pairs
	kids := ""
	for i := range pageStreams {
		kids += fmt.Sprintf("%d 0 R ", 5+2*i)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>", kids, len(pageStreams)),
		font,
		extra,
	}
	for i, s := range pageStreams {
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 6+2*i),
			stream(s),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func stream(content string) string {
	return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content)+1, content)
}

// Sample content streams
const (
	HelloStream = `BT
/F1 12 Tf
100 700 Td
(Hello ${first_name}) Tj
ET`

	PlainStream = `BT
/F1 12 Tf
72 720 Td
(No placeholders here) Tj
ET`
)

// IdentityCMap maps two byte codes 0x0020..0x007E to the same ASCII
// characters
const IdentityCMap = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
1 beginbfrange
<0020> <007E> <0020>
endbfrange
endcmap
end
end`
