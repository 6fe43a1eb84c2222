package pdffill

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pyhub-apps/pdffill-golang/internal/testpdf"
	"github.com/pyhub-apps/pdffill-golang/pkg/pdf"
)

func TestFill(t *testing.T) {
	template := testpdf.Build(testpdf.HelloStream, testpdf.PlainStream)

	out, report, err := Fill(template, Table{"first_name": "Jane"})
	if err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	if report.OverlayCount() != 1 {
		t.Errorf("Expected 1 overlay, got %d", report.OverlayCount())
	}

	doc, err := pdf.Load(out, pdf.PDFCPU{})
	if err != nil {
		t.Fatalf("Failed to load filled PDF: %v", err)
	}
	defer doc.Close()

	if doc.PageCount() != 2 {
		t.Fatalf("Expected 2 pages, got %d", doc.PageCount())
	}

	raw, err := doc.GetPages()[0].GetRawContent()
	if err != nil {
		t.Fatalf("GetRawContent() error = %v", err)
	}
	text := string(raw)
	if !strings.Contains(text, "(Hello Jane) Tj") {
		t.Errorf("Expected replacement text in page content, got:\n%s", text)
	}
	if !strings.Contains(text, "98 698 142.8 16 re") {
		t.Errorf("Expected cover rectangle in page content, got:\n%s", text)
	}
}

func TestFillKeepsUntouchedPages(t *testing.T) {
	out, _, err := Fill(testpdf.Build(testpdf.PlainStream), Table{})
	if err != nil {
		t.Fatalf("Fill() error = %v", err)
	}

	doc, err := pdf.Load(out, pdf.PDFCPU{})
	if err != nil {
		t.Fatalf("Failed to load filled PDF: %v", err)
	}
	raw, err := doc.GetPages()[0].GetRawContent()
	if err != nil {
		t.Fatalf("GetRawContent() error = %v", err)
	}
	if strings.Contains(string(raw), " re\n") {
		t.Errorf("page without placeholders gained an overlay:\n%s", raw)
	}
}

func TestFillTemplateUnavailable(t *testing.T) {
	if _, _, err := Fill(nil, Table{}); !IsKind(err, TemplateUnavailable) {
		t.Errorf("Fill(nil) error = %v, want template unavailable", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.pdf")
	if _, _, err := FillFile(missing, Table{}); !IsKind(err, TemplateUnavailable) {
		t.Errorf("FillFile(missing) error = %v, want template unavailable", err)
	}

	if _, err := Inspect(nil, nil); !IsKind(err, TemplateUnavailable) {
		t.Errorf("Inspect(nil) error = %v, want template unavailable", err)
	}
}

func TestFillLoadFailure(t *testing.T) {
	if _, _, err := Fill([]byte("not a pdf"), Table{}); !IsKind(err, LoadFailure) {
		t.Errorf("Fill(garbage) error = %v, want load failure", err)
	}
}

func TestFillFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.pdf")
	if err := os.WriteFile(path, testpdf.Build(testpdf.HelloStream), 0o644); err != nil {
		t.Fatal(err)
	}

	out, report, err := FillFile(path, Table{"first_name": "Ann"}, WithMetrics("sfnt"))
	if err != nil {
		t.Fatalf("FillFile() error = %v", err)
	}
	if len(out) == 0 || report.OverlayCount() != 1 {
		t.Errorf("unexpected result: %d bytes, report %+v", len(out), report)
	}
}

func TestInspect(t *testing.T) {
	pages, err := Inspect(testpdf.Build(testpdf.HelloStream, testpdf.PlainStream), nil)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(pages))
	}
	if len(pages[0].Matches) != 1 || len(pages[1].Matches) != 0 {
		t.Fatalf("unexpected matches %+v", pages)
	}

	m := pages[0].Matches[0]
	if m.Run.X != 100 || m.Run.Y != 700 || m.Run.FontSize != 12 {
		t.Errorf("run at (%v, %v) size %v", m.Run.X, m.Run.Y, m.Run.FontSize)
	}
	if m.Replacement != "Hello " {
		t.Errorf("Replacement = %q", m.Replacement)
	}
}

func TestNewFillerRejectsBadOptions(t *testing.T) {
	if _, err := NewFiller(WithFont("Wingdings")); err == nil {
		t.Error("expected error for non-standard font")
	}
}

func TestFillThroughToUnicode(t *testing.T) {
	template := testpdf.BuildWithToUnicode(testpdf.IdentityCMap,
		"BT\n/F1 12 Tf\n10 10 Td\n<0024007B0078007D> Tj\nET")

	pages, err := Inspect(template, Table{"x": "ok"})
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if len(pages) != 1 || len(pages[0].Matches) != 1 {
		t.Fatalf("unexpected matches %+v", pages)
	}
	if m := pages[0].Matches[0]; m.Run.Text != "${x}" || m.Replacement != "ok" {
		t.Errorf("unexpected match %+v", m)
	}
}

func TestFillNonPositiveFontSize(t *testing.T) {
	for _, size := range []string{"0", "-12"} {
		t.Run(size, func(t *testing.T) {
			stream := "BT\n/F1 " + size + " Tf\n100 700 Td\n(${first_name}) Tj\nET\n"
			template := testpdf.Build(stream, testpdf.HelloStream)

			out, report, err := Fill(template, Table{"first_name": "Jane"}, WithDefaultFontSize(12))
			if err != nil {
				t.Fatalf("Fill() error = %v", err)
			}
			if len(report.Pages) != 2 || report.OverlayCount() != 2 {
				t.Errorf("pages = %d, overlays = %d; want 2, 2", len(report.Pages), report.OverlayCount())
			}

			doc, err := pdf.Load(out, pdf.PDFCPU{})
			if err != nil {
				t.Fatalf("Failed to load filled PDF: %v", err)
			}
			defer doc.Close()

			raw, err := doc.GetPages()[0].GetRawContent()
			if err != nil {
				t.Fatalf("GetRawContent() error = %v", err)
			}
			text := string(raw)
			for _, want := range []string{"98 698 99.6 16 re", "/FillF 12 Tf", "(Jane) Tj"} {
				if !strings.Contains(text, want) {
					t.Errorf("page content missing %q:\n%s", want, text)
				}
			}
		})
	}
}
