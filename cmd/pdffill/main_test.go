package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pyhub-apps/pdffill-golang/internal/testpdf"
)

func writeTemplate(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "template.pdf")
	if err := os.WriteFile(path, testpdf.Build(testpdf.HelloStream, testpdf.PlainStream), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunFill(t *testing.T) {
	dir := t.TempDir()
	template := writeTemplate(t, dir)
	values := filepath.Join(dir, "values.yaml")
	if err := os.WriteFile(values, []byte("first_name: Jane\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.pdf")

	var stdout, stderr bytes.Buffer
	code := run([]string{"fill", "-template", template, "-values", values, "-out", out}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Filled 1 placeholders on 2 pages") {
		t.Errorf("unexpected output %q", stdout.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestRunFillErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no command", nil, 2},
		{"unknown command", []string{"merge"}, 2},
		{"missing out", []string{"fill", "-template", "x.pdf"}, 1},
		{"missing template file", []string{"fill", "-template", filepath.Join(dir, "none.pdf"), "-out", filepath.Join(dir, "o.pdf")}, 1},
		{"bad set flag", []string{"fill", "-set", "novalue"}, 1},
		{"inspect without template", []string{"inspect"}, 1},
	}
	for _, tt := range tests {
		var stdout, stderr bytes.Buffer
		if code := run(tt.args, &stdout, &stderr); code != tt.code {
			t.Errorf("%s: exit code %d, want %d (stderr %q)", tt.name, code, tt.code, stderr.String())
		}
	}
}

func TestRunInspect(t *testing.T) {
	template := writeTemplate(t, t.TempDir())

	var stdout, stderr bytes.Buffer
	code := run([]string{"inspect", "-template", template, "-text-layer"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}

	got := stdout.String()
	for _, want := range []string{
		"Pages: 2",
		`"Hello ${first_name}" at (100.00, 700.00) size=12.00 line=4 [first_name]`,
		"no placeholders",
		"=== Text layer ===",
		"Page 1:\n  Hello",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestParseValues(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]string
		wantErr bool
	}{
		{
			name:  "yaml",
			input: "first_name: Jane\nage: 42\nempty:\n",
			want:  map[string]string{"first_name": "Jane", "age": "42", "empty": ""},
		},
		{
			name:  "json",
			input: `{"city": "Seoul", "vip": true}`,
			want:  map[string]string{"city": "Seoul", "vip": "true"},
		},
		{
			name:    "nested",
			input:   "address:\n  city: Seoul\n",
			wantErr: true,
		},
		{
			name:    "not a mapping",
			input:   "- a\n- b\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseValues([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseValues() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseValues() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestSetFlags(t *testing.T) {
	s := setFlags{}
	if err := s.Set("b=2"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("a=x=y"); err != nil {
		t.Fatal(err)
	}
	if s.String() != "a=x=y,b=2" {
		t.Errorf("String() = %q", s.String())
	}
	if err := s.Set("=v"); err == nil {
		t.Error("expected error for empty key")
	}
}
