package placeholder

import (
	"reflect"
	"testing"

	"github.com/pyhub-apps/pdffill-golang/pkg/content"
)

func TestResolve(t *testing.T) {
	table := Table{
		"first_name": "Jane",
		"last_name":  "Doe",
		"date":       "2024-01-31",
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single token", "Hello ${first_name}", "Hello Jane"},
		{"missing key keeps surrounding text", "Hello ${middle_name}", "Hello "},
		{"two tokens", "${first_name} ${last_name}", "Jane Doe"},
		{"adjacent tokens", "${first_name}${last_name}", "JaneDoe"},
		{"no token", "Dear customer", "Dear customer"},
		{"uppercase is not an identifier", "${Name}", "${Name}"},
		{"digits are not an identifier", "${id2}", "${id2}"},
		{"empty identifier", "${}", "${}"},
		{"single brace", "{first_name}", "{first_name}"},
		{"dollar only", "$first_name", "$first_name"},
		{"nested opener", "${${date}", "${2024-01-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.input, table); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveDoesNotReexpandValues(t *testing.T) {
	table := Table{"a": "${b}", "b": "x"}
	if got := Resolve("${a}", table); got != "${b}" {
		t.Errorf("Resolve() = %q, want literal value", got)
	}
}

func TestResolvedTextHasNoTokens(t *testing.T) {
	table := Table{"first_name": "Jane"}
	inputs := []string{
		"Hello ${first_name}",
		"${unknown} and ${first_name}",
		"${a}${b}${c}",
		"prefix ${x_y_z} suffix",
	}
	for _, input := range inputs {
		out := Resolve(input, table)
		if Contains(out) {
			t.Errorf("Resolve(%q) = %q still contains a token", input, out)
		}
		if ids := Default.Identifiers(out); len(ids) != 0 {
			t.Errorf("re-matching %q found %v", out, ids)
		}
	}
}

func TestResolveIsStateless(t *testing.T) {
	// Repeated calls on the same subject must not depend on prior calls.
	table := Table{"x": "1"}
	for i := 0; i < 3; i++ {
		if !Contains("${x}") {
			t.Fatalf("call %d: Contains() = false", i)
		}
		if got := Resolve("${x}", table); got != "1" {
			t.Fatalf("call %d: Resolve() = %q", i, got)
		}
	}
}

func TestIdentifiers(t *testing.T) {
	got := Default.Identifiers("${a} text ${b_c} ${A} ${a}")
	want := []string{"a", "b_c", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Identifiers() = %v, want %v", got, want)
	}
	if ids := Default.Identifiers("plain"); ids != nil {
		t.Errorf("expected nil, got %v", ids)
	}
}

func TestNewSyntax(t *testing.T) {
	s, err := NewSyntax("{{", "}}")
	if err != nil {
		t.Fatalf("NewSyntax() error = %v", err)
	}
	if got := s.Resolve("Dear {{name}}, {{x}}", Table{"name": "Ann"}); got != "Dear Ann, " {
		t.Errorf("Resolve() = %q", got)
	}
	if s.Contains("${name}") {
		t.Error("custom syntax must not match the default delimiters")
	}
	if s.String() != "{{name}}" {
		t.Errorf("String() = %q", s.String())
	}

	bad := [][2]string{{"", "}"}, {"${", ""}, {"<", "a>"}, {"<", "_>"}}
	for _, pair := range bad {
		if _, err := NewSyntax(pair[0], pair[1]); err == nil {
			t.Errorf("NewSyntax(%q, %q) expected error", pair[0], pair[1])
		}
	}
}

func TestMatchAll(t *testing.T) {
	runs := []content.Run{
		{Text: "Static", X: 1, Y: 1, FontSize: 12},
		{Text: "Hello ${first_name}", X: 100, Y: 700, FontSize: 12},
		{Text: "Id: ${ref}", X: 100, Y: 680, FontSize: 10},
	}
	matches := Default.MatchAll(runs, Table{"first_name": "Jane"})
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Replacement != "Hello Jane" {
		t.Errorf("Replacement = %q", matches[0].Replacement)
	}
	if matches[1].Replacement != "Id: " {
		t.Errorf("Replacement = %q", matches[1].Replacement)
	}
	if !reflect.DeepEqual(matches[1].Identifiers, []string{"ref"}) {
		t.Errorf("Identifiers = %v", matches[1].Identifiers)
	}
	if matches[1].Run.Y != 680 {
		t.Errorf("run not carried over: %+v", matches[1].Run)
	}
}
