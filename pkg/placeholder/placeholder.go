// Package placeholder finds and resolves ${identifier} tokens in shown text.
package placeholder

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pyhub-apps/pdffill-golang/pkg/content"
)

// Default delimiters
const (
	DefaultOpen  = "${"
	DefaultClose = "}"
)

// Table maps placeholder identifiers to their values
type Table map[string]string

// Lookup returns the value for key, or "" when absent
func (t Table) Lookup(key string) string {
	return t[key]
}

// Syntax is a compiled delimiter pair. It holds no match state and is
// safe for concurrent use.
type Syntax struct {
	open  string
	close string
	re    *regexp.Regexp
}

// NewSyntax compiles a delimiter pair. Identifiers between the
// delimiters are restricted to lowercase letters and underscores.
func NewSyntax(open, close string) (*Syntax, error) {
	if open == "" || close == "" {
		return nil, fmt.Errorf("placeholder delimiters must not be empty")
	}
	if strings.ContainsAny(close[:1], "abcdefghijklmnopqrstuvwxyz_") {
		return nil, fmt.Errorf("closing delimiter %q must not start with an identifier character", close)
	}

	re, err := regexp.Compile(regexp.QuoteMeta(open) + `([a-z_]+)` + regexp.QuoteMeta(close))
	if err != nil {
		return nil, fmt.Errorf("failed to compile placeholder pattern: %w", err)
	}
	return &Syntax{open: open, close: close, re: re}, nil
}

// MustSyntax is like NewSyntax but panics on error
func MustSyntax(open, close string) *Syntax {
	s, err := NewSyntax(open, close)
	if err != nil {
		panic(err)
	}
	return s
}

// Default is the ${identifier} syntax
var Default = MustSyntax(DefaultOpen, DefaultClose)

// String returns the syntax as an example token
func (s *Syntax) String() string {
	return s.open + "name" + s.close
}

// Contains reports whether text holds at least one well-formed token
func (s *Syntax) Contains(text string) bool {
	return s.re.MatchString(text)
}

// Identifiers returns the identifiers of all tokens in text, in order
func (s *Syntax) Identifiers(text string) []string {
	matches := s.re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m[1]
	}
	return ids
}

// Resolve replaces every token in text with its table value. Missing
// identifiers resolve to the empty string. Values are inserted
// literally and never re-expanded.
func (s *Syntax) Resolve(text string, table Table) string {
	return s.re.ReplaceAllStringFunc(text, func(token string) string {
		id := token[len(s.open) : len(token)-len(s.close)]
		return table.Lookup(id)
	})
}

// Match is a run together with its resolved replacement
type Match struct {
	Run         content.Run
	Replacement string
	Identifiers []string
}

// Match resolves a run. It returns false when the run holds no token.
func (s *Syntax) Match(run content.Run, table Table) (Match, bool) {
	ids := s.Identifiers(run.Text)
	if len(ids) == 0 {
		return Match{}, false
	}
	return Match{
		Run:         run,
		Replacement: s.Resolve(run.Text, table),
		Identifiers: ids,
	}, true
}

// MatchAll resolves every run that holds a token, keeping order
func (s *Syntax) MatchAll(runs []content.Run, table Table) []Match {
	var matches []Match
	for _, run := range runs {
		if m, ok := s.Match(run, table); ok {
			matches = append(matches, m)
		}
	}
	return matches
}

// Contains reports whether text holds a ${identifier} token
func Contains(text string) bool {
	return Default.Contains(text)
}

// Resolve replaces ${identifier} tokens in text using table
func Resolve(text string, table Table) string {
	return Default.Resolve(text, table)
}
